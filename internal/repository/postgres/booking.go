package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
)

const bookingColumns = `
	b.id, b.patient_name, b.email, b.phone, b.service, b.doctor_id,
	b.booking_date, b.booking_time, b.notes, b.status, b.created_at, b.updated_at,
	d.name AS doctor_name`

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking, newEvent repository.BookingEventFunc) error {
	query := `
		INSERT INTO bookings (
			patient_name, email, phone, service, doctor_id,
			booking_date, booking_time, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	booking.Status = model.BookingStatusPending

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			booking.PatientName,
			booking.Email,
			booking.Phone,
			booking.Service,
			booking.DoctorID,
			booking.BookingDate,
			booking.BookingTime,
			booking.Notes,
			booking.Status,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return err
		}
		return writeBookingEvent(ctx, tx, newEvent, booking, "")
	})
	return mapError(err, "booking", "failed to create booking")
}

func (r *bookingRepository) Get(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings b
		JOIN doctors d ON d.id = b.doctor_id
		WHERE b.id = $1
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, mapError(err, "booking", "failed to get booking")
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.DoctorID != 0 {
		args = append(args, filter.DoctorID)
		conditions = append(conditions, fmt.Sprintf("b.doctor_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conditions = append(conditions, fmt.Sprintf("b.booking_date = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bookings b ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, mapError(err, "booking", "failed to count bookings")
	}

	page := filter.Pagination.Normalize()
	args = append(args, page.PageSize, page.Offset())
	query := fmt.Sprintf(`SELECT %s
		FROM bookings b
		JOIN doctors d ON d.id = b.doctor_id
		%s
		ORDER BY b.booking_date DESC, b.booking_time ASC, b.id ASC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, where, len(args)-1, len(args))

	bookings := []*model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, mapError(err, "booking", "failed to list bookings")
	}
	return bookings, total, nil
}

func (r *bookingRepository) ActiveTimes(ctx context.Context, doctorID int64, date model.Date) ([]string, error) {
	query := `
		SELECT booking_time
		FROM bookings
		WHERE doctor_id = $1 AND booking_date = $2 AND status <> 'cancelled'
		ORDER BY booking_time
	`
	times := []string{}
	if err := r.db.SelectContext(ctx, &times, query, doctorID, date); err != nil {
		return nil, mapError(err, "booking", "failed to read booked times")
	}
	return times, nil
}

func (r *bookingRepository) HasActiveBooking(ctx context.Context, doctorID int64, date model.Date, bookingTime string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE doctor_id = $1 AND booking_date = $2 AND booking_time = $3
			AND status <> 'cancelled'
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, doctorID, date, bookingTime); err != nil {
		return false, mapError(err, "booking", "failed to check slot")
	}
	return exists, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, newEvent repository.BookingEventFunc) (*model.Booking, bool, error) {
	var (
		booking model.Booking
		changed bool
	)
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT` + bookingColumns + `
			FROM bookings b
			JOIN doctors d ON d.id = b.doctor_id
			WHERE b.id = $1
			FOR UPDATE OF b
		`
		if err := tx.GetContext(ctx, &booking, query, id); err != nil {
			return err
		}
		if booking.Status == status {
			return nil
		}

		previous := booking.Status
		update := `
			UPDATE bookings
			SET status = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING updated_at
		`
		if err := tx.QueryRowxContext(ctx, update, status, id).Scan(&booking.UpdatedAt); err != nil {
			return err
		}
		booking.Status = status
		changed = true
		return writeBookingEvent(ctx, tx, newEvent, &booking, previous)
	})
	if err != nil {
		return nil, false, mapError(err, "booking", "failed to update booking status")
	}
	return &booking, changed, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "booking", "failed to delete booking")
	}
	return expectAffected(res, "booking")
}

func writeBookingEvent(ctx context.Context, tx *sqlx.Tx, newEvent repository.BookingEventFunc, booking *model.Booking, previous model.BookingStatus) error {
	if newEvent == nil {
		return nil
	}
	event, err := newEvent(booking, previous)
	if err != nil {
		return fmt.Errorf("failed to build booking event: %w", err)
	}
	return insertOutboxEvent(ctx, tx, event)
}
