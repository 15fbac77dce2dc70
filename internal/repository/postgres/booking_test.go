package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-api/internal/model"
	apperrors "github.com/jwalitptl/dental-api/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func testBooking(t *testing.T) *model.Booking {
	t.Helper()
	date, err := model.ParseDate("2025-03-10")
	require.NoError(t, err)
	return &model.Booking{
		PatientName: "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "555-0100",
		Service:     "Cleaning",
		DoctorID:    1,
		BookingDate: date,
		BookingTime: "09:00",
	}
}

func testEvent(b *model.Booking, previous model.BookingStatus) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(model.BookingEvent{BookingID: b.ID, Status: b.Status, PreviousStatus: previous})
	if err != nil {
		return nil, err
	}
	return &model.OutboxEvent{EventType: model.EventBookingCreated, Payload: payload}, nil
}

var bookingRowColumns = []string{
	"id", "patient_name", "email", "phone", "service", "doctor_id",
	"booking_date", "booking_time", "notes", "status", "created_at", "updated_at", "doctor_name",
}

func TestBookingCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	b := testBooking(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs("Jane Doe", "jane@example.com", "555-0100", "Cleaning", int64(1),
			"2025-03-10", "09:00", nil, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(sqlmock.AnyArg(), model.EventBookingCreated, sqlmock.AnyArg(), "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), b, testEvent))
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{
			name:  "active slot taken",
			err:   &pq.Error{Code: "23505", Constraint: "bookings_active_slot_key"},
			check: apperrors.IsConflict,
		},
		{
			name:  "unknown doctor",
			err:   &pq.Error{Code: "23503", Constraint: "bookings_doctor_id_fkey"},
			check: apperrors.IsNotFound,
		},
		{
			name:  "connection lost",
			err:   errors.New("connection reset by peer"),
			check: func(err error) bool { return apperrors.CodeOf(err) == apperrors.ErrInternal },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewBookingRepository(db)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).WillReturnError(tt.err)
			mock.ExpectRollback()

			err := repo.Create(context.Background(), testBooking(t), testEvent)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingCreateRollsBackWhenEventFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), testBooking(t), testEvent)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusSameStatusIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF b")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(3, "Jane", "jane@example.com", "555", "Cleaning", 1, now, "09:00", nil, "confirmed", now, now, "Dr. Smith"))
	mock.ExpectCommit()

	b, changed, err := repo.UpdateStatus(context.Background(), 3, model.BookingStatusConfirmed, testEvent)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusWritesEvent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF b")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(3, "Jane", "jane@example.com", "555", "Cleaning", 1, now, "09:00", nil, "pending", now, now, "Dr. Smith"))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs("confirmed", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var gotPrevious model.BookingStatus
	b, changed, err := repo.UpdateStatus(context.Background(), 3, model.BookingStatusConfirmed,
		func(b *model.Booking, previous model.BookingStatus) (*model.OutboxEvent, error) {
			gotPrevious = previous
			return testEvent(b, previous)
		})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	assert.Equal(t, model.BookingStatusPending, gotPrevious)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusReactivationConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF b")).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(3, "Jane", "jane@example.com", "555", "Cleaning", 1, now, "09:00", nil, "cancelled", now, now, "Dr. Smith"))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_active_slot_key"})
	mock.ExpectRollback()

	_, _, err := repo.UpdateStatus(context.Background(), 3, model.BookingStatusPending, testEvent)
	assert.True(t, apperrors.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF b")).WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	mock.ExpectRollback()

	_, _, err := repo.UpdateStatus(context.Background(), 99, model.BookingStatusConfirmed, testEvent)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingActiveTimes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	date, _ := model.ParseDate("2025-03-10")

	mock.ExpectQuery(regexp.QuoteMeta("status <> 'cancelled'")).
		WithArgs(int64(1), "2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"booking_time"}).AddRow("09:00").AddRow("14:30"))

	times, err := repo.ActiveTimes(context.Background(), 1, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:30"}, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.True(t, apperrors.IsNotFound(repo.Delete(context.Background(), 5)))
}

func TestBookingListAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings b WHERE b.doctor_id = $1 AND b.status = $2")).
		WithArgs(int64(1), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs(int64(1), "pending", 20, 0).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(3, "Jane", "jane@example.com", "555", "Cleaning", 1, now, "09:00", nil, "pending", now, now, "Dr. Smith"))

	bookings, total, err := repo.List(context.Background(), model.BookingFilter{DoctorID: 1, Status: model.BookingStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Dr. Smith", bookings[0].DoctorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
