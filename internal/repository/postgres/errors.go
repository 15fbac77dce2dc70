package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/jwalitptl/dental-api/pkg/errors"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	activeSlotConstraint  = "bookings_active_slot_key"
	doctorEmailConstraint = "doctors_email_key"
	bookingDoctorFK       = "bookings_doctor_id_fkey"
)

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// mapError converts driver errors into application errors. resource names the entity for
// sql.ErrNoRows; op describes the failed statement for internal errors.
func mapError(err error, resource, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case uniqueViolation:
			switch pqErr.Constraint {
			case activeSlotConstraint:
				return apperrors.Conflict("time slot is already booked", err)
			case doctorEmailConstraint:
				return apperrors.Conflict("a doctor with this email already exists", err)
			}
			return apperrors.Conflict(fmt.Sprintf("%s already exists", resource), err)
		case foreignKeyViolation:
			if pqErr.Constraint == bookingDoctorFK {
				return apperrors.NotFound("doctor", err)
			}
			return apperrors.Conflict(fmt.Sprintf("%s is still referenced", resource), err)
		}
	}
	return apperrors.Internal(fmt.Errorf("%s: %w", op, err))
}

// expectAffected turns a zero row count into NotFound.
func expectAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to read affected rows: %w", err))
	}
	if n == 0 {
		return apperrors.NotFound(resource, nil)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	pqErr, ok := asPQError(err)
	return ok && pqErr.Code == foreignKeyViolation
}
