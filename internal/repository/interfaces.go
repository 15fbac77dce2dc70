package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/dental-api/internal/model"
)

// BookingEventFunc builds the outbox event for a booking write. previous is empty on create.
type BookingEventFunc func(booking *model.Booking, previous model.BookingStatus) (*model.OutboxEvent, error)

// All repository interfaces in one file
type (
	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id int64) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id int64) error
		// List returns every service, or only those in category when it is non-empty.
		List(ctx context.Context, category model.ServiceCategory) ([]*model.Service, error)
		// MissingIDs returns the ids in ids that do not name a service.
		MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id int64) (*model.Doctor, error)
		Exists(ctx context.Context, id int64) (bool, error)
		// Update writes the doctor row and, when replaceServices is set, replaces its service set.
		Update(ctx context.Context, doctor *model.Doctor, replaceServices bool) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Doctor, error)
		ListByService(ctx context.Context, serviceID int64) ([]*model.Doctor, error)
	}

	// BookingRepository persists bookings. Writes that change a booking record their outbox
	// event in the same transaction.
	BookingRepository interface {
		// Create inserts booking as pending and fills its id and timestamps.
		Create(ctx context.Context, booking *model.Booking, newEvent BookingEventFunc) error
		Get(ctx context.Context, id int64) (*model.Booking, error)
		List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, int, error)
		// ActiveTimes returns the booking times on date held by non-cancelled bookings.
		ActiveTimes(ctx context.Context, doctorID int64, date model.Date) ([]string, error)
		HasActiveBooking(ctx context.Context, doctorID int64, date model.Date, bookingTime string) (bool, error)
		// UpdateStatus sets the status and reports whether it changed. No event is written
		// when the booking already has status.
		UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, newEvent BookingEventFunc) (*model.Booking, bool, error)
		Delete(ctx context.Context, id int64) error
	}

	TestimonialRepository interface {
		Create(ctx context.Context, testimonial *model.Testimonial) error
		Get(ctx context.Context, id int64) (*model.Testimonial, error)
		Update(ctx context.Context, testimonial *model.Testimonial) error
		SetApproved(ctx context.Context, id int64, approved bool) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filter model.TestimonialFilter) ([]*model.Testimonial, error)
	}

	AdminRepository interface {
		Create(ctx context.Context, admin *model.Admin) error
		Get(ctx context.Context, id int64) (*model.Admin, error)
		GetByUsername(ctx context.Context, username string) (*model.Admin, error)
		UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	}

	OutboxRepository interface {
		// LockPending claims up to limit pending events. Rows stay locked until the batch
		// is committed or rolled back, so concurrent workers never see the same event.
		LockPending(ctx context.Context, limit int) (OutboxBatch, error)
		PendingCount(ctx context.Context) (int, error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	OutboxBatch interface {
		Events() []*model.OutboxEvent
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		// MarkFailed records reason and bumps the retry count. The event stays pending
		// unless final is set.
		MarkFailed(ctx context.Context, id uuid.UUID, reason string, final bool) error
		Commit() error
		Rollback() error
	}
)
