// Package event builds the outbox events written alongside booking changes.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
)

var now = time.Now

// New wraps payload in a pending outbox event of eventType.
func New(eventType string, payload interface{}) (*model.OutboxEvent, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	ts := now().UTC()
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    model.OutboxStatusPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// ForBooking builds booking.created when previous is empty and booking.status_changed
// otherwise.
func ForBooking(b *model.Booking, previous model.BookingStatus) (*model.OutboxEvent, error) {
	eventType := model.EventBookingCreated
	if previous != "" {
		eventType = model.EventBookingStatusChanged
	}
	return New(eventType, model.BookingEvent{
		BookingID:      b.ID,
		DoctorID:       b.DoctorID,
		PatientName:    b.PatientName,
		Email:          b.Email,
		Service:        b.Service,
		BookingDate:    b.BookingDate.String(),
		BookingTime:    b.BookingTime,
		Status:         b.Status,
		PreviousStatus: previous,
		OccurredAt:     now().UTC(),
	})
}

var _ repository.BookingEventFunc = ForBooking
