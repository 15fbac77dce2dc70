// Package booking implements slot availability, booking creation and the booking
// lifecycle. The no-double-booking guarantee rests on the store's unique index over active
// (doctor, date, time) rows; the pre-check here only produces a friendlier error earlier.
package booking

import (
	"context"
	"fmt"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/internal/schedule"
	"github.com/jwalitptl/dental-api/internal/service/event"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/metrics"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

type Service struct {
	bookings  repository.BookingRepository
	doctors   repository.DoctorRepository
	schedule  schedule.Schedule
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(
	bookings repository.BookingRepository,
	doctors repository.DoctorRepository,
	sched schedule.Schedule,
	v validator.Validator,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		doctors:   doctors,
		schedule:  sched,
		validator: v,
		metrics:   m,
		logger:    log,
	}
}

// GetAvailability lists every slot of the doctor's day in grid order, marking those held by
// an active booking as unavailable.
func (s *Service) GetAvailability(ctx context.Context, doctorID int64, date model.Date) ([]model.SlotAvailability, error) {
	if err := s.ensureDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	booked, err := s.bookings.ActiveTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	slots := s.schedule.Slots(date, doctorID)
	availability := make([]model.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		_, isTaken := taken[slot]
		availability = append(availability, model.SlotAvailability{
			Time:      slot,
			Available: !isTaken,
		})
	}

	s.metrics.AvailabilityQueries.Inc()
	return availability, nil
}

// CreateBooking validates req and stores a pending booking for the requested slot.
func (s *Service) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	req.Normalize()
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	date, err := model.ParseDate(req.BookingDate)
	if err != nil {
		return nil, errors.Validation("invalid request", "booking_date must be YYYY-MM-DD")
	}
	bookingTime, err := model.NormalizeSlotTime(req.BookingTime)
	if err != nil {
		return nil, errors.Validation("invalid request", "booking_time must be HH:MM")
	}
	if !s.schedule.Contains(date, req.DoctorID, bookingTime) {
		return nil, errors.Validation("invalid request", fmt.Sprintf("booking_time %s is not a bookable slot", bookingTime))
	}

	if err := s.ensureDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	taken, err := s.bookings.HasActiveBooking(ctx, req.DoctorID, date, bookingTime)
	if err != nil {
		return nil, err
	}
	if taken {
		s.metrics.BookingConflicts.Inc()
		return nil, errors.Conflict("time slot is already booked", nil)
	}

	booking := &model.Booking{
		PatientName: req.PatientName,
		Email:       req.Email,
		Phone:       req.Phone,
		Service:     req.Service,
		DoctorID:    req.DoctorID,
		BookingDate: date,
		BookingTime: bookingTime,
		Status:      model.BookingStatusPending,
	}
	if req.Notes != "" {
		notes := req.Notes
		booking.Notes = &notes
	}

	if err := s.bookings.Create(ctx, booking, event.ForBooking); err != nil {
		if errors.IsConflict(err) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.metrics.BookingsCreated.Inc()
	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"doctor_id", booking.DoctorID,
		"date", booking.BookingDate.String(),
		"time", booking.BookingTime)
	return booking, nil
}

// UpdateStatus moves a booking to status. Any status may follow any other; setting the
// current status again succeeds without side effects.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	if !status.Valid() {
		return nil, errors.Validation("invalid request", invalidStatusField)
	}

	booking, changed, err := s.bookings.UpdateStatus(ctx, id, status, event.ForBooking)
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.BookingStatusChanges.WithLabelValues(string(status)).Inc()
		s.logger.Info("booking status changed", "booking_id", id, "status", string(status))
	}
	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.Validation("invalid request", invalidStatusField)
	}
	filter.Pagination = filter.Pagination.Normalize()
	return s.bookings.List(ctx, filter)
}

func (s *Service) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("booking deleted", "booking_id", id)
	return nil
}

const invalidStatusField = "status must be one of [pending confirmed cancelled completed]"

func (s *Service) ensureDoctor(ctx context.Context, doctorID int64) error {
	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFound("doctor", nil)
	}
	return nil
}
