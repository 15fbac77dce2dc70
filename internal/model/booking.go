package model

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// BookingStatuses lists every accepted status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Active reports whether a booking in this status occupies its slot.
func (s BookingStatus) Active() bool {
	return s != BookingStatusCancelled
}

type Booking struct {
	ID          int64         `db:"id" json:"id"`
	PatientName string        `db:"patient_name" json:"patient_name"`
	Email       string        `db:"email" json:"email"`
	Phone       string        `db:"phone" json:"phone"`
	Service     string        `db:"service" json:"service"`
	DoctorID    int64         `db:"doctor_id" json:"doctor_id"`
	DoctorName  string        `db:"doctor_name" json:"doctor_name,omitempty"`
	BookingDate Date          `db:"booking_date" json:"booking_date"`
	BookingTime string        `db:"booking_time" json:"booking_time"`
	Notes       *string       `db:"notes" json:"notes,omitempty"`
	Status      BookingStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

type CreateBookingRequest struct {
	PatientName string `json:"patient_name" validate:"notblank"`
	Email       string `json:"email" validate:"notblank,email"`
	Phone       string `json:"phone" validate:"notblank"`
	Service     string `json:"service" validate:"notblank"`
	DoctorID    int64  `json:"doctor_id" validate:"required"`
	BookingDate string `json:"booking_date" validate:"notblank"`
	BookingTime string `json:"booking_time" validate:"notblank"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// Normalize trims every free-text field in place.
func (r *CreateBookingRequest) Normalize() {
	r.PatientName = strings.TrimSpace(r.PatientName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Service = strings.TrimSpace(r.Service)
	r.BookingDate = strings.TrimSpace(r.BookingDate)
	r.BookingTime = strings.TrimSpace(r.BookingTime)
	r.Notes = strings.TrimSpace(r.Notes)
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status"`
}

type BookingFilter struct {
	DoctorID int64
	Status   BookingStatus
	Date     *Date
	Pagination
}

// SlotAvailability is one entry of a doctor's day: a start time and whether it can be booked.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// SlotTimeLayout is the HH:MM format of booking times.
const SlotTimeLayout = "15:04"

// NormalizeSlotTime parses a time of day and returns it zero padded, e.g. "9:00" -> "09:00".
func NormalizeSlotTime(s string) (string, error) {
	t, err := time.Parse(SlotTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Format(SlotTimeLayout), nil
}
