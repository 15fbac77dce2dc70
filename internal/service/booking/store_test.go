package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/pkg/errors"
)

// memStore is an in-memory BookingRepository and DoctorRepository. It rejects a second
// active booking for the same doctor, date and time the way the database index does.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	doctors  map[int64]*model.Doctor
	bookings map[int64]*model.Booking
	events   []*model.OutboxEvent

	// beforeInsert runs after the pre-check and before the insert; tests use it to widen
	// race windows.
	beforeInsert func()
}

var (
	_ repository.BookingRepository = (*memStore)(nil)
	_ repository.DoctorRepository  = memDoctors{}
)

func newMemStore(doctorIDs ...int64) *memStore {
	s := &memStore{
		doctors:  make(map[int64]*model.Doctor),
		bookings: make(map[int64]*model.Booking),
	}
	for _, id := range doctorIDs {
		s.doctors[id] = &model.Doctor{ID: id, Name: "Dr. Test"}
	}
	return s
}

// doctorRepo exposes the store's doctors as a DoctorRepository.
func (s *memStore) doctorRepo() memDoctors {
	return memDoctors{s}
}

func sameSlot(a *model.Booking, doctorID int64, date model.Date, hhmm string) bool {
	return a.DoctorID == doctorID && a.BookingDate.Equal(date.Time) && a.BookingTime == hhmm
}

func (s *memStore) slotTakenLocked(doctorID int64, date model.Date, hhmm string, exclude int64) bool {
	for id, b := range s.bookings {
		if id != exclude && b.Status.Active() && sameSlot(b, doctorID, date, hhmm) {
			return true
		}
	}
	return false
}

func (s *memStore) Create(ctx context.Context, b *model.Booking, newEvent repository.BookingEventFunc) error {
	if s.beforeInsert != nil {
		s.beforeInsert()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doctors[b.DoctorID]; !ok {
		return errors.NotFound("doctor", nil)
	}
	if s.slotTakenLocked(b.DoctorID, b.BookingDate, b.BookingTime, 0) {
		return errors.Conflict("time slot is already booked", nil)
	}

	s.nextID++
	b.ID = s.nextID
	b.Status = model.BookingStatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	evt, err := newEvent(b, "")
	if err != nil {
		return errors.Internal(err)
	}
	cp := *b
	s.bookings[b.ID] = &cp
	s.events = append(s.events, evt)
	return nil
}

func (s *memStore) Get(ctx context.Context, id int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, errors.NotFound("booking", nil)
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if filter.DoctorID != 0 && b.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !b.BookingDate.Equal(filter.Date.Time) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *memStore) ActiveTimes(ctx context.Context, doctorID int64, date model.Date) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	times := []string{}
	for _, b := range s.bookings {
		if b.DoctorID == doctorID && b.BookingDate.Equal(date.Time) && b.Status.Active() {
			times = append(times, b.BookingTime)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (s *memStore) HasActiveBooking(ctx context.Context, doctorID int64, date model.Date, hhmm string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotTakenLocked(doctorID, date, hhmm, 0), nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, newEvent repository.BookingEventFunc) (*model.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, false, errors.NotFound("booking", nil)
	}
	if b.Status == status {
		cp := *b
		return &cp, false, nil
	}
	if status.Active() && s.slotTakenLocked(b.DoctorID, b.BookingDate, b.BookingTime, id) {
		return nil, false, errors.Conflict("time slot is already booked", nil)
	}

	previous := b.Status
	b.Status = status
	b.UpdatedAt = time.Now()
	evt, err := newEvent(b, previous)
	if err != nil {
		b.Status = previous
		return nil, false, errors.Internal(err)
	}
	s.events = append(s.events, evt)
	cp := *b
	return &cp, true, nil
}

func (s *memStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return errors.NotFound("booking", nil)
	}
	delete(s.bookings, id)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.EventType)
	}
	return types
}

type memDoctors struct {
	s *memStore
}

func (d memDoctors) Exists(ctx context.Context, id int64) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	_, ok := d.s.doctors[id]
	return ok, nil
}

func (d memDoctors) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	doc, ok := d.s.doctors[id]
	if !ok {
		return nil, errors.NotFound("doctor", nil)
	}
	return doc, nil
}

func (d memDoctors) Create(ctx context.Context, doctor *model.Doctor) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.doctors[doctor.ID] = doctor
	return nil
}

func (d memDoctors) Update(ctx context.Context, doctor *model.Doctor, replaceServices bool) error {
	return d.Create(ctx, doctor)
}

func (d memDoctors) Delete(ctx context.Context, id int64) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	delete(d.s.doctors, id)
	return nil
}

func (d memDoctors) List(ctx context.Context) ([]*model.Doctor, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	out := make([]*model.Doctor, 0, len(d.s.doctors))
	for _, doc := range d.s.doctors {
		out = append(out, doc)
	}
	return out, nil
}

func (d memDoctors) ListByService(ctx context.Context, serviceID int64) ([]*model.Doctor, error) {
	return nil, nil
}
