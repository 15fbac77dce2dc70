package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-api/internal/repository"
)

type serviceRepository struct {
	BaseRepository
}

type doctorRepository struct {
	BaseRepository
}

type bookingRepository struct {
	BaseRepository
}

type testimonialRepository struct {
	BaseRepository
}

type adminRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{NewBaseRepository(db)}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{NewBaseRepository(db)}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{NewBaseRepository(db)}
}

func NewTestimonialRepository(db *sqlx.DB) repository.TestimonialRepository {
	return &testimonialRepository{NewBaseRepository(db)}
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
