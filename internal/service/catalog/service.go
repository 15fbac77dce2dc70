// Package catalog manages the clinic's services and doctors.
package catalog

import (
	"context"
	"fmt"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

type Service struct {
	services  repository.ServiceRepository
	doctors   repository.DoctorRepository
	validator validator.Validator
	logger    *logger.Logger
}

func NewService(services repository.ServiceRepository, doctors repository.DoctorRepository, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		services:  services,
		doctors:   doctors,
		validator: v,
		logger:    log,
	}
}

func (s *Service) ListServices(ctx context.Context, category model.ServiceCategory) ([]*model.Service, error) {
	if category != "" && !category.Valid() {
		return nil, errors.Validation("invalid request", "category must be one of [preventive cosmetic surgical pediatric general]")
	}
	return s.services.List(ctx, category)
}

func (s *Service) GetService(ctx context.Context, id int64) (*model.Service, error) {
	return s.services.Get(ctx, id)
}

func (s *Service) CreateService(ctx context.Context, req model.CreateServiceRequest) (*model.Service, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	service := req.ToService()
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	s.logger.Info("service created", "service_id", service.ID)
	return service, nil
}

func (s *Service) UpdateService(ctx context.Context, id int64, req model.UpdateServiceRequest) (*model.Service, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	service, err := s.services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(service)
	if err := s.services.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("service deleted", "service_id", id)
	return nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.doctors.Get(ctx, id)
}

func (s *Service) ListDoctorsByService(ctx context.Context, serviceID int64) ([]*model.Doctor, error) {
	if _, err := s.services.Get(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.doctors.ListByService(ctx, serviceID)
}

func (s *Service) CreateDoctor(ctx context.Context, req model.CreateDoctorRequest) (*model.Doctor, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	doctor := req.ToDoctor()
	if err := s.checkServices(ctx, doctor.ServiceIDs); err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	s.logger.Info("doctor created", "doctor_id", doctor.ID)
	return s.doctors.Get(ctx, doctor.ID)
}

func (s *Service) UpdateDoctor(ctx context.Context, id int64, req model.UpdateDoctorRequest) (*model.Doctor, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(doctor)

	replace := req.ServiceIDs != nil
	if replace {
		if err := s.checkServices(ctx, doctor.ServiceIDs); err != nil {
			return nil, err
		}
	}
	if err := s.doctors.Update(ctx, doctor, replace); err != nil {
		return nil, err
	}
	return s.doctors.Get(ctx, id)
}

func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("doctor deleted", "doctor_id", id)
	return nil
}

func (s *Service) checkServices(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.services.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errors.Validation("invalid request", fmt.Sprintf("service_ids contains unknown services %v", missing))
	}
	return nil
}
