package testimonial

import (
	"context"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

type Service struct {
	repo      repository.TestimonialRepository
	validator validator.Validator
	logger    *logger.Logger
}

func NewService(repo repository.TestimonialRepository, v validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		logger:    log,
	}
}

// ListApproved returns the testimonials visible on the public site.
func (s *Service) ListApproved(ctx context.Context) ([]*model.Testimonial, error) {
	approved := true
	return s.repo.List(ctx, model.TestimonialFilter{Approved: &approved})
}

func (s *Service) List(ctx context.Context, filter model.TestimonialFilter) ([]*model.Testimonial, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Testimonial, error) {
	return s.repo.Get(ctx, id)
}

// Submit stores a patient testimonial. It stays hidden until staff approve it.
func (s *Service) Submit(ctx context.Context, req model.CreateTestimonialRequest) (*model.Testimonial, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	t := req.ToTestimonial()
	t.Approved = false
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("testimonial submitted", "testimonial_id", t.ID)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, req model.UpdateTestimonialRequest) (*model.Testimonial, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(t)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) SetApproved(ctx context.Context, id int64, req model.ApproveTestimonialRequest) error {
	if req.Approved == nil {
		return errors.Validation("invalid request", "approved is required")
	}
	return s.repo.SetApproved(ctx, id, *req.Approved)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
