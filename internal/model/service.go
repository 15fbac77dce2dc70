package model

import (
	"strings"
	"time"
)

type ServiceCategory string

const (
	ServiceCategoryPreventive ServiceCategory = "preventive"
	ServiceCategoryCosmetic   ServiceCategory = "cosmetic"
	ServiceCategorySurgical   ServiceCategory = "surgical"
	ServiceCategoryPediatric  ServiceCategory = "pediatric"
	ServiceCategoryGeneral    ServiceCategory = "general"
)

const DefaultServiceDuration = 30

func (c ServiceCategory) Valid() bool {
	switch c {
	case ServiceCategoryPreventive, ServiceCategoryCosmetic, ServiceCategorySurgical,
		ServiceCategoryPediatric, ServiceCategoryGeneral:
		return true
	}
	return false
}

// Service is a treatment offered by the clinic.
type Service struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Icon        string          `db:"icon" json:"icon"`
	Category    ServiceCategory `db:"category" json:"category"`
	Duration    int             `db:"duration" json:"duration"` // in minutes
	Image       *string         `db:"image" json:"image,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type CreateServiceRequest struct {
	Name        string          `json:"name" validate:"notblank,max=200"`
	Description string          `json:"description" validate:"notblank"`
	Icon        string          `json:"icon" validate:"notblank,max=100"`
	Category    ServiceCategory `json:"category" validate:"omitempty,oneof=preventive cosmetic surgical pediatric general"`
	Duration    int             `json:"duration" validate:"omitempty,min=15,max=480"`
	Image       *string         `json:"image"`
}

// ToService applies defaults and returns the row to insert.
func (r CreateServiceRequest) ToService() *Service {
	s := &Service{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Icon:        strings.TrimSpace(r.Icon),
		Category:    r.Category,
		Duration:    r.Duration,
		Image:       r.Image,
	}
	if s.Category == "" {
		s.Category = ServiceCategoryGeneral
	}
	if s.Duration == 0 {
		s.Duration = DefaultServiceDuration
	}
	return s
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,notblank,max=200"`
	Description *string          `json:"description" validate:"omitempty,notblank"`
	Icon        *string          `json:"icon" validate:"omitempty,notblank,max=100"`
	Category    *ServiceCategory `json:"category" validate:"omitempty,oneof=preventive cosmetic surgical pediatric general"`
	Duration    *int             `json:"duration" validate:"omitempty,min=15,max=480"`
	Image       *string          `json:"image"`
}

// Apply copies the set fields of r onto s.
func (r UpdateServiceRequest) Apply(s *Service) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		s.Description = strings.TrimSpace(*r.Description)
	}
	if r.Icon != nil {
		s.Icon = strings.TrimSpace(*r.Icon)
	}
	if r.Category != nil {
		s.Category = *r.Category
	}
	if r.Duration != nil {
		s.Duration = *r.Duration
	}
	if r.Image != nil {
		s.Image = r.Image
	}
}
