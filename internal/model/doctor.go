package model

import (
	"strings"
	"time"
)

type Doctor struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialty      string    `db:"specialty" json:"specialty"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	Image          *string   `db:"image" json:"image,omitempty"`
	Email          string    `db:"email" json:"email"`
	SocialLinkedIn *string   `db:"social_linkedin" json:"social_linkedin,omitempty"`
	SocialTwitter  *string   `db:"social_twitter" json:"social_twitter,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	ServiceIDs []int64  `db:"-" json:"service_ids"`
	Services   []string `db:"-" json:"services"`
}

type CreateDoctorRequest struct {
	Name           string  `json:"name" validate:"notblank,max=200"`
	Specialty      string  `json:"specialty" validate:"notblank,max=200"`
	Bio            *string `json:"bio"`
	Image          *string `json:"image"`
	Email          string  `json:"email" validate:"required,email"`
	SocialLinkedIn *string `json:"social_linkedin"`
	SocialTwitter  *string `json:"social_twitter"`
	ServiceIDs     []int64 `json:"service_ids" validate:"omitempty,dive,gt=0"`
}

func (r CreateDoctorRequest) ToDoctor() *Doctor {
	return &Doctor{
		Name:           strings.TrimSpace(r.Name),
		Specialty:      strings.TrimSpace(r.Specialty),
		Bio:            r.Bio,
		Image:          r.Image,
		Email:          strings.ToLower(strings.TrimSpace(r.Email)),
		SocialLinkedIn: r.SocialLinkedIn,
		SocialTwitter:  r.SocialTwitter,
		ServiceIDs:     dedupeIDs(r.ServiceIDs),
	}
}

// UpdateDoctorRequest replaces the service set only when ServiceIDs is present in the body.
type UpdateDoctorRequest struct {
	Name           *string  `json:"name" validate:"omitempty,notblank,max=200"`
	Specialty      *string  `json:"specialty" validate:"omitempty,notblank,max=200"`
	Bio            *string  `json:"bio"`
	Image          *string  `json:"image"`
	Email          *string  `json:"email" validate:"omitempty,email"`
	SocialLinkedIn *string  `json:"social_linkedin"`
	SocialTwitter  *string  `json:"social_twitter"`
	ServiceIDs     *[]int64 `json:"service_ids" validate:"omitempty,dive,gt=0"`
}

func (r UpdateDoctorRequest) Apply(d *Doctor) {
	if r.Name != nil {
		d.Name = strings.TrimSpace(*r.Name)
	}
	if r.Specialty != nil {
		d.Specialty = strings.TrimSpace(*r.Specialty)
	}
	if r.Bio != nil {
		d.Bio = r.Bio
	}
	if r.Image != nil {
		d.Image = r.Image
	}
	if r.Email != nil {
		d.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.SocialLinkedIn != nil {
		d.SocialLinkedIn = r.SocialLinkedIn
	}
	if r.SocialTwitter != nil {
		d.SocialTwitter = r.SocialTwitter
	}
	if r.ServiceIDs != nil {
		d.ServiceIDs = dedupeIDs(*r.ServiceIDs)
	}
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
