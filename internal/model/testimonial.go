package model

import (
	"strings"
	"time"
)

type Testimonial struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Title     *string   `db:"title" json:"title,omitempty"`
	Content   string    `db:"content" json:"content"`
	Rating    *int      `db:"rating" json:"rating,omitempty"`
	Image     *string   `db:"image" json:"image,omitempty"`
	Approved  bool      `db:"approved" json:"approved"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateTestimonialRequest struct {
	Name    string  `json:"name" validate:"notblank,max=200"`
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content string  `json:"content" validate:"notblank,max=5000"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Image   *string `json:"image"`
}

// ToTestimonial builds an unapproved testimonial.
func (r CreateTestimonialRequest) ToTestimonial() *Testimonial {
	return &Testimonial{
		Name:    strings.TrimSpace(r.Name),
		Title:   r.Title,
		Content: strings.TrimSpace(r.Content),
		Rating:  r.Rating,
		Image:   r.Image,
	}
}

type UpdateTestimonialRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=200"`
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  *string `json:"content" validate:"omitempty,notblank,max=5000"`
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Image    *string `json:"image"`
	Approved *bool   `json:"approved"`
}

func (r UpdateTestimonialRequest) Apply(t *Testimonial) {
	if r.Name != nil {
		t.Name = strings.TrimSpace(*r.Name)
	}
	if r.Title != nil {
		t.Title = r.Title
	}
	if r.Content != nil {
		t.Content = strings.TrimSpace(*r.Content)
	}
	if r.Rating != nil {
		t.Rating = r.Rating
	}
	if r.Image != nil {
		t.Image = r.Image
	}
	if r.Approved != nil {
		t.Approved = *r.Approved
	}
}

type ApproveTestimonialRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type TestimonialFilter struct {
	Approved *bool
}
