package postgres

import (
	"context"

	"github.com/jwalitptl/dental-api/internal/model"
)

const testimonialColumns = `id, name, title, content, rating, image, approved, created_at`

func (r *testimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	query := `
		INSERT INTO testimonials (name, title, content, rating, image, approved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		t.Name, t.Title, t.Content, t.Rating, t.Image, t.Approved,
	).Scan(&t.ID, &t.CreatedAt)
	return mapError(err, "testimonial", "failed to create testimonial")
}

func (r *testimonialRepository) Get(ctx context.Context, id int64) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := r.db.GetContext(ctx, &t, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "testimonial", "failed to get testimonial")
	}
	return &t, nil
}

func (r *testimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	query := `
		UPDATE testimonials
		SET name = $1, title = $2, content = $3, rating = $4, image = $5, approved = $6
		WHERE id = $7
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		t.Name, t.Title, t.Content, t.Rating, t.Image, t.Approved, t.ID,
	).Scan(&t.CreatedAt)
	return mapError(err, "testimonial", "failed to update testimonial")
}

func (r *testimonialRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE testimonials SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return mapError(err, "testimonial", "failed to update testimonial approval")
	}
	return expectAffected(res, "testimonial")
}

func (r *testimonialRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "testimonial", "failed to delete testimonial")
	}
	return expectAffected(res, "testimonial")
}

func (r *testimonialRepository) List(ctx context.Context, filter model.TestimonialFilter) ([]*model.Testimonial, error) {
	testimonials := []*model.Testimonial{}
	var err error
	if filter.Approved == nil {
		err = r.db.SelectContext(ctx, &testimonials,
			`SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC, id DESC`)
	} else {
		err = r.db.SelectContext(ctx, &testimonials,
			`SELECT `+testimonialColumns+` FROM testimonials WHERE approved = $1 ORDER BY created_at DESC, id DESC`,
			*filter.Approved)
	}
	if err != nil {
		return nil, mapError(err, "testimonial", "failed to list testimonials")
	}
	return testimonials, nil
}
