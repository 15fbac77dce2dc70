package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/jwalitptl/dental-api/internal/model"
)

const serviceColumns = `id, name, description, icon, category, duration, image, created_at`

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (name, description, icon, category, duration, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		service.Name,
		service.Description,
		service.Icon,
		service.Category,
		service.Duration,
		service.Image,
	).Scan(&service.ID, &service.CreatedAt)
	return mapError(err, "service", "failed to create service")
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	var service model.Service
	if err := r.db.GetContext(ctx, &service, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "service", "failed to get service")
	}
	return &service, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, icon = $3, category = $4, duration = $5, image = $6
		WHERE id = $7
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		service.Name,
		service.Description,
		service.Icon,
		service.Category,
		service.Duration,
		service.Image,
		service.ID,
	).Scan(&service.CreatedAt)
	return mapError(err, "service", "failed to update service")
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "service", "failed to delete service")
	}
	return expectAffected(res, "service")
}

func (r *serviceRepository) List(ctx context.Context, category model.ServiceCategory) ([]*model.Service, error) {
	services := []*model.Service{}
	var err error
	if category == "" {
		err = r.db.SelectContext(ctx, &services, `SELECT `+serviceColumns+` FROM services ORDER BY name, id`)
	} else {
		err = r.db.SelectContext(ctx, &services,
			`SELECT `+serviceColumns+` FROM services WHERE category = $1 ORDER BY name, id`, category)
	}
	if err != nil {
		return nil, mapError(err, "service", "failed to list services")
	}
	return services, nil
}

func (r *serviceRepository) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT want.id
		FROM unnest($1::bigint[]) AS want(id)
		LEFT JOIN services s ON s.id = want.id
		WHERE s.id IS NULL
		ORDER BY want.id
	`
	missing := []int64{}
	if err := r.db.SelectContext(ctx, &missing, query, pq.Array(ids)); err != nil {
		return nil, mapError(err, "service", "failed to check services")
	}
	return missing, nil
}
