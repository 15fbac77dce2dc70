package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/dental-api/internal/model"
	apperrors "github.com/jwalitptl/dental-api/pkg/errors"
)

const doctorColumns = `
	id, name, specialty, bio, image, email, social_linkedin, social_twitter, created_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			name, specialty, bio, image, email, social_linkedin, social_twitter
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			doctor.Name,
			doctor.Specialty,
			doctor.Bio,
			doctor.Image,
			doctor.Email,
			doctor.SocialLinkedIn,
			doctor.SocialTwitter,
		).Scan(&doctor.ID, &doctor.CreatedAt)
		if err != nil {
			return err
		}
		return replaceDoctorServices(ctx, tx, doctor.ID, doctor.ServiceIDs, false)
	})
	if err != nil {
		return mapError(err, "doctor", "failed to create doctor")
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	query := `SELECT` + doctorColumns + ` FROM doctors WHERE id = $1`
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, mapError(err, "doctor", "failed to get doctor")
	}
	if err := r.attachServices(ctx, []*model.Doctor{&doctor}); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, id); err != nil {
		return false, mapError(err, "doctor", "failed to check doctor")
	}
	return exists, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor, replaceServices bool) error {
	query := `
		UPDATE doctors
		SET name = $1, specialty = $2, bio = $3, image = $4, email = $5,
			social_linkedin = $6, social_twitter = $7
		WHERE id = $8
		RETURNING created_at
	`
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			doctor.Name,
			doctor.Specialty,
			doctor.Bio,
			doctor.Image,
			doctor.Email,
			doctor.SocialLinkedIn,
			doctor.SocialTwitter,
			doctor.ID,
		).Scan(&doctor.CreatedAt)
		if err != nil {
			return err
		}
		if !replaceServices {
			return nil
		}
		return replaceDoctorServices(ctx, tx, doctor.ID, doctor.ServiceIDs, true)
	})
	if err != nil {
		return mapError(err, "doctor", "failed to update doctor")
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Conflict("doctor still has bookings", err)
		}
		return mapError(err, "doctor", "failed to delete doctor")
	}
	return expectAffected(res, "doctor")
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	query := `SELECT` + doctorColumns + ` FROM doctors ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, mapError(err, "doctor", "failed to list doctors")
	}
	if err := r.attachServices(ctx, doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) ListByService(ctx context.Context, serviceID int64) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	query := `
		SELECT d.id, d.name, d.specialty, d.bio, d.image, d.email,
			   d.social_linkedin, d.social_twitter, d.created_at
		FROM doctors d
		JOIN doctor_services ds ON ds.doctor_id = d.id
		WHERE ds.service_id = $1
		ORDER BY d.name, d.id
	`
	if err := r.db.SelectContext(ctx, &doctors, query, serviceID); err != nil {
		return nil, mapError(err, "doctor", "failed to list doctors by service")
	}
	if err := r.attachServices(ctx, doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

type doctorServiceRow struct {
	DoctorID    int64  `db:"doctor_id"`
	ServiceID   int64  `db:"service_id"`
	ServiceName string `db:"service_name"`
}

// attachServices fills ServiceIDs and Services of every doctor with one query.
func (r *doctorRepository) attachServices(ctx context.Context, doctors []*model.Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Doctor, len(doctors))
	ids := make([]int64, 0, len(doctors))
	for _, d := range doctors {
		d.ServiceIDs = []int64{}
		d.Services = []string{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	query := `
		SELECT ds.doctor_id, s.id AS service_id, s.name AS service_name
		FROM doctor_services ds
		JOIN services s ON s.id = ds.service_id
		WHERE ds.doctor_id = ANY($1)
		ORDER BY s.name, s.id
	`
	var rows []doctorServiceRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return mapError(err, "doctor", "failed to load doctor services")
	}
	for _, row := range rows {
		d := byID[row.DoctorID]
		d.ServiceIDs = append(d.ServiceIDs, row.ServiceID)
		d.Services = append(d.Services, row.ServiceName)
	}
	return nil
}

func replaceDoctorServices(ctx context.Context, tx *sqlx.Tx, doctorID int64, serviceIDs []int64, clear bool) error {
	if clear {
		if _, err := tx.ExecContext(ctx, `DELETE FROM doctor_services WHERE doctor_id = $1`, doctorID); err != nil {
			return err
		}
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO doctor_services (doctor_id, service_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, doctorID, pq.Array(serviceIDs)); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Validation("unknown service", "service_ids")
		}
		return err
	}
	return nil
}
