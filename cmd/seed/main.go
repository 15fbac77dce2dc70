package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dental-api/internal/config"
	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository/postgres"
	authService "github.com/jwalitptl/dental-api/internal/service/auth"
	catalogService "github.com/jwalitptl/dental-api/internal/service/catalog"
	"github.com/jwalitptl/dental-api/pkg/auth"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/metrics"
	"github.com/jwalitptl/dental-api/pkg/security"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

var services = []model.CreateServiceRequest{
	{Name: "Dental Cleaning", Description: "Professional scaling and polishing.", Icon: "tooth", Category: model.ServiceCategoryPreventive, Duration: 30},
	{Name: "Teeth Whitening", Description: "In-office whitening treatment.", Icon: "sparkles", Category: model.ServiceCategoryCosmetic, Duration: 60},
	{Name: "Tooth Extraction", Description: "Simple and surgical extractions.", Icon: "scalpel", Category: model.ServiceCategorySurgical, Duration: 45},
	{Name: "Kids Check-up", Description: "Gentle check-ups for children.", Icon: "smile", Category: model.ServiceCategoryPediatric, Duration: 30},
}

// Seeds the schema, an admin account and a starter catalog. Safe to run more than once:
// existing rows are left alone.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	appLogger := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, TimeFormat: time.RFC3339, Output: os.Stdout, Pretty: true})

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		appLogger.Fatal(err, "failed to apply schema")
	}

	jwtSvc, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)
	if err != nil {
		appLogger.Fatal(err, "failed to initialise token service")
	}
	v := validator.New()
	m := metrics.NewNop()

	if cfg.Admin.Password == "" {
		appLogger.Warn("admin.password is empty, skipping admin account")
	} else {
		authSvc := authService.NewService(postgres.NewAdminRepository(db), jwtSvc, security.NewBcryptHasher(bcrypt.DefaultCost), v, m, appLogger)
		admin, err := authSvc.CreateAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Name)
		switch {
		case errors.IsConflict(err):
			appLogger.Info("admin already exists", "username", cfg.Admin.Username)
		case err != nil:
			appLogger.Fatal(err, "failed to create admin")
		default:
			appLogger.Info("admin created", "admin_id", admin.ID)
		}
	}

	catalog := catalogService.NewService(postgres.NewServiceRepository(db), postgres.NewDoctorRepository(db), v, appLogger)
	existing, err := catalog.ListServices(ctx, "")
	if err != nil {
		appLogger.Fatal(err, "failed to list services")
	}
	if len(existing) > 0 {
		appLogger.Info("catalog already seeded", "services", len(existing))
		return
	}

	ids := make([]int64, 0, len(services))
	for _, req := range services {
		svc, err := catalog.CreateService(ctx, req)
		if err != nil {
			appLogger.Fatal(err, "failed to create service", "name", req.Name)
		}
		ids = append(ids, svc.ID)
	}

	doctor, err := catalog.CreateDoctor(ctx, model.CreateDoctorRequest{
		Name:       "Dr. Sarah Johnson",
		Specialty:  "General Dentistry",
		Email:      "sarah.johnson@clinic.example",
		ServiceIDs: ids,
	})
	if err != nil {
		appLogger.Fatal(err, "failed to create doctor")
	}
	appLogger.Info("catalog seeded", "services", len(ids), "doctor_id", doctor.ID)
}
