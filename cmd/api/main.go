package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/dental-api/internal/config"
	authhandler "github.com/jwalitptl/dental-api/internal/handler/auth"
	bookinghandler "github.com/jwalitptl/dental-api/internal/handler/booking"
	cataloghandler "github.com/jwalitptl/dental-api/internal/handler/catalog"
	"github.com/jwalitptl/dental-api/internal/handler/health"
	promhandler "github.com/jwalitptl/dental-api/internal/handler/prometheus"
	testimonialhandler "github.com/jwalitptl/dental-api/internal/handler/testimonial"
	"github.com/jwalitptl/dental-api/internal/middleware"
	"github.com/jwalitptl/dental-api/internal/repository/postgres"
	"github.com/jwalitptl/dental-api/internal/router"
	authService "github.com/jwalitptl/dental-api/internal/service/auth"
	bookingService "github.com/jwalitptl/dental-api/internal/service/booking"
	catalogService "github.com/jwalitptl/dental-api/internal/service/catalog"
	testimonialService "github.com/jwalitptl/dental-api/internal/service/testimonial"
	"github.com/jwalitptl/dental-api/pkg/auth"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/metrics"
	"github.com/jwalitptl/dental-api/pkg/security"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})
	appLogger.SetGlobal()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			appLogger.Fatal(err, "failed to apply schema")
		}
	}

	hours, err := cfg.Schedule.ClinicHours()
	if err != nil {
		appLogger.Fatal(err, "invalid clinic schedule")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg, "dental_api")

	jwtSvc, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)
	if err != nil {
		appLogger.Fatal(err, "failed to initialise token service")
	}
	v := validator.New()

	// Repositories
	serviceRepo := postgres.NewServiceRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	testimonialRepo := postgres.NewTestimonialRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// Services
	bookingSvc := bookingService.NewService(bookingRepo, doctorRepo, hours, v, m, appLogger)
	catalogSvc := catalogService.NewService(serviceRepo, doctorRepo, v, appLogger)
	testimonialSvc := testimonialService.NewService(testimonialRepo, v, appLogger)
	authSvc := authService.NewService(adminRepo, jwtSvc, security.NewBcryptHasher(bcrypt.DefaultCost), v, m, appLogger)

	r := router.NewRouter(router.Handlers{
		Auth:        authhandler.NewHandler(authSvc),
		Booking:     bookinghandler.NewHandler(bookingSvc),
		Catalog:     cataloghandler.NewHandler(catalogSvc),
		Testimonial: testimonialhandler.NewHandler(testimonialSvc),
		Health:      health.NewHandler(map[string]health.Pinger{"database": db}),
		Metrics:     promhandler.New(reg, m),
	}, authSvc, router.RouterConfig{
		Mode:             cfg.Server.Mode,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
		RequestTimeout:   cfg.Server.RequestTimeout,
		MaxBodyBytes:     cfg.Server.MaxBodyBytes,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
