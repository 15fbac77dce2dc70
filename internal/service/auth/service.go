package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/pkg/auth"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/metrics"
	"github.com/jwalitptl/dental-api/pkg/security"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service struct {
	admins    repository.AdminRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	attempts  *cache.Cache
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(
	admins repository.AdminRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	v validator.Validator,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		admins:    admins,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		attempts:  cache.New(lockoutDuration, 2*lockoutDuration),
		validator: v,
		metrics:   m,
		logger:    log,
	}
}

// Login checks the admin's credentials and issues an access token. After maxLoginAttempts
// failures for a username inside lockoutDuration further attempts are refused until the
// window expires.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	key := strings.ToLower(username)

	if n, found := s.attempts.Get(key); found && n.(int) >= maxLoginAttempts {
		return nil, errors.Unauthorized("too many failed login attempts, try again later", nil)
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			s.recordFailure(key)
			return nil, errors.Unauthorized("invalid credentials", nil)
		}
		return nil, err
	}

	if err := s.hasher.Compare(admin.PasswordHash, req.Password); err != nil {
		s.recordFailure(key)
		return nil, errors.Unauthorized("invalid credentials", nil)
	}
	s.attempts.Delete(key)

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(admin.ID, admin.Username)
	if err != nil {
		return nil, errors.Internal(err)
	}

	s.logger.Info("admin logged in", "admin_id", admin.ID)
	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Admin:       admin,
	}, nil
}

func (s *Service) recordFailure(key string) {
	s.metrics.LoginFailures.Inc()
	if err := s.attempts.Add(key, 1, lockoutDuration); err != nil {
		_, _ = s.attempts.IncrementInt(key, 1)
	}
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token", err)
	}
	return claims, nil
}

// Check returns the admin behind claims, failing if the account no longer exists.
func (s *Service) Check(ctx context.Context, claims *auth.Claims) (*model.Admin, error) {
	admin, err := s.admins.Get(ctx, claims.AdminID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("admin no longer exists", err)
		}
		return nil, err
	}
	return admin, nil
}

func (s *Service) ChangePassword(ctx context.Context, adminID int64, req model.ChangePasswordRequest) error {
	if err := s.validator.Validate(&req); err != nil {
		return err
	}
	admin, err := s.admins.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(admin.PasswordHash, req.CurrentPassword); err != nil {
		return errors.Unauthorized("current password is incorrect", nil)
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if stderrors.Is(err, security.ErrPasswordTooShort) {
			return errors.Validation("invalid request", "new_password must be at least 8")
		}
		return errors.Internal(err)
	}
	if err := s.admins.UpdatePassword(ctx, adminID, hashed); err != nil {
		return err
	}
	s.logger.Info("admin password changed", "admin_id", adminID)
	return nil
}

// CreateAdmin hashes password and stores a new admin account. Used by the seed command.
func (s *Service) CreateAdmin(ctx context.Context, username, password, name string) (*model.Admin, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		if stderrors.Is(err, security.ErrPasswordTooShort) {
			return nil, errors.Validation("invalid request", "password must be at least 8")
		}
		return nil, errors.Internal(err)
	}
	admin := &model.Admin{Username: username, PasswordHash: hashed, Name: name}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
