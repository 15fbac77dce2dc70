package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-api/internal/middleware"
	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/pkg/auth"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/httputil"
)

type Service interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Check(ctx context.Context, claims *auth.Claims) (*model.Admin, error)
	ChangePassword(ctx context.Context, adminID int64, req model.ChangePasswordRequest) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts login on public. authenticated must already carry the
// Authenticate middleware.
func (h *Handler) RegisterRoutes(public, authenticated, admin *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)

	authenticated.GET("/auth/check", h.Check)
	authenticated.POST("/auth/logout", h.Logout)

	admin.POST("/change-password", h.ChangePassword)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) Check(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		httputil.RespondWithError(c, errors.Unauthorized("", nil))
		return
	}

	admin, err := h.svc.Check(c.Request.Context(), claims)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"authenticated": true, "admin": admin})
}

// Logout is stateless: tokens expire on their own and the client discards its copy.
func (h *Handler) Logout(c *gin.Context) {
	httputil.RespondWithMessage(c, "logged out successfully")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		httputil.RespondWithError(c, errors.Unauthorized("", nil))
		return
	}

	var req model.ChangePasswordRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), claims.AdminID, req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "password changed")
}
