package testimonial

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/httputil"
)

type Service interface {
	ListApproved(ctx context.Context) ([]*model.Testimonial, error)
	List(ctx context.Context, filter model.TestimonialFilter) ([]*model.Testimonial, error)
	Get(ctx context.Context, id int64) (*model.Testimonial, error)
	Submit(ctx context.Context, req model.CreateTestimonialRequest) (*model.Testimonial, error)
	Update(ctx context.Context, id int64, req model.UpdateTestimonialRequest) (*model.Testimonial, error)
	SetApproved(ctx context.Context, id int64, req model.ApproveTestimonialRequest) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/testimonials", h.ListApproved)
	public.POST("/testimonials", h.Submit)

	testimonials := admin.Group("/testimonials")
	{
		testimonials.GET("", h.List)
		testimonials.GET("/:id", h.Get)
		testimonials.PUT("/:id", h.Update)
		testimonials.PUT("/:id/approve", h.SetApproved)
		testimonials.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) ListApproved(c *gin.Context) {
	items, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.CreateTestimonialRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	t, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, "testimonial submitted for review", t)
}

// List returns every testimonial, or only approved or pending ones with ?approved=.
func (h *Handler) List(c *gin.Context) {
	var filter model.TestimonialFilter
	if v := c.Query("approved"); v != "" {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			httputil.RespondWithError(c, errors.Validation("invalid request", "approved must be true or false"))
			return
		}
		filter.Approved = &approved
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateTestimonialRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) SetApproved(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.ApproveTestimonialRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.SetApproved(c.Request.Context(), id, req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "testimonial updated")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "testimonial deleted")
}
