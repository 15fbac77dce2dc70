package booking

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/httputil"
)

// Service is the booking behaviour the HTTP layer needs.
type Service interface {
	GetAvailability(ctx context.Context, doctorID int64, date model.Date) ([]model.SlotAvailability, error)
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, int, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/doctors/:id/slots", h.GetAvailability)
	public.POST("/bookings", h.CreateBooking)

	bookings := admin.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id/status", h.UpdateStatus)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

type availabilityResponse struct {
	DoctorID int64                    `json:"doctor_id"`
	Date     model.Date               `json:"date"`
	Slots    []model.SlotAvailability `json:"slots"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	doctorID, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	raw := c.Query("date")
	if raw == "" {
		httputil.RespondWithError(c, errors.Validation("invalid request", "date is required"))
		return
	}
	date, err := model.ParseDate(raw)
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid request", err.Error()))
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), doctorID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, availabilityResponse{DoctorID: doctorID, Date: date, Slots: slots})
}

type createdResponse struct {
	ID     int64               `json:"id"`
	Status model.BookingStatus `json:"status"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, "booking created", createdResponse{ID: booking.ID, Status: booking.Status})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	booking, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, booking)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, booking)
}

func (h *Handler) ListBookings(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	bookings, total, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p := filter.Pagination.Normalize()
	httputil.RespondWithPagination(c, bookings, p.Page, p.PageSize, total)
}

func parseFilter(c *gin.Context) (model.BookingFilter, error) {
	var filter model.BookingFilter
	if err := c.ShouldBindQuery(&filter.Pagination); err != nil {
		return filter, errors.Validation("invalid request", "page and page_size must be integers")
	}

	if v := c.Query("doctor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return filter, errors.Validation("invalid request", "doctor_id must be a positive integer")
		}
		filter.DoctorID = id
	}
	if v := c.Query("date"); v != "" {
		date, err := model.ParseDate(v)
		if err != nil {
			return filter, errors.Validation("invalid request", err.Error())
		}
		filter.Date = &date
	}
	filter.Status = model.BookingStatus(c.Query("status"))
	return filter, nil
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, err := httputil.ParamID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "booking deleted")
}
