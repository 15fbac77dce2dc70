// Package catalog serves the clinic's services and doctors. Reads are public; writes sit
// behind the admin group.
package catalog

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-api/internal/middleware"
	"github.com/jwalitptl/dental-api/internal/model"
)

// catalogMaxAge is how long clients may cache public catalog reads, in seconds.
const catalogMaxAge = 60

type Service interface {
	ListServices(ctx context.Context, category model.ServiceCategory) ([]*model.Service, error)
	GetService(ctx context.Context, id int64) (*model.Service, error)
	CreateService(ctx context.Context, req model.CreateServiceRequest) (*model.Service, error)
	UpdateService(ctx context.Context, id int64, req model.UpdateServiceRequest) (*model.Service, error)
	DeleteService(ctx context.Context, id int64) error

	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
	GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
	ListDoctorsByService(ctx context.Context, serviceID int64) ([]*model.Doctor, error)
	CreateDoctor(ctx context.Context, req model.CreateDoctorRequest) (*model.Doctor, error)
	UpdateDoctor(ctx context.Context, id int64, req model.UpdateDoctorRequest) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the read routes on public and the write routes on admin. The
// slots route under /doctors/:id belongs to the booking handler.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	services := public.Group("/services", middleware.PublicCache(catalogMaxAge))
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
		services.GET("/category/:category", h.ListServicesByCategory)
	}

	doctors := public.Group("/doctors", middleware.PublicCache(catalogMaxAge))
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.GET("/by-service/:serviceId", h.ListDoctorsByService)
	}

	adminServices := admin.Group("/services")
	{
		adminServices.POST("", h.CreateService)
		adminServices.PUT("/:id", h.UpdateService)
		adminServices.DELETE("/:id", h.DeleteService)
	}

	adminDoctors := admin.Group("/doctors")
	{
		adminDoctors.POST("", h.CreateDoctor)
		adminDoctors.PUT("/:id", h.UpdateDoctor)
		adminDoctors.DELETE("/:id", h.DeleteDoctor)
	}
}
