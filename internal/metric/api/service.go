package api

import (
	"github.com/gin-gonic/gin"

	"github.com/beacon-lab/project-beacon/internal/metric"
	"github.com/beacon-lab/project-beacon/internal/schema"
)

// Service provides the metric management API.
type Service struct {
	registry  *metric.Registry
	validator *schema.Validator
}

// NewService creates a new metric API service.
func NewService(reg *metric.Registry, val *schema.Validator) *Service {
	if reg == nil {
		panic("metric api: registry must not be nil")
	}
	if val == nil {
		panic("metric api: validator must not be nil")
	}
	return &Service{
		registry:  reg,
		validator: val,
	}
}

// RegisterRoutes registers the metric API routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	handler := NewHandler(s.registry, s.validator)

	metrics := r.Group("/v1/metrics")
	{
		metrics.GET("", handler.HandleList)
		metrics.GET("/:name", handler.HandleGet)
		metrics.PUT("/:name", handler.HandleDefine)
		// Dry run: checks a property bag without recording anything.
		metrics.POST("/:name/validate", handler.HandleValidate)
	}
}
