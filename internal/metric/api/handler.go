package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	httperr "github.com/beacon-lab/project-beacon/internal/core/errors"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/metric"
	"github.com/beacon-lab/project-beacon/internal/schema"
)

const (
	msgInvalidJSON  = "Invalid JSON body"
	msgLoadFailed   = "Failed to load metric"
	msgListFailed   = "Failed to list metrics"
	msgDefineFailed = "Failed to define metric"
)

// Handler handles metric management HTTP requests.
type Handler struct {
	registry  *metric.Registry
	validator *schema.Validator
}

// NewHandler creates a new metric API handler.
func NewHandler(reg *metric.Registry, val *schema.Validator) *Handler {
	return &Handler{
		registry:  reg,
		validator: val,
	}
}

// DefineMetricRequest is the request body for PUT /v1/metrics/{name}.
type DefineMetricRequest struct {
	Description string           `json:"description"`
	Schema      jsonvalue.Object `json:"schema"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// ValidateRequest is the request body for POST /v1/metrics/{name}/validate.
type ValidateRequest struct {
	Properties jsonvalue.Object `json:"properties"`
}

// HandleList handles GET /v1/metrics.
func (h *Handler) HandleList(c *gin.Context) {
	metrics, err := h.registry.List(c.Request.Context())
	if err != nil {
		slog.Error("Metric list error", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.NewErrorResponse(httperr.HttpInternalError, msgListFailed, nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": metrics})
}

// HandleGet handles GET /v1/metrics/{name}.
func (h *Handler) HandleGet(c *gin.Context) {
	m, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

// HandleDefine handles PUT /v1/metrics/{name}.
func (h *Handler) HandleDefine(c *gin.Context) {
	var req DefineMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid metric definition body", "error", err)
		c.JSON(http.StatusBadRequest, httperr.NewErrorResponse(httperr.HttpInvalidJsonError, msgInvalidJSON, nil))
		return
	}

	m, err := h.registry.Define(c.Request.Context(), metric.Definition{
		Name:        c.Param("name"),
		Description: req.Description,
		Schema:      req.Schema,
		IsActive:    req.IsActive,
	})
	if err != nil {
		var fieldErrs v1.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusBadRequest, httperr.NewErrorResponse(httperr.HttpInvalidRequestError, err.Error(), fieldErrs))
		case errors.Is(err, schema.ErrInvalidSchema):
			slog.Warn("Rejected metric schema", "name", c.Param("name"), "error", err)
			c.JSON(http.StatusBadRequest, httperr.NewErrorResponse(httperr.HttpInvalidSchemaError, err.Error(), nil))
		default:
			slog.Error("Metric define error", "name", c.Param("name"), "error", err)
			c.JSON(http.StatusInternalServerError, httperr.NewErrorResponse(httperr.HttpInternalError, msgDefineFailed, nil))
		}
		return
	}

	slog.Info("Metric defined", "name", m.Name, "id", m.ID, "active", m.IsActive)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

// HandleValidate handles POST /v1/metrics/{name}/validate (dry-run).
func (h *Handler) HandleValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.NewErrorResponse(httperr.HttpInvalidJsonError, msgInvalidJSON, nil))
		return
	}

	m, ok := h.load(c)
	if !ok {
		return
	}

	violations, err := h.validator.Validate(c.Request.Context(), m.Schema, req.Properties)
	if err != nil {
		slog.Error("Stored metric schema does not compile", "name", m.Name, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.NewErrorResponse(httperr.HttpInvalidSchemaError, err.Error(), nil))
		return
	}
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, httperr.NewErrorResponse(
			httperr.HttpSchemaValidationError,
			schema.JoinViolations(violations),
			gin.H{"metric": m.Name, "violations": violations},
		))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"valid": true, "metric": m.Name}})
}

func (h *Handler) load(c *gin.Context) (*v1.Metric, bool) {
	name := c.Param("name")
	m, err := h.registry.Get(c.Request.Context(), name)
	if err == nil {
		return m, true
	}
	if errors.Is(err, metric.ErrNotFound) {
		c.JSON(http.StatusNotFound, httperr.NewErrorResponse(httperr.HttpNotFoundError, err.Error(), nil))
		return nil, false
	}
	slog.Error("Metric load error", "name", name, "error", err)
	c.JSON(http.StatusInternalServerError, httperr.NewErrorResponse(httperr.HttpInternalError, msgLoadFailed, nil))
	return nil, false
}
