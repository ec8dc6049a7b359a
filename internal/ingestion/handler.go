package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	httperr "github.com/beacon-lab/project-beacon/internal/core/errors"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
	"github.com/beacon-lab/project-beacon/internal/profile"
	"github.com/beacon-lab/project-beacon/internal/schema"
	"github.com/beacon-lab/project-beacon/internal/tracking"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body"
	msgIdentifyFailed  = "Failed to identify user"
	msgTrackFailed     = "Failed to track event"
	msgLookupFailed    = "Failed to load record"
	msgIdentified      = "User identified successfully"
	msgTracked         = "Event tracked successfully"
	msgProfileConflict = "Profile was modified concurrently, retry the request"

	noteUnknownUser = "userId is not a known profile; the event was recorded against an anonymous profile keyed by this userId"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

type successResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
	Note    string      `json:"note,omitempty"`
}

// IdentifyHandler handles POST /identify.
func (s *Service) IdentifyHandler(c *gin.Context) {
	var req v1.IdentifyRequest
	if err := s.bindBody(c, &req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, invalidRequest(err))
		return
	}

	p, err := s.resolver.ResolveForIdentify(c.Request.Context(), req.UserID, req.AnonymousID, req.Traits)
	if err != nil {
		writeError(c, resolveError(err, msgIdentifyFailed))
		return
	}

	slog.Info("Identified user",
		"profile_id", p.ID,
		"anonymous_id", req.AnonymousID,
		"traits", len(p.Properties))

	c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: msgIdentified,
		Data:    gin.H{"profileId": p.ID},
	})
}

// TrackHandler handles POST /track.
func (s *Service) TrackHandler(c *gin.Context) {
	var req v1.TrackRequest
	if err := s.bindBody(c, &req); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, invalidRequest(err))
		return
	}

	ctx := c.Request.Context()
	res, err := s.resolver.ResolveForTracking(ctx, profile.Identifier{UserID: req.UserID, AnonymousID: req.AnonymousID})
	if err != nil {
		writeError(c, resolveError(err, msgTrackFailed))
		return
	}

	evt, ingErr := s.record(ctx, &req, res.Profile.ID)
	if ingErr != nil {
		writeError(c, ingErr)
		return
	}

	slog.Info("Tracked event",
		"event_id", evt.ID,
		"event", req.Event,
		"profile_id", evt.ProfileID,
		"unknown_user", res.UnknownUser)

	resp := successResponse{
		Success: true,
		Message: msgTracked,
		Data:    gin.H{"eventId": evt.ID, "profileId": evt.ProfileID},
	}
	if res.UnknownUser {
		resp.Note = noteUnknownUser
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfileHandler handles GET /v1/profiles/{id}.
func (s *Service) GetProfileHandler(c *gin.Context) {
	p, err := s.profiles.FindProfileByID(c.Request.Context(), c.Param("id"))
	respondLookup(c, p, p == nil, err, "profile")
}

// GetEventHandler handles GET /v1/events/{id}.
func (s *Service) GetEventHandler(c *gin.Context) {
	evt, err := s.events.FindEventByID(c.Request.Context(), c.Param("id"))
	respondLookup(c, evt, evt == nil, err, "event")
}

func respondLookup(c *gin.Context, record interface{}, missing bool, err error, kind string) {
	switch {
	case err != nil:
		slog.Error("Lookup failed", "kind", kind, "id", c.Param("id"), "error", err)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgLookupFailed,
		})
	case missing:
		writeError(c, &ingestionError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpNotFoundError,
			message:    kind + " not found",
		})
	default:
		c.JSON(http.StatusOK, successResponse{Success: true, Data: record})
	}
}

// bindBody reads at most maxBodySizeBytes of the request body and decodes it into dst.
func (s *Service) bindBody(c *gin.Context, dst interface{}) *ingestionError {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	if err := c.ShouldBindJSON(dst); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}
	return nil
}

// record runs the event through the recorder and maps its failures to HTTP errors.
func (s *Service) record(ctx context.Context, req *v1.TrackRequest, profileID string) (*v1.Event, *ingestionError) {
	evt, err := s.recorder.Record(ctx, tracking.Input{
		Event:      req.Event,
		Properties: req.Properties,
		ProfileID:  profileID,
		Timestamp:  req.OccurredAt(time.Time{}),
	})
	if err == nil {
		return evt, nil
	}

	if errors.Is(err, tracking.ErrSchemaValidationFailed) {
		var details map[string]interface{}
		var d schema.ValidationDetailer
		if errors.As(err, &d) {
			details = d.Details()
		}
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpSchemaValidationError,
			message:    err.Error(),
			details:    details,
		}
	}
	if errors.Is(err, schema.ErrInvalidSchema) {
		slog.Error("Metric schema does not compile", "event", req.Event, "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInvalidSchemaError,
			message:    "Metric schema is invalid",
		}
	}

	slog.Error("Failed to record event", "event", req.Event, "profile_id", profileID, "error", err)
	return nil, &ingestionError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgTrackFailed,
	}
}

func invalidRequest(err error) *ingestionError {
	var details interface{}
	var fieldErrs v1.FieldErrors
	if errors.As(err, &fieldErrs) {
		details = fieldErrs
	}
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidRequestError,
		message:    err.Error(),
		details:    details,
	}
}

func resolveError(err error, fallback string) *ingestionError {
	switch {
	case errors.Is(err, profile.ErrIdentifierRequired):
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpIdentifierRequiredError,
			message:    err.Error(),
		}
	case errors.Is(err, storage.ErrConflict):
		slog.Warn("Profile write conflict", "error", err)
		return &ingestionError{
			statusCode: http.StatusConflict,
			errorType:  httperr.HttpConflictError,
			message:    msgProfileConflict,
		}
	default:
		slog.Error("Profile resolution failed", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    fallback,
		}
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.NewErrorResponse(err.errorType, err.message, err.details))
}
