// Package tracking records events: it registers the event's metric, checks
// the properties against the metric schema and persists the event.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
	"github.com/beacon-lab/project-beacon/internal/metric"
	"github.com/beacon-lab/project-beacon/internal/schema"
)

// ErrSchemaValidationFailed matches every *SchemaValidationError.
var ErrSchemaValidationFailed = errors.New("schema validation failed")

// SchemaValidationError reports why an event's properties were rejected.
type SchemaValidationError struct {
	EventName  string
	Violations []schema.Violation
}

func (e *SchemaValidationError) Error() string {
	return schema.JoinViolations(e.Violations)
}

func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidationFailed
}

// Details implements schema.ValidationDetailer.
func (e *SchemaValidationError) Details() map[string]interface{} {
	return map[string]interface{}{
		"event":      e.EventName,
		"violations": e.Violations,
	}
}

// Input is one event to record. ProfileID must reference an existing profile.
type Input struct {
	Event      string
	Properties jsonvalue.Object
	ProfileID  string
	// Timestamp is when the event happened; zero means now.
	Timestamp time.Time
}

// Recorder records events.
type Recorder struct {
	metrics   *metric.Registry
	validator *schema.Validator
	events    storage.EventStore
	tracer    trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewRecorder creates a recorder.
func NewRecorder(metrics *metric.Registry, validator *schema.Validator, events storage.EventStore) *Recorder {
	if metrics == nil {
		panic("tracking: metric registry must not be nil")
	}
	if validator == nil {
		panic("tracking: validator must not be nil")
	}
	if events == nil {
		panic("tracking: event store must not be nil")
	}
	return &Recorder{
		metrics:   metrics,
		validator: validator,
		events:    events,
		tracer:    otel.Tracer("github.com/beacon-lab/project-beacon/internal/tracking"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// Record registers the metric named in.Event (keeping it even when
// validation fails), validates in.Properties against its schema and stores
// the event. Properties are stored exactly as given; nil is stored as {}.
func (r *Recorder) Record(ctx context.Context, in Input) (_ *v1.Event, err error) {
	ctx, span := r.tracer.Start(ctx, "tracking.Record", trace.WithAttributes(
		attribute.String("beacon.event", in.Event),
	))
	defer func() {
		if err != nil && !errors.Is(err, ErrSchemaValidationFailed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	m, err := r.metrics.GetOrCreate(ctx, in.Event)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("beacon.metric_id", m.ID))

	if len(m.Schema) > 0 {
		violations, err := r.validator.Validate(ctx, m.Schema, in.Properties)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", in.Event, err)
		}
		if len(violations) > 0 {
			slog.Warn("Event rejected by metric schema",
				"event", in.Event, "profile_id", in.ProfileID, "violations", len(violations))
			return nil, &SchemaValidationError{EventName: in.Event, Violations: violations}
		}
	}

	data := in.Properties
	if data == nil {
		data = jsonvalue.Object{}
	}
	now := r.now()
	ts := in.Timestamp
	if ts.IsZero() {
		ts = now
	}

	evt := &v1.Event{
		ID:        r.newID(),
		MetricID:  m.ID,
		ProfileID: in.ProfileID,
		Data:      data,
		Timestamp: ts.UTC(),
		CreatedAt: now,
	}
	if err := r.events.CreateEvent(ctx, evt); err != nil {
		return nil, fmt.Errorf("failed to persist event: %w", err)
	}

	slog.Debug("Event recorded", "event_id", evt.ID, "event", in.Event, "profile_id", in.ProfileID)
	return evt, nil
}
