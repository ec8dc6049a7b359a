// Package metric keeps the catalogue of named event types. Metrics are created
// on first sight by the tracking path and can be given a description and a
// property schema through definitions.
package metric

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
	"github.com/beacon-lab/project-beacon/internal/schema"
)

// ErrNotFound is returned by Get when no metric has the requested name.
var ErrNotFound = errors.New("metric not found")

// AutoDescriptionPrefix prefixes the description of metrics created by GetOrCreate.
const AutoDescriptionPrefix = "Auto-created metric for event: "

// Definition is an administrative description of a metric.
type Definition struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Schema      jsonvalue.Object `json:"schema" yaml:"-"`
	// IsActive is left unchanged when nil. New metrics start active.
	IsActive *bool `json:"isActive,omitempty" yaml:"active"`
}

// Validate checks the metric name. The schema is checked by compiling it.
func (d Definition) Validate() error {
	var errs v1.FieldErrors
	switch n := utf8.RuneCountInString(d.Name); {
	case n == 0:
		errs = append(errs, v1.FieldError{Field: "name", Message: "is required"})
	case n > v1.MaxIdentifierLength:
		errs = append(errs, v1.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("must be at most %d characters, got %d", v1.MaxIdentifierLength, n),
		})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Registry resolves event names to metrics.
type Registry struct {
	store     storage.MetricStore
	validator *schema.Validator

	createGroup singleflight.Group // Dedupe concurrent auto-creation per name
}

// NewRegistry creates a registry over store. The validator compiles schemas
// before they are accepted by Define.
func NewRegistry(store storage.MetricStore, validator *schema.Validator) *Registry {
	if store == nil {
		panic("metric: store must not be nil")
	}
	if validator == nil {
		panic("metric: validator must not be nil")
	}
	return &Registry{store: store, validator: validator}
}

// GetOrCreate returns the metric called name, creating it with an empty schema
// when it does not exist yet. An existing metric is never modified.
func (r *Registry) GetOrCreate(ctx context.Context, name string) (*v1.Metric, error) {
	result, err, _ := r.createGroup.Do(name, func() (interface{}, error) {
		return r.store.UpsertMetricByName(ctx, name, storage.MetricCreate{
			ID:          uuid.New().String(),
			Description: AutoDescriptionPrefix + name,
			Schema:      jsonvalue.Object{},
		}, storage.MetricPatch{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register metric %q: %w", name, err)
	}

	// Callers coalesced by the group share one result; hand each its own copy.
	m := *result.(*v1.Metric)
	return &m, nil
}

// Get returns the metric called name or ErrNotFound.
func (r *Registry) Get(ctx context.Context, name string) (*v1.Metric, error) {
	m, err := r.store.FindMetricByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric %q: %w", name, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return m, nil
}

// List returns every metric ordered by name.
func (r *Registry) List(ctx context.Context) ([]*v1.Metric, error) {
	metrics, err := r.store.ListMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	return metrics, nil
}

// Define creates or overwrites the description and schema of a metric. The
// schema must compile; otherwise the error wraps schema.ErrInvalidSchema and
// nothing is stored.
func (r *Registry) Define(ctx context.Context, def Definition) (*v1.Metric, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	doc := def.Schema
	if doc == nil {
		doc = jsonvalue.Object{}
	}
	if len(doc) > 0 {
		if _, err := r.validator.Compile(doc); err != nil {
			return nil, err
		}
	}

	description := def.Description
	if description == "" {
		description = AutoDescriptionPrefix + def.Name
	}

	m, err := r.store.UpsertMetricByName(ctx, def.Name, storage.MetricCreate{
		ID:          uuid.New().String(),
		Description: description,
		Schema:      doc,
	}, storage.MetricPatch{
		Description: &description,
		Schema:      doc,
		IsActive:    def.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to define metric %q: %w", def.Name, err)
	}
	// Inactive is only settable through the patch; a fresh row is created active.
	if def.IsActive != nil && m.IsActive != *def.IsActive {
		m, err = r.store.UpsertMetricByName(ctx, def.Name, storage.MetricCreate{}, storage.MetricPatch{IsActive: def.IsActive})
		if err != nil {
			return nil, fmt.Errorf("failed to define metric %q: %w", def.Name, err)
		}
	}
	return m, nil
}

// SyncDefinitions defines every metric in defs, stopping at the first failure.
func (r *Registry) SyncDefinitions(ctx context.Context, defs []Definition) error {
	for _, def := range defs {
		m, err := r.Define(ctx, def)
		if err != nil {
			return fmt.Errorf("metric definition %q: %w", def.Name, err)
		}
		slog.Info("Metric definition synced", "name", m.Name, "id", m.ID, "active", m.IsActive)
	}
	return nil
}
