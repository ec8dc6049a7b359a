package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// ErrNotFound is returned by update operations whose target row does not exist.
// Lookups report absence as (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write would break a uniqueness rule,
// e.g. rewriting a profile id onto an id that is already taken.
var ErrConflict = errors.New("record conflicts with an existing one")

// ProfileCreate holds the fields of a profile created by an upsert.
// ID must be set by the caller; adapters never invent ids.
type ProfileCreate struct {
	ID          string
	AnonymousID string
	IsAnonymous bool
	Properties  jsonvalue.Object
}

// ProfilePatch lists the fields to change on an existing profile.
// Nil pointers and a nil Properties map leave the column untouched.
type ProfilePatch struct {
	ID          *string
	AnonymousID *string
	IsAnonymous *bool
	Properties  jsonvalue.Object
	LastSeenAt  *time.Time
}

// ProfileStore persists profiles.
type ProfileStore interface {
	FindProfileByID(ctx context.Context, id string) (*v1.Profile, error)

	// FindProfileByAnonymousID only considers live (non-merged) profiles.
	FindProfileByAnonymousID(ctx context.Context, anonymousID string) (*v1.Profile, error)

	UpsertProfileByID(ctx context.Context, id string, create ProfileCreate, update ProfilePatch) (*v1.Profile, error)
	UpsertProfileByAnonymousID(ctx context.Context, anonymousID string, create ProfileCreate, update ProfilePatch) (*v1.Profile, error)

	// UpdateProfileByID returns ErrNotFound when no profile has the id and
	// ErrConflict when patch.ID is already taken.
	UpdateProfileByID(ctx context.Context, id string, patch ProfilePatch) (*v1.Profile, error)

	// MergeProfiles atomically moves every event of sourceID to targetID, marks
	// the source as merged into the target and applies patch to the target.
	MergeProfiles(ctx context.Context, sourceID, targetID string, patch ProfilePatch) (*v1.Profile, error)
}

// MetricCreate holds the fields of a metric created by an upsert. Adapters
// generate a UUID when ID is empty.
type MetricCreate struct {
	ID          string
	Description string
	Schema      jsonvalue.Object
}

// MetricPatch lists the fields to change on an existing metric. The zero
// patch leaves the metric untouched.
type MetricPatch struct {
	Description *string
	Schema      jsonvalue.Object
	IsActive    *bool
}

// MetricStore persists metric definitions. Names are unique: concurrent
// upserts of the same name yield exactly one row.
type MetricStore interface {
	UpsertMetricByName(ctx context.Context, name string, create MetricCreate, update MetricPatch) (*v1.Metric, error)
	FindMetricByName(ctx context.Context, name string) (*v1.Metric, error)
	ListMetrics(ctx context.Context) ([]*v1.Metric, error)
}

// EventStore persists events. Events are never updated.
type EventStore interface {
	CreateEvent(ctx context.Context, event *v1.Event) error
	FindEventByID(ctx context.Context, id string) (*v1.Event, error)
}

// Store bundles every repository a running Beacon needs.
type Store interface {
	ProfileStore
	MetricStore
	EventStore

	Ping(ctx context.Context) error
	Close() error
}
