package v1

import (
	"time"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// Profile is one visitor or user, anonymous until an identify call binds it to a user id.
type Profile struct {
	// ID equals the user id once identified. Anonymous profiles get a generated UUID.
	// Once IsAnonymous is false the ID never changes again.
	ID string `json:"id"`

	// AnonymousID is the pre-identification correlation key. Empty when never supplied.
	AnonymousID string `json:"anonymousId,omitempty"`

	IsAnonymous bool `json:"isAnonymous"`

	// Properties holds the traits of the latest identify call. They are replaced, never merged.
	Properties jsonvalue.Object `json:"properties"`

	// MergedInto is set on an anonymous profile whose history was folded into an
	// already identified profile. Merged profiles are terminal.
	MergedInto string `json:"mergedInto,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// Metric is the declared shape of one named event type.
type Metric struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Schema is a JSON-Schema-like document. An empty schema accepts anything.
	Schema jsonvalue.Object `json:"schema"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is one recorded occurrence of a metric for a profile. Events are immutable.
type Event struct {
	ID        string `json:"id"`
	MetricID  string `json:"metricId"`
	ProfileID string `json:"profileId"`

	// Data is the validated property bag, stored verbatim.
	Data jsonvalue.Object `json:"data"`

	// Timestamp is when the event happened (client clock when supplied).
	Timestamp time.Time `json:"timestamp"`
	// CreatedAt is when Beacon stored it.
	CreatedAt time.Time `json:"createdAt"`
}
