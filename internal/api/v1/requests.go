package v1

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// MaxIdentifierLength bounds event names, user ids and anonymous ids (in characters).
const MaxIdentifierLength = 100

// IdentifyRequest is the body of POST /identify.
type IdentifyRequest struct {
	UserID      string           `json:"userId"`
	AnonymousID string           `json:"anonymousId,omitempty"`
	Traits      jsonvalue.Object `json:"traits,omitempty"`
}

// Validate checks field presence and lengths.
func (r *IdentifyRequest) Validate() error {
	var errs FieldErrors
	errs.required("userId", r.UserID)
	errs.optional("anonymousId", r.AnonymousID)
	return errs.orNil()
}

// TrackRequest is the body of POST /track. At least one of UserID and
// AnonymousID must be set; that rule is enforced by profile resolution.
type TrackRequest struct {
	Event       string           `json:"event"`
	UserID      string           `json:"userId,omitempty"`
	AnonymousID string           `json:"anonymousId,omitempty"`
	Properties  jsonvalue.Object `json:"properties,omitempty"`
	Timestamp   string           `json:"timestamp,omitempty"`
}

// Validate checks field presence, lengths and the timestamp format.
func (r *TrackRequest) Validate() error {
	var errs FieldErrors
	errs.required("event", r.Event)
	errs.optional("userId", r.UserID)
	errs.optional("anonymousId", r.AnonymousID)
	errs.timestamp("timestamp", r.Timestamp)
	return errs.orNil()
}

// OccurredAt returns the client timestamp, or now when none was sent.
// Call it only after Validate succeeded.
func (r *TrackRequest) OccurredAt(now time.Time) time.Time {
	if r.Timestamp == "" {
		return now
	}
	ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return now
	}
	return ts
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every invalid field of a request.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

func (fe *FieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (fe *FieldErrors) required(field, value string) {
	if value == "" {
		fe.add(field, "is required")
		return
	}
	fe.optional(field, value)
}

func (fe *FieldErrors) optional(field, value string) {
	if n := utf8.RuneCountInString(value); n > MaxIdentifierLength {
		fe.add(field, "must be at most %d characters, got %d", MaxIdentifierLength, n)
	}
}

func (fe *FieldErrors) timestamp(field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(time.RFC3339Nano, value); err != nil {
		fe.add(field, "must be an RFC3339 date-time")
	}
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
