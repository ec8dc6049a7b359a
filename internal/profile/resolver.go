// Package profile resolves request identifiers (user ids and anonymous ids)
// to stored profiles, and turns anonymous profiles into identified ones.
package profile

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
)

// ErrIdentifierRequired is returned when a call carries neither a user id nor an anonymous id.
var ErrIdentifierRequired = errors.New("either userId or anonymousId must be provided")

// Identifier is the pair of correlation keys a request may carry.
type Identifier struct {
	UserID      string
	AnonymousID string
}

// Resolution is the outcome of ResolveForTracking.
type Resolution struct {
	Profile *v1.Profile

	// UnknownUser is set when the supplied user id matched no profile and the
	// event was attributed to an anonymous profile keyed by that value instead.
	UnknownUser bool
}

// Resolver maps identifiers to profiles. It holds no mutable state; every
// decision is made against the store.
type Resolver struct {
	store  storage.ProfileStore
	tracer trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewResolver creates a resolver over store.
func NewResolver(store storage.ProfileStore) *Resolver {
	if store == nil {
		panic("profile: store must not be nil")
	}
	return &Resolver{
		store:  store,
		tracer: otel.Tracer("github.com/beacon-lab/project-beacon/internal/profile"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// ResolveForIdentify binds userID to a profile and replaces its properties
// with traits.
//
// When anonymousID names a live anonymous profile, that profile becomes the
// identified one: its id is rewritten to userID, or, if a profile with id
// userID already exists, its events are merged into that profile and it is
// retired. An anonymous id already owned by another identified profile is
// left with its owner.
func (r *Resolver) ResolveForIdentify(ctx context.Context, userID, anonymousID string, traits jsonvalue.Object) (_ *v1.Profile, err error) {
	ctx, span := r.tracer.Start(ctx, "profile.ResolveForIdentify",
		trace.WithAttributes(attribute.Bool("beacon.anonymous_id.present", anonymousID != "")))
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return nil, ErrIdentifierRequired
	}

	props := traits.Clone()
	now := r.now()
	claim := anonymousID != ""

	if anonymousID != "" {
		anon, err := r.store.FindProfileByAnonymousID(ctx, anonymousID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up anonymous profile: %w", err)
		}

		switch {
		case anon == nil:
		case anon.IsAnonymous && anon.ID != userID:
			p, done, err := r.promote(ctx, anon, userID, anonymousID, props, now)
			if err != nil || done {
				return p, err
			}
			// Another identify took the anonymous profile; decide against its new owner.
			claim, err = r.canClaim(ctx, anonymousID, userID)
			if err != nil {
				return nil, err
			}
		case anon.ID != userID:
			r.logOwned(anonymousID, anon.ID, userID)
			claim = false
		}
	}

	create := storage.ProfileCreate{ID: userID, IsAnonymous: false, Properties: props}
	update := storage.ProfilePatch{Properties: props, IsAnonymous: ptr(false), LastSeenAt: &now}
	if claim {
		create.AnonymousID = anonymousID
		update.AnonymousID = &anonymousID
	}

	p, err := r.store.UpsertProfileByID(ctx, userID, create, update)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert identified profile: %w", err)
	}
	return p, nil
}

// canClaim reports whether anonymousID is free for userID to take.
func (r *Resolver) canClaim(ctx context.Context, anonymousID, userID string) (bool, error) {
	owner, err := r.store.FindProfileByAnonymousID(ctx, anonymousID)
	if err != nil {
		return false, fmt.Errorf("failed to look up anonymous profile: %w", err)
	}
	if owner == nil || owner.ID == userID {
		return true, nil
	}
	r.logOwned(anonymousID, owner.ID, userID)
	return false, nil
}

func (r *Resolver) logOwned(anonymousID, ownerID, userID string) {
	slog.Warn("Anonymous id already belongs to another user, not re-binding",
		"anonymous_id", anonymousID, "owner_id", ownerID, "user_id", userID)
}

// promote turns the anonymous profile anon into userID. done is false when a
// concurrent identify got there first and the caller should fall back to the
// plain upsert.
func (r *Resolver) promote(ctx context.Context, anon *v1.Profile, userID, anonymousID string, props jsonvalue.Object, now time.Time) (*v1.Profile, bool, error) {
	existing, err := r.store.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up identified profile: %w", err)
	}

	if existing == nil {
		p, err := r.store.UpdateProfileByID(ctx, anon.ID, storage.ProfilePatch{
			ID:          &userID,
			Properties:  props,
			IsAnonymous: ptr(false),
			LastSeenAt:  &now,
		})
		switch {
		case err == nil:
			slog.Info("Anonymous profile identified", "anonymous_id", anonymousID, "profile_id", userID)
			return p, true, nil
		case errors.Is(err, storage.ErrConflict):
			// userID was created between the lookup and the rewrite.
		case errors.Is(err, storage.ErrNotFound):
			return nil, false, nil
		default:
			return nil, false, fmt.Errorf("failed to identify anonymous profile: %w", err)
		}
	}

	p, err := r.store.MergeProfiles(ctx, anon.ID, userID, storage.ProfilePatch{
		AnonymousID: &anonymousID,
		Properties:  props,
		IsAnonymous: ptr(false),
		LastSeenAt:  &now,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to merge anonymous profile: %w", err)
	}

	slog.Info("Anonymous profile merged into existing user",
		"anonymous_id", anonymousID, "source_id", anon.ID, "profile_id", userID)
	return p, true, nil
}

// Resolve finds the profile for id. A user id is only looked up (a miss is
// nil, nil); an anonymous id is created on first sight and refreshed after.
func (r *Resolver) Resolve(ctx context.Context, id Identifier) (_ *v1.Profile, err error) {
	ctx, span := r.tracer.Start(ctx, "profile.Resolve")
	defer func() { endSpan(span, err) }()

	switch {
	case id.UserID != "":
		p, err := r.store.FindProfileByID(ctx, id.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up profile: %w", err)
		}
		return p, nil
	case id.AnonymousID != "":
		return r.touchAnonymous(ctx, id.AnonymousID)
	default:
		return nil, ErrIdentifierRequired
	}
}

// ResolveForTracking resolves id for an event. An unknown user id is treated
// as a new anonymous visitor keyed by that value.
func (r *Resolver) ResolveForTracking(ctx context.Context, id Identifier) (_ *Resolution, err error) {
	ctx, span := r.tracer.Start(ctx, "profile.ResolveForTracking")
	defer func() { endSpan(span, err) }()

	p, err := r.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return &Resolution{Profile: p}, nil
	}

	if id.UserID != "" {
		p, err = r.touchAnonymous(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		slog.Warn("Unknown userId tracked as anonymous profile", "user_id", id.UserID, "profile_id", p.ID)
		span.SetAttributes(attribute.Bool("beacon.unknown_user", true))
		return &Resolution{Profile: p, UnknownUser: true}, nil
	}
	return nil, ErrIdentifierRequired
}

func (r *Resolver) touchAnonymous(ctx context.Context, anonymousID string) (*v1.Profile, error) {
	now := r.now()
	p, err := r.store.UpsertProfileByAnonymousID(ctx, anonymousID,
		storage.ProfileCreate{ID: r.newID(), AnonymousID: anonymousID, IsAnonymous: true, Properties: jsonvalue.Object{}},
		storage.ProfilePatch{LastSeenAt: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert anonymous profile: %w", err)
	}
	return p, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrIdentifierRequired) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func ptr[T any](v T) *T { return &v }
