package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
)

func ptr[T any](v T) *T { return &v }

func seedEvent(t *testing.T, s *Store, profileID string) *v1.Event {
	t.Helper()
	ctx := context.Background()

	m, err := s.UpsertMetricByName(ctx, "page_view", storage.MetricCreate{ID: "metric-1"}, storage.MetricPatch{})
	require.NoError(t, err)

	e := &v1.Event{ID: "evt-" + profileID, MetricID: m.ID, ProfileID: profileID, Data: jsonvalue.Object{}}
	require.NoError(t, s.CreateEvent(ctx, e))
	return e
}

func TestStore_UpsertProfileByAnonymousID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.UpsertProfileByAnonymousID(ctx, "anon-1",
		storage.ProfileCreate{ID: "p-1", IsAnonymous: true},
		storage.ProfilePatch{})
	require.NoError(t, err)
	require.Equal(t, "p-1", created.ID)
	require.Equal(t, "anon-1", created.AnonymousID)
	require.True(t, created.IsAnonymous)
	require.NotNil(t, created.Properties)

	seen := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	again, err := s.UpsertProfileByAnonymousID(ctx, "anon-1",
		storage.ProfileCreate{ID: "p-2", IsAnonymous: true},
		storage.ProfilePatch{LastSeenAt: &seen})
	require.NoError(t, err)
	require.Equal(t, "p-1", again.ID, "existing profile must be reused")
	require.Equal(t, seen, again.LastSeenAt)

	missing, err := s.FindProfileByID(ctx, "p-2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStore_UpdateProfileByID_RewritesIDAndCascadesEvents(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.UpsertProfileByAnonymousID(ctx, "anon-1", storage.ProfileCreate{ID: "p-1", IsAnonymous: true}, storage.ProfilePatch{})
	require.NoError(t, err)
	evt := seedEvent(t, s, "p-1")

	updated, err := s.UpdateProfileByID(ctx, "p-1", storage.ProfilePatch{
		ID:          ptr("user-1"),
		IsAnonymous: ptr(false),
		Properties:  jsonvalue.Object{"name": jsonvalue.String("X")},
	})
	require.NoError(t, err)
	require.Equal(t, "user-1", updated.ID)
	require.False(t, updated.IsAnonymous)

	old, err := s.FindProfileByID(ctx, "p-1")
	require.NoError(t, err)
	require.Nil(t, old)

	byAnon, err := s.FindProfileByAnonymousID(ctx, "anon-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", byAnon.ID)

	stored, err := s.FindEventByID(ctx, evt.ID)
	require.NoError(t, err)
	require.Equal(t, "user-1", stored.ProfileID)
}

func TestStore_UpdateProfileByID_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.UpdateProfileByID(ctx, "ghost", storage.ProfilePatch{})
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.UpsertProfileByID(ctx, "a", storage.ProfileCreate{}, storage.ProfilePatch{})
	require.NoError(t, err)
	_, err = s.UpsertProfileByID(ctx, "b", storage.ProfileCreate{}, storage.ProfilePatch{})
	require.NoError(t, err)

	_, err = s.UpdateProfileByID(ctx, "a", storage.ProfilePatch{ID: ptr("b")})
	require.ErrorIs(t, err, storage.ErrConflict)

	still, err := s.FindProfileByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, still, "failed patch must not change the store")
}

func TestStore_MergeProfiles(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.UpsertProfileByAnonymousID(ctx, "anon-1", storage.ProfileCreate{ID: "anon-profile", IsAnonymous: true}, storage.ProfilePatch{})
	require.NoError(t, err)
	_, err = s.UpsertProfileByID(ctx, "user-1", storage.ProfileCreate{}, storage.ProfilePatch{})
	require.NoError(t, err)
	evt := seedEvent(t, s, "anon-profile")

	merged, err := s.MergeProfiles(ctx, "anon-profile", "user-1", storage.ProfilePatch{
		AnonymousID: ptr("anon-1"),
		IsAnonymous: ptr(false),
		Properties:  jsonvalue.Object{"plan": jsonvalue.String("pro")},
	})
	require.NoError(t, err)
	require.Equal(t, "user-1", merged.ID)
	require.Equal(t, "anon-1", merged.AnonymousID)

	source, err := s.FindProfileByID(ctx, "anon-profile")
	require.NoError(t, err)
	require.Equal(t, "user-1", source.MergedInto)

	byAnon, err := s.FindProfileByAnonymousID(ctx, "anon-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", byAnon.ID)

	stored, err := s.FindEventByID(ctx, evt.ID)
	require.NoError(t, err)
	require.Equal(t, "user-1", stored.ProfileID)

	_, err = s.MergeProfiles(ctx, "user-1", "user-1", storage.ProfilePatch{})
	require.ErrorIs(t, err, storage.ErrConflict)

	// Merged profiles are terminal.
	_, err = s.MergeProfiles(ctx, "anon-profile", "user-1", storage.ProfilePatch{})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UpsertMetricByName_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.UpsertMetricByName(ctx, "signup", storage.MetricCreate{ID: "m-1", Description: "first", Schema: jsonvalue.Object{}}, storage.MetricPatch{})
	require.NoError(t, err)
	require.True(t, first.IsActive)

	second, err := s.UpsertMetricByName(ctx, "signup", storage.MetricCreate{ID: "m-2", Description: "second"}, storage.MetricPatch{})
	require.NoError(t, err)
	require.Equal(t, "m-1", second.ID)
	require.Equal(t, "first", second.Description)
	require.Equal(t, first.UpdatedAt, second.UpdatedAt)

	schemaDoc := jsonvalue.Object{"type": jsonvalue.String("object")}
	third, err := s.UpsertMetricByName(ctx, "signup", storage.MetricCreate{}, storage.MetricPatch{Schema: schemaDoc})
	require.NoError(t, err)
	require.True(t, third.Schema.Equal(schemaDoc))

	list, err := s.ListMetrics(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestStore_CreateEvent_RequiresReferences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.CreateEvent(ctx, &v1.Event{ID: "e-1", MetricID: "nope", ProfileID: "nope"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.UpsertProfileByID(ctx, "user-1", storage.ProfileCreate{}, storage.ProfilePatch{})
	require.NoError(t, err)
	evt := seedEvent(t, s, "user-1")
	require.False(t, evt.CreatedAt.IsZero())
	require.Equal(t, evt.CreatedAt, evt.Timestamp)

	err = s.CreateEvent(ctx, &v1.Event{ID: evt.ID, MetricID: evt.MetricID, ProfileID: "user-1"})
	require.ErrorIs(t, err, storage.ErrConflict)

	missing, err := s.FindEventByID(ctx, "unknown")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	p, err := s.UpsertProfileByID(ctx, "user-1", storage.ProfileCreate{Properties: jsonvalue.Object{"k": jsonvalue.Int(1)}}, storage.ProfilePatch{})
	require.NoError(t, err)
	p.Properties["k"] = jsonvalue.Int(2)

	again, err := s.FindProfileByID(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, jsonvalue.Equal(jsonvalue.Int(1), again.Properties["k"]))
}
