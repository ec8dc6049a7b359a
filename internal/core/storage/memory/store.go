// Package memory is an in-process implementation of storage.Store.
// It backs `database.type: memory` and the handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by one RWMutex. Records are copied
// on the way in and out so callers never share state with the store.
type Store struct {
	mu sync.RWMutex

	profiles    map[string]*v1.Profile
	anonIndex   map[string]string // anonymous id -> id of the live profile holding it
	metrics     map[string]*v1.Metric
	metricsByID map[string]string // metric id -> name
	events      map[string]*v1.Event

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		profiles:    make(map[string]*v1.Profile),
		anonIndex:   make(map[string]string),
		metrics:     make(map[string]*v1.Metric),
		metricsByID: make(map[string]string),
		events:      make(map[string]*v1.Event),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

// --- profiles ---

func (s *Store) FindProfileByID(ctx context.Context, id string) (*v1.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}
	return copyProfile(p), nil
}

func (s *Store) FindProfileByAnonymousID(ctx context.Context, anonymousID string) (*v1.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.anonIndex[anonymousID]
	if !ok {
		return nil, nil
	}
	return copyProfile(s.profiles[id]), nil
}

func (s *Store) UpsertProfileByID(ctx context.Context, id string, create storage.ProfileCreate, update storage.ProfilePatch) (*v1.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[id]; ok {
		if err := s.applyProfilePatch(p, update); err != nil {
			return nil, err
		}
		return copyProfile(p), nil
	}

	create.ID = id
	p, err := s.insertProfile(create)
	if err != nil {
		return nil, err
	}
	return copyProfile(p), nil
}

func (s *Store) UpsertProfileByAnonymousID(ctx context.Context, anonymousID string, create storage.ProfileCreate, update storage.ProfilePatch) (*v1.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.anonIndex[anonymousID]; ok {
		p := s.profiles[id]
		if err := s.applyProfilePatch(p, update); err != nil {
			return nil, err
		}
		return copyProfile(p), nil
	}

	create.AnonymousID = anonymousID
	p, err := s.insertProfile(create)
	if err != nil {
		return nil, err
	}
	return copyProfile(p), nil
}

func (s *Store) UpdateProfileByID(ctx context.Context, id string, patch storage.ProfilePatch) (*v1.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", id, storage.ErrNotFound)
	}
	if err := s.applyProfilePatch(p, patch); err != nil {
		return nil, err
	}
	return copyProfile(p), nil
}

func (s *Store) MergeProfiles(ctx context.Context, sourceID, targetID string, patch storage.ProfilePatch) (*v1.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sourceID == targetID {
		return nil, fmt.Errorf("cannot merge profile %q into itself: %w", sourceID, storage.ErrConflict)
	}
	source, ok := s.profiles[sourceID]
	if !ok || source.MergedInto != "" {
		return nil, fmt.Errorf("profile %q: %w", sourceID, storage.ErrNotFound)
	}
	target, ok := s.profiles[targetID]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", targetID, storage.ErrNotFound)
	}
	if patch.ID != nil && *patch.ID != targetID {
		return nil, fmt.Errorf("merge cannot rename profile %q: %w", targetID, storage.ErrConflict)
	}

	// Release the source's anonymous id first so the target may claim it.
	sourceAnon := source.AnonymousID
	if sourceAnon != "" && s.anonIndex[sourceAnon] == sourceID {
		delete(s.anonIndex, sourceAnon)
	}
	if err := s.applyProfilePatch(target, patch); err != nil {
		if sourceAnon != "" {
			s.anonIndex[sourceAnon] = sourceID
		}
		return nil, err
	}

	for _, e := range s.events {
		if e.ProfileID == sourceID {
			e.ProfileID = targetID
		}
	}
	source.MergedInto = targetID
	source.UpdatedAt = s.now()

	return copyProfile(target), nil
}

func (s *Store) insertProfile(create storage.ProfileCreate) (*v1.Profile, error) {
	if create.ID == "" {
		return nil, fmt.Errorf("profile id is required")
	}
	if create.AnonymousID != "" {
		if _, taken := s.anonIndex[create.AnonymousID]; taken {
			return nil, fmt.Errorf("anonymous id %q: %w", create.AnonymousID, storage.ErrConflict)
		}
	}

	now := s.now()
	p := &v1.Profile{
		ID:          create.ID,
		AnonymousID: create.AnonymousID,
		IsAnonymous: create.IsAnonymous,
		Properties:  create.Properties.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
		LastSeenAt:  now,
	}
	s.profiles[p.ID] = p
	if p.AnonymousID != "" {
		s.anonIndex[p.AnonymousID] = p.ID
	}
	return p, nil
}

// applyProfilePatch validates uniqueness before touching p, so a failed patch
// leaves the store unchanged. Callers hold the write lock.
func (s *Store) applyProfilePatch(p *v1.Profile, patch storage.ProfilePatch) error {
	newID := p.ID
	if patch.ID != nil {
		newID = *patch.ID
	}
	if newID != p.ID {
		if _, taken := s.profiles[newID]; taken {
			return fmt.Errorf("profile id %q: %w", newID, storage.ErrConflict)
		}
	}
	if patch.AnonymousID != nil && *patch.AnonymousID != "" {
		if holder, taken := s.anonIndex[*patch.AnonymousID]; taken && holder != p.ID {
			return fmt.Errorf("anonymous id %q: %w", *patch.AnonymousID, storage.ErrConflict)
		}
	}

	if newID != p.ID {
		oldID := p.ID
		delete(s.profiles, oldID)
		p.ID = newID
		s.profiles[newID] = p
		if p.AnonymousID != "" && s.anonIndex[p.AnonymousID] == oldID {
			s.anonIndex[p.AnonymousID] = newID
		}
		for _, e := range s.events {
			if e.ProfileID == oldID {
				e.ProfileID = newID
			}
		}
	}
	if patch.AnonymousID != nil {
		if p.AnonymousID != "" && s.anonIndex[p.AnonymousID] == p.ID {
			delete(s.anonIndex, p.AnonymousID)
		}
		p.AnonymousID = *patch.AnonymousID
		if p.AnonymousID != "" {
			s.anonIndex[p.AnonymousID] = p.ID
		}
	}
	if patch.IsAnonymous != nil {
		p.IsAnonymous = *patch.IsAnonymous
	}
	if patch.Properties != nil {
		p.Properties = patch.Properties.Clone()
	}
	if patch.LastSeenAt != nil {
		p.LastSeenAt = patch.LastSeenAt.UTC()
	}
	p.UpdatedAt = s.now()
	return nil
}

// --- metrics ---

func (s *Store) UpsertMetricByName(ctx context.Context, name string, create storage.MetricCreate, update storage.MetricPatch) (*v1.Metric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.metrics[name]; ok {
		changed := false
		if update.Description != nil {
			m.Description = *update.Description
			changed = true
		}
		if update.Schema != nil {
			m.Schema = update.Schema.Clone()
			changed = true
		}
		if update.IsActive != nil {
			m.IsActive = *update.IsActive
			changed = true
		}
		if changed {
			m.UpdatedAt = s.now()
		}
		return copyMetric(m), nil
	}

	if create.ID == "" {
		create.ID = uuid.New().String()
	}
	if _, taken := s.metricsByID[create.ID]; taken {
		return nil, fmt.Errorf("metric id %q: %w", create.ID, storage.ErrConflict)
	}

	now := s.now()
	m := &v1.Metric{
		ID:          create.ID,
		Name:        name,
		Description: create.Description,
		Schema:      create.Schema.Clone(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.metrics[name] = m
	s.metricsByID[m.ID] = name
	return copyMetric(m), nil
}

func (s *Store) FindMetricByName(ctx context.Context, name string) (*v1.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.metrics[name]
	if !ok {
		return nil, nil
	}
	return copyMetric(m), nil
}

func (s *Store) ListMetrics(ctx context.Context) ([]*v1.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*v1.Metric, 0, len(s.metrics))
	for _, m := range s.metrics {
		result = append(result, copyMetric(m))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// --- events ---

func (s *Store) CreateEvent(ctx context.Context, event *v1.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if _, exists := s.events[event.ID]; exists {
		return fmt.Errorf("event %q: %w", event.ID, storage.ErrConflict)
	}
	if _, ok := s.metricsByID[event.MetricID]; !ok {
		return fmt.Errorf("metric %q: %w", event.MetricID, storage.ErrNotFound)
	}
	if _, ok := s.profiles[event.ProfileID]; !ok {
		return fmt.Errorf("profile %q: %w", event.ProfileID, storage.ErrNotFound)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = event.CreatedAt
	}
	s.events[event.ID] = copyEvent(event)
	return nil
}

func (s *Store) FindEventByID(ctx context.Context, id string) (*v1.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	return copyEvent(e), nil
}

func copyProfile(p *v1.Profile) *v1.Profile {
	c := *p
	c.Properties = p.Properties.Clone()
	return &c
}

func copyMetric(m *v1.Metric) *v1.Metric {
	c := *m
	c.Schema = m.Schema.Clone()
	return &c
}

func copyEvent(e *v1.Event) *v1.Event {
	c := *e
	c.Data = e.Data.Clone()
	return &c
}
