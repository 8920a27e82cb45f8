package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and as a fallback when
// no persistence path is configured.
type MemoryStore struct {
	mu       sync.Mutex
	presets  map[string]Preset
	sessions []CompletedSession
	workouts []LoggedWorkout
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{presets: make(map[string]Preset)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) LoadPresets(_ context.Context, mode string) ([]Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var presets []Preset
	for _, p := range s.presets {
		if mode == "" || p.Mode == mode {
			presets = append(presets, p)
		}
	}
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].UpdatedAt.After(presets[j].UpdatedAt)
	})
	return presets, nil
}

func (s *MemoryStore) SavePreset(_ context.Context, p Preset) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.presets[p.ID] = p
	return p, nil
}

func (s *MemoryStore) DeletePreset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[id]; !ok {
		return ErrNotFound
	}
	delete(s.presets, id)
	return nil
}

func (s *MemoryStore) SaveCompletedSession(_ context.Context, sess CompletedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	s.sessions = append(s.sessions, sess)
	return nil
}

func (s *MemoryStore) ListCompletedSessions(_ context.Context, limit int) ([]CompletedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]CompletedSession, len(s.sessions))
	copy(sessions, s.sessions)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (s *MemoryStore) SaveLoggedWorkout(_ context.Context, w LoggedWorkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	s.workouts = append(s.workouts, w)
	return nil
}

func (s *MemoryStore) ListLoggedWorkouts(_ context.Context, since time.Time) ([]LoggedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var workouts []LoggedWorkout
	for _, w := range s.workouts {
		if !w.Date.Before(since) {
			workouts = append(workouts, w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}
