package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fileStoreData struct {
	Presets           []Preset           `json:"presets"`
	CompletedSessions []CompletedSession `json:"completed_sessions"`
	LoggedWorkouts    []LoggedWorkout    `json:"logged_workouts"`
}

// FileStore keeps everything in one JSON file, rewritten on every
// mutation. Fine for the data volumes a single user produces; the
// sqlite store exists for anything beyond that.
type FileStore struct {
	mu       sync.Mutex
	filePath string
	data     fileStoreData
	logger   *log.Logger
}

// NewFileStore loads (or initialises) the JSON file at path.
func NewFileStore(path string, logger *log.Logger) (*FileStore, error) {
	if logger == nil {
		panic("NewFileStore: logger cannot be nil")
	}

	s := &FileStore{filePath: path, logger: logger}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Printf("FileStore: %s does not exist yet, starting empty", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logger.Printf("FileStore: loaded %s (%d presets, %d sessions, %d workouts)",
		path, len(s.data.Presets), len(s.data.CompletedSessions), len(s.data.LoggedWorkouts))
	return s, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) LoadPresets(_ context.Context, mode string) ([]Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var presets []Preset
	for _, p := range s.data.Presets {
		if mode == "" || p.Mode == mode {
			presets = append(presets, p)
		}
	}
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].UpdatedAt.After(presets[j].UpdatedAt)
	})
	return presets, nil
}

func (s *FileStore) SavePreset(_ context.Context, p Preset) (Preset, error) {
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

	replaced := false
	for i := range s.data.Presets {
		if s.data.Presets[i].ID == p.ID {
			s.data.Presets[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		s.data.Presets = append(s.data.Presets, p)
	}
	if err := s.save(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func (s *FileStore) DeletePreset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Presets {
		if s.data.Presets[i].ID == id {
			s.data.Presets = append(s.data.Presets[:i], s.data.Presets[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

func (s *FileStore) SaveCompletedSession(_ context.Context, sess CompletedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	s.data.CompletedSessions = append(s.data.CompletedSessions, sess)
	return s.save()
}

func (s *FileStore) ListCompletedSessions(_ context.Context, limit int) ([]CompletedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]CompletedSession, len(s.data.CompletedSessions))
	copy(sessions, s.data.CompletedSessions)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (s *FileStore) SaveLoggedWorkout(_ context.Context, w LoggedWorkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	s.data.LoggedWorkouts = append(s.data.LoggedWorkouts, w)
	return s.save()
}

func (s *FileStore) ListLoggedWorkouts(_ context.Context, since time.Time) ([]LoggedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var workouts []LoggedWorkout
	for _, w := range s.data.LoggedWorkouts {
		if !w.Date.Before(since) {
			workouts = append(workouts, w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}

// save writes the whole file via a temp file + rename so a crash mid-write
// cannot truncate existing data. Caller holds s.mu.
func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.filePath), err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store data: %w", err)
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replacing %s: %w", s.filePath, err)
	}
	return nil
}
