package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const trackingFileName = "shown_skills.json"

// Dir returns the durable state directory for one session
func Dir(stateDir, sessionID string) string {
	return filepath.Join(stateDir, "sessions", sessionID)
}

// Store persists the maximum relevance at which each skill has been
// surfaced in the current session. A missing or corrupt file is treated
// as empty state and overwritten on the next successful write.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a tracking store rooted at the given session directory
func NewStore(sessionDir string) *Store {
	return &Store{path: filepath.Join(sessionDir, trackingFileName)}
}

// trackingFile is the canonical on-disk form. ShownSkills is declared as
// RawMessage because legacy sessions persisted a bare list of names.
type trackingFile struct {
	ShownSkills json.RawMessage `json:"shown_skills"`
	LastReset   time.Time       `json:"last_reset,omitempty"`
}

// load normalizes any legacy representation into the canonical map of
// name -> max relevance. Legacy list entries map to relevance 0.
func (s *Store) load() map[string]float64 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]float64{}
	}

	var file trackingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return map[string]float64{}
	}
	if len(file.ShownSkills) == 0 {
		return map[string]float64{}
	}

	var shown map[string]float64
	if err := json.Unmarshal(file.ShownSkills, &shown); err == nil {
		return shown
	}

	var names []string
	if err := json.Unmarshal(file.ShownSkills, &names); err == nil {
		shown = make(map[string]float64, len(names))
		for _, name := range names {
			shown[name] = 0
		}
		return shown
	}

	return map[string]float64{}
}

func (s *Store) save(shown map[string]float64, lastReset time.Time) error {
	raw, err := json.Marshal(shown)
	if err != nil {
		return goerr.Wrap(err, "failed to encode shown skills")
	}

	data, err := json.MarshalIndent(trackingFile{
		ShownSkills: raw,
		LastReset:   lastReset,
	}, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode tracking file")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create session directory")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write tracking file", goerr.V("path", s.path))
	}

	return nil
}

// MaxRelevance returns the highest relevance at which the skill has been
// surfaced this session, or 0 if it has never been shown
func (s *Store) MaxRelevance(name string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()[name]
}

// RecordShown updates the stored maximum to max(current, relevance).
// The stored value never decreases within a session.
func (s *Store) RecordShown(name string, relevance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shown := s.load()
	if relevance > shown[name] {
		shown[name] = relevance
	}

	return s.save(shown, time.Time{})
}

// Reset clears all entries, writing canonical empty state
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(map[string]float64{}, time.Now())
}
