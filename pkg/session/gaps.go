package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

const gapsFileName = "skill_gaps.json"

// contentPreviewLimit caps the stored snippet of gap context
const contentPreviewLimit = 200

// Gaps records queries whose best match missed the relevance floor,
// deduplicated by source identifier within the session.
type Gaps struct {
	path string
	mu   sync.Mutex
}

// NewGaps creates a gap recorder rooted at the given session directory
func NewGaps(sessionDir string) *Gaps {
	return &Gaps{path: filepath.Join(sessionDir, gapsFileName)}
}

type gapsFile struct {
	Gaps         []*model.GapRecord `json:"gaps"`
	SessionStart time.Time          `json:"session_start"`
}

func (g *Gaps) load() *gapsFile {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return &gapsFile{SessionStart: time.Now()}
	}

	var file gapsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return &gapsFile{SessionStart: time.Now()}
	}
	if file.SessionStart.IsZero() {
		file.SessionStart = time.Now()
	}

	return &file
}

func (g *Gaps) save(file *gapsFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode gap file")
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create session directory")
	}
	if err := os.WriteFile(g.path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write gap file", goerr.V("path", g.path))
	}

	return nil
}

// Record stores a gap for the given source. Returns false without writing
// when a gap for the same source already exists in this session.
func (g *Gaps) Record(source, contentSample, bestMatch string, bestRelevance float64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	file := g.load()
	for _, gap := range file.Gaps {
		if gap.Source == source {
			return false, nil
		}
	}

	preview := contentSample
	if len(preview) > contentPreviewLimit {
		preview = preview[:contentPreviewLimit]
	}

	file.Gaps = append(file.Gaps, &model.GapRecord{
		ID:             model.NewGapID(),
		Source:         source,
		DomainHints:    ExtractDomainHints(source, contentSample),
		ContentPreview: preview,
		BestMatch:      bestMatch,
		BestRelevance:  bestRelevance,
		Timestamp:      time.Now(),
	})

	if err := g.save(file); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all gap records accumulated in this session
func (g *Gaps) List() []*model.GapRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.load().Gaps
}

// Summarize groups recorded gaps by domain hint for end-of-session reporting
func (g *Gaps) Summarize() *model.GapReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	file := g.load()

	byDomain := make(map[string][]*model.GapRecord)
	for _, gap := range file.Gaps {
		hints := gap.DomainHints
		if len(hints) == 0 {
			hints = []string{"general"}
		}
		for _, domain := range hints {
			byDomain[domain] = append(byDomain[domain], gap)
		}
	}

	return &model.GapReport{
		TotalGaps:    len(file.Gaps),
		ByDomain:     byDomain,
		SessionStart: file.SessionStart,
	}
}

// Reset clears all recorded gaps and starts a new session window
func (g *Gaps) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.save(&gapsFile{SessionStart: time.Now()})
}
