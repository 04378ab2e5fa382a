package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

// Local implements Index with a brute-force cosine scan over a JSON file.
// It exists for hosts without GCP credentials; the catalog is small enough
// that a linear scan is cheaper than a remote round-trip.
type Local struct {
	path string
	mu   sync.Mutex
}

// NewLocal creates a file-backed skill index at the given path
func NewLocal(path string) *Local {
	return &Local{path: path}
}

type localSkill struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Document    string    `json:"document"`
	Path        string    `json:"path,omitempty"`
	Type        string    `json:"type"`
	Embedding   []float32 `json:"embedding"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type localCatalog struct {
	Skills map[string]*localSkill `json:"skills"`
}

func (d *localSkill) toModel() *model.Skill {
	return &model.Skill{
		Name:        d.Name,
		Description: d.Description,
		Document:    d.Document,
		Path:        d.Path,
		Type:        model.SkillType(d.Type),
		Embedding:   d.Embedding,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// load reads the catalog file. A missing file yields ErrIndexNotReady so
// callers can tell "no backing store" apart from "no matches".
func (r *Local) load() (*localCatalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrIndexNotReady, "catalog file does not exist", goerr.V("path", r.path))
		}
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", r.path))
	}

	var catalog localCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to decode catalog file", goerr.V("path", r.path))
	}
	if catalog.Skills == nil {
		catalog.Skills = make(map[string]*localSkill)
	}

	return &catalog, nil
}

func (r *Local) save(catalog *localCatalog) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create catalog directory")
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode catalog")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write catalog file", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return goerr.Wrap(err, "failed to replace catalog file", goerr.V("path", r.path))
	}

	return nil
}

func (r *Local) PutSkill(ctx context.Context, skill *model.Skill) error {
	if err := skill.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		if !errors.Is(err, ErrIndexNotReady) {
			return err
		}
		// First write initializes the catalog
		catalog = &localCatalog{Skills: make(map[string]*localSkill)}
	}

	catalog.Skills[skill.Name] = &localSkill{
		Name:        skill.Name,
		Description: skill.Description,
		Document:    skill.Document,
		Path:        skill.Path,
		Type:        string(skill.Type),
		Embedding:   skill.Embedding,
		CreatedAt:   skill.CreatedAt,
		UpdatedAt:   skill.UpdatedAt,
	}

	return r.save(catalog)
}

func (r *Local) GetSkill(ctx context.Context, name string) (*model.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}

	skill, ok := catalog.Skills[name]
	if !ok {
		return nil, goerr.Wrap(ErrSkillNotFound, "no such skill", goerr.V("name", name))
	}

	return skill.toModel(), nil
}

func (r *Local) ListSkills(ctx context.Context) ([]*model.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}

	skills := make([]*model.Skill, 0, len(catalog.Skills))
	for _, skill := range catalog.Skills {
		skills = append(skills, skill.toModel())
	}
	sort.Slice(skills, func(i, j int) bool {
		return skills[i].Name < skills[j].Name
	})

	return skills, nil
}

func (r *Local) DeleteSkill(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return err
	}

	delete(catalog.Skills, name)
	return r.save(catalog)
}

func (r *Local) Search(ctx context.Context, embedding []float32, limit int) ([]*Hit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}

	hits := make([]*Hit, 0, len(catalog.Skills))
	for _, skill := range catalog.Skills {
		hits = append(hits, &Hit{
			Skill:    skill.toModel(),
			Distance: cosineDistance(embedding, skill.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// cosineDistance calculates cosine distance (1 - cosine similarity)
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
