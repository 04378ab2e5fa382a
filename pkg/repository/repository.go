package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

var (
	// ErrSkillNotFound is returned when a skill name is not in the catalog
	ErrSkillNotFound = goerr.New("skill not found")

	// ErrIndexNotReady is returned when the backing store does not exist yet.
	// Callers must be able to distinguish this from zero matches.
	ErrIndexNotReady = goerr.New("skill index not ready")
)

// Hit is one nearest-neighbor result with its raw cosine distance
type Hit struct {
	Skill    *model.Skill
	Distance float64
}

// Index defines the vector index boundary for the skill catalog
type Index interface {
	// PutSkill adds or replaces a skill, keyed by name
	PutSkill(ctx context.Context, skill *model.Skill) error

	// GetSkill retrieves a skill by exact name
	GetSkill(ctx context.Context, name string) (*model.Skill, error)

	// ListSkills retrieves all skills in the catalog
	ListSkills(ctx context.Context) ([]*model.Skill, error)

	// DeleteSkill removes a skill by name
	DeleteSkill(ctx context.Context, name string) error

	// Search performs nearest-neighbor search over skill embeddings,
	// returning up to limit hits ordered by ascending distance
	Search(ctx context.Context, embedding []float32, limit int) ([]*Hit, error)
}
