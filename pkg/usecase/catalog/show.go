package catalog

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// suggestionLimit bounds the nearest-miss list shown for unknown names
const suggestionLimit = 3

// ShowOutput is a lookup result. When the name is unknown, Skill is nil
// and Suggestions holds the nearest catalog entries to the requested name.
type ShowOutput struct {
	Skill       *model.Skill
	Suggestions []*repository.Hit
}

// Show retrieves a skill by exact name. An unknown name is not an error:
// the caller gets nearest-miss suggestions instead, matching how a typo'd
// lookup should behave at the prompt.
func (u *UseCase) Show(ctx context.Context, name string) (*ShowOutput, error) {
	skill, err := u.index.GetSkill(ctx, name)
	if err == nil {
		return &ShowOutput{Skill: skill}, nil
	}
	if !errors.Is(err, repository.ErrSkillNotFound) {
		return nil, goerr.Wrap(err, "failed to look up skill", goerr.V("name", name))
	}

	embedding, err := u.gemini.Embedding(ctx, name)
	if err != nil {
		logging.From(ctx).Warn("failed to embed name for suggestions", "error", err)
		return &ShowOutput{}, nil
	}

	hits, err := u.index.Search(ctx, embedding, suggestionLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to search for suggestions", "error", err)
		return &ShowOutput{}, nil
	}

	return &ShowOutput{Suggestions: hits}, nil
}

// List returns all catalog entries ordered by name
func (u *UseCase) List(ctx context.Context) ([]*model.Skill, error) {
	skills, err := u.index.ListSkills(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list skills")
	}
	return skills, nil
}

// Remove deletes a catalog entry by name
func (u *UseCase) Remove(ctx context.Context, name string) error {
	if err := u.index.DeleteSkill(ctx, name); err != nil {
		return goerr.Wrap(err, "failed to delete skill", goerr.V("name", name))
	}
	return nil
}
