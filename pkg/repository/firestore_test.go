package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func TestFirestorePutAndGetSkill(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	skill := &model.Skill{
		Name:        "Firestore Test Skill",
		Description: "A skill used by the integration test",
		Document:    "# Firestore Test Skill\n\nHow to test against Firestore.",
		Path:        "skills/firestore-test/SKILL.md",
		Type:        model.SkillTypeSkill,
		Embedding:   []float32{0.1, 0.2, 0.3, 0.4},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	gt.NoError(t, repo.PutSkill(ctx, skill))

	retrieved, err := repo.GetSkill(ctx, skill.Name)
	gt.NoError(t, err)
	gt.V(t, retrieved).NotNil()
	gt.Equal(t, retrieved.Name, skill.Name)
	gt.Equal(t, retrieved.Document, skill.Document)
	gt.Equal(t, retrieved.Type, model.SkillTypeSkill)

	gt.NoError(t, repo.DeleteSkill(ctx, skill.Name))
}

func TestFirestoreGetSkillNotFound(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	_, err := repo.GetSkill(ctx, "no-such-skill")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrSkillNotFound))
}

func TestFirestoreSearch(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	skills := []*model.Skill{
		{
			Name:      "Search Skill A",
			Document:  "First search skill",
			Type:      model.SkillTypeSkill,
			Embedding: []float32{1, 0, 0, 0},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		{
			Name:      "Search Skill B",
			Document:  "Second search skill",
			Type:      model.SkillTypeSkill,
			Embedding: []float32{0, 1, 0, 0},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	for _, skill := range skills {
		gt.NoError(t, repo.PutSkill(ctx, skill))
	}
	t.Cleanup(func() {
		for _, skill := range skills {
			_ = repo.DeleteSkill(ctx, skill.Name)
		}
	})

	hits, err := repo.Search(ctx, []float32{1, 0, 0, 0}, 2)
	gt.NoError(t, err)
	gt.A(t, hits).Longer(0)
	gt.Equal(t, hits[0].Skill.Name, "Search Skill A")
}
