package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const skillCollection = "skills"

// distanceField receives the cosine distance computed by FindNearest
const distanceField = "vector_distance"

// Firestore implements Index using Firestore vector search
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore-backed skill index
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID),
			goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

type dbSkill struct {
	Name        string             `firestore:"name"`
	Description string             `firestore:"description"`
	Document    string             `firestore:"document"`
	Path        string             `firestore:"path"`
	Type        string             `firestore:"type"`
	Embedding   firestore.Vector32 `firestore:"embedding"`
	CreatedAt   time.Time          `firestore:"created_at"`
	UpdatedAt   time.Time          `firestore:"updated_at"`

	Distance float64 `firestore:"vector_distance"`
}

func toDBSkill(skill *model.Skill) *dbSkill {
	return &dbSkill{
		Name:        skill.Name,
		Description: skill.Description,
		Document:    skill.Document,
		Path:        skill.Path,
		Type:        string(skill.Type),
		Embedding:   skill.Embedding,
		CreatedAt:   skill.CreatedAt,
		UpdatedAt:   skill.UpdatedAt,
	}
}

func (d *dbSkill) toModel() *model.Skill {
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

func (r *Firestore) PutSkill(ctx context.Context, skill *model.Skill) error {
	if err := skill.Validate(); err != nil {
		return err
	}

	doc := r.client.Collection(skillCollection).Doc(skill.Name)
	if _, err := doc.Set(ctx, toDBSkill(skill)); err != nil {
		return goerr.Wrap(err, "failed to put skill", goerr.V("name", skill.Name))
	}

	return nil
}

func (r *Firestore) GetSkill(ctx context.Context, name string) (*model.Skill, error) {
	snapshot, err := r.client.Collection(skillCollection).Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrSkillNotFound, "no such skill", goerr.V("name", name))
		}
		return nil, goerr.Wrap(err, "failed to get skill", goerr.V("name", name))
	}

	var skill dbSkill
	if err := snapshot.DataTo(&skill); err != nil {
		return nil, goerr.Wrap(err, "failed to decode skill", goerr.V("name", name))
	}

	return skill.toModel(), nil
}

func (r *Firestore) ListSkills(ctx context.Context) ([]*model.Skill, error) {
	iter := r.client.Collection(skillCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var skills []*model.Skill
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list skills")
		}

		var skill dbSkill
		if err := snapshot.DataTo(&skill); err != nil {
			return nil, goerr.Wrap(err, "failed to decode skill", goerr.V("doc", snapshot.Ref.ID))
		}
		skills = append(skills, skill.toModel())
	}

	return skills, nil
}

func (r *Firestore) DeleteSkill(ctx context.Context, name string) error {
	if _, err := r.client.Collection(skillCollection).Doc(name).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete skill", goerr.V("name", name))
	}
	return nil
}

func (r *Firestore) Search(ctx context.Context, embedding []float32, limit int) ([]*Hit, error) {
	query := r.client.Collection(skillCollection).FindNearest(
		"embedding",
		firestore.Vector32(embedding),
		limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{
			DistanceResultField: distanceField,
		},
	)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var hits []*Hit
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search similar skills")
		}

		var skill dbSkill
		if err := snapshot.DataTo(&skill); err != nil {
			return nil, goerr.Wrap(err, "failed to decode skill", goerr.V("doc", snapshot.Ref.ID))
		}

		hits = append(hits, &Hit{
			Skill:    skill.toModel(),
			Distance: skill.Distance,
		})
	}

	return hits, nil
}
