package model

import (
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidSkill = goerr.New("invalid skill")
)

// SkillType distinguishes full skill documents from tool descriptions
type SkillType string

const (
	SkillTypeSkill SkillType = "skill"
	SkillTypeTool  SkillType = "tool"
)

// Validate checks if the skill type is valid
func (t SkillType) Validate() error {
	switch t {
	case SkillTypeSkill, SkillTypeTool:
		return nil
	default:
		return goerr.New("invalid skill type", goerr.V("type", t))
	}
}

// Skill is a catalog entry retrievable by semantic similarity. Name is the
// unique key: importing the same name again replaces the existing entry.
type Skill struct {
	Name        string
	Description string
	Document    string
	Path        string
	Type        SkillType
	Embedding   firestore.Vector32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the skill can be stored in the catalog
func (s *Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return goerr.Wrap(ErrInvalidSkill, "skill name is empty")
	}
	if s.Document == "" {
		return goerr.Wrap(ErrInvalidSkill, "skill document is empty", goerr.V("name", s.Name))
	}
	if err := s.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid skill", goerr.V("name", s.Name))
	}
	return nil
}

// ShortDescription returns the description truncated for one-line catalogs
func (s *Skill) ShortDescription(limit int) string {
	desc := s.Description
	if desc == "" {
		// Fall back to the first meaningful document line
		for _, line := range strings.Split(s.Document, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			desc = line
			break
		}
	}
	if idx := strings.Index(desc, ". "); idx > 0 {
		desc = desc[:idx]
	}
	if len(desc) > limit {
		desc = desc[:limit]
	}
	return desc
}
