package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// defaultPatterns locate skill documents under a catalog root: one
// SKILL.md per skill directory, plus standalone tool descriptions
var defaultPatterns = []string{
	"*/SKILL.md",
	"tools/*.md",
}

// ImportInput selects the files to import. Paths may be directories
// (expanded with Patterns) or individual markdown files.
type ImportInput struct {
	Paths    []string
	Patterns []string
}

// ImportResult reports what one import run put into the index
type ImportResult struct {
	Imported []string
}

// frontmatter is the optional YAML header of a skill document
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
}

// Import discovers skill documents, embeds them and upserts them into the
// index keyed by name. A path that matches nothing, or a file that cannot
// be read, is an error: silently importing a partial catalog would leave
// queries running against stale entries.
func (u *UseCase) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	if len(input.Paths) == 0 {
		return nil, goerr.New("no import path given")
	}

	patterns := input.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}

	var files []string
	for _, path := range input.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, goerr.Wrap(err, "import path does not exist", goerr.V("path", path))
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		for _, pattern := range patterns {
			matched, err := doublestar.FilepathGlob(filepath.Join(path, pattern))
			if err != nil {
				return nil, goerr.Wrap(err, "invalid discovery pattern", goerr.V("pattern", pattern))
			}
			files = append(files, matched...)
		}
	}

	if len(files) == 0 {
		return nil, goerr.New("no skill documents found", goerr.V("paths", input.Paths))
	}

	var indicator *spinner.Spinner
	if u.progress {
		indicator = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(os.Stderr))
		indicator.Start()
		defer indicator.Stop()
	}

	result := &ImportResult{}
	for _, file := range files {
		if indicator != nil {
			indicator.Suffix = fmt.Sprintf(" importing %s", filepath.Base(filepath.Dir(file)))
		}

		skill, err := u.loadSkillFile(ctx, file)
		if err != nil {
			return nil, err
		}
		if err := u.index.PutSkill(ctx, skill); err != nil {
			return nil, goerr.Wrap(err, "failed to store skill", goerr.V("name", skill.Name))
		}

		result.Imported = append(result.Imported, skill.Name)
		logging.From(ctx).Debug("skill imported", "name", skill.Name, "path", file)
	}

	return result, nil
}

func (u *UseCase) loadSkillFile(ctx context.Context, path string) (*model.Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read skill document", goerr.V("path", path))
	}

	meta, body := splitFrontmatter(string(data))

	skill := &model.Skill{
		Name:        meta.Name,
		Description: meta.Description,
		Document:    body,
		Path:        path,
		Type:        model.SkillType(meta.Type),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if skill.Name == "" {
		skill.Name = nameFromPath(path)
	}
	if skill.Type == "" {
		skill.Type = model.SkillTypeSkill
	}
	if skill.Description == "" {
		skill.Description = skill.ShortDescription(200)
	}
	if err := skill.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid skill document", goerr.V("path", path))
	}

	// The embedding covers name, description and document so lookups by
	// either phrasing or content both land
	embedding, err := u.gemini.Embedding(ctx, skill.Name+"\n"+skill.Description+"\n"+skill.Document)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed skill document", goerr.V("name", skill.Name))
	}
	skill.Embedding = firestore.Vector32(embedding)

	return skill, nil
}

// splitFrontmatter parses an optional leading YAML block delimited by
// "---" lines. Invalid YAML is treated as document content.
func splitFrontmatter(content string) (frontmatter, string) {
	var meta frontmatter

	if !strings.HasPrefix(content, "---\n") {
		return meta, content
	}

	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, content
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return frontmatter{}, content
	}

	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return meta, body
}

// nameFromPath derives a skill name: the directory name for SKILL.md
// layouts, the file stem otherwise
func nameFromPath(path string) string {
	base := filepath.Base(path)
	if base == "SKILL.md" {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
