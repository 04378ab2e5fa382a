package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/usecase/catalog"
)

type staticEmbedder struct{}

func (x *staticEmbedder) Embedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func writeFile(t *testing.T, path, content string) {
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newCatalog(t *testing.T) (*catalog.UseCase, repository.Index) {
	index := repository.NewLocal(filepath.Join(t.TempDir(), "index.json"))
	return catalog.New(index, &staticEmbedder{}), index
}

func TestImportSkillDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "websocket-testing", "SKILL.md"), `---
name: websocket-testing
description: Test WebSocket handshakes and frame exchange
---
# WebSocket Testing

Connect, upgrade, exchange frames.
`)
	writeFile(t, filepath.Join(root, "web-scraping", "SKILL.md"), `# Web Scraping

Fetch pages and extract structured data.
`)
	writeFile(t, filepath.Join(root, "tools", "http-client.md"), `---
type: tool
description: Issue HTTP requests from the command line
---
Use the http-client tool for ad-hoc requests.
`)

	uc, index := newCatalog(t)
	result, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{root}})
	gt.NoError(t, err)
	gt.A(t, result.Imported).Length(3)

	ws, err := index.GetSkill(context.Background(), "websocket-testing")
	gt.NoError(t, err)
	gt.Equal(t, ws.Description, "Test WebSocket handshakes and frame exchange")
	gt.Equal(t, ws.Type, model.SkillTypeSkill)
	gt.S(t, ws.Document).Contains("# WebSocket Testing")
	gt.S(t, ws.Document).NotContains("description:")

	// Name falls back to the directory, description to the first body line
	scraping, err := index.GetSkill(context.Background(), "web-scraping")
	gt.NoError(t, err)
	gt.Equal(t, scraping.Description, "Fetch pages and extract structured data.")

	// Tool documents take their name from the file stem
	tool, err := index.GetSkill(context.Background(), "http-client")
	gt.NoError(t, err)
	gt.Equal(t, tool.Type, model.SkillTypeTool)
}

func TestImportReplacesByName(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deployment", "SKILL.md")
	writeFile(t, path, "# Deployment\n\nShip with the old pipeline.\n")

	uc, index := newCatalog(t)
	_, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{root}})
	gt.NoError(t, err)

	writeFile(t, path, "# Deployment\n\nShip with the new pipeline.\n")
	_, err = uc.Import(context.Background(), catalog.ImportInput{Paths: []string{root}})
	gt.NoError(t, err)

	skills, err := index.ListSkills(context.Background())
	gt.NoError(t, err)
	gt.A(t, skills).Length(1)
	gt.S(t, skills[0].Document).Contains("new pipeline")
}

func TestImportSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-integration.md")
	writeFile(t, path, "# API Integration\n\nCall third-party APIs with retries.\n")

	uc, index := newCatalog(t)
	result, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{path}})
	gt.NoError(t, err)
	gt.Equal(t, result.Imported, []string{"api-integration"})

	_, err = index.GetSkill(context.Background(), "api-integration")
	gt.NoError(t, err)
}

func TestImportMissingPath(t *testing.T) {
	uc, _ := newCatalog(t)

	_, err := uc.Import(context.Background(), catalog.ImportInput{
		Paths: []string{filepath.Join(t.TempDir(), "no-such-dir")},
	})
	gt.Error(t, err)
}

func TestImportEmptyDirectory(t *testing.T) {
	uc, _ := newCatalog(t)

	_, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{t.TempDir()}})
	gt.Error(t, err)
}

func TestShowExactMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "testing", "SKILL.md"), "# Testing\n\nWrite table-driven tests.\n")

	uc, _ := newCatalog(t)
	_, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{root}})
	gt.NoError(t, err)

	out, err := uc.Show(context.Background(), "testing")
	gt.NoError(t, err)
	gt.V(t, out.Skill).NotNil()
	gt.Equal(t, out.Skill.Name, "testing")
	gt.A(t, out.Suggestions).Length(0)
}

func TestShowUnknownNameSuggests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "websocket-testing", "SKILL.md"), "# WS\n\nTest sockets.\n")

	uc, _ := newCatalog(t)
	_, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{root}})
	gt.NoError(t, err)

	out, err := uc.Show(context.Background(), "websoket-testing")
	gt.NoError(t, err)
	gt.Nil(t, out.Skill)
	gt.A(t, out.Suggestions).Longer(0)
	gt.Equal(t, out.Suggestions[0].Skill.Name, "websocket-testing")
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "testing", "SKILL.md"), "# Testing\n\nWrite tests.\n")

	uc, index := newCatalog(t)
	_, err := uc.Import(context.Background(), catalog.ImportInput{Paths: []string{root}})
	gt.NoError(t, err)

	gt.NoError(t, uc.Remove(context.Background(), "testing"))
	_, err = index.GetSkill(context.Background(), "testing")
	gt.Error(t, err)
}
