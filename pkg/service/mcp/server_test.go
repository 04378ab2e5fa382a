package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/session"
	"github.com/m-mizutani/harrier/pkg/usecase/catalog"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type staticEmbedder struct{}

func (x *staticEmbedder) Embedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func newTestServer(t *testing.T) *Server {
	dir := t.TempDir()
	index := repository.NewLocal(filepath.Join(dir, "index.json"))
	embedder := &staticEmbedder{}

	catalogUC := catalog.New(index, embedder)
	retrievalUC := retrieval.New(index, embedder, session.NewStore(dir), session.NewGaps(dir))
	server := New(retrievalUC, catalogUC)

	skills := t.TempDir()
	path := filepath.Join(skills, "websocket-testing", "SKILL.md")
	writeSkill(t, path, "# WebSocket Testing\n\nConnect and exchange frames.\n")

	_, err := catalogUC.Import(context.Background(), catalog.ImportInput{Paths: []string{skills}})
	gt.NoError(t, err)

	return server
}

func writeSkill(t *testing.T, path, content string) {
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	gt.A(t, result.Content).Length(1)
	content, ok := result.Content[0].(*mcp.TextContent)
	gt.True(t, ok)
	return content.Text
}

func TestSearchSkillsTool(t *testing.T) {
	server := newTestServer(t)

	result, _, err := server.searchSkills(context.Background(), nil, &searchSkillsParams{
		Query: "how do I test websockets",
	})
	gt.NoError(t, err)
	gt.S(t, resultText(t, result)).Contains("websocket-testing")
}

func TestSearchSkillsToolRequiresQuery(t *testing.T) {
	server := newTestServer(t)

	_, _, err := server.searchSkills(context.Background(), nil, &searchSkillsParams{})
	gt.Error(t, err)
}

func TestLoadSkillTool(t *testing.T) {
	server := newTestServer(t)

	result, _, err := server.loadSkill(context.Background(), nil, &loadSkillParams{
		Name: "websocket-testing",
	})
	gt.NoError(t, err)
	gt.S(t, resultText(t, result)).Contains("Connect and exchange frames.")
}

func TestLoadSkillToolSuggestsOnMiss(t *testing.T) {
	server := newTestServer(t)

	result, _, err := server.loadSkill(context.Background(), nil, &loadSkillParams{
		Name: "websoket-testing",
	})
	gt.NoError(t, err)
	text := resultText(t, result)
	gt.S(t, text).Contains("not found")
	gt.S(t, text).Contains("websocket-testing")
}

func TestListSkillsTool(t *testing.T) {
	server := newTestServer(t)

	result, _, err := server.listSkills(context.Background(), nil, &listSkillsParams{})
	gt.NoError(t, err)
	gt.S(t, resultText(t, result)).Contains("websocket-testing")
}
