package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/catalog"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "0.1.0"

// Server exposes the skill catalog to MCP clients over stdio. Tools mirror
// the CLI surface: search by similarity, load by name, list everything.
type Server struct {
	retrieval *retrieval.UseCase
	catalog   *catalog.UseCase
}

// New creates a new MCP server over the given use cases
func New(retrievalUC *retrieval.UseCase, catalogUC *catalog.UseCase) *Server {
	return &Server{
		retrieval: retrievalUC,
		catalog:   catalogUC,
	}
}

// Run serves MCP requests on stdin/stdout until the client disconnects
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "harrier",
		Version: serverVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_search",
		Description: "Search the skill catalog by semantic similarity to a query",
	}, s.searchSkills)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_load",
		Description: "Load the full document of a skill by exact name",
	}, s.loadSkill)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "skill_list",
		Description: "List all skills and tools in the catalog",
	}, s.listSkills)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server failed")
	}
	return nil
}

type searchSkillsParams struct {
	Query      string `json:"query" jsonschema:"The query to match against skill documents"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 5)"`
}

func (s *Server) searchSkills(ctx context.Context, req *mcp.CallToolRequest, params *searchSkillsParams) (*mcp.CallToolResult, any, error) {
	if params.Query == "" {
		return nil, nil, goerr.New("query is required")
	}

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	result, err := s.retrieval.Retrieve(ctx, retrieval.RetrieveInput{
		Query:      params.Query,
		Mode:       model.ModePrompt,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(result.Surfaceable) == 0 {
		return textResult(fmt.Sprintf("No skills matched %q. This may be a skill gap.", params.Query)), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant skills:\n", len(result.Surfaceable))
	for i, match := range result.Surfaceable {
		fmt.Fprintf(&b, "%d. %s (%s, %d%% match): %s\n",
			i+1, match.Name, match.Tier, match.RelevancePct(), match.Description)
	}
	b.WriteString("\nUse skill_load to retrieve the full document of any skill.")
	return textResult(b.String()), nil, nil
}

type loadSkillParams struct {
	Name string `json:"name" jsonschema:"The exact skill name to load"`
}

func (s *Server) loadSkill(ctx context.Context, req *mcp.CallToolRequest, params *loadSkillParams) (*mcp.CallToolResult, any, error) {
	if params.Name == "" {
		return nil, nil, goerr.New("name is required")
	}

	out, err := s.catalog.Show(ctx, params.Name)
	if err != nil {
		return nil, nil, err
	}

	if out.Skill != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s (%s)\n\n", out.Skill.Name, out.Skill.Type)
		b.WriteString(out.Skill.Document)
		return textResult(b.String()), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Skill %q not found.", params.Name)
	if len(out.Suggestions) > 0 {
		b.WriteString(" Did you mean:\n")
		for _, hit := range out.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", hit.Skill.Name)
		}
	}
	return textResult(b.String()), nil, nil
}

type listSkillsParams struct{}

func (s *Server) listSkills(ctx context.Context, req *mcp.CallToolRequest, params *listSkillsParams) (*mcp.CallToolResult, any, error) {
	skills, err := s.catalog.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(skills) == 0 {
		return textResult("The skill catalog is empty. Run `harrier import` to populate it."), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d catalog entries:\n", len(skills))
	for _, skill := range skills {
		fmt.Fprintf(&b, "  - %s (%s): %s\n", skill.Name, skill.Type, skill.ShortDescription(70))
	}
	return textResult(b.String()), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
