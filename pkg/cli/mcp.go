package cli

import (
	"context"
	"os"

	mcpservice "github.com/m-mizutani/harrier/pkg/service/mcp"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve skill_search, skill_load and skill_list as MCP tools over stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			// stdout carries the MCP protocol stream
			retrievalUC, err := cfg.newRetrieval(ctx, retrieval.WithOutput(os.Stderr))
			if err != nil {
				return err
			}

			catalogUC, err := cfg.newCatalog(ctx)
			if err != nil {
				return err
			}

			return mcpservice.New(retrievalUC, catalogUC).Run(ctx)
		},
	}
}
