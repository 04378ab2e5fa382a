package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "harrier",
		Usage: "Semantic skill retrieval for coding-assistant sessions",
		Commands: []*cli.Command{
			importCommand(),
			searchCommand(),
			showCommand(),
			listCommand(),
			enrichCommand(),
			suggestCommand(),
			catalogCommand(),
			resetCommand(),
			gapsCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			return &Error{
				Code:    exitErr.ExitCode(),
				Message: err.Error(),
			}
		}
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
