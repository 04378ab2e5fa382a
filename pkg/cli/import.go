package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/usecase/catalog"
	"github.com/urfave/cli/v3"
)

func importCommand() *cli.Command {
	var (
		cfg        config
		patterns   []string
		noProgress bool
	)

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "pattern",
			Usage:       "Glob patterns for skill documents relative to each directory",
			Sources:     cli.EnvVars("HARRIER_IMPORT_PATTERNS"),
			Destination: &patterns,
		},
		&cli.BoolFlag{
			Name:        "no-progress",
			Usage:       "Disable the import progress spinner",
			Destination: &noProgress,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:      "import",
		Usage:     "Import skill documents into the vector index",
		ArgsUsage: "<path> [<path>...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("at least one skill directory or file is required")
			}

			uc, err := cfg.newCatalog(ctx, catalog.WithProgress(!noProgress))
			if err != nil {
				return err
			}

			result, err := uc.Import(ctx, catalog.ImportInput{
				Paths:    paths,
				Patterns: patterns,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Imported %d skills:\n", len(result.Imported))
			for _, name := range result.Imported {
				fmt.Fprintf(c.Root().Writer, "  - %s\n", name)
			}
			return nil
		},
	}
}
