package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:      "show",
		Usage:     "Show the full document of a skill by name",
		ArgsUsage: "<skill-name>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			name := c.Args().First()
			if name == "" {
				return goerr.New("skill name is required")
			}

			uc, err := cfg.newCatalog(ctx)
			if err != nil {
				return err
			}

			out, err := uc.Show(ctx, name)
			if err != nil {
				return err
			}

			if out.Skill != nil {
				fmt.Fprintf(c.Root().Writer, "# %s (%s)\n", out.Skill.Name, out.Skill.Type)
				if out.Skill.Path != "" {
					fmt.Fprintf(c.Root().Writer, "Path: %s\n", out.Skill.Path)
				}
				fmt.Fprintf(c.Root().Writer, "\n%s\n", out.Skill.Document)
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "Skill %q not found.\n", name)
			if len(out.Suggestions) > 0 {
				fmt.Fprintln(c.Root().Writer, "Did you mean:")
				for _, hit := range out.Suggestions {
					fmt.Fprintf(c.Root().Writer, "  - %s\n", hit.Skill.Name)
				}
			}
			return nil
		},
	}
}
