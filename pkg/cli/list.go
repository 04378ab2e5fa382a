package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List all skills and tools in the catalog",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			uc, err := cfg.newCatalog(ctx)
			if err != nil {
				return err
			}

			skills, err := uc.List(ctx)
			if err != nil {
				return err
			}

			if len(skills) == 0 {
				fmt.Fprintln(c.Root().Writer, "The catalog is empty. Run `harrier import` to populate it.")
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "%d catalog entries:\n\n", len(skills))
			for _, skill := range skills {
				fmt.Fprintf(c.Root().Writer, "  %-30s %-5s %s\n",
					skill.Name, skill.Type, skill.ShortDescription(70))
			}
			return nil
		},
	}
}
