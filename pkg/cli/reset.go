package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/harrier/pkg/intent"
	"github.com/m-mizutani/harrier/pkg/session"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/urfave/cli/v3"
)

func resetCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:  "reset",
		Usage: "Stop hook: print the session gap report and clear session tracking",
		Flags: flags,
		Action: hookAction(func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			dir, err := cfg.sessionDir()
			if err != nil {
				return err
			}

			gaps := session.NewGaps(dir)
			if report := gaps.Summarize(); report != nil && report.TotalGaps > 0 {
				fmt.Fprintln(c.Root().Writer, retrieval.FormatGapReport(report))
			}

			if err := session.NewStore(dir).Reset(); err != nil {
				return err
			}
			if err := gaps.Reset(); err != nil {
				return err
			}
			if err := intent.NewContext(dir).Reset(); err != nil {
				return err
			}
			return nil
		}),
	}
}
