package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg          config
		maxResults   int64
		minRelevance float64
		interactive  bool
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of results",
			Value:       5,
			Sources:     cli.EnvVars("HARRIER_SEARCH_LIMIT"),
			Destination: &maxResults,
		},
		&cli.FloatFlag{
			Name:        "min-relevance",
			Aliases:     []string{"m"},
			Usage:       "Relevance floor in [0,1] (0 selects the mode default)",
			Sources:     cli.EnvVars("HARRIER_SEARCH_MIN_RELEVANCE"),
			Destination: &minRelevance,
		},
		&cli.BoolFlag{
			Name:        "interactive",
			Aliases:     []string{"i"},
			Usage:       "Interactive search prompt",
			Destination: &interactive,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search the skill catalog by semantic similarity",
		ArgsUsage: "[query]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			uc, err := cfg.newRetrieval(ctx)
			if err != nil {
				return err
			}

			runQuery := func(query string) error {
				result, err := uc.Retrieve(ctx, retrieval.RetrieveInput{
					Query:        query,
					Mode:         model.ModePrompt,
					MaxResults:   int(maxResults),
					MinRelevance: minRelevance,
				})
				if err != nil {
					return err
				}
				printSearchResult(c.Root().Writer, result)
				return nil
			}

			if !interactive {
				query := strings.Join(c.Args().Slice(), " ")
				if strings.TrimSpace(query) == "" {
					return goerr.New("query is required (or use --interactive)")
				}
				return runQuery(query)
			}

			rl, err := readline.New("harrier> ")
			if err != nil {
				return goerr.Wrap(err, "failed to start interactive prompt")
			}
			defer rl.Close()

			fmt.Fprintln(c.Root().Writer, "Interactive skill search. Empty line or Ctrl-D to quit.")
			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						return nil
					}
					return goerr.Wrap(err, "failed to read query")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					return nil
				}
				if err := runQuery(line); err != nil {
					return err
				}
			}
		},
	}
}

func printSearchResult(w io.Writer, result *model.QueryResult) {
	if len(result.Surfaceable) == 0 {
		best := result.BestMatch
		if best == "" {
			fmt.Fprintln(w, "No skills matched.")
			return
		}
		fmt.Fprintf(w, "No skills above the relevance floor. Best miss: %s (%d%%)\n",
			best, result.BestRelevancePct())
		return
	}

	fmt.Fprintf(w, "Found %d relevant skills:\n\n", len(result.Surfaceable))
	for i, match := range result.Surfaceable {
		fmt.Fprintf(w, "%d. %s [%s] %d%%\n", i+1, match.Name, match.Tier, match.RelevancePct())
		if match.Description != "" {
			fmt.Fprintf(w, "   %s\n", match.Description)
		}
		if match.Path != "" {
			fmt.Fprintf(w, "   Path: %s\n", match.Path)
		}
		fmt.Fprintln(w)
	}
}
