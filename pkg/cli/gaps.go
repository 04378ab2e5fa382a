package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/session"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/urfave/cli/v3"
)

func gapsCommand() *cli.Command {
	var (
		cfg     config
		archive string
		dataset string
		table   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "archive",
			Usage:       "GCS bucket to archive the gap records to",
			Sources:     cli.EnvVars("HARRIER_GAPS_BUCKET"),
			Destination: &archive,
		},
		&cli.StringFlag{
			Name:        "bigquery",
			Usage:       "BigQuery dataset to export gap records to",
			Sources:     cli.EnvVars("HARRIER_GAPS_DATASET"),
			Destination: &dataset,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "BigQuery table for gap records",
			Value:       "skill_gaps",
			Sources:     cli.EnvVars("HARRIER_GAPS_TABLE"),
			Destination: &table,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "gaps",
		Usage: "Report skill gaps recorded in the current session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			dir, err := cfg.sessionDir()
			if err != nil {
				return err
			}
			gaps := session.NewGaps(dir)

			records := gaps.List()
			if len(records) == 0 {
				fmt.Fprintln(c.Root().Writer, "No skill gaps recorded in current session.")
				return nil
			}

			fmt.Fprintln(c.Root().Writer, retrieval.FormatGapReport(gaps.Summarize()))

			if archive != "" {
				if err := archiveGaps(ctx, &cfg, archive, records); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "Archived %d gap records to gs://%s\n", len(records), archive)
			}

			if dataset != "" {
				if cfg.project == "" {
					return goerr.New("project is required for BigQuery export")
				}
				bq, err := adapter.NewBigQuery(ctx, cfg.project)
				if err != nil {
					return err
				}
				if err := bq.InsertGaps(ctx, dataset, table, cfg.sessionID, records); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "Exported %d gap records to %s.%s\n", len(records), dataset, table)
			}

			return nil
		},
	}
}

func archiveGaps(ctx context.Context, cfg *config, bucket string, records any) error {
	storage, err := adapter.NewStorage(ctx, bucket)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("gap-reports/%s/%s.json", cfg.sessionID, time.Now().Format("20060102-150405"))
	w, err := storage.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open archive object", goerr.V("key", key))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode gap records")
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize archive object", goerr.V("key", key))
	}
	return nil
}
