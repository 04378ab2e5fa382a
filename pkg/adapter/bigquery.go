package adapter

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/model"
)

// BigQuery exports session gap records for cross-session curation
type BigQuery interface {
	// InsertGaps streams gap records into the given dataset/table
	InsertGaps(ctx context.Context, datasetID, tableID, sessionID string, gaps []*model.GapRecord) error
}

type bigqueryClient struct {
	client *bigquery.Client
}

// NewBigQuery creates a new BigQuery client
func NewBigQuery(ctx context.Context, projectID string) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{
		client: client,
	}, nil
}

// gapRow is the streaming insert schema for a gap record
type gapRow struct {
	ID             string    `bigquery:"id"`
	Session        string    `bigquery:"session"`
	Source         string    `bigquery:"source"`
	DomainHints    []string  `bigquery:"domain_hints"`
	ContentPreview string    `bigquery:"content_preview"`
	BestMatch      string    `bigquery:"best_match"`
	BestRelevance  float64   `bigquery:"best_relevance"`
	Timestamp      time.Time `bigquery:"timestamp"`
}

func (bq *bigqueryClient) InsertGaps(ctx context.Context, datasetID, tableID, sessionID string, gaps []*model.GapRecord) error {
	if len(gaps) == 0 {
		return nil
	}

	rows := make([]*gapRow, 0, len(gaps))
	for _, gap := range gaps {
		rows = append(rows, &gapRow{
			ID:             string(gap.ID),
			Session:        sessionID,
			Source:         gap.Source,
			DomainHints:    gap.DomainHints,
			ContentPreview: gap.ContentPreview,
			BestMatch:      gap.BestMatch,
			BestRelevance:  gap.BestRelevance,
			Timestamp:      gap.Timestamp,
		})
	}

	inserter := bq.client.Dataset(datasetID).Table(tableID).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return goerr.Wrap(err, "failed to insert gap records",
			goerr.V("dataset", datasetID),
			goerr.V("table", tableID),
			goerr.V("count", len(rows)))
	}

	return nil
}
