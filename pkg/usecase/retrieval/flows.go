package retrieval

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/session"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// fileSampleLimit bounds the content sample used as a file-mode query.
// Samples shorter than fileSampleFloor carry too little signal, so the
// file name is queried instead.
const (
	fileSampleLimit = 500
	fileSampleFloor = 50
)

// Suggest runs a prompt-mode query and prints a suggestion block when new
// skills clear the floor. Silent otherwise.
func (u *UseCase) Suggest(ctx context.Context, prompt string) (*model.QueryResult, error) {
	result, err := u.Retrieve(ctx, RetrieveInput{
		Query: prompt,
		Mode:  model.ModePrompt,
	})
	if err != nil {
		return nil, err
	}

	if result.Directive == model.DirectiveNotify && len(result.Surfaced) > 0 {
		fmt.Fprintln(u.output, FormatSuggestion(result, prompt))
	}
	return result, nil
}

// Catalog runs a file-mode query after a file read. Matches produce a
// catalog block; a miss records a gap against the file and prints an
// active gap notification.
func (u *UseCase) Catalog(ctx context.Context, filePath, content string) (*model.QueryResult, error) {
	sample := content
	if len(sample) > fileSampleLimit {
		sample = sample[:fileSampleLimit]
	}

	query := sample
	if len(query) < fileSampleFloor {
		query = filepath.Base(filePath)
	}

	result, err := u.Retrieve(ctx, RetrieveInput{
		Query:  query,
		Mode:   model.ModeFile,
		Source: filePath,
	})
	if err != nil {
		return nil, err
	}

	if result.Directive != model.DirectiveNotify {
		return result, nil
	}

	if result.IsGap {
		hints := session.ExtractDomainHints(filePath, sample)
		fmt.Fprintln(u.output, FormatGapNotification(result, filePath, hints))
	} else if len(result.Surfaced) > 0 {
		fmt.Fprintln(u.output, FormatCatalog(result, filePath))
	}
	return result, nil
}

// EnrichOutput is the agentic-mode result: the original prompt plus a
// markdown block of relevant skills to inject alongside it
type EnrichOutput struct {
	Prompt        string
	DynamicSkills string
	Injected      []string
	Result        *model.QueryResult
}

// Enrich records the prompt into the working context, runs a boosted
// agentic query and assembles the enrichment block. The prompt passes
// through unchanged when nothing matches.
func (u *UseCase) Enrich(ctx context.Context, prompt string) (*EnrichOutput, error) {
	logger := logging.From(ctx)

	var boosts map[string]float64
	if u.booster != nil {
		if err := u.booster.ObserveUserPrompt(prompt); err != nil {
			logger.Warn("failed to record prompt intent", "error", err)
		}
		boosts = u.booster.Boosts()
	}

	result, err := u.Retrieve(ctx, RetrieveInput{
		Query: prompt,
		Mode:  model.ModeAgentic,
	})
	if err != nil {
		return nil, err
	}

	out := &EnrichOutput{Prompt: prompt, Result: result}
	if result.Directive == model.DirectiveNone || len(result.Matches) == 0 {
		return out, nil
	}

	out.DynamicSkills, out.Injected = FormatEnrichment(result, boosts)

	if u.booster != nil && len(out.Injected) > 0 {
		if err := u.booster.RecordLoadedSkills(out.Injected); err != nil {
			logger.Warn("failed to record loaded skills", "error", err)
		}
	}

	logger.Debug("prompt enriched",
		"matches", len(result.Matches),
		"injected", len(out.Injected))
	return out, nil
}
