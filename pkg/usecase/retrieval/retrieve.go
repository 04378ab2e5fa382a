package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/harrier/pkg/intent"
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
)

// RetrieveInput contains parameters for one retrieval call
type RetrieveInput struct {
	// Query is the text to match against the catalog: a user prompt, a
	// file content sample, or a working-context snippet
	Query string

	Mode model.Mode

	// MaxResults caps the surfaceable set. Zero selects the mode default.
	MaxResults int

	// MinRelevance is the surfacing floor. Zero selects the mode default.
	MinRelevance float64

	// Source identifies the query context for gap deduplication (file
	// path, "manual", ...). Gaps are only recorded when Source is set.
	Source string
}

func (x *RetrieveInput) normalize() {
	if x.MaxResults <= 0 {
		if x.Mode == model.ModeAgentic {
			x.MaxResults = EnrichTopN
		} else {
			x.MaxResults = DefaultMaxResults
		}
	}
	if x.MinRelevance <= 0 {
		switch x.Mode {
		case model.ModeFile:
			x.MinRelevance = FileMinRelevance
		case model.ModeAgentic:
			x.MinRelevance = MediumConfidence
		default:
			x.MinRelevance = PromptMinRelevance
		}
	}
}

// Retrieve runs one similarity query and classifies the results. Index or
// embedding failures degrade to an empty gap result: retrieval is never
// fatal to the host interaction.
func (u *UseCase) Retrieve(ctx context.Context, input RetrieveInput) (*model.QueryResult, error) {
	logger := logging.From(ctx)

	query := strings.TrimSpace(input.Query)
	if query == "" {
		// Nothing to match: no query issued, no gap recorded
		return &model.QueryResult{Directive: model.DirectiveNone}, nil
	}
	input.normalize()

	embedding, err := u.gemini.Embedding(ctx, query)
	if err != nil {
		logger.Warn("embedding failed, degrading to no results", "error", err)
		return u.unavailableResult(), nil
	}

	hits, err := u.index.Search(ctx, embedding, input.MaxResults+extraCandidates)
	if err != nil {
		logger.Warn("skill index unavailable, degrading to no results", "error", err)
		return u.unavailableResult(), nil
	}

	if len(hits) == 0 {
		result := &model.QueryResult{IsGap: true}
		u.recordGap(ctx, input, result)
		result.Directive = directiveFor(input, result)
		return result, nil
	}

	matches := scoreHits(hits)

	// best_match reflects the raw top-1 so gap records are not masked by
	// context boosts
	result := &model.QueryResult{
		Matches:       matches,
		BestMatch:     matches[0].Name,
		BestRelevance: matches[0].RawSimilarity,
	}

	if input.Mode == model.ModeAgentic && u.booster != nil {
		applyBoosts(matches, u.booster.Boosts())
	}

	for _, match := range matches {
		if len(result.Surfaceable) >= input.MaxResults {
			break
		}
		if match.Similarity >= input.MinRelevance {
			result.Surfaceable = append(result.Surfaceable, match)
		}
	}

	// Gap detection uses raw similarity: boosts rank, they never paper
	// over a missing skill
	result.IsGap = true
	for _, match := range matches {
		if match.RawSimilarity >= input.MinRelevance {
			result.IsGap = false
			break
		}
	}
	if result.IsGap {
		u.recordGap(ctx, input, result)
	}

	result.Surfaced = u.filterShown(result.Surfaceable)
	for _, match := range result.Surfaced {
		if err := u.store.RecordShown(match.Name, match.Similarity); err != nil {
			logger.Warn("failed to record shown skill", "skill", match.Name, "error", err)
		}
	}

	result.Directive = directiveFor(input, result)

	logger.Debug("retrieval completed",
		"mode", input.Mode,
		"matches", len(matches),
		"surfaceable", len(result.Surfaceable),
		"surfaced", len(result.Surfaced),
		"is_gap", result.IsGap)

	return result, nil
}

// unavailableResult is the fail-closed shape for infrastructure errors.
// No gap is recorded: an unreachable index says nothing about the catalog.
func (u *UseCase) unavailableResult() *model.QueryResult {
	return &model.QueryResult{
		IsGap:     true,
		Directive: model.DirectiveNone,
	}
}

func (u *UseCase) recordGap(ctx context.Context, input RetrieveInput, result *model.QueryResult) {
	if input.Source == "" {
		return
	}

	recorded, err := u.gaps.Record(input.Source, input.Query, result.BestMatch, result.BestRelevance)
	if err != nil {
		logging.From(ctx).Warn("failed to record skill gap", "source", input.Source, "error", err)
		return
	}
	if recorded {
		logging.From(ctx).Debug("skill gap recorded",
			"source", input.Source,
			"best_match", result.BestMatch)
	}
}

// filterShown keeps matches that are unseen this session or whose
// similarity exceeds the recorded maximum by at least RenotifyThreshold
func (u *UseCase) filterShown(matches []*model.Match) []*model.Match {
	var surfaced []*model.Match
	for _, match := range matches {
		previous := u.store.MaxRelevance(match.Name)
		if previous == 0 || match.Similarity-previous >= RenotifyThreshold {
			surfaced = append(surfaced, match)
		}
	}
	return surfaced
}

// applyBoosts reduces distances by the working-context boost map and
// re-ranks. A boost can only increase similarity, never decrease it.
func applyBoosts(matches []*model.Match, boosts map[string]float64) {
	if len(boosts) == 0 {
		return
	}

	for _, match := range matches {
		boost, ok := boosts[match.Name]
		if !ok {
			continue
		}
		match.Boost = boost
		match.Distance = intent.Apply(match.Distance, boost)
		match.Similarity = clampSimilarity(match.Distance)
		match.Tier = tierOf(match.Similarity)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
}

func directiveFor(input RetrieveInput, result *model.QueryResult) model.Directive {
	if result.IsGap && len(result.Surfaced) == 0 {
		// A gap against a tracked source is actively surfaced so the
		// agent can document it; untracked queries stay silent
		if input.Source != "" {
			return model.DirectiveNotify
		}
		return model.DirectiveNone
	}

	if len(result.Surfaced) == 0 {
		// Everything relevant was already shown at sufficient relevance
		return model.DirectiveNone
	}

	if input.Mode == model.ModeAgentic {
		for _, match := range result.Surfaced {
			if match.Tier == model.TierHigh {
				return model.DirectiveNotify
			}
		}
		return model.DirectiveInform
	}

	return model.DirectiveNotify
}
