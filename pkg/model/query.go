package model

import "math"

// Mode selects the retrieval policy for a query
type Mode string

const (
	// ModePrompt is a user-prompt driven suggestion query
	ModePrompt Mode = "prompt"
	// ModeFile is a post-read catalog query driven by file content
	ModeFile Mode = "file"
	// ModeAgentic is a prompt-enrichment query with working-context boosts
	ModeAgentic Mode = "agentic"
)

// Tier classifies a match by similarity
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Directive tells the host what to do with the result
type Directive int

const (
	// DirectiveNone means nothing should be emitted to the host
	DirectiveNone Directive = iota
	// DirectiveInform means the output is informational only
	DirectiveInform
	// DirectiveNotify means the output should be actively surfaced to the agent
	DirectiveNotify
)

// Match is a single scored catalog hit
type Match struct {
	Name        string
	Description string
	Path        string
	Type        SkillType
	Document    string

	// Distance is the raw index distance, Similarity = 1 - Distance clamped
	// to [0,1]. Boost is the working-context reduction already applied to
	// Distance; RawSimilarity is the score before boosting.
	Distance      float64
	Similarity    float64
	RawSimilarity float64
	Boost         float64
	Tier          Tier
}

// RelevancePct returns the similarity as a rounded percentage in [0,100]
func (m *Match) RelevancePct() int {
	return int(math.Round(m.Similarity * 100))
}

// QueryResult is the outcome of one retrieval call. Not persisted.
type QueryResult struct {
	// Matches holds all scored candidates in ranked order
	Matches []*Match
	// Surfaceable holds matches above the floor, capped at the request limit
	Surfaceable []*Match
	// Surfaced holds surfaceable matches that passed re-notification checks
	Surfaced []*Match

	// BestMatch and BestRelevance reflect the raw (unboosted) top-1, kept
	// even when it falls below the floor so gap records can reference it.
	BestMatch     string
	BestRelevance float64

	IsGap     bool
	Directive Directive
}

// BestRelevancePct formats the raw top-1 similarity as a percentage
func (r *QueryResult) BestRelevancePct() int {
	return int(math.Round(r.BestRelevance * 100))
}
