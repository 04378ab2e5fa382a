package retrieval

import (
	"io"
	"os"

	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/intent"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/session"
)

// Policy defaults. These are fixed here, not by callers: hosts select a
// mode, not thresholds.
const (
	// HighConfidence and MediumConfidence partition matches into tiers
	HighConfidence   = 0.70
	MediumConfidence = 0.30

	// Surfacing floors per mode
	PromptMinRelevance = 0.30
	FileMinRelevance   = 0.25

	// RenotifyThreshold is the similarity gain required to re-surface a
	// skill already shown this session
	RenotifyThreshold = 0.20

	// Enrichment fetches a wider candidate set and auto-injects the top
	// high-confidence matches
	EnrichTopN     = 10
	AutoInjectTopN = 2

	// DefaultMaxResults caps prompt and file mode catalogs
	DefaultMaxResults = 3

	// extraCandidates are fetched beyond the cap to survive post-filtering
	extraCandidates = 2
)

// UseCase orchestrates similarity retrieval, boosting, tier partitioning,
// re-notification decisions and gap recording
type UseCase struct {
	index   repository.Index
	gemini  adapter.Gemini
	store   *session.Store
	gaps    *session.Gaps
	booster *intent.Booster
	output  io.Writer
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithBooster enables working-context boosts for agentic mode
func WithBooster(b *intent.Booster) Option {
	return func(uc *UseCase) {
		uc.booster = b
	}
}

// New creates a new retrieval UseCase instance
func New(
	index repository.Index,
	gemini adapter.Gemini,
	store *session.Store,
	gaps *session.Gaps,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		index:  index,
		gemini: gemini,
		store:  store,
		gaps:   gaps,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
