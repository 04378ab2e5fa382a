package catalog

import (
	"io"
	"os"

	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/repository"
)

// UseCase manages the skill catalog: importing skill documents into the
// vector index and serving lookups over it
type UseCase struct {
	index    repository.Index
	gemini   adapter.Gemini
	output   io.Writer
	progress bool
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithProgress enables a terminal spinner during import
func WithProgress(enable bool) Option {
	return func(uc *UseCase) {
		uc.progress = enable
	}
}

// New creates a new catalog UseCase instance
func New(index repository.Index, gemini adapter.Gemini, opts ...Option) *UseCase {
	uc := &UseCase{
		index:  index,
		gemini: gemini,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
