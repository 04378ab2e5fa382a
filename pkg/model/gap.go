package model

import (
	"time"

	"github.com/google/uuid"
)

type GapID string

// NewGapID generates a new unique GapID
func NewGapID() GapID {
	return GapID(uuid.New().String())
}

// GapRecord captures a query whose best catalog match missed the relevance
// floor. At most one record per Source within a session.
type GapRecord struct {
	ID             GapID     `json:"id"`
	Source         string    `json:"source"`
	DomainHints    []string  `json:"domain_hints"`
	ContentPreview string    `json:"content_preview"`
	BestMatch      string    `json:"best_match,omitempty"`
	BestRelevance  float64   `json:"best_relevance"`
	Timestamp      time.Time `json:"timestamp"`
}

// GapReport is the end-of-session summary of recorded gaps
type GapReport struct {
	TotalGaps    int
	ByDomain     map[string][]*GapRecord
	SessionStart time.Time
}
