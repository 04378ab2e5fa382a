package retrieval

import (
	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/repository"
)

// clampSimilarity converts a raw index distance into a similarity in [0,1].
// Cosine distance can exceed 1 for opposing vectors; anything past 1 is
// simply "not relevant".
func clampSimilarity(distance float64) float64 {
	similarity := 1 - distance
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// tierOf classifies a similarity into a confidence tier
func tierOf(similarity float64) model.Tier {
	switch {
	case similarity >= HighConfidence:
		return model.TierHigh
	case similarity >= MediumConfidence:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// scoreHits converts raw index hits into scored matches, preserving the
// index ordering
func scoreHits(hits []*repository.Hit) []*model.Match {
	matches := make([]*model.Match, 0, len(hits))
	for _, hit := range hits {
		similarity := clampSimilarity(hit.Distance)
		matches = append(matches, &model.Match{
			Name:          hit.Skill.Name,
			Description:   hit.Skill.Description,
			Path:          hit.Skill.Path,
			Type:          hit.Skill.Type,
			Document:      hit.Skill.Document,
			Distance:      hit.Distance,
			Similarity:    similarity,
			RawSimilarity: similarity,
			Tier:          tierOf(similarity),
		})
	}
	return matches
}
