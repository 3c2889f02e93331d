package usecase

import (
	"log"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// MatchConfig holds configuration for the matcher service
type MatchConfig struct {
	SimilarityThreshold float64
	ExactMatchBoost     float64
	TokenMatchBoost     float64
	MinFilteredProducts int
	EnableDebugLogging  bool
}

// MatcherService pairs products across sources by fuzzy title similarity
type MatcherService struct {
	similarityThreshold float64
	exactMatchBoost     float64
	tokenMatchBoost     float64
	minFilteredProducts int
	enableDebugLogging  bool
}

// NewMatcherService creates a new matcher service with the given configuration
func NewMatcherService(config MatchConfig) *MatcherService {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = 50.0 // Default minimum match score
	}

	exactBoost := config.ExactMatchBoost
	if exactBoost <= 0 {
		exactBoost = 15.0
	}

	tokenBoost := config.TokenMatchBoost
	if tokenBoost <= 0 {
		tokenBoost = 8.0
	}

	minFiltered := config.MinFilteredProducts
	if minFiltered <= 0 {
		minFiltered = 3
	}

	return &MatcherService{
		similarityThreshold: threshold,
		exactMatchBoost:     exactBoost,
		tokenMatchBoost:     tokenBoost,
		minFilteredProducts: minFiltered,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// FindBestMatch finds the candidate most similar to the reference title.
//
// Two-stage strategy: full titles first; if the best full-title score falls
// under the threshold, retry on model keys, which rescues pairs whose spec
// text differs but whose core model name is identical. A score below the
// threshold after both stages means no match is reported at all - no match
// beats a low-confidence guess. Ties resolve to the first candidate in input
// order.
//
// When userQuery is non-empty the query boost is applied to the winning score,
// capped at 100.
func (s *MatcherService) FindBestMatch(referenceTitle string, candidates []domain.RawProduct, userQuery string) *domain.MatchCandidate {
	if len(candidates) == 0 {
		return nil
	}

	bestIdx := -1
	bestScore := -1.0
	for i, c := range candidates {
		score := tokenSortRatio(referenceTitle, c.Title())
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestScore < s.similarityThreshold {
		if s.enableDebugLogging {
			log.Printf("[MATCH] full-title score %.1f < %.1f, trying model keys", bestScore, s.similarityThreshold)
		}
		refModel := ExtractModelKey(referenceTitle)
		for i, c := range candidates {
			score := tokenSortRatio(refModel, ExtractModelKey(c.Title()))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
	}

	if bestIdx < 0 || bestScore < s.similarityThreshold {
		return nil
	}

	product := candidates[bestIdx]
	score := bestScore
	if userQuery != "" {
		score = BoostScoreWithQuery(product.Title(), userQuery, score, s.exactMatchBoost, s.tokenMatchBoost)
	}
	if score > 100 {
		score = 100
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] %q -> %q (score %.1f)", referenceTitle, product.Title(), score)
	}

	return &domain.MatchCandidate{Product: product, Score: score}
}

// MatchAcrossSources builds one match group per reference product. Every other
// source is soft-filtered by the query and matched independently, so a miss on
// one source never disqualifies matches on the rest - a group can ship with
// only the reference plus a single other source.
func (s *MatcherService) MatchAcrossSources(
	referenceSource string,
	referenceProducts []domain.RawProduct,
	candidatesBySource map[string][]domain.RawProduct,
	userQuery string,
) []domain.MatchGroup {
	groups := make([]domain.MatchGroup, 0, len(referenceProducts))

	for _, ref := range referenceProducts {
		group := domain.MatchGroup{
			ReferenceSource: referenceSource,
			Products:        map[string]domain.RawProduct{referenceSource: ref},
			Scores:          map[string]float64{referenceSource: 100},
		}

		for source, candidates := range candidatesBySource {
			if source == referenceSource {
				continue
			}
			filtered := SoftFilterByQuery(candidates, userQuery, s.minFilteredProducts)
			match := s.FindBestMatch(ref.Title(), filtered, userQuery)
			if match == nil {
				continue
			}
			group.Products[source] = match.Product
			group.Scores[source] = match.Score
		}

		groups = append(groups, group)
	}

	return groups
}
