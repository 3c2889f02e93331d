package usecase

import (
	"math"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// FormatProduct normalizes a raw per-source record into the canonical product
// shape. Missing fields default to the Unknown marker so callers can always
// address every field.
func FormatProduct(p domain.RawProduct, source string) *domain.FormattedProduct {
	if p == nil {
		return nil
	}
	return &domain.FormattedProduct{
		Title:         p.StringField(domain.FieldTitle),
		Price:         p.StringField(domain.FieldCurrentPrice),
		OriginalPrice: p.StringField(domain.FieldOriginalPrice),
		Image:         p.StringField(domain.FieldImage),
		Rating:        p.StringField(domain.FieldRating),
		Reviews:       p.IntField(domain.FieldRatingCount),
		URL:           p.StringField(domain.FieldLink),
		Discount:      p.StringField(domain.FieldDiscount),
		Source:        source,
	}
}

// BuildComparisonRecord renders one match group into the user-facing record:
// canonical per-source products, the extracted price map, and the savings
// summary. sourceOrder fixes the walk order so output is deterministic.
//
// The similarity score is the mean of the non-reference match scores, or 100
// for a reference-only group.
func BuildComparisonRecord(group domain.MatchGroup, sourceOrder []string) domain.ComparisonRecord {
	record := domain.ComparisonRecord{
		Products:  make(map[string]*domain.FormattedProduct, len(group.Products)),
		Scores:    make(map[string]float64, len(group.Scores)),
		AllPrices: make(map[string]int, len(group.Products)),
	}

	var scoreSum float64
	var scoreCount int
	for _, source := range sourceOrder {
		p, ok := group.Products[source]
		if !ok {
			continue
		}
		record.Products[source] = FormatProduct(p, source)
		record.Scores[source] = group.Scores[source]
		record.AllPrices[source] = ExtractPrice(p.StringField(domain.FieldCurrentPrice))
		if source != group.ReferenceSource {
			scoreSum += group.Scores[source]
			scoreCount++
		}
	}

	if scoreCount > 0 {
		record.SimilarityScore = math.Round(scoreSum/float64(scoreCount)*100) / 100
	} else {
		record.SimilarityScore = 100
	}

	savings := CalculateSavings(record.AllPrices)
	record.PriceDifference = savings.PriceDifference
	record.CheaperOn = savings.CheaperOn
	record.YouSave = savings.YouSave

	return record
}
