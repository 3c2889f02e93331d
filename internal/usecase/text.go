package usecase

import (
	"regexp"
	"strings"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// Compiled patterns for title normalization
var (
	// Parenthesized and bracketed spans carry spec/packaging noise
	parentheticalRegex = regexp.MustCompile(`\(.*?\)`)
	bracketedRegex     = regexp.MustCompile(`\[.*?\]`)

	// Spec keywords that create false negatives when titles differ only in
	// configuration text
	specNoiseRegex = regexp.MustCompile(`\b(gb|tb|storage|ram|processor|windows|core|intel|amd|ryzen|gen)\b`)
)

// ExtractModelKey reduces a title to a lossy, noise-stripped lowercase key.
// It is only a matching fallback for when full titles disagree on spec text;
// it is never shown to users.
func ExtractModelKey(title string) string {
	t := strings.ToLower(title)
	t = parentheticalRegex.ReplaceAllString(t, "")
	t = bracketedRegex.ReplaceAllString(t, "")
	t = specNoiseRegex.ReplaceAllString(t, "")
	t = multipleSpacesRegex.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// BoostScoreWithQuery raises a fuzzy score when the title literally contains
// the user's search terms. An exact phrase hit earns exactBoost; all query
// tokens appearing somewhere in the title earns the smaller tokenBoost.
// The boost is additive; callers cap the combined score at 100.
func BoostScoreWithQuery(rawTitle, userQuery string, baseScore, exactBoost, tokenBoost float64) float64 {
	t := strings.ToLower(rawTitle)
	q := strings.TrimSpace(strings.ToLower(userQuery))
	if q == "" {
		return baseScore
	}

	if strings.Contains(t, q) {
		return baseScore + exactBoost
	}

	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return baseScore
	}
	for _, tok := range tokens {
		if !strings.Contains(t, tok) {
			return baseScore
		}
	}
	return baseScore + tokenBoost
}

// SoftFilterByQuery keeps only products whose title contains every query
// token. If that leaves fewer than minKeep products the filter is discarded
// and the original list returned: on short or ambiguous queries an aggressive
// filter can eliminate the correct match entirely.
func SoftFilterByQuery(products []domain.RawProduct, userQuery string, minKeep int) []domain.RawProduct {
	q := strings.TrimSpace(strings.ToLower(userQuery))
	if q == "" {
		return products
	}
	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return products
	}

	var filtered []domain.RawProduct
	for _, p := range products {
		title := strings.ToLower(p.Title())
		relevant := true
		for _, tok := range tokens {
			if !strings.Contains(title, tok) {
				relevant = false
				break
			}
		}
		if relevant {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) < minKeep {
		return products
	}
	return filtered
}
