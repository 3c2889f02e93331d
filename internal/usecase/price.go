package usecase

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// priceCleaner strips currency markers and separators from display prices.
// "Rs." must come before "Rs" so the dotted form doesn't leave a stray dot.
var priceCleaner = strings.NewReplacer(
	"₹", "",
	"Rs.", "",
	"Rs", "",
	"INR", "",
	",", "",
	" ", "",
	" ", "",
)

// ExtractPrice parses a display price like "₹51,999" into an integer amount.
// Anything that is not purely numeric after cleanup is treated as unknown (0).
// It never fails; 0 also stands in for genuinely missing prices.
func ExtractPrice(raw string) int {
	if raw == "" || raw == domain.Unknown {
		return 0
	}

	cleaned := strings.TrimSpace(priceCleaner.Replace(raw))
	if cleaned == "" || !isNumeric(cleaned) {
		log.Printf("[PRICE] could not parse %q, treating as unknown", raw)
		return 0
	}

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		log.Printf("[PRICE] could not parse %q, treating as unknown", raw)
		return 0
	}
	return n
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// PricesWithinVariance reports whether the spread of the known prices stays
// under maxDiffPercent. Unknown (<= 0) entries are ignored, and fewer than two
// known prices is not enough information to reject, so that passes.
// A spread beyond the threshold usually means the fuzzy matcher paired two
// different physical products (a bundle against a bare unit, say).
func PricesWithinVariance(prices []int, maxDiffPercent float64) bool {
	var known []int
	for _, p := range prices {
		if p > 0 {
			known = append(known, p)
		}
	}
	if len(known) < 2 {
		return true
	}

	minPrice, maxPrice := known[0], known[0]
	for _, p := range known[1:] {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}

	diffPercent := float64(maxPrice-minPrice) / float64(maxPrice) * 100
	if diffPercent > maxDiffPercent {
		log.Printf("[PRICE] variance %.1f%% exceeds %.1f%%", diffPercent, maxDiffPercent)
		return false
	}
	return true
}

// Savings describes the spread across the known prices of one comparison.
// All fields are nil when fewer than two sources had a known price.
type Savings struct {
	PriceDifference *int
	CheaperOn       *string
	YouSave         *int
}

// CalculateSavings finds the cheapest source and the absolute spread among the
// known (> 0) prices. Ties go to the first source in sorted key order.
func CalculateSavings(pricesBySource map[string]int) Savings {
	known := make(map[string]int, len(pricesBySource))
	for source, price := range pricesBySource {
		if price > 0 {
			known[source] = price
		}
	}
	if len(known) < 2 {
		return Savings{}
	}

	sources := make([]string, 0, len(known))
	for source := range known {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	cheapest := sources[0]
	minPrice, maxPrice := known[cheapest], known[cheapest]
	for _, source := range sources[1:] {
		price := known[source]
		if price < minPrice {
			minPrice = price
			cheapest = source
		}
		if price > maxPrice {
			maxPrice = price
		}
	}

	diff := maxPrice - minPrice
	save := diff
	return Savings{
		PriceDifference: &diff,
		CheaperOn:       &cheapest,
		YouSave:         &save,
	}
}
