package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	PreferredSource     string
	SourceTimeout       time.Duration
	MaxPriceDiffPercent float64
	CacheTTL            time.Duration
	Matching            MatchConfig
}

// ComparisonService orchestrates the full pipeline: fan the query out to every
// source, match products across whatever came back, drop implausible matches,
// dedupe, and format. Any subset of sources may be slow, empty, or failing;
// the pipeline only gives up when nothing at all returned data.
type ComparisonService struct {
	registry            domain.SourceRegistry
	executor            domain.FanoutExecutor
	cache               domain.CacheRepository
	matcher             *MatcherService
	preferredSource     string
	sourceTimeout       time.Duration
	maxPriceDiffPercent float64
	cacheTTL            time.Duration
}

// NewComparisonService creates a new comparison service with dependencies.
// cache may be nil to disable response caching.
func NewComparisonService(
	registry domain.SourceRegistry,
	executor domain.FanoutExecutor,
	cache domain.CacheRepository,
	config ComparisonServiceConfig,
) *ComparisonService {
	maxDiff := config.MaxPriceDiffPercent
	if maxDiff <= 0 {
		maxDiff = 35.0 // Default maximum acceptable price variance
	}

	sourceTimeout := config.SourceTimeout
	if sourceTimeout <= 0 {
		sourceTimeout = 30 * time.Second
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	return &ComparisonService{
		registry:            registry,
		executor:            executor,
		cache:               cache,
		matcher:             NewMatcherService(config.Matching),
		preferredSource:     config.PreferredSource,
		sourceTimeout:       sourceTimeout,
		maxPriceDiffPercent: maxDiff,
		cacheTTL:            cacheTTL,
	}
}

// Compare runs the full comparison pipeline for a query.
// Flow: check cache -> fetch all sources -> match -> validate -> dedupe ->
// format. Failures inside the pipeline never escape; they come back through
// the Error field of the response.
func (s *ComparisonService) Compare(ctx context.Context, query string, validatePrices bool) (resp *domain.CompareResponse) {
	query = strings.TrimSpace(query)
	if query == "" {
		return failedCompare(query, domain.ErrInvalidRequest.Error())
	}

	// Unexpected faults (malformed raw records and the like) must not crash
	// the request handler
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[COMPARE] panic recovered for %q: %v", query, r)
			resp = failedCompare(query, fmt.Sprintf("internal error: %v", r))
		}
	}()

	cacheKey := s.compareCacheKey(query, validatePrices)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			log.Printf("[COMPARE] cache hit for %q", query)
			return cached
		}
	}

	log.Printf("[COMPARE] starting comparison for %q", query)
	fetched := s.executor.FetchAll(ctx, s.registry.All(), query)

	available := s.availableSources(fetched)
	if len(available) == 0 {
		log.Printf("[COMPARE] no source returned data for %q", query)
		return failedCompare(query, domain.ErrNoSourceData.Error())
	}
	log.Printf("[COMPARE] available sources: %v", available)

	referenceSource := s.pickReferenceSource(fetched)
	log.Printf("[COMPARE] using %s as reference source", referenceSource)

	groups := s.matcher.MatchAcrossSources(referenceSource, fetched[referenceSource], fetched, query)
	log.Printf("[COMPARE] found %d potential matches", len(groups))

	var survivors []domain.MatchGroup
	for _, g := range groups {
		if validatePrices && !s.groupPricesPlausible(g) {
			log.Printf("[COMPARE] dropping implausible match %q", g.Products[g.ReferenceSource].Title())
			continue
		}
		survivors = append(survivors, g)
	}

	unique := s.dedupeGroups(survivors)

	results := make([]domain.ComparisonRecord, 0, len(unique))
	names := s.registry.Names()
	for _, g := range unique {
		results = append(results, BuildComparisonRecord(g, names))
	}

	if len(results) == 0 {
		log.Printf("[COMPARE] no groups survived validation for %q", query)
		return failedCompare(query, domain.ErrNoComparableProducts.Error())
	}

	log.Printf("[COMPARE] returning %d unique comparisons from %d source(s)", len(results), len(available))
	resp = &domain.CompareResponse{
		Success: true,
		Query:   query,
		Results: results,
		Count:   len(results),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
			log.Printf("[COMPARE] cache set failed: %v", err)
		}
	}
	return resp
}

// SearchOne is the single-source passthrough: fetch from one named source with
// no cross-source matching.
func (s *ComparisonService) SearchOne(ctx context.Context, query, sourceName string) *domain.SearchResponse {
	query = strings.TrimSpace(query)
	if query == "" {
		return failedSearch(query, sourceName, domain.ErrInvalidRequest.Error())
	}

	src, ok := s.registry.Get(sourceName)
	if !ok {
		return failedSearch(query, sourceName, fmt.Sprintf("%s: %q", domain.ErrUnknownSource.Error(), sourceName))
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	products, err := src.Fetch(fetchCtx, query)
	if err != nil {
		log.Printf("[SEARCH] %s failed for %q: %v", sourceName, query, err)
		return failedSearch(query, sourceName, err.Error())
	}
	if products == nil {
		products = []domain.RawProduct{}
	}

	return &domain.SearchResponse{
		Success: true,
		Query:   query,
		Source:  sourceName,
		Results: products,
		Count:   len(products),
	}
}

// availableSources lists, in configured order, the sources that returned at
// least one product. An empty non-error list counts as no data.
func (s *ComparisonService) availableSources(fetched map[string][]domain.RawProduct) []string {
	var available []string
	for _, name := range s.registry.Names() {
		if len(fetched[name]) > 0 {
			available = append(available, name)
		}
	}
	return available
}

// pickReferenceSource prefers the configured source when it has data, else the
// first source in configured order that does.
func (s *ComparisonService) pickReferenceSource(fetched map[string][]domain.RawProduct) string {
	if len(fetched[s.preferredSource]) > 0 {
		return s.preferredSource
	}
	for _, name := range s.registry.Names() {
		if len(fetched[name]) > 0 {
			return name
		}
	}
	return ""
}

// groupPricesPlausible collects the known prices across the group and applies
// the variance check. Fewer than two known prices is insufficient information
// to reject, which PricesWithinVariance already treats as passing.
func (s *ComparisonService) groupPricesPlausible(g domain.MatchGroup) bool {
	prices := make([]int, 0, len(g.Products))
	for _, p := range g.Products {
		prices = append(prices, ExtractPrice(p.StringField(domain.FieldCurrentPrice)))
	}
	return PricesWithinVariance(prices, s.maxPriceDiffPercent)
}

// dedupeGroups drops groups whose first-available product title (checked in
// configured source order) was already seen. First occurrence wins.
func (s *ComparisonService) dedupeGroups(groups []domain.MatchGroup) []domain.MatchGroup {
	names := s.registry.Names()
	seen := make(map[string]bool, len(groups))
	unique := make([]domain.MatchGroup, 0, len(groups))

	for _, g := range groups {
		title := ""
		for _, name := range names {
			if p, ok := g.Products[name]; ok {
				title = p.Title()
				break
			}
		}
		if title != "" && seen[title] {
			continue
		}
		if title != "" {
			seen[title] = true
		}
		unique = append(unique, g)
	}
	return unique
}

// compareCacheKey normalizes the query into a stable cache key.
// Format: "compare:{normalized_query}:{validate_prices}"
func (s *ComparisonService) compareCacheKey(query string, validatePrices bool) string {
	normalized := strings.ToLower(query)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return fmt.Sprintf("compare:%s:%t", strings.TrimSpace(normalized), validatePrices)
}

func failedCompare(query, msg string) *domain.CompareResponse {
	return &domain.CompareResponse{
		Success: false,
		Query:   query,
		Results: []domain.ComparisonRecord{},
		Count:   0,
		Error:   msg,
	}
}

func failedSearch(query, source, msg string) *domain.SearchResponse {
	return &domain.SearchResponse{
		Success: false,
		Query:   query,
		Source:  source,
		Results: []domain.RawProduct{},
		Count:   0,
		Error:   msg,
	}
}
