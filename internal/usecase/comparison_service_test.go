package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// stubSource is an in-memory source for pipeline tests.
type stubSource struct {
	name     string
	products []domain.RawProduct
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, query string) ([]domain.RawProduct, error) {
	return s.products, s.err
}

// stubRegistry preserves the order sources were given in.
type stubRegistry struct {
	sources []domain.Source
}

func (r *stubRegistry) All() []domain.Source { return r.sources }

func (r *stubRegistry) Get(name string) (domain.Source, bool) {
	for _, s := range r.sources {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func (r *stubRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	return names
}

// stubExecutor fetches serially, dropping failed sources like the real one.
type stubExecutor struct{}

func (stubExecutor) FetchAll(ctx context.Context, sources []domain.Source, query string) map[string][]domain.RawProduct {
	out := make(map[string][]domain.RawProduct, len(sources))
	for _, s := range sources {
		products, err := s.Fetch(ctx, query)
		if err != nil {
			continue
		}
		out[s.Name()] = products
	}
	return out
}

// stubCache records Set calls and serves a canned response.
type stubCache struct {
	stored   map[string]*domain.CompareResponse
	setCalls int
}

func newStubCache() *stubCache {
	return &stubCache{stored: make(map[string]*domain.CompareResponse)}
}

func (c *stubCache) Get(ctx context.Context, key string) (*domain.CompareResponse, error) {
	if v, ok := c.stored[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *stubCache) Set(ctx context.Context, key string, value *domain.CompareResponse, ttl time.Duration) error {
	c.stored[key] = value
	c.setCalls++
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.stored, key)
	return nil
}

func newTestService(cache domain.CacheRepository, srcs ...domain.Source) *ComparisonService {
	return NewComparisonService(
		&stubRegistry{sources: srcs},
		stubExecutor{},
		cache,
		ComparisonServiceConfig{PreferredSource: "amazon"},
	)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("fails distinctly when no source returns data", func(t *testing.T) {
		svc := newTestService(nil,
			&stubSource{name: "flipkart", err: errors.New("connection refused")},
			&stubSource{name: "amazon"},
		)

		resp := svc.Compare(ctx, "dell xps", true)
		if resp.Success {
			t.Error("expected failure")
		}
		if resp.Error != domain.ErrNoSourceData.Error() {
			t.Errorf("error = %q, want %q", resp.Error, domain.ErrNoSourceData.Error())
		}
		if resp.Count != 0 || len(resp.Results) != 0 {
			t.Errorf("expected empty results, got count %d", resp.Count)
		}
	})

	t.Run("completes with a subset of sources", func(t *testing.T) {
		svc := newTestService(nil,
			&stubSource{name: "flipkart", products: []domain.RawProduct{
				{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,000"},
			}},
			&stubSource{name: "amazon", err: errors.New("timeout")},
			&stubSource{name: "croma", products: []domain.RawProduct{
				{"title": "Dell XPS 13 (i7) 2022", "currentPrice": "₹51,000"},
			}},
			&stubSource{name: "reliancedigital", err: errors.New("timeout")},
		)

		resp := svc.Compare(ctx, "dell xps", true)
		if !resp.Success {
			t.Fatalf("expected success, got error %q", resp.Error)
		}
		if resp.Count != 1 {
			t.Fatalf("count = %d, want 1", resp.Count)
		}

		rec := resp.Results[0]
		if _, ok := rec.Products["flipkart"]; !ok {
			t.Error("expected a flipkart product")
		}
		if _, ok := rec.Products["croma"]; !ok {
			t.Error("expected a croma product")
		}
		if _, ok := rec.Products["amazon"]; ok {
			t.Error("amazon failed, it must not appear in the record")
		}
		if rec.CheaperOn == nil || *rec.CheaperOn != "flipkart" {
			t.Errorf("CheaperOn = %v, want flipkart", rec.CheaperOn)
		}
	})

	t.Run("preferred source seeds matching when available", func(t *testing.T) {
		svc := newTestService(nil,
			&stubSource{name: "flipkart", products: []domain.RawProduct{
				{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,000"},
			}},
			&stubSource{name: "amazon", products: []domain.RawProduct{
				{"title": "Dell XPS 13 (i7) 2022", "currentPrice": "₹51,000"},
			}},
		)

		resp := svc.Compare(ctx, "dell xps", true)
		if !resp.Success {
			t.Fatalf("expected success, got error %q", resp.Error)
		}
		// amazon is preferred, so its score is the fixed reference 100
		if got := resp.Results[0].Scores["amazon"]; got != 100 {
			t.Errorf("amazon score = %v, want 100 (reference)", got)
		}
	})

	t.Run("drops groups with implausible price spread", func(t *testing.T) {
		mk := func() *ComparisonService {
			return newTestService(nil,
				&stubSource{name: "flipkart", products: []domain.RawProduct{
					{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,000"},
				}},
				&stubSource{name: "croma", products: []domain.RawProduct{
					{"title": "Dell XPS 13 (i7) 2022", "currentPrice": "₹1,00,000"},
				}},
			)
		}

		resp := mk().Compare(ctx, "dell xps", true)
		if resp.Success {
			t.Error("expected failure once the only group is dropped")
		}
		if resp.Error != domain.ErrNoComparableProducts.Error() {
			t.Errorf("error = %q, want %q", resp.Error, domain.ErrNoComparableProducts.Error())
		}

		// Disabling validation keeps the group
		resp = mk().Compare(ctx, "dell xps", false)
		if !resp.Success {
			t.Errorf("expected success without validation, got %q", resp.Error)
		}
	})

	t.Run("keeps groups with fewer than two known prices", func(t *testing.T) {
		svc := newTestService(nil,
			&stubSource{name: "flipkart", products: []domain.RawProduct{
				{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,000"},
			}},
			&stubSource{name: "croma", products: []domain.RawProduct{
				{"title": "Dell XPS 13 (i7) 2022"},
			}},
		)

		resp := svc.Compare(ctx, "dell xps", true)
		if !resp.Success {
			t.Errorf("one known price is not enough to reject, got %q", resp.Error)
		}
	})

	t.Run("dedupes by first-available title", func(t *testing.T) {
		svc := newTestService(nil,
			&stubSource{name: "flipkart", products: []domain.RawProduct{
				{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,000", "link": "a"},
				{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,100", "link": "b"},
			}},
		)

		resp := svc.Compare(ctx, "dell xps", true)
		if !resp.Success {
			t.Fatalf("expected success, got %q", resp.Error)
		}
		if resp.Count != 1 {
			t.Errorf("count = %d, want 1 after dedupe", resp.Count)
		}
		// First occurrence wins
		if got := resp.Results[0].Products["flipkart"].URL; got != "a" {
			t.Errorf("kept link %q, want the first occurrence", got)
		}
	})

	t.Run("rejects a blank query", func(t *testing.T) {
		svc := newTestService(nil, &stubSource{name: "flipkart"})
		resp := svc.Compare(ctx, "   ", true)
		if resp.Success || resp.Error != domain.ErrInvalidRequest.Error() {
			t.Errorf("resp = %+v, want invalid request failure", resp)
		}
	})

	t.Run("serves cached responses without refetching", func(t *testing.T) {
		cache := newStubCache()
		failing := &stubSource{name: "flipkart", err: errors.New("should not be called twice")}
		working := &stubSource{name: "croma", products: []domain.RawProduct{
			{"title": "Dell XPS 13 Core i7", "currentPrice": "₹50,000"},
		}}
		svc := newTestService(cache, failing, working)

		first := svc.Compare(ctx, "dell xps", true)
		if !first.Success {
			t.Fatalf("expected success, got %q", first.Error)
		}
		if cache.setCalls != 1 {
			t.Fatalf("setCalls = %d, want 1", cache.setCalls)
		}

		second := svc.Compare(ctx, "dell xps", true)
		if !second.Success || second.Count != first.Count {
			t.Errorf("cached response differs: %+v vs %+v", second, first)
		}
		if cache.setCalls != 1 {
			t.Errorf("setCalls = %d, want 1 (cache hit must not re-store)", cache.setCalls)
		}
	})
}

func TestSearchOne(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through a single source", func(t *testing.T) {
		svc := newTestService(nil, &stubSource{name: "flipkart", products: []domain.RawProduct{
			{"title": "Dell XPS 13"},
			{"title": "Dell Inspiron 15"},
		}})

		resp := svc.SearchOne(ctx, "dell", "flipkart")
		if !resp.Success {
			t.Fatalf("expected success, got %q", resp.Error)
		}
		if resp.Count != 2 || resp.Source != "flipkart" {
			t.Errorf("count = %d source = %q", resp.Count, resp.Source)
		}
	})

	t.Run("rejects an unrecognized source", func(t *testing.T) {
		svc := newTestService(nil, &stubSource{name: "flipkart"})
		resp := svc.SearchOne(ctx, "dell", "ebay")
		if resp.Success {
			t.Error("expected failure")
		}
		if resp.Error == "" {
			t.Error("expected an error message")
		}
	})

	t.Run("reports a source failure", func(t *testing.T) {
		svc := newTestService(nil, &stubSource{name: "flipkart", err: errors.New("boom")})
		resp := svc.SearchOne(ctx, "dell", "flipkart")
		if resp.Success {
			t.Error("expected failure")
		}
	})

	t.Run("empty result list is a successful empty search", func(t *testing.T) {
		svc := newTestService(nil, &stubSource{name: "flipkart"})
		resp := svc.SearchOne(ctx, "dell", "flipkart")
		if !resp.Success || resp.Count != 0 || resp.Results == nil {
			t.Errorf("resp = %+v, want success with empty results", resp)
		}
	})
}
