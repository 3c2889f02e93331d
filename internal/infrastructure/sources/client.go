// Package sources contains the HTTP search clients for each catalog and the
// registry the orchestrator resolves them through.
package sources

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

const maxAttempts = 3

// parseFunc decodes one catalog's search payload into canonical raw products.
type parseFunc func(body []byte) ([]domain.RawProduct, error)

// client is the shared HTTP machinery behind every catalog source: GET the
// catalog's search endpoint under a rate limiter, retry transient failures,
// hand the body to the catalog-specific parser.
type client struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	buildURL   func(query string) string
	parse      parseFunc
}

func newClient(name string, buildURL func(string) string, parse parseFunc) *client {
	return &client{
		name: name,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Stay polite: 2 req/s sustained with a small burst per catalog
		limiter:  rate.NewLimiter(rate.Limit(2), 5),
		buildURL: buildURL,
		parse:    parse,
	}
}

// Name returns the source's registry name.
func (c *client) Name() string {
	return c.name
}

// Fetch queries the catalog's search endpoint and maps the payload into raw
// products. Transient failures are retried up to three times with backoff; an
// empty catalog (404 or zero hits) is an empty list, not an error.
func (c *client) Fetch(ctx context.Context, query string) ([]domain.RawProduct, error) {
	reqURL := c.buildURL(query)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "Mayabu/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[%s] request error (attempt %d): %v", c.name, attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrSourceFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return []domain.RawProduct{}, nil
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[%s] API error (attempt %d) - status: %d", c.name, attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: %s status %d", domain.ErrSourceFailure, c.name, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		products, err := c.parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", c.name, err)
		}
		return products, nil
	}

	log.Printf("[%s] all retries failed for query %q", c.name, query)
	return nil, lastErr
}
