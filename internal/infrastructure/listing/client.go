// Package listing fetches RFP records from the hosted listing source and
// normalizes them into the domain schema.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rfpflow/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client handles communication with the RFP listing source
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a listing client. requestsPerHour throttles calls to the
// listing host; the burst allows short spikes during interactive use.
func NewClient(baseURL string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchRFPs retrieves the current RFP listings and maps them into
// requirements. Transient failures are retried with exponential backoff.
func (c *Client) FetchRFPs(ctx context.Context) ([]domain.RFPRequirement, error) {
	reqURL := fmt.Sprintf("%s/api/rfps", c.baseURL)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[LISTING] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if attempt < maxAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		var listResp listingResponse
		if err := json.Unmarshal(body, &listResp); err != nil {
			return nil, fmt.Errorf("failed to decode listing response: %w", err)
		}

		if len(listResp.RFPs) == 0 {
			return nil, domain.ErrNoListings
		}

		requirements := make([]domain.RFPRequirement, 0, len(listResp.RFPs))
		for _, raw := range listResp.RFPs {
			requirement, err := mapToRequirement(raw)
			if err != nil {
				if c.debug {
					log.Printf("[LISTING] Skipping malformed listing %q: %v", raw.ID, err)
				}
				continue
			}
			requirements = append(requirements, requirement)
		}

		if c.debug {
			log.Printf("[LISTING] Fetched %d RFPs from %s", len(requirements), c.baseURL)
		}
		return requirements, nil
	}

	return nil, lastErr
}

// doRequest executes one GET and returns the response body for 200s. Any
// other status is a retryable listing failure.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "rfpflow/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrListingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrListingUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrListingUnavailable, resp.StatusCode)
	}

	return body, nil
}

// exponentialBackoff returns the wait before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
