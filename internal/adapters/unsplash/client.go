// internal/adapters/unsplash/client.go
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"travela/internal/adapters/observability"
)

const DefaultBase = "https://api.unsplash.com"

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("unsplash access key is required")
	}
	if base == "" {
		base = DefaultBase
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrUnauthorized = errors.New("unsplash: unauthorized")
	ErrRateLimited  = errors.New("unsplash: rate limited")
)

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchPhotos returns up to perPage "regular" image URLs for query.
// One request per call; failures are returned as-is, never retried.
func (c *Client) SearchPhotos(ctx context.Context, query string, perPage int) ([]string, error) {
	if perPage <= 0 {
		perPage = 6
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(perPage))

	var out searchResponse
	if err := c.get(ctx, c.base+"/search/photos?"+q.Encode(), &out); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		if r.URLs.Regular != "" {
			urls = append(urls, r.URLs.Regular)
		}
		if len(urls) == perPage {
			break
		}
	}
	return urls, nil
}

// get performs a rate-limited GET and decodes JSON into out.
func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Client-ID "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("User-Agent", "travela/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("unsplash", "search_photos", 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("unsplash", "search_photos", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unsplash: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
