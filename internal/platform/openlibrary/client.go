// Package openlibrary is a small client for the Open Library search and
// books APIs.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookworm/internal/config"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries uint64
	// initialWait is the first retry delay; tests shorten it.
	initialWait time.Duration
}

func NewClient(cfg config.OpenLibraryConfig) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		userAgent:   cfg.UserAgent,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		limiter:     rate.NewLimiter(limit, 1),
		maxRetries:  cfg.MaxRetries,
		initialWait: time.Second,
	}
}

// SearchDoc is one hit of search.json.
type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear int      `json:"first_publish_year"`
}

// PreferredISBN returns the first 13 digit ISBN, else the first one.
func (d SearchDoc) PreferredISBN() string {
	for _, isbn := range d.ISBN {
		if len(isbn) == 13 {
			return isbn
		}
	}
	if len(d.ISBN) > 0 {
		return d.ISBN[0]
	}
	return ""
}

type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Cover    struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
	Authors []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
	Notes       any    `json:"notes"` // string or {type, value}
	PublishDate string `json:"publish_date"`
}

// NotesText flattens the two shapes Open Library uses for notes.
func (d BookDetails) NotesText() string {
	switch v := d.Notes.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
	}
	return ""
}

func (c *Client) SearchBySubject(ctx context.Context, subject string, limit int) (SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&fields=key,title,author_name,isbn,first_publish_year&limit=%d",
		c.baseURL, url.QueryEscape("subject:"+subject), limit)

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return SearchResponse{}, fmt.Errorf("search subject %q: %w", subject, err)
	}
	return res, nil
}

// BooksByISBN returns details keyed by the bare ISBN. ISBNs Open Library does
// not know are absent from the map.
func (c *Client) BooksByISBN(ctx context.Context, isbns []string) (map[string]BookDetails, error) {
	if len(isbns) == 0 {
		return map[string]BookDetails{}, nil
	}

	bibkeys := make([]string, len(isbns))
	for i, isbn := range isbns {
		bibkeys[i] = "ISBN:" + isbn
	}
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, url.QueryEscape(strings.Join(bibkeys, ",")))

	var raw map[string]BookDetails
	if err := c.get(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("fetch %d books: %w", len(isbns), err)
	}
	res := make(map[string]BookDetails, len(raw))
	for key, d := range raw {
		res[strings.TrimPrefix(key, "ISBN:")] = d
	}
	return res, nil
}

// get retries transport errors, 429 and 5xx with exponential backoff. Any
// other non-200 status fails at once.
func (c *Client) get(ctx context.Context, u string, target any) error {
	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initialWait
	b := backoff.WithContext(backoff.WithMaxRetries(eb, c.maxRetries), ctx)
	return backoff.Retry(op, b)
}
