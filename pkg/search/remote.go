package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultCratesURL = "https://crates.io"
	DefaultCheatURL  = "https://cheat.sh"
	DefaultUserAgent = "notebox"

	maxBody = 1 << 20
)

// HTTPOptions is shared by the remote providers.
type HTTPOptions struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	// Limiter spaces out requests; nil means unlimited.
	Limiter *rate.Limiter
}

// NewHTTPClient returns the client remote providers use. A zero timeout
// means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (o HTTPOptions) get(ctx context.Context, rawURL string) ([]byte, error) {
	if o.Limiter != nil {
		if err := o.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	ua := o.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return body, nil
}

func (o HTTPOptions) base(fallback string) string {
	if o.BaseURL == "" {
		return fallback
	}
	return strings.TrimRight(o.BaseURL, "/")
}

// CratesIO searches the crates.io registry.
type CratesIO struct {
	HTTPOptions
}

var _ Provider = (*CratesIO)(nil)

// NewCratesIO returns a provider limited to one request per second, the
// rate crates.io asks API clients to respect.
func NewCratesIO(opts HTTPOptions) *CratesIO {
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	return &CratesIO{HTTPOptions: opts}
}

type cratesResponse struct {
	Crates []struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	} `json:"crates"`
}

func (c *CratesIO) Search(ctx context.Context, query string) ([]Result, error) {
	base := c.base(DefaultCratesURL)
	body, err := c.get(ctx, base+"/api/v1/crates?q="+url.QueryEscape(query)+"&per_page=10")
	if err != nil {
		return nil, fmt.Errorf("crates.io: %w", err)
	}
	var parsed cratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("crates.io: decode: %w", err)
	}
	out := make([]Result, 0, len(parsed.Crates))
	for _, cr := range parsed.Crates {
		r := Result{
			Title:  cr.Name,
			Source: SourceCratesIO,
			URL:    base + "/crates/" + url.PathEscape(cr.Name),
		}
		if cr.Description != nil {
			r.Description = strings.TrimSpace(*cr.Description)
		}
		out = append(out, r)
	}
	return out, nil
}

// CheatSh fetches a plain-text cheat sheet from cheat.sh.
type CheatSh struct {
	HTTPOptions
}

var _ Provider = (*CheatSh)(nil)

func NewCheatSh(opts HTTPOptions) *CheatSh {
	return &CheatSh{HTTPOptions: opts}
}

// Search returns a single result titled by the query whose description is
// the sheet text. An empty sheet yields no results.
func (c *CheatSh) Search(ctx context.Context, query string) ([]Result, error) {
	base := c.base(DefaultCheatURL)
	page := base + "/" + url.PathEscape(query)
	body, err := c.get(ctx, page+"?T")
	if err != nil {
		return nil, fmt.Errorf("cheat.sh: %w", err)
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, nil
	}
	return []Result{{
		Title:       query,
		Description: text,
		Source:      SourceCheatSh,
		URL:         page,
	}}, nil
}
