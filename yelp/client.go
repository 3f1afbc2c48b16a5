// Package yelp fetches candidate restaurants from the Yelp Fusion
// business-search API and projects them onto model.Restaurant.
package yelp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/gkoduol/tastematch/model"
)

// DefaultBaseURL is the Yelp Fusion API root.
const DefaultBaseURL = "https://api.yelp.com/v3"

// DefaultLimit is the number of candidates fetched per search.
const DefaultLimit = 25

// ErrStatus is returned when Yelp answers with a non-200 status.
type ErrStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("yelp: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client calls the Yelp Fusion API. Safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests point it at a local server).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a Client authenticating with the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 12 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchParams select candidates. Location is required.
type SearchParams struct {
	Location string
	Term     string
	Limit    int
}

type business struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Price       string  `json:"price"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
	Location    struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
}

type searchResponse struct {
	Businesses []business `json:"businesses"`
}

// Search returns restaurants matching the params, normalized to the
// fields the engine keeps.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]model.Restaurant, error) {
	if params.Location == "" {
		return nil, fmt.Errorf("yelp: location is required")
	}
	term := params.Term
	if term == "" {
		term = "restaurants"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("location", params.Location)
	q.Set("term", term)
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/businesses/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yelp: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ErrStatus{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded searchResponse
	if err := gojson.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("yelp: decode response: %w", err)
	}

	out := make([]model.Restaurant, 0, len(decoded.Businesses))
	for _, b := range decoded.Businesses {
		out = append(out, normalize(b))
	}
	return out, nil
}

func normalize(b business) model.Restaurant {
	titles := make([]string, 0, len(b.Categories))
	for _, cat := range b.Categories {
		titles = append(titles, cat.Title)
	}
	return model.Restaurant{
		ItemID:      b.ID,
		Name:        b.Name,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Price:       b.Price,
		URL:         b.URL,
		ImageURL:    b.ImageURL,
		Address:     strings.Join(b.Location.DisplayAddress, " "),
		Categories:  strings.Join(titles, ", "),
	}
}
