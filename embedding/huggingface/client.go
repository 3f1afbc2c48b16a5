// Package huggingface implements embedding.Provider against the
// HuggingFace inference feature-extraction endpoint.
package huggingface

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/gkoduol/tastematch/embedding"
	"github.com/gkoduol/tastematch/model"
)

// DefaultEndpoint is the feature-extraction pipeline for the
// sentence-transformers MiniLM model the original dataset was embedded with.
const DefaultEndpoint = "https://router.huggingface.co/hf-inference/models/sentence-transformers/all-MiniLM-L6-v2/pipeline/feature-extraction"

// ErrStatus is returned when the inference endpoint answers with a
// non-200 status.
type ErrStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("huggingface: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client calls the HF inference API. Safe for concurrent use.
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
	limiter  *rate.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the inference endpoint (e.g. a different model,
// or a local TEI server).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithRateLimit caps requests per second to the endpoint. Zero disables
// the limiter.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New creates a Client authenticating with the given API token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		token:    token,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Inputs []string `json:"inputs"`
}

// Embed posts the texts to the feature-extraction pipeline and returns one
// vector per text.
func (c *Client) Embed(ctx context.Context, texts []string) ([]model.Vector, error) {
	if len(texts) == 0 {
		return nil, embedding.ErrEmptyInput
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := gojson.Marshal(request{Inputs: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ErrStatus{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var vectors []model.Vector
	if err := gojson.Unmarshal(raw, &vectors); err != nil {
		return nil, fmt.Errorf("huggingface: decode response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("huggingface: expected %d vectors, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}
