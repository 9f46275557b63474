// internal/adapters/out/hub/reaction_client.go
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	reactiondom "wecastmint/internal/domain/reaction"
)

// Default Neynar-hosted hub endpoint.
const DefaultBaseURL = "https://hub-api.neynar.com"

const (
	reactionByIDPath = "/v1/reactionById"
	apiKeyHeader     = "x-api-key"

	// upstream bodies are small JSON messages
	maxBodyBytes = 1 << 20
)

var (
	ErrMisconfigured       = errors.New("hub: api key is not configured")
	ErrUpstreamUnavailable = errors.New("hub: upstream unavailable")
)

// Client reads reactions from the Farcaster hub HTTP API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	b := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if b == "" {
		b = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: b,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ReactionByID fetches the like reaction of ref.FID on the target cast and
// returns the upstream JSON unchanged. A single attempt, no retry.
func (c *Client) ReactionByID(ctx context.Context, ref reactiondom.CastRef) (json.RawMessage, error) {
	if c == nil || c.HTTP == nil {
		return nil, fmt.Errorf("%w: client is nil", ErrMisconfigured)
	}
	if c.APIKey == "" {
		return nil, ErrMisconfigured
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	ref = ref.Normalize()

	q := url.Values{}
	q.Set("fid", ref.FID)
	q.Set("reaction_type", reactiondom.TypeLike)
	q.Set("target_fid", ref.TargetFID)
	q.Set("target_hash", ref.TargetHash)
	endpoint := c.BaseURL + reactionByIDPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("hub: new request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: http status=%d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstreamUnavailable, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid json body", ErrUpstreamUnavailable)
	}
	return json.RawMessage(body), nil
}
