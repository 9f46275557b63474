// internal/adapters/out/gateway/reaction_lookup_http.go
package gateway

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

	"wecastmint/internal/application/eligibility"
	reactiondom "wecastmint/internal/domain/reaction"
)

// CheckUserLikedCastPath is the proxy gateway route served by cmd/api.
const CheckUserLikedCastPath = "/api/checkUserLikedCast"

var ErrGatewayNotConfigured = errors.New("gateway: client not configured")

// ReactionLookupHTTP calls the proxy gateway, never the hub directly, so the
// hub credential stays on the server.
type ReactionLookupHTTP struct {
	BaseURL string
	HTTP    *http.Client
}

var _ eligibility.ReactionLookup = (*ReactionLookupHTTP)(nil)

func NewReactionLookupHTTP(baseURL string, timeout time.Duration) *ReactionLookupHTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReactionLookupHTTP{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// LookupReaction issues GET /api/checkUserLikedCast?target_hash=&target_fid=&fid=.
// Non-2xx responses are errors; any 2xx JSON body is decoded leniently.
func (c *ReactionLookupHTTP) LookupReaction(ctx context.Context, ref reactiondom.CastRef) (reactiondom.Message, error) {
	if c == nil || c.BaseURL == "" || c.HTTP == nil {
		return reactiondom.Message{}, ErrGatewayNotConfigured
	}

	q := url.Values{}
	q.Set("target_hash", ref.TargetHash)
	q.Set("target_fid", ref.TargetFID)
	q.Set("fid", ref.FID)
	endpoint := c.BaseURL + CheckUserLikedCastPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return reactiondom.Message{}, fmt.Errorf("gateway: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return reactiondom.Message{}, fmt.Errorf("gateway: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return reactiondom.Message{}, fmt.Errorf("gateway: http status=%d", resp.StatusCode)
	}

	var msg reactiondom.Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return reactiondom.Message{}, fmt.Errorf("gateway: decode response: %w", err)
	}
	return msg, nil
}
