// internal/adapters/in/http/handlers/reaction_proxy_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"wecastmint/internal/adapters/out/hub"
	reactiondom "wecastmint/internal/domain/reaction"
)

// CheckUserLikedCastPath is the route the frame page calls.
const CheckUserLikedCastPath = "/api/checkUserLikedCast"

// Proxy outcome labels (metrics).
const (
	ProxyOutcomeOK            = "ok"
	ProxyOutcomeBadMethod     = "method_not_allowed"
	ProxyOutcomeBadRequest    = "bad_request"
	ProxyOutcomeMisconfigured = "misconfigured"
	ProxyOutcomeUpstream      = "upstream_error"
)

// ReactionFetcher is satisfied by *hub.Client.
type ReactionFetcher interface {
	ReactionByID(ctx context.Context, ref reactiondom.CastRef) (json.RawMessage, error)
}

// ProxyMetrics counts proxy outcomes.
type ProxyMetrics interface {
	ProxyOutcome(outcome string)
}

type noopProxyMetrics struct{}

func (noopProxyMetrics) ProxyOutcome(string) {}

// ReactionProxyHandler serves GET /api/checkUserLikedCast.
//
// It forwards {target_hash, target_fid, fid} to the hub with the server-held
// API key and returns the upstream JSON. Upstream detail never reaches the
// client: every failure after validation is a generic 500.
type ReactionProxyHandler struct {
	hub     ReactionFetcher
	metrics ProxyMetrics
	log     zerolog.Logger
}

func NewReactionProxyHandler(fetcher ReactionFetcher, metrics ProxyMetrics, log zerolog.Logger) http.Handler {
	if metrics == nil {
		metrics = noopProxyMetrics{}
	}
	return &ReactionProxyHandler{
		hub:     fetcher,
		metrics: metrics,
		log:     log.With().Str("component", "reaction_proxy").Logger(),
	}
}

func (h *ReactionProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.metrics.ProxyOutcome(ProxyOutcomeBadMethod)
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	ref := reactiondom.CastRef{
		TargetHash: strings.TrimSpace(q.Get("target_hash")),
		TargetFID:  strings.TrimSpace(q.Get("target_fid")),
		FID:        strings.TrimSpace(q.Get("fid")),
	}
	if err := ref.Validate(); err != nil {
		h.metrics.ProxyOutcome(ProxyOutcomeBadRequest)
		writeMessage(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	if h.hub == nil {
		h.metrics.ProxyOutcome(ProxyOutcomeMisconfigured)
		h.log.Error().Msg("hub client is not configured")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	body, err := h.hub.ReactionByID(r.Context(), ref)
	if err != nil {
		outcome := ProxyOutcomeUpstream
		if errors.Is(err, hub.ErrMisconfigured) {
			outcome = ProxyOutcomeMisconfigured
		}
		h.metrics.ProxyOutcome(outcome)
		h.log.Error().Err(err).
			Str("target_hash", ref.TargetHash).
			Str("target_fid", ref.TargetFID).
			Str("fid", ref.FID).
			Msg("error checking if user liked cast")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.metrics.ProxyOutcome(ProxyOutcomeOK)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
