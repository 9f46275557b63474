// internal/application/eligibility/checker.go
package eligibility

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	reactiondom "wecastmint/internal/domain/reaction"
)

// Status is the result of an eligibility check.
type Status string

const (
	StatusUnknown     Status = "unknown"
	StatusChecking    Status = "checking"
	StatusEligible    Status = "eligible"
	StatusNotEligible Status = "not_eligible"
)

var ErrLookupFailed = errors.New("eligibility: lookup failed")

// ReactionLookup fetches the reaction message for ref. Implemented by the
// proxy gateway client (adapters/out/gateway).
type ReactionLookup interface {
	LookupReaction(ctx context.Context, ref reactiondom.CastRef) (reactiondom.Message, error)
}

// Checker derives Eligible / NotEligible from a single reaction lookup.
// It holds no state; every call performs exactly one lookup.
type Checker struct {
	lookup ReactionLookup
	log    zerolog.Logger
}

func NewChecker(lookup ReactionLookup, log zerolog.Logger) *Checker {
	return &Checker{
		lookup: lookup,
		log:    log.With().Str("component", "eligibility").Logger(),
	}
}

// Check returns StatusEligible only when the reaction type is exactly the like
// sentinel. Missing identifiers fail with reaction.ErrMissingParameter before
// any network call; transport or status failures fail with ErrLookupFailed.
func (c *Checker) Check(ctx context.Context, ref reactiondom.CastRef) (Status, error) {
	if err := ref.Validate(); err != nil {
		return StatusUnknown, err
	}
	if c == nil || c.lookup == nil {
		return StatusUnknown, fmt.Errorf("%w: lookup not configured", ErrLookupFailed)
	}
	ref = ref.Normalize()

	msg, err := c.lookup.LookupReaction(ctx, ref)
	if err != nil {
		c.log.Warn().Err(err).
			Str("target_hash", ref.TargetHash).
			Str("fid", ref.FID).
			Msg("reaction lookup failed")
		return StatusUnknown, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	if msg.IsLike() {
		c.log.Debug().Str("fid", ref.FID).Msg("cast liked")
		return StatusEligible, nil
	}
	c.log.Debug().Str("fid", ref.FID).Str("reaction_type", msg.ReactionType()).Msg("cast not liked")
	return StatusNotEligible, nil
}
