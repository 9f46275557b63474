// internal/application/mint/state.go
package mint

import (
	"wecastmint/internal/application/eligibility"
	mintdom "wecastmint/internal/domain/mint"
)

// AlertNoAccount is surfaced when a submit is attempted without a wallet.
const AlertNoAccount = "Minting failed: No account connected"

// State is an immutable snapshot handed to subscribers.
type State struct {
	Loaded bool
	User   UserContext

	Wallet      mintdom.Connection
	WalletError string

	Selected mintdom.Variant
	Quantity int

	Eligibility  eligibility.Status
	RecheckArmed bool

	Attempts map[mintdom.Variant]mintdom.Attempt

	Alert      string
	ShowReload bool
}

// Attempt returns the attempt for v, or a zero NotSubmitted attempt.
func (s State) Attempt(v mintdom.Variant) mintdom.Attempt {
	if a, ok := s.Attempts[v]; ok {
		return a
	}
	return mintdom.Attempt{Variant: v, Phase: mintdom.PhaseNotSubmitted}
}

// Pending reports whether v has an in-flight submission.
func (s State) Pending(v mintdom.Variant) bool {
	return s.Attempt(v).Pending
}

func (s State) clone() State {
	out := s
	out.Attempts = make(map[mintdom.Variant]mintdom.Attempt, len(s.Attempts))
	for k, v := range s.Attempts {
		out.Attempts[k] = v
	}
	return out
}

// ButtonLabel renders the submit button text for v the way the page does.
func ButtonLabel(s State, spec mintdom.VariantSpec) string {
	a := s.Attempt(spec.Variant)
	if a.Pending {
		return "Minting " + spec.Label + "..."
	}
	if !spec.IsFree() {
		q := mintdom.ClampQuantity(s.Quantity, spec.MaxQuantity)
		return spec.Label + " Mint " + mintdom.FormatEther(spec.Quote(q)) + "ETH"
	}
	switch {
	case !spec.RequiresLike:
		return "FreeMint " + spec.Label
	case s.RecheckArmed:
		return "Check Like Status"
	case s.Eligibility == eligibility.StatusEligible:
		return "FreeMint " + spec.Label
	default:
		return "Like to Mint " + spec.Label
	}
}
