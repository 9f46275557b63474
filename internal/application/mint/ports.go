// internal/application/mint/ports.go
package mint

import (
	"context"

	"wecastmint/internal/application/eligibility"
	reactiondom "wecastmint/internal/domain/reaction"
)

// UserContext is supplied by the hosting frame runtime and replaced wholesale
// on every Load.
type UserContext struct {
	FID         string
	Username    string
	DisplayName string
	PfpURL      string
}

// FrameRuntime is the host that embeds the mint page (a Farcaster client, or
// the terminal front end in mintctl).
type FrameRuntime interface {
	UserContext(ctx context.Context) (UserContext, error)
	// Ready tells the host the page finished loading.
	Ready(ctx context.Context) error
	OpenURL(ctx context.Context, url string) error
	// Alert shows a blocking, alert-level message.
	Alert(msg string)
	// HasWalletProvider reports whether the host exposes a wallet provider.
	HasWalletProvider() bool
}

// EligibilityChecker is satisfied by *eligibility.Checker.
type EligibilityChecker interface {
	Check(ctx context.Context, ref reactiondom.CastRef) (eligibility.Status, error)
}

var _ EligibilityChecker = (*eligibility.Checker)(nil)
