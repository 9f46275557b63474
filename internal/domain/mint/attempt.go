// internal/domain/mint/attempt.go
package mint

import (
	"fmt"
	"time"
)

// Phase is the lifecycle position of one variant's transaction attempt.
type Phase string

const (
	PhaseNotSubmitted Phase = "not_submitted"
	PhaseSubmitting   Phase = "submitting"
	PhaseSucceeded    Phase = "succeeded"
	PhaseFailed       Phase = "failed"
)

// Attempt is one submission for one variant. A new submission replaces the
// previous attempt of the same variant; attempts are never merged.
type Attempt struct {
	ID       string
	Variant  Variant
	Phase    Phase
	Pending  bool
	Quantity int

	Account string
	ChainID uint64

	TxHash string
	Error  string

	StartedAt time.Time
	SettledAt time.Time
}

// NewAttempt starts a pending attempt in PhaseSubmitting.
func NewAttempt(id string, v Variant, quantity int, account string, chainID uint64, now time.Time) Attempt {
	return Attempt{
		ID:        id,
		Variant:   v,
		Phase:     PhaseSubmitting,
		Pending:   true,
		Quantity:  quantity,
		Account:   account,
		ChainID:   chainID,
		StartedAt: now.UTC(),
	}
}

// Succeed records the transaction hash.
func (a *Attempt) Succeed(txHash string, now time.Time) error {
	if a.Phase != PhaseSubmitting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Phase, PhaseSucceeded)
	}
	a.Phase = PhaseSucceeded
	a.TxHash = txHash
	a.Error = ""
	a.settle(now)
	return nil
}

// Fail records the error message of a submission that reached the SDK.
func (a *Attempt) Fail(msg string, now time.Time) error {
	if a.Phase != PhaseSubmitting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Phase, PhaseFailed)
	}
	a.Phase = PhaseFailed
	a.Error = msg
	a.settle(now)
	return nil
}

// Abort returns the attempt to PhaseNotSubmitted, used when the submission
// never reached the SDK (e.g. the chain switch was refused).
func (a *Attempt) Abort(msg string, now time.Time) error {
	if a.Phase != PhaseSubmitting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Phase, PhaseNotSubmitted)
	}
	a.Phase = PhaseNotSubmitted
	a.Error = msg
	a.settle(now)
	return nil
}

// Settled reports whether the attempt reached a resting phase.
func (a Attempt) Settled() bool {
	return !a.Pending && a.Phase != PhaseSubmitting
}

func (a *Attempt) settle(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	a.Pending = false
	a.SettledAt = now.UTC()
}
