package mint

import "errors"

// Domain errors
var (
	ErrInvalidVariant     = errors.New("mint: invalid variant")
	ErrQuantityOutOfRange = errors.New("mint: quantity out of range")
	ErrInvalidTransition  = errors.New("mint: invalid attempt transition")

	ErrNoAccount          = errors.New("mint: no account connected")
	ErrConnectionRejected = errors.New("mint: wallet connection rejected")
	ErrChainSwitchFailed  = errors.New("mint: chain switch failed")
	ErrSubmissionFailed   = errors.New("mint: submission failed")
	ErrSubmissionInFlight = errors.New("mint: submission already in flight")
	ErrNoTransaction      = errors.New("mint: no transaction recorded")
)
