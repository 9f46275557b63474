// internal/application/mint/controller.go
package mint

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"wecastmint/internal/application/eligibility"
	mintdom "wecastmint/internal/domain/mint"
	reactiondom "wecastmint/internal/domain/reaction"
)

const (
	defaultReloadDelay       = 5 * time.Second
	defaultReplayReloadDelay = 7 * time.Second

	flightConnect     = "connect"
	flightSwitchChain = "switch-chain"
)

// Config is the static drop configuration.
type Config struct {
	Contract string
	Chain    mintdom.Chain

	// Cast is the post that must be liked. Cast.FID is only a fallback for
	// hosts that do not supply a user FID.
	Cast    reactiondom.CastRef
	LikeURL string

	Catalog        mintdom.Catalog
	InitialVariant mintdom.Variant

	ReloadDelay       time.Duration
	ReplayReloadDelay time.Duration
}

// Deps are the external collaborators. Attempts is optional.
type Deps struct {
	Runtime   FrameRuntime
	Connector mintdom.WalletConnector
	SDK       mintdom.ContractSDK
	Checker   EligibilityChecker
	Attempts  mintdom.AttemptRepository

	Log   zerolog.Logger
	Now   func() time.Time
	NewID func() string
}

// Outcome tells the caller what Submit actually did.
type Outcome string

const (
	OutcomeSubmitted    Outcome = "submitted"
	OutcomeLikePrompted Outcome = "like_prompted"
	OutcomeRechecked    Outcome = "rechecked"
)

type SubmitResult struct {
	Outcome     Outcome
	Attempt     mintdom.Attempt
	Eligibility eligibility.Status
}

// Controller drives the mint page: wallet connection, eligibility, quantity
// and variant selection, and one transaction attempt per variant.
//
// All state lives behind mu and every external call runs outside it.
// Subscribers are called synchronously after each transition with a snapshot,
// in transition order. They must not block or call back into mutating
// methods; Snapshot is safe.
type Controller struct {
	cfg Config

	runtime   FrameRuntime
	connector mintdom.WalletConnector
	sdk       mintdom.ContractSDK
	checker   EligibilityChecker
	attempts  mintdom.AttemptRepository

	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	// notifyMu orders transitions with their delivery; it is always taken
	// before mu.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	wallet    mintdom.Wallet
	listeners map[int]func(State)
	nextSub   int

	flight singleflight.Group
	reload delayedTask
}

func NewController(cfg Config, deps Deps) (*Controller, error) {
	switch {
	case deps.Runtime == nil:
		return nil, errors.New("mint controller: runtime is nil")
	case deps.Connector == nil:
		return nil, errors.New("mint controller: wallet connector is nil")
	case deps.SDK == nil:
		return nil, errors.New("mint controller: contract sdk is nil")
	case deps.Checker == nil:
		return nil, errors.New("mint controller: eligibility checker is nil")
	}
	if strings.TrimSpace(cfg.Contract) == "" {
		return nil, errors.New("mint controller: contract address is empty")
	}
	if cfg.Chain.ID == 0 {
		return nil, errors.New("mint controller: target chain is not set")
	}
	if _, err := cfg.Catalog.Spec(mintdom.VariantStandard); err != nil {
		return nil, fmt.Errorf("mint controller: %w", err)
	}
	if cfg.InitialVariant == "" {
		cfg.InitialVariant = mintdom.VariantHighDefinition
	}
	if _, err := cfg.Catalog.Spec(cfg.InitialVariant); err != nil {
		return nil, fmt.Errorf("mint controller: %w", err)
	}
	if cfg.ReloadDelay <= 0 {
		cfg.ReloadDelay = defaultReloadDelay
	}
	if cfg.ReplayReloadDelay <= 0 {
		cfg.ReplayReloadDelay = defaultReplayReloadDelay
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Controller{
		cfg:       cfg,
		runtime:   deps.Runtime,
		connector: deps.Connector,
		sdk:       deps.SDK,
		checker:   deps.Checker,
		attempts:  deps.Attempts,
		log:       deps.Log.With().Str("component", "mint_controller").Logger(),
		now:       now,
		newID:     newID,
		state: State{
			Wallet:      mintdom.Connection{Status: mintdom.StatusDisconnected},
			Selected:    cfg.InitialVariant,
			Quantity:    mintdom.MinQuantity,
			Eligibility: eligibility.StatusUnknown,
			Attempts:    map[mintdom.Variant]mintdom.Attempt{},
		},
		listeners: map[int]func(State){},
	}, nil
}

// ============================================================
// Subscription
// ============================================================

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn for every subsequent transition. The returned func
// unsubscribes.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller) update(fn func(s *State)) State {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	fn(&c.state)
	snap := c.state.clone()
	ls := make([]func(State), 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
	return snap
}

// ============================================================
// Page lifecycle
// ============================================================

// Load reads the host's user context, signals readiness, arms the reload
// affordance, auto-connects the wallet when the host has a provider and runs
// the initial eligibility check. Collaborator failures are surfaced in state,
// not returned.
func (c *Controller) Load(ctx context.Context) error {
	user, err := c.runtime.UserContext(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("user context unavailable")
	}
	c.update(func(s *State) {
		s.User = user
		s.Loaded = true
	})

	if err := c.runtime.Ready(ctx); err != nil {
		c.log.Warn().Err(err).Msg("runtime ready failed")
	}

	c.reload.Schedule(c.cfg.ReloadDelay, c.showReload)

	if c.runtime.HasWalletProvider() {
		if _, err := c.ConnectWallet(ctx); err != nil {
			c.log.Warn().Err(err).Msg("auto connect failed")
		}
	}

	if _, err := c.CheckEligibility(ctx); err != nil {
		c.log.Warn().Err(err).Msg("initial eligibility check failed")
	}
	return ctx.Err()
}

// Close cancels the pending reload affordance. In-flight external calls are
// governed by their own contexts.
func (c *Controller) Close() {
	c.reload.Close()
}

// ReplayAnimation hides the reload affordance and shows it again after the
// replay delay.
func (c *Controller) ReplayAnimation() {
	c.update(func(s *State) { s.ShowReload = false })
	c.reload.Schedule(c.cfg.ReplayReloadDelay, c.showReload)
}

func (c *Controller) showReload() {
	c.update(func(s *State) { s.ShowReload = true })
}

// ============================================================
// Wallet
// ============================================================

// ConnectWallet requests a wallet from the host provider. Concurrent callers
// share one in-flight request.
func (c *Controller) ConnectWallet(ctx context.Context) (mintdom.Connection, error) {
	if snap := c.Snapshot(); snap.Wallet.Connected() {
		return snap.Wallet, nil
	}

	v, err, _ := c.flight.Do(flightConnect, func() (any, error) {
		c.update(func(s *State) {
			s.Wallet = mintdom.Connection{Status: mintdom.StatusConnecting}
			s.WalletError = ""
		})

		w, err := c.connector.Connect(ctx)
		if err != nil {
			c.update(func(s *State) {
				s.Wallet = mintdom.Connection{Status: mintdom.StatusDisconnected}
				s.WalletError = err.Error()
			})
			return mintdom.Connection{Status: mintdom.StatusDisconnected},
				fmt.Errorf("%w: %w", mintdom.ErrConnectionRejected, err)
		}

		chainID, err := w.ChainID(ctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("could not read active chain after connect")
		}
		conn := mintdom.Connection{
			Status:  mintdom.StatusConnected,
			Address: w.Address(),
			ChainID: chainID,
		}
		c.update(func(s *State) {
			c.wallet = w
			s.Wallet = conn
		})
		c.log.Info().Str("address", conn.Address).Uint64("chain_id", chainID).Msg("wallet connected")
		return conn, nil
	})

	conn, _ := v.(mintdom.Connection)
	return conn, err
}

// EnsureChain switches the connected wallet to the configured chain when its
// active chain differs. Concurrent callers share one switch request.
func (c *Controller) EnsureChain(ctx context.Context) error {
	c.mu.Lock()
	w := c.wallet
	c.mu.Unlock()
	if w == nil {
		return mintdom.ErrNoAccount
	}
	target := c.cfg.Chain.ID

	_, err, _ := c.flight.Do(flightSwitchChain, func() (any, error) {
		current, err := w.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: read active chain: %w", mintdom.ErrChainSwitchFailed, err)
		}
		if current != target {
			c.log.Info().Uint64("from", current).Uint64("to", target).Msg("switching chain")
			if err := w.SwitchChain(ctx, target); err != nil {
				return nil, fmt.Errorf("%w: %w", mintdom.ErrChainSwitchFailed, err)
			}
		}
		c.update(func(s *State) {
			if s.Wallet.Connected() {
				s.Wallet.ChainID = target
			}
		})
		return nil, nil
	})
	return err
}

// ============================================================
// Eligibility
// ============================================================

// CheckEligibility runs one lookup for the configured cast and the current
// user. A failed lookup leaves the status Unknown, distinct from NotEligible.
func (c *Controller) CheckEligibility(ctx context.Context) (eligibility.Status, error) {
	ref := c.castRef()
	c.update(func(s *State) { s.Eligibility = eligibility.StatusChecking })

	status, err := c.checker.Check(ctx, ref)
	if err != nil {
		status = eligibility.StatusUnknown
	}
	c.update(func(s *State) { s.Eligibility = status })
	return status, err
}

// PromptLike sends the user to the cast and arms a re-check for the next
// submit of a like-gated variant.
func (c *Controller) PromptLike(ctx context.Context) error {
	c.update(func(s *State) { s.RecheckArmed = true })
	if err := c.runtime.OpenURL(ctx, c.cfg.LikeURL); err != nil {
		return fmt.Errorf("open like url: %w", err)
	}
	return nil
}

func (c *Controller) recheck(ctx context.Context) (eligibility.Status, error) {
	status, err := c.CheckEligibility(ctx)
	c.update(func(s *State) { s.RecheckArmed = false })
	return status, err
}

func (c *Controller) castRef() reactiondom.CastRef {
	ref := c.cfg.Cast
	c.mu.Lock()
	if fid := strings.TrimSpace(c.state.User.FID); fid != "" {
		ref.FID = fid
	}
	c.mu.Unlock()
	return ref
}

// ============================================================
// Selection
// ============================================================

// SelectVariant toggles the displayed variant and clamps the quantity to its
// bound, which resets it to 1 for the single-unit Standard variant.
func (c *Controller) SelectVariant(v mintdom.Variant) error {
	spec, err := c.cfg.Catalog.Spec(v)
	if err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Selected = v
		s.Quantity = spec.ClampQuantity(s.Quantity)
	})
	return nil
}

// AdjustQuantity adds delta and clamps to [1, selected variant max]. It also
// clears stale transaction errors, as pressing any mint control does.
func (c *Controller) AdjustQuantity(delta int) int {
	snap := c.update(func(s *State) {
		spec, err := c.cfg.Catalog.Spec(s.Selected)
		max := mintdom.MaxQuantity
		if err == nil {
			max = spec.MaxQuantity
		}
		s.Quantity = mintdom.ClampQuantity(s.Quantity+delta, max)
		clearErrors(s)
	})
	return snap.Quantity
}

// QuoteWei returns the native-currency value for quantity units of v.
func (c *Controller) QuoteWei(v mintdom.Variant, quantity int) (*big.Int, error) {
	spec, err := c.cfg.Catalog.Spec(v)
	if err != nil {
		return nil, err
	}
	return spec.Quote(quantity), nil
}

// Spec exposes the catalog entry for v.
func (c *Controller) Spec(v mintdom.Variant) (mintdom.VariantSpec, error) {
	return c.cfg.Catalog.Spec(v)
}

// ============================================================
// Submission
// ============================================================

// Submit mints the current quantity of v.
//
// A second Submit for a variant whose attempt is still pending fails with
// ErrSubmissionInFlight and changes nothing. Without a connected wallet it
// raises an alert and returns ErrNoAccount. For a like-gated variant that is
// not Eligible it opens the like action (first call) or re-runs the check
// (next call) instead of submitting.
func (c *Controller) Submit(ctx context.Context, v mintdom.Variant) (SubmitResult, error) {
	spec, err := c.cfg.Catalog.Spec(v)
	if err != nil {
		return SubmitResult{}, err
	}

	c.mu.Lock()
	if cur := c.state.Attempt(v); cur.Pending {
		c.mu.Unlock()
		return SubmitResult{Attempt: cur}, mintdom.ErrSubmissionInFlight
	}
	c.mu.Unlock()

	snap := c.update(func(s *State) {
		clearErrors(s)
		s.Alert = ""
	})

	if !snap.Wallet.Connected() {
		c.update(func(s *State) { s.Alert = AlertNoAccount })
		c.runtime.Alert(AlertNoAccount)
		return SubmitResult{Attempt: snap.Attempt(v)}, mintdom.ErrNoAccount
	}

	if spec.RequiresLike && snap.Eligibility != eligibility.StatusEligible {
		if !snap.RecheckArmed {
			err := c.PromptLike(ctx)
			return SubmitResult{Outcome: OutcomeLikePrompted, Eligibility: snap.Eligibility}, err
		}
		status, err := c.recheck(ctx)
		return SubmitResult{Outcome: OutcomeRechecked, Eligibility: status}, err
	}

	if !spec.AllowsQuantity(snap.Quantity) {
		msg := quantityAlert(spec, snap.Quantity)
		c.update(func(s *State) { s.Alert = msg })
		c.runtime.Alert(msg)
		return SubmitResult{Attempt: snap.Attempt(v)}, fmt.Errorf("%w: %d (max %d for %s)",
			mintdom.ErrQuantityOutOfRange, snap.Quantity, spec.MaxQuantity, spec.Label)
	}

	// check-and-set under one lock so two racing submits cannot both start
	var (
		attempt mintdom.Attempt
		w       mintdom.Wallet
		busy    bool
	)
	c.update(func(s *State) {
		if s.Attempts[v].Pending {
			busy = true
			return
		}
		w = c.wallet
		attempt = mintdom.NewAttempt(c.newID(), v, snap.Quantity, s.Wallet.Address, c.cfg.Chain.ID, c.now())
		s.Attempts[v] = attempt
	})
	if busy {
		return SubmitResult{Attempt: c.Snapshot().Attempt(v)}, mintdom.ErrSubmissionInFlight
	}

	return c.run(ctx, spec, w, attempt)
}

func (c *Controller) run(ctx context.Context, spec mintdom.VariantSpec, w mintdom.Wallet, attempt mintdom.Attempt) (SubmitResult, error) {
	log := c.log.With().Str("variant", string(spec.Variant)).Str("attempt_id", attempt.ID).Logger()
	settled := false
	defer func() {
		if !settled {
			a := c.finish(attempt, false, func(a *mintdom.Attempt) error {
				return a.Fail("submission interrupted", c.now())
			})
			c.record(ctx, a)
		}
	}()

	if err := c.EnsureChain(ctx); err != nil {
		log.Warn().Err(err).Msg("chain switch failed, submission aborted")
		a := c.finish(attempt, false, func(a *mintdom.Attempt) error {
			return a.Abort(err.Error(), c.now())
		})
		settled = true
		c.record(ctx, a)
		return SubmitResult{Outcome: OutcomeSubmitted, Attempt: a}, err
	}

	hash, sendErr := c.send(ctx, spec, w, attempt)
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("transaction failed")
		a := c.finish(attempt, false, func(a *mintdom.Attempt) error {
			return a.Fail(sendErr.Error(), c.now())
		})
		settled = true
		c.record(ctx, a)
		return SubmitResult{Outcome: OutcomeSubmitted, Attempt: a},
			fmt.Errorf("%w: %w", mintdom.ErrSubmissionFailed, sendErr)
	}

	log.Info().Str("tx_hash", hash).Int("quantity", attempt.Quantity).Msg("transaction successful")
	a := c.finish(attempt, true, func(a *mintdom.Attempt) error {
		return a.Succeed(hash, c.now())
	})
	settled = true
	c.record(ctx, a)
	return SubmitResult{Outcome: OutcomeSubmitted, Attempt: a}, nil
}

func (c *Controller) send(ctx context.Context, spec mintdom.VariantSpec, w mintdom.Wallet, attempt mintdom.Attempt) (string, error) {
	req, err := c.sdk.ClaimTo(ctx, mintdom.ClaimRequest{
		Contract:         c.cfg.Contract,
		To:               w.Address(),
		TokenID:          spec.TokenID,
		Quantity:         attempt.Quantity,
		PricePerTokenWei: spec.PriceWei,
	})
	if err != nil {
		return "", fmt.Errorf("build claim: %w", err)
	}
	return w.SendTransaction(ctx, req)
}

// finish applies mutate to the live attempt (if it is still the same one),
// optionally moves the selection to HD after a success, and notifies.
func (c *Controller) finish(attempt mintdom.Attempt, succeeded bool, mutate func(a *mintdom.Attempt) error) mintdom.Attempt {
	out := attempt
	c.update(func(s *State) {
		cur, ok := s.Attempts[attempt.Variant]
		if !ok || cur.ID != attempt.ID {
			_ = mutate(&out)
			return
		}
		if err := mutate(&cur); err != nil {
			c.log.Error().Err(err).Str("attempt_id", cur.ID).Msg("attempt transition rejected")
			cur.Pending = false
		}
		s.Attempts[attempt.Variant] = cur
		out = cur
		if succeeded {
			s.Selected = mintdom.VariantHighDefinition
		}
	})
	return out
}

func (c *Controller) record(ctx context.Context, a mintdom.Attempt) {
	if c.attempts == nil {
		return
	}
	if err := c.attempts.Save(context.WithoutCancel(ctx), a); err != nil {
		c.log.Warn().Err(err).Str("attempt_id", a.ID).Msg("attempt not recorded")
	}
}

func quantityAlert(spec mintdom.VariantSpec, q int) string {
	return fmt.Sprintf("Minting failed: %s allows at most %d per mint, %d selected", spec.Label, spec.MaxQuantity, q)
}

func clearErrors(s *State) {
	for k, a := range s.Attempts {
		if a.Error != "" {
			a.Error = ""
			s.Attempts[k] = a
		}
	}
}

// ============================================================
// Links
// ============================================================

// OpenTransaction opens the explorer page of v's last successful transaction.
func (c *Controller) OpenTransaction(ctx context.Context, v mintdom.Variant) error {
	a := c.Snapshot().Attempt(v)
	if a.TxHash == "" {
		return mintdom.ErrNoTransaction
	}
	return c.runtime.OpenURL(ctx, c.cfg.Chain.TxURL(a.TxHash))
}

// OpenArtwork opens the full-resolution artwork of v.
func (c *Controller) OpenArtwork(ctx context.Context, v mintdom.Variant) error {
	spec, err := c.cfg.Catalog.Spec(v)
	if err != nil {
		return err
	}
	return c.runtime.OpenURL(ctx, spec.ArtworkURL)
}
