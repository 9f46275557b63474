package mint

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wecastmint/internal/application/eligibility"
	mintdom "wecastmint/internal/domain/mint"
	reactiondom "wecastmint/internal/domain/reaction"
)

const (
	testContract = "0xC03b765c06880CFB5a439240aC863826292767A5"
	testLikeURL  = "https://farcaster.xyz/kmacb.eth/0x3063a48a"
	testAccount  = "0x2222222222222222222222222222222222222222"
)

var testChain = mintdom.Chain{ID: 84532, Name: "Base Sepolia", ExplorerURL: "https://sepolia.basescan.org"}

type fixture struct {
	ctrl     *Controller
	log      *eventLog
	runtime  *fakeRuntime
	wallet   *fakeWallet
	conn     *fakeConnector
	sdk      *fakeSDK
	checker  *fakeChecker
	attempts *memAttempts
}

type option func(*fixture, *Config)

func requireLike(on bool) option {
	return func(_ *fixture, cfg *Config) { cfg.Catalog = mintdom.DefaultCatalog(on) }
}

func withoutWalletProvider() option {
	return func(f *fixture, _ *Config) { f.runtime.hasWallet = false }
}

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	log := &eventLog{}
	f := &fixture{
		log:      log,
		runtime:  &fakeRuntime{user: UserContext{FID: "5701", DisplayName: "Chris"}, hasWallet: true},
		wallet:   &fakeWallet{log: log, address: testAccount, chainID: 8453},
		sdk:      &fakeSDK{log: log},
		checker:  &fakeChecker{status: eligibility.StatusNotEligible},
		attempts: &memAttempts{},
	}
	f.conn = &fakeConnector{wallet: f.wallet}

	cfg := Config{
		Contract:    testContract,
		Chain:       testChain,
		Cast:        reactiondom.CastRef{TargetHash: "0x3063a48af2bf4eb918e5466b2ab6756fa97bc179", TargetFID: "4163", FID: "1"},
		LikeURL:     testLikeURL,
		Catalog:     mintdom.DefaultCatalog(true),
		ReloadDelay: time.Hour,
	}
	for _, o := range opts {
		o(f, &cfg)
	}

	ctrl, err := NewController(cfg, Deps{
		Runtime:   f.runtime,
		Connector: f.conn,
		SDK:       f.sdk,
		Checker:   f.checker,
		Attempts:  f.attempts,
		Log:       zerolog.Nop(),
		NewID:     newSeqID(),
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	f.ctrl = ctrl
	return f
}

func newSeqID() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("attempt-%d", n)
	}
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ctrl.Load(context.Background()))
}

// ============================================================

func TestNewControllerValidates(t *testing.T) {
	_, err := NewController(Config{}, Deps{})
	assert.Error(t, err)

	_, err = NewController(Config{Contract: testContract, Chain: testChain}, Deps{
		Runtime: &fakeRuntime{}, Connector: &fakeConnector{}, SDK: &fakeSDK{}, Checker: &fakeChecker{},
	})
	assert.ErrorIs(t, err, mintdom.ErrInvalidVariant, "empty catalog")
}

func TestLoadConnectsAndChecks(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	s := f.ctrl.Snapshot()
	assert.True(t, s.Loaded)
	assert.Equal(t, "Chris", s.User.DisplayName)
	assert.True(t, s.Wallet.Connected())
	assert.Equal(t, testAccount, s.Wallet.Address)
	assert.Equal(t, uint64(8453), s.Wallet.ChainID)
	assert.Equal(t, eligibility.StatusNotEligible, s.Eligibility)
	assert.Equal(t, mintdom.VariantHighDefinition, s.Selected)
	assert.Equal(t, 1, s.Quantity)

	// the user's fid replaces the configured fallback
	assert.Equal(t, "5701", f.checker.lastRef().FID)
}

func TestLoadWithoutUserFIDUsesFallback(t *testing.T) {
	f := newFixture(t)
	f.runtime.user = UserContext{}
	f.load(t)
	assert.Equal(t, "1", f.checker.lastRef().FID)
}

func TestQuantityClamping(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.SelectVariant(mintdom.VariantHighDefinition))
	assert.Equal(t, 5, f.ctrl.AdjustQuantity(+10))
	assert.Equal(t, 4, f.ctrl.AdjustQuantity(-1))
	assert.Equal(t, 1, f.ctrl.AdjustQuantity(-10))
	assert.Equal(t, 3, f.ctrl.AdjustQuantity(+2))

	// the single-unit Standard variant resets to 1
	require.NoError(t, f.ctrl.SelectVariant(mintdom.VariantStandard))
	assert.Equal(t, 1, f.ctrl.Snapshot().Quantity)
	assert.Equal(t, 1, f.ctrl.AdjustQuantity(+1))

	assert.ErrorIs(t, f.ctrl.SelectVariant("4k"), mintdom.ErrInvalidVariant)
}

func TestSubmitWithoutAccountAlerts(t *testing.T) {
	f := newFixture(t, withoutWalletProvider())
	f.load(t)

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	assert.ErrorIs(t, err, mintdom.ErrNoAccount)
	assert.Equal(t, mintdom.PhaseNotSubmitted, res.Attempt.Phase)

	assert.Equal(t, []string{AlertNoAccount}, f.runtime.alertList())
	assert.Equal(t, AlertNoAccount, f.ctrl.Snapshot().Alert)
	assert.Empty(t, f.sdk.requests())
	assert.Zero(t, f.log.count("claim"))
}

func TestSubmitSwitchesChainBeforeClaim(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.ctrl.AdjustQuantity(+2)

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, res.Outcome)
	assert.Equal(t, mintdom.PhaseSucceeded, res.Attempt.Phase)
	assert.Equal(t, "0xtx1", res.Attempt.TxHash)
	assert.Equal(t, 3, res.Attempt.Quantity)

	sw, claim := f.log.index("switch"), f.log.index("claim")
	require.NotEqual(t, -1, sw)
	assert.Less(t, sw, claim)

	reqs := f.sdk.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, testContract, reqs[0].Contract)
	assert.Equal(t, testAccount, reqs[0].To)
	assert.Equal(t, uint64(1), reqs[0].TokenID)
	assert.Equal(t, 3, reqs[0].Quantity)

	s := f.ctrl.Snapshot()
	assert.Equal(t, uint64(84532), s.Wallet.ChainID)
	assert.False(t, s.Pending(mintdom.VariantHighDefinition))

	saved := f.attempts.list()
	require.Len(t, saved, 1)
	assert.Equal(t, mintdom.PhaseSucceeded, saved[0].Phase)
}

func TestSubmitOnTargetChainDoesNotSwitch(t *testing.T) {
	f := newFixture(t)
	f.wallet.chainID = testChain.ID
	f.load(t)

	_, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	require.NoError(t, err)
	assert.Zero(t, f.log.count("switch"))
}

func TestChainSwitchFailureAbortsSubmission(t *testing.T) {
	f := newFixture(t)
	f.wallet.switchErr = errBoom
	f.load(t)

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	assert.ErrorIs(t, err, mintdom.ErrChainSwitchFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, mintdom.PhaseNotSubmitted, res.Attempt.Phase)

	a := f.ctrl.Snapshot().Attempt(mintdom.VariantHighDefinition)
	assert.Equal(t, mintdom.PhaseNotSubmitted, a.Phase)
	assert.False(t, a.Pending)
	assert.NotEmpty(t, a.Error)
	assert.Zero(t, f.log.count("claim"), "no claim after a refused switch")
}

func TestSendFailureMarksAttemptFailed(t *testing.T) {
	f := newFixture(t)
	f.wallet.sendErr = errBoom
	f.load(t)

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	assert.ErrorIs(t, err, mintdom.ErrSubmissionFailed)
	assert.Equal(t, mintdom.PhaseFailed, res.Attempt.Phase)
	assert.Contains(t, res.Attempt.Error, "boom")
	assert.Equal(t, mintdom.VariantHighDefinition, f.ctrl.Snapshot().Selected)

	// adjusting the quantity clears the stale error
	f.ctrl.AdjustQuantity(+1)
	assert.Empty(t, f.ctrl.Snapshot().Attempt(mintdom.VariantHighDefinition).Error)
}

func TestSubmitInFlightIsRejected(t *testing.T) {
	f := newFixture(t)
	f.wallet.chainID = testChain.ID
	f.sdk.gate = make(chan struct{})
	f.load(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return f.ctrl.Snapshot().Pending(mintdom.VariantHighDefinition)
	}, time.Second, 5*time.Millisecond)

	label, err := f.ctrl.Spec(mintdom.VariantHighDefinition)
	require.NoError(t, err)
	assert.Equal(t, "Minting HD...", ButtonLabel(f.ctrl.Snapshot(), label))

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	assert.ErrorIs(t, err, mintdom.ErrSubmissionInFlight)
	assert.True(t, res.Attempt.Pending)

	close(f.sdk.gate)
	require.NoError(t, <-done)
	assert.Len(t, f.sdk.requests(), 1)
	assert.Equal(t, mintdom.PhaseSucceeded, f.ctrl.Snapshot().Attempt(mintdom.VariantHighDefinition).Phase)
}

func TestConcurrentSubmitsSwitchChainOnce(t *testing.T) {
	f := newFixture(t, requireLike(false))
	f.wallet.switchGate = make(chan struct{})
	f.load(t)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	submit := func(v mintdom.Variant) {
		defer wg.Done()
		_, err := f.ctrl.Submit(context.Background(), v)
		errs <- err
	}

	wg.Add(1)
	go submit(mintdom.VariantHighDefinition)
	require.Eventually(t, func() bool { return f.log.count("switch") == 1 }, time.Second, 5*time.Millisecond)

	wg.Add(1)
	go submit(mintdom.VariantStandard)
	require.Eventually(t, func() bool {
		return f.ctrl.Snapshot().Pending(mintdom.VariantStandard)
	}, time.Second, 5*time.Millisecond)

	close(f.wallet.switchGate)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.log.count("switch"))
	assert.Len(t, f.sdk.requests(), 2)
	s := f.ctrl.Snapshot()
	assert.Equal(t, mintdom.PhaseSucceeded, s.Attempt(mintdom.VariantHighDefinition).Phase)
	assert.Equal(t, mintdom.PhaseSucceeded, s.Attempt(mintdom.VariantStandard).Phase)
}

func TestSubscribersSeeSubmittingBeforeSucceeded(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	var (
		mu     sync.Mutex
		phases []mintdom.Phase
	)
	unsubscribe := f.ctrl.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		p := s.Attempt(mintdom.VariantHighDefinition).Phase
		if len(phases) == 0 || phases[len(phases)-1] != p {
			phases = append(phases, p)
		}
	})

	_, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	require.NoError(t, err)
	unsubscribe()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []mintdom.Phase{
		mintdom.PhaseNotSubmitted,
		mintdom.PhaseSubmitting,
		mintdom.PhaseSucceeded,
	}, phases)
}

func TestLikeGatePromptsThenRechecks(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	require.NoError(t, f.ctrl.SelectVariant(mintdom.VariantStandard))
	sd, err := f.ctrl.Spec(mintdom.VariantStandard)
	require.NoError(t, err)

	assert.Equal(t, "Like to Mint SD", ButtonLabel(f.ctrl.Snapshot(), sd))

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantStandard)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLikePrompted, res.Outcome)
	assert.Equal(t, []string{testLikeURL}, f.runtime.openedURLs())
	assert.True(t, f.ctrl.Snapshot().RecheckArmed)
	assert.Equal(t, "Check Like Status", ButtonLabel(f.ctrl.Snapshot(), sd))

	f.checker.set(eligibility.StatusEligible)
	res, err = f.ctrl.Submit(context.Background(), mintdom.VariantStandard)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRechecked, res.Outcome)
	assert.Equal(t, eligibility.StatusEligible, res.Eligibility)
	assert.False(t, f.ctrl.Snapshot().RecheckArmed)
	assert.Equal(t, "FreeMint SD", ButtonLabel(f.ctrl.Snapshot(), sd))
	assert.Zero(t, f.log.count("claim"))

	res, err = f.ctrl.Submit(context.Background(), mintdom.VariantStandard)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, res.Outcome)
	assert.Equal(t, mintdom.PhaseSucceeded, res.Attempt.Phase)

	reqs := f.sdk.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, uint64(0), reqs[0].TokenID)
	assert.Equal(t, 0, reqs[0].PricePerTokenWei.Sign())

	// a successful mint moves the page to HD
	assert.Equal(t, mintdom.VariantHighDefinition, f.ctrl.Snapshot().Selected)
}

func TestLookupFailureKeepsUnknownAndGates(t *testing.T) {
	f := newFixture(t)
	f.checker.err = errBoom
	f.load(t)

	assert.Equal(t, eligibility.StatusUnknown, f.ctrl.Snapshot().Eligibility)

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantStandard)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLikePrompted, res.Outcome)
	assert.Equal(t, eligibility.StatusUnknown, res.Eligibility)
}

func TestPaidVariantIgnoresLikeGate(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	require.Equal(t, eligibility.StatusNotEligible, f.ctrl.Snapshot().Eligibility)

	res, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, res.Outcome)
	assert.Empty(t, f.runtime.openedURLs())
}

func TestConnectRejected(t *testing.T) {
	f := newFixture(t, withoutWalletProvider())
	f.conn.err = errBoom
	f.load(t)

	conn, err := f.ctrl.ConnectWallet(context.Background())
	assert.ErrorIs(t, err, mintdom.ErrConnectionRejected)
	assert.Equal(t, mintdom.StatusDisconnected, conn.Status)

	s := f.ctrl.Snapshot()
	assert.Equal(t, mintdom.StatusDisconnected, s.Wallet.Status)
	assert.Contains(t, s.WalletError, "boom")
}

func TestEnsureChainWithoutWallet(t *testing.T) {
	f := newFixture(t, withoutWalletProvider())
	assert.ErrorIs(t, f.ctrl.EnsureChain(context.Background()), mintdom.ErrNoAccount)
}

func TestOpenTransactionAndArtwork(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.ctrl.OpenTransaction(ctx, mintdom.VariantHighDefinition), mintdom.ErrNoTransaction)

	_, err := f.ctrl.Submit(ctx, mintdom.VariantHighDefinition)
	require.NoError(t, err)
	require.NoError(t, f.ctrl.OpenTransaction(ctx, mintdom.VariantHighDefinition))
	require.NoError(t, f.ctrl.OpenArtwork(ctx, mintdom.VariantStandard))

	opened := f.runtime.openedURLs()
	require.Len(t, opened, 2)
	assert.Equal(t, "https://sepolia.basescan.org/tx/0xtx1", opened[0])
	assert.Contains(t, opened[1], "ipfs.io/ipfs/")
}

func TestReloadAffordance(t *testing.T) {
	f := newFixture(t, func(_ *fixture, cfg *Config) { cfg.ReloadDelay = 10 * time.Millisecond })
	f.load(t)

	require.Eventually(t, func() bool { return f.ctrl.Snapshot().ShowReload }, time.Second, 5*time.Millisecond)

	f.ctrl.ReplayAnimation()
	assert.False(t, f.ctrl.Snapshot().ShowReload)
}

func TestCloseCancelsReloadAffordance(t *testing.T) {
	f := newFixture(t, func(_ *fixture, cfg *Config) { cfg.ReloadDelay = 30 * time.Millisecond })
	f.load(t)
	f.ctrl.Close()

	time.Sleep(80 * time.Millisecond)
	assert.False(t, f.ctrl.Snapshot().ShowReload)
}

func TestQuoteWei(t *testing.T) {
	f := newFixture(t)
	wei, err := f.ctrl.QuoteWei(mintdom.VariantHighDefinition, 5)
	require.NoError(t, err)
	assert.Equal(t, "0.010", mintdom.FormatEther(wei))
}

func TestQuantityOutOfRangeIsAlerted(t *testing.T) {
	f := newFixture(t, requireLike(false))
	f.load(t)
	require.Equal(t, 3, f.ctrl.AdjustQuantity(+2))

	_, err := f.ctrl.Submit(context.Background(), mintdom.VariantStandard)
	assert.ErrorIs(t, err, mintdom.ErrQuantityOutOfRange)

	alerts := f.runtime.alertList()
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0], "SD allows at most 1")
	assert.Equal(t, alerts[0], f.ctrl.Snapshot().Alert)
	assert.Zero(t, f.log.count("claim"))
}

func TestSubscribersNeverEndOnStaleSnapshot(t *testing.T) {
	f := newFixture(t)
	f.wallet.chainID = testChain.ID
	f.sdk.gate = make(chan struct{})
	f.load(t)

	submitted := make(chan error, 1)
	go func() {
		_, err := f.ctrl.Submit(context.Background(), mintdom.VariantHighDefinition)
		submitted <- err
	}()
	require.Eventually(t, func() bool {
		return f.ctrl.Snapshot().Pending(mintdom.VariantHighDefinition)
	}, time.Second, 5*time.Millisecond)

	var (
		mu      sync.Mutex
		last    State
		held    bool
		paused  = make(chan struct{})
		release = make(chan struct{})
	)
	unsubscribe := f.ctrl.Subscribe(func(s State) {
		mu.Lock()
		hold := !held && s.Quantity == 2
		if hold {
			held = true
		}
		mu.Unlock()
		if hold {
			close(paused)
			<-release
		}
		mu.Lock()
		last = s
		mu.Unlock()
	})
	defer unsubscribe()

	adjusted := make(chan struct{})
	go func() {
		f.ctrl.AdjustQuantity(+1)
		close(adjusted)
	}()
	<-paused

	// let the submission settle while the quantity delivery is still held
	close(f.sdk.gate)
	time.Sleep(50 * time.Millisecond)
	close(release)

	<-adjusted
	require.NoError(t, <-submitted)

	mu.Lock()
	got := last.Attempt(mintdom.VariantHighDefinition)
	mu.Unlock()
	want := f.ctrl.Snapshot().Attempt(mintdom.VariantHighDefinition)
	assert.Equal(t, mintdom.PhaseSucceeded, want.Phase)
	assert.Equal(t, want.Phase, got.Phase)
	assert.False(t, got.Pending)
}

func TestWalletCheckPrecedesLikeGate(t *testing.T) {
	f := newFixture(t, withoutWalletProvider())
	f.load(t)
	require.Equal(t, eligibility.StatusNotEligible, f.ctrl.Snapshot().Eligibility)

	_, err := f.ctrl.Submit(context.Background(), mintdom.VariantStandard)
	assert.ErrorIs(t, err, mintdom.ErrNoAccount)
	assert.Empty(t, f.runtime.openedURLs())
	assert.False(t, f.ctrl.Snapshot().RecheckArmed)
}
