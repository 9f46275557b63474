package mint

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wecastmint/internal/application/eligibility"
	mintdom "wecastmint/internal/domain/mint"
	reactiondom "wecastmint/internal/domain/reaction"
)

// eventLog records calls across fakes so tests can assert ordering.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *eventLog) count(e string) int {
	n := 0
	for _, x := range l.list() {
		if x == e {
			n++
		}
	}
	return n
}

func (l *eventLog) index(e string) int {
	for i, x := range l.list() {
		if x == e {
			return i
		}
	}
	return -1
}

// ------------------------------------------------------------

type fakeRuntime struct {
	mu        sync.Mutex
	user      UserContext
	hasWallet bool
	alerts    []string
	opened    []string
}

func (r *fakeRuntime) UserContext(context.Context) (UserContext, error) { return r.user, nil }
func (r *fakeRuntime) Ready(context.Context) error                     { return nil }
func (r *fakeRuntime) HasWalletProvider() bool                         { return r.hasWallet }

func (r *fakeRuntime) OpenURL(_ context.Context, url string) error {
	r.mu.Lock()
	r.opened = append(r.opened, url)
	r.mu.Unlock()
	return nil
}

func (r *fakeRuntime) Alert(msg string) {
	r.mu.Lock()
	r.alerts = append(r.alerts, msg)
	r.mu.Unlock()
}

func (r *fakeRuntime) openedURLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.opened...)
}

func (r *fakeRuntime) alertList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// ------------------------------------------------------------

type fakeWallet struct {
	log *eventLog

	mu         sync.Mutex
	address    string
	chainID    uint64
	switchErr  error
	sendErr    error
	switchGate chan struct{}
	sent       []mintdom.TransactionRequest
}

func (w *fakeWallet) Address() string { return w.address }

func (w *fakeWallet) ChainID(context.Context) (uint64, error) {
	w.log.add("chainId")
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID, nil
}

func (w *fakeWallet) SwitchChain(ctx context.Context, id uint64) error {
	w.log.add("switch")
	if w.switchGate != nil {
		select {
		case <-w.switchGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if w.switchErr != nil {
		return w.switchErr
	}
	w.mu.Lock()
	w.chainID = id
	w.mu.Unlock()
	return nil
}

func (w *fakeWallet) SendTransaction(_ context.Context, req mintdom.TransactionRequest) (string, error) {
	w.log.add("send")
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sendErr != nil {
		return "", w.sendErr
	}
	w.sent = append(w.sent, req)
	return fmt.Sprintf("0xtx%d", len(w.sent)), nil
}

type fakeConnector struct {
	wallet *fakeWallet
	err    error
}

func (c *fakeConnector) Connect(context.Context) (mintdom.Wallet, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.wallet, nil
}

// ------------------------------------------------------------

type fakeSDK struct {
	log  *eventLog
	gate chan struct{}

	mu   sync.Mutex
	reqs []mintdom.ClaimRequest
}

func (s *fakeSDK) ClaimTo(ctx context.Context, req mintdom.ClaimRequest) (mintdom.TransactionRequest, error) {
	s.log.add("claim")
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return mintdom.TransactionRequest{}, ctx.Err()
		}
	}
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	return mintdom.TransactionRequest{To: req.Contract, ValueWei: req.PricePerTokenWei}, nil
}

func (s *fakeSDK) requests() []mintdom.ClaimRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mintdom.ClaimRequest(nil), s.reqs...)
}

// ------------------------------------------------------------

type fakeChecker struct {
	mu     sync.Mutex
	status eligibility.Status
	err    error
	refs   []reactiondom.CastRef
}

func (c *fakeChecker) Check(_ context.Context, ref reactiondom.CastRef) (eligibility.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = append(c.refs, ref)
	if c.err != nil {
		return eligibility.StatusUnknown, c.err
	}
	return c.status, nil
}

func (c *fakeChecker) set(s eligibility.Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *fakeChecker) lastRef() reactiondom.CastRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.refs) == 0 {
		return reactiondom.CastRef{}
	}
	return c.refs[len(c.refs)-1]
}

// ------------------------------------------------------------

type memAttempts struct {
	mu    sync.Mutex
	saved []mintdom.Attempt
	err   error
}

func (m *memAttempts) Save(_ context.Context, a mintdom.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *memAttempts) list() []mintdom.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mintdom.Attempt(nil), m.saved...)
}

var errBoom = errors.New("boom")
