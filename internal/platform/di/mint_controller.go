// internal/platform/di/mint_controller.go
package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	fsrepo "wecastmint/internal/adapters/out/firestore"
	"wecastmint/internal/adapters/out/gateway"
	"wecastmint/internal/application/eligibility"
	mintapp "wecastmint/internal/application/mint"
	mintdom "wecastmint/internal/domain/mint"
	reactiondom "wecastmint/internal/domain/reaction"
	"wecastmint/internal/infra/ethereum"
	firestoreinfra "wecastmint/internal/infra/firestore"
)

// Drop defaults for the WeCastPro cast.
const (
	DefaultTargetHash  = "0x3063a48af2bf4eb918e5466b2ab6756fa97bc179"
	DefaultTargetFID   = "4163"
	DefaultFallbackFID = "5701"
	DefaultLikeURL     = "https://farcaster.xyz/kmacb.eth/0x3063a48a"
)

// MintSettings configure a controller for a terminal or test host.
type MintSettings struct {
	GatewayURL     string
	GatewayTimeout time.Duration
	WalletRPC      string

	Testnet     bool
	Contract    string
	RequireLike bool

	TargetHash  string
	TargetFID   string
	FallbackFID string
	LikeURL     string

	// Attempt log; empty project disables it.
	FirestoreProject string
	CredentialsFile  string
}

// MintBundle is a wired controller plus the resources it owns.
type MintBundle struct {
	Controller *mintapp.Controller
	Chain      mintdom.Chain

	provider  *ethereum.Provider
	firestore *firestoreinfra.ClientWrapper
}

func (b *MintBundle) Close() error {
	if b == nil {
		return nil
	}
	var result *multierror.Error
	if b.Controller != nil {
		b.Controller.Close()
	}
	if b.provider != nil {
		b.provider.Close()
	}
	if err := b.firestore.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("firestore close: %w", err))
	}
	return result.ErrorOrNil()
}

// NewMintController dials the wallet endpoint and wires the controller to
// the gateway, the drop contract and (optionally) the Firestore attempt log.
func NewMintController(ctx context.Context, s MintSettings, rt mintapp.FrameRuntime, log zerolog.Logger) (*MintBundle, error) {
	b := &MintBundle{Chain: ethereum.ChainFor(s.Testnet)}

	provider, err := ethereum.Dial(ctx, s.WalletRPC)
	if err != nil {
		return nil, err
	}
	b.provider = provider

	claimer, err := ethereum.NewDropClaimer(b.Chain)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	var attempts mintdom.AttemptRepository
	if p := strings.TrimSpace(s.FirestoreProject); p != "" {
		fw, err := firestoreinfra.NewClient(ctx, p, s.CredentialsFile, log)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.firestore = fw
		attempts = fsrepo.NewMintAttemptRepositoryFS(fw.Client)
	}

	checker := eligibility.NewChecker(gateway.NewReactionLookupHTTP(s.GatewayURL, s.GatewayTimeout), log)

	contract := strings.TrimSpace(s.Contract)
	if contract == "" {
		contract = ethereum.DefaultDropContract
	}

	ctrl, err := mintapp.NewController(mintapp.Config{
		Contract: contract,
		Chain:    b.Chain,
		Cast: reactiondom.CastRef{
			TargetHash: orDefault(s.TargetHash, DefaultTargetHash),
			TargetFID:  orDefault(s.TargetFID, DefaultTargetFID),
			FID:        orDefault(s.FallbackFID, DefaultFallbackFID),
		},
		LikeURL: orDefault(s.LikeURL, DefaultLikeURL),
		Catalog: mintdom.DefaultCatalog(s.RequireLike),
	}, mintapp.Deps{
		Runtime:   rt,
		Connector: ethereum.NewConnector(provider),
		SDK:       claimer,
		Checker:   checker,
		Attempts:  attempts,
		Log:       log,
	})
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Controller = ctrl
	return b, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
