// internal/adapters/in/cli/mint.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"wecastmint/internal/application/eligibility"
	mintapp "wecastmint/internal/application/mint"
	mintdom "wecastmint/internal/domain/mint"
	"wecastmint/internal/infra/ethereum"
	"wecastmint/internal/platform/di"
)

var errNotEligible = errors.New("cast not liked; free mint unavailable")

// maxSubmitRounds bounds prompt -> recheck -> submit.
const maxSubmitRounds = 3

func newMintCommand(a *app) *cobra.Command {
	var (
		variant  string
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Connect the wallet and mint a variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := mintdom.ParseVariant(variant)
			if err != nil {
				return err
			}

			rt := a.runtime()
			bundle, err := di.NewMintController(cmd.Context(), a.mintSettings(), rt, a.logger())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := bundle.Close(); cerr != nil {
					fmt.Fprintf(a.err, "close: %v\n", cerr)
				}
			}()

			return runMint(cmd.Context(), a, rt, bundle, v, quantity)
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "hd", "sd or hd")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of tokens (HD: 1-5)")
	return cmd
}

func runMint(ctx context.Context, a *app, rt *TerminalRuntime, b *di.MintBundle, v mintdom.Variant, quantity int) error {
	ctrl := b.Controller
	unsubscribe := ctrl.Subscribe(phasePrinter(a, v))
	defer unsubscribe()

	if err := ctrl.Load(ctx); err != nil {
		return err
	}

	if !ctrl.Snapshot().Wallet.Connected() && rt.Confirm("Connect wallet?") {
		if _, err := ctrl.ConnectWallet(ctx); err != nil {
			if ethereum.IsUserRejected(err) {
				fmt.Fprintln(a.out, "wallet: connection declined")
			} else {
				fmt.Fprintf(a.out, "wallet: %v\n", err)
			}
		}
	}

	if err := ctrl.SelectVariant(v); err != nil {
		return err
	}
	got := ctrl.AdjustQuantity(quantity - ctrl.Snapshot().Quantity)
	if got != quantity {
		fmt.Fprintf(a.out, "quantity clamped to %d\n", got)
	}

	spec, err := ctrl.Spec(v)
	if err != nil {
		return err
	}

	for round := 0; round < maxSubmitRounds; round++ {
		fmt.Fprintf(a.out, "[%s]\n", mintapp.ButtonLabel(ctrl.Snapshot(), spec))

		res, err := ctrl.Submit(ctx, v)
		if err != nil {
			return err
		}

		switch res.Outcome {
		case mintapp.OutcomeLikePrompted:
			if !rt.Confirm("Like the cast, then check again?") {
				return errNotEligible
			}
		case mintapp.OutcomeRechecked:
			if res.Eligibility != eligibility.StatusEligible {
				fmt.Fprintf(a.out, "like status: %s\n", describeStatus(res.Eligibility))
				return errNotEligible
			}
		case mintapp.OutcomeSubmitted:
			fmt.Fprintf(a.out, "minted %d x %s\n", res.Attempt.Quantity, spec.Label)
			fmt.Fprintf(a.out, "tx: %s\n", b.Chain.TxURL(res.Attempt.TxHash))
			return nil
		}
	}
	return errNotEligible
}

// phasePrinter reports attempt phase changes of v.
func phasePrinter(a *app, v mintdom.Variant) func(mintapp.State) {
	var mu sync.Mutex
	last := mintdom.PhaseNotSubmitted
	return func(s mintapp.State) {
		mu.Lock()
		defer mu.Unlock()
		at := s.Attempt(v)
		if at.Phase == last {
			return
		}
		last = at.Phase
		switch at.Phase {
		case mintdom.PhaseSubmitting:
			fmt.Fprintf(a.out, "submitting %d...\n", at.Quantity)
		case mintdom.PhaseFailed:
			fmt.Fprintf(a.out, "failed: %s\n", at.Error)
		case mintdom.PhaseNotSubmitted:
			if at.Error != "" {
				fmt.Fprintf(a.out, "not submitted: %s\n", at.Error)
			}
		}
	}
}
