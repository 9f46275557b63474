// internal/adapters/in/cli/check_like.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wecastmint/internal/adapters/out/gateway"
	"wecastmint/internal/application/eligibility"
	reactiondom "wecastmint/internal/domain/reaction"
)

func newCheckLikeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-like",
		Short: "Check whether --fid has liked the drop's cast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.mintSettings()
			fid := a.user().FID
			if fid == "" {
				fid = s.FallbackFID
			}
			ref := reactiondom.CastRef{TargetHash: s.TargetHash, TargetFID: s.TargetFID, FID: fid}

			checker := eligibility.NewChecker(gateway.NewReactionLookupHTTP(s.GatewayURL, s.GatewayTimeout), a.logger())
			status, err := checker.Check(cmd.Context(), ref)
			fmt.Fprintf(a.out, "fid %s: %s\n", fid, describeStatus(status))
			if err != nil {
				return err
			}
			if status == eligibility.StatusNotEligible && strings.TrimSpace(s.LikeURL) != "" {
				fmt.Fprintf(a.out, "like the cast: %s\n", s.LikeURL)
			}
			return nil
		},
	}
}

func describeStatus(s eligibility.Status) string {
	switch s {
	case eligibility.StatusEligible:
		return "liked (eligible for the free mint)"
	case eligibility.StatusNotEligible:
		return "not liked yet"
	case eligibility.StatusChecking:
		return "checking"
	default:
		return "unknown"
	}
}
