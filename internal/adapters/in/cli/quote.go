// internal/adapters/in/cli/quote.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	mintdom "wecastmint/internal/domain/mint"
)

func newQuoteCommand(a *app) *cobra.Command {
	var (
		variant  string
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the price of a mint",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			v, err := mintdom.ParseVariant(variant)
			if err != nil {
				return err
			}
			spec, err := mintdom.DefaultCatalog(a.v.GetBool(flagRequireLike)).Spec(v)
			if err != nil {
				return err
			}
			q := spec.ClampQuantity(quantity)
			if q != quantity {
				fmt.Fprintf(a.out, "quantity clamped to %d\n", q)
			}
			if spec.IsFree() {
				fmt.Fprintf(a.out, "%s x%d: free\n", spec.Label, q)
				return nil
			}
			fmt.Fprintf(a.out, "%s x%d: %s ETH (%s wei)\n", spec.Label, q, mintdom.FormatEther(spec.Quote(q)), spec.Quote(q).String())
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "hd", "sd or hd")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of tokens")
	return cmd
}
