// internal/adapters/in/cli/root.go
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mintapp "wecastmint/internal/application/mint"
	"wecastmint/internal/infra/ethereum"
	"wecastmint/internal/infra/logging"
	"wecastmint/internal/platform/di"
)

// EnvPrefix namespaces every flag as an environment variable, e.g.
// --gateway-url is MINT_GATEWAY_URL.
const EnvPrefix = "MINT"

const (
	flagGatewayURL       = "gateway-url"
	flagGatewayTimeout   = "gateway-timeout"
	flagWalletRPC        = "wallet-rpc"
	flagTestnet          = "testnet"
	flagContract         = "contract"
	flagRequireLike      = "require-like"
	flagTargetHash       = "target-hash"
	flagTargetFID        = "target-fid"
	flagFID              = "fid"
	flagUsername         = "username"
	flagDisplayName      = "display-name"
	flagLikeURL          = "like-url"
	flagNoWallet         = "no-wallet"
	flagFirestoreProject = "firestore-project"
	flagCredentialsFile  = "credentials-file"
	flagLogLevel         = "log-level"
	flagLogFormat        = "log-format"
)

// app carries the resolved configuration shared by subcommands.
type app struct {
	v   *viper.Viper
	in  io.Reader
	out io.Writer
	err io.Writer
}

// NewRootCommand builds the mintctl command tree.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out, err: errOut}

	root := &cobra.Command{
		Use:           "mintctl",
		Short:         "Mint WeCastPro tokens from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.bind(cmd.Flags())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String(flagGatewayURL, "http://localhost:8080", "base URL of the mint server (like-check proxy)")
	pf.Duration(flagGatewayTimeout, 10*time.Second, "timeout for like-check requests")
	pf.String(flagWalletRPC, "http://localhost:8545", "EIP-1193 wallet JSON-RPC endpoint")
	pf.Bool(flagTestnet, true, "use Base Sepolia instead of Base")
	pf.String(flagContract, ethereum.DefaultDropContract, "DropERC1155 contract address")
	pf.Bool(flagRequireLike, true, "gate the free mint on liking the cast")
	pf.String(flagTargetHash, di.DefaultTargetHash, "hash of the cast that must be liked")
	pf.String(flagTargetFID, di.DefaultTargetFID, "author fid of the cast")
	pf.String(flagFID, "", "your Farcaster fid")
	pf.String(flagUsername, "", "your Farcaster username")
	pf.String(flagDisplayName, "", "your display name")
	pf.String(flagLikeURL, di.DefaultLikeURL, "URL opened to like the cast")
	pf.Bool(flagNoWallet, false, "do not auto-connect the wallet on load")
	pf.String(flagFirestoreProject, "", "record mint attempts in this Firestore project")
	pf.String(flagCredentialsFile, "", "GCP credentials file (default: ADC)")
	pf.String(flagLogLevel, "warn", "log level")
	pf.String(flagLogFormat, "console", "log format (console|json)")

	root.AddCommand(
		newCheckLikeCommand(a),
		newMintCommand(a),
		newQuoteCommand(a),
	)
	return root
}

// bind exposes every flag to viper with MINT_ env fallbacks.
func (a *app) bind(fs *pflag.FlagSet) error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(fs); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

func (a *app) mintSettings() di.MintSettings {
	return di.MintSettings{
		GatewayURL:       a.v.GetString(flagGatewayURL),
		GatewayTimeout:   a.v.GetDuration(flagGatewayTimeout),
		WalletRPC:        a.v.GetString(flagWalletRPC),
		Testnet:          a.v.GetBool(flagTestnet),
		Contract:         a.v.GetString(flagContract),
		RequireLike:      a.v.GetBool(flagRequireLike),
		TargetHash:       a.v.GetString(flagTargetHash),
		TargetFID:        a.v.GetString(flagTargetFID),
		FallbackFID:      di.DefaultFallbackFID,
		LikeURL:          a.v.GetString(flagLikeURL),
		FirestoreProject: a.v.GetString(flagFirestoreProject),
		CredentialsFile:  a.v.GetString(flagCredentialsFile),
	}
}

func (a *app) user() mintapp.UserContext {
	return mintapp.UserContext{
		FID:         strings.TrimSpace(a.v.GetString(flagFID)),
		Username:    strings.TrimSpace(a.v.GetString(flagUsername)),
		DisplayName: strings.TrimSpace(a.v.GetString(flagDisplayName)),
	}
}

func (a *app) runtime() *TerminalRuntime {
	return NewTerminalRuntime(a.in, a.out, a.user(), !a.v.GetBool(flagNoWallet))
}

func (a *app) logger() zerolog.Logger {
	return logging.New(a.v.GetString(flagLogLevel), a.v.GetString(flagLogFormat), a.err)
}
