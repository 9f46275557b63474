// internal/infra/ethereum/provider.go
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
)

var (
	ErrUserRejected      = errors.New("ethereum: user rejected the request")
	ErrUnrecognizedChain = errors.New("ethereum: chain not added to the wallet")
	ErrNoAccounts        = errors.New("ethereum: provider returned no accounts")
)

// Provider speaks EIP-1193 methods to a wallet over JSON-RPC (http or ws).
type Provider struct {
	client *rpc.Client
}

// Dial connects to the wallet endpoint.
func Dial(ctx context.Context, endpoint string) (*Provider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("ethereum: wallet endpoint is empty")
	}
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("ethereum: dial %s: %w", endpoint, err)
	}
	return &Provider{client: c}, nil
}

func (p *Provider) Close() {
	if p != nil && p.client != nil {
		p.client.Close()
	}
}

// ──────────────────────────────────────────────
//  EIP-1193 methods
// ──────────────────────────────────────────────

func (p *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

func (p *Provider) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := p.call(ctx, &id, "eth_chainId"); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

type switchChainParam struct {
	ChainID string `json:"chainId"`
}

func (p *Provider) SwitchChain(ctx context.Context, chainID uint64) error {
	var ignored any
	return p.call(ctx, &ignored, "wallet_switchEthereumChain", switchChainParam{ChainID: hexutil.EncodeUint64(chainID)})
}

type sendTxArgs struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Value   *hexutil.Big   `json:"value"`
	Data    hexutil.Bytes  `json:"data"`
	ChainID *hexutil.Big   `json:"chainId,omitempty"`
}

func (p *Provider) SendTransaction(ctx context.Context, from, to common.Address, value *big.Int, data []byte, chainID uint64) (common.Hash, error) {
	if value == nil {
		value = new(big.Int)
	}
	args := sendTxArgs{
		From:  from,
		To:    to,
		Value: (*hexutil.Big)(value),
		Data:  data,
	}
	if chainID != 0 {
		args.ChainID = (*hexutil.Big)(new(big.Int).SetUint64(chainID))
	}

	var hash common.Hash
	if err := p.call(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (p *Provider) call(ctx context.Context, result any, method string, args ...any) error {
	if p == nil || p.client == nil {
		return errors.New("ethereum: provider not connected")
	}
	if err := p.client.CallContext(ctx, result, method, args...); err != nil {
		return classify(method, err)
	}
	return nil
}

// classify maps provider error codes 4001 and 4902 onto sentinels.
func classify(method string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case CodeUserRejected:
			return fmt.Errorf("%w (%s): %v", ErrUserRejected, method, err)
		case CodeUnrecognizedChain:
			return fmt.Errorf("%w (%s): %v", ErrUnrecognizedChain, method, err)
		}
	}
	return fmt.Errorf("ethereum: %s: %w", method, err)
}

// IsUserRejected reports whether err came from the user declining a prompt.
func IsUserRejected(err error) bool {
	return errors.Is(err, ErrUserRejected)
}
