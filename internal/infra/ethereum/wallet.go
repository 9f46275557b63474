// internal/infra/ethereum/wallet.go
package ethereum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	mintdom "wecastmint/internal/domain/mint"
)

// Connector hands out the first account of the provider as the wallet.
type Connector struct {
	provider *Provider
}

var (
	_ mintdom.WalletConnector = (*Connector)(nil)
	_ mintdom.Wallet          = (*Wallet)(nil)
)

func NewConnector(p *Provider) *Connector {
	return &Connector{provider: p}
}

func (c *Connector) Connect(ctx context.Context) (mintdom.Wallet, error) {
	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return &Wallet{provider: c.provider, address: accounts[0]}, nil
}

// Wallet is one connected account.
type Wallet struct {
	provider *Provider
	address  common.Address
}

func (w *Wallet) Address() string {
	return w.address.Hex()
}

func (w *Wallet) ChainID(ctx context.Context) (uint64, error) {
	return w.provider.ChainID(ctx)
}

func (w *Wallet) SwitchChain(ctx context.Context, chainID uint64) error {
	return w.provider.SwitchChain(ctx, chainID)
}

func (w *Wallet) SendTransaction(ctx context.Context, req mintdom.TransactionRequest) (string, error) {
	if !common.IsHexAddress(req.To) {
		return "", fmt.Errorf("ethereum: invalid transaction target %q", req.To)
	}
	hash, err := w.provider.SendTransaction(ctx, w.address, common.HexToAddress(req.To), req.ValueWei, req.Data, req.ChainID)
	if err != nil {
		return "", err
	}
	return hash.Hex(), nil
}
