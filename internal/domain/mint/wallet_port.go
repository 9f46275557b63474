// internal/domain/mint/wallet_port.go
package mint

import (
	"context"
	"math/big"
	"strings"
)

// ------------------------------------------------------
// Wallet connection state
// ------------------------------------------------------

type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// Connection is the controller-owned view of the wallet.
// Address and ChainID are only meaningful when Status is StatusConnected.
type Connection struct {
	Status  ConnectionStatus
	Address string
	ChainID uint64
}

func (c Connection) Connected() bool {
	return c.Status == StatusConnected && c.Address != ""
}

// Chain is the target network for claims.
type Chain struct {
	ID          uint64
	Name        string
	ExplorerURL string // e.g. https://basescan.org
}

// TxURL returns the explorer page for a transaction hash.
func (c Chain) TxURL(hash string) string {
	return strings.TrimRight(c.ExplorerURL, "/") + "/tx/" + hash
}

// ------------------------------------------------------
// Outbound ports (wallet / contract SDK)
// ------------------------------------------------------
//
// The wallet and contract SDK are external collaborators. Implementations live
// in infra/ethereum; the controller only talks to these interfaces.

// ClaimRequest asks the drop contract to mint Quantity units of TokenID to To.
type ClaimRequest struct {
	Contract         string
	To               string
	TokenID          uint64
	Quantity         int
	PricePerTokenWei *big.Int
}

// TransactionRequest is a prepared, unsigned contract call.
type TransactionRequest struct {
	ChainID  uint64
	To       string
	Data     []byte
	ValueWei *big.Int
}

// WalletConnector requests a wallet handle from the host's provider.
type WalletConnector interface {
	Connect(ctx context.Context) (Wallet, error)
}

// Wallet is a connected account.
type Wallet interface {
	Address() string
	ChainID(ctx context.Context) (uint64, error)
	SwitchChain(ctx context.Context, chainID uint64) error
	// SendTransaction submits req and returns the transaction hash.
	SendTransaction(ctx context.Context, req TransactionRequest) (string, error)
}

// ContractSDK builds claim transactions for the drop contract.
type ContractSDK interface {
	ClaimTo(ctx context.Context, req ClaimRequest) (TransactionRequest, error)
}
