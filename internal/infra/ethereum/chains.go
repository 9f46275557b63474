// internal/infra/ethereum/chains.go
package ethereum

import mintdom "wecastmint/internal/domain/mint"

var (
	BaseMainnet = mintdom.Chain{ID: 8453, Name: "Base", ExplorerURL: "https://basescan.org"}
	BaseSepolia = mintdom.Chain{ID: 84532, Name: "Base Sepolia", ExplorerURL: "https://sepolia.basescan.org"}
)

// ChainFor picks Base Sepolia for testnet, Base otherwise.
func ChainFor(testnet bool) mintdom.Chain {
	if testnet {
		return BaseSepolia
	}
	return BaseMainnet
}
