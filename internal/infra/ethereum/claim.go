// internal/infra/ethereum/claim.go
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	mintdom "wecastmint/internal/domain/mint"
)

// DefaultDropContract is the WeCastPro DropERC1155 on Base.
const DefaultDropContract = "0xC03b765c06880CFB5a439240aC863826292767A5"

// NativeTokenAddress is the thirdweb sentinel for paying in the chain's native currency.
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

const dropERC1155ClaimABI = `[
  {
    "type": "function",
    "name": "claim",
    "stateMutability": "payable",
    "inputs": [
      {"name": "_receiver", "type": "address"},
      {"name": "_tokenId", "type": "uint256"},
      {"name": "_quantity", "type": "uint256"},
      {"name": "_currency", "type": "address"},
      {"name": "_pricePerToken", "type": "uint256"},
      {"name": "_allowlistProof", "type": "tuple", "components": [
        {"name": "proof", "type": "bytes32[]"},
        {"name": "quantityLimitPerWallet", "type": "uint256"},
        {"name": "pricePerToken", "type": "uint256"},
        {"name": "currency", "type": "address"}
      ]},
      {"name": "_data", "type": "bytes"}
    ],
    "outputs": []
  }
]`

// AllowlistProof mirrors the claim tuple. Field names must match the ABI
// component names in CamelCase.
type AllowlistProof struct {
	Proof                  [][32]byte
	QuantityLimitPerWallet *big.Int
	PricePerToken          *big.Int
	Currency               common.Address
}

// openAllowlistProof is what the contract expects when no allowlist applies:
// empty proof, no wallet limit override, price MaxUint256.
func openAllowlistProof() AllowlistProof {
	return AllowlistProof{
		Proof:                  [][32]byte{},
		QuantityLimitPerWallet: big.NewInt(0),
		PricePerToken:          new(big.Int).Set(abi.MaxUint256),
		Currency:               common.Address{},
	}
}

// DropClaimer builds DropERC1155 claim transactions. It satisfies mint.ContractSDK.
type DropClaimer struct {
	abi   abi.ABI
	chain mintdom.Chain
}

var _ mintdom.ContractSDK = (*DropClaimer)(nil)

func NewDropClaimer(chain mintdom.Chain) (*DropClaimer, error) {
	parsed, err := abi.JSON(strings.NewReader(dropERC1155ClaimABI))
	if err != nil {
		return nil, fmt.Errorf("ethereum: parse claim abi: %w", err)
	}
	return &DropClaimer{abi: parsed, chain: chain}, nil
}

// ──────────────────────────────────────────────
//  ContractSDK
// ──────────────────────────────────────────────

// ClaimTo packs claim(receiver, tokenId, quantity, native, price, proof, "")
// with value = price * quantity.
func (d *DropClaimer) ClaimTo(ctx context.Context, req mintdom.ClaimRequest) (mintdom.TransactionRequest, error) {
	if err := ctx.Err(); err != nil {
		return mintdom.TransactionRequest{}, err
	}
	if !common.IsHexAddress(req.Contract) {
		return mintdom.TransactionRequest{}, fmt.Errorf("ethereum: invalid contract address %q", req.Contract)
	}
	if !common.IsHexAddress(req.To) {
		return mintdom.TransactionRequest{}, fmt.Errorf("ethereum: invalid receiver address %q", req.To)
	}
	if req.Quantity <= 0 {
		return mintdom.TransactionRequest{}, errors.New("ethereum: quantity must be positive")
	}

	price := new(big.Int)
	if req.PricePerTokenWei != nil {
		price.Set(req.PricePerTokenWei)
	}
	qty := big.NewInt(int64(req.Quantity))

	data, err := d.abi.Pack("claim",
		common.HexToAddress(req.To),
		new(big.Int).SetUint64(req.TokenID),
		qty,
		NativeTokenAddress,
		price,
		openAllowlistProof(),
		[]byte{},
	)
	if err != nil {
		return mintdom.TransactionRequest{}, fmt.Errorf("ethereum: pack claim: %w", err)
	}

	return mintdom.TransactionRequest{
		ChainID:  d.chain.ID,
		To:       common.HexToAddress(req.Contract).Hex(),
		Data:     data,
		ValueWei: new(big.Int).Mul(price, qty),
	}, nil
}
