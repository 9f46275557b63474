// internal/domain/mint/variant.go
package mint

import (
	"fmt"
	"math/big"
	"strings"
)

// Variant is one of the two mintable token configurations.
type Variant string

const (
	VariantStandard       Variant = "standard"
	VariantHighDefinition Variant = "hd"
)

// Global quantity bounds. Each variant may narrow the upper bound.
const (
	MinQuantity = 1
	MaxQuantity = 5
)

// Variants returns the variants in display order.
func Variants() []Variant {
	return []Variant{VariantStandard, VariantHighDefinition}
}

// ParseVariant accepts the canonical names plus the short labels used on the page.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "sd", "free":
		return VariantStandard, nil
	case "hd", "high-definition", "highdefinition", "paid":
		return VariantHighDefinition, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
}

// VariantSpec binds a variant to its on-chain token and its business rules.
type VariantSpec struct {
	Variant Variant
	Label   string

	TokenID     uint64
	PriceWei    *big.Int // per unit, native currency
	MaxQuantity int

	// RequiresLike gates the mint behind the cast-like eligibility check.
	RequiresLike bool

	AvatarResolution int
	ArtworkURL       string
}

// ClampQuantity clamps q into [MinQuantity, s.MaxQuantity].
func (s VariantSpec) ClampQuantity(q int) int {
	return ClampQuantity(q, s.MaxQuantity)
}

// AllowsQuantity reports whether q is a valid quantity for this variant.
func (s VariantSpec) AllowsQuantity(q int) bool {
	return q >= MinQuantity && q <= s.upperBound()
}

// Quote returns PriceWei * quantity. A nil price is treated as free.
func (s VariantSpec) Quote(quantity int) *big.Int {
	if s.PriceWei == nil || quantity <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Mul(s.PriceWei, big.NewInt(int64(quantity)))
}

// IsFree reports whether a unit costs nothing.
func (s VariantSpec) IsFree() bool {
	return s.PriceWei == nil || s.PriceWei.Sign() == 0
}

func (s VariantSpec) upperBound() int {
	if s.MaxQuantity < MinQuantity || s.MaxQuantity > MaxQuantity {
		return MaxQuantity
	}
	return s.MaxQuantity
}

// ClampQuantity clamps q into [MinQuantity, max], where max itself is clamped
// to the global bounds.
func ClampQuantity(q, max int) int {
	if max < MinQuantity || max > MaxQuantity {
		max = MaxQuantity
	}
	if q < MinQuantity {
		return MinQuantity
	}
	if q > max {
		return max
	}
	return q
}

// Catalog is the fixed variant table for one drop.
type Catalog struct {
	specs map[Variant]VariantSpec
}

// NewCatalog builds a catalog. Every known variant must be present exactly once.
func NewCatalog(specs ...VariantSpec) (Catalog, error) {
	m := make(map[Variant]VariantSpec, len(specs))
	for _, s := range specs {
		if _, dup := m[s.Variant]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate %q", ErrInvalidVariant, s.Variant)
		}
		m[s.Variant] = s
	}
	for _, v := range Variants() {
		if _, ok := m[v]; !ok {
			return Catalog{}, fmt.Errorf("%w: missing %q", ErrInvalidVariant, v)
		}
	}
	return Catalog{specs: m}, nil
}

// Spec returns the spec for v.
func (c Catalog) Spec(v Variant) (VariantSpec, error) {
	s, ok := c.specs[v]
	if !ok {
		return VariantSpec{}, fmt.Errorf("%w: %q", ErrInvalidVariant, v)
	}
	return s, nil
}

// DefaultCatalog is the WeCastPro drop: a free single-unit SD mint gated by a
// like, and a paid HD mint of up to five units.
func DefaultCatalog(requireLike bool) Catalog {
	c, _ := NewCatalog(
		VariantSpec{
			Variant:          VariantStandard,
			Label:            "SD",
			TokenID:          0,
			PriceWei:         new(big.Int),
			MaxQuantity:      1,
			RequiresLike:     requireLike,
			AvatarResolution: 24,
			ArtworkURL:       "https://ipfs.io/ipfs/QmdwMawNRtWMkQoYXrMEjsFnW7DQRm84gV7X84hbK1gkbK/1.jpg",
		},
		VariantSpec{
			Variant:          VariantHighDefinition,
			Label:            "HD",
			TokenID:          1,
			PriceWei:         big.NewInt(2_000_000_000_000_000), // 0.002 ETH
			MaxQuantity:      MaxQuantity,
			AvatarResolution: 96,
			ArtworkURL:       "https://ipfs.io/ipfs/QmV67MbiP3c3ADTKK9FyCEr7Gcwdh3JrR68t1fKJsMYvGT/0.jpeg",
		},
	)
	return c
}

// FormatEther renders wei as an ETH amount with three decimals, e.g. "0.006".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	return f.Text('f', 3)
}
