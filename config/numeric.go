package config

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/exp/constraints"
)

// Numeric is the capability set a state module needs from a caller-chosen
// numeric type. Modules only ever touch values of T through a Numeric[T], so
// any type with a policy satisfying this interface can back a balance, a
// nonce or a block number.
type Numeric[T any] interface {
	Zero() T
	One() T
	// CheckedAdd returns a+b and false if the sum does not fit in T.
	CheckedAdd(a, b T) (T, bool)
	// CheckedSub returns a-b and false if b > a.
	CheckedSub(a, b T) (T, bool)
	// WrappingAdd returns a+b modulo the range of T.
	WrappingAdd(a, b T) T
	Cmp(a, b T) int

	Format(v T) string
	Parse(s string) (T, error)
}

// Config groups the numeric policies a runtime is instantiated with.
// The account identifier is a type parameter of the modules themselves.
type Config[Balance, Nonce, BlockNumber any] struct {
	Balance     Numeric[Balance]
	Nonce       Numeric[Nonce]
	BlockNumber Numeric[BlockNumber]
}

// Unsigned is the policy for fixed-width unsigned integers.
type Unsigned[T constraints.Unsigned] struct{}

type (
	Uint8  = Unsigned[uint8]
	Uint32 = Unsigned[uint32]
	Uint64 = Unsigned[uint64]
)

func (Unsigned[T]) Zero() T { return 0 }

func (Unsigned[T]) One() T { return 1 }

func (Unsigned[T]) CheckedAdd(a, b T) (T, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

func (Unsigned[T]) CheckedSub(a, b T) (T, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

func (Unsigned[T]) WrappingAdd(a, b T) T { return a + b }

func (Unsigned[T]) Cmp(a, b T) int { return cmp.Compare(a, b) }

func (Unsigned[T]) Format(v T) string { return strconv.FormatUint(uint64(v), 10) }

func (Unsigned[T]) Parse(s string) (T, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse %q: %w", s, err)
	}
	if v > uint64(^T(0)) {
		return 0, fmt.Errorf("value %s out of range (max %d)", s, uint64(^T(0)))
	}
	return T(v), nil
}

// U256 is the policy for 256-bit unsigned balances. Values are held by
// value, so copies never alias.
type U256 struct{}

func (U256) Zero() uint256.Int { return uint256.Int{} }

func (U256) One() uint256.Int { return *uint256.NewInt(1) }

func (U256) CheckedAdd(a, b uint256.Int) (uint256.Int, bool) {
	var z uint256.Int
	if _, overflow := z.AddOverflow(&a, &b); overflow {
		return uint256.Int{}, false
	}
	return z, true
}

func (U256) CheckedSub(a, b uint256.Int) (uint256.Int, bool) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&a, &b); underflow {
		return uint256.Int{}, false
	}
	return z, true
}

func (U256) WrappingAdd(a, b uint256.Int) uint256.Int {
	var z uint256.Int
	z.Add(&a, &b)
	return z
}

func (U256) Cmp(a, b uint256.Int) int { return a.Cmp(&b) }

func (U256) Format(v uint256.Int) string { return v.Dec() }

func (U256) Parse(s string) (uint256.Int, error) {
	v, err := uint256.FromDecimal(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return uint256.Int{}, fmt.Errorf("could not parse amount %q: %w", s, err)
	}
	return *v, nil
}

// Default is the configuration used by the node: 256-bit balances and
// 64-bit nonces and block numbers.
func Default() Config[uint256.Int, uint64, uint64] {
	return Config[uint256.Int, uint64, uint64]{
		Balance:     U256{},
		Nonce:       Uint64{},
		BlockNumber: Uint64{},
	}
}
