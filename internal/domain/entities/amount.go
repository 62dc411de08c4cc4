package entities

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Amount is either an exact token amount or the "entire balance" marker, which
// the proxy resolves to the taker's balance at execution time.
type Amount struct {
	value         *big.Int
	entireBalance bool
}

// ExactAmount returns an Amount holding v
func ExactAmount(v *big.Int) Amount {
	if v == nil {
		v = new(big.Int)
	}
	return Amount{value: new(big.Int).Set(v)}
}

// EntireBalance returns the entire-balance marker
func EntireBalance() Amount {
	return Amount{entireBalance: true}
}

// IsEntireBalance reports whether a is the entire-balance marker
func (a Amount) IsEntireBalance() bool {
	return a.entireBalance
}

// Exact returns the exact value and false when a is the entire-balance marker.
func (a Amount) Exact() (*big.Int, bool) {
	if a.entireBalance {
		return nil, false
	}
	if a.value == nil {
		return new(big.Int), true
	}
	return new(big.Int).Set(a.value), true
}

// Uint256 returns the on-chain representation of a. EntireBalance encodes as
// 2^256-1.
func (a Amount) Uint256() *big.Int {
	if v, ok := a.Exact(); ok {
		return v
	}
	return MaxUint256()
}

func (a Amount) String() string {
	if a.entireBalance {
		return "entire_balance"
	}
	v, _ := a.Exact()
	return v.String()
}

// MaxUint256 returns 2^256-1
func MaxUint256() *big.Int {
	return new(uint256.Int).SetAllOne().ToBig()
}
