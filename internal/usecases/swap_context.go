package usecases

import (
	"math/big"

	"github.com/shopspring/decimal"
	"swap-calldata.backend/internal/domain/entities"
)

// SwapContext holds the amounts every feature rule derives from a quote
type SwapContext struct {
	SellToken    entities.Token
	BuyToken     entities.Token
	IsFromNative bool
	IsToNative   bool
	// SellAmount is the larger of the best and worst case total sell amounts
	SellAmount   *big.Int
	EthAmount    *big.Int
	MinBuyAmount *big.Int
	MaxSlippage  decimal.Decimal
}

// DeriveSwapContext normalizes a quote and its execution options
func DeriveSwapContext(quote *entities.SwapQuote, opts entities.ExecutionOptions) SwapContext {
	sellAmount := maxInt(quote.BestCase.TotalSellAmount, quote.WorstCase.TotalSellAmount)

	ethAmount := intOrZero(quote.WorstCase.ProtocolFee)
	if opts.IsFromNative {
		ethAmount.Add(ethAmount, sellAmount)
	}

	return SwapContext{
		SellToken:    quote.SellToken,
		BuyToken:     quote.BuyToken,
		IsFromNative: opts.IsFromNative,
		IsToNative:   opts.IsToNative,
		SellAmount:   sellAmount,
		EthAmount:    ethAmount,
		MinBuyAmount: intOrZero(quote.WorstCase.BuyAmount),
		MaxSlippage:  quote.WorstCase.Slippage,
	}
}

// intOrZero returns a copy of v, or zero for nil
func intOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func maxInt(a, b *big.Int) *big.Int {
	a, b = intOrZero(a), intOrZero(b)
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
