package entities

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// MarketSide is the side of a market operation
type MarketSide uint8

const (
	MarketSell MarketSide = 0
	MarketBuy  MarketSide = 1
)

func (s MarketSide) String() string {
	if s == MarketBuy {
		return "buy"
	}
	return "sell"
}

// QuoteInfo is one estimate (best or worst case) of a swap's outcome
type QuoteInfo struct {
	// SellAmount excludes fees, TotalSellAmount includes them
	SellAmount      *big.Int
	TotalSellAmount *big.Int
	BuyAmount       *big.Int
	ProtocolFee     *big.Int
	Gas             uint64
	Slippage        decimal.Decimal
}

// SwapQuote is the read-only output of the route optimizer
type SwapQuote struct {
	SellToken Token
	BuyToken  Token
	Side      MarketSide
	// FillAmount is the requested sell amount for sells and buy amount for buys
	FillAmount *big.Int
	Path       *Path
	BestCase   QuoteInfo
	WorstCase  QuoteInfo
	GasPrice   *big.Int
	// Exchange rates in token base units per wei of native asset
	SellTokenPerNative decimal.Decimal
	BuyTokenPerNative  decimal.Decimal
}

// IsBuy reports whether the quote is a market buy
func (q *SwapQuote) IsBuy() bool {
	return q.Side == MarketBuy
}
