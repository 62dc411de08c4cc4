package usecases

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"swap-calldata.backend/internal/domain/entities"
)

func TestDeriveSwapContext(t *testing.T) {
	quote := &entities.SwapQuote{
		SellToken: tokenA,
		BuyToken:  tokenC,
		BestCase: entities.QuoteInfo{
			TotalSellAmount: big.NewInt(1000),
			BuyAmount:       big.NewInt(2000),
			ProtocolFee:     big.NewInt(1),
		},
		WorstCase: entities.QuoteInfo{
			TotalSellAmount: big.NewInt(1100),
			BuyAmount:       big.NewInt(1900),
			ProtocolFee:     big.NewInt(7),
			Slippage:        decimal.RequireFromString("0.005"),
		},
	}

	t.Run("erc20 sell", func(t *testing.T) {
		sc := DeriveSwapContext(quote, entities.ExecutionOptions{})
		require.Equal(t, "1100", sc.SellAmount.String())
		require.Equal(t, "7", sc.EthAmount.String())
		require.Equal(t, "1900", sc.MinBuyAmount.String())
		require.True(t, sc.MaxSlippage.Equal(decimal.RequireFromString("0.005")))
		require.Equal(t, tokenA, sc.SellToken)
		require.Equal(t, tokenC, sc.BuyToken)
	})

	t.Run("native sell attaches the sell amount", func(t *testing.T) {
		sc := DeriveSwapContext(quote, entities.ExecutionOptions{IsFromNative: true})
		require.Equal(t, "1107", sc.EthAmount.String())
		require.True(t, sc.IsFromNative)
	})

	t.Run("best case sells more", func(t *testing.T) {
		q := *quote
		q.BestCase.TotalSellAmount = big.NewInt(1200)
		sc := DeriveSwapContext(&q, entities.ExecutionOptions{})
		require.Equal(t, "1200", sc.SellAmount.String())
	})

	t.Run("missing amounts are zero", func(t *testing.T) {
		sc := DeriveSwapContext(&entities.SwapQuote{}, entities.ExecutionOptions{})
		require.Equal(t, 0, sc.SellAmount.Sign())
		require.Equal(t, 0, sc.EthAmount.Sign())
		require.Equal(t, 0, sc.MinBuyAmount.Sign())
	})

	t.Run("does not alias quote amounts", func(t *testing.T) {
		sc := DeriveSwapContext(quote, entities.ExecutionOptions{IsFromNative: true})
		sc.SellAmount.SetInt64(1)
		sc.MinBuyAmount.SetInt64(1)
		require.Equal(t, "1100", quote.WorstCase.TotalSellAmount.String())
		require.Equal(t, "1900", quote.WorstCase.BuyAmount.String())
		require.Equal(t, "7", quote.WorstCase.ProtocolFee.String())
	})
}
