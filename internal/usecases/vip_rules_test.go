package usecases

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

func TestUniswapV2VIPRule_SingleOrderSell(t *testing.T) {
	rule := NewUniswapV2VIPRule(testExchangeProxy, true)
	quote := singleUniswapQuote()
	opts := entities.ExecutionOptions{}

	require.True(t, rule.IsCompatible(quote, opts))

	info, err := rule.CreateCalldata(quote, opts)
	require.NoError(t, err)
	require.Equal(t, testExchangeProxy, info.ToAddress)
	require.Equal(t, testExchangeProxy, info.AllowanceTarget)
	require.Equal(t, 0, info.EthAmount.Sign())
	require.Zero(t, info.GasOverhead)

	call := decodeVIPCall(t, "sellToUniswap", info.CallData)
	require.Equal(t, []common.Address{tokenA, tokenC}, call.Tokens)
	require.Equal(t, "1000", call.SellAmount.String())
	require.Equal(t, "1900", call.MinBuyAmount.String())
	require.Equal(t, false, call.Flag)
}

func TestUniswapV2VIPRule_NativeAndSushi(t *testing.T) {
	rule := NewUniswapV2VIPRule(testExchangeProxy, true)
	quote := sellQuote([]entities.FillOrder{uniswapOrder(entities.SourceSushiSwap, testWETH, tokenC, 1000, 2000)}, nil)
	quote.SellToken = testWETH

	info, err := rule.CreateCalldata(quote, entities.ExecutionOptions{IsFromNative: true})
	require.NoError(t, err)
	require.Equal(t, "1000", info.EthAmount.String())

	call := decodeVIPCall(t, "sellToUniswap", info.CallData)
	require.Equal(t, []common.Address{entities.NativeTokenAddress, tokenC}, call.Tokens)
	require.Equal(t, true, call.Flag)

	toNative := sellQuote([]entities.FillOrder{uniswapOrder(entities.SourceUniswapV2, tokenA, testWETH, 1000, 2000)}, nil)
	info, err = rule.CreateCalldata(toNative, entities.ExecutionOptions{IsToNative: true})
	require.NoError(t, err)
	require.Equal(t, 0, info.EthAmount.Sign())
	call = decodeVIPCall(t, "sellToUniswap", info.CallData)
	require.Equal(t, []common.Address{tokenA, entities.NativeTokenAddress}, call.Tokens)
}

func TestUniswapV2VIPRule_KeepsMultiTokenPath(t *testing.T) {
	order := uniswapOrder(entities.SourceUniswapV2, tokenA, tokenC, 1000, 2000)
	order.FillData = &entities.UniswapV2FillData{Router: testRouter, TokenAddressPath: []common.Address{tokenA, tokenB, tokenC}}
	quote := sellQuote([]entities.FillOrder{order}, nil)

	info, err := NewUniswapV2VIPRule(testExchangeProxy, true).CreateCalldata(quote, entities.ExecutionOptions{})
	require.NoError(t, err)
	call := decodeVIPCall(t, "sellToUniswap", info.CallData)
	require.Equal(t, []common.Address{tokenA, tokenB, tokenC}, call.Tokens)

	// the fill data of the quote is left untouched
	_, err = NewUniswapV2VIPRule(testExchangeProxy, true).CreateCalldata(quote, entities.ExecutionOptions{IsFromNative: true})
	require.NoError(t, err)
	require.Equal(t, tokenA, order.FillData.(*entities.UniswapV2FillData).TokenAddressPath[0])
}

func TestUniswapV2VIPRule_NotDeployed(t *testing.T) {
	rule := NewUniswapV2VIPRule(testExchangeProxy, false)
	require.False(t, rule.IsCompatible(singleUniswapQuote(), entities.ExecutionOptions{}))
	require.False(t, rule.Deployed())
}

func TestVIPRules_CreateCalldataWithoutCompatibleQuote(t *testing.T) {
	rules := []FeatureRule{
		NewUniswapV2VIPRule(testExchangeProxy, true),
		NewPancakeSwapVIPRule(testExchangeProxy, true),
	}
	quotes := map[string]*entities.SwapQuote{
		"two orders": sellQuote([]entities.FillOrder{
			uniswapOrder(entities.SourceUniswapV2, tokenA, tokenC, 1, 1),
			uniswapOrder(entities.SourceUniswapV2, tokenA, tokenC, 1, 1),
		}, nil),
		"native order": sellQuote([]entities.FillOrder{rfqOrder(tokenA, tokenC, 1, 1)}, nil),
		"no token path": sellQuote([]entities.FillOrder{&entities.BridgeOrder{
			FillSource: entities.SourceSushiSwap, TakerTokenAmount: big.NewInt(1), MakerTokenAmount: big.NewInt(1),
			FillData: &entities.BalancerFillData{},
		}}, nil),
		"no path": {SellToken: tokenA, BuyToken: tokenC},
	}
	for _, rule := range rules {
		for name, quote := range quotes {
			_, err := rule.CreateCalldata(quote, entities.ExecutionOptions{})
			require.Error(t, err, "%s: %s", rule.Name(), name)
			require.True(t, errors.Is(err, domainerrors.ErrRuleNotCompatible), "%s: %s", rule.Name(), name)
			require.True(t, errors.Is(err, domainerrors.ErrConfiguration), "%s: %s", rule.Name(), name)
		}
	}
}

func TestPancakeSwapVIPRule_Forks(t *testing.T) {
	rule := NewPancakeSwapVIPRule(testExchangeProxy, true)
	cases := map[entities.Source]uint8{
		entities.SourcePancakeSwap:   0,
		entities.SourcePancakeSwapV2: 1,
		entities.SourceBakerySwap:    2,
		entities.SourceSushiSwap:     3,
		entities.SourceApeSwap:       4,
	}
	for source, fork := range cases {
		quote := sellQuote([]entities.FillOrder{uniswapOrder(source, tokenA, tokenC, 1000, 2000)}, nil)
		require.True(t, rule.IsCompatible(quote, entities.ExecutionOptions{}), source)

		info, err := rule.CreateCalldata(quote, entities.ExecutionOptions{})
		require.NoError(t, err)
		call := decodeVIPCall(t, "sellToPancakeSwap", info.CallData)
		require.Equal(t, fork, call.Flag, source)
		require.Equal(t, []common.Address{tokenA, tokenC}, call.Tokens)
	}

	uniswap := singleUniswapQuote()
	require.False(t, rule.IsCompatible(uniswap, entities.ExecutionOptions{}))
	_, err := rule.CreateCalldata(uniswap, entities.ExecutionOptions{})
	require.ErrorIs(t, err, domainerrors.ErrRuleNotCompatible)
}

func TestVIPRules_ExclusiveWithTransformPipeline(t *testing.T) {
	rules := []FeatureRule{
		NewUniswapV2VIPRule(testExchangeProxy, true),
		NewPancakeSwapVIPRule(testExchangeProxy, true),
	}
	sushi := sellQuote([]entities.FillOrder{uniswapOrder(entities.SourceSushiSwap, tokenA, tokenC, 1000, 2000)}, nil)

	options := []entities.ExecutionOptions{
		{MetaTransactionVersion: null.StringFrom("v1")},
		{SellEntireBalance: true},
		{SellTokenAffiliateFees: []entities.AffiliateFee{{Recipient: feeRecipient, FeeType: entities.AffiliateFeeTypePercentage, SellTokenFeeAmount: big.NewInt(1)}}},
		{BuyTokenAffiliateFees: []entities.AffiliateFee{{Recipient: feeRecipient, FeeType: entities.AffiliateFeeTypeGasless, BuyTokenFeeAmount: big.NewInt(1)}}},
		{IsFromNative: true, BuyTokenAffiliateFees: []entities.AffiliateFee{{Recipient: feeRecipient, FeeType: entities.AffiliateFeeTypePercentage, SellTokenFeeAmount: big.NewInt(3)}}},
	}
	for i, opts := range options {
		require.True(t, RequiresTransformERC20(opts), i)
		for _, rule := range rules {
			require.False(t, rule.IsCompatible(sushi, opts), "%s rejects options %d", rule.Name(), i)
		}
	}
}

func TestVIPRules_SellAmountCoversBothCases(t *testing.T) {
	quote := singleUniswapQuote()
	quote.BestCase.TotalSellAmount = big.NewInt(1010)

	info, err := NewUniswapV2VIPRule(testExchangeProxy, true).CreateCalldata(quote, entities.ExecutionOptions{IsFromNative: true})
	require.NoError(t, err)
	require.Equal(t, "1010", info.EthAmount.String())
	call := decodeVIPCall(t, "sellToUniswap", info.CallData)
	require.Equal(t, "1010", call.SellAmount.String())
}
