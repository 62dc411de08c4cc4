package usecases

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

var (
	testExchangeProxy = common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")
	testDeployer      = common.HexToAddress("0x39dCe47a67aD34344EAB877eaE3Ef1FA2a1d50Bb")
	testWETH          = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testRouter        = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	tokenA            = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	tokenB            = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	tokenC            = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	feeRecipient      = common.HexToAddress("0x1000000000000000000000000000000000000001")
	feeRecipient2     = common.HexToAddress("0x1000000000000000000000000000000000000002")
	refundReceiver    = common.HexToAddress("0x2000000000000000000000000000000000000002")

	testNonces = TransformerNonces{
		Wrap:                11,
		PayTaker:            12,
		FillQuote:           13,
		AffiliateFee:        14,
		PositiveSlippageFee: 15,
	}
)

type stubNonceResolver struct {
	nonces map[common.Address]uint32
}

func (s *stubNonceResolver) FindNonce(_, transformer common.Address) (uint32, error) {
	if n, ok := s.nonces[transformer]; ok {
		return n, nil
	}
	return 0, domainerrors.ErrUnknownTransformer
}

func testDeployment(chainID entities.ChainID, rules ...entities.DirectRuleKind) *entities.ProxyDeployment {
	return &entities.ProxyDeployment{
		ChainID:             chainID,
		Network:             "test",
		ExchangeProxy:       testExchangeProxy,
		TransformerDeployer: testDeployer,
		WrappedNativeToken:  testWETH,
		Transformers: entities.TransformerAddresses{
			Wrap:                common.HexToAddress("0x3000000000000000000000000000000000000001"),
			PayTaker:            common.HexToAddress("0x3000000000000000000000000000000000000002"),
			FillQuote:           common.HexToAddress("0x3000000000000000000000000000000000000003"),
			AffiliateFee:        common.HexToAddress("0x3000000000000000000000000000000000000004"),
			PositiveSlippageFee: common.HexToAddress("0x3000000000000000000000000000000000000005"),
		},
		SupportsNativeWrap: true,
		DirectRules:        rules,
		IsActive:           true,
	}
}

func resolverFor(d *entities.ProxyDeployment) *stubNonceResolver {
	return &stubNonceResolver{nonces: map[common.Address]uint32{
		d.Transformers.Wrap:                testNonces.Wrap,
		d.Transformers.PayTaker:            testNonces.PayTaker,
		d.Transformers.FillQuote:           testNonces.FillQuote,
		d.Transformers.AffiliateFee:        testNonces.AffiliateFee,
		d.Transformers.PositiveSlippageFee: testNonces.PositiveSlippageFee,
	}}
}

func newTestTransformRule(supportsNativeWrap bool) *TransformERC20Rule {
	return NewTransformERC20Rule(testExchangeProxy, testWETH, supportsNativeWrap, testNonces)
}

func uniswapOrder(source entities.Source, taker, maker common.Address, takerAmount, makerAmount int64) *entities.BridgeOrder {
	return &entities.BridgeOrder{
		FillSource:        source,
		TakerTokenAddress: taker,
		MakerTokenAddress: maker,
		TakerTokenAmount:  big.NewInt(takerAmount),
		MakerTokenAmount:  big.NewInt(makerAmount),
		FillData: &entities.UniswapV2FillData{
			Router:           testRouter,
			TokenAddressPath: []common.Address{taker, maker},
		},
	}
}

func uniswapV3Order(taker, maker common.Address, takerAmount, makerAmount int64) *entities.BridgeOrder {
	path := append(append(taker.Bytes(), 0x00, 0x0b, 0xb8), maker.Bytes()...)
	return &entities.BridgeOrder{
		FillSource:        entities.SourceUniswapV3,
		TakerTokenAddress: taker,
		MakerTokenAddress: maker,
		TakerTokenAmount:  big.NewInt(takerAmount),
		MakerTokenAmount:  big.NewInt(makerAmount),
		FillData:          &entities.UniswapV3FillData{Router: testRouter, UniswapPath: path},
	}
}

func rfqOrder(taker, maker common.Address, takerAmount, makerAmount int64) *entities.RfqOrderFill {
	return &entities.RfqOrderFill{
		NativeFill: entities.NativeFill{
			FillTakerAmount: big.NewInt(takerAmount),
			FillMakerAmount: big.NewInt(makerAmount),
			Signature:       entities.Signature{SignatureType: entities.SignatureTypeEIP712, V: 27},
		},
		Order: entities.RfqOrder{
			MakerToken:  maker,
			TakerToken:  taker,
			MakerAmount: big.NewInt(makerAmount),
			TakerAmount: big.NewInt(takerAmount),
			Expiry:      1700000000,
			Salt:        big.NewInt(1),
		},
	}
}

func limitOrder(taker, maker common.Address, takerAmount, makerAmount int64) *entities.LimitOrderFill {
	return &entities.LimitOrderFill{
		NativeFill: entities.NativeFill{
			FillTakerAmount: big.NewInt(takerAmount),
			FillMakerAmount: big.NewInt(makerAmount),
		},
		Order: entities.LimitOrder{
			MakerToken:  maker,
			TakerToken:  taker,
			MakerAmount: big.NewInt(makerAmount),
			TakerAmount: big.NewInt(takerAmount),
		},
	}
}

// sellQuote builds an A -> C market sell with the given path
func sellQuote(fills []entities.FillOrder, twoHops []entities.TwoHopOrder) *entities.SwapQuote {
	return &entities.SwapQuote{
		SellToken:  tokenA,
		BuyToken:   tokenC,
		Side:       entities.MarketSell,
		FillAmount: big.NewInt(1000),
		Path:       entities.NewPath(entities.MarketSell, fills, twoHops),
		BestCase: entities.QuoteInfo{
			SellAmount:      big.NewInt(1000),
			TotalSellAmount: big.NewInt(1000),
			BuyAmount:       big.NewInt(2000),
			ProtocolFee:     big.NewInt(0),
		},
		WorstCase: entities.QuoteInfo{
			SellAmount:      big.NewInt(1000),
			TotalSellAmount: big.NewInt(1000),
			BuyAmount:       big.NewInt(1900),
			ProtocolFee:     big.NewInt(0),
			Slippage:        decimal.RequireFromString("0.01"),
		},
		GasPrice: big.NewInt(10),
	}
}

func singleUniswapQuote() *entities.SwapQuote {
	return sellQuote([]entities.FillOrder{uniswapOrder(entities.SourceUniswapV2, tokenA, tokenC, 1000, 2000)}, nil)
}

type decodedTransformERC20 struct {
	InputToken      common.Address
	OutputToken     common.Address
	InputAmount     *big.Int
	MinOutputAmount *big.Int
	Transformations []entities.Transformation
}

func decodeTransformERC20(t *testing.T, callData []byte) decodedTransformERC20 {
	t.Helper()
	method := ExchangeProxyABI.Methods["transformERC20"]
	require.Equal(t, method.ID, callData[:4])
	vals, err := method.Inputs.Unpack(callData[4:])
	require.NoError(t, err)
	require.Len(t, vals, 5)

	return decodedTransformERC20{
		InputToken:      vals[0].(common.Address),
		OutputToken:     vals[1].(common.Address),
		InputAmount:     vals[2].(*big.Int),
		MinOutputAmount: vals[3].(*big.Int),
		Transformations: *abi.ConvertType(vals[4], new([]entities.Transformation)).(*[]entities.Transformation),
	}
}

type decodedVIPCall struct {
	Tokens       []common.Address
	SellAmount   *big.Int
	MinBuyAmount *big.Int
	Flag         interface{}
}

func decodeVIPCall(t *testing.T, methodName string, callData []byte) decodedVIPCall {
	t.Helper()
	method := ExchangeProxyABI.Methods[methodName]
	require.Equal(t, method.ID, callData[:4])
	vals, err := method.Inputs.Unpack(callData[4:])
	require.NoError(t, err)
	require.Len(t, vals, 4)
	return decodedVIPCall{
		Tokens:       vals[0].([]common.Address),
		SellAmount:   vals[1].(*big.Int),
		MinBuyAmount: vals[2].(*big.Int),
		Flag:         vals[3],
	}
}

func nonceSequence(ts []entities.Transformation) []uint32 {
	out := make([]uint32, 0, len(ts))
	for _, tr := range ts {
		out = append(out, tr.DeploymentNonce)
	}
	return out
}
