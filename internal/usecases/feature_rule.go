package usecases

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

// FeatureRule compiles a quote into a call to one exchange proxy feature.
// The set of rules is closed: UniswapV2VIPRule, PancakeSwapVIPRule and
// TransformERC20Rule.
type FeatureRule interface {
	Name() string
	IsCompatible(quote *entities.SwapQuote, opts entities.ExecutionOptions) bool
	// CreateCalldata must only be called after IsCompatible returned true
	CreateCalldata(quote *entities.SwapQuote, opts entities.ExecutionOptions) (*entities.CallDataInfo, error)
	featureRule()
}

// vipOrder returns the sole slipped UniswapV2-style order of a direct-call quote
// together with its token path.
func vipOrder(rule string, quote *entities.SwapQuote, sc SwapContext) (*entities.BridgeOrder, []common.Address, error) {
	if quote.Path == nil {
		return nil, nil, fmt.Errorf("%s: quote has no path: %w", rule, domainerrors.ErrRuleNotCompatible)
	}
	orders := quote.Path.Slipped(sc.MaxSlippage).Orders()
	if len(orders) != 1 {
		return nil, nil, fmt.Errorf("%s: expected 1 order, got %d: %w", rule, len(orders), domainerrors.ErrRuleNotCompatible)
	}
	order, ok := orders[0].(*entities.BridgeOrder)
	if !ok {
		return nil, nil, fmt.Errorf("%s: order type %s: %w", rule, orders[0].Type(), domainerrors.ErrRuleNotCompatible)
	}
	fillData, ok := order.FillData.(*entities.UniswapV2FillData)
	if !ok || len(fillData.TokenAddressPath) < 2 {
		return nil, nil, fmt.Errorf("%s: source %s has no token path: %w", rule, order.FillSource, domainerrors.ErrRuleNotCompatible)
	}

	tokens := append([]common.Address(nil), fillData.TokenAddressPath...)
	if sc.IsFromNative {
		tokens[0] = entities.NativeTokenAddress
	}
	if sc.IsToNative {
		tokens[len(tokens)-1] = entities.NativeTokenAddress
	}
	return order, tokens, nil
}

// vipCallDataInfo wraps a direct call. Only native sells attach value.
func vipCallDataInfo(exchangeProxy common.Address, sc SwapContext, callData []byte) *entities.CallDataInfo {
	ethAmount := new(big.Int)
	if sc.IsFromNative {
		ethAmount.Set(sc.SellAmount)
	}
	return &entities.CallDataInfo{
		CallData:        callData,
		EthAmount:       ethAmount,
		ToAddress:       exchangeProxy,
		AllowanceTarget: exchangeProxy,
		GasOverhead:     0,
	}
}
