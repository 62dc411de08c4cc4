package usecases

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"swap-calldata.backend/internal/domain/entities"
)

var uniswapV2VIPSources = []entities.Source{
	entities.SourceUniswapV2,
	entities.SourceSushiSwap,
}

// UniswapV2VIPRule sells a single UniswapV2 or SushiSwap order through
// sellToUniswap.
type UniswapV2VIPRule struct {
	exchangeProxy common.Address
	deployed      bool
}

func NewUniswapV2VIPRule(exchangeProxy common.Address, deployed bool) *UniswapV2VIPRule {
	return &UniswapV2VIPRule{exchangeProxy: exchangeProxy, deployed: deployed}
}

func (r *UniswapV2VIPRule) Name() string { return RuleNameUniswapV2VIP }

func (r *UniswapV2VIPRule) Deployed() bool { return r.deployed }

func (r *UniswapV2VIPRule) IsCompatible(quote *entities.SwapQuote, opts entities.ExecutionOptions) bool {
	return r.deployed && IsDirectSwapCompatible(quote.Path, opts, uniswapV2VIPSources)
}

func (r *UniswapV2VIPRule) CreateCalldata(quote *entities.SwapQuote, opts entities.ExecutionOptions) (*entities.CallDataInfo, error) {
	sc := DeriveSwapContext(quote, opts)
	order, tokens, err := vipOrder(r.Name(), quote, sc)
	if err != nil {
		return nil, err
	}

	callData, err := ExchangeProxyABI.Pack("sellToUniswap",
		tokens,
		sc.SellAmount,
		sc.MinBuyAmount,
		order.FillSource == entities.SourceSushiSwap,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sellToUniswap: %w", err)
	}
	return vipCallDataInfo(r.exchangeProxy, sc, callData), nil
}

func (*UniswapV2VIPRule) featureRule() {}
