package usecases

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

// PancakeSwapFork selects the pool implementation sellToPancakeSwap routes to
type PancakeSwapFork uint8

const (
	PancakeSwapForkPancakeSwap PancakeSwapFork = iota
	PancakeSwapForkPancakeSwapV2
	PancakeSwapForkBakerySwap
	PancakeSwapForkSushiSwap
	PancakeSwapForkApeSwap
)

var pancakeSwapForks = map[entities.Source]PancakeSwapFork{
	entities.SourcePancakeSwap:   PancakeSwapForkPancakeSwap,
	entities.SourcePancakeSwapV2: PancakeSwapForkPancakeSwapV2,
	entities.SourceBakerySwap:    PancakeSwapForkBakerySwap,
	entities.SourceSushiSwap:     PancakeSwapForkSushiSwap,
	entities.SourceApeSwap:       PancakeSwapForkApeSwap,
}

var pancakeSwapVIPSources = []entities.Source{
	entities.SourcePancakeSwap,
	entities.SourcePancakeSwapV2,
	entities.SourceBakerySwap,
	entities.SourceSushiSwap,
	entities.SourceApeSwap,
}

// PancakeSwapVIPRule sells a single order from a PancakeSwap-style fork
// through sellToPancakeSwap.
type PancakeSwapVIPRule struct {
	exchangeProxy common.Address
	deployed      bool
}

func NewPancakeSwapVIPRule(exchangeProxy common.Address, deployed bool) *PancakeSwapVIPRule {
	return &PancakeSwapVIPRule{exchangeProxy: exchangeProxy, deployed: deployed}
}

func (r *PancakeSwapVIPRule) Name() string { return RuleNamePancakeSwapVIP }

func (r *PancakeSwapVIPRule) Deployed() bool { return r.deployed }

func (r *PancakeSwapVIPRule) IsCompatible(quote *entities.SwapQuote, opts entities.ExecutionOptions) bool {
	return r.deployed && IsDirectSwapCompatible(quote.Path, opts, pancakeSwapVIPSources)
}

func (r *PancakeSwapVIPRule) CreateCalldata(quote *entities.SwapQuote, opts entities.ExecutionOptions) (*entities.CallDataInfo, error) {
	sc := DeriveSwapContext(quote, opts)
	order, tokens, err := vipOrder(r.Name(), quote, sc)
	if err != nil {
		return nil, err
	}
	fork, ok := pancakeSwapForks[order.FillSource]
	if !ok {
		return nil, fmt.Errorf("%s: source %s: %w", r.Name(), order.FillSource, domainerrors.ErrRuleNotCompatible)
	}

	callData, err := ExchangeProxyABI.Pack("sellToPancakeSwap",
		tokens,
		sc.SellAmount,
		sc.MinBuyAmount,
		uint8(fork),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sellToPancakeSwap: %w", err)
	}
	return vipCallDataInfo(r.exchangeProxy, sc, callData), nil
}

func (*PancakeSwapVIPRule) featureRule() {}
