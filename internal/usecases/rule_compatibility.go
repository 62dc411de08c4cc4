package usecases

import (
	"swap-calldata.backend/internal/domain/entities"
)

// Sources the multiplex entry points can fill in a batch or along a multi-hop route
var (
	multiplexBatchFillSources = []entities.Source{
		entities.SourceNative,
		entities.SourceUniswapV2,
		entities.SourceSushiSwap,
		entities.SourceUniswapV3,
	}
	multiplexMultiHopFillSources = []entities.Source{
		entities.SourceUniswapV2,
		entities.SourceSushiSwap,
		entities.SourceUniswapV3,
	}
)

// RequiresTransformERC20 reports whether opts need the transform pipeline.
// Direct calls cannot take fees, support meta-transactions or read the taker's
// balance at execution time.
func RequiresTransformERC20(opts entities.ExecutionOptions) bool {
	if opts.MetaTransactionVersion.Valid {
		return true
	}
	if opts.SellEntireBalance {
		return true
	}
	for _, fee := range opts.SellTokenAffiliateFees {
		if hasFeeAmount(fee) {
			return true
		}
	}
	for _, fee := range opts.BuyTokenAffiliateFees {
		if hasFeeAmount(fee) {
			return true
		}
	}
	// A positive slippage fee also forces the pipeline, the only path that collects it.
	if f := opts.PositiveSlippageFee; f != nil &&
		f.FeeType == entities.AffiliateFeeTypePositiveSlippage && f.Recipient != entities.NullAddress {
		return true
	}
	return false
}

// IsDirectSwapCompatible reports whether path is a single order from one of
// allowedSources that can bypass the transform pipeline.
func IsDirectSwapCompatible(path *entities.Path, opts entities.ExecutionOptions, allowedSources []entities.Source) bool {
	if RequiresTransformERC20(opts) {
		return false
	}
	if path == nil {
		return false
	}
	orders := path.Orders()
	if len(orders) != 1 {
		return false
	}
	return containsSource(allowedSources, orders[0].Source())
}

// IsMultiplexBatchFillCompatible reports whether every single-hop order of the
// quote can be filled by a multiplex batch fill.
func IsMultiplexBatchFillCompatible(quote *entities.SwapQuote, opts entities.ExecutionOptions) bool {
	if RequiresTransformERC20(opts) || quote.Path == nil {
		return false
	}
	if quote.Path.HasTwoHopOrders() {
		return false
	}
	orders := quote.Path.Orders()
	if len(orders) == 0 {
		return false
	}
	for _, o := range orders {
		if o.Type() == entities.OrderTypeLimit {
			return false
		}
		if !containsSource(multiplexBatchFillSources, o.Source()) {
			return false
		}
	}
	return true
}

// IsMultiplexMultiHopFillCompatible reports whether the quote is a lone
// two-hop order whose hops the multiplex multi-hop fill supports.
func IsMultiplexMultiHopFillCompatible(quote *entities.SwapQuote, opts entities.ExecutionOptions) bool {
	if RequiresTransformERC20(opts) || quote.Path == nil {
		return false
	}
	byType := quote.Path.OrdersByType()
	if len(byType.TwoHopOrders) != 1 || len(byType.NativeOrders) > 0 || len(byType.BridgeOrders) > 0 {
		return false
	}
	hops := byType.TwoHopOrders[0]
	return containsSource(multiplexMultiHopFillSources, hops.FirstHop.Source()) &&
		containsSource(multiplexMultiHopFillSources, hops.SecondHop.Source())
}

func hasFeeAmount(fee entities.AffiliateFee) bool {
	return (fee.SellTokenFeeAmount != nil && fee.SellTokenFeeAmount.Sign() > 0) ||
		(fee.BuyTokenFeeAmount != nil && fee.BuyTokenFeeAmount.Sign() > 0)
}

func containsSource(sources []entities.Source, source entities.Source) bool {
	for _, s := range sources {
		if s == source {
			return true
		}
	}
	return false
}
