package usecases

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
	"swap-calldata.backend/internal/infrastructure/transformers"
)

// TransformerNonces are the deployment nonces tagging each transformer
type TransformerNonces struct {
	Wrap                uint32
	PayTaker            uint32
	FillQuote           uint32
	AffiliateFee        uint32
	PositiveSlippageFee uint32
}

// TransformERC20Rule encodes any quote as a transformERC20 call. It is the
// fallback rule and compatible with every quote.
type TransformERC20Rule struct {
	exchangeProxy      common.Address
	wrappedNativeToken common.Address
	supportsNativeWrap bool
	nonces             TransformerNonces
}

func NewTransformERC20Rule(
	exchangeProxy common.Address,
	wrappedNativeToken common.Address,
	supportsNativeWrap bool,
	nonces TransformerNonces,
) *TransformERC20Rule {
	return &TransformERC20Rule{
		exchangeProxy:      exchangeProxy,
		wrappedNativeToken: wrappedNativeToken,
		supportsNativeWrap: supportsNativeWrap,
		nonces:             nonces,
	}
}

func (r *TransformERC20Rule) Name() string { return RuleNameTransformERC20 }

func (r *TransformERC20Rule) Nonces() TransformerNonces { return r.nonces }

func (r *TransformERC20Rule) IsCompatible(*entities.SwapQuote, entities.ExecutionOptions) bool {
	return true
}

// CreateCalldata builds the pipeline: sell fees, wrap, fills, unwrap, buy
// fees, pay taker. Steps run on-chain in list order.
func (r *TransformERC20Rule) CreateCalldata(quote *entities.SwapQuote, opts entities.ExecutionOptions) (*entities.CallDataInfo, error) {
	sc := DeriveSwapContext(quote, opts)
	sellToken, buyToken := quote.SellToken, quote.BuyToken
	isSell := !quote.IsBuy()
	path := quote.Path
	if path == nil {
		path = entities.NewPath(quote.Side, nil, nil)
	}
	slipped := path.Slipped(sc.MaxSlippage)

	var transformations []entities.Transformation
	appendStep := func(nonce uint32, data []byte) {
		transformations = append(transformations, entities.Transformation{DeploymentNonce: nonce, Data: data})
	}

	// Sell token fees are taken before anything is wrapped.
	if fees := sellTokenFees(opts, sellToken); len(fees) > 0 {
		data, err := transformers.EncodeAffiliateFeeTransformerData(transformers.AffiliateFeeTransformerData{Fees: fees})
		if err != nil {
			return nil, err
		}
		appendStep(r.nonces.AffiliateFee, data)
	}

	if opts.IsFromNative && r.supportsNativeWrap {
		amount := entities.ExactAmount(sc.SellAmount)
		if opts.SellEntireBalance {
			amount = entities.EntireBalance()
		}
		data, err := transformers.EncodeWethTransformerData(transformers.WethTransformerData{
			Token:  entities.NativeTokenAddress,
			Amount: amount.Uint256(),
		})
		if err != nil {
			return nil, err
		}
		appendStep(r.nonces.Wrap, data)
	}

	fills, err := r.fillTransformations(quote, opts, sellToken, buyToken, isSell, slipped)
	if err != nil {
		return nil, err
	}
	transformations = append(transformations, fills...)

	if opts.IsToNative && r.supportsNativeWrap {
		data, err := transformers.EncodeWethTransformerData(transformers.WethTransformerData{
			Token:  r.wrappedNativeToken,
			Amount: entities.EntireBalance().Uint256(),
		})
		if err != nil {
			return nil, err
		}
		appendStep(r.nonces.Wrap, data)
	}

	minBuyAmount := sc.MinBuyAmount
	var gasOverhead uint64
	buyFees := append([]entities.AffiliateFee(nil), opts.BuyTokenAffiliateFees...)
	if opts.PositiveSlippageFee != nil {
		buyFees = append(buyFees, *opts.PositiveSlippageFee)
	}
	feeToken := buyToken
	if opts.IsToNative {
		feeToken = entities.NativeTokenAddress
	}
	for _, fee := range buyFees {
		if fee.Recipient == entities.NullAddress || fee.FeeType == entities.AffiliateFeeTypeNone {
			continue
		}
		switch fee.FeeType {
		case entities.AffiliateFeeTypePositiveSlippage:
			data, err := transformers.EncodePositiveSlippageFeeTransformerData(transformers.PositiveSlippageFeeTransformerData{
				Token:          feeToken,
				BestCaseAmount: positiveSlippageThreshold(quote),
				Recipient:      fee.Recipient,
			})
			if err != nil {
				return nil, err
			}
			appendStep(r.nonces.PositiveSlippageFee, data)
			gasOverhead += PositiveSlippageFeeTransformerGas
		case entities.AffiliateFeeTypePercentage, entities.AffiliateFeeTypeGasless:
			if fee.BuyTokenFeeAmount == nil || fee.BuyTokenFeeAmount.Sign() <= 0 {
				continue
			}
			data, err := transformers.EncodeAffiliateFeeTransformerData(transformers.AffiliateFeeTransformerData{
				Fees: []transformers.AffiliateFee{{
					Token:     feeToken,
					Amount:    new(big.Int).Set(fee.BuyTokenFeeAmount),
					Recipient: fee.Recipient,
				}},
			})
			if err != nil {
				return nil, err
			}
			appendStep(r.nonces.AffiliateFee, data)
			minBuyAmount = new(big.Int).Sub(minBuyAmount, fee.BuyTokenFeeAmount)
			if minBuyAmount.Sign() < 0 {
				minBuyAmount = new(big.Int)
			}
		default:
			return nil, fmt.Errorf("fee type %q: %w", fee.FeeType, domainerrors.ErrUnsupportedFeeType)
		}
	}

	// Pay taker runs last and returns every leftover balance, including
	// two-hop intermediates, to the taker.
	payTakerTokens := []common.Address{sellToken}
	for _, o := range path.OrdersByType().TwoHopOrders {
		payTakerTokens = append(payTakerTokens, o.IntermediateToken())
	}
	if !opts.IsToNative {
		payTakerTokens = append(payTakerTokens, entities.NativeTokenAddress)
	}
	data, err := transformers.EncodePayTakerTransformerData(transformers.PayTakerTransformerData{Tokens: payTakerTokens})
	if err != nil {
		return nil, err
	}
	appendStep(r.nonces.PayTaker, data)

	inputToken := sellToken
	if opts.IsFromNative {
		inputToken = entities.NativeTokenAddress
	}
	outputToken := buyToken
	if opts.IsToNative {
		outputToken = entities.NativeTokenAddress
		if !r.supportsNativeWrap {
			outputToken = r.wrappedNativeToken
		}
	}
	inputAmount := entities.ExactAmount(sc.SellAmount)
	if opts.SellEntireBalance {
		inputAmount = entities.EntireBalance()
	}

	callData, err := ExchangeProxyABI.Pack("transformERC20",
		inputToken,
		outputToken,
		inputAmount.Uint256(),
		minBuyAmount,
		transformations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transformERC20: %w", err)
	}

	return &entities.CallDataInfo{
		CallData:        callData,
		EthAmount:       sc.EthAmount,
		ToAddress:       r.exchangeProxy,
		AllowanceTarget: r.exchangeProxy,
		GasOverhead:     gasOverhead,
	}, nil
}

// fillTransformations emits two fills per two-hop order, then one fill for
// the remaining single-hop orders.
func (r *TransformERC20Rule) fillTransformations(
	quote *entities.SwapQuote,
	opts entities.ExecutionOptions,
	sellToken, buyToken common.Address,
	isSell bool,
	slipped *entities.Path,
) ([]entities.Transformation, error) {
	var out []entities.Transformation
	fill := func(side entities.MarketSide, from, to common.Address, orders []entities.FillOrder, amount entities.Amount) error {
		d, err := transformers.NewFillQuoteTransformerData(side, from, to, orders, amount, opts.RefundReceiver)
		if err != nil {
			return err
		}
		data, err := transformers.EncodeFillQuoteTransformerData(d)
		if err != nil {
			return err
		}
		out = append(out, entities.Transformation{DeploymentNonce: r.nonces.FillQuote, Data: data})
		return nil
	}

	committed := new(big.Int)
	for _, o := range slipped.OrdersByType().TwoHopOrders {
		intermediate := o.IntermediateToken()

		firstAmount := entities.ExactAmount(o.FirstHop.TakerAmount())
		if isSell && opts.SellEntireBalance {
			firstAmount = entities.EntireBalance()
		}
		if err := fill(entities.MarketSell, sellToken, intermediate, []entities.FillOrder{o.FirstHop}, firstAmount); err != nil {
			return nil, err
		}
		// The intermediate amount is only known once the first hop has run.
		if err := fill(entities.MarketSell, intermediate, buyToken, []entities.FillOrder{o.SecondHop}, entities.EntireBalance()); err != nil {
			return nil, err
		}

		if isSell {
			committed.Add(committed, o.FirstHop.TakerAmount())
		} else {
			committed.Add(committed, o.SecondHop.MakerAmount())
		}
	}

	single := slipped.SingleHopOrders()
	if len(single) == 0 {
		return out, nil
	}

	amount := entities.EntireBalance()
	if !isSell || !opts.SellEntireBalance {
		residual := new(big.Int).Sub(intOrZero(quote.FillAmount), committed)
		if residual.Sign() < 0 {
			residual = new(big.Int)
		}
		amount = entities.ExactAmount(residual)
	}
	if err := fill(quote.Side, sellToken, buyToken, single, amount); err != nil {
		return nil, err
	}
	return out, nil
}

func sellTokenFees(opts entities.ExecutionOptions, sellToken common.Address) []transformers.AffiliateFee {
	token := sellToken
	if opts.IsFromNative {
		token = entities.NativeTokenAddress
	}
	var fees []transformers.AffiliateFee
	for _, f := range opts.SellTokenAffiliateFees {
		if f.SellTokenFeeAmount == nil || f.SellTokenFeeAmount.Sign() <= 0 {
			continue
		}
		fees = append(fees, transformers.AffiliateFee{
			Token:     token,
			Amount:    new(big.Int).Set(f.SellTokenFeeAmount),
			Recipient: f.Recipient,
		})
	}
	return fees
}

// positiveSlippageThreshold is the best case buy amount plus the fee
// transformer's gas cost in buy token. An unknown rate leaves the best case
// amount unchanged.
func positiveSlippageThreshold(quote *entities.SwapQuote) *big.Int {
	best := intOrZero(quote.BestCase.BuyAmount)
	if quote.BuyTokenPerNative.Sign() <= 0 || quote.GasPrice == nil {
		return best
	}
	gasCost := decimal.NewFromInt(int64(PositiveSlippageFeeTransformerGas)).
		Mul(decimal.NewFromBigInt(quote.GasPrice, 0)).
		Mul(quote.BuyTokenPerNative).
		Floor().
		BigInt()
	return best.Add(best, gasCost)
}

func (*TransformERC20Rule) featureRule() {}
