package handlers

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"swap-calldata.backend/internal/domain/entities"
)

// CompileSwapRequest is the body of POST /api/v1/swap/calldata. Amounts are
// base-10 strings, rates and slippage are decimal strings.
type CompileSwapRequest struct {
	ChainID uint64         `json:"chainId" binding:"required"`
	Quote   SwapQuoteDTO   `json:"quote"`
	Options ExecOptionsDTO `json:"options"`
}

type SwapQuoteDTO struct {
	SellToken          string       `json:"sellToken" binding:"required"`
	BuyToken           string       `json:"buyToken" binding:"required"`
	Side               string       `json:"side" binding:"required,oneof=sell buy"`
	FillAmount         string       `json:"fillAmount" binding:"required"`
	Path               PathDTO      `json:"path"`
	BestCase           QuoteInfoDTO `json:"bestCase"`
	WorstCase          QuoteInfoDTO `json:"worstCase"`
	GasPrice           string       `json:"gasPrice"`
	SellTokenPerNative string       `json:"sellTokenPerNative"`
	BuyTokenPerNative  string       `json:"buyTokenPerNative"`
}

type QuoteInfoDTO struct {
	SellAmount      string `json:"sellAmount"`
	TotalSellAmount string `json:"totalSellAmount"`
	BuyAmount       string `json:"buyAmount"`
	ProtocolFee     string `json:"protocolFee"`
	Gas             uint64 `json:"gas"`
	Slippage        string `json:"slippage"`
}

type PathDTO struct {
	Orders       []FillOrderDTO   `json:"orders"`
	TwoHopOrders []TwoHopOrderDTO `json:"twoHopOrders"`
}

type TwoHopOrderDTO struct {
	FirstHop  FillOrderDTO `json:"firstHop"`
	SecondHop FillOrderDTO `json:"secondHop"`
}

// FillOrderDTO is a tagged union over bridge, limit, rfq and otc orders. Type
// selects which of FillData / Order is read.
type FillOrderDTO struct {
	Type        string          `json:"type"`
	Source      string          `json:"source"`
	MakerToken  string          `json:"makerToken"`
	TakerToken  string          `json:"takerToken"`
	MakerAmount string          `json:"makerAmount"`
	TakerAmount string          `json:"takerAmount"`
	FillData    *FillDataDTO    `json:"fillData,omitempty"`
	Order       *NativeOrderDTO `json:"order,omitempty"`
	Signature   *SignatureDTO   `json:"signature,omitempty"`
}

type FillDataDTO struct {
	Router                   string   `json:"router"`
	TokenAddressPath         []string `json:"tokenAddressPath"`
	UniswapPath              string   `json:"uniswapPath"`
	Pool                     string   `json:"pool"`
	ExchangeFunctionSelector string   `json:"exchangeFunctionSelector"`
	FromTokenIdx             int64    `json:"fromTokenIdx"`
	ToTokenIdx               int64    `json:"toTokenIdx"`
	Vault                    string   `json:"vault"`
	PoolID                   string   `json:"poolId"`
}

// NativeOrderDTO carries the signed order record. Fields that do not exist on
// the order type are ignored.
type NativeOrderDTO struct {
	MakerToken          string `json:"makerToken"`
	TakerToken          string `json:"takerToken"`
	MakerAmount         string `json:"makerAmount"`
	TakerAmount         string `json:"takerAmount"`
	TakerTokenFeeAmount string `json:"takerTokenFeeAmount"`
	Maker               string `json:"maker"`
	Taker               string `json:"taker"`
	Sender              string `json:"sender"`
	FeeRecipient        string `json:"feeRecipient"`
	TxOrigin            string `json:"txOrigin"`
	Pool                string `json:"pool"`
	Expiry              uint64 `json:"expiry"`
	Salt                string `json:"salt"`
	ExpiryAndNonce      string `json:"expiryAndNonce"`
}

type SignatureDTO struct {
	SignatureType uint8  `json:"signatureType"`
	V             uint8  `json:"v"`
	R             string `json:"r"`
	S             string `json:"s"`
}

type AffiliateFeeDTO struct {
	Recipient          string `json:"recipient"`
	FeeType            string `json:"feeType"`
	SellTokenFeeAmount string `json:"sellTokenFeeAmount"`
	BuyTokenFeeAmount  string `json:"buyTokenFeeAmount"`
}

type ExecOptionsDTO struct {
	IsFromNative           bool              `json:"isFromNative"`
	IsToNative             bool              `json:"isToNative"`
	SellEntireBalance      bool              `json:"sellEntireBalance"`
	MetaTransactionVersion null.String       `json:"metaTransactionVersion"`
	RefundReceiver         string            `json:"refundReceiver"`
	SellTokenAffiliateFees []AffiliateFeeDTO `json:"sellTokenAffiliateFees"`
	BuyTokenAffiliateFees  []AffiliateFeeDTO `json:"buyTokenAffiliateFees"`
	PositiveSlippageFee    *AffiliateFeeDTO  `json:"positiveSlippageFee"`
}

// CallDataResponse is a compiled call ready to be signed and sent
type CallDataResponse struct {
	Data            string `json:"data"`
	Value           string `json:"value"`
	To              string `json:"to"`
	AllowanceTarget string `json:"allowanceTarget"`
	GasOverhead     uint64 `json:"gasOverhead"`
}

type CompileSwapResponse struct {
	ChainID     uint64                       `json:"chainId"`
	Rule        string                       `json:"rule"`
	CallData    CallDataResponse             `json:"callData"`
	Eligibility entities.StrategyEligibility `json:"eligibility"`
}

func newCompileSwapResponse(s *entities.CompiledSwap) CompileSwapResponse {
	value := "0"
	if s.CallData.EthAmount != nil {
		value = s.CallData.EthAmount.String()
	}
	return CompileSwapResponse{
		ChainID: uint64(s.ChainID),
		Rule:    s.Rule,
		CallData: CallDataResponse{
			Data:            hexutil.Encode(s.CallData.CallData),
			Value:           value,
			To:              s.CallData.ToAddress.Hex(),
			AllowanceTarget: s.CallData.AllowanceTarget.Hex(),
			GasOverhead:     s.CallData.GasOverhead,
		},
		Eligibility: s.Eligibility,
	}
}

// dtoParser converts request DTOs into entities, keeping the first error
type dtoParser struct {
	err error
}

func (p *dtoParser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

func (p *dtoParser) amount(field, s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		p.fail("%s: invalid uint256 amount %q", field, s)
		return new(big.Int)
	}
	return v.ToBig()
}

// orderAmount parses a native order record amount, which is a uint128 on chain
func (p *dtoParser) orderAmount(field, s string) *big.Int {
	v := p.amount(field, s)
	if v.BitLen() > 128 {
		p.fail("%s: amount %q exceeds uint128", field, s)
	}
	return v
}

// optionalAmount returns nil for an empty string
func (p *dtoParser) optionalAmount(field, s string) *big.Int {
	if s == "" {
		return nil
	}
	return p.amount(field, s)
}

func (p *dtoParser) address(field, s string) common.Address {
	if s == "" {
		return entities.NullAddress
	}
	if !common.IsHexAddress(s) {
		p.fail("%s: invalid address %q", field, s)
		return entities.NullAddress
	}
	return common.HexToAddress(s)
}

func (p *dtoParser) requiredAddress(field, s string) common.Address {
	if s == "" {
		p.fail("%s: address is required", field)
	}
	return p.address(field, s)
}

func (p *dtoParser) decimal(field, s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.fail("%s: invalid decimal %q", field, s)
	}
	return d
}

func (p *dtoParser) bytes(field, s string) []byte {
	if s == "" {
		return nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		p.fail("%s: invalid hex %q", field, s)
	}
	return b
}

func (p *dtoParser) hash(field, s string) common.Hash {
	if s == "" {
		return common.Hash{}
	}
	b := p.bytes(field, s)
	if len(b) != common.HashLength {
		p.fail("%s: expected %d bytes", field, common.HashLength)
		return common.Hash{}
	}
	return common.BytesToHash(b)
}

func (p *dtoParser) side(s string) entities.MarketSide {
	switch strings.ToLower(s) {
	case "sell":
		return entities.MarketSell
	case "buy":
		return entities.MarketBuy
	}
	p.fail("quote.side: unknown side %q", s)
	return entities.MarketSell
}

func (p *dtoParser) quoteInfo(field string, d QuoteInfoDTO) entities.QuoteInfo {
	slippage := p.decimal(field+".slippage", d.Slippage)
	if slippage.IsNegative() || slippage.GreaterThan(decimal.NewFromInt(1)) {
		p.fail("%s.slippage: must be between 0 and 1", field)
	}
	return entities.QuoteInfo{
		SellAmount:      p.amount(field+".sellAmount", d.SellAmount),
		TotalSellAmount: p.amount(field+".totalSellAmount", d.TotalSellAmount),
		BuyAmount:       p.amount(field+".buyAmount", d.BuyAmount),
		ProtocolFee:     p.amount(field+".protocolFee", d.ProtocolFee),
		Gas:             d.Gas,
		Slippage:        slippage,
	}
}

func (p *dtoParser) bridgeOrder(field string, d FillOrderDTO) *entities.BridgeOrder {
	order := &entities.BridgeOrder{
		FillSource:        entities.Source(d.Source),
		MakerTokenAddress: p.requiredAddress(field+".makerToken", d.MakerToken),
		TakerTokenAddress: p.requiredAddress(field+".takerToken", d.TakerToken),
		MakerTokenAmount:  p.amount(field+".makerAmount", d.MakerAmount),
		TakerTokenAmount:  p.amount(field+".takerAmount", d.TakerAmount),
	}
	if d.Source == "" {
		p.fail("%s.source: required for bridge orders", field)
	}
	if d.FillData == nil {
		p.fail("%s.fillData: required for bridge orders", field)
		return order
	}
	order.FillData = p.fillData(field+".fillData", entities.Source(d.Source), *d.FillData)
	return order
}

func (p *dtoParser) fillData(field string, source entities.Source, d FillDataDTO) entities.BridgeFillData {
	switch source {
	case entities.SourceUniswapV3:
		return &entities.UniswapV3FillData{
			Router:      p.address(field+".router", d.Router),
			UniswapPath: p.bytes(field+".uniswapPath", d.UniswapPath),
		}
	case entities.SourceCurve:
		var selector [4]byte
		if b := p.bytes(field+".exchangeFunctionSelector", d.ExchangeFunctionSelector); len(b) == 4 {
			copy(selector[:], b)
		} else if b != nil {
			p.fail("%s.exchangeFunctionSelector: expected 4 bytes", field)
		}
		return &entities.CurveFillData{
			Pool:                     p.address(field+".pool", d.Pool),
			ExchangeFunctionSelector: selector,
			FromTokenIdx:             d.FromTokenIdx,
			ToTokenIdx:               d.ToTokenIdx,
		}
	case entities.SourceBalancer:
		return &entities.BalancerFillData{Pool: p.address(field+".pool", d.Pool)}
	case entities.SourceBalancerV2:
		return &entities.BalancerV2FillData{
			Vault:  p.address(field+".vault", d.Vault),
			PoolID: p.hash(field+".poolId", d.PoolID),
		}
	}
	path := make([]common.Address, 0, len(d.TokenAddressPath))
	for i, a := range d.TokenAddressPath {
		path = append(path, p.requiredAddress(fmt.Sprintf("%s.tokenAddressPath[%d]", field, i), a))
	}
	return &entities.UniswapV2FillData{
		Router:           p.address(field+".router", d.Router),
		TokenAddressPath: path,
	}
}

func (p *dtoParser) signature(field string, d *SignatureDTO) entities.Signature {
	if d == nil {
		p.fail("%s: required for native orders", field)
		return entities.Signature{}
	}
	return entities.Signature{
		SignatureType: entities.SignatureType(d.SignatureType),
		V:             d.V,
		R:             p.hash(field+".r", d.R),
		S:             p.hash(field+".s", d.S),
	}
}

func (p *dtoParser) fillOrder(field string, d FillOrderDTO) entities.FillOrder {
	if d.Type == "" || d.Type == entities.OrderTypeBridge.String() {
		return p.bridgeOrder(field, d)
	}

	if d.Order == nil {
		p.fail("%s.order: required for native orders", field)
		return nil
	}
	o := d.Order
	fill := entities.NativeFill{
		FillMakerAmount: p.amount(field+".makerAmount", d.MakerAmount),
		FillTakerAmount: p.amount(field+".takerAmount", d.TakerAmount),
		Signature:       p.signature(field+".signature", d.Signature),
	}
	makerToken := p.requiredAddress(field+".order.makerToken", o.MakerToken)
	takerToken := p.requiredAddress(field+".order.takerToken", o.TakerToken)

	switch d.Type {
	case entities.OrderTypeLimit.String():
		return &entities.LimitOrderFill{NativeFill: fill, Order: entities.LimitOrder{
			MakerToken:          makerToken,
			TakerToken:          takerToken,
			MakerAmount:         p.orderAmount(field+".order.makerAmount", o.MakerAmount),
			TakerAmount:         p.orderAmount(field+".order.takerAmount", o.TakerAmount),
			TakerTokenFeeAmount: p.orderAmount(field+".order.takerTokenFeeAmount", o.TakerTokenFeeAmount),
			Maker:               p.address(field+".order.maker", o.Maker),
			Taker:               p.address(field+".order.taker", o.Taker),
			Sender:              p.address(field+".order.sender", o.Sender),
			FeeRecipient:        p.address(field+".order.feeRecipient", o.FeeRecipient),
			Pool:                p.hash(field+".order.pool", o.Pool),
			Expiry:              o.Expiry,
			Salt:                p.amount(field+".order.salt", o.Salt),
		}}
	case entities.OrderTypeRfq.String():
		return &entities.RfqOrderFill{NativeFill: fill, Order: entities.RfqOrder{
			MakerToken:  makerToken,
			TakerToken:  takerToken,
			MakerAmount: p.orderAmount(field+".order.makerAmount", o.MakerAmount),
			TakerAmount: p.orderAmount(field+".order.takerAmount", o.TakerAmount),
			Maker:       p.address(field+".order.maker", o.Maker),
			Taker:       p.address(field+".order.taker", o.Taker),
			TxOrigin:    p.address(field+".order.txOrigin", o.TxOrigin),
			Pool:        p.hash(field+".order.pool", o.Pool),
			Expiry:      o.Expiry,
			Salt:        p.amount(field+".order.salt", o.Salt),
		}}
	case entities.OrderTypeOtc.String():
		return &entities.OtcOrderFill{NativeFill: fill, Order: entities.OtcOrder{
			MakerToken:     makerToken,
			TakerToken:     takerToken,
			MakerAmount:    p.orderAmount(field+".order.makerAmount", o.MakerAmount),
			TakerAmount:    p.orderAmount(field+".order.takerAmount", o.TakerAmount),
			Maker:          p.address(field+".order.maker", o.Maker),
			Taker:          p.address(field+".order.taker", o.Taker),
			TxOrigin:       p.address(field+".order.txOrigin", o.TxOrigin),
			ExpiryAndNonce: p.amount(field+".order.expiryAndNonce", o.ExpiryAndNonce),
		}}
	}
	p.fail("%s.type: unknown order type %q", field, d.Type)
	return nil
}

func (p *dtoParser) quote(d SwapQuoteDTO) *entities.SwapQuote {
	side := p.side(d.Side)

	fills := make([]entities.FillOrder, 0, len(d.Path.Orders))
	for i, o := range d.Path.Orders {
		if f := p.fillOrder(fmt.Sprintf("quote.path.orders[%d]", i), o); f != nil {
			fills = append(fills, f)
		}
	}
	twoHops := make([]entities.TwoHopOrder, 0, len(d.Path.TwoHopOrders))
	for i, o := range d.Path.TwoHopOrders {
		field := fmt.Sprintf("quote.path.twoHopOrders[%d]", i)
		first := p.bridgeOrder(field+".firstHop", o.FirstHop)
		second := p.bridgeOrder(field+".secondHop", o.SecondHop)
		if first.MakerTokenAddress != second.TakerTokenAddress {
			p.fail("%s: first hop maker token must be the second hop taker token", field)
		}
		twoHops = append(twoHops, entities.TwoHopOrder{FirstHop: first, SecondHop: second})
	}

	return &entities.SwapQuote{
		SellToken:          p.requiredAddress("quote.sellToken", d.SellToken),
		BuyToken:           p.requiredAddress("quote.buyToken", d.BuyToken),
		Side:               side,
		FillAmount:         p.amount("quote.fillAmount", d.FillAmount),
		Path:               entities.NewPath(side, fills, twoHops),
		BestCase:           p.quoteInfo("quote.bestCase", d.BestCase),
		WorstCase:          p.quoteInfo("quote.worstCase", d.WorstCase),
		GasPrice:           p.optionalAmount("quote.gasPrice", d.GasPrice),
		SellTokenPerNative: p.decimal("quote.sellTokenPerNative", d.SellTokenPerNative),
		BuyTokenPerNative:  p.decimal("quote.buyTokenPerNative", d.BuyTokenPerNative),
	}
}

func (p *dtoParser) affiliateFee(field string, d AffiliateFeeDTO) entities.AffiliateFee {
	feeType := entities.AffiliateFeeType(d.FeeType)
	if feeType == "" {
		feeType = entities.AffiliateFeeTypeNone
	}
	if !feeType.Valid() {
		p.fail("%s.feeType: unknown fee type %q", field, d.FeeType)
	}
	return entities.AffiliateFee{
		Recipient:          p.address(field+".recipient", d.Recipient),
		FeeType:            feeType,
		SellTokenFeeAmount: p.amount(field+".sellTokenFeeAmount", d.SellTokenFeeAmount),
		BuyTokenFeeAmount:  p.amount(field+".buyTokenFeeAmount", d.BuyTokenFeeAmount),
	}
}

func (p *dtoParser) options(d ExecOptionsDTO) entities.ExecutionOptions {
	opts := entities.ExecutionOptions{
		IsFromNative:           d.IsFromNative,
		IsToNative:             d.IsToNative,
		SellEntireBalance:      d.SellEntireBalance,
		MetaTransactionVersion: d.MetaTransactionVersion,
		RefundReceiver:         p.address("options.refundReceiver", d.RefundReceiver),
	}
	for i, f := range d.SellTokenAffiliateFees {
		opts.SellTokenAffiliateFees = append(opts.SellTokenAffiliateFees, p.affiliateFee(fmt.Sprintf("options.sellTokenAffiliateFees[%d]", i), f))
	}
	for i, f := range d.BuyTokenAffiliateFees {
		opts.BuyTokenAffiliateFees = append(opts.BuyTokenAffiliateFees, p.affiliateFee(fmt.Sprintf("options.buyTokenAffiliateFees[%d]", i), f))
	}
	if d.PositiveSlippageFee != nil {
		fee := p.affiliateFee("options.positiveSlippageFee", *d.PositiveSlippageFee)
		opts.PositiveSlippageFee = &fee
	}
	return opts
}

// toEntities validates the request and converts it for the usecase
func (r *CompileSwapRequest) toEntities() (entities.ChainID, *entities.SwapQuote, entities.ExecutionOptions, error) {
	p := &dtoParser{}
	quote := p.quote(r.Quote)
	opts := p.options(r.Options)
	if p.err != nil {
		return 0, nil, entities.ExecutionOptions{}, p.err
	}
	return entities.ChainID(r.ChainID), quote, opts, nil
}
