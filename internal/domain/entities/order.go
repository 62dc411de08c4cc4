package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Source identifies a liquidity source
type Source string

const (
	SourceNative        Source = "Native"
	SourceUniswapV2     Source = "Uniswap_V2"
	SourceUniswapV3     Source = "Uniswap_V3"
	SourceSushiSwap     Source = "SushiSwap"
	SourceCurve         Source = "Curve"
	SourceBalancer      Source = "Balancer"
	SourceBalancerV2    Source = "Balancer_V2"
	SourcePancakeSwap   Source = "PancakeSwap"
	SourcePancakeSwapV2 Source = "PancakeSwap_V2"
	SourceBakerySwap    Source = "BakerySwap"
	SourceApeSwap       Source = "ApeSwap"
)

// OrderType is the fill-quote order type tag. Values match the on-chain
// fill sequence encoding.
type OrderType uint8

const (
	OrderTypeBridge OrderType = 0
	OrderTypeLimit  OrderType = 1
	OrderTypeRfq    OrderType = 2
	OrderTypeOtc    OrderType = 3
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeBridge:
		return "bridge"
	case OrderTypeLimit:
		return "limit"
	case OrderTypeRfq:
		return "rfq"
	case OrderTypeOtc:
		return "otc"
	}
	return "unknown"
}

// FillOrder is one optimized fill produced by the route optimizer. It is
// implemented by *BridgeOrder, *LimitOrderFill, *RfqOrderFill and *OtcOrderFill.
type FillOrder interface {
	Type() OrderType
	Source() Source
	MakerToken() common.Address
	TakerToken() common.Address
	MakerAmount() *big.Int
	TakerAmount() *big.Int
	withAmounts(makerAmount, takerAmount *big.Int) FillOrder
}

// BridgeFillData carries source-specific parameters of a bridge order. It is
// implemented by the *FillData types below.
type BridgeFillData interface {
	bridgeFillData()
}

// UniswapV2FillData covers UniswapV2 and its forks
type UniswapV2FillData struct {
	Router           common.Address   `json:"router"`
	TokenAddressPath []common.Address `json:"tokenAddressPath"`
}

// UniswapV3FillData holds the packed pool path (token, fee, token, ...)
type UniswapV3FillData struct {
	Router      common.Address `json:"router"`
	UniswapPath []byte         `json:"uniswapPath"`
}

// CurveFillData selects a coin pair inside a Curve pool
type CurveFillData struct {
	Pool                     common.Address `json:"pool"`
	ExchangeFunctionSelector [4]byte        `json:"exchangeFunctionSelector"`
	FromTokenIdx             int64          `json:"fromTokenIdx"`
	ToTokenIdx               int64          `json:"toTokenIdx"`
}

// BalancerFillData points at a Balancer V1 pool
type BalancerFillData struct {
	Pool common.Address `json:"pool"`
}

// BalancerV2FillData points at a pool inside the Balancer V2 vault
type BalancerV2FillData struct {
	Vault  common.Address `json:"vault"`
	PoolID common.Hash    `json:"poolId"`
}

func (*UniswapV2FillData) bridgeFillData()  {}
func (*UniswapV3FillData) bridgeFillData()  {}
func (*CurveFillData) bridgeFillData()      {}
func (*BalancerFillData) bridgeFillData()   {}
func (*BalancerV2FillData) bridgeFillData() {}

// BridgeOrder is a fill routed through an external liquidity pool
type BridgeOrder struct {
	FillSource        Source
	MakerTokenAddress common.Address
	TakerTokenAddress common.Address
	MakerTokenAmount  *big.Int
	TakerTokenAmount  *big.Int
	FillData          BridgeFillData
}

func (o *BridgeOrder) Type() OrderType            { return OrderTypeBridge }
func (o *BridgeOrder) Source() Source             { return o.FillSource }
func (o *BridgeOrder) MakerToken() common.Address { return o.MakerTokenAddress }
func (o *BridgeOrder) TakerToken() common.Address { return o.TakerTokenAddress }
func (o *BridgeOrder) MakerAmount() *big.Int      { return copyInt(o.MakerTokenAmount) }
func (o *BridgeOrder) TakerAmount() *big.Int      { return copyInt(o.TakerTokenAmount) }

func (o *BridgeOrder) withAmounts(makerAmount, takerAmount *big.Int) FillOrder {
	c := *o
	c.MakerTokenAmount = makerAmount
	c.TakerTokenAmount = takerAmount
	return &c
}

// SignatureType is the native order signature scheme
type SignatureType uint8

const (
	SignatureTypeIllegal SignatureType = iota
	SignatureTypeInvalid
	SignatureTypeEIP712
	SignatureTypeEthSign
	SignatureTypePreSigned
)

// Signature is a maker signature over a native order
type Signature struct {
	SignatureType SignatureType `json:"signatureType"`
	V             uint8         `json:"v"`
	R             common.Hash   `json:"r"`
	S             common.Hash   `json:"s"`
}

// LimitOrder is the maker-signed limit order record
type LimitOrder struct {
	MakerToken          common.Address
	TakerToken          common.Address
	MakerAmount         *big.Int
	TakerAmount         *big.Int
	TakerTokenFeeAmount *big.Int
	Maker               common.Address
	Taker               common.Address
	Sender              common.Address
	FeeRecipient        common.Address
	Pool                common.Hash
	Expiry              uint64
	Salt                *big.Int
}

// RfqOrder is the maker-signed RFQ order record
type RfqOrder struct {
	MakerToken  common.Address
	TakerToken  common.Address
	MakerAmount *big.Int
	TakerAmount *big.Int
	Maker       common.Address
	Taker       common.Address
	TxOrigin    common.Address
	Pool        common.Hash
	Expiry      uint64
	Salt        *big.Int
}

// OtcOrder is the maker-signed OTC order record
type OtcOrder struct {
	MakerToken     common.Address
	TakerToken     common.Address
	MakerAmount    *big.Int
	TakerAmount    *big.Int
	Maker          common.Address
	Taker          common.Address
	TxOrigin       common.Address
	ExpiryAndNonce *big.Int
}

// NativeFill holds the amounts of a native order the optimizer decided to
// fill. FillTakerAmount doubles as the maximum taker fill amount.
type NativeFill struct {
	FillMakerAmount *big.Int
	FillTakerAmount *big.Int
	Signature       Signature
}

// LimitOrderFill fills a signed limit order
type LimitOrderFill struct {
	NativeFill
	Order LimitOrder
}

// RfqOrderFill fills a signed RFQ order
type RfqOrderFill struct {
	NativeFill
	Order RfqOrder
}

// OtcOrderFill fills a signed OTC order
type OtcOrderFill struct {
	NativeFill
	Order OtcOrder
}

func (o *LimitOrderFill) Type() OrderType            { return OrderTypeLimit }
func (o *LimitOrderFill) Source() Source             { return SourceNative }
func (o *LimitOrderFill) MakerToken() common.Address { return o.Order.MakerToken }
func (o *LimitOrderFill) TakerToken() common.Address { return o.Order.TakerToken }
func (o *LimitOrderFill) MakerAmount() *big.Int      { return copyInt(o.FillMakerAmount) }
func (o *LimitOrderFill) TakerAmount() *big.Int      { return copyInt(o.FillTakerAmount) }

func (o *LimitOrderFill) withAmounts(makerAmount, takerAmount *big.Int) FillOrder {
	c := *o
	c.FillMakerAmount, c.FillTakerAmount = makerAmount, takerAmount
	return &c
}

func (o *RfqOrderFill) Type() OrderType            { return OrderTypeRfq }
func (o *RfqOrderFill) Source() Source             { return SourceNative }
func (o *RfqOrderFill) MakerToken() common.Address { return o.Order.MakerToken }
func (o *RfqOrderFill) TakerToken() common.Address { return o.Order.TakerToken }
func (o *RfqOrderFill) MakerAmount() *big.Int      { return copyInt(o.FillMakerAmount) }
func (o *RfqOrderFill) TakerAmount() *big.Int      { return copyInt(o.FillTakerAmount) }

func (o *RfqOrderFill) withAmounts(makerAmount, takerAmount *big.Int) FillOrder {
	c := *o
	c.FillMakerAmount, c.FillTakerAmount = makerAmount, takerAmount
	return &c
}

func (o *OtcOrderFill) Type() OrderType            { return OrderTypeOtc }
func (o *OtcOrderFill) Source() Source             { return SourceNative }
func (o *OtcOrderFill) MakerToken() common.Address { return o.Order.MakerToken }
func (o *OtcOrderFill) TakerToken() common.Address { return o.Order.TakerToken }
func (o *OtcOrderFill) MakerAmount() *big.Int      { return copyInt(o.FillMakerAmount) }
func (o *OtcOrderFill) TakerAmount() *big.Int      { return copyInt(o.FillTakerAmount) }

func (o *OtcOrderFill) withAmounts(makerAmount, takerAmount *big.Int) FillOrder {
	c := *o
	c.FillMakerAmount, c.FillTakerAmount = makerAmount, takerAmount
	return &c
}

// TwoHopOrder routes sell -> intermediate -> buy through two bridge orders
type TwoHopOrder struct {
	FirstHop  *BridgeOrder
	SecondHop *BridgeOrder
}

// IntermediateToken is the token bought by the first hop and sold by the second
func (o TwoHopOrder) IntermediateToken() common.Address {
	return o.FirstHop.MakerTokenAddress
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
