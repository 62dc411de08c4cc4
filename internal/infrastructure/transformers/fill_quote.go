package transformers

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

// FillQuoteTransformerData mirrors the fill quote transformer's ABI tuple.
// Field order is significant.
type FillQuoteTransformerData struct {
	Side           uint8
	SellToken      common.Address
	BuyToken       common.Address
	BridgeOrders   []FillQuoteBridgeOrder
	LimitOrders    []FillQuoteLimitOrder
	RfqOrders      []FillQuoteRfqOrder
	FillSequence   []uint8
	FillAmount     *big.Int
	RefundReceiver common.Address
	OtcOrders      []FillQuoteOtcOrder
}

type FillQuoteBridgeOrder struct {
	Source           [32]byte
	TakerTokenAmount *big.Int
	MakerTokenAmount *big.Int
	BridgeData       []byte
}

type FillQuoteSignature struct {
	SignatureType uint8
	V             uint8
	R             [32]byte
	S             [32]byte
}

type FillQuoteLimitOrderInfo struct {
	MakerToken          common.Address
	TakerToken          common.Address
	MakerAmount         *big.Int
	TakerAmount         *big.Int
	TakerTokenFeeAmount *big.Int
	Maker               common.Address
	Taker               common.Address
	Sender              common.Address
	FeeRecipient        common.Address
	Pool                [32]byte
	Expiry              uint64
	Salt                *big.Int
}

type FillQuoteLimitOrder struct {
	Order                   FillQuoteLimitOrderInfo
	Signature               FillQuoteSignature
	MaxTakerTokenFillAmount *big.Int
}

type FillQuoteRfqOrderInfo struct {
	MakerToken  common.Address
	TakerToken  common.Address
	MakerAmount *big.Int
	TakerAmount *big.Int
	Maker       common.Address
	Taker       common.Address
	TxOrigin    common.Address
	Pool        [32]byte
	Expiry      uint64
	Salt        *big.Int
}

type FillQuoteRfqOrder struct {
	Order                   FillQuoteRfqOrderInfo
	Signature               FillQuoteSignature
	MaxTakerTokenFillAmount *big.Int
}

type FillQuoteOtcOrderInfo struct {
	MakerToken     common.Address
	TakerToken     common.Address
	MakerAmount    *big.Int
	TakerAmount    *big.Int
	Maker          common.Address
	Taker          common.Address
	TxOrigin       common.Address
	ExpiryAndNonce *big.Int
}

type FillQuoteOtcOrder struct {
	Order                   FillQuoteOtcOrderInfo
	Signature               FillQuoteSignature
	MaxTakerTokenFillAmount *big.Int
}

// NewFillQuoteTransformerData builds the fill data for orders, recording their
// types in path order in FillSequence.
func NewFillQuoteTransformerData(
	side entities.MarketSide,
	sellToken, buyToken common.Address,
	orders []entities.FillOrder,
	fillAmount entities.Amount,
	refundReceiver common.Address,
) (*FillQuoteTransformerData, error) {
	d := &FillQuoteTransformerData{
		Side:           uint8(side),
		SellToken:      sellToken,
		BuyToken:       buyToken,
		BridgeOrders:   []FillQuoteBridgeOrder{},
		LimitOrders:    []FillQuoteLimitOrder{},
		RfqOrders:      []FillQuoteRfqOrder{},
		FillSequence:   []uint8{},
		FillAmount:     fillAmount.Uint256(),
		RefundReceiver: refundReceiver,
		OtcOrders:      []FillQuoteOtcOrder{},
	}

	for _, order := range orders {
		switch o := order.(type) {
		case *entities.BridgeOrder:
			protocol, err := BridgeProtocolForSource(o.FillSource)
			if err != nil {
				return nil, err
			}
			bridgeData, err := EncodeBridgeData(o)
			if err != nil {
				return nil, err
			}
			d.BridgeOrders = append(d.BridgeOrders, FillQuoteBridgeOrder{
				Source:           EncodeBridgeSourceID(protocol, string(o.FillSource)),
				TakerTokenAmount: o.TakerAmount(),
				MakerTokenAmount: o.MakerAmount(),
				BridgeData:       bridgeData,
			})
		case *entities.LimitOrderFill:
			if err := checkUint128(o, o.Order.MakerAmount, o.Order.TakerAmount, o.Order.TakerTokenFeeAmount); err != nil {
				return nil, err
			}
			d.LimitOrders = append(d.LimitOrders, FillQuoteLimitOrder{
				Order: FillQuoteLimitOrderInfo{
					MakerToken:          o.Order.MakerToken,
					TakerToken:          o.Order.TakerToken,
					MakerAmount:         intOrZero(o.Order.MakerAmount),
					TakerAmount:         intOrZero(o.Order.TakerAmount),
					TakerTokenFeeAmount: intOrZero(o.Order.TakerTokenFeeAmount),
					Maker:               o.Order.Maker,
					Taker:               o.Order.Taker,
					Sender:              o.Order.Sender,
					FeeRecipient:        o.Order.FeeRecipient,
					Pool:                o.Order.Pool,
					Expiry:              o.Order.Expiry,
					Salt:                intOrZero(o.Order.Salt),
				},
				Signature:               toFillQuoteSignature(o.Signature),
				MaxTakerTokenFillAmount: o.TakerAmount(),
			})
		case *entities.RfqOrderFill:
			if err := checkUint128(o, o.Order.MakerAmount, o.Order.TakerAmount); err != nil {
				return nil, err
			}
			d.RfqOrders = append(d.RfqOrders, FillQuoteRfqOrder{
				Order: FillQuoteRfqOrderInfo{
					MakerToken:  o.Order.MakerToken,
					TakerToken:  o.Order.TakerToken,
					MakerAmount: intOrZero(o.Order.MakerAmount),
					TakerAmount: intOrZero(o.Order.TakerAmount),
					Maker:       o.Order.Maker,
					Taker:       o.Order.Taker,
					TxOrigin:    o.Order.TxOrigin,
					Pool:        o.Order.Pool,
					Expiry:      o.Order.Expiry,
					Salt:        intOrZero(o.Order.Salt),
				},
				Signature:               toFillQuoteSignature(o.Signature),
				MaxTakerTokenFillAmount: o.TakerAmount(),
			})
		case *entities.OtcOrderFill:
			if err := checkUint128(o, o.Order.MakerAmount, o.Order.TakerAmount); err != nil {
				return nil, err
			}
			d.OtcOrders = append(d.OtcOrders, FillQuoteOtcOrder{
				Order: FillQuoteOtcOrderInfo{
					MakerToken:     o.Order.MakerToken,
					TakerToken:     o.Order.TakerToken,
					MakerAmount:    intOrZero(o.Order.MakerAmount),
					TakerAmount:    intOrZero(o.Order.TakerAmount),
					Maker:          o.Order.Maker,
					Taker:          o.Order.Taker,
					TxOrigin:       o.Order.TxOrigin,
					ExpiryAndNonce: intOrZero(o.Order.ExpiryAndNonce),
				},
				Signature:               toFillQuoteSignature(o.Signature),
				MaxTakerTokenFillAmount: o.TakerAmount(),
			})
		default:
			return nil, fmt.Errorf("unsupported fill order type %T", order)
		}
		d.FillSequence = append(d.FillSequence, uint8(order.Type()))
	}
	return d, nil
}

func EncodeFillQuoteTransformerData(d *FillQuoteTransformerData) ([]byte, error) {
	data, err := packTuple(fillQuoteTransformerDataType, *d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fill quote transformer data: %w", err)
	}
	return data, nil
}

func DecodeFillQuoteTransformerData(data []byte) (*FillQuoteTransformerData, error) {
	out := new(FillQuoteTransformerData)
	if err := unpackTuple(fillQuoteTransformerDataType, data, out); err != nil {
		return nil, fmt.Errorf("failed to decode fill quote transformer data: %w", err)
	}
	return out, nil
}

func toFillQuoteSignature(sig entities.Signature) FillQuoteSignature {
	return FillQuoteSignature{
		SignatureType: uint8(sig.SignatureType),
		V:             sig.V,
		R:             sig.R,
		S:             sig.S,
	}
}

// checkUint128 rejects native order record amounts the uint128 fields cannot
// hold. The ABI packer does not range-check sub-256-bit integers.
func checkUint128(order entities.FillOrder, amounts ...*big.Int) error {
	for _, v := range amounts {
		if v != nil && (v.Sign() < 0 || v.BitLen() > 128) {
			return fmt.Errorf("%s order amount %s exceeds uint128: %w", order.Type(), v, domainerrors.ErrInvalidInput)
		}
	}
	return nil
}

func intOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
