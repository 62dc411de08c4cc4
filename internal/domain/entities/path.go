package entities

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Path is the optimizer's route: single-hop native and bridge orders plus
// two-hop orders, each kept in path order.
type Path struct {
	side    MarketSide
	fills   []FillOrder
	twoHops []TwoHopOrder
}

// OrdersByType groups a path's orders. Two-hop legs only appear in TwoHopOrders.
type OrdersByType struct {
	NativeOrders []FillOrder
	BridgeOrders []*BridgeOrder
	TwoHopOrders []TwoHopOrder
}

// NewPath creates a path for the given market side
func NewPath(side MarketSide, fills []FillOrder, twoHops []TwoHopOrder) *Path {
	return &Path{
		side:    side,
		fills:   append([]FillOrder(nil), fills...),
		twoHops: append([]TwoHopOrder(nil), twoHops...),
	}
}

// Side returns the market side the path was built for
func (p *Path) Side() MarketSide {
	return p.side
}

// Orders returns every fill in the path, with each two-hop order contributing
// both of its legs.
func (p *Path) Orders() []FillOrder {
	orders := make([]FillOrder, 0, len(p.fills)+2*len(p.twoHops))
	orders = append(orders, p.fills...)
	for _, o := range p.twoHops {
		orders = append(orders, o.FirstHop, o.SecondHop)
	}
	return orders
}

// SingleHopOrders returns the native and bridge orders in path order
func (p *Path) SingleHopOrders() []FillOrder {
	return append([]FillOrder(nil), p.fills...)
}

// OrdersByType splits the path into native, bridge and two-hop orders
func (p *Path) OrdersByType() OrdersByType {
	var out OrdersByType
	for _, o := range p.fills {
		if b, ok := o.(*BridgeOrder); ok {
			out.BridgeOrders = append(out.BridgeOrders, b)
			continue
		}
		out.NativeOrders = append(out.NativeOrders, o)
	}
	out.TwoHopOrders = append(out.TwoHopOrders, p.twoHops...)
	return out
}

// HasTwoHopOrders reports whether any two-hop order is present
func (p *Path) HasTwoHopOrders() bool {
	return len(p.twoHops) > 0
}

// Slipped returns a copy of the path with bridge order amounts degraded by
// maxSlippage: sells lose maker amount (rounded down), buys pay more taker
// amount (rounded up). Native orders keep their signed price.
func (p *Path) Slipped(maxSlippage decimal.Decimal) *Path {
	slipped := &Path{side: p.side}
	for _, o := range p.fills {
		if b, ok := o.(*BridgeOrder); ok {
			slipped.fills = append(slipped.fills, p.slipBridgeOrder(b, maxSlippage))
			continue
		}
		slipped.fills = append(slipped.fills, o.withAmounts(o.MakerAmount(), o.TakerAmount()))
	}
	for _, o := range p.twoHops {
		slipped.twoHops = append(slipped.twoHops, TwoHopOrder{
			FirstHop:  p.slipBridgeOrder(o.FirstHop, maxSlippage),
			SecondHop: p.slipBridgeOrder(o.SecondHop, maxSlippage),
		})
	}
	return slipped
}

func (p *Path) slipBridgeOrder(o *BridgeOrder, maxSlippage decimal.Decimal) *BridgeOrder {
	makerAmount, takerAmount := o.MakerAmount(), o.TakerAmount()
	one := decimal.NewFromInt(1)
	if p.side == MarketSell {
		makerAmount = decimal.NewFromBigInt(makerAmount, 0).Mul(one.Sub(maxSlippage)).Floor().BigInt()
		if makerAmount.Sign() < 0 {
			makerAmount = new(big.Int)
		}
	} else {
		takerAmount = decimal.NewFromBigInt(takerAmount, 0).Mul(one.Add(maxSlippage)).Ceil().BigInt()
	}
	return o.withAmounts(makerAmount, takerAmount).(*BridgeOrder)
}
