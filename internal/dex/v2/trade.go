package v2

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quocphu/sushiswap-lite/internal/token"
)

type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

// Trade is a priced swap over a route.
type Trade struct {
	Route        *Route
	Type         TradeType
	InputAmount  Amount
	OutputAmount Amount
}

// ExactIn prices amount through every pair of route.
func ExactIn(route *Route, amount Amount) (*Trade, error) {
	if token.IsNative(amount.Currency()) != token.IsNative(route.Input) {
		return nil, fmt.Errorf("%w: amount in %s, route starts at %s",
			ErrInvalidRoute, amount.Currency().Symbol(), route.Input.Symbol())
	}

	cur := wrappedAmount(amount, route.WETH)
	if !cur.Token.Equal(route.Path[0]) {
		return nil, fmt.Errorf("%w: amount in %s, route starts at %s",
			ErrInvalidRoute, cur.Token.Symbol(), route.Path[0].Symbol())
	}
	for _, p := range route.Pairs {
		next, err := p.OutputAmount(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	return &Trade{
		Route:        route,
		Type:         ExactInput,
		InputAmount:  amount,
		OutputAmount: amountOf(route.Output, cur.Raw()),
	}, nil
}

// MinimumAmountOut is the output after allowing for slippage.
func (t *Trade) MinimumAmountOut(slippage Percent) Amount {
	if t.Type == ExactOutput {
		return t.OutputAmount
	}
	return amountOf(t.Route.Output, slippage.discount(t.OutputAmount.Raw()))
}

// MaximumAmountIn is the input after allowing for slippage. For exact-input
// trades it is the input itself.
func (t *Trade) MaximumAmountIn(Percent) Amount {
	return t.InputAmount
}

// ExecutionPrice is output per unit of input, in whole units.
func (t *Trade) ExecutionPrice() decimal.Decimal {
	in := Exact(t.InputAmount)
	if in.IsZero() {
		return decimal.Zero
	}
	return Exact(t.OutputAmount).Div(in)
}

// PriceImpact is the relative shortfall of the output against the mid price
// before the trade.
func (t *Trade) PriceImpact() decimal.Decimal {
	quote := decimal.NewFromBigInt(t.InputAmount.Raw(), 0)
	cur := t.Route.Path[0]
	for _, p := range t.Route.Pairs {
		rIn, _ := p.ReserveOf(cur)
		cur = p.Other(cur)
		rOut, _ := p.ReserveOf(cur)
		if rIn == nil || rIn.Sign() == 0 {
			return decimal.Zero
		}
		quote = quote.Mul(decimal.NewFromBigInt(rOut, 0)).Div(decimal.NewFromBigInt(rIn, 0))
	}
	if quote.IsZero() {
		return decimal.Zero
	}
	out := decimal.NewFromBigInt(t.OutputAmount.Raw(), 0)
	return quote.Sub(out).Div(quote)
}
