package v2

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Percent is the fraction Num/Den, e.g. {50, 10000} for 0.5%.
type Percent struct {
	Num int64
	Den int64
}

func NewPercent(num, den int64) Percent { return Percent{Num: num, Den: den} }

// Decimal returns the fraction itself (0.005 for 0.5%).
func (p Percent) Decimal() decimal.Decimal {
	if p.Den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.Num).Div(decimal.NewFromInt(p.Den))
}

func (p Percent) String() string {
	return p.Decimal().Mul(decimal.NewFromInt(100)).String() + "%"
}

// discount returns floor(x / (1 + p)).
func (p Percent) discount(x *big.Int) *big.Int {
	num := new(big.Int).Mul(x, big.NewInt(p.Den))
	return num.Quo(num, big.NewInt(p.Den+p.Num))
}
