package v2

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/quocphu/sushiswap-lite/internal/token"
)

// Amount is a raw quantity of a currency. NativeAmount and TokenAmount are
// kept apart so the router can tell an ETH input from a WETH input.
type Amount interface {
	Currency() token.Token
	Raw() *big.Int
}

type NativeAmount struct {
	Native token.Native
	raw    *big.Int
}

type TokenAmount struct {
	Token token.Fungible
	raw   *big.Int
}

// EtherAmount builds an amount of the mainnet native asset.
func EtherAmount(raw *big.Int) NativeAmount { return NewNativeAmount(token.Ether, raw) }

func NewNativeAmount(n token.Native, raw *big.Int) NativeAmount {
	return NativeAmount{Native: n, raw: copyInt(raw)}
}

func NewTokenAmount(t token.Fungible, raw *big.Int) TokenAmount {
	return TokenAmount{Token: t, raw: copyInt(raw)}
}

func copyInt(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}

func (a NativeAmount) Currency() token.Token { return a.Native }
func (a NativeAmount) Raw() *big.Int         { return copyInt(a.raw) }

func (a TokenAmount) Currency() token.Token { return a.Token }
func (a TokenAmount) Raw() *big.Int         { return copyInt(a.raw) }

// Exact is the amount in whole units.
func Exact(a Amount) decimal.Decimal {
	return token.ToDecimal(a.Raw(), a.Currency().Decimals())
}

// wrappedAmount re-expresses a as the wrapped token so it can go through a pair.
func wrappedAmount(a Amount, weth token.Fungible) TokenAmount {
	if ta, ok := a.(TokenAmount); ok {
		return ta
	}
	return NewTokenAmount(weth, a.Raw())
}

// amountOf gives raw the variant that matches currency.
func amountOf(currency token.Token, raw *big.Int) Amount {
	switch c := currency.(type) {
	case token.Native:
		return NewNativeAmount(c, raw)
	case token.Fungible:
		return NewTokenAmount(c, raw)
	}
	return nil
}
