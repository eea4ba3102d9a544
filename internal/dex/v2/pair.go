package v2

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quocphu/sushiswap-lite/internal/token"
)

var (
	ErrPairNotFound            = errors.New("pair not found")
	ErrInsufficientReserves    = errors.New("insufficient reserves")
	ErrInsufficientInputAmount = errors.New("insufficient input amount")
	ErrTokenNotInPair          = errors.New("token not in pair")
)

var (
	feeNumerator   = big.NewInt(997)
	feeDenominator = big.NewInt(1000)
)

// Caller is the chain access FetchPairData needs.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Pair is a V2 liquidity pool. Token0 sorts before Token1.
type Pair struct {
	Address  common.Address
	Token0   token.Fungible
	Token1   token.Fungible
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// NewPair orders the tokens and their reserves.
func NewPair(addr common.Address, a, b TokenAmount) *Pair {
	if !a.Token.SortsBefore(b.Token) {
		a, b = b, a
	}
	return &Pair{
		Address:  addr,
		Token0:   a.Token,
		Token1:   b.Token,
		Reserve0: a.Raw(),
		Reserve1: b.Raw(),
	}
}

// FetchPairData looks the pair up on the factory and reads its reserves.
func FetchPairData(ctx context.Context, c Caller, factory common.Address, a, b token.Fungible) (*Pair, error) {
	data, err := FactoryABI.Pack("getPair", a.Address, b.Address)
	if err != nil {
		return nil, fmt.Errorf("pack getPair: %w", err)
	}
	raw, err := c.CallContract(ctx, ethereum.CallMsg{To: &factory, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call getPair: %w", err)
	}
	outs, err := FactoryABI.Unpack("getPair", raw)
	if err != nil || len(outs) == 0 {
		return nil, errors.New("decode getPair")
	}
	addr, ok := outs[0].(common.Address)
	if !ok || addr == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s/%s", ErrPairNotFound, a.Symbol(), b.Symbol())
	}

	data, _ = PairABI.Pack("getReserves")
	raw, err = c.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call getReserves: %w", err)
	}
	outs, err = PairABI.Unpack("getReserves", raw)
	if err != nil || len(outs) < 2 {
		return nil, errors.New("decode getReserves")
	}
	r0, ok0 := outs[0].(*big.Int)
	r1, ok1 := outs[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, errors.New("unexpected getReserves types")
	}

	t0, t1 := a, b
	if !a.SortsBefore(b) {
		t0, t1 = b, a
	}
	return &Pair{Address: addr, Token0: t0, Token1: t1, Reserve0: r0, Reserve1: r1}, nil
}

func (p *Pair) Involves(t token.Fungible) bool {
	return p.Token0.Equal(t) || p.Token1.Equal(t)
}

func (p *Pair) Other(t token.Fungible) token.Fungible {
	if p.Token0.Equal(t) {
		return p.Token1
	}
	return p.Token0
}

// ReserveOf returns the reserve held of t.
func (p *Pair) ReserveOf(t token.Fungible) (*big.Int, error) {
	switch {
	case p.Token0.Equal(t):
		return p.Reserve0, nil
	case p.Token1.Equal(t):
		return p.Reserve1, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTokenNotInPair, t.Symbol())
}

// OutputAmount prices in against the pair with the 0.3% LP fee.
func (p *Pair) OutputAmount(in TokenAmount) (TokenAmount, error) {
	rIn, err := p.ReserveOf(in.Token)
	if err != nil {
		return TokenAmount{}, err
	}
	out := p.Other(in.Token)
	rOut, _ := p.ReserveOf(out)
	if rIn.Sign() == 0 || rOut.Sign() == 0 {
		return TokenAmount{}, ErrInsufficientReserves
	}
	raw := GetAmountOut(in.Raw(), rIn, rOut)
	if raw.Sign() == 0 {
		return TokenAmount{}, ErrInsufficientInputAmount
	}
	return NewTokenAmount(out, raw), nil
}

// GetAmountOut is amountIn*997*rOut / (rIn*1000 + amountIn*997).
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	withFee := new(big.Int).Mul(amountIn, feeNumerator)
	num := new(big.Int).Mul(withFee, reserveOut)
	den := new(big.Int).Mul(reserveIn, feeDenominator)
	den.Add(den, withFee)
	if den.Sign() == 0 {
		return new(big.Int)
	}
	return num.Quo(num, den)
}
