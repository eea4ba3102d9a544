// Package swap quotes and executes single-pair swaps against a V2 router
// and wraps or unwraps the native asset.
//
// Every operation takes the wallet context explicitly. When the context
// lacks the capability an operation needs, the operation returns a nil
// result and a nil error; callers treat that as "not ready". Failures of the
// chain or the contracts are returned unchanged.
package swap

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	v2 "github.com/quocphu/sushiswap-lite/internal/dex/v2"
	"github.com/quocphu/sushiswap-lite/internal/token"
	"github.com/quocphu/sushiswap-lite/internal/wallet"
)

const (
	// SushiSwapRouter is the mainnet SushiSwap V2 router.
	SushiSwapRouter = "0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f"
	// SushiSwapFactory is the mainnet SushiSwap V2 factory.
	SushiSwapFactory = "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"

	DeadlineTTL = 20 * time.Minute
)

// AllowedSlippage is 0.5%.
var AllowedSlippage = v2.NewPercent(50, 10000)

// Result pairs a trade with the transaction that executes it.
type Result struct {
	Trade *v2.Trade
	Tx    *types.Transaction
}

type Facade struct {
	Router  common.Address
	Factory common.Address
	WETH    token.Fungible
	Now     func() time.Time
}

// New returns a Facade for the mainnet SushiSwap deployment.
func New() *Facade {
	return &Facade{
		Router:  common.HexToAddress(SushiSwapRouter),
		Factory: common.HexToAddress(SushiSwapFactory),
		WETH:    token.WETH,
		Now:     time.Now,
	}
}

// Quote prices amount of from into to over their direct pair.
func (f *Facade) Quote(ctx context.Context, w wallet.Context, from, to token.Token, amount *big.Int) (*v2.Trade, error) {
	provider, ok := wallet.ProviderOf(w)
	if !ok {
		return nil, nil
	}
	in := token.Wrap(from, f.WETH)
	out := token.Wrap(to, f.WETH)
	pair, err := v2.FetchPairData(ctx, provider, f.Factory, in, out)
	if err != nil {
		return nil, err
	}
	// Native input is paid in as ETH; the output is always the pair-side
	// token, so a swap into ETH delivers WETH.
	route, err := v2.NewRoute([]*v2.Pair{pair}, from, out, f.WETH)
	if err != nil {
		return nil, err
	}

	var amt v2.Amount
	if n, ok := from.(token.Native); ok {
		amt = v2.NewNativeAmount(n, amount)
	} else {
		amt = v2.NewTokenAmount(in, amount)
	}
	return v2.ExactIn(route, amt)
}

// Swap submits trade through the router, paying out to the signer.
func (f *Facade) Swap(ctx context.Context, w wallet.Context, trade *v2.Trade) (*Result, error) {
	s, ok := wallet.SignerOf(w)
	if !ok || trade == nil {
		return nil, nil
	}
	params, err := v2.SwapCallParameters(trade, v2.TradeOptions{
		FeeOnTransfer:   false,
		AllowedSlippage: AllowedSlippage,
		Recipient:       s.Signer.Address(),
		TTL:             DeadlineTTL,
	}, f.now())
	if err != nil {
		return nil, err
	}
	data, err := params.Pack()
	if err != nil {
		return nil, err
	}

	gas, err := s.EstimateGas(ctx, f.Router, data, params.Value)
	if err != nil {
		return nil, err
	}
	tx, err := s.Transact(ctx, f.Router, data, params.Value, GasLimit(gas))
	if err != nil {
		return nil, err
	}
	return &Result{Trade: trade, Tx: tx}, nil
}

// WrapNative deposits amount of the native asset into WETH.
func (f *Facade) WrapNative(ctx context.Context, w wallet.Context, amount *big.Int) (*types.Transaction, error) {
	s, ok := wallet.SignerOf(w)
	if !ok {
		return nil, nil
	}
	data, err := v2.WETHABI.Pack("deposit")
	if err != nil {
		return nil, err
	}
	gas, err := s.EstimateGas(ctx, f.WETH.Address, data, amount)
	if err != nil {
		return nil, err
	}
	return s.Transact(ctx, f.WETH.Address, data, amount, gas)
}

// UnwrapNative withdraws amount of WETH back to the native asset.
func (f *Facade) UnwrapNative(ctx context.Context, w wallet.Context, amount *big.Int) (*types.Transaction, error) {
	s, ok := wallet.SignerOf(w)
	if !ok {
		return nil, nil
	}
	data, err := v2.WETHABI.Pack("withdraw", amount)
	if err != nil {
		return nil, err
	}
	gas, err := s.EstimateGas(ctx, f.WETH.Address, data, nil)
	if err != nil {
		return nil, err
	}
	return s.Transact(ctx, f.WETH.Address, data, nil, gas)
}

func (f *Facade) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Fee is the 0.3% LP fee taken from amount: amount*3/1000.
func Fee(amount *big.Int) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(amount, big.NewInt(3))
	return fee.Quo(fee, big.NewInt(1000))
}

// GasLimit adds 20% headroom to a gas estimate: estimate*120/100.
func GasLimit(estimate uint64) uint64 {
	g := new(big.Int).SetUint64(estimate)
	g.Mul(g, big.NewInt(120))
	return g.Quo(g, big.NewInt(100)).Uint64()
}
