package v2

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quocphu/sushiswap-lite/internal/token"
)

var ErrEtherInAndOut = errors.New("ether in and ether out")

// TradeOptions mirror the knobs of the router's swap methods.
type TradeOptions struct {
	AllowedSlippage Percent
	TTL             time.Duration
	Recipient       common.Address
	FeeOnTransfer   bool
}

// CallParameters is a ready-to-pack router call.
type CallParameters struct {
	MethodName string
	Args       []any
	Value      *big.Int
}

// SwapCallParameters picks the router method for an exact-input trade and
// lays out its arguments. Deadline is now+TTL.
func SwapCallParameters(t *Trade, opts TradeOptions, now time.Time) (CallParameters, error) {
	if t == nil {
		return CallParameters{}, errors.New("nil trade")
	}
	if t.Type != ExactInput {
		return CallParameters{}, errors.New("only exact-input trades are supported")
	}
	etherIn := token.IsNative(t.InputAmount.Currency())
	etherOut := token.IsNative(t.OutputAmount.Currency())
	if etherIn && etherOut {
		return CallParameters{}, ErrEtherInAndOut
	}

	amountIn := t.MaximumAmountIn(opts.AllowedSlippage).Raw()
	amountOutMin := t.MinimumAmountOut(opts.AllowedSlippage).Raw()
	path := make([]common.Address, len(t.Route.Path))
	for i, tok := range t.Route.Path {
		path[i] = tok.Address
	}
	deadline := big.NewInt(now.Add(opts.TTL).Unix())

	var p CallParameters
	switch {
	case etherIn:
		p.MethodName = "swapExactETHForTokens"
		p.Args = []any{amountOutMin, path, opts.Recipient, deadline}
		p.Value = amountIn
	case etherOut:
		p.MethodName = "swapExactTokensForETH"
		p.Args = []any{amountIn, amountOutMin, path, opts.Recipient, deadline}
		p.Value = new(big.Int)
	default:
		p.MethodName = "swapExactTokensForTokens"
		p.Args = []any{amountIn, amountOutMin, path, opts.Recipient, deadline}
		p.Value = new(big.Int)
	}
	if opts.FeeOnTransfer {
		p.MethodName += "SupportingFeeOnTransferTokens"
	}
	return p, nil
}

// Pack encodes p as router calldata.
func (p CallParameters) Pack() ([]byte, error) {
	data, err := RouterABI.Pack(p.MethodName, p.Args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", p.MethodName, err)
	}
	return data, nil
}
