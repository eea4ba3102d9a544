// swapctl runs one quote, swap, wrap, unwrap or fee computation against the
// configured SushiSwap deployment and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quocphu/sushiswap-lite/internal/app"
	"github.com/quocphu/sushiswap-lite/internal/config"
	v2 "github.com/quocphu/sushiswap-lite/internal/dex/v2"
	"github.com/quocphu/sushiswap-lite/internal/journal"
	"github.com/quocphu/sushiswap-lite/internal/logging"
	"github.com/quocphu/sushiswap-lite/internal/swap"
	"github.com/quocphu/sushiswap-lite/internal/token"
)

var (
	errNotReady  = errors.New("wallet is not ready for this operation")
	errUnknownOp = errors.New("unknown op")
)

type options struct {
	CfgPath string
	Op      string
	From    string
	To      string
	Amount  string
	Timeout time.Duration
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.CfgPath, "config", "./config.yaml", "path to config file")
	flag.StringVar(&o.Op, "op", "quote", "quote | swap | wrap | unwrap | fee")
	flag.StringVar(&o.From, "from", "ETH", "input token symbol")
	flag.StringVar(&o.To, "to", "", "output token symbol")
	flag.StringVar(&o.Amount, "amount", "", "input amount in whole units, e.g. 1.5")
	flag.DurationVar(&o.Timeout, "timeout", 30*time.Second, "overall deadline")
	flag.Parse()
	o.Op = strings.ToLower(strings.TrimSpace(o.Op))
	return o
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load(opts.CfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init failed", zap.Error(err))
	}
	defer a.Close()

	if err := run(ctx, a, opts, os.Stdout); err != nil {
		logger.Error("operation failed", zap.String("op", opts.Op), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, o options, out io.Writer) error {
	switch o.Op {
	case "quote":
		trade, _, err := quote(ctx, a, o)
		if err != nil {
			return err
		}
		printTrade(out, trade)
		return nil
	case "swap":
		return doSwap(ctx, a, o, out)
	case "wrap", "unwrap":
		return doWrap(ctx, a, journal.Kind(o.Op), o.Amount, out)
	case "fee":
		return doFee(a, o, out)
	default:
		return fmt.Errorf("%w: %q", errUnknownOp, o.Op)
	}
}

func quote(ctx context.Context, a *app.App, o options) (*v2.Trade, *big.Int, error) {
	from, err := a.Tokens.Lookup(o.From)
	if err != nil {
		return nil, nil, err
	}
	to, err := a.Tokens.Lookup(o.To)
	if err != nil {
		return nil, nil, err
	}
	raw, err := token.ParseUnits(o.Amount, from.Decimals())
	if err != nil {
		return nil, nil, err
	}
	trade, err := a.Facade.Quote(ctx, a.Wallet, from, to, raw)
	if err != nil {
		return nil, nil, err
	}
	if trade == nil {
		return nil, nil, errNotReady
	}
	return trade, raw, nil
}

func printTrade(out io.Writer, t *v2.Trade) {
	in, got := t.InputAmount, t.OutputAmount
	minOut := t.MinimumAmountOut(swap.AllowedSlippage)
	fmt.Fprintf(out, "input:        %s %s\n", v2.Exact(in), in.Currency().Symbol())
	fmt.Fprintf(out, "output:       %s %s\n", v2.Exact(got), got.Currency().Symbol())
	fmt.Fprintf(out, "minimum out:  %s %s (slippage %s)\n", v2.Exact(minOut), minOut.Currency().Symbol(), swap.AllowedSlippage)
	fmt.Fprintf(out, "price:        %s\n", t.ExecutionPrice())
	fmt.Fprintf(out, "price impact: %s\n", t.PriceImpact())
	fmt.Fprintf(out, "lp fee:       %s %s\n", token.FormatUnits(swap.Fee(in.Raw()), in.Currency().Decimals()), in.Currency().Symbol())
}

func doSwap(ctx context.Context, a *app.App, o options, out io.Writer) error {
	trade, raw, err := quote(ctx, a, o)
	if err != nil {
		return err
	}
	res, err := a.Facade.Swap(ctx, a.Wallet, trade)
	if err != nil {
		return err
	}
	if res == nil {
		return errNotReady
	}
	printTrade(out, trade)
	fmt.Fprintf(out, "tx:           %s (gas limit %d)\n", res.Tx.Hash().Hex(), res.Tx.Gas())

	record(ctx, a, journal.Record{
		Kind:         journal.KindSwap,
		TxHash:       res.Tx.Hash().Hex(),
		From:         trade.InputAmount.Currency().Symbol(),
		To:           trade.OutputAmount.Currency().Symbol(),
		AmountIn:     raw.String(),
		MinAmountOut: trade.MinimumAmountOut(swap.AllowedSlippage).Raw().String(),
		Recipient:    a.Wallet.Account().Address,
		GasLimit:     res.Tx.Gas(),
		TsMs:         time.Now().UnixMilli(),
	})
	return nil
}

func doWrap(ctx context.Context, a *app.App, kind journal.Kind, amount string, out io.Writer) error {
	native, weth := a.Tokens.Native(), a.Tokens.WETH()
	raw, err := token.ParseUnits(amount, native.Decimals())
	if err != nil {
		return err
	}

	wrap, from, to := a.Facade.WrapNative, native.Symbol(), weth.Symbol()
	if kind == journal.KindUnwrap {
		wrap, from, to = a.Facade.UnwrapNative, weth.Symbol(), native.Symbol()
	}
	tx, err := wrap(ctx, a.Wallet, raw)
	if err != nil {
		return err
	}
	if tx == nil {
		return errNotReady
	}
	fmt.Fprintf(out, "%s %s %s -> %s\n", kind, token.FormatUnits(raw, native.Decimals()), from, to)
	fmt.Fprintf(out, "tx: %s (gas limit %d)\n", tx.Hash().Hex(), tx.Gas())

	record(ctx, a, journal.Record{
		Kind:      kind,
		TxHash:    tx.Hash().Hex(),
		From:      from,
		To:        to,
		AmountIn:  raw.String(),
		Recipient: a.Wallet.Account().Address,
		GasLimit:  tx.Gas(),
		TsMs:      time.Now().UnixMilli(),
	})
	return nil
}

func doFee(a *app.App, o options, out io.Writer) error {
	tok, err := a.Tokens.Lookup(o.From)
	if err != nil {
		return err
	}
	raw, err := token.ParseUnits(o.Amount, tok.Decimals())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", token.FormatUnits(swap.Fee(raw), tok.Decimals()), tok.Symbol())
	return nil
}

func record(ctx context.Context, a *app.App, rec journal.Record) {
	a.Log.Info("transaction submitted",
		zap.String("kind", string(rec.Kind)),
		zap.String("tx", rec.TxHash),
		zap.Uint64("gas_limit", rec.GasLimit),
	)
	if a.Journal == nil {
		return
	}
	if err := a.Journal.Publish(ctx, rec); err != nil {
		a.Log.Warn("journal publish failed", zap.String("tx", rec.TxHash), zap.Error(err))
	}
}
