// Package app wires the configured components together and runs them.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quocphu/sushiswap-lite/internal/config"
	"github.com/quocphu/sushiswap-lite/internal/journal"
	"github.com/quocphu/sushiswap-lite/internal/menu"
	"github.com/quocphu/sushiswap-lite/internal/metrics"
	"github.com/quocphu/sushiswap-lite/internal/swap"
	"github.com/quocphu/sushiswap-lite/internal/token"
	"github.com/quocphu/sushiswap-lite/internal/wallet"
	"github.com/quocphu/sushiswap-lite/internal/web"
)

// App holds everything built from one Config.
type App struct {
	Cfg     *config.Config
	Log     *zap.Logger
	Wallet  wallet.Context
	Tokens  *token.Registry
	Facade  *swap.Facade
	Journal *journal.Journal // nil without redis.addr

	closers []func()
}

// New connects the wallet and opens the journal described by cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{
		Cfg:    cfg,
		Log:    log,
		Tokens: Registry(cfg),
		Facade: Facade(cfg),
	}

	w, closeWallet, err := wallet.Connect(ctx, wallet.Options{
		RPCURL:     cfg.Chain.RPCHTTP,
		PrivateKey: cfg.Chain.WalletPK,
		Address:    cfg.Chain.Address,
		Name:       cfg.Chain.ENSName,
		ChainID:    cfg.Chain.ChainID,
	})
	if err != nil {
		return nil, fmt.Errorf("connect wallet: %w", err)
	}
	a.Wallet = w
	a.closers = append(a.closers, closeWallet)

	if cfg.Redis.Addr != "" {
		a.Journal = journal.New(journal.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			Stream:   cfg.Redis.Stream,
			TxNS:     cfg.Redis.TxNS,
		})
		a.closers = append(a.closers, func() { _ = a.Journal.Close() })
	}

	acct := w.Account()
	log.Info("wallet ready",
		zap.String("mode", Mode(w)),
		zap.Uint64("chain_id", acct.ChainID),
		zap.String("address", acct.Address),
		zap.Bool("journal", a.Journal != nil),
	)
	return a, nil
}

// Close releases the RPC connection and the redis client.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run serves metrics and the web surface until ctx is done or the process
// gets SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	g.Go(func() error {
		select {
		case <-sigs:
			a.Log.Warn("received signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		return metrics.Serve(ctx, a.Cfg.Metrics.ListenAddr, nil, a.Log)
	})

	if a.Cfg.HTTP.EnableExecution {
		a.Log.Warn("transaction execution enabled on the web surface")
	}
	g.Go(func() error {
		defer cancel()
		return a.Server().Start(ctx, a.Cfg.HTTP.ListenAddr)
	})
	return g.Wait()
}

func (a *App) Server() *web.Server {
	items := make([]menu.Item, 0, len(a.Cfg.Menu.Items))
	for _, it := range a.Cfg.Menu.Items {
		items = append(items, menu.Item{Title: it.Title, Path: it.Path})
	}
	var j web.Journal
	if a.Journal != nil {
		j = a.Journal
	}
	return web.New(web.Options{
		MenuItems:       items,
		PrimaryChainID:  a.Cfg.Chain.PrimaryChainID,
		DarkByDefault:   a.Cfg.Menu.Dark,
		EnableExecution: a.Cfg.HTTP.EnableExecution,
	}, a.Facade, a.Wallet, a.Tokens, j, a.Log)
}

// Registry knows ETH, the configured WETH and every configured token.
func Registry(cfg *config.Config) *token.Registry {
	weth := token.WETH
	weth.Address = common.HexToAddress(cfg.DEX.WETH)

	tokens := make([]token.Fungible, 0, len(cfg.DEX.Tokens))
	for _, t := range cfg.DEX.Tokens {
		tokens = append(tokens, token.Fungible{
			Sym:     t.Symbol,
			Address: common.HexToAddress(t.Address),
			Dec:     t.Decimals,
		})
	}
	return token.NewRegistry(token.Ether, weth, tokens...)
}

// Facade targets the configured router, factory and WETH.
func Facade(cfg *config.Config) *swap.Facade {
	f := swap.New()
	f.Router = common.HexToAddress(cfg.DEX.Router)
	f.Factory = common.HexToAddress(cfg.DEX.Factory)
	f.WETH.Address = common.HexToAddress(cfg.DEX.WETH)
	return f
}

// Mode names the wallet variant for logs.
func Mode(w wallet.Context) string {
	switch w.(type) {
	case wallet.Signing:
		return "signing"
	case wallet.ReadOnly:
		return "read-only"
	default:
		return "disconnected"
	}
}
