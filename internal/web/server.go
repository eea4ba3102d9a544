// Package web serves the navigation overlay and the swap operations over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	v2 "github.com/quocphu/sushiswap-lite/internal/dex/v2"
	"github.com/quocphu/sushiswap-lite/internal/journal"
	"github.com/quocphu/sushiswap-lite/internal/menu"
	"github.com/quocphu/sushiswap-lite/internal/metrics"
	"github.com/quocphu/sushiswap-lite/internal/swap"
	"github.com/quocphu/sushiswap-lite/internal/token"
	"github.com/quocphu/sushiswap-lite/internal/wallet"
)

var (
	ErrExecutionDisabled = errors.New("transaction execution is disabled")
	ErrNonPositive       = errors.New("amount must be positive")
)

// Journal records submitted transactions. *journal.Journal implements it.
type Journal interface {
	Publish(ctx context.Context, rec journal.Record) error
	Recent(ctx context.Context, n int64) ([]journal.Record, error)
}

type Options struct {
	MenuItems       []menu.Item
	PrimaryChainID  uint64
	DarkByDefault   bool
	EnableExecution bool
}

type Server struct {
	opts    Options
	facade  *swap.Facade
	wallet  wallet.Context
	tokens  *token.Registry
	journal Journal
	log     *zap.Logger
	page    *template.Template
}

// New wires a Server. j may be nil when no journal is configured.
func New(opts Options, f *swap.Facade, w wallet.Context, tokens *token.Registry, j Journal, log *zap.Logger) *Server {
	if len(opts.MenuItems) == 0 {
		opts.MenuItems = menu.DefaultItems
	}
	return &Server{
		opts:    opts,
		facade:  f,
		wallet:  w,
		tokens:  tokens,
		journal: j,
		log:     log,
		page:    template.Must(template.New("menu").Parse(menuHTML)),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/menu", s.handleMenu)
	mux.HandleFunc("POST /api/menu/tap", s.handleTap)
	mux.HandleFunc("GET /api/quote", s.handleQuote)
	mux.HandleFunc("GET /api/fee", s.handleFee)
	mux.HandleFunc("POST /api/swap", s.handleSwap)
	mux.HandleFunc("POST /api/wrap", s.handleWrap)
	mux.HandleFunc("POST /api/unwrap", s.handleUnwrap)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	return withCORS(withRequestID(mux))
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("web server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// withRequestID tags every request with X-Request-ID, minting one when the
// client sent none.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logger(ctx context.Context) *zap.Logger {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return s.log.With(zap.String("request_id", id))
	}
	return s.log
}

// ---------- menu ----------

func (s *Server) menuView(r *http.Request) (menu.View, string, bool) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "/swap"
	}
	dark := s.opts.DarkByDefault
	if v := q.Get("dark"); v != "" {
		dark, _ = strconv.ParseBool(v)
	}
	expanded, _ := strconv.ParseBool(q.Get("expanded"))

	o := menu.New(s.opts.MenuItems, s.opts.PrimaryChainID, nil)
	o.SetExpanded(expanded)
	o.SetDark(dark)
	return o.View(path, s.wallet.Account()), path, dark
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	v, _, _ := s.menuView(r)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v, path, dark := s.menuView(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(w, struct {
		View menu.View
		Path string
		Dark bool
	}{v, path, dark})
	if err != nil {
		s.logger(r.Context()).Error("render menu", zap.Error(err))
	}
}

type tapRequest struct {
	Target   string `json:"target"`
	Path     string `json:"path,omitempty"`
	Current  string `json:"current"`
	Expanded bool   `json:"expanded"`
	Dark     bool   `json:"dark"`
}

type tapResponse struct {
	Current  string    `json:"current"`
	Expanded bool      `json:"expanded"`
	Dark     bool      `json:"dark"`
	View     menu.View `json:"view"`
}

// handleTap replays one tap on an overlay restored from the client's state
// and returns the state after it. Collapsing and navigation are applied
// through the overlay's callbacks.
func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	var req tapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target, ok := menu.ParseTarget(req.Target)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown tap target"))
		return
	}
	current := req.Current
	if current == "" {
		current = "/swap"
	}

	o := menu.New(s.opts.MenuItems, s.opts.PrimaryChainID, nil)
	o.OnCollapse = func() { o.SetExpanded(false) }
	o.Navigator = menu.NavigatorFunc(func(path string) {
		current = path
		o.SetExpanded(false)
	})
	o.SetExpanded(req.Expanded)
	o.SetDark(req.Dark)

	o.Tap(menu.Tap{Target: target, Path: req.Path})

	writeJSON(w, http.StatusOK, tapResponse{
		Current:  current,
		Expanded: o.Expanded(),
		Dark:     o.Dark(),
		View:     o.View(current, s.wallet.Account()),
	})
}

// ---------- quote / fee ----------

type quoteResponse struct {
	From             string   `json:"from"`
	To               string   `json:"to"`
	AmountIn         string   `json:"amountIn"`
	AmountInRaw      string   `json:"amountInRaw"`
	AmountOut        string   `json:"amountOut"`
	AmountOutRaw     string   `json:"amountOutRaw"`
	MinimumAmountOut string   `json:"minimumAmountOut"`
	ExecutionPrice   string   `json:"executionPrice"`
	PriceImpact      string   `json:"priceImpact"`
	Fee              string   `json:"fee"`
	Slippage         string   `json:"slippage"`
	Path             []string `json:"path"`
}

func newQuoteResponse(t *v2.Trade) quoteResponse {
	in, out := t.InputAmount, t.OutputAmount
	path := make([]string, len(t.Route.Path))
	for i, tok := range t.Route.Path {
		path[i] = tok.Address.Hex()
	}
	return quoteResponse{
		From:             in.Currency().Symbol(),
		To:               out.Currency().Symbol(),
		AmountIn:         v2.Exact(in).String(),
		AmountInRaw:      in.Raw().String(),
		AmountOut:        v2.Exact(out).String(),
		AmountOutRaw:     out.Raw().String(),
		MinimumAmountOut: v2.Exact(t.MinimumAmountOut(swap.AllowedSlippage)).String(),
		ExecutionPrice:   t.ExecutionPrice().String(),
		PriceImpact:      t.PriceImpact().String(),
		Fee:              token.FormatUnits(swap.Fee(in.Raw()), in.Currency().Decimals()),
		Slippage:         swap.AllowedSlippage.String(),
		Path:             path,
	}
}

func (s *Server) parsePair(from, to, amount string) (token.Token, token.Token, *big.Int, error) {
	src, err := s.tokens.Lookup(from)
	if err != nil {
		return nil, nil, nil, err
	}
	dst, err := s.tokens.Lookup(to)
	if err != nil {
		return nil, nil, nil, err
	}
	raw, err := parseAmount(amount, src.Decimals())
	if err != nil {
		return nil, nil, nil, err
	}
	return src, dst, raw, nil
}

func parseAmount(s string, decimals uint8) (*big.Int, error) {
	raw, err := token.ParseUnits(s, decimals)
	if err != nil {
		return nil, err
	}
	if raw.Sign() <= 0 {
		return nil, ErrNonPositive
	}
	return raw, nil
}

func (s *Server) quote(ctx context.Context, from, to token.Token, raw *big.Int) (*v2.Trade, error) {
	start := time.Now()
	trade, err := s.facade.Quote(ctx, s.wallet, from, to, raw)
	metrics.QuoteLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuoteErrors.Inc()
		s.logger(ctx).Warn("quote failed",
			zap.String("from", from.Symbol()),
			zap.String("to", to.Symbol()),
			zap.String("amount", raw.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if trade == nil {
		metrics.NotReady.WithLabelValues("quote").Inc()
	}
	return trade, nil
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, raw, err := s.parsePair(q.Get("from"), q.Get("to"), q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	trade, err := s.quote(r.Context(), from, to, raw)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if trade == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(trade))
}

func (s *Server) handleFee(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	if symbol == "" {
		symbol = s.tokens.Native().Symbol()
	}
	tok, err := s.tokens.Lookup(symbol)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	raw, err := token.ParseUnits(q.Get("amount"), tok.Decimals())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fee := swap.Fee(raw)
	writeJSON(w, http.StatusOK, map[string]string{
		"symbol": tok.Symbol(),
		"fee":    token.FormatUnits(fee, tok.Decimals()),
		"feeRaw": fee.String(),
	})
}

// ---------- execution ----------

type execRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type execResponse struct {
	Kind     journal.Kind   `json:"kind"`
	TxHash   string         `json:"txHash"`
	GasLimit uint64         `json:"gasLimit"`
	Quote    *quoteResponse `json:"quote,omitempty"`
}

func (s *Server) decodeExec(w http.ResponseWriter, r *http.Request) (execRequest, bool) {
	var req execRequest
	if !s.opts.EnableExecution {
		writeError(w, http.StatusForbidden, ErrExecutionDisabled)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, false
	}
	return req, true
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExec(w, r)
	if !ok {
		return
	}
	from, to, raw, err := s.parsePair(req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := r.Context()
	trade, err := s.quote(ctx, from, to, raw)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	res, err := s.facade.Swap(ctx, s.wallet, trade)
	if err != nil {
		s.submitFailed(ctx, journal.KindSwap, err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if res == nil {
		metrics.NotReady.WithLabelValues("swap").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	qr := newQuoteResponse(trade)
	s.submitted(ctx, journal.Record{
		Kind:         journal.KindSwap,
		TxHash:       res.Tx.Hash().Hex(),
		From:         from.Symbol(),
		To:           to.Symbol(),
		AmountIn:     raw.String(),
		MinAmountOut: trade.MinimumAmountOut(swap.AllowedSlippage).Raw().String(),
		Recipient:    s.wallet.Account().Address,
		GasLimit:     res.Tx.Gas(),
		TsMs:         time.Now().UnixMilli(),
	})
	writeJSON(w, http.StatusOK, execResponse{
		Kind:     journal.KindSwap,
		TxHash:   res.Tx.Hash().Hex(),
		GasLimit: res.Tx.Gas(),
		Quote:    &qr,
	})
}

func (s *Server) handleWrap(w http.ResponseWriter, r *http.Request) {
	s.handleWrapping(w, r, journal.KindWrap)
}

func (s *Server) handleUnwrap(w http.ResponseWriter, r *http.Request) {
	s.handleWrapping(w, r, journal.KindUnwrap)
}

func (s *Server) handleWrapping(w http.ResponseWriter, r *http.Request, kind journal.Kind) {
	req, ok := s.decodeExec(w, r)
	if !ok {
		return
	}
	native, weth := s.tokens.Native(), s.tokens.WETH()
	raw, err := parseAmount(req.Amount, native.Decimals())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	wrap, from, to := s.facade.WrapNative, native.Symbol(), weth.Symbol()
	if kind == journal.KindUnwrap {
		wrap, from, to = s.facade.UnwrapNative, weth.Symbol(), native.Symbol()
	}
	tx, err := wrap(ctx, s.wallet, raw)
	if err != nil {
		s.submitFailed(ctx, kind, err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if tx == nil {
		metrics.NotReady.WithLabelValues(string(kind)).Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.submitted(ctx, journal.Record{
		Kind:      kind,
		TxHash:    tx.Hash().Hex(),
		From:      from,
		To:        to,
		AmountIn:  raw.String(),
		Recipient: s.wallet.Account().Address,
		GasLimit:  tx.Gas(),
		TsMs:      time.Now().UnixMilli(),
	})
	writeJSON(w, http.StatusOK, execResponse{Kind: kind, TxHash: tx.Hash().Hex(), GasLimit: tx.Gas()})
}

func (s *Server) submitted(ctx context.Context, rec journal.Record) {
	log := s.logger(ctx)
	metrics.Submitted.WithLabelValues(string(rec.Kind)).Inc()
	metrics.GasLimit.WithLabelValues(string(rec.Kind)).Set(float64(rec.GasLimit))
	log.Info("transaction submitted",
		zap.String("kind", string(rec.Kind)),
		zap.String("tx", rec.TxHash),
		zap.String("from", rec.From),
		zap.String("to", rec.To),
		zap.String("amount_in", rec.AmountIn),
		zap.Uint64("gas_limit", rec.GasLimit),
	)
	if s.journal == nil {
		return
	}
	if err := s.journal.Publish(ctx, rec); err != nil {
		log.Warn("journal publish failed", zap.String("tx", rec.TxHash), zap.Error(err))
	}
}

func (s *Server) submitFailed(ctx context.Context, kind journal.Kind, err error) {
	metrics.SubmitErrors.WithLabelValues(string(kind)).Inc()
	s.logger(ctx).Error("transaction failed", zap.String("kind", string(kind)), zap.Error(err))
}

// ---------- history ----------

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, errors.New("journal not configured"))
		return
	}
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("bad limit"))
			return
		}
		limit = n
	}
	recs, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
