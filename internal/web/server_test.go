package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	v2 "github.com/quocphu/sushiswap-lite/internal/dex/v2"
	"github.com/quocphu/sushiswap-lite/internal/journal"
	"github.com/quocphu/sushiswap-lite/internal/menu"
	"github.com/quocphu/sushiswap-lite/internal/swap"
	"github.com/quocphu/sushiswap-lite/internal/token"
	"github.com/quocphu/sushiswap-lite/internal/wallet"
)

var sushi = token.Fungible{
	Sym:     "SUSHI",
	Address: common.HexToAddress("0x6B3595068778DD592e39A122f4f5a5cF09C90fE2"),
	Dec:     18,
}

// chain serves one SUSHI/WETH pair with reserves 2000/1000.
type chain struct {
	callErr error
	sent    []*types.Transaction
}

func (c *chain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if c.callErr != nil {
		return nil, c.callErr
	}
	switch {
	case bytes.Equal(msg.Data[:4], v2.FactoryABI.Methods["getPair"].ID):
		return v2.FactoryABI.Methods["getPair"].Outputs.Pack(common.HexToAddress("0x795065dCc9f64b5614C407a6EFDC400DA6221FB0"))
	case bytes.Equal(msg.Data[:4], v2.PairABI.Methods["getReserves"].ID):
		return v2.PairABI.Methods["getReserves"].Outputs.Pack(big.NewInt(2000), big.NewInt(1000), uint32(0))
	}
	return nil, errors.New("unexpected call")
}

func (c *chain) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) { return 50_000, nil }
func (c *chain) PendingNonceAt(context.Context, common.Address) (uint64, error) { return 0, nil }
func (c *chain) SuggestGasTipCap(context.Context) (*big.Int, error)             { return big.NewInt(1), nil }
func (c *chain) SuggestGasPrice(context.Context) (*big.Int, error)              { return big.NewInt(1), nil }

func (c *chain) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(1)}, nil
}

func (c *chain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	c.sent = append(c.sent, tx)
	return nil
}

type memJournal struct{ recs []journal.Record }

func (m *memJournal) Publish(_ context.Context, rec journal.Record) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memJournal) Recent(_ context.Context, n int64) ([]journal.Record, error) {
	out := make([]journal.Record, 0, len(m.recs))
	for i := len(m.recs) - 1; i >= 0 && int64(len(out)) < n; i-- {
		out = append(out, m.recs[i])
	}
	return out, nil
}

const watchAddr = "0xABCDEF1234567890ABCDEF1234567890ABCD7890"

func newServer(t *testing.T, w wallet.Context, opts Options, j Journal) *Server {
	t.Helper()
	if opts.PrimaryChainID == 0 {
		opts.PrimaryChainID = 1
	}
	reg := token.NewRegistry(token.Ether, token.WETH, sushi)
	return New(opts, swap.New(), w, reg, j, zap.NewNop())
}

func signing(t *testing.T, c *chain) wallet.Signing {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := wallet.NewKeySigner(key, 1)
	return wallet.Signing{Acct: wallet.Account{ChainID: 1, Address: s.Address().Hex()}, Backend: c, Signer: s}
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestMenu(t *testing.T) {
	s := newServer(t, wallet.ReadOnly{Acct: wallet.Account{ChainID: 1, Address: watchAddr}}, Options{}, nil)

	rec := do(t, s, http.MethodGet, "/api/menu?path=/liquidity/add&expanded=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var v menu.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.True(t, v.Visible)
	assert.Equal(t, "0xABCD...7890", v.Status.Text)
	assert.True(t, v.Status.Connected)
	require.Len(t, v.Items, 4)
	assert.False(t, v.Items[0].Active)
	assert.True(t, v.Items[1].Active)
}

func TestMenu_Collapsed(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{DarkByDefault: true}, nil)

	rec := do(t, s, http.MethodGet, "/api/menu", "")
	var v menu.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.False(t, v.Visible)
	assert.True(t, v.Dark)
	assert.Empty(t, v.Items)
}

func TestIndex(t *testing.T) {
	s := newServer(t, wallet.ReadOnly{Acct: wallet.Account{ChainID: 4, Address: watchAddr}}, Options{}, nil)

	rec := do(t, s, http.MethodGet, "/?path=/swap&expanded=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Not connected")
	assert.Contains(t, body, "Staking")
	assert.Contains(t, body, "item active")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQuote(t *testing.T) {
	s := newServer(t, wallet.ReadOnly{Acct: wallet.Account{ChainID: 1}, Provider: &chain{}}, Options{}, nil)

	rec := do(t, s, http.MethodGet, "/api/quote?from=eth&to=SUSHI&amount=0.0000000000000001", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var q quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "ETH", q.From)
	assert.Equal(t, "SUSHI", q.To)
	assert.Equal(t, "100", q.AmountInRaw)
	assert.Equal(t, "181", q.AmountOutRaw)
	assert.Equal(t, "0.5%", q.Slippage)
	assert.Equal(t, []string{token.WETH.Address.Hex(), sushi.Address.Hex()}, q.Path)
}

func TestQuote_NotReady(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{}, nil)
	rec := do(t, s, http.MethodGet, "/api/quote?from=ETH&to=SUSHI&amount=1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestQuote_BadInput(t *testing.T) {
	s := newServer(t, wallet.ReadOnly{Provider: &chain{}}, Options{}, nil)
	for _, target := range []string{
		"/api/quote?from=DOGE&to=SUSHI&amount=1",
		"/api/quote?from=ETH&to=SUSHI&amount=abc",
		"/api/quote?from=ETH&to=SUSHI&amount=-1",
		"/api/quote?from=ETH&to=SUSHI&amount=0",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestQuote_UpstreamError(t *testing.T) {
	s := newServer(t, wallet.ReadOnly{Provider: &chain{callErr: errors.New("429")}}, Options{}, nil)
	rec := do(t, s, http.MethodGet, "/api/quote?from=ETH&to=SUSHI&amount=1", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFee(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{}, nil)
	rec := do(t, s, http.MethodGet, "/api/fee?symbol=ETH&amount=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "0.003", out["fee"])
	assert.Equal(t, "3000000000000000", out["feeRaw"])
}

func TestExecution_Disabled(t *testing.T) {
	c := &chain{}
	s := newServer(t, signing(t, c), Options{}, nil)
	for _, p := range []string{"/api/swap", "/api/wrap", "/api/unwrap"} {
		rec := do(t, s, http.MethodPost, p, `{"from":"ETH","to":"SUSHI","amount":"1"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code, p)
	}
	assert.Empty(t, c.sent)
}

func TestSwap(t *testing.T) {
	c := &chain{}
	j := &memJournal{}
	s := newServer(t, signing(t, c), Options{EnableExecution: true}, j)

	rec := do(t, s, http.MethodPost, "/api/swap", `{"from":"ETH","to":"SUSHI","amount":"0.0000000000000001"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, c.sent, 1)

	var out execResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, journal.KindSwap, out.Kind)
	assert.Equal(t, c.sent[0].Hash().Hex(), out.TxHash)
	assert.Equal(t, uint64(60_000), out.GasLimit)

	require.Len(t, j.recs, 1)
	assert.Equal(t, "180", j.recs[0].MinAmountOut)
	assert.Equal(t, "100", j.recs[0].AmountIn)
}

func TestSwap_ReadOnlyWallet(t *testing.T) {
	j := &memJournal{}
	s := newServer(t, wallet.ReadOnly{Provider: &chain{}}, Options{EnableExecution: true}, j)
	rec := do(t, s, http.MethodPost, "/api/swap", `{"from":"ETH","to":"SUSHI","amount":"1"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, j.recs)
}

func TestWrapAndHistory(t *testing.T) {
	c := &chain{}
	j := &memJournal{}
	s := newServer(t, signing(t, c), Options{EnableExecution: true}, j)

	rec := do(t, s, http.MethodPost, "/api/wrap", `{"amount":"0.5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, s, http.MethodPost, "/api/unwrap", `{"amount":"0.25"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, c.sent, 2)
	assert.Equal(t, "500000000000000000", c.sent[0].Value().String())
	assert.Equal(t, int64(0), c.sent[1].Value().Int64())

	rec = do(t, s, http.MethodGet, "/api/history?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []journal.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, journal.KindUnwrap, recs[0].Kind)
	assert.Equal(t, "WETH", recs[0].From)
	assert.Equal(t, "ETH", recs[0].To)
}

func TestHistory_NoJournal(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{}, nil)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/history", "").Code)
}

func TestHistory_BadLimit(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{}, &memJournal{})
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/history?limit=-3", "").Code)
}

func TestRequestID(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{}, nil)

	rec := do(t, s, http.MethodGet, "/api/menu", "")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func tap(t *testing.T, s *Server, body string) tapResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/menu/tap", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out tapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestMenuTap(t *testing.T) {
	s := newServer(t, wallet.ReadOnly{Acct: wallet.Account{ChainID: 1, Address: watchAddr}}, Options{}, nil)

	out := tap(t, s, `{"target":"theme","current":"/swap","expanded":true}`)
	assert.True(t, out.Expanded)
	assert.True(t, out.Dark)
	assert.Equal(t, menu.DarkPalette, out.View.Palette)

	out = tap(t, s, `{"target":"background","current":"/swap","expanded":true,"dark":true}`)
	assert.False(t, out.Expanded)
	assert.False(t, out.View.Visible)
	assert.True(t, out.Dark)

	out = tap(t, s, `{"target":"item","path":"/staking","current":"/swap","expanded":true}`)
	assert.Equal(t, "/staking", out.Current)
	assert.False(t, out.Expanded)

	out = tap(t, s, `{"target":"close","current":"/swap"}`)
	assert.False(t, out.Expanded, "taps on a hidden overlay change nothing")
	assert.Equal(t, "/swap", out.Current)
}

func TestMenuTap_BadTarget(t *testing.T) {
	s := newServer(t, wallet.Disconnected{}, Options{}, nil)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/menu/tap", `{"target":"swipe"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/menu/tap", `not json`).Code)
}
