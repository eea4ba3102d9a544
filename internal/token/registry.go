package token

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrUnknownToken = errors.New("unknown token")

// Registry resolves ticker symbols to tokens. Lookups are case-insensitive.
type Registry struct {
	mu     sync.RWMutex
	native Native
	weth   Fungible
	bySym  map[string]Token
}

func NewRegistry(native Native, weth Fungible, tokens ...Fungible) *Registry {
	r := &Registry{
		native: native,
		weth:   weth,
		bySym:  make(map[string]Token, len(tokens)+2),
	}
	r.Add(native)
	r.Add(weth)
	for _, t := range tokens {
		r.Add(t)
	}
	return r
}

func (r *Registry) Add(t Token) {
	r.mu.Lock()
	r.bySym[strings.ToUpper(t.Symbol())] = t
	r.mu.Unlock()
}

func (r *Registry) Native() Native { return r.native }
func (r *Registry) WETH() Fungible { return r.weth }

func (r *Registry) Lookup(symbol string) (Token, error) {
	r.mu.RLock()
	t, ok := r.bySym[strings.ToUpper(strings.TrimSpace(symbol))]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownToken, symbol)
	}
	return t, nil
}

// Symbols lists the known symbols in alphabetical order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.bySym))
	for _, t := range r.bySym {
		out = append(out, t.Symbol())
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
