package v2

import (
	"errors"
	"fmt"

	"github.com/quocphu/sushiswap-lite/internal/token"
)

var ErrInvalidRoute = errors.New("invalid route")

// Route is an ordered list of pairs from Input to Output. Input and Output
// keep their original variant; Path holds the wrapped tokens actually traded.
type Route struct {
	Pairs  []*Pair
	Path   []token.Fungible
	Input  token.Token
	Output token.Token
	WETH   token.Fungible
}

func NewRoute(pairs []*Pair, input, output token.Token, weth token.Fungible) (*Route, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs", ErrInvalidRoute)
	}
	in := token.Wrap(input, weth)
	if !pairs[0].Involves(in) {
		return nil, fmt.Errorf("%w: %s not in first pair", ErrInvalidRoute, input.Symbol())
	}

	path := make([]token.Fungible, 0, len(pairs)+1)
	path = append(path, in)
	cur := in
	for i, p := range pairs {
		if !p.Involves(cur) {
			return nil, fmt.Errorf("%w: pair %d does not hold %s", ErrInvalidRoute, i, cur.Symbol())
		}
		cur = p.Other(cur)
		path = append(path, cur)
	}

	if out := token.Wrap(output, weth); !out.Equal(cur) {
		return nil, fmt.Errorf("%w: path ends in %s, want %s", ErrInvalidRoute, cur.Symbol(), output.Symbol())
	}
	return &Route{Pairs: pairs, Path: path, Input: input, Output: output, WETH: weth}, nil
}
