package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sushi = Fungible{
	Sym:     "SUSHI",
	Address: common.HexToAddress("0x6B3595068778DD592e39A122f4f5a5cF09C90fE2"),
	Dec:     18,
}

func TestWrap(t *testing.T) {
	assert.Equal(t, WETH, Wrap(Ether, WETH))
	assert.Equal(t, sushi, Wrap(sushi, WETH))
	assert.True(t, IsNative(Ether))
	assert.False(t, IsNative(sushi))
}

func TestSortsBefore(t *testing.T) {
	// 0x6B35... < 0xC02a...
	assert.True(t, sushi.SortsBefore(WETH))
	assert.False(t, WETH.SortsBefore(sushi))
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(Ether, WETH, sushi)

	got, err := r.Lookup("eth")
	require.NoError(t, err)
	assert.Equal(t, Ether, got)

	got, err = r.Lookup(" Sushi ")
	require.NoError(t, err)
	assert.Equal(t, sushi, got)

	_, err = r.Lookup("DOGE")
	assert.ErrorIs(t, err, ErrUnknownToken)

	assert.Equal(t, []string{"ETH", "SUSHI", "WETH"}, r.Symbols())
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in   string
		dec  uint8
		want string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 6, "1500000"},
		{"0.0000001", 6, "0"},
		{"0", 18, "0"},
	}
	for _, c := range cases {
		got, err := ParseUnits(c.in, c.dec)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got.String(), c.in)
	}

	_, err := ParseUnits("abc", 18)
	assert.Error(t, err)
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1_500_000), 6))
	assert.Equal(t, "0", FormatUnits(nil, 18))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
}
