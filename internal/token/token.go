// Package token models the assets a swap can move: the chain's native coin
// and ERC-20 tokens.
package token

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token is either Native or Fungible. The set of variants is closed.
type Token interface {
	Symbol() string
	Decimals() uint8
	isToken()
}

// Native is the chain's native asset (ETH on mainnet). It has no contract
// address and has to be wrapped before it can sit in a pair.
type Native struct {
	Sym string
	Dec uint8
}

func (n Native) Symbol() string  { return n.Sym }
func (n Native) Decimals() uint8 { return n.Dec }
func (Native) isToken()          {}

// Fungible is an ERC-20 token.
type Fungible struct {
	Sym     string
	Address common.Address
	Dec     uint8
}

func (f Fungible) Symbol() string  { return f.Sym }
func (f Fungible) Decimals() uint8 { return f.Dec }
func (Fungible) isToken()          {}

// SortsBefore reports whether f is token0 of a pair with other.
func (f Fungible) SortsBefore(other Fungible) bool {
	return strings.ToLower(f.Address.Hex()) < strings.ToLower(other.Address.Hex())
}

// Equal compares tokens by contract address.
func (f Fungible) Equal(other Fungible) bool { return f.Address == other.Address }

var (
	// Ether is the mainnet native asset.
	Ether = Native{Sym: "ETH", Dec: 18}

	// WETH is the mainnet wrapped ether contract.
	WETH = Fungible{
		Sym:     "WETH",
		Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		Dec:     18,
	}
)

// Wrap returns the pair-side representation of t: the wrapped token for the
// native asset, t itself otherwise.
func Wrap(t Token, weth Fungible) Fungible {
	switch v := t.(type) {
	case Fungible:
		return v
	default:
		return weth
	}
}

// IsNative reports whether t is the native variant.
func IsNative(t Token) bool {
	_, ok := t.(Native)
	return ok
}
