// Package wallet describes what the connected wallet can do right now.
//
// A Context is one of three variants: Disconnected (nothing), ReadOnly (a
// chain provider for calls and estimates) or Signing (a provider that can
// also submit, plus a signer). Operations ask for the capability they need
// through ProviderOf / SignerOf instead of checking nil fields.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Account is the display side of a wallet connection.
type Account struct {
	ChainID uint64
	Address string
	Name    string
}

// Provider is the read-only chain surface.
type Provider interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// Backend is a Provider that can also price and submit transactions.
// *ethclient.Client satisfies it.
type Backend interface {
	Provider
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Signer signs transactions for a single address.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction) (*types.Transaction, error)
}

// Context is the wallet readiness state. The variants are Disconnected,
// ReadOnly and Signing.
type Context interface {
	Account() Account
	isContext()
}

type Disconnected struct {
	Acct Account
}

type ReadOnly struct {
	Acct     Account
	Provider Provider
}

type Signing struct {
	Acct    Account
	Backend Backend
	Signer  Signer
}

func (d Disconnected) Account() Account { return d.Acct }
func (r ReadOnly) Account() Account     { return r.Acct }
func (s Signing) Account() Account      { return s.Acct }

func (Disconnected) isContext() {}
func (ReadOnly) isContext()     {}
func (Signing) isContext()      {}

// ProviderOf returns the read-only provider of w, if it has one.
func ProviderOf(w Context) (Provider, bool) {
	switch v := w.(type) {
	case ReadOnly:
		return v.Provider, v.Provider != nil
	case Signing:
		return v.Backend, v.Backend != nil
	default:
		return nil, false
	}
}

// SignerOf returns w as a Signing context, if it is one.
func SignerOf(w Context) (Signing, bool) {
	s, ok := w.(Signing)
	if !ok || s.Backend == nil || s.Signer == nil {
		return Signing{}, false
	}
	return s, true
}
