package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
)

type Options struct {
	RPCURL     string
	PrivateKey string
	// Address is shown for watch-only connections; ignored when a key is set.
	Address string
	Name    string
	// ChainID is asked from the node when zero.
	ChainID uint64
}

// Connect dials the node described by opts and returns the widest Context
// the options allow, plus a function releasing the connection.
func Connect(ctx context.Context, opts Options) (Context, func(), error) {
	noop := func() {}
	acct := Account{ChainID: opts.ChainID, Address: strings.TrimSpace(opts.Address), Name: opts.Name}

	if strings.TrimSpace(opts.RPCURL) == "" {
		return Disconnected{Acct: acct}, noop, nil
	}

	ec, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, noop, fmt.Errorf("dial rpc: %w", err)
	}
	if acct.ChainID == 0 {
		id, err := ec.ChainID(ctx)
		if err != nil {
			ec.Close()
			return nil, noop, fmt.Errorf("get chain id: %w", err)
		}
		acct.ChainID = id.Uint64()
	}

	if strings.TrimSpace(opts.PrivateKey) == "" {
		return ReadOnly{Acct: acct, Provider: ec}, ec.Close, nil
	}

	signer, err := KeySignerFromHex(opts.PrivateKey, acct.ChainID)
	if err != nil {
		ec.Close()
		return nil, noop, err
	}
	acct.Address = signer.Address().Hex()
	return Signing{Acct: acct, Backend: ec, Signer: signer}, ec.Close, nil
}
