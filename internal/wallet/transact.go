package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	fallbackTip     = big.NewInt(2_000_000_000)
	fallbackBaseFee = big.NewInt(5_000_000_000)
)

// EstimateGas estimates a call from the signer's address.
func (s Signing) EstimateGas(ctx context.Context, to common.Address, data []byte, value *big.Int) (uint64, error) {
	gas, err := s.Backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.Signer.Address(),
		To:    &to,
		Data:  data,
		Value: value,
	})
	if err != nil {
		return 0, fmt.Errorf("estimate gas: %w", err)
	}
	return gas, nil
}

// Transact signs and submits an EIP-1559 transaction with the given gas
// limit and returns the signed transaction.
func (s Signing) Transact(ctx context.Context, to common.Address, data []byte, value *big.Int, gas uint64) (*types.Transaction, error) {
	if value == nil {
		value = new(big.Int)
	}
	tip, feeCap := s.fees(ctx)

	nonce, err := s.Backend.PendingNonceAt(ctx, s.Signer.Address())
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(s.Acct.ChainID),
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	signed, err := s.Signer.SignTx(tx)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if err := s.Backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}
	return signed, nil
}

// fees returns tip and fee cap; fee cap is 2*baseFee + tip.
func (s Signing) fees(ctx context.Context) (tip, feeCap *big.Int) {
	tip, err := s.Backend.SuggestGasTipCap(ctx)
	if err != nil || tip == nil {
		tip = fallbackTip
	}
	var baseFee *big.Int
	if h, _ := s.Backend.HeaderByNumber(ctx, nil); h != nil && h.BaseFee != nil {
		baseFee = h.BaseFee
	} else if sp, _ := s.Backend.SuggestGasPrice(ctx); sp != nil {
		baseFee = sp
	} else {
		baseFee = fallbackBaseFee
	}
	feeCap = new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	return tip, feeCap
}
