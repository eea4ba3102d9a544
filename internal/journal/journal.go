// Package journal keeps a Redis record of submitted transactions: one
// stream entry per submission plus a hash keyed by transaction hash.
package journal

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type Kind string

const (
	KindSwap   Kind = "swap"
	KindWrap   Kind = "wrap"
	KindUnwrap Kind = "unwrap"
)

type Record struct {
	Kind         Kind   `json:"kind"`
	TxHash       string `json:"txHash"`
	From         string `json:"from"`
	To           string `json:"to"`
	AmountIn     string `json:"amountIn"`
	MinAmountOut string `json:"minAmountOut,omitempty"`
	Recipient    string `json:"recipient"`
	GasLimit     uint64 `json:"gasLimit"`
	TsMs         int64  `json:"tsMs"`
}

type Options struct {
	Addr     string
	DB       int
	Username string
	Password string
	// Stream defaults to "swap:stream", TxNS to "swap:tx:".
	Stream string
	TxNS   string
}

type Journal struct {
	rdb    *redis.Client
	stream string
	txNS   string
}

func New(opts Options) *Journal {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		DB:       opts.DB,
		Username: opts.Username,
		Password: opts.Password,
	}), opts.Stream, opts.TxNS)
}

func NewWithClient(rdb *redis.Client, stream, txNS string) *Journal {
	if stream == "" {
		stream = "swap:stream"
	}
	if txNS == "" {
		txNS = "swap:tx:"
	}
	return &Journal{rdb: rdb, stream: stream, txNS: txNS}
}

func (j *Journal) Close() error { return j.rdb.Close() }

// Publish appends rec to the stream and stores it under its hash in one
// MULTI/EXEC, so neither write lands without the other.
func (j *Journal) Publish(ctx context.Context, rec Record) error {
	values := rec.values()
	_, err := j.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: j.stream,
			Values: values,
		})
		pipe.HSet(ctx, j.txNS+rec.TxHash, values)
		return nil
	})
	return err
}

// Get reads the record stored for txHash; redis.Nil when absent.
func (j *Journal) Get(ctx context.Context, txHash string) (Record, error) {
	m, err := j.rdb.HGetAll(ctx, j.txNS+txHash).Result()
	if err != nil {
		return Record{}, err
	}
	if len(m) == 0 {
		return Record{}, redis.Nil
	}
	return fromStrings(m), nil
}

// Recent returns up to n records, newest first.
func (j *Journal) Recent(ctx context.Context, n int64) ([]Record, error) {
	msgs, err := j.rdb.XRevRangeN(ctx, j.stream, "+", "-", n).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		s := make(map[string]string, len(m.Values))
		for k, v := range m.Values {
			if str, ok := v.(string); ok {
				s[k] = str
			}
		}
		out = append(out, fromStrings(s))
	}
	return out, nil
}

func (r Record) values() map[string]interface{} {
	return map[string]interface{}{
		"kind":           string(r.Kind),
		"tx_hash":        r.TxHash,
		"from":           r.From,
		"to":             r.To,
		"amount_in":      r.AmountIn,
		"min_amount_out": r.MinAmountOut,
		"recipient":      r.Recipient,
		"gas_limit":      r.GasLimit,
		"ts_ms":          r.TsMs,
	}
}

func fromStrings(m map[string]string) Record {
	gas, _ := strconv.ParseUint(m["gas_limit"], 10, 64)
	ts, _ := strconv.ParseInt(m["ts_ms"], 10, 64)
	return Record{
		Kind:         Kind(m["kind"]),
		TxHash:       m["tx_hash"],
		From:         m["from"],
		To:           m["to"],
		AmountIn:     m["amount_in"],
		MinAmountOut: m["min_amount_out"],
		Recipient:    m["recipient"],
		GasLimit:     gas,
		TsMs:         ts,
	}
}
