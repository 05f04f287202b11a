package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrTxNotFound is returned when the ledger has no record for the
	// signature at the requested commitment level.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrInvalidSignature is returned when the signature is not valid base58.
	ErrInvalidSignature = errors.New("invalid transaction signature")
)

// Transaction is the subset of an on-chain transaction the payment verifier
// needs: the ordered account keys of the message and the balance-delta
// metadata.
type Transaction struct {
	Signature    string
	Slot         uint64
	BlockTime    *time.Time
	AccountKeys  []string
	PreBalances  []uint64
	PostBalances []uint64
	// ExecutionErr is empty when the transaction executed successfully.
	ExecutionErr string
}

// Client looks up transactions on a Solana RPC endpoint.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	timeout    time.Duration
}

// NewClient creates an RPC client bound to one endpoint. Commitment accepts
// "confirmed" or "finalized"; anything else falls back to confirmed.
func NewClient(endpoint, commitment string, timeout time.Duration) *Client {
	level := rpc.CommitmentConfirmed
	if commitment == "finalized" {
		level = rpc.CommitmentFinalized
	}
	return &Client{
		rpc:        rpc.New(endpoint),
		commitment: level,
		timeout:    timeout,
	}
}

// GetTransaction fetches one transaction by signature. A single round-trip,
// no retries: transient RPC failures surface to the caller.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*Transaction, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrTxNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if out == nil {
		return nil, ErrTxNotFound
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	result := &Transaction{
		Signature:   signature,
		Slot:        out.Slot,
		AccountKeys: make([]string, 0, len(tx.Message.AccountKeys)),
	}
	for _, key := range tx.Message.AccountKeys {
		result.AccountKeys = append(result.AccountKeys, key.String())
	}
	if out.BlockTime != nil {
		t := out.BlockTime.Time()
		result.BlockTime = &t
	}
	if out.Meta != nil {
		result.PreBalances = out.Meta.PreBalances
		result.PostBalances = out.Meta.PostBalances
		if out.Meta.Err != nil {
			result.ExecutionErr = fmt.Sprintf("%v", out.Meta.Err)
		}
	}
	return result, nil
}
