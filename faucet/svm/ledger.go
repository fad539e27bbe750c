package svm

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/pushchain/svm-faucet/faucet/workpool"
)

// Blockhash is a freshness token together with the last block height it is valid for
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Ledger is the remote ledger as seen by the airdrop pipeline. Every method
// blocks on network I/O.
type Ledger interface {
	// LatestBlockhash fetches a fresh blockhash
	LatestBlockhash(ctx context.Context) (Blockhash, error)

	// AccountExists reports whether an account is allocated at address
	AccountExists(ctx context.Context, address solana.PublicKey) (bool, error)

	// TokenAccountBalance returns the raw token amount held by account; it fails
	// if the account does not exist
	TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error)

	// SendAndConfirmTransaction submits tx and waits until it reaches the
	// configured commitment, fails, or its blockhash expires
	SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64) (solana.Signature, error)
}

// PooledLedger runs every call of the wrapped Ledger on a blocking worker pool
type PooledLedger struct {
	inner Ledger
	pool  *workpool.Pool
}

var _ Ledger = (*PooledLedger)(nil)

// NewPooledLedger wraps inner so that its calls are dispatched onto pool
func NewPooledLedger(inner Ledger, pool *workpool.Pool) *PooledLedger {
	return &PooledLedger{inner: inner, pool: pool}
}

func (l *PooledLedger) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	return workpool.Run(ctx, l.pool, "latest_blockhash", func() (Blockhash, error) {
		return l.inner.LatestBlockhash(context.WithoutCancel(ctx))
	})
}

func (l *PooledLedger) AccountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	return workpool.Run(ctx, l.pool, "account_exists", func() (bool, error) {
		return l.inner.AccountExists(context.WithoutCancel(ctx), address)
	})
}

func (l *PooledLedger) TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return workpool.Run(ctx, l.pool, "token_account_balance", func() (uint64, error) {
		return l.inner.TokenAccountBalance(context.WithoutCancel(ctx), account)
	})
}

func (l *PooledLedger) SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64) (solana.Signature, error) {
	return workpool.Run(ctx, l.pool, "send_and_confirm", func() (solana.Signature, error) {
		return l.inner.SendAndConfirmTransaction(context.WithoutCancel(ctx), tx, lastValidBlockHeight)
	})
}
