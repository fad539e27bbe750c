package svm

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/svm-faucet/faucet/workpool"
)

func TestPooledLedgerDelegates(t *testing.T) {
	inner := &mockLedger{}
	ledger := NewPooledLedger(inner, workpool.New(2, zerolog.Nop()))
	account := solana.PublicKeyFromBytes(fill32(4))
	tx := &solana.Transaction{}
	var sig solana.Signature
	sig[1] = 2

	inner.On("LatestBlockhash", mock.Anything).Return(testBlockhash, nil).Once()
	inner.On("AccountExists", mock.Anything, account).Return(true, nil).Once()
	inner.On("TokenAccountBalance", mock.Anything, account).Return(uint64(77), nil).Once()
	inner.On("SendAndConfirmTransaction", mock.Anything, tx, uint64(1500)).Return(sig, nil).Once()

	ctx := context.Background()

	bh, err := ledger.LatestBlockhash(ctx)
	require.NoError(t, err)
	assert.Equal(t, testBlockhash, bh)

	exists, err := ledger.AccountExists(ctx, account)
	require.NoError(t, err)
	assert.True(t, exists)

	balance, err := ledger.TokenAccountBalance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), balance)

	got, err := ledger.SendAndConfirmTransaction(ctx, tx, 1500)
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	inner.AssertExpectations(t)
}

func TestPooledLedgerRunsToCompletionAfterCancel(t *testing.T) {
	inner := &mockLedger{}
	ledger := NewPooledLedger(inner, workpool.New(1, zerolog.Nop()))
	ctx, cancel := context.WithCancel(context.Background())

	var innerCtxErr error
	inner.On("SendAndConfirmTransaction", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cancel()
			time.Sleep(5 * time.Millisecond)
			innerCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return(solana.Signature{}, nil).Once()

	_, err := ledger.SendAndConfirmTransaction(ctx, &solana.Transaction{}, 1)
	require.NoError(t, err)
	assert.NoError(t, innerCtxErr)
}
