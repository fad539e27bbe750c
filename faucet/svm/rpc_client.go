package svm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
	"github.com/pushchain/svm-faucet/faucet/metrics"
)

// DefaultPollInterval is the confirmation polling period used when none is configured
const DefaultPollInterval = 500 * time.Millisecond

// maxStatusFailures is the number of consecutive failed status polls after which confirmation gives up
const maxStatusFailures = 5

// maxHeightFailures is the number of consecutive failed block height reads after which confirmation gives up
const maxHeightFailures = 5

// rpcAPI is the subset of *rpc.Client the faucet calls
type rpcAPI interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
}

// RPCClient implements Ledger over one or more Solana JSON-RPC endpoints.
// Endpoints are picked round-robin and each call is attempted exactly once.
type RPCClient struct {
	clients      []rpcAPI
	index        uint64
	commitment   rpc.CommitmentType
	pollInterval time.Duration
	logger       zerolog.Logger
}

var _ Ledger = (*RPCClient)(nil)

// NewRPCClient creates a ledger client for the given endpoints
func NewRPCClient(rpcURLs []string, commitment rpc.CommitmentType, pollInterval time.Duration, logger zerolog.Logger) (*RPCClient, error) {
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("no RPC URLs provided")
	}

	clients := make([]rpcAPI, 0, len(rpcURLs))
	for _, url := range rpcURLs {
		clients = append(clients, rpc.New(url))
	}
	return newRPCClient(clients, commitment, pollInterval, logger), nil
}

func newRPCClient(clients []rpcAPI, commitment rpc.CommitmentType, pollInterval time.Duration, logger zerolog.Logger) *RPCClient {
	if commitment == "" {
		commitment = rpc.CommitmentFinalized
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &RPCClient{
		clients:      clients,
		commitment:   commitment,
		pollInterval: pollInterval,
		logger:       logger.With().Str("component", "svm_rpc_client").Logger(),
	}
}

// ParseCommitment maps a configured commitment name to the RPC commitment type
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch c := rpc.CommitmentType(s); c {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		return c, nil
	case "":
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("unknown commitment %q (expected processed, confirmed or finalized)", s)
	}
}

// Commitment returns the commitment level the client reads and confirms at
func (rc *RPCClient) Commitment() rpc.CommitmentType {
	return rc.commitment
}

// next picks the endpoint for one call
func (rc *RPCClient) next() rpcAPI {
	index := atomic.AddUint64(&rc.index, 1) - 1
	return rc.clients[index%uint64(len(rc.clients))]
}

// observe starts timing one ledger call; the returned func records it with the call's final error
func observe(operation string) func(*error) {
	start := time.Now()
	return func(err *error) {
		status := "ok"
		if *err != nil {
			status = "error"
		}
		metrics.LedgerCallDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
	}
}

// LatestBlockhash fetches a fresh blockhash
func (rc *RPCClient) LatestBlockhash(ctx context.Context) (result Blockhash, err error) {
	defer observe("get_latest_blockhash")(&err)

	resp, err := rc.next().GetLatestBlockhash(ctx, rc.commitment)
	if err != nil {
		return Blockhash{}, ferrors.NewLedgerError(ferrors.StageBlockhash, "failed to get latest blockhash", err)
	}
	if resp == nil || resp.Value == nil {
		return Blockhash{}, ferrors.NewLedgerError(ferrors.StageBlockhash, "empty blockhash response", nil)
	}
	return Blockhash{
		Hash:                 resp.Value.Blockhash,
		LastValidBlockHeight: resp.Value.LastValidBlockHeight,
	}, nil
}

// AccountExists reports whether an account is allocated at address
func (rc *RPCClient) AccountExists(ctx context.Context, address solana.PublicKey) (exists bool, err error) {
	defer observe("get_account_info")(&err)

	_, err = rc.next().GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: rc.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, ferrors.NewLedgerError(ferrors.StageLookup, "failed to get account info", err).
			WithContext("address", address.String())
	}
	return true, nil
}

// TokenAccountBalance returns the raw token amount held by account
func (rc *RPCClient) TokenAccountBalance(ctx context.Context, account solana.PublicKey) (amount uint64, err error) {
	defer observe("get_token_account_balance")(&err)

	resp, err := rc.next().GetTokenAccountBalance(ctx, account, rc.commitment)
	if err != nil {
		return 0, ferrors.NewLedgerError(ferrors.StageLookup, "failed to get token account balance", err).
			WithContext("account", account.String())
	}
	if resp == nil || resp.Value == nil {
		return 0, ferrors.NewLedgerError(ferrors.StageLookup, "token account not found", nil).
			WithContext("account", account.String())
	}

	amount, err = strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, ferrors.NewLedgerError(ferrors.StageLookup, "invalid token balance", err).
			WithContext("account", account.String())
	}
	return amount, nil
}

// SendAndConfirmTransaction submits tx and blocks until it reaches the
// client's commitment. The wait ends with success, the transaction's own
// error, blockhash expiry, or a run of failed status or block height reads.
func (rc *RPCClient) SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64) (sig solana.Signature, err error) {
	defer observe("send_and_confirm_transaction")(&err)

	if lastValidBlockHeight == 0 {
		return solana.Signature{}, ferrors.NewLedgerError(ferrors.StageBlockhash, "blockhash has no last valid block height", nil)
	}

	client := rc.next()
	sig, err = client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rc.commitment,
	})
	if err != nil {
		return solana.Signature{}, ferrors.NewLedgerError(ferrors.StageSubmit, "failed to send transaction", err)
	}

	rc.logger.Debug().Str("signature", sig.String()).Msg("transaction sent, waiting for confirmation")

	if err = rc.waitForConfirmation(ctx, client, sig, lastValidBlockHeight); err != nil {
		return sig, err
	}
	return sig, nil
}

// waitForConfirmation polls the endpoint the transaction was sent to. Block
// height is read before the status so that expiry is only reported once the
// transaction can no longer land.
func (rc *RPCClient) waitForConfirmation(ctx context.Context, client rpcAPI, sig solana.Signature, lastValidBlockHeight uint64) error {
	ticker := time.NewTicker(rc.pollInterval)
	defer ticker.Stop()

	failures, heightFailures := 0, 0
	for {
		height, heightErr := client.GetBlockHeight(ctx, rc.commitment)
		if heightErr != nil {
			heightFailures++
			if heightFailures >= maxHeightFailures {
				return ferrors.NewLedgerError(ferrors.StageConfirm, "failed to get block height", heightErr).
					WithContext("signature", sig.String()).
					WithContext("attempts", heightFailures)
			}
		} else {
			heightFailures = 0
		}

		statuses, err := client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			failures++
			if failures >= maxStatusFailures {
				return ferrors.NewLedgerError(ferrors.StageConfirm, "failed to get signature status", err).
					WithContext("signature", sig.String()).
					WithContext("attempts", failures)
			}
			rc.logger.Debug().Err(err).Int("failures", failures).Msg("error checking transaction status")
		} else {
			failures = 0
		}

		if err == nil && statuses != nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return ferrors.NewLedgerError(ferrors.StageConfirm, fmt.Sprintf("transaction failed: %v", status.Err), nil).
					WithContext("signature", sig.String())
			}
			if commitmentReached(status.ConfirmationStatus, rc.commitment) {
				return nil
			}
		}

		if heightErr != nil {
			rc.logger.Debug().Err(heightErr).Int("failures", heightFailures).Msg("failed to get block height")
		} else if err == nil && height > lastValidBlockHeight {
			return ferrors.NewLedgerError(ferrors.StageConfirm, "blockhash expired before confirmation", nil).
				WithContext("signature", sig.String()).
				WithContext("block_height", height).
				WithContext("last_valid_block_height", lastValidBlockHeight)
		}

		select {
		case <-ctx.Done():
			return ferrors.NewLedgerError(ferrors.StageConfirm, "confirmation aborted", ctx.Err()).
				WithContext("signature", sig.String())
		case <-ticker.C:
		}
	}
}

func statusRank(s rpc.ConfirmationStatusType) int {
	switch s {
	case rpc.ConfirmationStatusProcessed:
		return 1
	case rpc.ConfirmationStatusConfirmed:
		return 2
	case rpc.ConfirmationStatusFinalized:
		return 3
	default:
		return 0
	}
}

// commitmentReached reports whether status satisfies the wanted commitment
func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	return statusRank(status) >= statusRank(rpc.ConfirmationStatusType(want))
}
