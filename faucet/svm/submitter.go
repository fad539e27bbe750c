package svm

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
)

// Submitter assembles, signs and submits one transaction per call. A new
// blockhash is fetched for every call and nothing is retried.
type Submitter struct {
	ledger Ledger
	logger zerolog.Logger
}

// NewSubmitter creates a submitter backed by ledger
func NewSubmitter(ledger Ledger, logger zerolog.Logger) *Submitter {
	return &Submitter{
		ledger: ledger,
		logger: logger.With().Str("component", "svm_submitter").Logger(),
	}
}

// Submit signs instructions with signer as fee payer and waits for confirmation
func (s *Submitter) Submit(
	ctx context.Context,
	reqID string,
	signer solana.PrivateKey,
	instructions []solana.Instruction,
) (solana.Signature, error) {
	log := s.logger.With().Str("req_id", reqID).Logger()

	if len(signer) != 64 {
		return solana.Signature{}, ferrors.NewLedgerError(ferrors.StageSign, "operator key is missing or malformed", nil)
	}
	payer := signer.PublicKey()

	blockhash, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, ferrors.WrapFaucetError(err, ferrors.ErrCodeLedger, ferrors.StageBlockhash, "failed to get recent blockhash")
	}
	if blockhash.LastValidBlockHeight == 0 {
		return solana.Signature{}, ferrors.NewLedgerError(ferrors.StageBlockhash, "recent blockhash has no last valid block height", nil).
			WithContext("blockhash", blockhash.Hash.String())
	}

	tx, err := solana.NewTransaction(instructions, blockhash.Hash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, ferrors.NewInternalError(ferrors.StageBuild, "failed to create transaction", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, ferrors.NewLedgerError(ferrors.StageSign, "failed to sign transaction", err)
	}

	log.Debug().
		Str("blockhash", blockhash.Hash.String()).
		Uint64("last_valid_block_height", blockhash.LastValidBlockHeight).
		Int("instructions", len(instructions)).
		Msg("submitting transaction")

	sig, err := s.ledger.SendAndConfirmTransaction(ctx, tx, blockhash.LastValidBlockHeight)
	if err != nil {
		return sig, ferrors.WrapFaucetError(err, ferrors.ErrCodeLedger, ferrors.StageSubmit, "transaction was not confirmed")
	}

	log.Info().Str("signature", sig.String()).Msg("transaction confirmed")
	return sig, nil
}
