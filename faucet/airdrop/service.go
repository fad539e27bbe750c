// Package airdrop validates airdrop requests and drives them through
// derivation, instruction building and submission.
package airdrop

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/pushchain/svm-faucet/faucet/amount"
	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
	"github.com/pushchain/svm-faucet/faucet/metrics"
	"github.com/pushchain/svm-faucet/faucet/svm"
)

// Request asks for amount tokens to be deposited to wallet
type Request struct {
	Wallet string `json:"wallet"`
	Amount uint64 `json:"amount"`
	// InFractions marks Amount as already expressed in the token's smallest unit
	InFractions bool `json:"in_fractions"`
}

// Config holds the request-independent limits of the service
type Config struct {
	// MaxAmount is the per-request ceiling in whole tokens
	MaxAmount uint64
	Decimals  uint8
	TokenMint solana.PublicKey
}

// Service processes airdrop requests
type Service struct {
	cfg       Config
	builder   *svm.InstructionBuilder
	submitter *svm.Submitter
	ledger    svm.Ledger
	operator  solana.PrivateKey
	logger    zerolog.Logger

	checkMu sync.Mutex
	checked bool
}

// NewService creates the airdrop service. ledger is used for the operator
// token account check of the legacy protocol.
func NewService(
	cfg Config,
	builder *svm.InstructionBuilder,
	submitter *svm.Submitter,
	ledger svm.Ledger,
	operator solana.PrivateKey,
	logger zerolog.Logger,
) (*Service, error) {
	if builder == nil {
		return nil, fmt.Errorf("instruction builder is required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	if len(operator) != 64 {
		return nil, fmt.Errorf("operator key must be 64 bytes, got %d", len(operator))
	}
	if builder.Scheme().RequiresOperatorCheck && ledger == nil {
		return nil, fmt.Errorf("ledger is required by the %s protocol", builder.Scheme().Protocol)
	}

	return &Service{
		cfg:       cfg,
		builder:   builder,
		submitter: submitter,
		ledger:    ledger,
		operator:  operator,
		logger:    logger.With().Str("component", "airdrop").Logger(),
	}, nil
}

// Airdrop validates req and deposits the tokens, returning once the
// transaction is confirmed or has failed.
func (s *Service) Airdrop(ctx context.Context, reqID string, req Request) (err error) {
	log := s.logger.With().Str("req_id", reqID).Logger()
	defer func() {
		result := "success"
		if err != nil {
			result = strings.ToLower(string(ferrors.CodeOf(err)))
		}
		metrics.AirdropsTotal.WithLabelValues(result).Inc()
	}()

	log.Info().
		Str("wallet", req.Wallet).
		Uint64("amount", req.Amount).
		Bool("in_fractions", req.InFractions).
		Msg("processing airdrop")

	addr, err := svm.ParseExternalAddress(req.Wallet)
	if err != nil {
		return ferrors.NewValidationError(ferrors.StageParse, "invalid wallet", err)
	}

	fractions, err := s.checkAmount(req)
	if err != nil {
		return err
	}

	if s.builder.Scheme().RequiresOperatorCheck {
		if err = s.checkOperatorAccount(ctx, log); err != nil {
			return err
		}
	}

	instructions, plan, err := s.builder.Build(ctx, reqID, s.operator.PublicKey(), addr, fractions)
	if err != nil {
		return err
	}

	sig, err := s.submitter.Submit(ctx, reqID, s.operator, instructions)
	if err != nil {
		return err
	}

	tokens, _ := amount.FromFractions(fractions, s.cfg.Decimals)
	log.Info().
		Str("wallet", addr.Hex()).
		Uint64("tokens", tokens).
		Str("balance", plan.Addresses.Balance.String()).
		Uint64("fractions", fractions).
		Str("signature", sig.String()).
		Msg("airdrop completed")
	return nil
}

// checkAmount enforces the ceiling in the request's unit and returns the amount in fractions
func (s *Service) checkAmount(req Request) (uint64, error) {
	limit := s.cfg.MaxAmount
	if req.InFractions {
		scaled, err := amount.ToFractions(s.cfg.MaxAmount, s.cfg.Decimals)
		if err != nil {
			return 0, ferrors.NewConfigError(ferrors.StageConvert, "max amount cannot be expressed in fractions", err)
		}
		limit = scaled
	}

	if req.Amount > limit {
		return 0, ferrors.NewValidationError(ferrors.StageLimit,
			fmt.Sprintf("requested value %d exceeds the limit %d", req.Amount, limit), nil)
	}

	if req.InFractions {
		return req.Amount, nil
	}

	fractions, err := amount.ToFractions(req.Amount, s.cfg.Decimals)
	if err != nil {
		return 0, ferrors.NewValidationError(ferrors.StageConvert, "amount cannot be expressed in fractions", err)
	}
	return fractions, nil
}

// checkOperatorAccount verifies once per process that the operator token
// account exists and holds tokens. Failures are not remembered, so a
// topped-up account is picked up by the next request.
func (s *Service) checkOperatorAccount(ctx context.Context, log zerolog.Logger) error {
	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	if s.checked {
		return nil
	}

	account, err := svm.OperatorTokenAccount(s.operator.PublicKey(), s.cfg.TokenMint)
	if err != nil {
		return ferrors.NewPreconditionError("operator token account cannot be derived", err)
	}

	log.Info().Str("token_account", account.String()).Msg("checking operator token account")

	balance, err := s.ledger.TokenAccountBalance(ctx, account)
	if err != nil {
		return ferrors.NewPreconditionError("operator token account is not available", err).
			WithContext("token_account", account.String())
	}
	if balance == 0 {
		return ferrors.NewPreconditionError(fmt.Sprintf("account %s has zero token balance", account), nil).
			WithContext("token_account", account.String())
	}

	s.checked = true
	return nil
}
