package svm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
)

// BuilderConfig fixes everything about a deposit that does not depend on the request
type BuilderConfig struct {
	Scheme        *Scheme
	EVMLoader     solana.PublicKey
	TokenMint     solana.PublicKey
	ChainID       uint64
	SeedVersion   byte
	ComputeBudget ComputeBudget
}

// Plan records where each instruction landed in the built list; absent ones are -1
type Plan struct {
	Memo          int
	ComputeBudget []int
	Create        int
	Approve       int
	Deposit       int
	Addresses     *Derived
}

// InstructionBuilder turns one airdrop into the ordered instructions of its transaction
type InstructionBuilder struct {
	cfg    BuilderConfig
	ledger Ledger
	logger zerolog.Logger
}

// NewInstructionBuilder creates a builder; ledger is only used to probe the balance account
func NewInstructionBuilder(cfg BuilderConfig, ledger Ledger, logger zerolog.Logger) (*InstructionBuilder, error) {
	if cfg.Scheme == nil {
		return nil, fmt.Errorf("scheme is required")
	}
	if cfg.EVMLoader.IsZero() {
		return nil, fmt.Errorf("evm loader program id is required")
	}
	if cfg.TokenMint.IsZero() {
		return nil, fmt.Errorf("token mint is required")
	}
	if cfg.Scheme.CreatesBalance && ledger == nil {
		return nil, fmt.Errorf("ledger is required by the %s protocol", cfg.Scheme.Protocol)
	}

	return &InstructionBuilder{
		cfg:    cfg,
		ledger: ledger,
		logger: logger.With().Str("component", "svm_instruction_builder").Str("protocol", string(cfg.Scheme.Protocol)).Logger(),
	}, nil
}

// Scheme returns the active protocol scheme
func (b *InstructionBuilder) Scheme() *Scheme {
	return b.cfg.Scheme
}

// Build derives the recipient's addresses and returns, in execution order:
// memo, compute-budget hints, the balance account creation when it is
// missing, approve and deposit.
func (b *InstructionBuilder) Build(
	ctx context.Context,
	reqID string,
	operator solana.PublicKey,
	addr common.Address,
	amount uint64,
) ([]solana.Instruction, *Plan, error) {
	scheme := b.cfg.Scheme
	log := b.logger.With().Str("req_id", reqID).Logger()

	derived, err := scheme.Derive(b.cfg.EVMLoader, b.cfg.TokenMint, operator, b.cfg.SeedVersion, addr, b.cfg.ChainID)
	if err != nil {
		return nil, nil, ferrors.NewInternalError(ferrors.StageDerive, "address derivation failed", err).
			WithContext("address", addr.Hex())
	}

	log.Debug().
		Str("balance", derived.Balance.String()).
		Str("contract", derived.Contract.String()).
		Str("source", derived.Source.String()).
		Str("pool", derived.Pool.String()).
		Msg("derived deposit accounts")

	plan := &Plan{Create: -1, Addresses: derived}
	instructions := make([]solana.Instruction, 0, 7)

	plan.Memo = len(instructions)
	instructions = append(instructions, NewMemoInstruction(reqID, operator))

	hints, err := ComputeBudgetInstructions(b.cfg.ComputeBudget, log)
	if err != nil {
		return nil, nil, ferrors.NewConfigError(ferrors.StageBuild, "invalid compute budget", err)
	}
	for _, ix := range hints {
		plan.ComputeBudget = append(plan.ComputeBudget, len(instructions))
		instructions = append(instructions, ix)
	}

	if scheme.CreatesBalance {
		exists, err := b.ledger.AccountExists(ctx, derived.Balance)
		if err != nil {
			return nil, nil, ferrors.WrapFaucetError(err, ferrors.ErrCodeLedger, ferrors.StageLookup, "balance account lookup failed").
				WithContext("balance", derived.Balance.String())
		}
		if !exists {
			log.Debug().Str("balance", derived.Balance.String()).Msg("balance account not found, creating")
			plan.Create = len(instructions)
			instructions = append(instructions, NewCreateBalanceInstruction(b.cfg.EVMLoader, operator, derived.Balance, addr, derived.BalanceBump))
		}
	}

	delegate := derived.Authority
	if scheme.ApproveToBalance {
		delegate = derived.Balance
	}
	approve, err := NewApproveInstruction(derived.Source, delegate, operator, amount)
	if err != nil {
		return nil, nil, ferrors.NewInternalError(ferrors.StageBuild, "approve instruction", err)
	}
	plan.Approve = len(instructions)
	instructions = append(instructions, approve)

	deposit := NewDepositInstruction(scheme, b.cfg.EVMLoader, DepositAccounts{
		Mint:      b.cfg.TokenMint,
		Source:    derived.Source,
		Pool:      derived.Pool,
		Balance:   derived.Balance,
		Contract:  derived.Contract,
		Authority: derived.Authority,
		Signer:    operator,
	}, addr, b.cfg.ChainID)
	plan.Deposit = len(instructions)
	instructions = append(instructions, deposit)

	log.Debug().
		Int("instructions", len(instructions)).
		Bool("create_balance", plan.Create >= 0).
		Uint64("amount", amount).
		Msg("instructions built")

	return instructions, plan, nil
}
