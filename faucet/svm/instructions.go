package svm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/rs/zerolog"
)

// MemoProgramID is the SPL memo program
var MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// memoPrefix is prepended to the request id in the memo of every airdrop
const memoPrefix = "Neon Faucet "

// Heap frame bounds accepted by the runtime
const (
	MinHeapFrameBytes = 32 * 1024
	MaxHeapFrameBytes = 256 * 1024
)

// ComputeBudget holds the optional compute-budget hints; zero values are not sent
type ComputeBudget struct {
	HeapSize  uint32
	UnitLimit uint32
	UnitPrice uint64
}

// NewMemoInstruction tags the transaction with the request id
func NewMemoInstruction(reqID string, signer solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		MemoProgramID,
		solana.AccountMetaSlice{solana.Meta(signer).SIGNER()},
		[]byte(memoPrefix+reqID),
	)
}

// ComputeBudgetInstructions returns the heap, unit limit and unit price hints in that order
func ComputeBudgetInstructions(cb ComputeBudget, logger zerolog.Logger) ([]solana.Instruction, error) {
	instructions := make([]solana.Instruction, 0, 3)

	if cb.HeapSize == 0 {
		logger.Warn().Msg("compute budget heap size is zero, skipping")
	} else {
		if cb.HeapSize%1024 != 0 || cb.HeapSize < MinHeapFrameBytes || cb.HeapSize > MaxHeapFrameBytes {
			return nil, fmt.Errorf("heap size %d must be a multiple of 1024 between %d and %d", cb.HeapSize, MinHeapFrameBytes, MaxHeapFrameBytes)
		}
		ix, err := computebudget.NewRequestHeapFrameInstruction(cb.HeapSize).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build heap frame instruction: %w", err)
		}
		instructions = append(instructions, ix)
	}

	if cb.UnitLimit == 0 {
		logger.Warn().Msg("compute budget unit limit is zero, skipping")
	} else {
		ix, err := computebudget.NewSetComputeUnitLimitInstruction(cb.UnitLimit).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
		}
		instructions = append(instructions, ix)
	}

	if cb.UnitPrice == 0 {
		logger.Warn().Msg("compute budget unit price is zero, skipping")
	} else {
		ix, err := computebudget.NewSetComputeUnitPriceInstruction(cb.UnitPrice).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
		}
		instructions = append(instructions, ix)
	}

	return instructions, nil
}

// NewApproveInstruction lets delegate spend exactly amount from source
func NewApproveInstruction(source, delegate, owner solana.PublicKey, amount uint64) (solana.Instruction, error) {
	ix, err := token.NewApproveInstruction(amount, source, delegate, owner, nil).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build approve instruction: %w", err)
	}
	return ix, nil
}

// NewCreateBalanceInstruction allocates the balance account of addr, paid by operator
func NewCreateBalanceInstruction(programID, operator, balance solana.PublicKey, addr common.Address, bump uint8) solana.Instruction {
	data := make([]byte, 0, 2+common.AddressLength)
	data = append(data, OpcodeCreateBalance)
	data = append(data, addr.Bytes()...)
	data = append(data, bump)

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(operator).WRITE().SIGNER(),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(balance).WRITE(),
		},
		data,
	)
}

// NewDepositInstruction encodes the scheme's deposit of the approved amount into addr's balance
func NewDepositInstruction(s *Scheme, programID solana.PublicKey, accounts DepositAccounts, addr common.Address, chainID uint64) solana.Instruction {
	return solana.NewInstruction(
		programID,
		s.DepositAccountMetas(accounts),
		s.DepositPayload(addr, chainID),
	)
}
