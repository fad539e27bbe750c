package svm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// depositSeed is the seed of the evm loader's deposit authority
var depositSeed = []byte("Deposit")

// ParseExternalAddress parses a 20-byte hex address, with or without the 0x prefix
func ParseExternalAddress(s string) (common.Address, error) {
	trimmed := strings.TrimSpace(s)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("invalid address %q: expected 20 hex-encoded bytes", s)
	}
	return common.HexToAddress(trimmed), nil
}

// chainIDSeed encodes chainID as a 32-byte big-endian word
func chainIDSeed(chainID uint64) []byte {
	word := uint256.NewInt(chainID).Bytes32()
	return word[:]
}

// DeriveBalanceAddress derives the balance account of addr under programID
func DeriveBalanceAddress(programID solana.PublicKey, seedVersion byte, addr common.Address, chainID uint64, withChainID bool) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{{seedVersion}, addr.Bytes()}
	if withChainID {
		seeds = append(seeds, chainIDSeed(chainID))
	}
	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive balance address of %s: %w", addr.Hex(), err)
	}
	return pda, bump, nil
}

// DeriveContractAddress derives the contract account of addr used by the legacy deposit
func DeriveContractAddress(programID solana.PublicKey, seedVersion byte, addr common.Address) (solana.PublicKey, uint8, error) {
	pda, bump, err := solana.FindProgramAddress([][]byte{{seedVersion}, addr.Bytes()}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive contract address of %s: %w", addr.Hex(), err)
	}
	return pda, bump, nil
}

// DepositAuthority derives the evm loader's token authority
func DepositAuthority(programID solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{depositSeed}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive deposit authority: %w", err)
	}
	return pda, nil
}

// OperatorTokenAccount returns the associated token account of operator for mint
func OperatorTokenAccount(operator, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(operator, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive token account of %s: %w", operator, err)
	}
	return ata, nil
}

// DepositPool returns the token account owned by the deposit authority
func DepositPool(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	authority, err := DepositAuthority(programID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	pool, _, err := solana.FindAssociatedTokenAddress(authority, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive deposit pool: %w", err)
	}
	return pool, nil
}

// Derived holds every address a deposit of one recipient needs
type Derived struct {
	Balance     solana.PublicKey
	BalanceBump uint8
	Contract    solana.PublicKey
	Authority   solana.PublicKey
	Pool        solana.PublicKey
	Source      solana.PublicKey
}

// Derive computes the scheme's addresses for addr
func (s *Scheme) Derive(programID, mint, operator solana.PublicKey, seedVersion byte, addr common.Address, chainID uint64) (*Derived, error) {
	var (
		d   Derived
		err error
	)

	d.Balance, d.BalanceBump, err = DeriveBalanceAddress(programID, seedVersion, addr, chainID, s.ChainIDInBalanceSeeds)
	if err != nil {
		return nil, err
	}

	if s.NeedsContract {
		d.Contract, _, err = DeriveContractAddress(programID, seedVersion, addr)
		if err != nil {
			return nil, err
		}
	}

	if d.Authority, err = DepositAuthority(programID); err != nil {
		return nil, err
	}
	if d.Pool, err = DepositPool(programID, mint); err != nil {
		return nil, err
	}
	if d.Source, err = OperatorTokenAccount(operator, mint); err != nil {
		return nil, err
	}

	return &d, nil
}
