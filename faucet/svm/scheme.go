package svm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// Protocol selects the address-derivation and deposit encoding of the evm loader
type Protocol string

const (
	ProtocolLegacy       Protocol = "legacy"
	ProtocolIntermediate Protocol = "intermediate"
	ProtocolCurrent      Protocol = "current"
)

// Opcodes understood by the evm loader program
const (
	OpcodeDepositLegacy       byte = 0x31
	OpcodeDepositIntermediate byte = 0x1e
	OpcodeDeposit             byte = 0x19
	OpcodeCreateBalance       byte = 0x18
)

// ParseProtocol maps a configured protocol name to a Protocol
func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(strings.TrimSpace(s))); p {
	case ProtocolLegacy, ProtocolIntermediate, ProtocolCurrent:
		return p, nil
	case "":
		return ProtocolCurrent, nil
	default:
		return "", fmt.Errorf("unknown protocol %q (expected legacy, intermediate or current)", s)
	}
}

// DepositAccounts are the addresses a deposit instruction may reference
type DepositAccounts struct {
	Mint      solana.PublicKey
	Source    solana.PublicKey
	Pool      solana.PublicKey
	Balance   solana.PublicKey
	Contract  solana.PublicKey
	Authority solana.PublicKey
	Signer    solana.PublicKey
}

// Scheme is the wire contract of one protocol version. Every field is fixed at
// construction; a transaction is always built from a single scheme.
type Scheme struct {
	Protocol Protocol

	// DepositOpcode is the first byte of the deposit payload
	DepositOpcode byte

	// ChainIDInBalanceSeeds appends the chain id (32 bytes, big-endian) to the balance seeds
	ChainIDInBalanceSeeds bool

	// NeedsContract derives the contract account from [V, E]
	NeedsContract bool

	// CreatesBalance emits the create instruction when the balance account is missing
	CreatesBalance bool

	// ApproveToBalance makes the balance account the approve delegate instead of the deposit authority
	ApproveToBalance bool

	// RequiresOperatorCheck checks the operator token account once before the first deposit
	RequiresOperatorCheck bool

	payload  func(addr common.Address, chainID uint64) []byte
	accounts func(a DepositAccounts) solana.AccountMetaSlice
}

// DepositPayload encodes the deposit instruction data
func (s *Scheme) DepositPayload(addr common.Address, chainID uint64) []byte {
	return s.payload(addr, chainID)
}

// DepositAccountMetas returns the ordered account list of the deposit instruction
func (s *Scheme) DepositAccountMetas(a DepositAccounts) solana.AccountMetaSlice {
	return s.accounts(a)
}

var legacyScheme = Scheme{
	Protocol:              ProtocolLegacy,
	DepositOpcode:         OpcodeDepositLegacy,
	ChainIDInBalanceSeeds: true,
	NeedsContract:         true,
	ApproveToBalance:      true,
	RequiresOperatorCheck: true,
	payload: func(addr common.Address, chainID uint64) []byte {
		data := make([]byte, 0, 1+common.AddressLength+8)
		data = append(data, OpcodeDepositLegacy)
		data = append(data, addr.Bytes()...)
		return binary.LittleEndian.AppendUint64(data, chainID)
	},
	accounts: func(a DepositAccounts) solana.AccountMetaSlice {
		return solana.AccountMetaSlice{
			solana.Meta(a.Mint).WRITE(),
			solana.Meta(a.Source).WRITE(),
			solana.Meta(a.Pool).WRITE(),
			solana.Meta(a.Balance).WRITE(),
			solana.Meta(a.Contract).WRITE(),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(a.Signer).WRITE().SIGNER(),
			solana.Meta(solana.SystemProgramID),
		}
	},
}

var intermediateScheme = Scheme{
	Protocol:      ProtocolIntermediate,
	DepositOpcode: OpcodeDepositIntermediate,
	payload: func(addr common.Address, _ uint64) []byte {
		data := make([]byte, 0, 1+common.AddressLength)
		data = append(data, OpcodeDepositIntermediate)
		return append(data, addr.Bytes()...)
	},
	accounts: func(a DepositAccounts) solana.AccountMetaSlice {
		return solana.AccountMetaSlice{
			solana.Meta(a.Source).WRITE(),
			solana.Meta(a.Pool).WRITE(),
			solana.Meta(a.Balance).WRITE(),
			solana.Meta(a.Authority),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(a.Signer).WRITE().SIGNER(),
			solana.Meta(solana.SystemProgramID),
		}
	},
}

var currentScheme = Scheme{
	Protocol:       ProtocolCurrent,
	DepositOpcode:  OpcodeDeposit,
	CreatesBalance: true,
	payload: func(common.Address, uint64) []byte {
		return []byte{OpcodeDeposit}
	},
	accounts: func(a DepositAccounts) solana.AccountMetaSlice {
		return solana.AccountMetaSlice{
			solana.Meta(a.Source).WRITE(),
			solana.Meta(a.Pool).WRITE(),
			solana.Meta(a.Balance).WRITE(),
			solana.Meta(a.Authority),
			solana.Meta(solana.TokenProgramID),
		}
	},
}

// SchemeFor returns the wire contract of p
func SchemeFor(p Protocol) (*Scheme, error) {
	var s Scheme
	switch p {
	case ProtocolLegacy:
		s = legacyScheme
	case ProtocolIntermediate:
		s = intermediateScheme
	case ProtocolCurrent:
		s = currentScheme
	default:
		return nil, fmt.Errorf("unknown protocol %q", p)
	}
	return &s, nil
}
