package svm

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		input   string
		want    Protocol
		wantErr bool
	}{
		{"legacy", ProtocolLegacy, false},
		{"Intermediate", ProtocolIntermediate, false},
		{" current ", ProtocolCurrent, false},
		{"", ProtocolCurrent, false},
		{"v2", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SchemeFor(Protocol("v2"))
	assert.Error(t, err)
}

func testDepositAccounts() DepositAccounts {
	return DepositAccounts{
		Mint:      solana.PublicKeyFromBytes(fill32(1)),
		Source:    solana.PublicKeyFromBytes(fill32(2)),
		Pool:      solana.PublicKeyFromBytes(fill32(3)),
		Balance:   solana.PublicKeyFromBytes(fill32(4)),
		Contract:  solana.PublicKeyFromBytes(fill32(5)),
		Authority: solana.PublicKeyFromBytes(fill32(6)),
		Signer:    solana.PublicKeyFromBytes(fill32(7)),
	}
}

func fill32(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

type expectedMeta struct {
	key      solana.PublicKey
	writable bool
	signer   bool
}

func assertMetas(t *testing.T, expected []expectedMeta, actual solana.AccountMetaSlice) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i, e := range expected {
		assert.Equal(t, e.key, actual[i].PublicKey, "account %d key", i)
		assert.Equal(t, e.writable, actual[i].IsWritable, "account %d writable", i)
		assert.Equal(t, e.signer, actual[i].IsSigner, "account %d signer", i)
	}
}

func TestLegacyDepositWireFormat(t *testing.T) {
	s, err := SchemeFor(ProtocolLegacy)
	require.NoError(t, err)
	a := testDepositAccounts()
	addr := makeAddress(0xaa)

	payload := s.DepositPayload(addr, 245022926)
	require.Len(t, payload, 29)
	assert.Equal(t, byte(0x31), payload[0])
	assert.Equal(t, addr.Bytes(), payload[1:21])
	assert.Equal(t, uint64(245022926), binary.LittleEndian.Uint64(payload[21:]))

	assertMetas(t, []expectedMeta{
		{a.Mint, true, false},
		{a.Source, true, false},
		{a.Pool, true, false},
		{a.Balance, true, false},
		{a.Contract, true, false},
		{solana.TokenProgramID, false, false},
		{a.Signer, true, true},
		{solana.SystemProgramID, false, false},
	}, s.DepositAccountMetas(a))
}

func TestIntermediateDepositWireFormat(t *testing.T) {
	s, err := SchemeFor(ProtocolIntermediate)
	require.NoError(t, err)
	a := testDepositAccounts()
	addr := makeAddress(0xbb)

	payload := s.DepositPayload(addr, 245022926)
	require.Len(t, payload, 21)
	assert.Equal(t, byte(0x1e), payload[0])
	assert.Equal(t, addr.Bytes(), payload[1:])

	assertMetas(t, []expectedMeta{
		{a.Source, true, false},
		{a.Pool, true, false},
		{a.Balance, true, false},
		{a.Authority, false, false},
		{solana.TokenProgramID, false, false},
		{a.Signer, true, true},
		{solana.SystemProgramID, false, false},
	}, s.DepositAccountMetas(a))
}

func TestCurrentDepositWireFormat(t *testing.T) {
	s, err := SchemeFor(ProtocolCurrent)
	require.NoError(t, err)
	a := testDepositAccounts()

	assert.Equal(t, []byte{0x19}, s.DepositPayload(makeAddress(0xcc), 245022926))

	assertMetas(t, []expectedMeta{
		{a.Source, true, false},
		{a.Pool, true, false},
		{a.Balance, true, false},
		{a.Authority, false, false},
		{solana.TokenProgramID, false, false},
	}, s.DepositAccountMetas(a))
}

func TestSchemeForReturnsCopies(t *testing.T) {
	first, err := SchemeFor(ProtocolCurrent)
	require.NoError(t, err)
	first.CreatesBalance = false

	second, err := SchemeFor(ProtocolCurrent)
	require.NoError(t, err)
	assert.True(t, second.CreatesBalance)
}
