package caveats_test

import (
	"math/big"
	"testing"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContracts(t *testing.T) types.DelegationContracts {
	t.Helper()
	contracts, err := registry.NewStaticProvider().GetDelegationContracts(11155111)
	require.NoError(t, err)
	return contracts
}

func TestBuilderOrderPreserved(t *testing.T) {
	builder := caveats.NewBuilder(testContracts(t))

	require.NoError(t, builder.AddCaveat(registry.TimestampEnforcer, caveats.EncodeTimestampTerms(0, 1767225600)))
	require.NoError(t, builder.AddCaveat(registry.NativeTokenPeriodicTransferEnforcer,
		caveats.EncodeNativePeriodicTerms(big.NewInt(1), 86400, 100)))

	built, err := builder.Build()
	require.NoError(t, err)
	require.Len(t, built, 2)

	assert.Equal(t, testContracts(t).Enforcers[registry.TimestampEnforcer], built[0].Enforcer)
	assert.Equal(t, testContracts(t).Enforcers[registry.NativeTokenPeriodicTransferEnforcer], built[1].Enforcer)
}

func TestBuilderUnknownEnforcer(t *testing.T) {
	builder := caveats.NewBuilder(testContracts(t))

	err := builder.AddCaveat("NoSuchEnforcer", []byte{0x01})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown caveat enforcer")
}

func TestBuilderRejectsEmptyList(t *testing.T) {
	builder := caveats.NewBuilder(testContracts(t))

	_, err := builder.Build()
	assert.Error(t, err)
}

func TestEncodeTimestampTerms(t *testing.T) {
	terms := caveats.EncodeTimestampTerms(0, 1767225600)
	require.Len(t, terms, 32)

	after := new(big.Int).SetBytes(terms[:16])
	before := new(big.Int).SetBytes(terms[16:])
	assert.Zero(t, after.Sign())
	assert.Equal(t, int64(1767225600), before.Int64())
}

func TestEncodeNativePeriodicTerms(t *testing.T) {
	oneEth := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	terms := caveats.EncodeNativePeriodicTerms(oneEth, 86400, 1767139200)
	require.Len(t, terms, 96)

	assert.Zero(t, oneEth.Cmp(new(big.Int).SetBytes(terms[0:32])))
	assert.Equal(t, int64(86400), new(big.Int).SetBytes(terms[32:64]).Int64())
	assert.Equal(t, int64(1767139200), new(big.Int).SetBytes(terms[64:96]).Int64())
}

func TestEncodeERC20PeriodicTerms(t *testing.T) {
	token := common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")
	terms := caveats.EncodeERC20PeriodicTerms(token, big.NewInt(50_000000), 604800, 1767139200)
	require.Len(t, terms, 116)

	assert.Equal(t, token, common.BytesToAddress(terms[:20]))
	assert.Equal(t, int64(50_000000), new(big.Int).SetBytes(terms[20:52]).Int64())
	assert.Equal(t, int64(604800), new(big.Int).SetBytes(terms[52:84]).Int64())
	assert.Equal(t, int64(1767139200), new(big.Int).SetBytes(terms[84:116]).Int64())
}

func TestEncodeStreamingTerms(t *testing.T) {
	initial := big.NewInt(1000)
	max := big.NewInt(100000)
	rate := big.NewInt(10)

	native := caveats.EncodeNativeStreamingTerms(initial, max, rate, 1767139200)
	require.Len(t, native, 128)
	assert.Zero(t, initial.Cmp(new(big.Int).SetBytes(native[0:32])))
	assert.Zero(t, max.Cmp(new(big.Int).SetBytes(native[32:64])))
	assert.Zero(t, rate.Cmp(new(big.Int).SetBytes(native[64:96])))
	assert.Equal(t, int64(1767139200), new(big.Int).SetBytes(native[96:128]).Int64())

	token := common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")
	erc20 := caveats.EncodeERC20StreamingTerms(token, initial, max, rate, 1767139200)
	require.Len(t, erc20, 148)
	assert.Equal(t, token, common.BytesToAddress(erc20[:20]))
	assert.Equal(t, native, erc20[20:])
}
