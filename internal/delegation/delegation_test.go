package delegation_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDelegation(t *testing.T) types.Delegation {
	t.Helper()
	contracts, err := registry.NewStaticProvider().GetDelegationContracts(11155111)
	require.NoError(t, err)

	builder := caveats.NewBuilder(contracts)
	require.NoError(t, builder.AddCaveat(registry.TimestampEnforcer, caveats.EncodeTimestampTerms(0, 1767225600)))
	built, err := builder.Build()
	require.NoError(t, err)

	return delegation.New(
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
		built,
		big.NewInt(42),
	)
}

func TestNewSalt(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		salt, err := delegation.NewSalt()
		require.NoError(t, err)
		require.NotNil(t, salt)
		assert.LessOrEqual(t, len(salt.Bytes()), 32)
		assert.False(t, seen[salt.String()], "salt repeated")
		seen[salt.String()] = true
	}
}

func TestNewDelegationUsesRootAuthority(t *testing.T) {
	d := testDelegation(t)
	assert.Equal(t, delegation.RootAuthority, d.Authority)
	assert.Empty(t, d.Signature)
}

func TestHashIsDeterministicAndDomainBound(t *testing.T) {
	d := testDelegation(t)
	manager := common.HexToAddress("0x739309deED0Ae184E66a427ACa432aE1D91d022e")

	h1 := delegation.Hash(d, manager, 11155111)
	h2 := delegation.Hash(d, manager, 11155111)
	assert.Equal(t, h1, h2)

	// a different chain or salt must produce a different digest
	assert.NotEqual(t, h1, delegation.Hash(d, manager, 1))

	other := d
	other.Salt = big.NewInt(43)
	assert.NotEqual(t, h1, delegation.Hash(other, manager, 11155111))
}

func TestEncodeRequiresSignature(t *testing.T) {
	d := testDelegation(t)

	_, err := delegation.Encode(d)
	require.Error(t, err)

	d.Signature = append(d.Signature, make([]byte, 65)...)
	encoded, err := delegation.Encode(d)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "0x"))
	assert.Greater(t, len(encoded), 2)
}
