package registry_test

import (
	"testing"

	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDelegationContracts(t *testing.T) {
	provider := registry.NewStaticProvider()

	contracts, err := provider.GetDelegationContracts(11155111)
	require.NoError(t, err)

	assert.NotEqual(t, "0x0000000000000000000000000000000000000000", contracts.DelegationManager.Hex())
	for _, name := range []string{
		registry.TimestampEnforcer,
		registry.NativeTokenStreamingEnforcer,
		registry.NativeTokenPeriodicTransferEnforcer,
		registry.ERC20StreamingEnforcer,
		registry.ERC20PeriodicTransferEnforcer,
	} {
		_, ok := contracts.Enforcers[name]
		assert.True(t, ok, "missing enforcer %s", name)
	}
}

func TestGetDelegationContractsUnknownChain(t *testing.T) {
	provider := registry.NewStaticProvider()

	_, err := provider.GetDelegationContracts(999999)
	require.Error(t, err)
	assert.EqualError(t, err, "No delegation contracts found for chainId: 999999")
}
