package accounts_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/client/accounts"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

// well-known development key, never used on a real network
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestLocalControllerDerivesAddressFromKey(t *testing.T) {
	controller, err := accounts.NewLocalController(devKey, registry.NewStaticProvider())
	require.NoError(t, err)

	address, err := controller.GetAccountAddress(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), address)
}

func TestLocalControllerRejectsBadKey(t *testing.T) {
	_, err := accounts.NewLocalController("not-a-key", registry.NewStaticProvider())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account private key")
}

func TestLocalControllerSignsRecoverableDelegation(t *testing.T) {
	provider := registry.NewStaticProvider()
	controller, err := accounts.NewLocalController(devKey, provider)
	require.NoError(t, err)

	contracts, err := provider.GetDelegationContracts(1)
	require.NoError(t, err)
	builder := caveats.NewBuilder(contracts)
	require.NoError(t, builder.AddCaveat(registry.TimestampEnforcer, caveats.EncodeTimestampTerms(0, 1900000000)))
	caveatList, err := builder.Build()
	require.NoError(t, err)

	unsigned := delegation.New(
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		caveatList,
		big.NewInt(42),
	)

	signed, err := controller.SignDelegation(context.Background(), 1, unsigned)
	require.NoError(t, err)
	require.Len(t, []byte(signed.Signature), 65)

	// The signature must recover to the controller's account
	digest := delegation.Hash(unsigned, contracts.DelegationManager, 1)
	recoverable := make([]byte, 65)
	copy(recoverable, signed.Signature)
	recoverable[64] -= 27
	pubkey, err := crypto.SigToPub(digest.Bytes(), recoverable)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), crypto.PubkeyToAddress(*pubkey))
}

func TestLocalControllerEnvironment(t *testing.T) {
	controller, err := accounts.NewLocalController(devKey, registry.NewStaticProvider())
	require.NoError(t, err)

	env, err := controller.GetEnvironment(context.Background(), 11155111)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", env.Name)

	_, err = controller.GetEnvironment(context.Background(), 999999)
	require.Error(t, err)
}

func TestLocalControllerMetadataTravelsTogether(t *testing.T) {
	controller, err := accounts.NewLocalController(devKey, registry.NewStaticProvider())
	require.NoError(t, err)

	_, err = controller.WithAccountMetadata("0x4444444444444444444444444444444444444444", "")
	require.Error(t, err)

	controller, err = controller.WithAccountMetadata("0x4444444444444444444444444444444444444444", "0xdead")
	require.NoError(t, err)
	meta, err := controller.GetAccountMetadata(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "0x4444444444444444444444444444444444444444", meta.Factory)
	assert.Equal(t, "0xdead", meta.FactoryData)
}
