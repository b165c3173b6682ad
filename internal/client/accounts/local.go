// Package accounts provides account controller implementations. The local
// controller holds a raw signing key in memory and is intended for
// development and test deployments; a production wallet integrates its own
// controller behind the same interface.
package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Names of the chains the delegation framework is deployed on
var chainNames = map[int64]string{
	1:        "mainnet",
	10:       "optimism",
	137:      "polygon",
	8453:     "base",
	42161:    "arbitrum",
	59144:    "linea",
	11155111: "sepolia",
}

// LocalController signs delegations with an in-memory ECDSA key. The
// account address is derived from the key; counterfactual deployment
// metadata is optional.
type LocalController struct {
	key       *ecdsa.PrivateKey
	address   common.Address
	contracts registry.DelegationContractsProvider
	metadata  interfaces.AccountMetadata
}

// NewLocalController creates a controller from a hex-encoded private key
func NewLocalController(privateKeyHex string, contracts registry.DelegationContractsProvider) (*LocalController, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid account private key: %w", err)
	}
	return &LocalController{
		key:       key,
		address:   crypto.PubkeyToAddress(key.PublicKey),
		contracts: contracts,
	}, nil
}

// WithAccountMetadata attaches counterfactual deployment data. Factory and
// factory data travel together; setting only one is a configuration error.
func (c *LocalController) WithAccountMetadata(factory, factoryData string) (*LocalController, error) {
	if (factory == "") != (factoryData == "") {
		return nil, fmt.Errorf("factory and factoryData must be set together")
	}
	c.metadata = interfaces.AccountMetadata{Factory: factory, FactoryData: factoryData}
	return c, nil
}

func (c *LocalController) GetAccountAddress(_ context.Context, _ int64) (common.Address, error) {
	return c.address, nil
}

func (c *LocalController) GetAccountMetadata(_ context.Context, _ int64) (interfaces.AccountMetadata, error) {
	return c.metadata, nil
}

func (c *LocalController) GetDelegationManager(_ context.Context, chainID int64) (common.Address, error) {
	contracts, err := c.contracts.GetDelegationContracts(chainID)
	if err != nil {
		return common.Address{}, err
	}
	return contracts.DelegationManager, nil
}

func (c *LocalController) GetEnvironment(_ context.Context, chainID int64) (interfaces.Environment, error) {
	name, ok := chainNames[chainID]
	if !ok {
		return interfaces.Environment{}, fmt.Errorf("no delegation environment for chainId: %d", chainID)
	}
	return interfaces.Environment{ChainID: chainID, Name: name}, nil
}

// SignDelegation signs the EIP-712 digest of the delegation, bound to the
// chain's delegation manager
func (c *LocalController) SignDelegation(_ context.Context, chainID int64, d types.Delegation) (types.Delegation, error) {
	contracts, err := c.contracts.GetDelegationContracts(chainID)
	if err != nil {
		return types.Delegation{}, err
	}

	digest := delegation.Hash(d, contracts.DelegationManager, chainID)
	signature, err := crypto.Sign(digest.Bytes(), c.key)
	if err != nil {
		return types.Delegation{}, fmt.Errorf("failed to sign delegation digest: %w", err)
	}
	// Normalize the recovery id to the Ethereum convention
	signature[64] += 27

	d.Signature = signature
	return d, nil
}
