// Package registry resolves the delegation framework contract addresses
// for a chain. The provider is an interface so the hardcoded table can be
// swapped for a remote configuration service without touching callers.
package registry

import (
	"fmt"

	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// Enforcer names used as caveat builder keys
const (
	TimestampEnforcer                   = "TimestampEnforcer"
	NativeTokenStreamingEnforcer        = "NativeTokenStreamingEnforcer"
	NativeTokenPeriodicTransferEnforcer = "NativeTokenPeriodicTransferEnforcer"
	ERC20StreamingEnforcer              = "ERC20StreamingEnforcer"
	ERC20PeriodicTransferEnforcer       = "ERC20PeriodicTransferEnforcer"
)

// DelegationContractsProvider resolves enforcer contract addresses by chain
type DelegationContractsProvider interface {
	GetDelegationContracts(chainID int64) (types.DelegationContracts, error)
}

// StaticProvider serves delegation contracts from a compiled-in table.
// The framework deploys deterministically, so every supported chain shares
// one address set.
type StaticProvider struct {
	contracts map[int64]types.DelegationContracts
}

// The deterministic deployment addresses of the delegation framework
var (
	delegationManagerAddress = common.HexToAddress("0x739309deED0Ae184E66a427ACa432aE1D91d022e")

	enforcerAddresses = map[string]common.Address{
		TimestampEnforcer:                   common.HexToAddress("0x1046bb45C8d673d4ea75321280DB34899413c069"),
		NativeTokenStreamingEnforcer:        common.HexToAddress("0xD10b97905a320b13a0608f7E9cC506b56747df19"),
		NativeTokenPeriodicTransferEnforcer: common.HexToAddress("0x9BC0FAf4Aca5AE429F4c06aEEaC517520CB16BD9"),
		ERC20StreamingEnforcer:              common.HexToAddress("0x56c97aE02f233B29fa03502Ecc0457266d9be00e"),
		ERC20PeriodicTransferEnforcer:       common.HexToAddress("0x474e3Ae7E169e940607cC624Da8A15Eb120139aB"),
	}

	// Chains the delegation framework is deployed on
	supportedChainIDs = []int64{
		1,        // mainnet
		10,       // optimism
		137,      // polygon
		8453,     // base
		42161,    // arbitrum
		59144,    // linea
		11155111, // sepolia
	}
)

// NewStaticProvider creates a provider backed by the compiled-in table
func NewStaticProvider() *StaticProvider {
	contracts := make(map[int64]types.DelegationContracts, len(supportedChainIDs))
	for _, chainID := range supportedChainIDs {
		enforcers := make(map[string]common.Address, len(enforcerAddresses))
		for name, address := range enforcerAddresses {
			enforcers[name] = address
		}
		contracts[chainID] = types.DelegationContracts{
			DelegationManager: delegationManagerAddress,
			Enforcers:         enforcers,
		}
	}
	return &StaticProvider{contracts: contracts}
}

// GetDelegationContracts returns the contract set for a chain. Unrecognized
// chain ids are a hard error, never a silent default.
func (p *StaticProvider) GetDelegationContracts(chainID int64) (types.DelegationContracts, error) {
	contracts, ok := p.contracts[chainID]
	if !ok {
		return types.DelegationContracts{}, fmt.Errorf("No delegation contracts found for chainId: %d", chainID)
	}
	return contracts, nil
}
