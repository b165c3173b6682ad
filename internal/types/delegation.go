package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Caveat is one on-chain-enforced restriction term attached to a delegation
type Caveat struct {
	Enforcer common.Address `json:"enforcer"`
	Terms    hexutil.Bytes  `json:"terms"`
	Args     hexutil.Bytes  `json:"args"`
}

// Delegation grants a delegate the right to act on the delegator's account
// subject to its caveats. Matches the delegation framework struct layout.
type Delegation struct {
	Delegate  common.Address `json:"delegate"`
	Delegator common.Address `json:"delegator"`
	Authority common.Hash    `json:"authority"`
	Caveats   []Caveat       `json:"caveats"`
	Salt      *big.Int       `json:"salt"`
	Signature hexutil.Bytes  `json:"signature"`
}

// DelegationContracts holds the enforcer contract addresses for one chain
type DelegationContracts struct {
	DelegationManager common.Address
	Enforcers         map[string]common.Address
}
