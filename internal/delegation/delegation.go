// Package delegation builds, hashes and encodes the signed delegation
// objects produced by a granted permission. Signing itself is delegated to
// the account controller collaborator; this package only prepares the
// digest and the wire encoding.
package delegation

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RootAuthority marks a delegation that chains directly off the delegator's
// account rather than off another delegation
var RootAuthority = common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

// NewSalt generates a fresh 32-byte random salt. The salt only provides
// delegation uniqueness; it is not a secret, but it must be unpredictable.
func NewSalt() (*big.Int, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate delegation salt: %w", err)
	}
	return new(big.Int).SetBytes(buf), nil
}

// New assembles an unsigned root delegation
func New(delegate, delegator common.Address, caveats []types.Caveat, salt *big.Int) types.Delegation {
	return types.Delegation{
		Delegate:  delegate,
		Delegator: delegator,
		Authority: RootAuthority,
		Caveats:   caveats,
		Salt:      salt,
		Signature: []byte{},
	}
}

var (
	eip712DomainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	delegationTypeHash   = crypto.Keccak256Hash([]byte("Delegation(address delegate,address delegator,bytes32 authority,Caveat[] caveats,uint256 salt)Caveat(address enforcer,bytes terms)"))
	caveatTypeHash       = crypto.Keccak256Hash([]byte("Caveat(address enforcer,bytes terms)"))

	domainNameHash    = crypto.Keccak256Hash([]byte("DelegationManager"))
	domainVersionHash = crypto.Keccak256Hash([]byte("1"))
)

func word(v []byte) []byte {
	return common.LeftPadBytes(v, 32)
}

// Hash computes the EIP-712 digest the account controller signs for a
// delegation, bound to the delegation manager of the target chain
func Hash(d types.Delegation, delegationManager common.Address, chainID int64) common.Hash {
	caveatHashes := make([]byte, 0, len(d.Caveats)*32)
	for _, caveat := range d.Caveats {
		caveatHash := crypto.Keccak256(
			caveatTypeHash.Bytes(),
			word(caveat.Enforcer.Bytes()),
			crypto.Keccak256(caveat.Terms),
		)
		caveatHashes = append(caveatHashes, caveatHash...)
	}

	structHash := crypto.Keccak256(
		delegationTypeHash.Bytes(),
		word(d.Delegate.Bytes()),
		word(d.Delegator.Bytes()),
		d.Authority.Bytes(),
		crypto.Keccak256(caveatHashes),
		word(d.Salt.Bytes()),
	)

	domainSeparator := crypto.Keccak256(
		eip712DomainTypeHash.Bytes(),
		domainNameHash.Bytes(),
		domainVersionHash.Bytes(),
		word(big.NewInt(chainID).Bytes()),
		word(delegationManager.Bytes()),
	)

	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domainSeparator, structHash)
}

var delegationArrayArgs = func() abi.Arguments {
	delegationArrayType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "delegate", Type: "address"},
		{Name: "delegator", Type: "address"},
		{Name: "authority", Type: "bytes32"},
		{Name: "caveats", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "enforcer", Type: "address"},
			{Name: "terms", Type: "bytes"},
			{Name: "args", Type: "bytes"},
		}},
		{Name: "salt", Type: "uint256"},
		{Name: "signature", Type: "bytes"},
	})
	if err != nil {
		panic("failed to construct delegation ABI type: " + err.Error())
	}
	return abi.Arguments{{Type: delegationArrayType}}
}()

// Encode ABI-encodes a signed delegation into the opaque permission
// context blob returned to the caller
func Encode(signed types.Delegation) (string, error) {
	if len(signed.Signature) == 0 {
		return "", fmt.Errorf("refusing to encode an unsigned delegation")
	}
	packed, err := delegationArrayArgs.Pack([]types.Delegation{signed})
	if err != nil {
		return "", fmt.Errorf("failed to encode delegation: %w", err)
	}
	return hexutil.Encode(packed), nil
}
