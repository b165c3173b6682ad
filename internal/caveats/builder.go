// Package caveats assembles the ordered caveat list attached to a
// delegation. Every grant starts from a builder seeded with the
// cross-cutting timestamp caveat bounding validity to (0, expiry); the
// permission type then appends its own enforcement terms.
package caveats

import (
	"fmt"

	"github.com/cyphera/gator-permissions/internal/types"
)

// Builder accumulates caveats in order. Order matters for readability and
// auditability, not semantics; each caveat is checked independently on
// chain.
type Builder struct {
	contracts types.DelegationContracts
	caveats   []types.Caveat
}

// NewBuilder creates a builder bound to one chain's contract set
func NewBuilder(contracts types.DelegationContracts) *Builder {
	return &Builder{contracts: contracts}
}

// AddCaveat appends one caveat with the terms already in canonical binary
// encoding. Unknown enforcer names indicate a configuration defect.
func (b *Builder) AddCaveat(enforcerName string, terms []byte) error {
	enforcer, ok := b.contracts.Enforcers[enforcerName]
	if !ok {
		return fmt.Errorf("unknown caveat enforcer %q", enforcerName)
	}
	b.caveats = append(b.caveats, types.Caveat{
		Enforcer: enforcer,
		Terms:    terms,
		Args:     []byte{},
	})
	return nil
}

// Build returns the assembled caveat list. An empty list is a programming
// error: a delegation without caveats would be an unbounded grant.
func (b *Builder) Build() ([]types.Caveat, error) {
	if len(b.caveats) == 0 {
		return nil, fmt.Errorf("refusing to build an empty caveat list")
	}
	out := make([]types.Caveat, len(b.caveats))
	copy(out, b.caveats)
	return out, nil
}
