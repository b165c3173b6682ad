package types

// TokenMetadata holds display metadata for the token a permission moves
type TokenMetadata struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	IconData string `json:"iconData,omitempty"` // base64 data URI, empty when fetch failed
}

// PermissionContext is the single mutable source of truth for one
// interactive grant session. Detail values are kept as raw strings so
// partially-typed input (e.g. "12.") stays representable; parsing and
// validation happen on demand when metadata is derived.
//
// A context is never mutated in place: every edit produces a new value via
// Clone/WithDetail so each edit has a clear before/after snapshot.
type PermissionContext struct {
	PermissionType      string            `json:"permissionType"`
	Expiry              int64             `json:"expiry"`
	IsAdjustmentAllowed bool              `json:"isAdjustmentAllowed"`
	Justification       string            `json:"justification"`
	AccountAddress      string            `json:"accountAddress"`
	TokenAddress        string            `json:"tokenAddress,omitempty"` // empty for the native token
	TokenMetadata       TokenMetadata     `json:"tokenMetadata"`
	AccountBalance      string            `json:"accountBalance,omitempty"` // formatted units, display only
	Details             map[string]string `json:"details"`
}

// Clone returns a deep copy of the context
func (c PermissionContext) Clone() PermissionContext {
	out := c
	out.Details = make(map[string]string, len(c.Details))
	for k, v := range c.Details {
		out.Details[k] = v
	}
	return out
}

// Detail reads one user-editable field value. The second return reports
// whether the field is present at all (absent optional rules return false).
func (c PermissionContext) Detail(name string) (string, bool) {
	v, ok := c.Details[name]
	return v, ok
}

// WithDetail returns a copy of the context with one detail field replaced
func (c PermissionContext) WithDetail(name, value string) PermissionContext {
	out := c.Clone()
	out.Details[name] = value
	return out
}

// WithExpiry returns a copy of the context with the expiry replaced
func (c PermissionContext) WithExpiry(expiry int64) PermissionContext {
	out := c.Clone()
	out.Expiry = expiry
	return out
}

// Metadata is derived, UI-only data computed from a context. It is
// recomputed wholesale after every context change and never stored.
type Metadata struct {
	FieldErrors map[string]string `json:"fieldErrors"`
	Derived     map[string]string `json:"derived,omitempty"`
}

// NewMetadata returns an empty metadata value with initialized maps
func NewMetadata() Metadata {
	return Metadata{
		FieldErrors: make(map[string]string),
		Derived:     make(map[string]string),
	}
}

// HasErrors reports whether any field currently fails validation
func (m Metadata) HasErrors() bool {
	return len(m.FieldErrors) > 0
}
