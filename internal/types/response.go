package types

// SignerMeta carries signer-facing metadata about the granted delegation
type SignerMeta struct {
	DelegationManager string `json:"delegationManager"`
}

// AccountMeta carries counterfactual deployment data for the granting
// account. Factory and FactoryData are only ever attached together.
type AccountMeta struct {
	Factory     string `json:"factory"`
	FactoryData string `json:"factoryData"`
}

// PermissionResponse is the wire-format result of a granted permission.
// Context holds the encoded signed delegation.
type PermissionResponse struct {
	ChainID             string          `json:"chainId"` // hex
	Address             string          `json:"address"`
	Signer              Signer          `json:"signer"`
	Permission          Permission      `json:"permission"`
	Rules               []RequestedRule `json:"rules,omitempty"`
	IsAdjustmentAllowed bool            `json:"isAdjustmentAllowed"`
	Context             string          `json:"context"`
	AccountMeta         *AccountMeta    `json:"accountMeta,omitempty"`
	SignerMeta          SignerMeta      `json:"signerMeta"`
}
