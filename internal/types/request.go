package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Signer identifies the session account a permission is granted to
type Signer struct {
	Type string     `json:"type"`
	Data SignerData `json:"data"`
}

// SignerData carries the signer account address
type SignerData struct {
	Address string `json:"address"`
}

// Permission is the type-tagged permission payload of a request.
// Data is left raw here; each permission type decodes its own shape.
type Permission struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RequestedRule is an extensible side-rule attached to a permission request,
// e.g. the mandatory expiry rule
type RequestedRule struct {
	Type                string          `json:"type"`
	Data                json.RawMessage `json:"data"`
	IsAdjustmentAllowed *bool           `json:"isAdjustmentAllowed,omitempty"`
}

// ExpiryRuleData is the payload of the mandatory expiry side-rule
type ExpiryRuleData struct {
	Timestamp int64 `json:"timestamp"`
}

// PermissionRequest is the wire-format request as received from a dApp.
// It is immutable once received; the orchestration only ever produces new
// requests from it, never mutates it in place.
type PermissionRequest struct {
	ChainID             string          `json:"chainId"` // hex, e.g. "0xaa36a7"
	Address             string          `json:"address,omitempty"`
	Signer              Signer          `json:"signer"`
	Permission          Permission      `json:"permission"`
	Rules               []RequestedRule `json:"rules,omitempty"`
	IsAdjustmentAllowed *bool           `json:"isAdjustmentAllowed,omitempty"`
}

// ChainIDInt parses the hex chain id of the request
func (r PermissionRequest) ChainIDInt() (int64, error) {
	raw := strings.TrimPrefix(r.ChainID, "0x")
	if raw == "" || raw == r.ChainID {
		return 0, fmt.Errorf("invalid chainId %q: expected 0x-prefixed hex", r.ChainID)
	}
	id, err := strconv.ParseInt(raw, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chainId %q: %w", r.ChainID, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid chainId %q: must be positive", r.ChainID)
	}
	return id, nil
}

// AdjustmentAllowed reports whether the user may adjust the requested terms.
// Absent defaults to true.
func (r PermissionRequest) AdjustmentAllowed() bool {
	if r.IsAdjustmentAllowed == nil {
		return true
	}
	return *r.IsAdjustmentAllowed
}

// ExpiryRule extracts the mandatory expiry side-rule. Its absence is a
// request-shape error, not a user-input error.
func (r PermissionRequest) ExpiryRule() (int64, error) {
	for _, rule := range r.Rules {
		if rule.Type != "expiry" {
			continue
		}
		var data ExpiryRuleData
		if err := json.Unmarshal(rule.Data, &data); err != nil {
			return 0, fmt.Errorf("malformed expiry rule: %w", err)
		}
		if data.Timestamp <= 0 {
			return 0, fmt.Errorf("expiry rule timestamp must be positive, got %d", data.Timestamp)
		}
		return data.Timestamp, nil
	}
	return 0, fmt.Errorf("permission request is missing the required expiry rule")
}

// WithExpiryRule returns a copy of the request with the expiry side-rule
// replaced (or appended) for the given timestamp
func (r PermissionRequest) WithExpiryRule(timestamp int64) PermissionRequest {
	data, _ := json.Marshal(ExpiryRuleData{Timestamp: timestamp})
	out := r
	out.Rules = make([]RequestedRule, 0, len(r.Rules)+1)
	replaced := false
	for _, rule := range r.Rules {
		if rule.Type == "expiry" {
			out.Rules = append(out.Rules, RequestedRule{Type: "expiry", Data: data, IsAdjustmentAllowed: rule.IsAdjustmentAllowed})
			replaced = true
			continue
		}
		out.Rules = append(out.Rules, rule)
	}
	if !replaced {
		out.Rules = append(out.Rules, RequestedRule{Type: "expiry", Data: data})
	}
	return out
}
