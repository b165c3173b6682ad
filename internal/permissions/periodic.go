package permissions

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/validation"
)

// PeriodicPermissionData is the wire payload of the periodic transfer
// permission family. Amounts are hex-encoded minor units; TokenAddress is
// only present for the ERC-20 variant. InitialAmount is an optional
// immediately-transferable allowance carried in the permission payload.
type PeriodicPermissionData struct {
	TokenAddress   string `json:"tokenAddress,omitempty"`
	PeriodAmount   string `json:"periodAmount"`
	PeriodDuration int64  `json:"periodDuration"`
	StartTime      int64  `json:"startTime,omitempty"`
	InitialAmount  string `json:"initialAmount,omitempty"`
	Justification  string `json:"justification,omitempty"`
}

func validateCommonRequestShape(req types.PermissionRequest, wantType string, verr *types.RequestValidationError) {
	if req.Permission.Type != wantType {
		verr.Add("permission.type", fmt.Sprintf("expected %q, got %q", wantType, req.Permission.Type))
	}
	if _, err := req.ChainIDInt(); err != nil {
		verr.Add("chainId", err.Error())
	}
	if req.Signer.Type != "account" {
		verr.Add("signer.type", `must be "account"`)
	}
	if !IsAddressValid(req.Signer.Data.Address) {
		verr.Add("signer.data.address", "malformed account address")
	}
	if _, err := req.ExpiryRule(); err != nil {
		verr.Add("rules", err.Error())
	}
}

func parsePeriodicRequest(req types.PermissionRequest, wantType string, erc20 bool) (types.PermissionRequest, error) {
	verr := types.NewRequestValidationError()
	validateCommonRequestShape(req, wantType, verr)

	var data PeriodicPermissionData
	if err := json.Unmarshal(req.Permission.Data, &data); err != nil {
		verr.Add("permission.data", "malformed permission data: "+err.Error())
		return types.PermissionRequest{}, verr
	}

	if amount, err := parseHexAmount(data.PeriodAmount); err != nil {
		verr.Add("permission.data.periodAmount", err.Error())
	} else if amount.Sign() <= 0 {
		verr.Add("permission.data.periodAmount", "must be positive")
	}
	if data.PeriodDuration <= 0 {
		verr.Add("permission.data.periodDuration", "must be positive")
	}
	if data.StartTime < 0 {
		verr.Add("permission.data.startTime", "must not be negative")
	}
	if data.InitialAmount != "" {
		if amount, err := parseHexAmount(data.InitialAmount); err != nil {
			verr.Add("permission.data.initialAmount", err.Error())
		} else if amount.Sign() < 0 {
			verr.Add("permission.data.initialAmount", "must not be negative")
		}
	}
	if erc20 {
		if !IsAddressValid(data.TokenAddress) {
			verr.Add("permission.data.tokenAddress", "malformed token address")
		}
	} else if data.TokenAddress != "" {
		verr.Add("permission.data.tokenAddress", "unexpected for native-token permissions")
	}

	if verr.HasErrors() {
		return types.PermissionRequest{}, verr
	}

	normalized, err := json.Marshal(data)
	if err != nil {
		return types.PermissionRequest{}, fmt.Errorf("failed to normalize permission data: %w", err)
	}
	out := req
	out.Permission.Data = normalized
	return out, nil
}

func buildPeriodicContext(ctx context.Context, deps Dependencies, req types.PermissionRequest) (types.PermissionContext, error) {
	var data PeriodicPermissionData
	if err := json.Unmarshal(req.Permission.Data, &data); err != nil {
		return types.PermissionContext{}, fmt.Errorf("failed to decode periodic permission data: %w", err)
	}

	pc, err := buildBaseContext(ctx, deps, req, data.TokenAddress)
	if err != nil {
		return types.PermissionContext{}, err
	}
	decimals := pc.TokenMetadata.Decimals

	periodAmount, err := parseHexAmount(data.PeriodAmount)
	if err != nil {
		return types.PermissionContext{}, err
	}
	pc.Details[DetailPeriodAmount] = formatUnits(periodAmount, decimals)
	pc.Details[DetailPeriodDuration] = strconv.FormatInt(data.PeriodDuration, 10)
	if data.StartTime > 0 {
		pc.Details[DetailStartTime] = strconv.FormatInt(data.StartTime, 10)
	}
	if data.InitialAmount != "" {
		initial, err := parseHexAmount(data.InitialAmount)
		if err != nil {
			return types.PermissionContext{}, err
		}
		pc.Details[DetailInitialAmount] = formatUnits(initial, decimals)
	}
	pc.Justification = data.Justification
	return pc, nil
}

func applyPeriodicContext(pc types.PermissionContext, original types.PermissionRequest) (types.PermissionRequest, error) {
	var data PeriodicPermissionData
	if err := json.Unmarshal(original.Permission.Data, &data); err != nil {
		return types.PermissionRequest{}, fmt.Errorf("failed to decode periodic permission data: %w", err)
	}
	decimals := pc.TokenMetadata.Decimals

	if value, ok := pc.Detail(DetailPeriodAmount); ok {
		encoded, err := toHexUnits(value, decimals, false)
		if err != nil {
			return types.PermissionRequest{}, err
		}
		data.PeriodAmount = encoded
	}
	if value, ok := pc.Detail(DetailPeriodDuration); ok {
		seconds, msg := validation.ValidateAndParseDuration(value)
		if msg != "" {
			return types.PermissionRequest{}, fmt.Errorf("cannot encode period duration %q: %s", value, msg)
		}
		data.PeriodDuration = seconds
	}
	if value, ok := pc.Detail(DetailStartTime); ok {
		startTime, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return types.PermissionRequest{}, fmt.Errorf("cannot encode start time %q: %w", value, err)
		}
		data.StartTime = startTime
	}
	if value, ok := pc.Detail(DetailInitialAmount); ok {
		encoded, err := toHexUnits(value, decimals, true)
		if err != nil {
			return types.PermissionRequest{}, err
		}
		data.InitialAmount = encoded
	}
	data.Justification = pc.Justification

	payload, err := json.Marshal(data)
	if err != nil {
		return types.PermissionRequest{}, fmt.Errorf("failed to encode periodic permission data: %w", err)
	}

	out := original.WithExpiryRule(pc.Expiry)
	out.Permission.Data = payload
	adjustmentAllowed := pc.IsAdjustmentAllowed
	out.IsAdjustmentAllowed = &adjustmentAllowed
	return out, nil
}

func populatePeriodicPermission(p types.Permission) (types.Permission, error) {
	var data PeriodicPermissionData
	if err := json.Unmarshal(p.Data, &data); err != nil {
		return types.Permission{}, fmt.Errorf("failed to decode periodic permission data: %w", err)
	}
	if data.StartTime != 0 {
		// already populated
		return p, nil
	}
	data.StartTime = time.Now().Unix()
	payload, err := json.Marshal(data)
	if err != nil {
		return types.Permission{}, fmt.Errorf("failed to encode periodic permission data: %w", err)
	}
	out := p
	out.Data = payload
	return out, nil
}
