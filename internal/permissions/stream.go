package permissions

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/cyphera/gator-permissions/internal/types"
)

// maxUint256 is the stream cap used when the requester sets no explicit
// maximum
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// StreamPermissionData is the wire payload of the streaming permission
// family. Amounts are hex-encoded minor units; TokenAddress is only
// present for the ERC-20 variant.
type StreamPermissionData struct {
	TokenAddress    string `json:"tokenAddress,omitempty"`
	AmountPerSecond string `json:"amountPerSecond"`
	InitialAmount   string `json:"initialAmount,omitempty"`
	MaxAmount       string `json:"maxAmount,omitempty"`
	StartTime       int64  `json:"startTime,omitempty"`
	Justification   string `json:"justification,omitempty"`
}

func parseStreamRequest(req types.PermissionRequest, wantType string, erc20 bool) (types.PermissionRequest, error) {
	verr := types.NewRequestValidationError()
	validateCommonRequestShape(req, wantType, verr)

	var data StreamPermissionData
	if err := json.Unmarshal(req.Permission.Data, &data); err != nil {
		verr.Add("permission.data", "malformed permission data: "+err.Error())
		return types.PermissionRequest{}, verr
	}

	if rate, err := parseHexAmount(data.AmountPerSecond); err != nil {
		verr.Add("permission.data.amountPerSecond", err.Error())
	} else if rate.Sign() <= 0 {
		verr.Add("permission.data.amountPerSecond", "must be positive")
	}
	var initialAmount, maxAmount *big.Int
	if data.InitialAmount != "" {
		amount, err := parseHexAmount(data.InitialAmount)
		if err != nil {
			verr.Add("permission.data.initialAmount", err.Error())
		} else if amount.Sign() < 0 {
			verr.Add("permission.data.initialAmount", "must not be negative")
		} else {
			initialAmount = amount
		}
	}
	if data.MaxAmount != "" {
		amount, err := parseHexAmount(data.MaxAmount)
		if err != nil {
			verr.Add("permission.data.maxAmount", err.Error())
		} else if amount.Sign() <= 0 {
			verr.Add("permission.data.maxAmount", "must be positive")
		} else {
			maxAmount = amount
		}
	}
	if initialAmount != nil && maxAmount != nil && maxAmount.Cmp(initialAmount) < 0 {
		verr.Add("permission.data.maxAmount", "must be greater than or equal to initialAmount")
	}
	if data.StartTime < 0 {
		verr.Add("permission.data.startTime", "must not be negative")
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

func buildStreamContext(ctx context.Context, deps Dependencies, req types.PermissionRequest) (types.PermissionContext, error) {
	var data StreamPermissionData
	if err := json.Unmarshal(req.Permission.Data, &data); err != nil {
		return types.PermissionContext{}, fmt.Errorf("failed to decode stream permission data: %w", err)
	}

	pc, err := buildBaseContext(ctx, deps, req, data.TokenAddress)
	if err != nil {
		return types.PermissionContext{}, err
	}
	decimals := pc.TokenMetadata.Decimals

	rate, err := parseHexAmount(data.AmountPerSecond)
	if err != nil {
		return types.PermissionContext{}, err
	}
	pc.Details[DetailAmountPerSecond] = formatUnits(rate, decimals)
	if data.InitialAmount != "" {
		initial, err := parseHexAmount(data.InitialAmount)
		if err != nil {
			return types.PermissionContext{}, err
		}
		pc.Details[DetailInitialAmount] = formatUnits(initial, decimals)
	}
	if data.MaxAmount != "" {
		max, err := parseHexAmount(data.MaxAmount)
		if err != nil {
			return types.PermissionContext{}, err
		}
		pc.Details[DetailMaxAmount] = formatUnits(max, decimals)
	}
	if data.StartTime > 0 {
		pc.Details[DetailStartTime] = strconv.FormatInt(data.StartTime, 10)
	}
	pc.Justification = data.Justification
	return pc, nil
}

func applyStreamContext(pc types.PermissionContext, original types.PermissionRequest) (types.PermissionRequest, error) {
	var data StreamPermissionData
	if err := json.Unmarshal(original.Permission.Data, &data); err != nil {
		return types.PermissionRequest{}, fmt.Errorf("failed to decode stream permission data: %w", err)
	}
	decimals := pc.TokenMetadata.Decimals

	if value, ok := pc.Detail(DetailAmountPerSecond); ok {
		encoded, err := toHexUnits(value, decimals, false)
		if err != nil {
			return types.PermissionRequest{}, err
		}
		data.AmountPerSecond = encoded
	}
	if value, ok := pc.Detail(DetailInitialAmount); ok {
		encoded, err := toHexUnits(value, decimals, true)
		if err != nil {
			return types.PermissionRequest{}, err
		}
		data.InitialAmount = encoded
	}
	if value, ok := pc.Detail(DetailMaxAmount); ok {
		encoded, err := toHexUnits(value, decimals, false)
		if err != nil {
			return types.PermissionRequest{}, err
		}
		data.MaxAmount = encoded
	}
	if value, ok := pc.Detail(DetailStartTime); ok {
		startTime, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return types.PermissionRequest{}, fmt.Errorf("cannot encode start time %q: %w", value, err)
		}
		data.StartTime = startTime
	}
	data.Justification = pc.Justification

	payload, err := json.Marshal(data)
	if err != nil {
		return types.PermissionRequest{}, fmt.Errorf("failed to encode stream permission data: %w", err)
	}

	out := original.WithExpiryRule(pc.Expiry)
	out.Permission.Data = payload
	adjustmentAllowed := pc.IsAdjustmentAllowed
	out.IsAdjustmentAllowed = &adjustmentAllowed
	return out, nil
}

func populateStreamPermission(p types.Permission) (types.Permission, error) {
	var data StreamPermissionData
	if err := json.Unmarshal(p.Data, &data); err != nil {
		return types.Permission{}, fmt.Errorf("failed to decode stream permission data: %w", err)
	}
	if data.StartTime != 0 {
		// already populated
		return p, nil
	}
	data.StartTime = time.Now().Unix()
	payload, err := json.Marshal(data)
	if err != nil {
		return types.Permission{}, fmt.Errorf("failed to encode stream permission data: %w", err)
	}
	out := p
	out.Data = payload
	return out, nil
}

// streamCaveatAmounts resolves the optional stream bounds to the values
// the enforcer encodes: zero initial allowance and an uncapped maximum
func streamCaveatAmounts(data StreamPermissionData) (initial, max, rate *big.Int, err error) {
	rate, err = parseHexAmount(data.AmountPerSecond)
	if err != nil {
		return nil, nil, nil, err
	}
	initial = big.NewInt(0)
	if data.InitialAmount != "" {
		if initial, err = parseHexAmount(data.InitialAmount); err != nil {
			return nil, nil, nil, err
		}
	}
	max = new(big.Int).Set(maxUint256)
	if data.MaxAmount != "" {
		if max, err = parseHexAmount(data.MaxAmount); err != nil {
			return nil, nil, nil, err
		}
	}
	return initial, max, rate, nil
}
