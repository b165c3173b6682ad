package permissions

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cyphera/gator-permissions/internal/rules"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/validation"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Detail bag keys shared across permission types
const (
	DetailPeriodAmount    = "periodAmount"
	DetailPeriodDuration  = "periodDuration"
	DetailStartTime       = "startTime"
	DetailInitialAmount   = "initialAmount"
	DetailMaxAmount       = "maxAmount"
	DetailAmountPerSecond = "amountPerSecond"
)

// ExpiryFieldName is the event element name of the expiry rule
const ExpiryFieldName = "expiry"

// IsAddressValid checks if the provided string is a valid Ethereum address
// It verifies:
// 1. The address is exactly 42 characters long (including 0x prefix)
// 2. The address starts with "0x"
// 3. The remaining 40 characters are valid hexadecimal
func IsAddressValid(address string) bool {
	if len(address) != 42 {
		return false
	}
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	for _, c := range address[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// parseHexAmount decodes a 0x-prefixed minor-unit amount
func parseHexAmount(value string) (*big.Int, error) {
	amount, err := hexutil.DecodeBig(value)
	if err != nil {
		return nil, fmt.Errorf("invalid hex amount %q: %w", value, err)
	}
	return amount, nil
}

// formatUnits renders a minor-unit amount as a decimal display string
func formatUnits(amount *big.Int, decimals uint8) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(amount, scale, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	fracStr := frac.String()
	if pad := int(decimals) - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	return whole.String() + "." + strings.TrimRight(fracStr, "0")
}

// toHexUnits re-encodes a validated decimal display string as a
// 0x-prefixed minor-unit amount. The display string has already passed
// metadata validation when this runs, so failure here is a defect.
func toHexUnits(value string, decimals uint8, allowZero bool) (string, error) {
	amount, msg := validation.ValidateAndParseAmount(value, decimals, allowZero)
	if msg != "" {
		return "", fmt.Errorf("cannot encode amount %q: %s", value, msg)
	}
	return hexutil.EncodeBig(amount), nil
}

// expiryRule exposes the BaseContext expiry through the rule engine. The
// context stores expiry as a number; an unparseable edit is folded in as
// the malformed-time sentinel so it surfaces as a metadata error instead
// of being dropped.
func expiryRule() rules.RuleDefinition {
	return rules.RuleDefinition{
		Name:  ExpiryFieldName,
		Label: "Expiry",
		Type:  rules.RuleTypeNumber,
		GetRuleData: func(ctx types.PermissionContext, md types.Metadata) rules.RuleData {
			value := strconv.FormatInt(ctx.Expiry, 10)
			return rules.RuleData{
				Value:               &value,
				IsVisible:           true,
				IsAdjustmentAllowed: ctx.IsAdjustmentAllowed,
				Tooltip:             "Unix timestamp after which the permission is void",
				Error:               md.FieldErrors[ExpiryFieldName],
			}
		},
		UpdateContext: func(ctx types.PermissionContext, value string) types.PermissionContext {
			expiry, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				expiry = validation.MalformedTimeSentinel
			}
			return ctx.WithExpiry(expiry)
		},
	}
}

// buildBaseContext performs the context construction shared by all
// permission types: account resolution, token metadata, balance and icon.
// tokenAddress is empty for native-token permissions.
func buildBaseContext(ctx context.Context, deps Dependencies, req types.PermissionRequest, tokenAddress string) (types.PermissionContext, error) {
	chainID, err := req.ChainIDInt()
	if err != nil {
		return types.PermissionContext{}, err
	}
	expiry, err := req.ExpiryRule()
	if err != nil {
		return types.PermissionContext{}, err
	}

	account, err := deps.Accounts.GetAccountAddress(ctx, chainID)
	if err != nil {
		return types.PermissionContext{}, fmt.Errorf("failed to resolve account address: %w", err)
	}

	tokenMeta, err := deps.Tokens.GetTokenMetadata(ctx, chainID, tokenAddress)
	if err != nil {
		return types.PermissionContext{}, fmt.Errorf("failed to resolve token metadata: %w", err)
	}

	// Icon fetch is cosmetic; absence is not fatal
	if icon := deps.Tokens.GetTokenIcon(ctx, chainID, tokenAddress); icon.Success {
		tokenMeta.IconData = icon.Data
	} else if deps.Logger != nil {
		deps.Logger.Debug("Token icon unavailable",
			zap.Int64("chain_id", chainID),
			zap.String("token_address", tokenAddress),
		)
	}

	balance := ""
	if raw, err := deps.Tokens.GetTokenBalance(ctx, chainID, account, tokenAddress); err != nil {
		return types.PermissionContext{}, fmt.Errorf("failed to resolve account balance: %w", err)
	} else if raw != nil {
		balance = formatUnits(raw, tokenMeta.Decimals)
	}

	return types.PermissionContext{
		PermissionType:      req.Permission.Type,
		Expiry:              expiry,
		IsAdjustmentAllowed: req.AdjustmentAllowed(),
		AccountAddress:      account.Hex(),
		TokenAddress:        tokenAddress,
		TokenMetadata:       tokenMeta,
		AccountBalance:      balance,
		Details:             make(map[string]string),
	}, nil
}

// parseTimestampDetail maps an unparseable user-typed timestamp onto the
// malformed-time sentinel so validators report it instead of panicking
func parseTimestampDetail(value string) int64 {
	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return validation.MalformedTimeSentinel
	}
	return ts
}
