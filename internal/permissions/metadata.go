package permissions

import (
	"math/big"
	"time"

	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/validation"
)

const secondsPerDay = 86400

// validateAmountDetail validates one detail-bag amount field into the
// metadata, returning the parsed amount when valid
func validateAmountDetail(pc types.PermissionContext, md *types.Metadata, name string, allowZero bool) *big.Int {
	value, ok := pc.Detail(name)
	if !ok {
		return nil
	}
	amount, msg := validation.ValidateAndParseAmount(value, pc.TokenMetadata.Decimals, allowZero)
	if msg != "" {
		md.FieldErrors[name] = msg
		return nil
	}
	return amount
}

// validateTimeFields validates expiry, the optional start time and their
// cross-field ordering
func validateTimeFields(pc types.PermissionContext, md *types.Metadata, now time.Time) {
	expiryErr := validation.ValidateExpiry(pc.Expiry, now)
	if expiryErr != "" {
		md.FieldErrors[ExpiryFieldName] = expiryErr
	}

	startValue, hasStart := pc.Detail(DetailStartTime)
	if !hasStart {
		return
	}
	startTime := parseTimestampDetail(startValue)
	if msg := validation.ValidateStartTime(startTime, now); msg != "" {
		md.FieldErrors[DetailStartTime] = msg
		return
	}
	if expiryErr == "" {
		if msg := validation.ValidateStartBeforeExpiry(startTime, pc.Expiry); msg != "" {
			md.FieldErrors[DetailStartTime] = msg
		}
	}
}

// derivePeriodicMetadata computes validation state for the periodic
// transfer permission family
func derivePeriodicMetadata(pc types.PermissionContext) types.Metadata {
	md := types.NewMetadata()
	now := time.Now()

	periodAmount := validateAmountDetail(pc, &md, DetailPeriodAmount, false)
	validateAmountDetail(pc, &md, DetailInitialAmount, true)

	var periodDuration int64
	if value, ok := pc.Detail(DetailPeriodDuration); ok {
		var msg string
		if periodDuration, msg = validation.ValidateAndParseDuration(value); msg != "" {
			md.FieldErrors[DetailPeriodDuration] = msg
		}
	}

	validateTimeFields(pc, &md, now)

	if periodAmount != nil && periodDuration > 0 {
		daily := new(big.Int).Div(new(big.Int).Mul(periodAmount, big.NewInt(secondsPerDay)), big.NewInt(periodDuration))
		md.Derived["dailyAllowance"] = formatUnits(daily, pc.TokenMetadata.Decimals)
	}
	return md
}

// deriveStreamMetadata computes validation state for the streaming
// permission family
func deriveStreamMetadata(pc types.PermissionContext) types.Metadata {
	md := types.NewMetadata()
	now := time.Now()

	ratePerSecond := validateAmountDetail(pc, &md, DetailAmountPerSecond, false)
	initialAmount := validateAmountDetail(pc, &md, DetailInitialAmount, true)
	maxAmount := validateAmountDetail(pc, &md, DetailMaxAmount, false)

	if msg := validation.ValidateMaxAmount(maxAmount, initialAmount); msg != "" {
		md.FieldErrors[DetailMaxAmount] = msg
	}

	validateTimeFields(pc, &md, now)

	if ratePerSecond != nil {
		daily := new(big.Int).Mul(ratePerSecond, big.NewInt(secondsPerDay))
		md.Derived["dailyStreamRate"] = formatUnits(daily, pc.TokenMetadata.Decimals)
	}
	return md
}
