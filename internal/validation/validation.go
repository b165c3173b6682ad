// Package validation provides the pure field-level and cross-field
// validators applied to user-editable permission context values. All
// functions here are total: the same input always yields the same output,
// malformed input is reported as an error string, and nothing panics for
// user-supplied values.
package validation

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Error messages surfaced inline in the confirmation UI. One message per
// failure mode so tests and the UI can distinguish them.
const (
	MsgInvalidAmountFormat     = "Invalid amount format"
	MsgAmountMustBePositive    = "Amount must be greater than 0"
	MsgAmountMustBeNonNegative = "Amount must be greater than or equal to 0"
	MsgInvalidStartTime        = "Invalid start time"
	MsgStartTimeInPast         = "Start time cannot be in the past"
	MsgInvalidExpiry           = "Invalid expiry"
	MsgExpiryNotInFuture       = "Expiry must be in the future"
	MsgStartAfterExpiry        = "Start time must be before expiry"
	MsgMaxBelowInitial         = "Maximum amount must be greater than or equal to the initial amount"
	MsgInvalidDuration         = "Invalid duration"
	MsgDurationMustBePositive  = "Duration must be greater than 0"
)

// MalformedTimeSentinel marks a date field the UI itself could not parse
const MalformedTimeSentinel = -1

var decimalAmountPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// ValidateAndParseAmount converts a decimal string plus token decimals to an
// integer minor-unit amount. Returns (nil, message) on any failure; never
// returns both nil and empty.
func ValidateAndParseAmount(value string, decimals uint8, allowZero bool) (*big.Int, string) {
	if !decimalAmountPattern.MatchString(value) {
		return nil, MsgInvalidAmountFormat
	}
	if strings.HasPrefix(value, "-") {
		if allowZero {
			return nil, MsgAmountMustBeNonNegative
		}
		return nil, MsgAmountMustBePositive
	}

	whole := value
	frac := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		frac = value[idx+1:]
	}
	if len(frac) > int(decimals) {
		// more precision than the token supports
		return nil, MsgInvalidAmountFormat
	}

	amount, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, MsgInvalidAmountFormat
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	amount.Mul(amount, scale)

	if frac != "" {
		fracInt, ok := new(big.Int).SetString(frac, 10)
		if !ok {
			return nil, MsgInvalidAmountFormat
		}
		fracScale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)-int64(len(frac))), nil)
		amount.Add(amount, fracInt.Mul(fracInt, fracScale))
	}

	if amount.Sign() == 0 && !allowZero {
		return nil, MsgAmountMustBePositive
	}
	return amount, ""
}

// ValidateAndParseDuration converts a duration string to whole seconds.
// Returns (0, message) on any failure.
func ValidateAndParseDuration(value string) (int64, string) {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, MsgInvalidDuration
	}
	if seconds <= 0 {
		return 0, MsgDurationMustBePositive
	}
	return seconds, ""
}

// ValidateStartTime checks a unix start timestamp against the start of the
// current local day. The -1 sentinel means the UI's own date field was
// malformed and gets its own message.
func ValidateStartTime(startTime int64, now time.Time) string {
	if startTime == MalformedTimeSentinel {
		return MsgInvalidStartTime
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if startTime < dayStart.Unix() {
		return MsgStartTimeInPast
	}
	return ""
}

// ValidateExpiry checks a unix expiry timestamp against the current time
func ValidateExpiry(expiry int64, now time.Time) string {
	if expiry == MalformedTimeSentinel {
		return MsgInvalidExpiry
	}
	if expiry <= now.Unix() {
		return MsgExpiryNotInFuture
	}
	return ""
}

// ValidateStartBeforeExpiry enforces the cross-field ordering of two
// individually valid timestamps
func ValidateStartBeforeExpiry(startTime, expiry int64) string {
	if startTime >= expiry {
		return MsgStartAfterExpiry
	}
	return ""
}

// ValidateMaxAmount enforces max >= initial when both amounts are present
func ValidateMaxAmount(maxAmount, initialAmount *big.Int) string {
	if maxAmount == nil || initialAmount == nil {
		return ""
	}
	if maxAmount.Cmp(initialAmount) < 0 {
		return MsgMaxBelowInitial
	}
	return ""
}
