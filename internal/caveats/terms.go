package caveats

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Term encoders produce the packed binary layout each enforcer contract
// decodes on chain. Layouts follow the delegation framework conventions:
// uint256 values are 32-byte big-endian words, addresses 20 raw bytes,
// the timestamp thresholds two packed uint128 halves.

// EncodeTimestampTerms packs (afterThreshold, beforeThreshold) as two
// 16-byte big-endian uint128 values
func EncodeTimestampTerms(afterThreshold, beforeThreshold int64) []byte {
	terms := make([]byte, 0, 32)
	terms = append(terms, common.LeftPadBytes(big.NewInt(afterThreshold).Bytes(), 16)...)
	terms = append(terms, common.LeftPadBytes(big.NewInt(beforeThreshold).Bytes(), 16)...)
	return terms
}

// EncodeNativePeriodicTerms packs (periodAmount, periodDuration, startDate)
// as three uint256 words
func EncodeNativePeriodicTerms(periodAmount *big.Int, periodDuration, startDate int64) []byte {
	terms := make([]byte, 0, 96)
	terms = append(terms, common.LeftPadBytes(periodAmount.Bytes(), 32)...)
	terms = append(terms, common.LeftPadBytes(big.NewInt(periodDuration).Bytes(), 32)...)
	terms = append(terms, common.LeftPadBytes(big.NewInt(startDate).Bytes(), 32)...)
	return terms
}

// EncodeERC20PeriodicTerms prefixes the native periodic layout with the
// token contract address
func EncodeERC20PeriodicTerms(token common.Address, periodAmount *big.Int, periodDuration, startDate int64) []byte {
	terms := make([]byte, 0, 116)
	terms = append(terms, token.Bytes()...)
	terms = append(terms, EncodeNativePeriodicTerms(periodAmount, periodDuration, startDate)...)
	return terms
}

// EncodeNativeStreamingTerms packs (initialAmount, maxAmount,
// amountPerSecond, startTime) as four uint256 words
func EncodeNativeStreamingTerms(initialAmount, maxAmount, amountPerSecond *big.Int, startTime int64) []byte {
	terms := make([]byte, 0, 128)
	terms = append(terms, common.LeftPadBytes(initialAmount.Bytes(), 32)...)
	terms = append(terms, common.LeftPadBytes(maxAmount.Bytes(), 32)...)
	terms = append(terms, common.LeftPadBytes(amountPerSecond.Bytes(), 32)...)
	terms = append(terms, common.LeftPadBytes(big.NewInt(startTime).Bytes(), 32)...)
	return terms
}

// EncodeERC20StreamingTerms prefixes the native streaming layout with the
// token contract address
func EncodeERC20StreamingTerms(token common.Address, initialAmount, maxAmount, amountPerSecond *big.Int, startTime int64) []byte {
	terms := make([]byte, 0, 148)
	terms = append(terms, token.Bytes()...)
	terms = append(terms, EncodeNativeStreamingTerms(initialAmount, maxAmount, amountPerSecond, startTime)...)
	return terms
}
