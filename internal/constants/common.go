package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// Permission type tags as they appear on the wire
	NativeTokenStreamType   = "native-token-stream"
	NativeTokenPeriodicType = "native-token-periodic"
	ERC20TokenStreamType    = "erc20-token-stream"
	ERC20TokenPeriodicType  = "erc20-token-periodic"
)
