// Package interfaces declares the collaborator contracts the permission
// lifecycle depends on. Implementations live elsewhere (wallet UI
// transport, account controller, token lookups); the orchestration core
// only consumes these shapes.
package interfaces

import (
	"context"
	"math/big"

	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/ui"
	"github.com/ethereum/go-ethereum/common"
)

// UserDecision is the terminal outcome of a confirmation dialog
type UserDecision struct {
	IsConfirmationGranted bool
}

// ConfirmationDialog displays confirmation content and reports the user's
// terminal decision. The handle returned by CreateInterface routes
// subsequent updates and events.
type ConfirmationDialog interface {
	CreateInterface(ctx context.Context, content ui.Content) (string, error)
	UpdateContent(ctx context.Context, interfaceID string, content ui.Content) error
	AwaitUserDecision(ctx context.Context, interfaceID string) (UserDecision, error)
}

// EventType discriminates UI events
type EventType string

const (
	EventInputChange EventType = "input-change"
	EventButtonClick EventType = "button-click"
	EventFormSubmit  EventType = "form-submit"
)

// Event is one dispatched UI event. Value is only meaningful for
// input-change events.
type Event struct {
	Type        EventType
	ElementName string
	Value       string
}

// EventHandler processes one dispatched event to completion before the
// next event is delivered
type EventHandler func(event Event) error

// EventDispatcher is the pub/sub capability routing UI events by
// (interface handle, element name, event type)
type EventDispatcher interface {
	On(interfaceID, elementName string, eventType EventType, handler EventHandler) error
	Off(interfaceID, elementName string, eventType EventType) error
}

// AccountMetadata is counterfactual deployment data for a smart account.
// Factory and FactoryData are either both set or both empty.
type AccountMetadata struct {
	Factory     string
	FactoryData string
}

// Environment describes the delegation environment of one chain
type Environment struct {
	ChainID int64
	Name    string
}

// AccountController owns the user's smart account: address resolution,
// deployment metadata and delegation signing
type AccountController interface {
	GetAccountAddress(ctx context.Context, chainID int64) (common.Address, error)
	GetAccountMetadata(ctx context.Context, chainID int64) (AccountMetadata, error)
	GetDelegationManager(ctx context.Context, chainID int64) (common.Address, error)
	GetEnvironment(ctx context.Context, chainID int64) (Environment, error)
	SignDelegation(ctx context.Context, chainID int64, d types.Delegation) (types.Delegation, error)
}

// IconFetchResult reports an icon lookup. Icon fetching is cosmetic and
// degrades gracefully: failure is encoded here, never raised as an error.
type IconFetchResult struct {
	Success bool
	Data    string // base64 data URI when Success
}

// TokenService resolves token metadata, balances and icons. An empty token
// address refers to the chain's native token.
type TokenService interface {
	GetTokenMetadata(ctx context.Context, chainID int64, tokenAddress string) (types.TokenMetadata, error)
	GetTokenBalance(ctx context.Context, chainID int64, account common.Address, tokenAddress string) (*big.Int, error)
	GetTokenIcon(ctx context.Context, chainID int64, tokenAddress string) IconFetchResult
}
