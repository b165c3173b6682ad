// Package orchestrator drives one permission request end-to-end: context
// construction, the interactive confirmation with nested rule sub-flows,
// re-validation on every edit, and resolution of the approved request into
// a signed, caveat-bound delegation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/rules"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RejectionReason is the reason string of the sole expected,
// non-exceptional failure outcome
const RejectionReason = "User rejected the permissions request"

// ErrNoContext guards the getContext closure against misuse before the
// initial context build. It indicates a defect, not a runtime condition.
var ErrNoContext = errors.New("permission context accessed before it was built")

// Result is the caller-facing outcome of one orchestration
type Result struct {
	Success  bool
	Reason   string
	Response *types.PermissionResponse
}

// sessionState is the explicit lifecycle state of one orchestrate call
type sessionState int

const (
	stateInitializing sessionState = iota
	stateAwaitingDecision
	stateApproved
	stateRejected
)

// Orchestrator runs permission grant sessions. Construct once, call
// Orchestrate per request; each call owns its own session state and
// interface handle, so calls do not interfere with each other.
type Orchestrator struct {
	registry  *permissions.Registry
	dialog    interfaces.ConfirmationDialog
	events    interfaces.EventDispatcher
	accounts  interfaces.AccountController
	tokens    interfaces.TokenService
	contracts registry.DelegationContractsProvider
	logger    *zap.Logger
}

// New creates an orchestrator over its collaborators
func New(
	reg *permissions.Registry,
	dialog interfaces.ConfirmationDialog,
	events interfaces.EventDispatcher,
	accounts interfaces.AccountController,
	tokens interfaces.TokenService,
	contracts registry.DelegationContractsProvider,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:  reg,
		dialog:    dialog,
		events:    events,
		accounts:  accounts,
		tokens:    tokens,
		contracts: contracts,
		logger:    logger,
	}
}

// session is the per-call mutable state. The context pointer is nil only
// before the initial build; every edit replaces the value wholesale.
type session struct {
	def         *permissions.TypeDefinition
	request     types.PermissionRequest
	chainID     int64
	origin      string
	state       sessionState
	context     *types.PermissionContext
	interfaceID string
	modal       *RuleModalManager
	unbinders   []func() error
}

// Orchestrate processes one permission request to a terminal outcome.
// User rejection returns Result{Success: false}; every other failure is an
// error and no partial delegation is ever produced.
func (o *Orchestrator) Orchestrate(ctx context.Context, rawRequest types.PermissionRequest, origin string) (Result, error) {
	def, err := o.registry.Get(rawRequest.Permission.Type)
	if err != nil {
		return Result{}, err
	}
	request, err := def.ParseAndValidate(rawRequest)
	if err != nil {
		return Result{}, err
	}
	chainID, err := request.ChainIDInt()
	if err != nil {
		return Result{}, err
	}

	s := &session{
		def:     def,
		request: request,
		chainID: chainID,
		origin:  origin,
		state:   stateInitializing,
	}

	deps := permissions.Dependencies{Accounts: o.accounts, Tokens: o.tokens, Logger: o.logger}
	initial, err := def.BuildContext(ctx, deps, request)
	if err != nil {
		return Result{}, err
	}
	s.context = &initial

	content, err := o.buildMainContent(s)
	if err != nil {
		return Result{}, err
	}
	s.interfaceID, err = o.dialog.CreateInterface(ctx, content)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create confirmation interface: %w", err)
	}

	o.logger.Info("Permission confirmation started",
		zap.String("origin", origin),
		zap.String("permission_type", def.Type),
		zap.Int64("chain_id", chainID),
		zap.String("interface_id", s.interfaceID),
	)

	decision, err := o.runInteractiveSession(ctx, s)
	if err != nil {
		return Result{}, err
	}

	if !decision.IsConfirmationGranted {
		s.state = stateRejected
		o.logger.Info("Permission rejected by user", zap.String("interface_id", s.interfaceID))
		return Result{Success: false, Reason: RejectionReason}, nil
	}

	s.state = stateApproved
	response, err := o.finalize(ctx, s)
	if err != nil {
		return Result{}, err
	}
	return Result{Success: true, Response: response}, nil
}

// runInteractiveSession binds all event handlers, waits for the user's
// terminal decision and guarantees every handler is unbound, in reverse
// bind order, on the way out - success, rejection or error alike.
func (o *Orchestrator) runInteractiveSession(ctx context.Context, s *session) (interfaces.UserDecision, error) {
	defer o.unbindAll(s)

	if err := o.bindRuleHandlers(ctx, s); err != nil {
		return interfaces.UserDecision{}, err
	}
	if err := o.bindRuleModal(ctx, s); err != nil {
		return interfaces.UserDecision{}, err
	}
	s.state = stateAwaitingDecision

	decision, err := o.dialog.AwaitUserDecision(ctx, s.interfaceID)
	if err != nil {
		return interfaces.UserDecision{}, fmt.Errorf("failed awaiting user decision: %w", err)
	}
	return decision, nil
}

// bindRuleHandlers registers one input-change handler per rule of the
// permission type. Each handler folds the new value into a fresh context
// snapshot and re-renders.
func (o *Orchestrator) bindRuleHandlers(ctx context.Context, s *session) error {
	for _, rule := range s.def.Rules {
		rule := rule
		handler := func(event interfaces.Event) error {
			current, err := o.getContext(s)
			if err != nil {
				return err
			}
			next := rule.UpdateContext(current, event.Value)
			return o.onContextChanged(ctx, s, &next)
		}
		if err := o.events.On(s.interfaceID, rule.Name, interfaces.EventInputChange, handler); err != nil {
			return fmt.Errorf("failed to bind handler for rule %q: %w", rule.Name, err)
		}
		name := rule.Name
		s.unbinders = append(s.unbinders, func() error {
			return o.events.Off(s.interfaceID, name, interfaces.EventInputChange)
		})
	}
	return nil
}

// bindRuleModal wires the rule modal manager. The orchestrator's
// callbacks are constructed first and passed in; the manager exposes its
// own handlers in return. Modal-only UI changes go through the lighter
// render callback and never propagate metadata errors into the outer
// context structure.
func (o *Orchestrator) bindRuleModal(ctx context.Context, s *session) error {
	s.modal = NewRuleModalManager(s.def.Rules, ModalCallbacks{
		GetContext: func() (types.PermissionContext, error) {
			return o.getContext(s)
		},
		DeriveMetadata: func(pc types.PermissionContext) types.Metadata {
			return s.def.DeriveMetadata(pc)
		},
		OnContextChanged: func(next types.PermissionContext) error {
			return o.onContextChanged(ctx, s, &next)
		},
		RequestRender: func() error {
			return o.render(ctx, s)
		},
	})

	unbinders, err := s.modal.Bind(o.events, s.interfaceID)
	s.unbinders = append(s.unbinders, unbinders...)
	return err
}

// unbindAll releases every event registration in reverse bind order.
// Unbind failures are logged, not raised: they must not mask the outcome
// that is already propagating.
func (o *Orchestrator) unbindAll(s *session) {
	for i := len(s.unbinders) - 1; i >= 0; i-- {
		if err := s.unbinders[i](); err != nil {
			o.logger.Warn("Failed to unbind event handler",
				zap.String("interface_id", s.interfaceID),
				zap.Error(err),
			)
		}
	}
	s.unbinders = nil
}

// getContext returns the current context snapshot. Post-build this can
// never fail; the guard protects against misuse.
func (o *Orchestrator) getContext(s *session) (types.PermissionContext, error) {
	if s.context == nil {
		return types.PermissionContext{}, ErrNoContext
	}
	return *s.context, nil
}

// onContextChanged optionally replaces the current context, resets any
// in-progress modal state that the change invalidated, and re-renders
func (o *Orchestrator) onContextChanged(ctx context.Context, s *session, next *types.PermissionContext) error {
	if next != nil {
		s.context = next
	}
	if s.modal != nil && !s.modal.IsVisible() {
		s.modal.Reset()
	}
	return o.render(ctx, s)
}

// render projects the current session state into dialog content: the rule
// modal when it is open, the main confirmation content otherwise
func (o *Orchestrator) render(ctx context.Context, s *session) error {
	if s.modal != nil && s.modal.IsVisible() {
		current, err := o.getContext(s)
		if err != nil {
			return err
		}
		content := s.modal.Content(current, s.def.DeriveMetadata(current))
		return o.dialog.UpdateContent(ctx, s.interfaceID, content)
	}

	content, err := o.buildMainContent(s)
	if err != nil {
		return err
	}
	return o.dialog.UpdateContent(ctx, s.interfaceID, content)
}

// buildMainContent renders the full confirmation content with the
// add-more-rules button shown while any optional rule is still absent
func (o *Orchestrator) buildMainContent(s *session) (ui.Content, error) {
	current, err := o.getContext(s)
	if err != nil {
		return ui.Content{}, err
	}
	md := s.def.DeriveMetadata(current)
	missing := rules.MissingOptionalRules(s.def.Rules, current, md)
	return s.def.CreateUIContent(permissions.UIParams{
		Context:                current,
		Metadata:               md,
		Origin:                 s.origin,
		ChainID:                s.chainID,
		ShowAddMoreRulesButton: len(missing) > 0,
	}), nil
}

// finalize resolves the approved request into a signed delegation and the
// caller-facing response. Handlers are already unbound when this runs, so
// no edit can race it. Any failure here fails the whole grant.
func (o *Orchestrator) finalize(ctx context.Context, s *session) (*types.PermissionResponse, error) {
	resolved := s.request
	if s.request.AdjustmentAllowed() {
		current, err := o.getContext(s)
		if err != nil {
			return nil, err
		}
		// Approval can land while an edit has left a field invalid; a
		// context that metadata still rejects must never be encoded
		if md := s.def.DeriveMetadata(current); md.HasErrors() {
			verr := types.NewRequestValidationError()
			for field, msg := range md.FieldErrors {
				verr.Add(field, msg)
			}
			return nil, verr
		}
		if resolved, err = s.def.ApplyContext(current, s.request); err != nil {
			return nil, err
		}
	}

	populated, err := s.def.PopulatePermission(resolved.Permission)
	if err != nil {
		return nil, err
	}
	resolved.Permission = populated

	grantedExpiry, err := resolved.ExpiryRule()
	if err != nil {
		return nil, err
	}

	// Independent reads with no ordering dependency; all-or-nothing
	var (
		accountAddress    common.Address
		accountMeta       interfaces.AccountMetadata
		delegationManager common.Address
		environment       interfaces.Environment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accountAddress, err = o.accounts.GetAccountAddress(gctx, s.chainID)
		return err
	})
	g.Go(func() (err error) {
		accountMeta, err = o.accounts.GetAccountMetadata(gctx, s.chainID)
		return err
	})
	g.Go(func() (err error) {
		delegationManager, err = o.accounts.GetDelegationManager(gctx, s.chainID)
		return err
	})
	g.Go(func() (err error) {
		environment, err = o.accounts.GetEnvironment(gctx, s.chainID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve account environment: %w", err)
	}

	contracts, err := o.contracts.GetDelegationContracts(s.chainID)
	if err != nil {
		return nil, err
	}

	// The expiry bound is always the first caveat, regardless of type
	builder := caveats.NewBuilder(contracts)
	if err := builder.AddCaveat(registry.TimestampEnforcer, caveats.EncodeTimestampTerms(0, grantedExpiry)); err != nil {
		return nil, err
	}
	if err := s.def.AppendCaveats(resolved.Permission, builder); err != nil {
		return nil, err
	}
	caveatList, err := builder.Build()
	if err != nil {
		return nil, err
	}

	salt, err := delegation.NewSalt()
	if err != nil {
		return nil, err
	}
	unsigned := delegation.New(
		common.HexToAddress(resolved.Signer.Data.Address),
		accountAddress,
		caveatList,
		salt,
	)
	signed, err := o.accounts.SignDelegation(ctx, s.chainID, unsigned)
	if err != nil {
		return nil, fmt.Errorf("failed to sign delegation: %w", err)
	}
	encoded, err := delegation.Encode(signed)
	if err != nil {
		return nil, err
	}

	o.logger.Info("Permission granted",
		zap.String("origin", s.origin),
		zap.String("permission_type", s.def.Type),
		zap.Int64("chain_id", environment.ChainID),
		zap.Int("caveat_count", len(caveatList)),
	)

	response := &types.PermissionResponse{
		ChainID:             fmt.Sprintf("0x%x", s.chainID),
		Address:             accountAddress.Hex(),
		Signer:              resolved.Signer,
		Permission:          resolved.Permission,
		Rules:               resolved.Rules,
		IsAdjustmentAllowed: resolved.AdjustmentAllowed(),
		Context:             encoded,
		SignerMeta:          types.SignerMeta{DelegationManager: delegationManager.Hex()},
	}
	// Factory and factoryData only travel together
	if accountMeta.Factory != "" && accountMeta.FactoryData != "" {
		response.AccountMeta = &types.AccountMeta{
			Factory:     accountMeta.Factory,
			FactoryData: accountMeta.FactoryData,
		}
	}
	return response, nil
}
