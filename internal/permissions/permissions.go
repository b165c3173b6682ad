// Package permissions defines the per-permission-type plugin contract and
// the closed registry the orchestrator dispatches through. Every permission
// type supplies the same set of pure (or async pure) functions; the
// orchestration algorithm itself is shared.
package permissions

import (
	"context"
	"fmt"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/rules"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/ui"
	"go.uber.org/zap"
)

// Dependencies bundles the external collaborators a permission type may
// consult while building its initial context
type Dependencies struct {
	Accounts interfaces.AccountController
	Tokens   interfaces.TokenService
	Logger   *zap.Logger
}

// UIParams carries everything a permission type needs to project its
// confirmation content. Pure input; no event binding happens here.
type UIParams struct {
	Context                types.PermissionContext
	Metadata               types.Metadata
	Origin                 string
	ChainID                int64
	ShowAddMoreRulesButton bool
}

// TypeDefinition is the plugin contract instantiated once per permission
// type. Dispatch is a single registry lookup on the wire type tag.
type TypeDefinition struct {
	Type  string
	Title string

	// Rules lists every user-editable field of this permission type,
	// including the shared expiry rule. The orchestrator derives its
	// event bindings from this list.
	Rules []rules.RuleDefinition

	// ParseAndValidate is the single point where untrusted input is
	// rejected; nothing downstream re-validates structure.
	ParseAndValidate func(req types.PermissionRequest) (types.PermissionRequest, error)

	// BuildContext resolves external data into the initial editable
	// snapshot for the session.
	BuildContext func(ctx context.Context, deps Dependencies, req types.PermissionRequest) (types.PermissionContext, error)

	// DeriveMetadata recomputes validation errors and derived display
	// values from the current context. Never fails for user input.
	DeriveMetadata func(pc types.PermissionContext) types.Metadata

	// CreateUIContent projects (context, metadata) into confirmation
	// content.
	CreateUIContent func(p UIParams) ui.Content

	// ApplyContext folds the final user-approved context back onto a copy
	// of the original request.
	ApplyContext func(pc types.PermissionContext, original types.PermissionRequest) (types.PermissionRequest, error)

	// PopulatePermission fills defaulted fields that must be present
	// before signing. Idempotent.
	PopulatePermission func(p types.Permission) (types.Permission, error)

	// AppendCaveats adds the type-specific enforcement terms to a caveat
	// builder already seeded with the cross-cutting expiry bound.
	AppendCaveats func(p types.Permission, builder *caveats.Builder) error
}

// Registry is the closed set of known permission types
type Registry struct {
	defs map[string]*TypeDefinition
}

// NewRegistry builds the registry with every supported permission type
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]*TypeDefinition)}
	r.register(nativeTokenStreamDefinition())
	r.register(nativeTokenPeriodicDefinition())
	r.register(erc20TokenStreamDefinition())
	r.register(erc20TokenPeriodicDefinition())
	return r
}

func (r *Registry) register(def *TypeDefinition) {
	if _, exists := r.defs[def.Type]; exists {
		panic(fmt.Sprintf("permission type %q registered twice", def.Type))
	}
	r.defs[def.Type] = def
}

// Get resolves a wire type tag to its definition. Unknown tags are a
// request-shape error raised before any context or UI work begins.
func (r *Registry) Get(permissionType string) (*TypeDefinition, error) {
	def, ok := r.defs[permissionType]
	if !ok {
		return nil, fmt.Errorf("unsupported permission type: %q", permissionType)
	}
	return def, nil
}

// Types lists the registered wire type tags
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	return out
}
