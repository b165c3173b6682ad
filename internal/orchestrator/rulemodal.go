package orchestrator

import (
	"fmt"

	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/rules"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/ui"
)

// Element name of the save button inside the add-rule form
const addRuleSaveButtonName = "add-rule-save"

// ModalCallbacks are the closures the orchestrator hands to the rule modal
// manager. The manager never touches the outer context directly; all reads
// and writes go through these. Built first, manager second, so no forward
// references are needed.
type ModalCallbacks struct {
	// GetContext returns the current outer context
	GetContext func() (types.PermissionContext, error)
	// DeriveMetadata recomputes metadata for an arbitrary context value
	DeriveMetadata func(types.PermissionContext) types.Metadata
	// OnContextChanged replaces the outer context and triggers a full
	// re-render. Called exactly once per successful save.
	OnContextChanged func(types.PermissionContext) error
	// RequestRender triggers a re-render without touching the outer
	// context, for modal-only state changes.
	RequestRender func() error
}

// RuleModalManager drives the nested "add an optional rule" sub-flow. Its
// state is ephemeral: one manager exists per orchestration, and the outer
// state machine only observes it through context mutation callbacks.
type RuleModalManager struct {
	allRules []rules.RuleDefinition
	cb       ModalCallbacks

	visible       bool
	selectedIndex int
	pendingValue  string
}

// NewRuleModalManager creates a manager over the permission type's rule
// set. Only optional rules absent from the context are ever offered.
func NewRuleModalManager(allRules []rules.RuleDefinition, cb ModalCallbacks) *RuleModalManager {
	return &RuleModalManager{allRules: allRules, cb: cb}
}

// IsVisible reports whether the modal currently replaces the main content
func (m *RuleModalManager) IsVisible() bool {
	return m.visible
}

// Reset returns the modal to its closed default state. Invoked after a
// successful save and whenever the outer context changes underneath the
// modal.
func (m *RuleModalManager) Reset() {
	m.visible = false
	m.selectedIndex = 0
	m.pendingValue = ""
}

// Bind registers the modal's event handlers against the interface handle
// and returns one unbind closure per registration, in bind order.
func (m *RuleModalManager) Bind(dispatcher interfaces.EventDispatcher, interfaceID string) ([]func() error, error) {
	bindings := []struct {
		elementName string
		eventType   interfaces.EventType
		handler     interfaces.EventHandler
	}{
		{permissions.AddMoreRulesButtonName, interfaces.EventButtonClick, m.handleToggle},
		{permissions.AddRuleSelectorName, interfaces.EventInputChange, m.handleSelect},
		{permissions.AddRuleValueName, interfaces.EventInputChange, m.handleValueChange},
		{permissions.AddRuleFormName, interfaces.EventFormSubmit, m.handleSave},
	}

	unbinders := make([]func() error, 0, len(bindings))
	for _, b := range bindings {
		if err := dispatcher.On(interfaceID, b.elementName, b.eventType, b.handler); err != nil {
			return unbinders, fmt.Errorf("failed to bind modal handler %s/%s: %w", b.elementName, b.eventType, err)
		}
		elementName, eventType := b.elementName, b.eventType
		unbinders = append(unbinders, func() error {
			return dispatcher.Off(interfaceID, elementName, eventType)
		})
	}
	return unbinders, nil
}

// handleToggle flips modal visibility. Opening always starts fresh;
// closing keeps pending state (it is only discarded by a successful save
// or the next fresh open).
func (m *RuleModalManager) handleToggle(interfaces.Event) error {
	if m.visible {
		m.visible = false
	} else {
		m.visible = true
		m.selectedIndex = 0
		m.pendingValue = ""
	}
	return m.cb.RequestRender()
}

// handleSelect records which candidate rule the user picked. The candidate
// list is recomputed against the current context because other handlers
// may have changed it since the last render.
func (m *RuleModalManager) handleSelect(event interfaces.Event) error {
	ctx, err := m.cb.GetContext()
	if err != nil {
		return err
	}
	candidates := rules.MissingOptionalRules(m.allRules, ctx, m.cb.DeriveMetadata(ctx))
	for i, candidate := range candidates {
		if candidate.Label == event.Value {
			m.selectedIndex = i
			break
		}
	}
	return m.cb.RequestRender()
}

// handleValueChange tracks the raw in-progress value. It never touches the
// outer context; validation feedback comes from speculative application at
// render time.
func (m *RuleModalManager) handleValueChange(event interfaces.Event) error {
	m.pendingValue = event.Value
	return m.cb.RequestRender()
}

// handleSave folds the pending value into the outer context. A recorded
// index that no longer resolves to a candidate (the list shrank between
// selection and save) is a defect and fails loudly rather than silently
// no-opping.
func (m *RuleModalManager) handleSave(interfaces.Event) error {
	ctx, err := m.cb.GetContext()
	if err != nil {
		return err
	}
	candidates := rules.MissingOptionalRules(m.allRules, ctx, m.cb.DeriveMetadata(ctx))
	if m.selectedIndex >= len(candidates) {
		return fmt.Errorf("rule not found at index %d: only %d rules are available to add", m.selectedIndex, len(candidates))
	}
	if m.pendingValue == "" {
		return fmt.Errorf("cannot save rule %q with an empty value", candidates[m.selectedIndex].Name)
	}

	next := candidates[m.selectedIndex].UpdateContext(ctx, m.pendingValue)
	m.Reset()
	return m.cb.OnContextChanged(next)
}

// Content renders the modal in place of the main confirmation content.
// The validation message is recomputed on every keystroke by speculatively
// applying the pending value to a copy of the outer context; the real
// context is never mutated while typing.
func (m *RuleModalManager) Content(ctx types.PermissionContext, md types.Metadata) ui.Content {
	candidates := rules.MissingOptionalRules(m.allRules, ctx, md)
	if len(candidates) == 0 {
		return ui.Content{Elements: []ui.Element{
			ui.Heading("Add more rules"),
			ui.Text("All optional rules have been added."),
			ui.Button(permissions.AddMoreRulesButtonName, "Back", false),
		}}
	}

	index := m.selectedIndex
	if index >= len(candidates) {
		index = 0
	}
	selected := candidates[index]

	labels := make([]string, len(candidates))
	for i, candidate := range candidates {
		labels[i] = candidate.Label
	}

	errText := ""
	saveDisabled := m.pendingValue == ""
	if m.pendingValue != "" {
		speculative := selected.UpdateContext(ctx.Clone(), m.pendingValue)
		if msg := m.cb.DeriveMetadata(speculative).FieldErrors[selected.Name]; msg != "" {
			errText = msg
			saveDisabled = true
		}
	}

	return ui.Content{Elements: []ui.Element{
		ui.Heading("Add more rules"),
		ui.Dropdown(permissions.AddRuleSelectorName, "Rule", selected.Label, labels, false),
		ui.Form(permissions.AddRuleFormName,
			ui.Field(permissions.AddRuleValueName, selected.Label, m.pendingValue, errText, selected.Tooltip, false),
			ui.Button(addRuleSaveButtonName, "Save", saveDisabled),
		),
		ui.Button(permissions.AddMoreRulesButtonName, "Back", false),
	}}
}
