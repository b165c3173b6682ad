// Package rules implements the declarative rule engine shared by all
// permission types. A RuleDefinition is a first-class value, not a UI
// widget: it knows how to project its current value, visibility and error
// out of (context, metadata) and how to fold a new raw value back into a
// context. Rules never reject malformed input with an error return;
// malformed values stay representable as strings and surface through
// metadata field errors.
package rules

import (
	"fmt"

	"github.com/cyphera/gator-permissions/internal/types"
)

// RuleType selects the input widget a rule renders as
type RuleType string

const (
	RuleTypeText     RuleType = "text"
	RuleTypeNumber   RuleType = "number"
	RuleTypeDropdown RuleType = "dropdown"
)

// RuleData is the projection of one rule's current state for rendering
type RuleData struct {
	Value               *string
	IsVisible           bool
	IsAdjustmentAllowed bool
	Error               string
	Tooltip             string
	Options             []string
	IconData            string
}

// RuleDefinition binds a named user-editable field of a permission context.
// The round-trip law holds for every rule: folding a value in with
// UpdateContext and reading it back with GetRuleData yields that value,
// modulo rules with derived/coupled fields.
type RuleDefinition struct {
	Name       string
	Label      string
	Type       RuleType
	IsOptional bool
	Tooltip    string
	Options    []string

	GetRuleData   func(ctx types.PermissionContext, md types.Metadata) RuleData
	UpdateContext func(ctx types.PermissionContext, value string) types.PermissionContext
}

// DetailRule builds the common kind of rule backed by one named entry in
// the context detail bag. Optional detail rules are invisible while their
// entry is absent, which makes them candidates for the add-more-rules
// sub-flow.
func DetailRule(name, label string, ruleType RuleType, isOptional bool, tooltip string, options ...string) RuleDefinition {
	if ruleType == RuleTypeDropdown && len(options) == 0 {
		// configuration bug, not user input
		panic(fmt.Sprintf("dropdown rule %q declared without options", name))
	}

	return RuleDefinition{
		Name:       name,
		Label:      label,
		Type:       ruleType,
		IsOptional: isOptional,
		Tooltip:    tooltip,
		Options:    options,
		GetRuleData: func(ctx types.PermissionContext, md types.Metadata) RuleData {
			value, present := ctx.Detail(name)
			data := RuleData{
				IsVisible:           present || !isOptional,
				IsAdjustmentAllowed: ctx.IsAdjustmentAllowed,
				Error:               md.FieldErrors[name],
				Tooltip:             tooltip,
				Options:             options,
			}
			if present {
				data.Value = &value
			}
			return data
		},
		UpdateContext: func(ctx types.PermissionContext, value string) types.PermissionContext {
			return ctx.WithDetail(name, value)
		},
	}
}

// MissingOptionalRules returns the optional rules whose value is entirely
// absent from the context, i.e. the candidates offered by the
// add-more-rules sub-flow. Order follows the definition list so the modal
// dropdown is stable across renders.
func MissingOptionalRules(defs []RuleDefinition, ctx types.PermissionContext, md types.Metadata) []RuleDefinition {
	missing := make([]RuleDefinition, 0, len(defs))
	for _, def := range defs {
		if !def.IsOptional {
			continue
		}
		if data := def.GetRuleData(ctx, md); data.Value == nil {
			missing = append(missing, def)
		}
	}
	return missing
}
