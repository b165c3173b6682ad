package permissions

import (
	"fmt"

	"github.com/cyphera/gator-permissions/internal/rules"
	"github.com/cyphera/gator-permissions/internal/ui"
)

// Event element names shared by every permission type's confirmation
// content. The add-more-rules names are consumed by the rule modal
// sub-flow manager.
const (
	AddMoreRulesButtonName = "add-more-rules-toggle"
	AddRuleSelectorName    = "add-rule-selector"
	AddRuleValueName       = "add-rule-value"
	AddRuleFormName        = "add-rule-form"
)

// buildConfirmationContent projects (context, metadata) into the main
// confirmation content. Pure; event binding happens in the orchestrator.
func buildConfirmationContent(def *TypeDefinition, p UIParams) ui.Content {
	elements := []ui.Element{
		ui.Heading(def.Title),
		ui.Text(fmt.Sprintf("%s is requesting a permission on chain %d", p.Origin, p.ChainID)),
	}

	tokenRow := []ui.Element{ui.Text(p.Context.TokenMetadata.Symbol)}
	if p.Context.TokenMetadata.IconData != "" {
		tokenRow = append([]ui.Element{ui.Image(p.Context.TokenMetadata.IconData)}, tokenRow...)
	}
	if p.Context.AccountBalance != "" {
		tokenRow = append(tokenRow, ui.Text(fmt.Sprintf("Balance: %s %s", p.Context.AccountBalance, p.Context.TokenMetadata.Symbol)))
	}
	elements = append(elements, ui.Row(tokenRow...))

	if p.Context.Justification != "" {
		elements = append(elements, ui.Text(p.Context.Justification))
	}

	for _, rule := range def.Rules {
		data := rule.GetRuleData(p.Context, p.Metadata)
		if !data.IsVisible {
			continue
		}
		value := ""
		if data.Value != nil {
			value = *data.Value
		}
		if rule.Type == rules.RuleTypeDropdown {
			elements = append(elements, ui.Dropdown(rule.Name, rule.Label, value, data.Options, !data.IsAdjustmentAllowed))
			continue
		}
		elements = append(elements, ui.Field(rule.Name, rule.Label, value, data.Error, data.Tooltip, !data.IsAdjustmentAllowed))
	}

	if p.ShowAddMoreRulesButton {
		elements = append(elements, ui.Button(AddMoreRulesButtonName, "Add more rules", false))
	}

	return ui.Content{Elements: elements}
}
