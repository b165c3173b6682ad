package permissions

import (
	"encoding/json"
	"fmt"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/rules"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/cyphera/gator-permissions/internal/ui"
	"github.com/ethereum/go-ethereum/common"
)

func erc20TokenPeriodicDefinition() *TypeDefinition {
	def := &TypeDefinition{
		Type:  constants.ERC20TokenPeriodicType,
		Title: "Token periodic transfer",
	}
	def.Rules = []rules.RuleDefinition{
		expiryRule(),
		rules.DetailRule(DetailPeriodAmount, "Amount per period", rules.RuleTypeNumber, false,
			"Maximum amount transferable within one period"),
		rules.DetailRule(DetailPeriodDuration, "Period duration", rules.RuleTypeDropdown, false,
			"Length of one period in seconds", "3600", "86400", "604800", "2592000"),
		rules.DetailRule(DetailStartTime, "Start Time", rules.RuleTypeNumber, true,
			"Unix timestamp the first period starts at"),
		rules.DetailRule(DetailInitialAmount, "Initial Amount", rules.RuleTypeNumber, true,
			"Amount transferable immediately when the permission is granted"),
	}
	def.ParseAndValidate = func(req types.PermissionRequest) (types.PermissionRequest, error) {
		return parsePeriodicRequest(req, def.Type, true)
	}
	def.BuildContext = buildPeriodicContext
	def.DeriveMetadata = derivePeriodicMetadata
	def.CreateUIContent = func(p UIParams) ui.Content {
		return buildConfirmationContent(def, p)
	}
	def.ApplyContext = applyPeriodicContext
	def.PopulatePermission = populatePeriodicPermission
	def.AppendCaveats = func(p types.Permission, builder *caveats.Builder) error {
		var data PeriodicPermissionData
		if err := json.Unmarshal(p.Data, &data); err != nil {
			return fmt.Errorf("failed to decode periodic permission data: %w", err)
		}
		amount, err := parseHexAmount(data.PeriodAmount)
		if err != nil {
			return err
		}
		return builder.AddCaveat(registry.ERC20PeriodicTransferEnforcer,
			caveats.EncodeERC20PeriodicTerms(common.HexToAddress(data.TokenAddress), amount, data.PeriodDuration, data.StartTime))
	}
	return def
}
