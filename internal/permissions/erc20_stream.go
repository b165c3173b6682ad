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

func erc20TokenStreamDefinition() *TypeDefinition {
	def := &TypeDefinition{
		Type:  constants.ERC20TokenStreamType,
		Title: "Token stream",
	}
	def.Rules = []rules.RuleDefinition{
		expiryRule(),
		rules.DetailRule(DetailAmountPerSecond, "Stream rate", rules.RuleTypeNumber, false,
			"Amount accruing to the stream every second"),
		rules.DetailRule(DetailInitialAmount, "Initial Amount", rules.RuleTypeNumber, true,
			"Amount available the moment the stream starts"),
		rules.DetailRule(DetailMaxAmount, "Max Amount", rules.RuleTypeNumber, true,
			"Hard cap on the total streamed amount"),
		rules.DetailRule(DetailStartTime, "Start Time", rules.RuleTypeNumber, true,
			"Unix timestamp the stream starts at"),
	}
	def.ParseAndValidate = func(req types.PermissionRequest) (types.PermissionRequest, error) {
		return parseStreamRequest(req, def.Type, true)
	}
	def.BuildContext = buildStreamContext
	def.DeriveMetadata = deriveStreamMetadata
	def.CreateUIContent = func(p UIParams) ui.Content {
		return buildConfirmationContent(def, p)
	}
	def.ApplyContext = applyStreamContext
	def.PopulatePermission = populateStreamPermission
	def.AppendCaveats = func(p types.Permission, builder *caveats.Builder) error {
		var data StreamPermissionData
		if err := json.Unmarshal(p.Data, &data); err != nil {
			return fmt.Errorf("failed to decode stream permission data: %w", err)
		}
		initial, max, rate, err := streamCaveatAmounts(data)
		if err != nil {
			return err
		}
		return builder.AddCaveat(registry.ERC20StreamingEnforcer,
			caveats.EncodeERC20StreamingTerms(common.HexToAddress(data.TokenAddress), initial, max, rate, data.StartTime))
	}
	return def
}
