// Command gator-demo runs one permission grant end to end against
// in-memory collaborators and dumps the resulting response. Useful for
// exercising the full pipeline without a wallet UI or any deployment.
package main

import (
	"context"
	"encoding/json"
	"log"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/cyphera/gator-permissions/internal/client/accounts"
	"github.com/cyphera/gator-permissions/internal/client/tokens"
	"github.com/cyphera/gator-permissions/internal/confirm"
	"github.com/cyphera/gator-permissions/internal/events"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/orchestrator"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/davecgh/go-spew/spew"
)

// well-known development key, never used on a real network
const defaultDevKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func main() {
	logger.InitLogger("local")
	defer logger.Sync()

	privateKey := os.Getenv("ACCOUNT_PRIVATE_KEY")
	if privateKey == "" {
		privateKey = defaultDevKey
	}

	contracts := registry.NewStaticProvider()
	accountController, err := accounts.NewLocalController(privateKey, contracts)
	if err != nil {
		log.Fatalf("Failed to initialize account controller: %v\n", err)
	}

	tokenService := tokens.NewStatic().
		SetBalance("", new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)))

	dispatcher := events.NewMemoryDispatcher()
	dialog := confirm.NewAutoDialog(true)
	// Simulate a user who adds a start time before approving
	dialog.BeforeDecision = func(interfaceID string) error {
		startTime := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
		steps := []struct {
			element   string
			eventType interfaces.EventType
			value     string
		}{
			{"add-more-rules-toggle", interfaces.EventButtonClick, ""},
			{"add-rule-selector", interfaces.EventInputChange, "Start Time"},
			{"add-rule-value", interfaces.EventInputChange, startTime},
			{"add-rule-form", interfaces.EventFormSubmit, ""},
		}
		for _, step := range steps {
			if err := dispatcher.Dispatch(interfaceID, step.element, step.eventType, step.value); err != nil {
				return err
			}
		}
		return nil
	}

	orch := orchestrator.New(
		permissions.NewRegistry(),
		dialog,
		dispatcher,
		accountController,
		tokenService,
		contracts,
		logger.Log,
	)

	request, err := demoRequest()
	if err != nil {
		log.Fatalf("Failed to build demo request: %v\n", err)
	}

	result, err := orch.Orchestrate(context.Background(), request, "https://demo.localhost")
	if err != nil {
		log.Fatalf("Grant failed: %v\n", err)
	}

	spew.Dump(result)
}

// demoRequest asks for 0.1 native token per day on sepolia, expiring in a
// week
func demoRequest() (types.PermissionRequest, error) {
	data, err := json.Marshal(permissions.PeriodicPermissionData{
		PeriodAmount:   "0x16345785d8a0000", // 0.1 in minor units
		PeriodDuration: 86400,
		Justification:  "Daily subscription payment",
	})
	if err != nil {
		return types.PermissionRequest{}, err
	}
	ruleData, err := json.Marshal(types.ExpiryRuleData{
		Timestamp: time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	if err != nil {
		return types.PermissionRequest{}, err
	}

	return types.PermissionRequest{
		ChainID: "0xaa36a7", // sepolia
		Signer: types.Signer{
			Type: "account",
			Data: types.SignerData{Address: "0x1111111111111111111111111111111111111111"},
		},
		Permission: types.Permission{
			Type: "native-token-periodic",
			Data: data,
		},
		Rules: []types.RequestedRule{{Type: "expiry", Data: ruleData}},
	}, nil
}
