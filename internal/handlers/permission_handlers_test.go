package handlers_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/gator-permissions/internal/client/accounts"
	"github.com/cyphera/gator-permissions/internal/client/tokens"
	"github.com/cyphera/gator-permissions/internal/confirm"
	"github.com/cyphera/gator-permissions/internal/events"
	"github.com/cyphera/gator-permissions/internal/handlers"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/orchestrator"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/server"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

// well-known development key, never used on a real network
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func newTestRouter(t *testing.T, approve bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	contracts := registry.NewStaticProvider()
	accountController, err := accounts.NewLocalController(devKey, contracts)
	require.NoError(t, err)

	tokenService := tokens.NewStatic().
		SetBalance("", new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)))

	reg := permissions.NewRegistry()
	orch := orchestrator.New(
		reg,
		confirm.NewAutoDialog(approve),
		events.NewMemoryDispatcher(),
		accountController,
		tokenService,
		contracts,
		logger.Log,
	)

	return server.NewRouter(server.Dependencies{Orchestrator: orch, Registry: reg})
}

func grantBody(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(permissions.PeriodicPermissionData{
		PeriodAmount:   "0x16345785d8a0000",
		PeriodDuration: 86400,
	})
	require.NoError(t, err)
	ruleData, err := json.Marshal(types.ExpiryRuleData{Timestamp: time.Now().Add(24 * time.Hour).Unix()})
	require.NoError(t, err)

	body, err := json.Marshal(handlers.GrantPermissionRequest{
		Origin: "https://dapp.example.com",
		Request: types.PermissionRequest{
			ChainID: "0xaa36a7",
			Signer:  types.Signer{Type: "account", Data: types.SignerData{Address: "0x1111111111111111111111111111111111111111"}},
			Permission: types.Permission{
				Type: "native-token-periodic",
				Data: data,
			},
			Rules: []types.RequestedRule{{Type: "expiry", Data: ruleData}},
		},
	})
	require.NoError(t, err)
	return body
}

func postGrant(router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/permissions/grant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGrantPermissionApproved(t *testing.T) {
	router := newTestRouter(t, true)
	w := postGrant(router, grantBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.GrantPermissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Response)
	assert.Equal(t, "0xaa36a7", resp.Response.ChainID)
	assert.NotEmpty(t, resp.Response.Context)
	assert.NotEmpty(t, resp.Response.SignerMeta.DelegationManager)
}

func TestGrantPermissionRejected(t *testing.T) {
	router := newTestRouter(t, false)
	w := postGrant(router, grantBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.GrantPermissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, orchestrator.RejectionReason, resp.Reason)
	assert.Nil(t, resp.Response)
}

func TestGrantPermissionValidationFailure(t *testing.T) {
	router := newTestRouter(t, true)

	var body handlers.GrantPermissionRequest
	require.NoError(t, json.Unmarshal(grantBody(t), &body))
	body.Request.Signer.Data.Address = "nonsense"
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := postGrant(router, raw)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "signer.data.address")
}

func TestGrantPermissionMissingOrigin(t *testing.T) {
	router := newTestRouter(t, true)

	var body handlers.GrantPermissionRequest
	require.NoError(t, json.Unmarshal(grantBody(t), &body))
	body.Origin = ""
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := postGrant(router, raw)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPermissionTypes(t *testing.T) {
	router := newTestRouter(t, true)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/permissions/types", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Object string   `json:"object"`
		Data   []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "list", resp.Object)
	assert.Len(t, resp.Data, 4)
	assert.Contains(t, resp.Data, "native-token-periodic")
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, true)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
