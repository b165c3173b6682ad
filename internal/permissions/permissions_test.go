package permissions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/cyphera/gator-permissions/internal/caveats"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/mocks"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/registry"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

const (
	signerAddress = "0x1111111111111111111111111111111111111111"
	tokenAddress  = "0x3333333333333333333333333333333333333333"
	oneEtherHex   = "0xde0b6b3a7640000"
)

var accountAddress = common.HexToAddress("0x2222222222222222222222222222222222222222")

func futureExpiry() int64 {
	return time.Now().Add(24 * time.Hour).Unix()
}

func expiryRules(t *testing.T, timestamp int64) []types.RequestedRule {
	t.Helper()
	data, err := json.Marshal(types.ExpiryRuleData{Timestamp: timestamp})
	require.NoError(t, err)
	return []types.RequestedRule{{Type: "expiry", Data: data}}
}

func basePeriodicRequest(t *testing.T, permissionType string, data permissions.PeriodicPermissionData) types.PermissionRequest {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	return types.PermissionRequest{
		ChainID:    "0x1",
		Signer:     types.Signer{Type: "account", Data: types.SignerData{Address: signerAddress}},
		Permission: types.Permission{Type: permissionType, Data: payload},
		Rules:      expiryRules(t, futureExpiry()),
	}
}

func TestRegistryResolvesAllTypes(t *testing.T) {
	reg := permissions.NewRegistry()
	for _, permissionType := range []string{
		constants.NativeTokenStreamType,
		constants.NativeTokenPeriodicType,
		constants.ERC20TokenStreamType,
		constants.ERC20TokenPeriodicType,
	} {
		def, err := reg.Get(permissionType)
		require.NoError(t, err)
		assert.Equal(t, permissionType, def.Type)
		assert.NotEmpty(t, def.Rules)
	}
	assert.Len(t, reg.Types(), 4)

	_, err := reg.Get("native-token-transfer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported permission type: "native-token-transfer"`)
}

func TestParsePeriodicRequestRejectsMalformedInput(t *testing.T) {
	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.NativeTokenPeriodicType)
	require.NoError(t, err)

	valid := func(t *testing.T) types.PermissionRequest {
		return basePeriodicRequest(t, constants.NativeTokenPeriodicType, permissions.PeriodicPermissionData{
			PeriodAmount:   oneEtherHex,
			PeriodDuration: 86400,
		})
	}

	tests := []struct {
		name      string
		mutate    func(*types.PermissionRequest)
		wantField string
	}{
		{
			name:      "chain id without hex prefix",
			mutate:    func(r *types.PermissionRequest) { r.ChainID = "1" },
			wantField: "chainId",
		},
		{
			name:      "wrong signer kind",
			mutate:    func(r *types.PermissionRequest) { r.Signer.Type = "key" },
			wantField: "signer.type",
		},
		{
			name:      "truncated signer address",
			mutate:    func(r *types.PermissionRequest) { r.Signer.Data.Address = "0x1111" },
			wantField: "signer.data.address",
		},
		{
			name:      "missing expiry rule",
			mutate:    func(r *types.PermissionRequest) { r.Rules = nil },
			wantField: "rules",
		},
		{
			name: "period amount not hex",
			mutate: func(r *types.PermissionRequest) {
				r.Permission.Data = json.RawMessage(`{"periodAmount":"one ether","periodDuration":86400}`)
			},
			wantField: "permission.data.periodAmount",
		},
		{
			name: "zero period duration",
			mutate: func(r *types.PermissionRequest) {
				r.Permission.Data = json.RawMessage(`{"periodAmount":"` + oneEtherHex + `","periodDuration":0}`)
			},
			wantField: "permission.data.periodDuration",
		},
		{
			name: "token address on a native permission",
			mutate: func(r *types.PermissionRequest) {
				r.Permission.Data = json.RawMessage(`{"tokenAddress":"` + tokenAddress + `","periodAmount":"` + oneEtherHex + `","periodDuration":86400}`)
			},
			wantField: "permission.data.tokenAddress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := valid(t)
			tt.mutate(&request)

			_, err := def.ParseAndValidate(request)
			require.Error(t, err)
			var verr *types.RequestValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}

	// the unmutated request parses
	_, err = def.ParseAndValidate(valid(t))
	require.NoError(t, err)
}

func TestParseERC20PeriodicRequiresTokenAddress(t *testing.T) {
	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.ERC20TokenPeriodicType)
	require.NoError(t, err)

	request := basePeriodicRequest(t, constants.ERC20TokenPeriodicType, permissions.PeriodicPermissionData{
		PeriodAmount:   oneEtherHex,
		PeriodDuration: 86400,
	})

	_, err = def.ParseAndValidate(request)
	require.Error(t, err)
	var verr *types.RequestValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "permission.data.tokenAddress")
}

func TestParseStreamRejectsMaxBelowInitial(t *testing.T) {
	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.NativeTokenStreamType)
	require.NoError(t, err)

	payload, err := json.Marshal(permissions.StreamPermissionData{
		AmountPerSecond: "0x64",
		InitialAmount:   oneEtherHex,
		MaxAmount:       "0x64",
	})
	require.NoError(t, err)
	request := types.PermissionRequest{
		ChainID:    "0x1",
		Signer:     types.Signer{Type: "account", Data: types.SignerData{Address: signerAddress}},
		Permission: types.Permission{Type: constants.NativeTokenStreamType, Data: payload},
		Rules:      expiryRules(t, futureExpiry()),
	}

	_, err = def.ParseAndValidate(request)
	require.Error(t, err)
	var verr *types.RequestValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "permission.data.maxAmount")
}

func TestBuildPeriodicContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := mocks.NewMockAccountController(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	accounts.EXPECT().GetAccountAddress(gomock.Any(), int64(1)).Return(accountAddress, nil)
	tokens.EXPECT().GetTokenMetadata(gomock.Any(), int64(1), "").
		Return(types.TokenMetadata{Symbol: "ETH", Decimals: 18}, nil)
	tokens.EXPECT().GetTokenIcon(gomock.Any(), int64(1), "").
		Return(interfaces.IconFetchResult{Success: true, Data: "data:image/png;base64,abc"})
	tokens.EXPECT().GetTokenBalance(gomock.Any(), int64(1), accountAddress, "").
		Return(new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18)), nil)

	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.NativeTokenPeriodicType)
	require.NoError(t, err)

	expiry := futureExpiry()
	request := basePeriodicRequest(t, constants.NativeTokenPeriodicType, permissions.PeriodicPermissionData{
		PeriodAmount:   oneEtherHex,
		PeriodDuration: 86400,
		Justification:  "Daily subscription payment",
	})
	request.Rules = expiryRules(t, expiry)

	deps := permissions.Dependencies{Accounts: accounts, Tokens: tokens, Logger: logger.Log}
	pc, err := def.BuildContext(context.Background(), deps, request)
	require.NoError(t, err)

	assert.Equal(t, constants.NativeTokenPeriodicType, pc.PermissionType)
	assert.Equal(t, expiry, pc.Expiry)
	assert.True(t, pc.IsAdjustmentAllowed)
	assert.Equal(t, accountAddress.Hex(), pc.AccountAddress)
	assert.Equal(t, "ETH", pc.TokenMetadata.Symbol)
	assert.Equal(t, "data:image/png;base64,abc", pc.TokenMetadata.IconData)
	assert.Equal(t, "10", pc.AccountBalance)
	assert.Equal(t, "Daily subscription payment", pc.Justification)

	periodAmount, _ := pc.Detail(permissions.DetailPeriodAmount)
	assert.Equal(t, "1", periodAmount)
	duration, _ := pc.Detail(permissions.DetailPeriodDuration)
	assert.Equal(t, "86400", duration)
	_, hasStart := pc.Detail(permissions.DetailStartTime)
	assert.False(t, hasStart)
}

func TestDerivePeriodicMetadata(t *testing.T) {
	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.NativeTokenPeriodicType)
	require.NoError(t, err)

	base := types.PermissionContext{
		PermissionType:      constants.NativeTokenPeriodicType,
		Expiry:              futureExpiry(),
		IsAdjustmentAllowed: true,
		TokenMetadata:       types.TokenMetadata{Symbol: "ETH", Decimals: 18},
		Details:             map[string]string{},
	}

	t.Run("valid context derives daily allowance", func(t *testing.T) {
		pc := base.WithDetail(permissions.DetailPeriodAmount, "2").
			WithDetail(permissions.DetailPeriodDuration, "43200")
		md := def.DeriveMetadata(pc)
		assert.False(t, md.HasErrors())
		assert.Equal(t, "4", md.Derived["dailyAllowance"])
	})

	t.Run("malformed amount", func(t *testing.T) {
		pc := base.WithDetail(permissions.DetailPeriodAmount, "1.2.3").
			WithDetail(permissions.DetailPeriodDuration, "86400")
		md := def.DeriveMetadata(pc)
		assert.Equal(t, "Invalid amount format", md.FieldErrors[permissions.DetailPeriodAmount])
		assert.NotContains(t, md.Derived, "dailyAllowance")
	})

	t.Run("zero amount", func(t *testing.T) {
		pc := base.WithDetail(permissions.DetailPeriodAmount, "0").
			WithDetail(permissions.DetailPeriodDuration, "86400")
		md := def.DeriveMetadata(pc)
		assert.Equal(t, "Amount must be greater than 0", md.FieldErrors[permissions.DetailPeriodAmount])
	})

	t.Run("expiry in the past", func(t *testing.T) {
		pc := base.WithExpiry(time.Now().Add(-time.Hour).Unix()).
			WithDetail(permissions.DetailPeriodAmount, "1").
			WithDetail(permissions.DetailPeriodDuration, "86400")
		md := def.DeriveMetadata(pc)
		assert.Equal(t, "Expiry must be in the future", md.FieldErrors["expiry"])
	})

	t.Run("start time after expiry", func(t *testing.T) {
		pc := base.WithDetail(permissions.DetailPeriodAmount, "1").
			WithDetail(permissions.DetailPeriodDuration, "86400").
			WithDetail(permissions.DetailStartTime, "4102444800") // 2100, past the expiry
		md := def.DeriveMetadata(pc)
		assert.Equal(t, "Start time must be before expiry", md.FieldErrors[permissions.DetailStartTime])
	})

	t.Run("unparseable start time", func(t *testing.T) {
		pc := base.WithDetail(permissions.DetailPeriodAmount, "1").
			WithDetail(permissions.DetailPeriodDuration, "86400").
			WithDetail(permissions.DetailStartTime, "next tuesday")
		md := def.DeriveMetadata(pc)
		assert.Equal(t, "Invalid start time", md.FieldErrors[permissions.DetailStartTime])
	})
}

func TestApplyPeriodicContextFoldsEdits(t *testing.T) {
	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.NativeTokenPeriodicType)
	require.NoError(t, err)

	original := basePeriodicRequest(t, constants.NativeTokenPeriodicType, permissions.PeriodicPermissionData{
		PeriodAmount:   oneEtherHex,
		PeriodDuration: 86400,
	})
	newExpiry := time.Now().Add(48 * time.Hour).Unix()
	pc := types.PermissionContext{
		PermissionType:      constants.NativeTokenPeriodicType,
		Expiry:              newExpiry,
		IsAdjustmentAllowed: true,
		TokenMetadata:       types.TokenMetadata{Decimals: 18},
		Details: map[string]string{
			permissions.DetailPeriodAmount:   "0.5",
			permissions.DetailPeriodDuration: "3600",
		},
	}

	adjusted, err := def.ApplyContext(pc, original)
	require.NoError(t, err)

	var data permissions.PeriodicPermissionData
	require.NoError(t, json.Unmarshal(adjusted.Permission.Data, &data))
	assert.Equal(t, "0x6f05b59d3b20000", data.PeriodAmount) // 0.5 ether
	assert.Equal(t, int64(3600), data.PeriodDuration)

	granted, err := adjusted.ExpiryRule()
	require.NoError(t, err)
	assert.Equal(t, newExpiry, granted)
	require.NotNil(t, adjusted.IsAdjustmentAllowed)
	assert.True(t, *adjusted.IsAdjustmentAllowed)

	// the original request is untouched
	var originalData permissions.PeriodicPermissionData
	require.NoError(t, json.Unmarshal(original.Permission.Data, &originalData))
	assert.Equal(t, oneEtherHex, originalData.PeriodAmount)
}

func TestPopulatePeriodicPermissionIsIdempotent(t *testing.T) {
	reg := permissions.NewRegistry()
	def, err := reg.Get(constants.NativeTokenPeriodicType)
	require.NoError(t, err)

	payload, err := json.Marshal(permissions.PeriodicPermissionData{
		PeriodAmount:   oneEtherHex,
		PeriodDuration: 86400,
	})
	require.NoError(t, err)
	p := types.Permission{Type: constants.NativeTokenPeriodicType, Data: payload}

	once, err := def.PopulatePermission(p)
	require.NoError(t, err)
	var data permissions.PeriodicPermissionData
	require.NoError(t, json.Unmarshal(once.Data, &data))
	assert.InDelta(t, time.Now().Unix(), data.StartTime, 60)

	twice, err := def.PopulatePermission(once)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(once.Data, twice.Data))
}

func TestAppendCaveatsEncodesEnforcerTerms(t *testing.T) {
	contracts, err := registry.NewStaticProvider().GetDelegationContracts(1)
	require.NoError(t, err)
	reg := permissions.NewRegistry()

	t.Run("native stream defaults", func(t *testing.T) {
		def, err := reg.Get(constants.NativeTokenStreamType)
		require.NoError(t, err)

		payload, err := json.Marshal(permissions.StreamPermissionData{
			AmountPerSecond: "0x64",
			StartTime:       1700000000,
		})
		require.NoError(t, err)

		builder := caveats.NewBuilder(contracts)
		require.NoError(t, def.AppendCaveats(types.Permission{Type: def.Type, Data: payload}, builder))
		list, err := builder.Build()
		require.NoError(t, err)
		require.Len(t, list, 1)

		caveat := list[0]
		assert.Equal(t, contracts.Enforcers[registry.NativeTokenStreamingEnforcer], caveat.Enforcer)
		require.Len(t, []byte(caveat.Terms), 128)
		assert.Zero(t, new(big.Int).SetBytes(caveat.Terms[:32]).Sign()) // no initial allowance
		maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
		assert.Zero(t, maxUint256.Cmp(new(big.Int).SetBytes(caveat.Terms[32:64]))) // uncapped
		assert.Equal(t, int64(100), new(big.Int).SetBytes(caveat.Terms[64:96]).Int64())
		assert.Equal(t, int64(1700000000), new(big.Int).SetBytes(caveat.Terms[96:]).Int64())
	})

	t.Run("erc20 periodic prefixes token address", func(t *testing.T) {
		def, err := reg.Get(constants.ERC20TokenPeriodicType)
		require.NoError(t, err)

		payload, err := json.Marshal(permissions.PeriodicPermissionData{
			TokenAddress:   tokenAddress,
			PeriodAmount:   "0x2710",
			PeriodDuration: 3600,
			StartTime:      1700000000,
		})
		require.NoError(t, err)

		builder := caveats.NewBuilder(contracts)
		require.NoError(t, def.AppendCaveats(types.Permission{Type: def.Type, Data: payload}, builder))
		list, err := builder.Build()
		require.NoError(t, err)
		require.Len(t, list, 1)

		caveat := list[0]
		assert.Equal(t, contracts.Enforcers[registry.ERC20PeriodicTransferEnforcer], caveat.Enforcer)
		require.Len(t, []byte(caveat.Terms), 116)
		assert.Equal(t, common.HexToAddress(tokenAddress), common.BytesToAddress(caveat.Terms[:20]))
		assert.Equal(t, int64(10000), new(big.Int).SetBytes(caveat.Terms[20:52]).Int64())
		assert.Equal(t, int64(3600), new(big.Int).SetBytes(caveat.Terms[52:84]).Int64())
	})
}
