// Package tokens resolves token metadata, balances and icons from the
// token API service. An empty token address refers to the chain's native
// token, which is served from a compiled-in table without a network call.
package tokens

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cyphera/gator-permissions/internal/client/web"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Native currencies of the supported chains
var nativeCurrencies = map[int64]types.TokenMetadata{
	1:        {Symbol: "ETH", Decimals: 18},
	10:       {Symbol: "ETH", Decimals: 18},
	137:      {Symbol: "POL", Decimals: 18},
	8453:     {Symbol: "ETH", Decimals: 18},
	42161:    {Symbol: "ETH", Decimals: 18},
	59144:    {Symbol: "ETH", Decimals: 18},
	11155111: {Symbol: "ETH", Decimals: 18},
}

// Client is the HTTP-backed token service
type Client struct {
	http *web.Client
}

// NewClient creates a token service client against the token API base URL
func NewClient(baseURL, apiKey string) *Client {
	options := []web.Option{web.WithTimeout(defaultTimeout)}
	if apiKey != "" {
		options = append(options, web.WithHeader("X-API-Key", apiKey))
	}
	return &Client{http: web.NewClient(baseURL, options...)}
}

type tokenMetadataResponse struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

type balanceResponse struct {
	Balance string `json:"balance"` // hex-encoded minor units
}

type iconResponse struct {
	IconData string `json:"iconData"` // base64 data URI
}

// GetTokenMetadata resolves symbol and decimals for a token
func (c *Client) GetTokenMetadata(ctx context.Context, chainID int64, tokenAddress string) (types.TokenMetadata, error) {
	if tokenAddress == "" {
		native, ok := nativeCurrencies[chainID]
		if !ok {
			return types.TokenMetadata{}, fmt.Errorf("no native currency known for chainId: %d", chainID)
		}
		return native, nil
	}

	var resp tokenMetadataResponse
	path := fmt.Sprintf("/v1/chains/%d/tokens/%s", chainID, tokenAddress)
	if err := c.http.GetJSON(ctx, path, &resp); err != nil {
		return types.TokenMetadata{}, errors.Wrap(err, "failed to fetch token metadata")
	}
	if resp.Symbol == "" {
		return types.TokenMetadata{}, fmt.Errorf("token %s is unknown on chainId %d", tokenAddress, chainID)
	}
	return types.TokenMetadata{Symbol: resp.Symbol, Decimals: resp.Decimals}, nil
}

// GetTokenBalance resolves the account's balance in minor units
func (c *Client) GetTokenBalance(ctx context.Context, chainID int64, account common.Address, tokenAddress string) (*big.Int, error) {
	path := fmt.Sprintf("/v1/chains/%d/accounts/%s/balance", chainID, account.Hex())
	if tokenAddress != "" {
		path += "?token=" + tokenAddress
	}

	var resp balanceResponse
	if err := c.http.GetJSON(ctx, path, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch account balance")
	}
	balance, err := hexutil.DecodeBig(resp.Balance)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed balance %q", resp.Balance)
	}
	return balance, nil
}

// GetTokenIcon fetches the token icon. Icons are cosmetic: every failure
// degrades to an unsuccessful result instead of an error.
func (c *Client) GetTokenIcon(ctx context.Context, chainID int64, tokenAddress string) interfaces.IconFetchResult {
	target := tokenAddress
	if target == "" {
		target = "native"
	}

	var resp iconResponse
	path := fmt.Sprintf("/v1/chains/%d/tokens/%s/icon", chainID, target)
	if err := c.http.GetJSON(ctx, path, &resp); err != nil {
		logger.Debug("Token icon fetch failed",
			zap.Int64("chain_id", chainID),
			zap.String("token_address", tokenAddress),
			zap.Error(err),
		)
		return interfaces.IconFetchResult{}
	}
	if resp.IconData == "" {
		return interfaces.IconFetchResult{}
	}
	return interfaces.IconFetchResult{Success: true, Data: resp.IconData}
}
