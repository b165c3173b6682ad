package tokens

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// Static serves token data from in-memory tables, for local development
// runs without a token API deployment
type Static struct {
	tokens   map[string]types.TokenMetadata // keyed by lowercase address
	balances map[string]*big.Int            // keyed by lowercase token address, "" for native
	icons    map[string]string
}

// NewStatic creates an empty static token service with native currency
// support only
func NewStatic() *Static {
	return &Static{
		tokens:   make(map[string]types.TokenMetadata),
		balances: make(map[string]*big.Int),
		icons:    make(map[string]string),
	}
}

// AddToken registers an ERC-20 token
func (s *Static) AddToken(address string, meta types.TokenMetadata) *Static {
	s.tokens[strings.ToLower(address)] = meta
	return s
}

// SetBalance sets the balance served for a token; empty address for native
func (s *Static) SetBalance(tokenAddress string, balance *big.Int) *Static {
	s.balances[strings.ToLower(tokenAddress)] = balance
	return s
}

// SetIcon sets the icon data served for a token; empty address for native
func (s *Static) SetIcon(tokenAddress, iconData string) *Static {
	s.icons[strings.ToLower(tokenAddress)] = iconData
	return s
}

func (s *Static) GetTokenMetadata(_ context.Context, chainID int64, tokenAddress string) (types.TokenMetadata, error) {
	if tokenAddress == "" {
		native, ok := nativeCurrencies[chainID]
		if !ok {
			return types.TokenMetadata{}, fmt.Errorf("no native currency known for chainId: %d", chainID)
		}
		return native, nil
	}
	meta, ok := s.tokens[strings.ToLower(tokenAddress)]
	if !ok {
		return types.TokenMetadata{}, fmt.Errorf("token %s is unknown on chainId %d", tokenAddress, chainID)
	}
	return meta, nil
}

func (s *Static) GetTokenBalance(_ context.Context, _ int64, _ common.Address, tokenAddress string) (*big.Int, error) {
	balance, ok := s.balances[strings.ToLower(tokenAddress)]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(balance), nil
}

func (s *Static) GetTokenIcon(_ context.Context, _ int64, tokenAddress string) interfaces.IconFetchResult {
	icon, ok := s.icons[strings.ToLower(tokenAddress)]
	if !ok {
		return interfaces.IconFetchResult{}
	}
	return interfaces.IconFetchResult{Success: true, Data: icon}
}
