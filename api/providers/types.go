// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package providers

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/tacolabs/childapp/taco"
)

type ActiveProvider struct {
	StakingProvider taco.Address          `json:"stakingProvider"`
	Amount          *math.HexOrDecimal256 `json:"amount"`
}

type ActiveProviders struct {
	Total     *math.HexOrDecimal256 `json:"total"`
	Providers []ActiveProvider      `json:"providers"`
}

type ProviderInfo struct {
	Operator           taco.Address          `json:"operator"`
	Authorized         *math.HexOrDecimal256 `json:"authorized"`
	OperatorConfirmed  bool                  `json:"operatorConfirmed"`
	Index              uint64                `json:"index"`
	Deauthorizing      *math.HexOrDecimal256 `json:"deauthorizing"`
	EndDeauthorization uint64                `json:"endDeauthorization"`
}

type EligibleStake struct {
	EndDate  uint64                `json:"endDate"`
	Eligible *math.HexOrDecimal256 `json:"eligible"`
}

type Length struct {
	Length uint64 `json:"length"`
}

type OperatorInfo struct {
	StakingProvider taco.Address `json:"stakingProvider"`
	Confirmed       bool         `json:"confirmed"`
}

// abi output layouts

type activeProvidersOutput struct {
	AllAuthorizedTokens    *big.Int
	ActiveStakingProviders []struct {
		StakingProvider common.Address
		Amount          *big.Int
	}
}

type providerInfoOutput struct {
	Operator           common.Address
	Authorized         *big.Int
	OperatorConfirmed  bool
	Index              *big.Int
	Deauthorizing      *big.Int
	EndDeauthorization uint64
}

func convertActiveProviders(out *activeProvidersOutput) *ActiveProviders {
	result := &ActiveProviders{
		Total:     (*math.HexOrDecimal256)(out.AllAuthorizedTokens),
		Providers: make([]ActiveProvider, 0, len(out.ActiveStakingProviders)),
	}
	for _, p := range out.ActiveStakingProviders {
		result.Providers = append(result.Providers, ActiveProvider{
			StakingProvider: taco.Address(p.StakingProvider),
			Amount:          (*math.HexOrDecimal256)(p.Amount),
		})
	}
	return result
}

func convertProviderInfo(out *providerInfoOutput) *ProviderInfo {
	return &ProviderInfo{
		Operator:           taco.Address(out.Operator),
		Authorized:         (*math.HexOrDecimal256)(out.Authorized),
		OperatorConfirmed:  out.OperatorConfirmed,
		Index:              out.Index.Uint64(),
		Deauthorizing:      (*math.HexOrDecimal256)(out.Deauthorizing),
		EndDeauthorization: out.EndDeauthorization,
	}
}
