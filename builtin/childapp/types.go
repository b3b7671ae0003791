// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package childapp

import (
	"math/big"

	"github.com/tacolabs/childapp/taco"
)

// MaxAmount is the largest amount a uint96 can hold.
var MaxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// StakingProviderInfo is the authorization record of a staking provider.
type StakingProviderInfo struct {
	Operator          taco.Address
	Authorized        *big.Int
	OperatorConfirmed bool
	// 1-based position in the staking providers list, 0 if not listed
	Index              uint64
	Deauthorizing      *big.Int
	EndDeauthorization uint64 // unix seconds, 0 if nothing pending
}

// IsEmpty returns whether the provider was never touched.
func (s *StakingProviderInfo) IsEmpty() bool {
	return s.Operator.IsZero() && s.Index == 0 && s.Authorized.Sign() == 0 &&
		s.Deauthorizing.Sign() == 0 && s.EndDeauthorization == 0 && !s.OperatorConfirmed
}

// EligibleStake returns the stake still backing duties for a window ending at endDate.
// The pending deauthorization is subtracted once it completes before endDate.
func (s *StakingProviderInfo) EligibleStake(endDate *big.Int) *big.Int {
	eligible := new(big.Int).Set(s.Authorized)
	if s.EndDeauthorization != 0 && new(big.Int).SetUint64(s.EndDeauthorization).Cmp(endDate) < 0 {
		eligible.Sub(eligible, s.Deauthorizing)
	}
	return eligible
}

func (s *StakingProviderInfo) normalize() *StakingProviderInfo {
	if s.Authorized == nil {
		s.Authorized = new(big.Int)
	}
	if s.Deauthorizing == nil {
		s.Deauthorizing = new(big.Int)
	}
	return s
}

// ActiveProvider is an entry of the active staking providers list.
type ActiveProvider struct {
	StakingProvider taco.Address
	Amount          *big.Int
}
