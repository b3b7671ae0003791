// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package childapp

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/builtin/solidity"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
)

var (
	slotStakingProviderInfo       = nameToSlot("staking-provider-info")
	slotStakingProviders          = nameToSlot("staking-providers")
	slotOperatorToStakingProvider = nameToSlot("operator-to-staking-provider")
	slotCoordinator               = nameToSlot("coordinator")
	// construction params
	slotRootApplication      = nameToSlot("root-application")
	slotMinimumAuthorization = nameToSlot("minimum-authorization")
	// forced updates
	slotUpdaters = nameToSlot("updaters")
	slotAdmin    = nameToSlot("admin")
)

func nameToSlot(name string) taco.Bytes32 {
	return taco.BytesToBytes32([]byte(name))
}

// storage represents the root storage for the registry contract.
type storage struct {
	context              *solidity.Context
	providerInfo         *solidity.Mapping[taco.Address, *StakingProviderInfo]
	providers            *solidity.Array[taco.Address]
	operatorToProvider   *solidity.Mapping[taco.Address, taco.Address]
	coordinator          *solidity.Address
	rootApplication      *solidity.Address
	minimumAuthorization *solidity.Uint256
}

func newStorage(addr taco.Address, state *state.State) *storage {
	context := solidity.NewContext(addr, state)
	return &storage{
		context:              context,
		providerInfo:         solidity.NewMapping[taco.Address, *StakingProviderInfo](context, slotStakingProviderInfo),
		providers:            solidity.NewArray[taco.Address](context, slotStakingProviders),
		operatorToProvider:   solidity.NewMapping[taco.Address, taco.Address](context, slotOperatorToStakingProvider),
		coordinator:          solidity.NewAddress(context, slotCoordinator),
		rootApplication:      solidity.NewAddress(context, slotRootApplication),
		minimumAuthorization: solidity.NewUint256(context, slotMinimumAuthorization),
	}
}

func (s *storage) GetProviderInfo(provider taco.Address) (*StakingProviderInfo, error) {
	info, err := s.providerInfo.Get(provider)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking provider info")
	}
	return info.normalize(), nil
}

func (s *storage) SetProviderInfo(provider taco.Address, info *StakingProviderInfo) error {
	if err := s.providerInfo.Set(provider, info); err != nil {
		return errors.Wrap(err, "failed to set staking provider info")
	}
	return nil
}

func (s *storage) GetProviderFromOperator(operator taco.Address) (taco.Address, error) {
	provider, err := s.operatorToProvider.Get(operator)
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get staking provider of operator")
	}
	return provider, nil
}

func (s *storage) SetProviderOfOperator(operator, provider taco.Address) error {
	if err := s.operatorToProvider.Set(operator, provider); err != nil {
		return errors.Wrap(err, "failed to set staking provider of operator")
	}
	return nil
}

// AppendProvider appends the provider to the list and returns the new length.
func (s *storage) AppendProvider(provider taco.Address) (uint64, error) {
	n, err := s.providers.Push(provider)
	if err != nil {
		return 0, errors.Wrap(err, "failed to append staking provider")
	}
	return n, nil
}

func (s *storage) GetProvider(index uint64) (taco.Address, error) {
	provider, err := s.providers.Get(index)
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get staking provider")
	}
	return provider, nil
}

func (s *storage) ProvidersLength() (uint64, error) {
	n, err := s.providers.Len()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get staking providers length")
	}
	return n, nil
}

func (s *storage) GetCoordinator() (taco.Address, error) {
	addr, err := s.coordinator.Get()
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get coordinator")
	}
	return addr, nil
}

func (s *storage) GetRootApplication() (taco.Address, error) {
	addr, err := s.rootApplication.Get()
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get root application")
	}
	return addr, nil
}

func (s *storage) GetMinimumAuthorization() (*big.Int, error) {
	v, err := s.minimumAuthorization.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get minimum authorization")
	}
	return v, nil
}
