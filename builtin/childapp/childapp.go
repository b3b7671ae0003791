// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package childapp

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/builtin/gen"
	"github.com/tacolabs/childapp/builtin/reverts"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/xenv"
)

var (
	logger = log.WithContext("pkg", "childapp")

	// ABI of the registry, its coordinator and its root application.
	ABI            = gen.MustLoadABI("ChildApplication")
	coordinatorABI = gen.MustLoadABI("Coordinator")
	rootABI        = gen.MustLoadABI("Bridge")

	// unbounded deauthorization horizon
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Registry tracks staking providers authorization mirrored from the root application,
// their operators and confirmations made by the coordinator.
type Registry struct {
	addr    taco.Address
	storage *storage
}

// New create a new instance.
func New(addr taco.Address, state *state.State) *Registry {
	return &Registry{
		addr:    addr,
		storage: newStorage(addr, state),
	}
}

// Deploy writes the construction params of the registry at addr.
func Deploy(addr taco.Address, state *state.State, rootApplication taco.Address, minimumAuthorization *big.Int) (*Registry, error) {
	if rootApplication.IsZero() {
		return nil, reverts.NewInvalidArgument("Wrong input parameters")
	}
	if minimumAuthorization == nil || minimumAuthorization.Sign() <= 0 {
		return nil, reverts.NewInvalidArgument("Minimum authorization must be set")
	}
	if minimumAuthorization.Cmp(MaxAmount) > 0 {
		return nil, reverts.NewInvalidArgument("Minimum authorization overflows uint96")
	}
	r := New(addr, state)
	r.storage.rootApplication.Set(rootApplication)
	r.storage.minimumAuthorization.Set(minimumAuthorization)
	return r, nil
}

// Address returns the contract address of the registry.
func (r *Registry) Address() taco.Address {
	return r.addr
}

// Initialize sets the coordinator once. The coordinator must refer back to this registry.
func (r *Registry) Initialize(env *xenv.Environment, coordinator taco.Address) error {
	current, err := r.storage.GetCoordinator()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.NewInvalidArgument("Coordinator already set")
	}
	if coordinator.IsZero() {
		return reverts.NewInvalidArgument("Coordinator must be specified")
	}

	method, _ := coordinatorABI.MethodByName("application")
	input, err := method.EncodeInput()
	if err != nil {
		return errors.Wrap(err, "encode application call")
	}
	output, err := env.Call(coordinator, input)
	if err != nil {
		return err
	}
	var application common.Address
	if err := method.DecodeOutput(output, &application); err != nil {
		return reverts.NewInvalidArgument("Invalid coordinator")
	}
	if taco.Address(application) != r.addr {
		return reverts.NewInvalidArgument("Invalid coordinator")
	}

	r.storage.coordinator.Set(coordinator)
	logger.Info("coordinator initialized", "coordinator", coordinator)
	return nil
}

func (r *Registry) onlyRootApplication(env *xenv.Environment) error {
	root, err := r.storage.GetRootApplication()
	if err != nil {
		return err
	}
	if env.Caller() != root {
		return reverts.NewInvalidCaller("Only root application can call this")
	}
	return nil
}

// UpdateOperator binds the operator to the staking provider. Root application only.
func (r *Registry) UpdateOperator(env *xenv.Environment, provider, operator taco.Address) error {
	if err := r.onlyRootApplication(env); err != nil {
		return err
	}
	return r.updateOperator(env, provider, operator)
}

func (r *Registry) updateOperator(env *xenv.Environment, provider, operator taco.Address) error {
	if provider.IsZero() {
		return nil
	}
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return err
	}
	if info.Operator == operator {
		return nil
	}
	if !operator.IsZero() {
		bound, err := r.storage.GetProviderFromOperator(operator)
		if err != nil {
			return err
		}
		if !bound.IsZero() && bound != provider {
			return reverts.NewInvalidArgument("Operator already in use")
		}
	}

	if info.Index == 0 {
		index, err := r.storage.AppendProvider(provider)
		if err != nil {
			return err
		}
		info.Index = index
		metricStakingProviders().Set(int64(index))
	}

	old := info.Operator
	info.Operator = operator
	if !old.IsZero() {
		if err := r.storage.SetProviderOfOperator(old, taco.Address{}); err != nil {
			return err
		}
	}
	if !operator.IsZero() {
		if err := r.storage.SetProviderOfOperator(operator, provider); err != nil {
			return err
		}
	}
	info.OperatorConfirmed = false
	if err := r.storage.SetProviderInfo(provider, info); err != nil {
		return err
	}

	ev, _ := ABI.EventByName("OperatorUpdated")
	env.Log(ev, r.addr, []taco.Bytes32{addressTopic(provider), addressTopic(operator)})
	metricRegistryUpdates().AddWithLabel(1, map[string]string{"kind": "operator"})
	logger.Debug("operator updated", "provider", provider, "operator", operator, "previous", old)
	return nil
}

// UpdateAuthorization mirrors the authorization of the staking provider. Root application only.
func (r *Registry) UpdateAuthorization(
	env *xenv.Environment,
	provider taco.Address,
	authorized, deauthorizing *big.Int,
	endDeauthorization uint64,
) error {
	if err := r.onlyRootApplication(env); err != nil {
		return err
	}
	return r.updateAuthorization(env, provider, authorized, deauthorizing, endDeauthorization)
}

// UpdateAuthorizationLegacy is the two arguments form of UpdateAuthorization, with nothing pending.
func (r *Registry) UpdateAuthorizationLegacy(env *xenv.Environment, provider taco.Address, authorized *big.Int) error {
	return r.UpdateAuthorization(env, provider, authorized, new(big.Int), 0)
}

func (r *Registry) updateAuthorization(
	env *xenv.Environment,
	provider taco.Address,
	authorized, deauthorizing *big.Int,
	endDeauthorization uint64,
) error {
	if provider.IsZero() {
		return nil
	}
	if err := validateAmounts(authorized, deauthorizing); err != nil {
		return err
	}
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return err
	}
	if info.Authorized.Cmp(authorized) == 0 &&
		info.Deauthorizing.Cmp(deauthorizing) == 0 &&
		info.EndDeauthorization == endDeauthorization {
		return nil
	}

	info.Authorized = new(big.Int).Set(authorized)
	info.Deauthorizing = new(big.Int).Set(deauthorizing)
	info.EndDeauthorization = endDeauthorization
	if err := r.storage.SetProviderInfo(provider, info); err != nil {
		return err
	}

	ev, _ := ABI.EventByName("AuthorizationUpdated")
	env.Log(ev, r.addr, []taco.Bytes32{addressTopic(provider)}, authorized, deauthorizing, endDeauthorization)
	metricRegistryUpdates().AddWithLabel(1, map[string]string{"kind": "authorization"})
	logger.Debug("authorization updated",
		"provider", provider,
		"authorized", authorized,
		"deauthorizing", deauthorizing,
		"endDeauthorization", endDeauthorization,
	)
	return nil
}

func validateAmounts(authorized, deauthorizing *big.Int) error {
	if authorized == nil || deauthorizing == nil || authorized.Sign() < 0 || deauthorizing.Sign() < 0 {
		return reverts.NewInvalidArgument("Wrong input parameters")
	}
	if authorized.Cmp(MaxAmount) > 0 || deauthorizing.Cmp(MaxAmount) > 0 {
		return reverts.NewInvalidArgument("Amount overflows uint96")
	}
	if deauthorizing.Cmp(authorized) > 0 {
		return reverts.NewInvalidArgument("Deauthorizing exceeds authorization")
	}
	return nil
}

// ConfirmOperatorAddress marks the operator as confirmed and notifies the root application. Coordinator only.
func (r *Registry) ConfirmOperatorAddress(env *xenv.Environment, operator taco.Address) error {
	coordinator, err := r.storage.GetCoordinator()
	if err != nil {
		return err
	}
	if coordinator.IsZero() || env.Caller() != coordinator {
		return reverts.NewInvalidCaller("Only coordinator can call this")
	}

	provider, err := r.storage.GetProviderFromOperator(operator)
	if err != nil {
		return err
	}
	if provider.IsZero() {
		return reverts.NewPreconditionNotMet("Operator has no bond with staking provider")
	}
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return err
	}
	minimum, err := r.storage.GetMinimumAuthorization()
	if err != nil {
		return err
	}
	if info.Authorized.Cmp(minimum) < 0 {
		return reverts.NewPreconditionNotMet("Authorization must be greater than minimum")
	}
	if info.OperatorConfirmed {
		return reverts.NewPreconditionNotMet("Can't confirm same operator twice")
	}

	info.OperatorConfirmed = true
	if err := r.storage.SetProviderInfo(provider, info); err != nil {
		return err
	}
	ev, _ := ABI.EventByName("OperatorConfirmed")
	env.Log(ev, r.addr, []taco.Bytes32{addressTopic(provider), addressTopic(operator)})

	root, err := r.storage.GetRootApplication()
	if err != nil {
		return err
	}
	method, _ := rootABI.MethodByName("confirmOperatorAddress")
	input, err := method.EncodeInput(common.Address(operator))
	if err != nil {
		return errors.Wrap(err, "encode confirmation call")
	}
	if _, err := env.Call(root, input); err != nil {
		return err
	}
	metricRegistryUpdates().AddWithLabel(1, map[string]string{"kind": "confirmation"})
	logger.Debug("operator confirmed", "provider", provider, "operator", operator)
	return nil
}

// EligibleStake returns the eligible stake of the provider for a window ending at endDate.
func (r *Registry) EligibleStake(provider taco.Address, endDate *big.Int) (*big.Int, error) {
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return nil, err
	}
	return info.EligibleStake(endDate), nil
}

// GetActiveStakingProviders lists confirmed providers of stakingProviders[startIndex:startIndex+maxCount]
// (to the end if maxCount is 0) whose eligible stake for the cohort reaches the minimum authorization.
// The cohort ends at block time + cohortDuration, or never if cohortDuration is 0.
// It returns the sum of eligible stakes and the entries, skipped ones leave no gap.
func (r *Registry) GetActiveStakingProviders(
	env *xenv.Environment,
	startIndex, maxCount uint64,
	cohortDuration uint32,
) (*big.Int, []ActiveProvider, error) {
	endIndex, err := r.storage.ProvidersLength()
	if err != nil {
		return nil, nil, err
	}
	if startIndex >= endIndex {
		return nil, nil, reverts.NewPreconditionNotMet("Start index must be less than length")
	}
	if maxCount != 0 && maxCount < endIndex-startIndex {
		endIndex = startIndex + maxCount
	}

	minimum, err := r.storage.GetMinimumAuthorization()
	if err != nil {
		return nil, nil, err
	}
	endDate := maxUint256
	if cohortDuration != 0 {
		endDate = new(big.Int).SetUint64(env.BlockContext().Time)
		endDate.Add(endDate, big.NewInt(int64(cohortDuration)))
	}

	total := new(big.Int)
	active := make([]ActiveProvider, 0, endIndex-startIndex)
	for i := startIndex; i < endIndex; i++ {
		provider, err := r.storage.GetProvider(i)
		if err != nil {
			return nil, nil, err
		}
		info, err := r.storage.GetProviderInfo(provider)
		if err != nil {
			return nil, nil, err
		}
		eligible := info.EligibleStake(endDate)
		if eligible.Cmp(minimum) < 0 || !info.OperatorConfirmed {
			continue
		}
		active = append(active, ActiveProvider{StakingProvider: provider, Amount: eligible})
		total.Add(total, eligible)
	}
	return total, active, nil
}

// StakingProviderInfo returns the record of the provider, zero valued if unknown.
func (r *Registry) StakingProviderInfo(provider taco.Address) (*StakingProviderInfo, error) {
	return r.storage.GetProviderInfo(provider)
}

// StakingProviders returns the provider at the 0-based index of the list.
func (r *Registry) StakingProviders(index uint64) (taco.Address, error) {
	length, err := r.storage.ProvidersLength()
	if err != nil {
		return taco.Address{}, err
	}
	if index >= length {
		return taco.Address{}, reverts.NewInvalidArgument("Index out of range")
	}
	return r.storage.GetProvider(index)
}

// GetStakingProvidersLength returns the number of listed providers.
func (r *Registry) GetStakingProvidersLength() (uint64, error) {
	return r.storage.ProvidersLength()
}

// OperatorToStakingProvider returns the provider the operator is bound to, zero if none.
func (r *Registry) OperatorToStakingProvider(operator taco.Address) (taco.Address, error) {
	return r.storage.GetProviderFromOperator(operator)
}

// StakingProviderFromOperator is an alias of OperatorToStakingProvider.
func (r *Registry) StakingProviderFromOperator(operator taco.Address) (taco.Address, error) {
	return r.storage.GetProviderFromOperator(operator)
}

// OperatorFromStakingProvider returns the operator bound to the provider, zero if none.
func (r *Registry) OperatorFromStakingProvider(provider taco.Address) (taco.Address, error) {
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return taco.Address{}, err
	}
	return info.Operator, nil
}

// AuthorizedStake returns the authorization of the provider.
func (r *Registry) AuthorizedStake(provider taco.Address) (*big.Int, error) {
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return nil, err
	}
	return info.Authorized, nil
}

// IsAuthorized returns whether the provider has a non-zero authorization.
func (r *Registry) IsAuthorized(provider taco.Address) (bool, error) {
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return false, err
	}
	return info.Authorized.Sign() > 0, nil
}

// IsOperatorConfirmed returns whether the operator is bound and confirmed.
func (r *Registry) IsOperatorConfirmed(operator taco.Address) (bool, error) {
	provider, err := r.storage.GetProviderFromOperator(operator)
	if err != nil {
		return false, err
	}
	if provider.IsZero() {
		return false, nil
	}
	info, err := r.storage.GetProviderInfo(provider)
	if err != nil {
		return false, err
	}
	return info.OperatorConfirmed, nil
}

func (r *Registry) Coordinator() (taco.Address, error) {
	return r.storage.GetCoordinator()
}

func (r *Registry) RootApplication() (taco.Address, error) {
	return r.storage.GetRootApplication()
}

func (r *Registry) MinimumAuthorization() (*big.Int, error) {
	return r.storage.GetMinimumAuthorization()
}

func addressTopic(addr taco.Address) taco.Bytes32 {
	return taco.BytesToBytes32(addr.Bytes())
}

// ClampUint64 converts an ABI uint256 to uint64, saturating at math.MaxUint64.
func ClampUint64(v *big.Int) uint64 {
	if v == nil || v.Sign() <= 0 {
		return 0
	}
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
