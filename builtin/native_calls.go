// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/builtin/childapp"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/xenv"
)

type nativeMethod struct {
	abi *abi.Method
	run func(env *xenv.Environment) ([]any, error)
}

type methodKey struct {
	taco.Address
	abi.MethodID
}

var nativeMethods = make(map[methodKey]*nativeMethod)

type define struct {
	name string
	run  func(env *xenv.Environment) ([]any, error)
}

func register(c *contract, defines []define) {
	for _, def := range defines {
		if method, found := c.ABI.MethodByName(def.name); found {
			nativeMethods[methodKey{c.Address, method.ID()}] = &nativeMethod{
				abi: method,
				run: def.run,
			}
		} else {
			panic("method not found: " + c.name + "." + def.name)
		}
	}
}

// FindNativeCall returns the method called by input on the contract at to, and its implementation.
func FindNativeCall(to taco.Address, input []byte) (*abi.Method, func(env *xenv.Environment) ([]any, error), bool) {
	methodID, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, nil, false
	}

	method := nativeMethods[methodKey{to, methodID}]
	if method == nil {
		return nil, nil, false
	}
	return method.abi, method.run, true
}

type activeProvider struct {
	StakingProvider common.Address
	Amount          *big.Int
}

func getActiveStakingProviders(env *xenv.Environment, startIndex, maxCount *big.Int, cohortDuration uint32) ([]any, error) {
	total, active, err := ChildApplication.Native(env.State()).GetActiveStakingProviders(
		env,
		childapp.ClampUint64(startIndex),
		childapp.ClampUint64(maxCount),
		cohortDuration,
	)
	if err != nil {
		return nil, err
	}
	entries := make([]activeProvider, 0, len(active))
	for _, a := range active {
		entries = append(entries, activeProvider{common.Address(a.StakingProvider), a.Amount})
	}
	return []any{total, entries}, nil
}

func init() {
	register(ChildApplication.contract, []define{
		{"initialize", func(env *xenv.Environment) ([]any, error) {
			var coordinator common.Address
			env.ParseArgs(&coordinator)
			return nil, ChildApplication.Native(env.State()).Initialize(env, taco.Address(coordinator))
		}},
		{"updateOperator", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StakingProvider common.Address
				Operator        common.Address
			}
			env.ParseArgs(&args)
			return nil, ChildApplication.Native(env.State()).UpdateOperator(
				env,
				taco.Address(args.StakingProvider),
				taco.Address(args.Operator),
			)
		}},
		{"updateAuthorization", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StakingProvider    common.Address
				Authorized         *big.Int
				Deauthorizing      *big.Int
				EndDeauthorization uint64
			}
			env.ParseArgs(&args)
			return nil, ChildApplication.Native(env.State()).UpdateAuthorization(
				env,
				taco.Address(args.StakingProvider),
				args.Authorized,
				args.Deauthorizing,
				args.EndDeauthorization,
			)
		}},
		{"updateAuthorization0", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StakingProvider common.Address
				Amount          *big.Int
			}
			env.ParseArgs(&args)
			return nil, ChildApplication.Native(env.State()).UpdateAuthorizationLegacy(
				env,
				taco.Address(args.StakingProvider),
				args.Amount,
			)
		}},
		{"confirmOperatorAddress", func(env *xenv.Environment) ([]any, error) {
			var operator common.Address
			env.ParseArgs(&operator)
			return nil, ChildApplication.Native(env.State()).ConfirmOperatorAddress(env, taco.Address(operator))
		}},
		{"forceUpdateOperator", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StakingProvider common.Address
				Operator        common.Address
			}
			env.ParseArgs(&args)
			return nil, ChildApplication.Forced(env.State()).ForceUpdateOperator(
				env,
				taco.Address(args.StakingProvider),
				taco.Address(args.Operator),
			)
		}},
		{"forceUpdateAuthorization", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StakingProvider    common.Address
				Authorized         *big.Int
				Deauthorizing      *big.Int
				EndDeauthorization uint64
			}
			env.ParseArgs(&args)
			return nil, ChildApplication.Forced(env.State()).ForceUpdateAuthorization(
				env,
				taco.Address(args.StakingProvider),
				args.Authorized,
				args.Deauthorizing,
				args.EndDeauthorization,
			)
		}},
		{"grantUpdater", func(env *xenv.Environment) ([]any, error) {
			var updater common.Address
			env.ParseArgs(&updater)
			return nil, ChildApplication.Forced(env.State()).GrantUpdater(env, taco.Address(updater))
		}},
		{"revokeUpdater", func(env *xenv.Environment) ([]any, error) {
			var updater common.Address
			env.ParseArgs(&updater)
			return nil, ChildApplication.Forced(env.State()).RevokeUpdater(env, taco.Address(updater))
		}},
		{"isUpdater", func(env *xenv.Environment) ([]any, error) {
			var account common.Address
			env.ParseArgs(&account)
			ok, err := ChildApplication.Forced(env.State()).IsUpdater(taco.Address(account))
			if err != nil {
				return nil, err
			}
			return []any{ok}, nil
		}},
		{"eligibleStake", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StakingProvider common.Address
				EndDate         *big.Int
			}
			env.ParseArgs(&args)
			eligible, err := ChildApplication.Native(env.State()).EligibleStake(taco.Address(args.StakingProvider), args.EndDate)
			if err != nil {
				return nil, err
			}
			return []any{eligible}, nil
		}},
		{"getActiveStakingProviders", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StartIndex          *big.Int
				MaxStakingProviders *big.Int
				CohortDuration      uint32
			}
			env.ParseArgs(&args)
			return getActiveStakingProviders(env, args.StartIndex, args.MaxStakingProviders, args.CohortDuration)
		}},
		{"getActiveStakingProviders0", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				StartIndex          *big.Int
				MaxStakingProviders *big.Int
			}
			env.ParseArgs(&args)
			return getActiveStakingProviders(env, args.StartIndex, args.MaxStakingProviders, 0)
		}},
		{"stakingProviderInfo", func(env *xenv.Environment) ([]any, error) {
			var provider common.Address
			env.ParseArgs(&provider)
			info, err := ChildApplication.Native(env.State()).StakingProviderInfo(taco.Address(provider))
			if err != nil {
				return nil, err
			}
			return []any{
				common.Address(info.Operator),
				info.Authorized,
				info.OperatorConfirmed,
				new(big.Int).SetUint64(info.Index),
				info.Deauthorizing,
				info.EndDeauthorization,
			}, nil
		}},
		{"stakingProviders", func(env *xenv.Environment) ([]any, error) {
			var index *big.Int
			env.ParseArgs(&index)
			provider, err := ChildApplication.Native(env.State()).StakingProviders(childapp.ClampUint64(index))
			if err != nil {
				return nil, err
			}
			return []any{common.Address(provider)}, nil
		}},
		{"getStakingProvidersLength", func(env *xenv.Environment) ([]any, error) {
			length, err := ChildApplication.Native(env.State()).GetStakingProvidersLength()
			if err != nil {
				return nil, err
			}
			return []any{new(big.Int).SetUint64(length)}, nil
		}},
		{"operatorToStakingProvider", func(env *xenv.Environment) ([]any, error) {
			var operator common.Address
			env.ParseArgs(&operator)
			provider, err := ChildApplication.Native(env.State()).OperatorToStakingProvider(taco.Address(operator))
			if err != nil {
				return nil, err
			}
			return []any{common.Address(provider)}, nil
		}},
		{"stakingProviderFromOperator", func(env *xenv.Environment) ([]any, error) {
			var operator common.Address
			env.ParseArgs(&operator)
			provider, err := ChildApplication.Native(env.State()).StakingProviderFromOperator(taco.Address(operator))
			if err != nil {
				return nil, err
			}
			return []any{common.Address(provider)}, nil
		}},
		{"operatorFromStakingProvider", func(env *xenv.Environment) ([]any, error) {
			var provider common.Address
			env.ParseArgs(&provider)
			operator, err := ChildApplication.Native(env.State()).OperatorFromStakingProvider(taco.Address(provider))
			if err != nil {
				return nil, err
			}
			return []any{common.Address(operator)}, nil
		}},
		{"authorizedStake", func(env *xenv.Environment) ([]any, error) {
			var provider common.Address
			env.ParseArgs(&provider)
			authorized, err := ChildApplication.Native(env.State()).AuthorizedStake(taco.Address(provider))
			if err != nil {
				return nil, err
			}
			return []any{authorized}, nil
		}},
		{"isAuthorized", func(env *xenv.Environment) ([]any, error) {
			var provider common.Address
			env.ParseArgs(&provider)
			ok, err := ChildApplication.Native(env.State()).IsAuthorized(taco.Address(provider))
			if err != nil {
				return nil, err
			}
			return []any{ok}, nil
		}},
		{"isOperatorConfirmed", func(env *xenv.Environment) ([]any, error) {
			var operator common.Address
			env.ParseArgs(&operator)
			ok, err := ChildApplication.Native(env.State()).IsOperatorConfirmed(taco.Address(operator))
			if err != nil {
				return nil, err
			}
			return []any{ok}, nil
		}},
		{"coordinator", func(env *xenv.Environment) ([]any, error) {
			coordinator, err := ChildApplication.Native(env.State()).Coordinator()
			if err != nil {
				return nil, err
			}
			return []any{common.Address(coordinator)}, nil
		}},
		{"rootApplication", func(env *xenv.Environment) ([]any, error) {
			root, err := ChildApplication.Native(env.State()).RootApplication()
			if err != nil {
				return nil, err
			}
			return []any{common.Address(root)}, nil
		}},
		{"minimumAuthorization", func(env *xenv.Environment) ([]any, error) {
			minimum, err := ChildApplication.Native(env.State()).MinimumAuthorization()
			if err != nil {
				return nil, err
			}
			return []any{minimum}, nil
		}},
	})

	register(Coordinator.contract, []define{
		{"application", func(env *xenv.Environment) ([]any, error) {
			app, err := Coordinator.Native(env.State()).Application()
			if err != nil {
				return nil, err
			}
			return []any{common.Address(app)}, nil
		}},
		{"setProviderPublicKey", func(env *xenv.Environment) ([]any, error) {
			var publicKey []byte
			env.ParseArgs(&publicKey)
			return nil, Coordinator.Native(env.State()).SetProviderPublicKey(env, publicKey)
		}},
		{"getProviderPublicKey", func(env *xenv.Environment) ([]any, error) {
			var provider common.Address
			env.ParseArgs(&provider)
			key, err := Coordinator.Native(env.State()).GetProviderPublicKey(taco.Address(provider))
			if err != nil {
				return nil, err
			}
			if key == nil {
				key = []byte{}
			}
			return []any{key}, nil
		}},
	})

	register(Bridge.contract, []define{
		{"relay", func(env *xenv.Environment) ([]any, error) {
			var message []byte
			env.ParseArgs(&message)
			return nil, Bridge.Native(env.State()).Relay(env, message)
		}},
		{"confirmOperatorAddress", func(env *xenv.Environment) ([]any, error) {
			var operator common.Address
			env.ParseArgs(&operator)
			return nil, Bridge.Native(env.State()).ConfirmOperatorAddress(env, taco.Address(operator))
		}},
		{"outbox", func(env *xenv.Environment) ([]any, error) {
			var args struct {
				Start *big.Int
				Max   *big.Int
			}
			env.ParseArgs(&args)
			operators, err := Bridge.Native(env.State()).Outbox(childapp.ClampUint64(args.Start), childapp.ClampUint64(args.Max))
			if err != nil {
				return nil, err
			}
			out := make([]common.Address, 0, len(operators))
			for _, op := range operators {
				out = append(out, common.Address(op))
			}
			return []any{out}, nil
		}},
		{"outboxLength", func(env *xenv.Environment) ([]any, error) {
			length, err := Bridge.Native(env.State()).OutboxLength()
			if err != nil {
				return nil, err
			}
			return []any{new(big.Int).SetUint64(length)}, nil
		}},
		{"relayer", func(env *xenv.Environment) ([]any, error) {
			relayer, err := Bridge.Native(env.State()).Relayer()
			if err != nil {
				return nil, err
			}
			return []any{common.Address(relayer)}, nil
		}},
	})
}
