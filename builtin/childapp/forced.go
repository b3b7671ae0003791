// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package childapp

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/builtin/reverts"
	"github.com/tacolabs/childapp/builtin/solidity"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/xenv"
)

// Forced is the development entry point of the registry. Members of the updater set push
// operator and authorization updates without going through the root application.
// It is disabled until an admin is set.
type Forced struct {
	*Registry
	updaters *solidity.Mapping[taco.Address, bool]
	admin    *solidity.Address
}

// NewForced create a new instance over the registry at addr.
func NewForced(addr taco.Address, state *state.State) *Forced {
	registry := New(addr, state)
	return &Forced{
		Registry: registry,
		updaters: solidity.NewMapping[taco.Address, bool](registry.storage.context, slotUpdaters),
		admin:    solidity.NewAddress(registry.storage.context, slotAdmin),
	}
}

// Enable sets the admin and the initial updaters. Used at genesis.
func (f *Forced) Enable(admin taco.Address, updaters ...taco.Address) error {
	if admin.IsZero() {
		return reverts.NewInvalidArgument("Admin must be specified")
	}
	f.admin.Set(admin)
	for _, u := range updaters {
		if err := f.updaters.Set(u, true); err != nil {
			return errors.Wrap(err, "failed to set updater")
		}
	}
	return nil
}

// Admin returns the admin, zero if forced updates are disabled.
func (f *Forced) Admin() (taco.Address, error) {
	admin, err := f.admin.Get()
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get admin")
	}
	return admin, nil
}

// IsUpdater returns whether the account belongs to the updater set.
func (f *Forced) IsUpdater(account taco.Address) (bool, error) {
	ok, err := f.updaters.Get(account)
	if err != nil {
		return false, errors.Wrap(err, "failed to get updater")
	}
	return ok, nil
}

func (f *Forced) onlyAdmin(env *xenv.Environment) error {
	admin, err := f.Admin()
	if err != nil {
		return err
	}
	if admin.IsZero() || env.Caller() != admin {
		return reverts.NewInvalidCaller("Only admin can call this")
	}
	return nil
}

func (f *Forced) onlyUpdater(env *xenv.Environment) error {
	admin, err := f.Admin()
	if err != nil {
		return err
	}
	if admin.IsZero() {
		return reverts.NewInvalidCaller("Forced updates are disabled")
	}
	ok, err := f.IsUpdater(env.Caller())
	if err != nil {
		return err
	}
	if !ok {
		return reverts.NewInvalidCaller("Only updater can call this")
	}
	return nil
}

// GrantUpdater adds the account to the updater set. Admin only.
func (f *Forced) GrantUpdater(env *xenv.Environment, updater taco.Address) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	if updater.IsZero() {
		return reverts.NewInvalidArgument("Updater must be specified")
	}
	if err := f.updaters.Set(updater, true); err != nil {
		return errors.Wrap(err, "failed to set updater")
	}
	ev, _ := ABI.EventByName("UpdaterGranted")
	env.Log(ev, f.addr, []taco.Bytes32{addressTopic(updater)})
	return nil
}

// RevokeUpdater removes the account from the updater set. Admin only.
func (f *Forced) RevokeUpdater(env *xenv.Environment, updater taco.Address) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	if err := f.updaters.Set(updater, false); err != nil {
		return errors.Wrap(err, "failed to set updater")
	}
	ev, _ := ABI.EventByName("UpdaterRevoked")
	env.Log(ev, f.addr, []taco.Bytes32{addressTopic(updater)})
	return nil
}

// ForceUpdateOperator is UpdateOperator for updaters.
func (f *Forced) ForceUpdateOperator(env *xenv.Environment, provider, operator taco.Address) error {
	if err := f.onlyUpdater(env); err != nil {
		return err
	}
	return f.updateOperator(env, provider, operator)
}

// ForceUpdateAuthorization is UpdateAuthorization for updaters.
func (f *Forced) ForceUpdateAuthorization(
	env *xenv.Environment,
	provider taco.Address,
	authorized, deauthorizing *big.Int,
	endDeauthorization uint64,
) error {
	if err := f.onlyUpdater(env); err != nil {
		return err
	}
	return f.updateAuthorization(env, provider, authorized, deauthorizing, endDeauthorization)
}
