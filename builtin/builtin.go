// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/tacolabs/childapp/builtin/bridge"
	"github.com/tacolabs/childapp/builtin/childapp"
	"github.com/tacolabs/childapp/builtin/coordinator"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
)

// Builtin contracts binding.
var (
	ChildApplication = &childAppContract{mustLoadContract("ChildApplication")}
	Coordinator      = &coordinatorContract{mustLoadContract("Coordinator")}
	Bridge           = &bridgeContract{mustLoadContract("Bridge")}
)

type (
	childAppContract    struct{ *contract }
	coordinatorContract struct{ *contract }
	bridgeContract      struct{ *contract }
)

func (c *childAppContract) Native(state *state.State) *childapp.Registry {
	return childapp.New(c.Address, state)
}

func (c *childAppContract) Forced(state *state.State) *childapp.Forced {
	return childapp.NewForced(c.Address, state)
}

func (c *coordinatorContract) Native(state *state.State) *coordinator.Coordinator {
	return coordinator.New(c.Address, state)
}

func (b *bridgeContract) Native(state *state.State) *bridge.Bridge {
	return bridge.New(b.Address, state)
}

// Contracts returns all builtin contracts.
func Contracts() []*contract {
	return []*contract{ChildApplication.contract, Coordinator.contract, Bridge.contract}
}

// IsContract returns whether a builtin contract lives at addr.
func IsContract(addr taco.Address) bool {
	for _, c := range Contracts() {
		if c.Address == addr {
			return true
		}
	}
	return false
}
