// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
)

// Context binds storage wrappers to a contract address and the state they read and write.
type Context struct {
	address taco.Address
	state   *state.State
}

func NewContext(address taco.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() taco.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
