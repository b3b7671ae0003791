// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/builtin/gen"
	"github.com/tacolabs/childapp/taco"
)

type contract struct {
	name    string
	Address taco.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string) *contract {
	return &contract{
		name,
		taco.BytesToAddress([]byte(name)),
		gen.MustLoadABI(name),
	}
}

func (c *contract) Name() string {
	return c.name
}
