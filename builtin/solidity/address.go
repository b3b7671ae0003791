// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/tacolabs/childapp/taco"
)

// Address is a single storage slot holding an address.
type Address struct {
	context *Context
	pos     taco.Bytes32
}

func NewAddress(context *Context, pos taco.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (taco.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return taco.Address{}, err
	}
	return taco.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr taco.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, taco.BytesToBytes32(addr.Bytes()))
}
