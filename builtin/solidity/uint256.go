// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/tacolabs/childapp/taco"
)

// Uint256 is a single storage slot holding an unsigned 256 bits integer.
type Uint256 struct {
	context *Context
	pos     taco.Bytes32
}

func NewUint256(context *Context, pos taco.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

// Set stores the value. It panics if value is negative or overflows 256 bits.
func (u *Uint256) Set(value *big.Int) {
	v, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		panic("uint256: value out of range")
	}
	u.context.state.SetStorage(u.context.address, u.pos, taco.Bytes32(v.Bytes32()))
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(storage.Add(storage, value))
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(storage.Sub(storage, value))
	return nil
}
