// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/taco"
)

// Array is a storage dynamic array. Its length lives in the slot basePos, element i in
// the slot Blake2b(i, basePos).
type Array[V any] struct {
	length *Uint256
	items  *Mapping[index, V]
}

type index uint64

func (i index) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

func NewArray[V any](context *Context, pos taco.Bytes32) *Array[V] {
	return &Array[V]{
		length: NewUint256(context, pos),
		items:  NewMapping[index, V](context, pos),
	}
}

func (a *Array[V]) Len() (uint64, error) {
	l, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	return l.Uint64(), nil
}

// Get returns the element at i. It fails if i is out of range.
func (a *Array[V]) Get(i uint64) (value V, err error) {
	l, err := a.Len()
	if err != nil {
		return value, err
	}
	if i >= l {
		return value, errors.Errorf("array index out of range [%d] with length %d", i, l)
	}
	return a.items.Get(index(i))
}

// Set overwrites the element at i. It fails if i is out of range.
func (a *Array[V]) Set(i uint64, value V) error {
	l, err := a.Len()
	if err != nil {
		return err
	}
	if i >= l {
		return errors.Errorf("array index out of range [%d] with length %d", i, l)
	}
	return a.items.Set(index(i), value)
}

// Push appends the value and returns the new length.
func (a *Array[V]) Push(value V) (uint64, error) {
	l, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.items.Set(index(l), value); err != nil {
		return 0, err
	}
	a.length.Set(new(big.Int).SetUint64(l + 1))
	return l + 1, nil
}
