// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tacolabs/childapp/taco"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a storage mapping. The value of a key lives in the slot Blake2b(key, basePos),
// RLP encoded.
type Mapping[K Key, V any] struct {
	context *Context
	basePos taco.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos taco.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) taco.Bytes32 {
	return taco.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value of the key. A missing pointer value decodes to a fresh zero instance.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores the value of the key. A zero value (nil for pointers) clears the slot.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}
