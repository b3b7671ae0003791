// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tacolabs/childapp/cache"
	"github.com/tacolabs/childapp/kv"
	"github.com/tacolabs/childapp/taco"
)

// Stage abstracts changes on the storage slots.
type Stage struct {
	db      kv.Store
	cache   *cache.LRU
	changes map[storageKey]rlp.RawValue
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Changed reports whether the slot of the given address was written.
func (s *Stage) Changed(addr taco.Address, key taco.Bytes32) bool {
	_, ok := s.changes[storageKey{addr, key}]
	return ok
}

// Hash computes the digest of the changes, in key order.
func (s *Stage) Hash() taco.Bytes32 {
	keys := make([][]byte, 0, len(s.changes))
	values := make(map[string]rlp.RawValue, len(s.changes))
	for k, v := range s.changes {
		b := k.bytes()
		keys = append(keys, b)
		values[string(b)] = v
	}
	slices.SortFunc(keys, bytes.Compare)

	return taco.Blake2bFn(func(w io.Writer) {
		for _, k := range keys {
			rlp.Encode(w, []any{k, []byte(values[string(k)])})
		}
	})
}

// Commit writes all changes in one atomic bulk. Each extra func adds its own
// records to the same bulk, so they land together with the slots or not at all.
// It returns count of written records.
func (s *Stage) Commit(extra ...func(kv.Putter) error) (int, error) {
	bulk := s.db.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.bytes())
		} else {
			err = bulk.Put(k.bytes(), v)
		}
		if err != nil {
			return 0, &Error{err}
		}
	}
	for _, f := range extra {
		if err := f(bulk); err != nil {
			return 0, err
		}
	}
	n := bulk.Len()
	if err := bulk.Write(); err != nil {
		return 0, &Error{err}
	}
	if s.cache != nil {
		for k, v := range s.changes {
			s.cache.Add(k, v)
		}
	}
	metricStorageWrites().Add(int64(len(s.changes)))
	return n, nil
}
