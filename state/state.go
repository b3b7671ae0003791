// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tacolabs/childapp/cache"
	"github.com/tacolabs/childapp/kv"
	"github.com/tacolabs/childapp/stackedmap"
	"github.com/tacolabs/childapp/taco"
)

// StorageBucket is the kv bucket where contract storage slots live.
const StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

type storageKey struct {
	addr taco.Address
	key  taco.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, len(k.addr)+len(k.key))
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages contract storage on top of a kv store.
// It's not safe for concurrent use.
type State struct {
	db    kv.Store
	cache *cache.LRU             // committed values, may be shared among states
	sm    *stackedmap.StackedMap // keeps revisions of storage
}

// New create state object. The given cache can be nil.
func New(db kv.Store, cache *cache.LRU) *State {
	s := &State{
		db:    StorageBucket.NewStore(db),
		cache: cache,
	}
	s.sm = stackedmap.New(s.committedGetter)
	return s
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(key any) (any, bool, error) {
	k, ok := key.(storageKey)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	load := func(any) (any, error) {
		v, err := s.db.Get(k.bytes())
		if err != nil {
			if s.db.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(v), nil
	}
	var (
		v   any
		err error
	)
	if s.cache != nil {
		v, err = s.cache.GetOrLoad(k, load)
	} else {
		v, err = load(k)
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr taco.Address, key taco.Bytes32) (taco.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return taco.Bytes32{}, err
	}
	if len(raw) == 0 {
		return taco.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return taco.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return taco.Blake2b(raw), nil
	}
	return taco.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr taco.Address, key, value taco.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr taco.Address, key taco.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr taco.Address, key taco.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr taco.Address, key taco.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr taco.Address, key taco.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 0 || revision >= s.sm.Depth() {
		panic("invalid revision")
	}
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object to compute the changes and commit them.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	// later puts override earlier ones
	s.sm.Journal(func(k, v any) bool {
		changes[k.(storageKey)] = v.(rlp.RawValue)
		return true
	})
	return &Stage{db: s.db, cache: s.cache, changes: changes}
}

// Commit writes all changes into the underlying store and resets the journal.
// See Stage.Commit for extra.
func (s *State) Commit(extra ...func(kv.Putter) error) (int, error) {
	stage := s.Stage()
	n, err := stage.Commit(extra...)
	if err != nil {
		return 0, err
	}
	s.sm = stackedmap.New(s.committedGetter)
	return n, nil
}
