// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/lvldb"
	"github.com/tacolabs/childapp/runtime"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []*tx.Clause
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(clause *tx.Clause) *Builder {
	b.calls = append(b.calls, clause)
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (taco.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return taco.Bytes32{}, err
	}
	defer db.Close()

	id, _, err := b.Build(state.New(db, nil))
	return id, err
}

// Build applies presets on the state and commits it.
// It returns the digest of the genesis state and the events emitted by calls.
func (b *Builder) Build(st *state.State) (id taco.Bytes32, events tx.Events, err error) {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return taco.Bytes32{}, nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, 0, b.timestamp)
	for i, clause := range b.calls {
		receipt, err := rt.ExecuteClause(clause)
		if err != nil {
			return taco.Bytes32{}, nil, errors.Wrapf(err, "call %d", i)
		}
		if receipt.Reverted {
			reason, _ := abi.UnpackRevert(receipt.RevertReason)
			return taco.Bytes32{}, nil, errors.Errorf("call %d reverted: %s", i, reason)
		}
		events = append(events, receipt.Events...)
	}

	stage := st.Stage()
	id = stage.Hash()
	if _, err := st.Commit(); err != nil {
		return taco.Bytes32{}, nil, errors.Wrap(err, "commit state")
	}
	return id, events, nil
}
