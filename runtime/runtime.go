// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/builtin/reverts"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
	"github.com/tacolabs/childapp/xenv"
)

// MaxCallDepth limits nested contract calls of a clause.
const MaxCallDepth = 8

var (
	logger = log.WithContext("pkg", "runtime")

	errCallDepth = errors.New("max call depth exceeded")
)

// Runtime executes clauses against a state at a given block.
type Runtime struct {
	state    *state.State
	blockCtx *xenv.BlockContext
}

// New create a Runtime object.
func New(state *state.State, blockNumber uint32, blockTime uint64) *Runtime {
	return &Runtime{
		state:    state,
		blockCtx: &xenv.BlockContext{Number: blockNumber, Time: blockTime},
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockNumber() uint32 { return rt.blockCtx.Number }
func (rt *Runtime) BlockTime() uint64   { return rt.blockCtx.Time }

// call runs input on the contract at to. Nested calls made by the contract go through call again.
func (rt *Runtime) call(events *tx.Events, caller, to taco.Address, input []byte, readonly bool, depth int) ([]byte, error) {
	if depth > MaxCallDepth {
		return nil, errCallDepth
	}
	if !builtin.IsContract(to) {
		return nil, reverts.NewInvalidArgument("Call to non-contract address")
	}
	method, run, found := builtin.FindNativeCall(to, input)
	if !found {
		return nil, reverts.NewInvalidArgument("Method not found")
	}

	nested := func(caller, to taco.Address, input []byte) ([]byte, error) {
		return rt.call(events, caller, to, input, readonly, depth+1)
	}
	env := xenv.New(method, rt.state, rt.blockCtx, caller, to, input, events, nested)
	return env.Run(run, readonly)
}

func (rt *Runtime) execute(clause *tx.Clause, readonly bool) (*tx.Receipt, error) {
	start := time.Now()
	defer func() {
		metricClauseDuration().Observe(time.Since(start).Milliseconds())
	}()

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()

	var events tx.Events
	output, err := rt.call(&events, clause.Caller(), clause.To(), clause.Data(), readonly, 0)
	if readonly || err != nil {
		rt.state.RevertTo(checkpoint)
	}

	if err != nil {
		var revert *reverts.ErrRevert
		switch {
		case errors.As(err, &revert):
			metricClausesCount().AddWithLabel(1, map[string]string{"result": "reverted"})
			return &tx.Receipt{Reverted: true, RevertReason: revert.Bytes()}, nil
		case errors.Is(err, xenv.ErrInvalidInput), errors.Is(err, xenv.ErrWriteProtection), errors.Is(err, errCallDepth):
			metricClausesCount().AddWithLabel(1, map[string]string{"result": "reverted"})
			return &tx.Receipt{Reverted: true}, nil
		default:
			metricClausesCount().AddWithLabel(1, map[string]string{"result": "failed"})
			logger.Warn("clause failed", "to", clause.To(), "err", err)
			return nil, err
		}
	}

	metricClausesCount().AddWithLabel(1, map[string]string{"result": "executed"})
	receipt := &tx.Receipt{Output: output, Events: events}
	if readonly {
		receipt.Events = nil
	}
	return receipt, nil
}

// ExecuteClause executes the clause. A rejected clause leaves the state untouched and
// returns a reverted receipt. The error is reserved to storage failures.
func (rt *Runtime) ExecuteClause(clause *tx.Clause) (*tx.Receipt, error) {
	return rt.execute(clause, false)
}

// Call executes the clause in read-only mode. State is never changed.
func (rt *Runtime) Call(clause *tx.Clause) (*tx.Receipt, error) {
	return rt.execute(clause, true)
}
