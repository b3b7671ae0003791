// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/builtin/bridge"
	"github.com/tacolabs/childapp/builtin/childapp"
	"github.com/tacolabs/childapp/builtin/coordinator"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

// Genesis to build the initial state of the node.
type Genesis struct {
	builder *Builder
	id      taco.Bytes32
	name    string
}

// Build commits the genesis state and returns the events it emitted.
func (g *Genesis) Build(st *state.State) (tx.Events, error) {
	_, events, err := g.builder.Build(st)
	return events, err
}

// ID returns the digest of the genesis state.
func (g *Genesis) ID() taco.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the timestamp of the genesis.
func (g *Genesis) LaunchTime() uint64 {
	return g.builder.timestamp
}

func newGenesis(name string, launchTime uint64, params deployParams) (*Genesis, error) {
	builder := new(Builder).
		Timestamp(launchTime).
		State(func(st *state.State) error {
			return deploy(st, params)
		}).
		Call(tx.NewClause(taco.Address{}, builtin.ChildApplication.Address).
			WithData(mustEncodeInput(builtin.ChildApplication.ABI, "initialize", common.Address(builtin.Coordinator.Address))))

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name}, nil
}

type deployParams struct {
	relayer              taco.Address
	minimumAuthorization *big.Int
	admin                taco.Address
	updaters             []taco.Address
}

// deploy writes the construction params of the builtin contracts. The bridge is the root application of the registry.
func deploy(st *state.State, p deployParams) error {
	if _, err := childapp.Deploy(builtin.ChildApplication.Address, st, builtin.Bridge.Address, p.minimumAuthorization); err != nil {
		return errors.Wrap(err, "deploy registry")
	}
	if _, err := coordinator.Deploy(builtin.Coordinator.Address, st, builtin.ChildApplication.Address); err != nil {
		return errors.Wrap(err, "deploy coordinator")
	}
	if _, err := bridge.Deploy(builtin.Bridge.Address, st, builtin.ChildApplication.Address, p.relayer); err != nil {
		return errors.Wrap(err, "deploy bridge")
	}
	if !p.admin.IsZero() {
		if err := builtin.ChildApplication.Forced(st).Enable(p.admin, p.updaters...); err != nil {
			return errors.Wrap(err, "enable forced updates")
		}
	}
	return nil
}

func mustEncodeInput(contractABI *abi.ABI, name string, args ...any) []byte {
	m, found := contractABI.MethodByName(name)
	if !found {
		panic(fmt.Sprintf("method %s not found", name))
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		panic(err)
	}
	return data
}
