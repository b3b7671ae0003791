// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package childapp

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/lvldb"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
	"github.com/tacolabs/childapp/xenv"
)

var (
	registryAddr    = taco.BytesToAddress([]byte("ChildApplication"))
	rootAddr        = taco.BytesToAddress([]byte("root"))
	coordinatorAddr = taco.BytesToAddress([]byte("coordinator"))
	minAuthorized   = big.NewInt(50)
)

// testChain holds a deployed registry and fakes its coordinator and root application.
type testChain struct {
	state    *state.State
	registry *Registry
	blockCtx *xenv.BlockContext
	events   tx.Events

	// operators forwarded to the root application
	confirmed []taco.Address
	// when set, the root application rejects confirmations
	rootErr error
	// what the coordinator answers to application()
	coordinatorApp taco.Address
}

func newTestChain(t *testing.T) *testChain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	registry, err := Deploy(registryAddr, st, rootAddr, minAuthorized)
	require.NoError(t, err)

	return &testChain{
		state:          st,
		registry:       registry,
		blockCtx:       &xenv.BlockContext{Number: 1, Time: 1_000_000},
		coordinatorApp: registryAddr,
	}
}

func (c *testChain) call(caller, to taco.Address, input []byte) ([]byte, error) {
	switch to {
	case coordinatorAddr:
		method, _ := coordinatorABI.MethodByName("application")
		id := method.ID()
		if !bytes.HasPrefix(input, id[:]) {
			return nil, errors.New("unexpected coordinator call")
		}
		return method.EncodeOutput(common.Address(c.coordinatorApp))
	case rootAddr:
		if caller != registryAddr {
			return nil, errors.New("unexpected root caller")
		}
		if c.rootErr != nil {
			return nil, c.rootErr
		}
		method, _ := rootABI.MethodByName("confirmOperatorAddress")
		var operator common.Address
		if err := method.DecodeInput(input, &operator); err != nil {
			return nil, err
		}
		c.confirmed = append(c.confirmed, taco.Address(operator))
		return nil, nil
	}
	return nil, errors.New("no contract")
}

func (c *testChain) env(caller taco.Address) *xenv.Environment {
	return xenv.New(nil, c.state, c.blockCtx, caller, registryAddr, nil, &c.events, c.call)
}

func (c *testChain) initialize(t *testing.T) *testChain {
	require.NoError(t, c.registry.Initialize(c.env(rootAddr), coordinatorAddr))
	return c
}

func (c *testChain) eventNames() []string {
	names := make([]string, 0, len(c.events))
	for _, e := range c.events {
		ev, ok := ABI.EventByID(e.Topics[0])
		if !ok {
			names = append(names, "?")
			continue
		}
		names = append(names, ev.Name())
	}
	return names
}

type TestFunc func(t *testing.T)

// TestSequence runs registry operations in order, failing the test on the first unexpected error.
type TestSequence struct {
	chain *testChain
	funcs []TestFunc
}

func NewSequence(chain *testChain) *TestSequence {
	return &TestSequence{chain: chain}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) UpdateOperator(provider, operator taco.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.chain.registry.UpdateOperator(st.chain.env(rootAddr), provider, operator)
		if err != nil {
			t.Fatalf("failed to update operator of %s: %v", provider, err)
		}
	})
}

func (st *TestSequence) Authorize(provider taco.Address, authorized int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.chain.registry.UpdateAuthorizationLegacy(st.chain.env(rootAddr), provider, big.NewInt(authorized))
		if err != nil {
			t.Fatalf("failed to authorize %s: %v", provider, err)
		}
	})
}

func (st *TestSequence) Deauthorize(provider taco.Address, authorized, deauthorizing int64, end uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.chain.registry.UpdateAuthorization(
			st.chain.env(rootAddr),
			provider,
			big.NewInt(authorized),
			big.NewInt(deauthorizing),
			end,
		)
		if err != nil {
			t.Fatalf("failed to update authorization of %s: %v", provider, err)
		}
	})
}

func (st *TestSequence) Confirm(operator taco.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.chain.registry.ConfirmOperatorAddress(st.chain.env(coordinatorAddr), operator)
		if err != nil {
			t.Fatalf("failed to confirm operator %s: %v", operator, err)
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
	}
}

// ProviderAssertions checks the record of a staking provider.
type ProviderAssertions struct {
	chain    *testChain
	provider taco.Address
	info     *StakingProviderInfo
}

func AssertProvider(t *testing.T, chain *testChain, provider taco.Address) *ProviderAssertions {
	info, err := chain.registry.StakingProviderInfo(provider)
	require.NoError(t, err)
	return &ProviderAssertions{chain: chain, provider: provider, info: info}
}

func (pa *ProviderAssertions) Operator(t *testing.T, expected taco.Address) *ProviderAssertions {
	assert.Equal(t, expected, pa.info.Operator, "operator of %s", pa.provider)
	return pa
}

func (pa *ProviderAssertions) Authorized(t *testing.T, expected int64) *ProviderAssertions {
	assert.Equal(t, 0, big.NewInt(expected).Cmp(pa.info.Authorized), "authorized of %s: %s", pa.provider, pa.info.Authorized)
	return pa
}

func (pa *ProviderAssertions) Confirmed(t *testing.T, expected bool) *ProviderAssertions {
	assert.Equal(t, expected, pa.info.OperatorConfirmed, "confirmed of %s", pa.provider)
	return pa
}

func (pa *ProviderAssertions) Index(t *testing.T, expected uint64) *ProviderAssertions {
	assert.Equal(t, expected, pa.info.Index, "index of %s", pa.provider)
	return pa
}

func addr(name string) taco.Address {
	return taco.BytesToAddress([]byte(name))
}
