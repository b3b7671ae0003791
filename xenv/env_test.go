// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

const testABI = `[
{"type":"function","name":"echo","stateMutability":"view","inputs":[{"name":"who","type":"address"}],"outputs":[{"name":"who","type":"address"}]},
{"type":"function","name":"poke","stateMutability":"nonpayable","inputs":[{"name":"who","type":"address"}],"outputs":[]},
{"type":"event","name":"Poked","inputs":[{"name":"who","type":"address","indexed":true},{"name":"n","type":"uint64"}]}
]`

func newTestEnv(t *testing.T, name string, input []byte, call CallFunc) (*Environment, *abi.ABI, *tx.Events) {
	contract, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	m, ok := contract.MethodByName(name)
	require.True(t, ok)
	var events tx.Events
	env := New(m, nil, &BlockContext{Number: 1, Time: 10}, taco.Address{1}, taco.Address{2}, input, &events, call)
	return env, contract, &events
}

func TestRun(t *testing.T) {
	contract, _ := abi.New([]byte(testABI))
	echo, _ := contract.MethodByName("echo")
	who := common.Address{7}
	input, err := echo.EncodeInput(who)
	require.NoError(t, err)

	env, _, _ := newTestEnv(t, "echo", input, nil)
	out, err := env.Run(func(env *Environment) ([]any, error) {
		var arg common.Address
		env.ParseArgs(&arg)
		return []any{arg}, nil
	}, true)
	require.NoError(t, err)

	var got common.Address
	require.NoError(t, echo.DecodeOutput(out, &got))
	assert.Equal(t, who, got)
}

func TestRunInvalidInput(t *testing.T) {
	env, _, _ := newTestEnv(t, "echo", []byte{1, 2, 3, 4, 5}, nil)
	_, err := env.Run(func(env *Environment) ([]any, error) {
		var arg common.Address
		env.ParseArgs(&arg)
		return []any{arg}, nil
	}, false)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRunWriteProtection(t *testing.T) {
	env, _, _ := newTestEnv(t, "poke", nil, nil)
	_, err := env.Run(func(*Environment) ([]any, error) { return nil, nil }, true)
	assert.Equal(t, ErrWriteProtection, err)
}

func TestLogAndCall(t *testing.T) {
	var calledBy, calledTo taco.Address
	env, contract, events := newTestEnv(t, "poke", nil, func(caller, to taco.Address, input []byte) ([]byte, error) {
		calledBy, calledTo = caller, to
		return input, nil
	})

	ev, _ := contract.EventByName("Poked")
	topic := taco.BytesToBytes32(taco.Address{9}.Bytes())
	env.Log(ev, env.To(), []taco.Bytes32{topic}, uint64(3))

	require.Len(t, *events, 1)
	assert.Equal(t, []taco.Bytes32{ev.ID(), topic}, (*events)[0].Topics)
	assert.Equal(t, taco.Address{2}, (*events)[0].Address)

	out, err := env.Call(taco.Address{3}, []byte{0xaa})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, out)
	assert.Equal(t, taco.Address{2}, calledBy)
	assert.Equal(t, taco.Address{3}, calledTo)
}
