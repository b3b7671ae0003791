// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

var (
	// ErrWriteProtection is returned when a non-const method runs in a read-only call.
	ErrWriteProtection = errors.New("write protection")
	// ErrInvalidInput is the cause of InputError.
	ErrInvalidInput = errors.New("invalid input")
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// CallFunc performs a synchronous call from caller to the contract at to.
type CallFunc func(caller, to taco.Address, input []byte) ([]byte, error)

// InputError is raised when input can't be decoded for the method being called.
type InputError struct {
	cause error
}

func (e *InputError) Error() string { return e.cause.Error() }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Environment an env to execute native method.
type Environment struct {
	method   *abi.Method
	state    *state.State
	blockCtx *BlockContext
	caller   taco.Address
	to       taco.Address
	input    []byte
	events   *tx.Events
	call     CallFunc
}

// New create a new env.
func New(
	method *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	caller taco.Address,
	to taco.Address,
	input []byte,
	events *tx.Events,
	call CallFunc,
) *Environment {
	return &Environment{
		method:   method,
		state:    state,
		blockCtx: blockCtx,
		caller:   caller,
		to:       to,
		input:    input,
		events:   events,
		call:     call,
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Caller() taco.Address        { return env.caller }
func (env *Environment) To() taco.Address            { return env.to }

// ParseArgs decodes the input into val. It panics with *InputError on malformed input.
func (env *Environment) ParseArgs(val any) {
	if err := env.method.DecodeInput(env.input, val); err != nil {
		panic(&InputError{errors.WithMessage(err, "decode native input")})
	}
}

// Log emits an event of the contract at address. The event id is prepended to topics.
func (env *Environment) Log(ev *abi.Event, address taco.Address, topics []taco.Bytes32, args ...any) {
	data, err := ev.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}

	eventTopics := make([]taco.Bytes32, 0, len(topics)+1)
	eventTopics = append(eventTopics, ev.ID())
	eventTopics = append(eventTopics, topics...)
	*env.events = append(*env.events, &tx.Event{
		Address: address,
		Topics:  eventTopics,
		Data:    data,
	})
}

// Call calls the contract at to with the current contract as caller.
func (env *Environment) Call(to taco.Address, input []byte) ([]byte, error) {
	if env.call == nil {
		return nil, errors.New("cross contract call not supported")
	}
	return env.call(env.to, to, input)
}

// Run runs proc and encodes its output. Input errors raised by ParseArgs are returned as err,
// other panics propagate.
func (env *Environment) Run(proc func(env *Environment) ([]any, error), readonly bool) (data []byte, err error) {
	if readonly && !env.method.Const() {
		return nil, ErrWriteProtection
	}

	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*InputError); ok {
				err = rec
			} else {
				panic(e)
			}
		}
	}()
	output, err := proc(env)
	if err != nil {
		return nil, err
	}
	data, err = env.method.EncodeOutput(output...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native output"))
	}
	return
}
