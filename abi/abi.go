// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/taco"
)

// ABI holds information about methods and events of a contract.
type ABI struct {
	constructor  *Method
	nameToMethod map[string]*Method
	sigToMethod  map[string]*Method
	nameToEvent  map[string]*Event
	methods      map[MethodID]*Method
	events       map[taco.Bytes32]*Event
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		sigToMethod:  make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		methods:      make(map[MethodID]*Method),
		events:       make(map[taco.Bytes32]*Event),
	}

	if len(parsed.Constructor.Inputs) > 0 {
		ctor := parsed.Constructor
		abi.constructor = &Method{MethodID{}, &ctor}
	}

	// overloaded methods are keyed as name, name0, name1 ...
	for name := range parsed.Methods {
		ethMethod := parsed.Methods[name]
		var id MethodID
		copy(id[:], ethMethod.ID)
		method := &Method{id, &ethMethod}
		abi.methods[id] = method
		abi.nameToMethod[name] = method
		abi.sigToMethod[ethMethod.Sig] = method
	}
	for name := range parsed.Events {
		event := newEvent(parsed.Events[name])
		abi.events[event.ID()] = event
		abi.nameToEvent[name] = event
	}
	return abi, nil
}

// Constructor returns the constructor method if any.
func (a *ABI) Constructor() *Method {
	return a.constructor
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodBySig find method for the given signature, which tells overloaded methods apart.
func (a *ABI) MethodBySig(sig string) (*Method, bool) {
	m, found := a.sigToMethod[sig]
	return m, found
}

// Methods returns all the methods.
func (a *ABI) Methods() []*Method {
	methods := make([]*Method, 0, len(a.methods))
	for _, m := range a.methods {
		methods = append(methods, m)
	}
	return methods
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID find event for the given event id.
func (a *ABI) EventByID(id taco.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// UnpackRevert resolves the abi-encoded revert reason.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
