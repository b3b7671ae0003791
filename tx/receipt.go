// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/tacolabs/childapp/taco"
)

// Event represents a contract event emitted during clause execution.
type Event struct {
	// address of the contract that emitted the event
	Address taco.Address
	// list of topics provided by the contract.
	Topics []taco.Bytes32
	// supplied by the contract, usually ABI-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Receipt represents the results of a clause.
type Receipt struct {
	// whether the clause was reverted
	Reverted bool
	// ABI encoded Error(string) when reverted by a contract rejection
	RevertReason []byte
	// ABI encoded return values
	Output []byte
	// events emitted, empty when reverted
	Events Events
}
