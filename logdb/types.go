// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	ClauseID    taco.Bytes32
	Caller      taco.Address // clause caller
	Address     taco.Address // always a contract address
	Topics      [5]*taco.Bytes32
	Data        []byte
}

// newEvent converts tx.Event to Event.
func newEvent(block *BlockInfo, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		BlockNumber: block.Number,
		Index:       index,
		BlockTime:   block.Time,
		ClauseID:    block.ClauseID,
		Caller:      block.Caller,
		Address:     txEvent.Address,
		Data:        txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// BlockInfo describes the block an executed clause forms.
type BlockInfo struct {
	Number   uint32
	Time     uint64
	ClauseID taco.Bytes32
	Caller   taco.Address
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range of block numbers, both ends included.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *taco.Address // always a contract address
	Topics  [5]*taco.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
