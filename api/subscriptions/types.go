// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/tacolabs/childapp/api/events"
	"github.com/tacolabs/childapp/logdb"
	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

// EventMessage is the message pushed to event subscribers.
type EventMessage events.FilteredEvent

func matchCriteria(criteria *logdb.EventCriteria, ev *tx.Event) bool {
	if criteria == nil {
		return true
	}
	if criteria.Address != nil && *criteria.Address != ev.Address {
		return false
	}
	for i, topic := range criteria.Topics {
		if topic == nil {
			continue
		}
		if i >= len(ev.Topics) || ev.Topics[i] != *topic {
			return false
		}
	}
	return true
}

func newEventMessage(blk *node.Block, ev *tx.Event) *EventMessage {
	return &EventMessage{
		Address: ev.Address,
		Name:    events.EventName(ev.Address, ev.Topics),
		Topics:  append([]taco.Bytes32{}, ev.Topics...),
		Data:    ev.Data,
		Meta: events.LogMeta{
			BlockNumber: blk.Number,
			BlockTime:   blk.Time,
			ClauseID:    blk.ClauseID,
			Caller:      blk.Caller,
		},
	}
}
