// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/logdb"
	"github.com/tacolabs/childapp/taco"
)

type LogMeta struct {
	BlockNumber uint32       `json:"blockNumber"`
	BlockTime   uint64       `json:"blockTime"`
	ClauseID    taco.Bytes32 `json:"clauseID"`
	Caller      taco.Address `json:"caller"`
}

type FilteredEvent struct {
	Address taco.Address   `json:"address"`
	Name    string         `json:"name,omitempty"`
	Topics  []taco.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
	Meta    LogMeta        `json:"meta"`
}

// EventName resolves the name of a builtin contract event, empty if unknown.
func EventName(addr taco.Address, topics []taco.Bytes32) string {
	if len(topics) == 0 {
		return ""
	}
	for _, c := range builtin.Contracts() {
		if c.Address != addr {
			continue
		}
		if ev, ok := c.ABI.EventByID(topics[0]); ok {
			return ev.Name()
		}
	}
	return ""
}

// ConvertEvent converts an indexed event.
func ConvertEvent(event *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    event.Data,
		Meta: LogMeta{
			BlockNumber: event.BlockNumber,
			BlockTime:   event.BlockTime,
			ClauseID:    event.ClauseID,
			Caller:      event.Caller,
		},
	}
	fe.Topics = make([]taco.Bytes32, 0, len(event.Topics))
	for _, topic := range event.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, *topic)
		}
	}
	fe.Name = EventName(fe.Address, fe.Topics)
	return fe
}
