// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

// Clause is the request body of transactions and calls.
type Clause struct {
	Caller taco.Address  `json:"caller"`
	To     *taco.Address `json:"to"`
	Data   hexutil.Bytes `json:"data"`
}

type Event struct {
	Address taco.Address   `json:"address"`
	Topics  []taco.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

type BlockMeta struct {
	Number   uint32       `json:"number"`
	Time     uint64       `json:"time"`
	ClauseID taco.Bytes32 `json:"clauseID"`
}

type Receipt struct {
	Reverted     bool          `json:"reverted"`
	RevertReason string        `json:"revertReason,omitempty"`
	Output       hexutil.Bytes `json:"output"`
	Events       []*Event      `json:"events"`
	// nil for calls and reverted transactions
	Block *BlockMeta `json:"block"`
}

func convertReceipt(receipt *tx.Receipt, blk *node.Block) *Receipt {
	r := &Receipt{
		Reverted: receipt.Reverted,
		Output:   receipt.Output,
		Events:   make([]*Event, 0, len(receipt.Events)),
	}
	if receipt.Reverted && len(receipt.RevertReason) > 0 {
		if reason, err := abi.UnpackRevert(receipt.RevertReason); err == nil {
			r.RevertReason = reason
		}
	}
	for _, ev := range receipt.Events {
		r.Events = append(r.Events, &Event{
			Address: ev.Address,
			Topics:  ev.Topics,
			Data:    ev.Data,
		})
	}
	if blk != nil {
		r.Block = &BlockMeta{
			Number:   blk.Number,
			Time:     blk.Time,
			ClauseID: blk.ClauseID,
		}
	}
	return r
}
