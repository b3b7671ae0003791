// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tacolabs/childapp/kv"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

const (
	metaBucket = kv.Bucket("m")

	genesisIDKey = "genesis-id"
	headKey      = "head"
)

// Block summarizes the clause that formed a block. Block 0 is the genesis.
type Block struct {
	Number   uint32
	Time     uint64
	ClauseID taco.Bytes32
	Caller   taco.Address
	To       taco.Address
}

// BlockEvents is sent to subscribers when a block is committed.
type BlockEvents struct {
	Block  *Block
	Events tx.Events
}

func loadMeta(db kv.Getter, key string, v any) (bool, error) {
	data, err := db.Get([]byte(key))
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, rlp.DecodeBytes(data, v)
}

func saveMeta(db kv.Putter, key string, v any) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return err
	}
	return db.Put([]byte(key), data)
}
