// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	indexBits = 31
	maxIndex  = 1<<indexBits - 1
)

// sequence orders events by block number, then by position in the block.
type sequence int64

func newSequence(blockNum uint32, index uint32) sequence {
	if index > maxIndex {
		panic("event index overflows sequence")
	}
	return sequence(blockNum)<<indexBits | sequence(index)
}

func (s sequence) BlockNumber() uint32 { return uint32(s >> indexBits) }
func (s sequence) Index() uint32       { return uint32(s & maxIndex) }
