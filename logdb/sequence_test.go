// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	for _, c := range [][2]uint32{
		{1, 2},
		{math.MaxUint32, 1},
		{5, maxIndex},
		{math.MaxUint32, maxIndex},
	} {
		seq := newSequence(c[0], c[1])
		assert.Equal(t, c[0], seq.BlockNumber())
		assert.Equal(t, c[1], seq.Index())
	}

	assert.Less(t, newSequence(1, maxIndex), newSequence(2, 0))
	assert.Panics(t, func() { newSequence(1, maxIndex+1) })
}
