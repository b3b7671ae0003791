// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/taco"
)

func TestClause(t *testing.T) {
	caller := taco.BytesToAddress([]byte("caller"))
	to := taco.BytesToAddress([]byte("to"))
	data := []byte{1, 2, 3}

	c := NewClause(caller, to).WithData(data)
	data[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, c.Data(), "data is copied")
	assert.Equal(t, caller, c.Caller())
	assert.Equal(t, to, c.To())

	enc, err := rlp.EncodeToBytes(c)
	require.NoError(t, err)
	var decoded Clause
	require.NoError(t, rlp.DecodeBytes(enc, &decoded))
	assert.Equal(t, c.ID(1, 0), decoded.ID(1, 0))

	assert.NotEqual(t, c.ID(1, 0), c.ID(1, 1))
	assert.NotEqual(t, c.ID(1, 0), c.ID(2, 0))
	assert.NotEqual(t, c.ID(1, 0), NewClause(caller, to).ID(1, 0))
}
