// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevertKinds(t *testing.T) {
	err := NewInvalidCaller("Only root application can call this")

	assert.True(t, errors.Is(err, ErrInvalidCaller))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, InvalidCaller, err.Kind())
	assert.Equal(t, "invalid caller", err.Kind().String())

	wrapped := errors.Wrap(err, "update operator")
	assert.True(t, errors.Is(wrapped, ErrInvalidCaller))
	assert.True(t, IsRevertErr(wrapped))
	assert.False(t, IsRevertErr(errors.New("boom")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
}

func TestRevertBytes(t *testing.T) {
	err := NewPreconditionNotMet("Can't confirm same operator twice")

	reason, unpackErr := ethabi.UnpackRevert(err.Bytes())
	require.NoError(t, unpackErr)
	assert.Equal(t, "Can't confirm same operator twice", reason)

	var nilErr *ErrRevert
	assert.Nil(t, nilErr.Bytes())
}
