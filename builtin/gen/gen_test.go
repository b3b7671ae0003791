// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadABIs(t *testing.T) {
	for _, name := range []string{"ChildApplication", "Coordinator", "Bridge"} {
		assert.NotPanics(t, func() { MustLoadABI(name) }, name)
	}
	assert.Panics(t, func() { MustAsset("compiled/Missing.abi") })

	childApp := MustLoadABI("ChildApplication")
	_, ok := childApp.MethodBySig("getActiveStakingProviders(uint256,uint256)")
	require.True(t, ok)
	_, ok = childApp.MethodBySig("getActiveStakingProviders(uint256,uint256,uint32)")
	require.True(t, ok)
	_, ok = childApp.EventByName("OperatorConfirmed")
	assert.True(t, ok)
}
