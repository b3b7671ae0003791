// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/genesis"
	"github.com/tacolabs/childapp/lvldb"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db, nil)
}

func TestDevnet(t *testing.T) {
	gene := genesis.NewDevnet()
	assert.Equal(t, "devnet", gene.Name())
	assert.False(t, gene.ID().IsZero())
	assert.Equal(t, gene.ID(), genesis.NewDevnet().ID(), "deterministic")

	st := newState(t)
	_, err := gene.Build(st)
	require.NoError(t, err)

	registry := builtin.ChildApplication.Native(st)
	coordinator, err := registry.Coordinator()
	require.NoError(t, err)
	assert.Equal(t, builtin.Coordinator.Address, coordinator)

	root, err := registry.RootApplication()
	require.NoError(t, err)
	assert.Equal(t, builtin.Bridge.Address, root)

	minimum, err := registry.MinimumAuthorization()
	require.NoError(t, err)
	assert.Equal(t, genesis.DevMinimumAuthorization, minimum)

	relayer, err := builtin.Bridge.Native(st).Relayer()
	require.NoError(t, err)
	assert.Equal(t, genesis.DevAccounts()[0].Address, relayer)

	ok, err := builtin.ChildApplication.Forced(st).IsUpdater(genesis.DevAccounts()[1].Address)
	require.NoError(t, err)
	assert.True(t, ok)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCustomNet(t *testing.T) {
	path := writeConfig(t, `
name: testnet
launchTime: 1700000000
relayer: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
minimumAuthorization: 40000000000000000000000
`)
	config, err := genesis.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), config.LaunchTime)
	assert.Equal(t, taco.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), config.Relayer)
	expected, _ := new(big.Int).SetString("40000000000000000000000", 10)
	assert.Equal(t, expected, (*big.Int)(config.MinimumAuthorization))
	assert.Nil(t, config.Admin)

	gene, err := genesis.NewCustomNet(config)
	require.NoError(t, err)
	assert.Equal(t, "testnet", gene.Name())
	assert.Equal(t, uint64(1700000000), gene.LaunchTime())

	st := newState(t)
	_, err = gene.Build(st)
	require.NoError(t, err)

	admin, err := builtin.ChildApplication.Forced(st).Admin()
	require.NoError(t, err)
	assert.True(t, admin.IsZero(), "forced updates disabled")
}

func TestCustomNetValidation(t *testing.T) {
	for name, content := range map[string]string{
		"no relayer": "minimumAuthorization: 1\n",
		"no minimum": "relayer: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\n",
		"updaters without admin": "relayer: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\n" +
			"minimumAuthorization: 1\n" +
			"devUpdaters: [\"0xd3ae78222beadb038203be21ed5ce7c9b1bff602\"]\n",
	} {
		config, err := genesis.LoadConfig(writeConfig(t, content))
		require.NoError(t, err, name)
		_, err = genesis.NewCustomNet(config)
		assert.Error(t, err, name)
	}

	_, err := genesis.LoadConfig(writeConfig(t, "relayer: not-an-address\n"))
	assert.Error(t, err)
}
