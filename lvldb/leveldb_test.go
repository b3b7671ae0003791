// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "main.db"), Options{CacheSize: 16, OpenFilesCacheCapacity: 16, SyncBulk: true})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, leveldb := range []*LevelDB{disk, mem} {
		assert.NoError(t, leveldb.Put(key, value))

		ret1, err := leveldb.Get(key)
		assert.NoError(t, err)

		ret2, err := leveldb.Has(key)
		assert.NoError(t, err)

		ret3, err := leveldb.Has(inValidKey)
		assert.NoError(t, err)

		assert.NoError(t, leveldb.Delete(key))

		_, ret4 := leveldb.Get(key)

		tests := []struct {
			ret      any
			expected any
		}{
			{ret1, value},
			{ret2, true},
			{ret3, false},
			{leveldb.IsNotFound(ret4), true},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.ret)
		}
	}
}

func TestLevelDBBulk(t *testing.T) {
	var (
		key   = []byte("123")
		value = []byte("456")
	)
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	assert.NoError(t, bulk.Put(key, value))
	assert.Equal(t, 1, bulk.Len())

	// not visible before write
	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, bulk.Write())

	ret, err := db.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, value, ret)
}

func TestLevelDBIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("e").NewStore(db)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put([]byte(k), []byte("v"+k)))
	}
	// outside the bucket
	require.NoError(t, db.Put([]byte("x"), []byte("vx")))

	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestLevelDBProperty(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Property("leveldb.stats")
	require.NoError(t, err)
	assert.Contains(t, stats, "Compactions")

	_, err = db.Property("leveldb.unknown")
	assert.Error(t, err)
}
