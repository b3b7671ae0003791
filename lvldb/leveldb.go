// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/tacolabs/childapp/kv"
)

var _ kv.GetPutCloser = (*LevelDB)(nil)

const minCacheMB = 16

// Options tunes a persistent instance.
type Options struct {
	CacheSize              int  // MB, split between block cache and write buffer
	OpenFilesCacheCapacity int  // max open table files
	SyncBulk               bool // fsync every bulk write, making block commits durable
}

// LevelDB is the kv.Store backed by goleveldb.
type LevelDB struct {
	db       *leveldb.DB
	bulkOpt  *opt.WriteOptions
	readOpt  *opt.ReadOptions
	writeOpt *opt.WriteOptions
}

// New opens the database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb storage")
	}
	return open(stg, opts)
}

// NewMem returns an in-memory instance. Data is lost on Close.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheMB := max(opts.CacheSize, minCacheMB)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, minCacheMB),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// goleveldb keeps two write buffers alive
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	})
	if err != nil {
		_ = stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{
		db:       db,
		bulkOpt:  &opt.WriteOptions{Sync: opts.SyncBulk},
		readOpt:  &opt.ReadOptions{},
		writeOpt: &opt.WriteOptions{},
	}, nil
}

// IsNotFound reports whether err is the missing-key error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) { return ldb.db.Get(key, ldb.readOpt) }
func (ldb *LevelDB) Has(key []byte) (bool, error)   { return ldb.db.Has(key, ldb.readOpt) }
func (ldb *LevelDB) Put(key, val []byte) error      { return ldb.db.Put(key, val, ldb.writeOpt) }
func (ldb *LevelDB) Delete(key []byte) error        { return ldb.db.Delete(key, ldb.writeOpt) }

// Close releases the database. Later calls fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// Bulk returns a batch applied atomically on Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &batchBulk{ldb: ldb, batch: new(leveldb.Batch)}
}

// Iterate walks keys in [r.Start, r.Limit).
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, ldb.readOpt)
}

// Property exposes goleveldb internals such as "leveldb.stats".
func (ldb *LevelDB) Property(name string) (string, error) {
	return ldb.db.GetProperty(name)
}

type batchBulk struct {
	ldb   *LevelDB
	batch *leveldb.Batch
}

func (b *batchBulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *batchBulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *batchBulk) Len() int { return b.batch.Len() }

func (b *batchBulk) Write() error {
	return b.ldb.db.Write(b.batch, b.ldb.bulkOpt)
}
