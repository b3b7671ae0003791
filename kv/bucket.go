// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix carving a logical namespace out of a store.
type Bucket string

func (b Bucket) prefixed(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

func (b Bucket) keyRange(r Range) Range {
	out := Range{Start: b.prefixed(r.Start)}
	if len(r.Limit) == 0 {
		out.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		out.Limit = b.prefixed(r.Limit)
	}
	return out
}

// NewGetter returns a getter reading keys under the bucket prefix.
func (b Bucket) NewGetter(src Getter) Getter { return &bucketGetter{b, src} }

// NewPutter returns a putter writing keys under the bucket prefix.
func (b Bucket) NewPutter(src Putter) Putter { return &bucketPutter{b, src} }

// NewStore returns a store confined to the bucket prefix.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{
		bucketGetter: bucketGetter{b, src},
		bucketPutter: bucketPutter{b, src},
		src:          src,
	}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.prefixed(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.prefixed(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.prefixed(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.prefixed(key)) }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucketGetter.b, bulk}, bulk}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	return &bucketIter{s.src.Iterate(s.bucketGetter.b.keyRange(r)), len(s.bucketGetter.b)}
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (bb *bucketBulk) Len() int     { return bb.bulk.Len() }
func (bb *bucketBulk) Write() error { return bb.bulk.Write() }

// bucketIter strips the bucket prefix from the keys it yields.
type bucketIter struct {
	Iterator
	prefixLen int
}

func (it *bucketIter) Key() []byte { return it.Iterator.Key()[it.prefixLen:] }
