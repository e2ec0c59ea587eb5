// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix carving a logical store out of a shared one.
type Bucket string

// NewStore returns the view of src holding only the keys of the bucket, with the prefix stripped.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{b: b, src: src}
}

func (b Bucket) key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

type bucketStore struct {
	b   Bucket
	src Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.b.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.b.key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.b.key(key)) }

func (s *bucketStore) Bulk() Bulk {
	return &bucketBulk{b: s.b, Bulk: s.src.Bulk()}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	prefixed := Range{Start: s.b.key(r.Start)}
	if len(r.Limit) == 0 {
		prefixed.Limit = util.BytesPrefix([]byte(s.b)).Limit
	} else {
		prefixed.Limit = s.b.key(r.Limit)
	}
	return &bucketIter{Iterator: s.src.Iterate(prefixed), n: len(s.b)}
}

type bucketBulk struct {
	Bulk
	b Bucket
}

func (bb *bucketBulk) Put(key, val []byte) error { return bb.Bulk.Put(bb.b.key(key), val) }
func (bb *bucketBulk) Delete(key []byte) error   { return bb.Bulk.Delete(bb.b.key(key)) }

type bucketIter struct {
	Iterator
	n int
}

func (it *bucketIter) Key() []byte { return it.Iterator.Key()[it.n:] }
