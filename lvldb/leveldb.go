// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs kv.Store with goleveldb, on disk or in memory.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/hydrachain/staker/kv"
)

var _ kv.Store = (*LevelDB)(nil)

const minCapacity = 16

// Options tunes the block cache (MB) and the open file cache.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

func (o Options) toOpt() *opt.Options {
	cacheMB := max(o.CacheSize, minCapacity)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minCapacity),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// leveldb keeps two write buffers alive
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	}
}

var (
	readOpt  = &opt.ReadOptions{}
	writeOpt = &opt.WriteOptions{}
)

type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage [%v]", path)
	}
	return open(stg, opts)
}

// NewMem opens an empty database that lives until Close.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.toOpt())
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, readOpt)
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, readOpt)
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, writeOpt)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, writeOpt)
}

// Close releases the database. Any later call fails.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Bulk returns a write batch. It is reusable after Write.
func (l *LevelDB) Bulk() kv.Bulk {
	return &batch{db: l.db, b: new(leveldb.Batch)}
}

// Iterate walks the keys in r. The caller must Release the iterator.
func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, readOpt)
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error {
	if err := b.db.Write(b.b, writeOpt); err != nil {
		return errors.Wrap(err, "write batch")
	}
	b.b.Reset()
	return nil
}
