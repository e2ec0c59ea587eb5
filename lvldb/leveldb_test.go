// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(t.TempDir(), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBulkIsAtomic(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	assert.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	assert.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, bulk.Len())

	has, _ := db.Has([]byte("a"))
	assert.False(t, has, "nothing visible before write")

	require.NoError(t, bulk.Write())
	has, _ = db.Has([]byte("b"))
	assert.True(t, has)
	assert.Equal(t, 0, bulk.Len())
}

func TestBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("s").NewStore(db)
	require.NoError(t, store.Put([]byte("1"), []byte("a")))
	require.NoError(t, store.Put([]byte("2"), []byte("b")))
	require.NoError(t, db.Put([]byte("t1"), []byte("other")))

	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2"}, keys)

	bulk := store.Bulk()
	require.NoError(t, bulk.Put([]byte("3"), []byte("c")))
	require.NoError(t, bulk.Write())
	got, err := db.Get([]byte("s3"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("c"), got)
}

func TestOptionsFloor(t *testing.T) {
	o := Options{}.toOpt()
	assert.Equal(t, minCapacity, o.OpenFilesCacheCapacity)
	assert.Equal(t, minCapacity/2*1024*1024, o.BlockCacheCapacity)

	o = Options{CacheSize: 256, OpenFilesCacheCapacity: 512}.toOpt()
	assert.Equal(t, 512, o.OpenFilesCacheCapacity)
	assert.Equal(t, 128*1024*1024, o.BlockCacheCapacity)
	assert.Equal(t, 64*1024*1024, o.WriteBuffer)
}
