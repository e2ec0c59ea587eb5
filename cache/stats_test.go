// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheStats(t *testing.T) {
	cs := &Stats{}
	snap, changed := cs.Snapshot()
	assert.Equal(t, Snapshot{}, snap)
	assert.False(t, changed)

	cs.Hit()
	cs.Miss()
	snap, changed = cs.Snapshot()
	assert.Equal(t, Snapshot{Hit: 1, Miss: 1}, snap)
	assert.Equal(t, int64(500), snap.HitRate())
	assert.True(t, changed)

	_, changed = cs.Snapshot()
	assert.False(t, changed)

	cs.Hit()
	cs.Miss()
	assert.Equal(t, int64(3), cs.Hit())

	snap, changed = cs.Snapshot()
	assert.Equal(t, Snapshot{Hit: 3, Miss: 2}, snap)
	assert.Equal(t, int64(600), snap.HitRate())
	assert.True(t, changed)
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](2)
	assert.NoError(t, err)

	loads := 0
	loader := func(key string) (int, error) {
		loads++
		return len(key), nil
	}

	v, err := c.GetOrLoad("abc", loader)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = c.GetOrLoad("abc", loader)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, loads)

	snap, _ := c.Stats().Snapshot()
	assert.Equal(t, Snapshot{Hit: 1, Miss: 1}, snap)

	_, err = c.GetOrLoad("x", func(string) (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())

	c.Remove("abc")
	_, ok := c.Get("abc")
	assert.False(t, ok)

	_, err = NewLRU[string, int](0)
	assert.Error(t, err)
}
