// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Snapshot is the hit/miss count at one point in time.
type Snapshot struct {
	Hit  int64
	Miss int64
}

// HitRate returns the hit ratio in per mille, 0 before any lookup.
func (s Snapshot) HitRate() int64 {
	if lookups := s.Hit + s.Miss; lookups > 0 {
		return s.Hit * 1000 / lookups
	}
	return 0
}

// Stats counts cache hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	lastRate  atomic.Int64
}

func (cs *Stats) Hit() int64  { return cs.hit.Add(1) }
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Snapshot returns the current counts and whether the hit rate moved since the previous call.
func (cs *Stats) Snapshot() (Snapshot, bool) {
	s := Snapshot{Hit: cs.hit.Load(), Miss: cs.miss.Load()}
	rate := s.HitRate()
	return s, cs.lastRate.Swap(rate) != rate
}
