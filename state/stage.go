// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/log"
)

var logger = log.WithContext("pkg", "state")

// Stage abstracts changes on the ledger storage.
type Stage struct {
	state   *State
	order   []storageKey
	changes map[storageKey]rlp.RawValue
}

func newStage(state *State, order []storageKey, changes map[storageKey]rlp.RawValue) *Stage {
	return &Stage{state: state, order: order, changes: changes}
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit commits all changes into the store in one bulk write.
func (s *Stage) Commit() error {
	if len(s.order) == 0 {
		return nil
	}
	bulk := s.state.store.Bulk()
	for _, key := range s.order {
		value := s.changes[key]
		var err error
		if len(value) == 0 {
			err = bulk.Delete(key.bytes())
		} else {
			err = bulk.Put(key.bytes(), value)
		}
		if err != nil {
			return errors.Wrap(err, "stage slot")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit stage")
	}
	for _, key := range s.order {
		s.state.cache.Add(key, s.changes[key])
	}

	metricCommittedSlots().Add(int64(len(s.order)))
	if snap, changed := s.state.cache.Stats().Snapshot(); changed {
		metricCacheHitRate().Set(snap.HitRate())
		logger.Debug("state cache stats", "hit", snap.Hit, "miss", snap.Miss)
	}
	logger.Trace("state committed", "slots", len(s.order))
	return nil
}
