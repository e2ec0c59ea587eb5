// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package history

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

var (
	slotChanges = hydra.BytesToBytes32([]byte(("history-balance-changes")))
	slotRPS     = hydra.BytesToBytes32([]byte(("history-rps")))
	slotLastRPS = hydra.BytesToBytes32([]byte(("history-last-rps-epoch")))
)

// Change is recorded whenever the balance of a principal at a target changes.
// Epoch is the first epoch that accrues on Balance.
type Change struct {
	Epoch      uint64
	Balance    *big.Int
	Correction slots.Int
	RPS        *big.Int // pool rps when the change was made
	Timestamp  uint64
}

// RPSPoint is the reward per share of a pool right after an epoch commit.
type RPSPoint struct {
	RPS       *big.Int
	Timestamp uint64
}

// Checkpoint pairs a balance change with the pool rps of the epoch it is resolved at.
type Checkpoint struct {
	Index  uint64
	Epoch  uint64
	Change *Change
	Point  *RPSPoint
}

// Earned returns the cumulative reward of the checkpoint balance window at Epoch.
func (c *Checkpoint) Earned() *big.Int {
	earned := new(big.Int).Mul(c.Point.RPS, c.Change.Balance)
	earned.Add(earned, c.Change.Correction.Big())
	return earned.Quo(earned, hydra.RewardPrecision)
}

// PoolKey identifies a reward pool.
type PoolKey struct {
	Validator  hydra.Address
	Delegation bool
}

func (k PoolKey) Bytes() []byte {
	if k.Delegation {
		return append(k.Validator.Bytes(), 1)
	}
	return append(k.Validator.Bytes(), 0)
}

type rpsKey struct {
	pool  PoolKey
	epoch uint64
}

func (k rpsKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.pool.Bytes(), k.epoch)
}

// Service is the append-only ledger of balance changes and pool rps checkpoints.
type Service struct {
	sctx    *slots.Context
	rps     *slots.Mapping[rpsKey, *RPSPoint]
	lastRPS *slots.Mapping[PoolKey, uint64]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		sctx:    sctx,
		rps:     slots.NewMapping[rpsKey, *RPSPoint](sctx, slotRPS),
		lastRPS: slots.NewMapping[PoolKey, uint64](sctx, slotLastRPS),
	}
}

func (s *Service) changes(principal, target hydra.Address) *slots.List[*Change] {
	pos := hydra.Blake2b(slots.PairKey{Principal: principal, Target: target}.Bytes(), slotChanges.Bytes())
	return slots.NewList[*Change](s.sctx, pos)
}

// RecordRPS stores the pool rps committed at epoch. Epochs must grow.
func (s *Service) RecordRPS(pool PoolKey, epoch uint64, rps *big.Int, timestamp uint64) error {
	last, err := s.lastRPS.Get(pool)
	if err != nil {
		return errors.Wrap(err, "failed to get last rps epoch")
	}
	if epoch <= last {
		return reverts.ErrInvalidEpoch
	}
	if err := s.lastRPS.Set(pool, epoch); err != nil {
		return err
	}
	return s.rps.Set(rpsKey{pool, epoch}, &RPSPoint{RPS: new(big.Int).Set(rps), Timestamp: timestamp})
}

// RPSAt returns the pool rps committed at epoch, nil if none.
func (s *Service) RPSAt(pool PoolKey, epoch uint64) (*RPSPoint, error) {
	p, err := s.rps.Get(rpsKey{pool, epoch})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rps")
	}
	if p.RPS == nil {
		return nil, nil
	}
	return p, nil
}

// RecordChange appends a balance change. A second change in the tail epoch amends the tail
// unless locked is set, in which case it fails with ErrBalanceChangeAlreadyMade.
// Earlier epochs are rejected.
func (s *Service) RecordChange(principal, target hydra.Address, change *Change, locked bool) error {
	list := s.changes(principal, target)
	last, ok, err := list.Last()
	if err != nil {
		return errors.Wrap(err, "failed to get last change")
	}
	if ok {
		switch {
		case change.Epoch < last.Epoch:
			return reverts.ErrInvalidEpoch
		case change.Epoch == last.Epoch:
			if locked {
				return reverts.ErrBalanceChangeAlreadyMade
			}
			n, err := list.Len()
			if err != nil {
				return err
			}
			return list.Set(n-1, change)
		}
	}
	return list.Push(change)
}

// LastChange returns the tail change, nil if none.
func (s *Service) LastChange(principal, target hydra.Address) (*Change, error) {
	last, ok, err := s.changes(principal, target).Last()
	if err != nil || !ok {
		return nil, err
	}
	return last, nil
}

// Changes returns every change since the log was last reset.
func (s *Service) Changes(principal, target hydra.Address) ([]*Change, error) {
	return s.changes(principal, target).All()
}

// Reset drops the change log, used when a new vesting cycle starts.
func (s *Service) Reset(principal, target hydra.Address) error {
	return s.changes(principal, target).Clear()
}

// FindCheckpoint resolves the balance window at index against the pool rps committed at epoch.
// The change at index must be the last one made at or before epoch.
func (s *Service) FindCheckpoint(principal, target hydra.Address, pool PoolKey, epoch, index uint64) (*Checkpoint, error) {
	list := s.changes(principal, target)
	n, err := list.Len()
	if err != nil {
		return nil, err
	}
	if index >= n {
		return nil, reverts.ErrInvalidParamsIndex
	}
	point, err := s.RPSAt(pool, epoch)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return nil, reverts.ErrInvalidEpoch
	}
	change, err := list.Get(index)
	if err != nil {
		return nil, err
	}
	if change.Epoch > epoch {
		return nil, reverts.ErrEarlyBalanceChange
	}
	if index+1 < n {
		next, err := list.Get(index + 1)
		if err != nil {
			return nil, err
		}
		if next.Epoch <= epoch {
			return nil, reverts.ErrLateBalanceChange
		}
	}
	if point.Timestamp < change.Timestamp || point.RPS.Cmp(change.RPS) < 0 {
		return nil, reverts.ErrWrongRPS
	}
	return &Checkpoint{Index: index, Epoch: epoch, Change: change, Point: point}, nil
}
