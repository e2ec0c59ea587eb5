// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/hydrachain/staker/acl"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/rewards"
)

// Share is the weight of a validator in an epoch commit.
type Share = rewards.Share

// CommitEpoch distributes total over the validators of shares. Only the system may commit,
// one epoch after the other.
func (s *Staker) CommitEpoch(caller hydra.Address, epoch, timestamp uint64, total *big.Int, shares []Share) (*rewards.Commit, error) {
	var commit *rewards.Commit
	err := s.exec("commitEpoch", caller, timestamp, func(evs *events) error {
		if err := s.checkRole(caller, acl.System); err != nil {
			return err
		}
		var err error
		if commit, err = s.rewards.CommitEpoch(epoch, timestamp, total, shares); err != nil {
			return err
		}
		ev := evs.emit(EventEpochCommitted, caller, caller, commit.Distributed, "withheld", commit.Withheld, "validators", uint64(len(shares)))
		ev.Epoch = epoch
		return nil
	})
	if err != nil {
		return nil, err
	}
	metricEpoch().Set(int64(epoch))
	logger.Info("epoch committed", "epoch", epoch, "distributed", commit.Distributed, "withheld", commit.Withheld)
	return commit, nil
}

// UpdatePrice appends the daily price and, unless guarded, adjusts the macro factor and rsi bonus.
func (s *Staker) UpdatePrice(caller hydra.Address, day uint64, price *big.Int, now uint64) error {
	return s.exec("updatePrice", caller, now, func(evs *events) error {
		if err := s.checkRole(caller, acl.System); err != nil {
			return err
		}
		if err := s.apr.UpdatePrice(day, price); err != nil {
			return err
		}
		evs.emit(EventPriceUpdated, caller, caller, price, "day", day)
		return nil
	})
}

// setParam runs fn as a manager gated parameter update.
func (s *Staker) setParam(op string, caller hydra.Address, now uint64, fn func() (uint64, error)) error {
	return s.exec(op, caller, now, func(evs *events) error {
		if err := s.checkRole(caller, acl.Manager); err != nil {
			return err
		}
		stored, err := fn()
		if err != nil {
			return err
		}
		evs.emit(EventParameterUpdated, caller, caller, nil, "name", op, "value", stored)
		return nil
	})
}

func stored(v uint64, err error) (uint64, error) { return v, err }

func (s *Staker) SetBase(caller hydra.Address, base, now uint64) error {
	return s.setParam("setBase", caller, now, func() (uint64, error) {
		return stored(base, s.apr.SetBase(base))
	})
}

func (s *Staker) SetMacro(caller hydra.Address, macro, now uint64) error {
	return s.setParam("setMacro", caller, now, func() (uint64, error) {
		return stored(macro, s.apr.SetMacro(macro))
	})
}

// SetRSI stores rsi, or zero when it is below the minimum bonus.
func (s *Staker) SetRSI(caller hydra.Address, rsi, now uint64) error {
	return s.setParam("setRSI", caller, now, func() (uint64, error) {
		return s.apr.SetRSI(rsi)
	})
}

func (s *Staker) GuardBonuses(caller hydra.Address, now uint64) error {
	return s.setParam("guardBonuses", caller, now, func() (uint64, error) {
		return stored(1, s.apr.GuardBonuses())
	})
}

func (s *Staker) DisableGuard(caller hydra.Address, now uint64) error {
	return s.setParam("disableGuard", caller, now, func() (uint64, error) {
		return stored(0, s.apr.DisableGuard())
	})
}

func (s *Staker) SetPenaltyDecreasePerWeek(caller hydra.Address, rate, now uint64) error {
	return s.setParam("setPenaltyDecreasePerWeek", caller, now, func() (uint64, error) {
		return stored(rate, s.penalty.SetPenaltyDecreasePerWeek(rate))
	})
}

func (s *Staker) SetVestingLiquidityDecreasePerWeek(caller hydra.Address, rate, now uint64) error {
	return s.setParam("setVestingLiquidityDecreasePerWeek", caller, now, func() (uint64, error) {
		return stored(rate, s.penalty.SetVestingLiquidityDecreasePerWeek(rate))
	})
}

func (s *Staker) SetWithdrawalWaitPeriod(caller hydra.Address, period, now uint64) error {
	return s.setParam("setWithdrawalWaitPeriod", caller, now, func() (uint64, error) {
		if period == 0 {
			return 0, reverts.ErrInvalidWaitPeriod
		}
		return stored(period, s.waitPeriod.Set(period))
	})
}
