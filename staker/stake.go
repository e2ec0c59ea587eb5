// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/apr"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/penalty"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/vesting"
)

// Stake adds amount to the stake of the calling validator without vesting.
func (s *Staker) Stake(caller hydra.Address, amount *big.Int, now uint64) error {
	return s.exec("stake", caller, now, func(evs *events) error {
		if err := s.checkStake(caller, amount); err != nil {
			return err
		}
		if err := s.deposit(caller, caller, amount, now); err != nil {
			return err
		}
		evs.emit(EventStaked, caller, caller, amount)
		return nil
	})
}

// StakeWithVesting opens or tops up a vesting cycle of weeks on the stake of the calling validator.
func (s *Staker) StakeWithVesting(caller hydra.Address, amount *big.Int, weeks, now uint64) error {
	return s.exec("stakeWithVesting", caller, now, func(evs *events) error {
		if err := s.checkStake(caller, amount); err != nil {
			return err
		}
		if err := s.openPosition(evs, caller, caller, amount, weeks, now); err != nil {
			return err
		}
		evs.emit(EventStaked, caller, caller, amount, "weeks", weeks)
		return nil
	})
}

// Delegate adds amount to the delegation of caller at validator without vesting.
func (s *Staker) Delegate(caller, validator hydra.Address, amount *big.Int, now uint64) error {
	return s.exec("delegate", caller, now, func(evs *events) error {
		if err := s.checkDelegation(caller, validator, amount); err != nil {
			return err
		}
		if err := s.deposit(caller, validator, amount, now); err != nil {
			return err
		}
		evs.emit(EventDelegated, caller, validator, amount)
		return nil
	})
}

// DelegateWithVesting opens or tops up a vesting cycle of weeks on the delegation of caller at validator.
func (s *Staker) DelegateWithVesting(caller, validator hydra.Address, amount *big.Int, weeks, now uint64) error {
	return s.exec("delegateWithVesting", caller, now, func(evs *events) error {
		if err := s.checkDelegation(caller, validator, amount); err != nil {
			return err
		}
		if err := s.openPosition(evs, caller, validator, amount, weeks, now); err != nil {
			return err
		}
		evs.emit(EventDelegated, caller, validator, amount, "weeks", weeks)
		return nil
	})
}

// Unstake removes amount from the stake of the calling validator and queues it for withdrawal.
func (s *Staker) Unstake(caller hydra.Address, amount *big.Int, now uint64) error {
	return s.exec("unstake", caller, now, func(evs *events) error {
		if err := s.remove(evs, caller, caller, amount, now); err != nil {
			return err
		}
		evs.emit(EventUnstaked, caller, caller, amount)
		return nil
	})
}

// Undelegate removes amount from the delegation of caller at validator and queues it for withdrawal.
func (s *Staker) Undelegate(caller, validator hydra.Address, amount *big.Int, now uint64) error {
	return s.exec("undelegate", caller, now, func(evs *events) error {
		if caller == validator {
			return reverts.ErrSelfDelegation
		}
		if err := s.remove(evs, caller, validator, amount, now); err != nil {
			return err
		}
		evs.emit(EventUndelegated, caller, validator, amount)
		return nil
	})
}

// SwapVestedPositionValidator moves the vested delegation of caller from oldValidator to newValidator,
// keeping the cycle timeline.
func (s *Staker) SwapVestedPositionValidator(caller, oldValidator, newValidator hydra.Address, now uint64) error {
	return s.exec("swap", caller, now, func(evs *events) error {
		if caller == oldValidator || caller == newValidator {
			return reverts.ErrSelfDelegation
		}
		if err := s.checkValidator(newValidator); err != nil {
			return err
		}
		newBalance, err := s.rewards.Balance(caller, newValidator)
		if err != nil {
			return err
		}
		newUnclaimed, err := s.rewards.Unclaimed(caller, newValidator)
		if err != nil {
			return err
		}
		busy := newBalance.Sign() > 0 || newUnclaimed.Sign() > 0

		pos, err := s.vesting.Swap(caller, oldValidator, newValidator, now, busy)
		if err != nil {
			return err
		}
		amount, err := s.rewards.Balance(caller, oldValidator)
		if err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return reverts.ErrOldPositionInactive
		}
		if err := s.rewards.Withdraw(caller, oldValidator, amount, now, true); err != nil {
			return err
		}
		if err := s.closeDrained(evs, caller, oldValidator); err != nil {
			return err
		}
		if err := s.history.Reset(caller, newValidator); err != nil {
			return err
		}
		if err := s.rewards.Deposit(caller, newValidator, amount, now, true); err != nil {
			return err
		}
		evs.emit(EventPositionSwapped, caller, newValidator, amount,
			"from", oldValidator, "start", pos.Start, "end", pos.End)
		return nil
	})
}

// SetCommission sets the percent of delegation reward paid to the calling validator.
func (s *Staker) SetCommission(caller hydra.Address, percent uint64, now uint64) error {
	return s.exec("setCommission", caller, now, func(evs *events) error {
		registered, err := s.deps.Registry.IsRegistered(caller)
		if err != nil {
			return errors.Wrap(err, "failed to get validator status")
		}
		if !registered {
			return reverts.ErrUnauthorized
		}
		if err := s.rewards.SetCommission(caller, percent); err != nil {
			return err
		}
		evs.emit(EventCommissionUpdated, caller, caller, nil, "percent", percent)
		return nil
	})
}

func (s *Staker) checkStake(validator hydra.Address, amount *big.Int) error {
	if err := s.checkValidator(validator); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrStakeTooLow
	}
	balance, err := s.rewards.Balance(validator, validator)
	if err != nil {
		return err
	}
	if new(big.Int).Add(balance, amount).Cmp(s.cfg.MinStake) < 0 {
		return reverts.ErrStakeTooLow
	}
	return nil
}

func (s *Staker) checkDelegation(delegator, validator hydra.Address, amount *big.Int) error {
	if delegator == validator {
		return reverts.ErrSelfDelegation
	}
	if err := s.checkValidator(validator); err != nil {
		return err
	}
	if amount == nil || amount.Cmp(s.cfg.MinDelegation) < 0 {
		return reverts.ErrStakeTooLow
	}
	return nil
}

// deposit adds a non vested balance and mints the full amount of liquid tokens.
func (s *Staker) deposit(principal, target hydra.Address, amount *big.Int, now uint64) error {
	pos, err := s.vesting.Get(principal, target)
	if err != nil {
		return err
	}
	if !pos.IsEmpty() {
		return reverts.ErrAlreadyInVestingCycle
	}
	if err := s.deps.Vault.Deposit(principal, amount); err != nil {
		return err
	}
	if err := s.rewards.Deposit(principal, target, amount, now, false); err != nil {
		return err
	}
	return s.deps.Liquid.Mint(principal, amount)
}

// openPosition starts a new cycle or tops up the running one.
// A new cycle first settles the reward earned so far: matured reward at full bonus,
// any other raw reward at the base rate.
func (s *Staker) openPosition(evs *events, principal, target hydra.Address, amount *big.Int, weeks, now uint64) error {
	topUp, err := s.vesting.CheckOpen(principal, target, weeks, now)
	if err != nil {
		return err
	}
	if topUp {
		// a slot swapped away keeps its cycle only for the reward left behind
		balance, err := s.rewards.Balance(principal, target)
		if err != nil {
			return err
		}
		if balance.Sign() == 0 {
			return reverts.ErrAlreadyInVestingCycle
		}
	} else {
		pos, err := s.vesting.Get(principal, target)
		if err != nil {
			return err
		}
		if pos.StateAt(now) == vesting.StateMatured {
			if _, err := s.claim(evs, principal, target, pos.Base, pos.VestBonus, pos.RSI, nil); err != nil {
				return err
			}
			s.vesting.Close(principal, target)
			evs.emit(EventPositionClosed, principal, target, nil)
		}
		if _, err := s.claimBase(evs, principal, target); err != nil {
			return err
		}
		if err := s.history.Reset(principal, target); err != nil {
			return err
		}
	}

	params, err := s.apr.Params()
	if err != nil {
		return err
	}
	pos, err := s.vesting.Open(principal, target, weeks, now, vesting.Snapshot{
		Base:      params.Base,
		VestBonus: apr.VestingBonus(weeks),
		RSI:       params.RSI,
	})
	if err != nil {
		return err
	}
	if err := s.deps.Vault.Deposit(principal, amount); err != nil {
		return err
	}
	if err := s.rewards.Deposit(principal, target, amount, now, true); err != nil {
		return err
	}

	rate, err := s.penalty.VestingLiquidityDecreasePerWeek()
	if err != nil {
		return err
	}
	owed, err := s.vesting.AddDebt(principal, amount, weeks, rate)
	if err != nil {
		return err
	}
	if err := s.deps.Liquid.Mint(principal, owed); err != nil {
		return err
	}
	if !topUp {
		evs.emit(EventPositionOpened, principal, target, amount,
			"weeks", weeks, "base", pos.Base, "vestBonus", pos.VestBonus, "rsi", pos.RSI)
	}
	return nil
}

// remove takes amount out of the balance of principal at target, charging the early exit
// penalty inside the active window, and queues the rest for withdrawal.
func (s *Staker) remove(evs *events, principal, target hydra.Address, amount *big.Int, now uint64) error {
	balance, err := s.rewards.Balance(principal, target)
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 || amount.Cmp(balance) > 0 {
		return reverts.ErrInsufficientBalance
	}
	remaining := new(big.Int).Sub(balance, amount)
	if principal == target && remaining.Sign() > 0 && remaining.Cmp(s.cfg.MinStake) < 0 {
		return reverts.ErrStakeTooLow
	}
	full := remaining.Sign() == 0

	pos, err := s.vesting.Get(principal, target)
	if err != nil {
		return err
	}
	cost := &penalty.Result{Penalty: new(big.Int), RewardToBurn: new(big.Int)}
	switch pos.StateAt(now) {
	case vesting.StateActive:
		unclaimed, err := s.rewards.Unclaimed(principal, target)
		if err != nil {
			return err
		}
		if cost, err = s.penalty.Calculate(pos, now, amount, balance, unclaimed); err != nil {
			return err
		}
		if cost.RewardToBurn.Sign() > 0 {
			if err := s.rewards.Take(principal, target, cost.RewardToBurn); err != nil {
				return err
			}
			if err := s.burnReward(evs, principal, target, cost.RewardToBurn); err != nil {
				return err
			}
		}
	case vesting.StateMaturing, vesting.StateMatured:
		if full {
			vb, rsi := pos.Rates(now)
			if _, err := s.claim(evs, principal, target, pos.Base, vb, rsi, nil); err != nil {
				return err
			}
		}
	}

	total, err := s.rewards.TotalBalance(principal)
	if err != nil {
		return err
	}
	owed, err := s.vesting.ReleaseDebt(principal, amount, total)
	if err != nil {
		return err
	}
	if err := s.deps.Liquid.Burn(principal, owed); err != nil {
		return err
	}
	if err := s.rewards.Withdraw(principal, target, amount, now, !pos.IsEmpty()); err != nil {
		return err
	}
	if full && !pos.IsEmpty() {
		s.vesting.Close(principal, target)
		evs.emit(EventPositionClosed, principal, target, nil)
	}

	if cost.Penalty.Sign() > 0 {
		if err := s.deps.Vault.Transfer(hydra.BurnAddress, cost.Penalty); err != nil {
			return errors.Wrap(err, "failed to burn penalty")
		}
		metricBurns().AddWithLabel(1, map[string]string{"kind": "penalty"})
		evs.emit(EventPenaltyApplied, principal, target, cost.Penalty, "remainingWeeks", pos.RemainingWeeks(now))
	}
	return s.enqueue(evs, principal, target, new(big.Int).Sub(amount, cost.Penalty), now)
}
