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
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/rewards"
	"github.com/hydrachain/staker/vesting"
)

// ClaimReward pays the whole unclaimed reward of caller at target at the base rate.
// Vested balances must be claimed with ClaimPositionReward.
func (s *Staker) ClaimReward(caller, target hydra.Address, now uint64) (*big.Int, error) {
	var paid *big.Int
	err := s.exec("claimReward", caller, now, func(evs *events) error {
		pos, err := s.vesting.Get(caller, target)
		if err != nil {
			return err
		}
		if !pos.IsEmpty() {
			return reverts.ErrVestingPositionClaim
		}
		paid, err = s.claimBase(evs, caller, target)
		return err
	})
	return paid, err
}

// ClaimPositionReward pays the reward of the vested balance of caller at target.
// While maturing, epoch and index select the balance window and the bonus is pro-rated.
// Once matured, all reward is paid at the full bonus. Nothing is paid while active.
func (s *Staker) ClaimPositionReward(caller, target hydra.Address, epoch, index, now uint64) (*big.Int, error) {
	var paid *big.Int
	err := s.exec("claimPositionReward", caller, now, func(evs *events) error {
		q, err := s.positionReward(caller, target, epoch, index, now)
		if err != nil {
			return err
		}
		paid = new(big.Int)
		if q.raw.Sign() > 0 {
			if paid, err = s.claim(evs, caller, target, q.pos.Base, q.vestBonus, q.rsi, q.raw); err != nil {
				return err
			}
		}
		return s.closeDrained(evs, caller, target)
	})
	return paid, err
}

// closeDrained closes the position of a slot left without balance, as after a swap,
// once none of its reward is left to claim.
func (s *Staker) closeDrained(evs *events, principal, target hydra.Address) error {
	pos, err := s.vesting.Get(principal, target)
	if err != nil || pos.IsEmpty() {
		return err
	}
	balance, err := s.rewards.Balance(principal, target)
	if err != nil || balance.Sign() > 0 {
		return err
	}
	unclaimed, err := s.rewards.Unclaimed(principal, target)
	if err != nil || unclaimed.Sign() > 0 {
		return err
	}
	s.vesting.Close(principal, target)
	if err := s.history.Reset(principal, target); err != nil {
		return err
	}
	evs.emit(EventPositionClosed, principal, target, nil)
	return nil
}

// CalculatePositionClaimableReward previews ClaimPositionReward.
func (s *Staker) CalculatePositionClaimableReward(principal, target hydra.Address, epoch, index, now uint64) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, err := s.positionReward(principal, target, epoch, index, now)
	if err != nil {
		return nil, err
	}
	return apr.ApplyRate(q.raw, q.pos.Base, q.vestBonus, q.rsi), nil
}

// CalculatePositionTotalReward returns the reward of the same window at the full bonus of the position.
func (s *Staker) CalculatePositionTotalReward(principal, target hydra.Address, epoch, index, now uint64) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, err := s.positionReward(principal, target, epoch, index, now)
	if err != nil {
		return nil, err
	}
	raw := q.raw
	if q.state == vesting.StateActive {
		if raw, err = s.rewards.Unclaimed(principal, target); err != nil {
			return nil, err
		}
	}
	return apr.ApplyRate(raw, q.pos.Base, q.pos.VestBonus, q.pos.RSI), nil
}

type positionQuote struct {
	pos       *vesting.Position
	state     vesting.State
	raw       *big.Int
	vestBonus uint64
	rsi       uint64
}

func (s *Staker) positionReward(principal, target hydra.Address, epoch, index, now uint64) (*positionQuote, error) {
	pos, err := s.vesting.Get(principal, target)
	if err != nil {
		return nil, err
	}
	q := &positionQuote{pos: pos, state: pos.StateAt(now), raw: new(big.Int)}
	switch q.state {
	case vesting.StateMaturing:
		cp, err := s.history.FindCheckpoint(principal, target, rewards.PoolOf(principal, target), epoch, index)
		if err != nil {
			return nil, err
		}
		member, err := s.rewards.Member(principal, target)
		if err != nil {
			return nil, err
		}
		if raw := new(big.Int).Sub(cp.Earned(), member.Taken); raw.Sign() > 0 {
			q.raw = raw
		}
		q.vestBonus, q.rsi = pos.Rates(now)
	case vesting.StateMatured:
		if q.raw, err = s.rewards.Unclaimed(principal, target); err != nil {
			return nil, err
		}
		q.vestBonus, q.rsi = pos.VestBonus, pos.RSI
	}
	return q, nil
}

// claimBase claims all unclaimed reward at the base rate the member accrued it under.
func (s *Staker) claimBase(evs *events, principal, target hydra.Address) (*big.Int, error) {
	base, err := s.rewards.PayoutBase(principal, target)
	if err != nil {
		return nil, err
	}
	return s.claim(evs, principal, target, base, 0, 0, nil)
}

// claim takes raw, or all unclaimed reward when raw is nil, pays it at the given rates
// and burns the rest.
func (s *Staker) claim(evs *events, principal, target hydra.Address, base, vestBonus, rsi uint64, raw *big.Int) (*big.Int, error) {
	if raw == nil {
		var err error
		if raw, err = s.rewards.Unclaimed(principal, target); err != nil {
			return nil, err
		}
	}
	if raw.Sign() == 0 {
		return new(big.Int), nil
	}
	payable := apr.ApplyRate(raw, base, vestBonus, rsi)
	if err := s.rewards.Take(principal, target, raw); err != nil {
		return nil, err
	}
	if payable.Sign() > 0 {
		if err := s.deps.Wallet.DistributeReward(principal, payable); err != nil {
			return nil, errors.Wrapf(reverts.ErrPayoutFailed, "distribute %v to %v: %v", payable, principal, err)
		}
		evs.emit(EventRewardClaimed, principal, target, payable, "raw", raw, "vestBonus", vestBonus, "rsi", rsi)
	}
	if burn := new(big.Int).Sub(raw, payable); burn.Sign() > 0 {
		if err := s.burnReward(evs, principal, target, burn); err != nil {
			return nil, err
		}
	}
	return payable, nil
}

// burnReward sends amount plus any pending burn from the reward wallet to the burn address.
// A failed transfer is kept as pending burn.
func (s *Staker) burnReward(evs *events, principal, target hydra.Address, amount *big.Int) error {
	pending, err := s.rewards.PendingBurn()
	if err != nil {
		return err
	}
	total := new(big.Int).Add(pending, amount)
	if err := s.deps.Wallet.DistributeReward(hydra.BurnAddress, total); err != nil {
		logger.Warn("reward burn deferred", "amount", total, "err", err)
		s.rewards.SetPendingBurn(total)
		return nil
	}
	s.rewards.SetPendingBurn(new(big.Int))
	metricBurns().AddWithLabel(1, map[string]string{"kind": "reward"})
	evs.emit(EventRewardBurned, principal, target, total)
	return nil
}
