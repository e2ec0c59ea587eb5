// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"math/big"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
	"github.com/hydrachain/staker/vesting"
)

// Result is the cost of removing an amount from a position.
type Result struct {
	Penalty      *big.Int // stake slashed to the burn sink
	RewardToBurn *big.Int // raw reward forfeited by the removed amount
}

// Service keeps the decay rates of early exit.
type Service struct {
	penaltyRate   *slots.Param
	liquidityRate *slots.Param
}

func New(sctx *slots.Context) *Service {
	return &Service{
		penaltyRate:   slots.NewParam(sctx, "penalty-decrease-per-week", hydra.InitialPenaltyDecreasePerWeek),
		liquidityRate: slots.NewParam(sctx, "vesting-liquidity-decrease-per-week", hydra.InitialLiquidityDecreasePerWeek),
	}
}

func (s *Service) PenaltyDecreasePerWeek() (uint64, error) {
	return s.penaltyRate.Get()
}

func (s *Service) VestingLiquidityDecreasePerWeek() (uint64, error) {
	return s.liquidityRate.Get()
}

func (s *Service) SetPenaltyDecreasePerWeek(rate uint64) error {
	if !inRange(rate) {
		return reverts.ErrPenaltyRateOutOfRange
	}
	return s.penaltyRate.Set(rate)
}

func (s *Service) SetVestingLiquidityDecreasePerWeek(rate uint64) error {
	if !inRange(rate) {
		return reverts.ErrLiquidityRateOutOfRange
	}
	return s.liquidityRate.Set(rate)
}

// Calculate returns the penalty and reward burn for removing amount out of balance at now.
// unclaimed is the raw reward not yet taken by the slot.
func (s *Service) Calculate(pos *vesting.Position, now uint64, amount, balance, unclaimed *big.Int) (*Result, error) {
	rate, err := s.penaltyRate.Get()
	if err != nil {
		return nil, err
	}
	return Calculate(pos, now, rate, amount, balance, unclaimed), nil
}

// Calculate is the pure form of Service.Calculate.
// Outside the active window nothing is charged.
func Calculate(pos *vesting.Position, now, rate uint64, amount, balance, unclaimed *big.Int) *Result {
	res := &Result{Penalty: new(big.Int), RewardToBurn: new(big.Int)}
	if pos.StateAt(now) != vesting.StateActive {
		return res
	}
	res.Penalty = Penalty(amount, rate, pos.RemainingWeeks(now))
	res.RewardToBurn = RewardShare(unclaimed, amount, balance)
	return res
}

// Penalty is amount * rate * remainingWeeks / DENOMINATOR, never more than amount.
func Penalty(amount *big.Int, rate, remainingWeeks uint64) *big.Int {
	p := new(big.Int).Mul(amount, new(big.Int).SetUint64(rate*remainingWeeks))
	p.Quo(p, hydra.BigDenominator)
	if p.Cmp(amount) > 0 {
		return new(big.Int).Set(amount)
	}
	return p
}

// RewardShare is the part of unclaimed earned by amount out of balance.
func RewardShare(unclaimed, amount, balance *big.Int) *big.Int {
	if balance.Sign() == 0 || unclaimed.Sign() <= 0 {
		return new(big.Int)
	}
	if amount.Cmp(balance) >= 0 {
		return new(big.Int).Set(unclaimed)
	}
	share := new(big.Int).Mul(unclaimed, amount)
	return share.Quo(share, balance)
}

func inRange(rate uint64) bool {
	return rate >= hydra.MinDecreasePerWeek && rate <= hydra.MaxDecreasePerWeek
}
