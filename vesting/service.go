// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

var (
	slotPositions = hydra.BytesToBytes32([]byte(("vesting-positions")))
	slotDebts     = hydra.BytesToBytes32([]byte(("vesting-debts")))
)

// Snapshot holds the global values captured into a new position.
type Snapshot struct {
	Base      uint64
	VestBonus uint64
	RSI       uint64
}

// Service is the ledger of vesting positions and liquid token debts.
type Service struct {
	positions *slots.Mapping[slots.PairKey, *Position]
	debts     *slots.Mapping[hydra.Address, *slots.Int]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		positions: slots.NewMapping[slots.PairKey, *Position](sctx, slotPositions),
		debts:     slots.NewMapping[hydra.Address, *slots.Int](sctx, slotDebts),
	}
}

// Get returns the position of principal at target, an empty position if none.
func (s *Service) Get(principal, target hydra.Address) (*Position, error) {
	p, err := s.positions.Get(slots.PairKey{Principal: principal, Target: target})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	return p, nil
}

// CheckOpen validates that a cycle of weeks can start or be topped up at now.
// It reports whether the call tops up the running cycle.
func (s *Service) CheckOpen(principal, target hydra.Address, weeks, now uint64) (topUp bool, err error) {
	if weeks == 0 || weeks > hydra.MaxWeeks {
		return false, reverts.ErrInvalidDuration
	}
	pos, err := s.Get(principal, target)
	if err != nil {
		return false, err
	}
	switch pos.StateAt(now) {
	case StateActive:
		if pos.Weeks() != weeks {
			return false, reverts.ErrAlreadyInVestingCycle
		}
		return true, nil
	case StateMaturing:
		return false, reverts.ErrAlreadyInVestingCycle
	default:
		return false, nil
	}
}

// Open starts a new cycle of weeks at now with the given snapshot.
func (s *Service) Open(principal, target hydra.Address, weeks, now uint64, snap Snapshot) (*Position, error) {
	topUp, err := s.CheckOpen(principal, target, weeks, now)
	if err != nil {
		return nil, err
	}
	if topUp {
		return s.Get(principal, target)
	}
	duration := weeks * hydra.Week
	pos := &Position{
		Start:     now,
		End:       now + duration,
		Duration:  duration,
		Base:      snap.Base,
		VestBonus: snap.VestBonus,
		RSI:       snap.RSI,
	}
	if err := s.positions.Set(slots.PairKey{Principal: principal, Target: target}, pos); err != nil {
		return nil, errors.Wrap(err, "failed to set position")
	}
	return pos, nil
}

// Close resets the slot once the full balance is gone.
func (s *Service) Close(principal, target hydra.Address) {
	s.positions.Delete(slots.PairKey{Principal: principal, Target: target})
}

// Swap copies the running cycle of oldTarget onto newTarget, keeping its timeline.
// newSlotBusy reports whether the new slot still holds balance or unclaimed reward.
func (s *Service) Swap(principal, oldTarget, newTarget hydra.Address, now uint64, newSlotBusy bool) (*Position, error) {
	old, err := s.Get(principal, oldTarget)
	if err != nil {
		return nil, err
	}
	if st := old.StateAt(now); st != StateActive && st != StateMaturing {
		return nil, reverts.ErrOldPositionInactive
	}
	next, err := s.Get(principal, newTarget)
	if err != nil {
		return nil, err
	}
	if newSlotBusy || !next.IsEmpty() || oldTarget == newTarget {
		return nil, reverts.ErrNewPositionUnavailable
	}
	pos := old.clone()
	if err := s.positions.Set(slots.PairKey{Principal: principal, Target: newTarget}, pos); err != nil {
		return nil, errors.Wrap(err, "failed to set position")
	}
	return pos, nil
}

// Debt returns the liquid token debt of principal.
func (s *Service) Debt(principal hydra.Address) (*big.Int, error) {
	d, err := s.debts.Get(principal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get debt")
	}
	return d.Big(), nil
}

func (s *Service) setDebt(principal hydra.Address, debt *big.Int) error {
	if debt.Sign() == 0 {
		s.debts.Delete(principal)
		return nil
	}
	v := slots.NewInt(debt)
	return s.debts.Set(principal, &v)
}

// AddDebt books the liquid tokens withheld at open and returns the amount to mint.
func (s *Service) AddDebt(principal hydra.Address, amount *big.Int, weeks, liquidityRate uint64) (*big.Int, error) {
	owed := OwedLiquidTokens(amount, weeks, liquidityRate)
	debt, err := s.Debt(principal)
	if err != nil {
		return nil, err
	}
	debt.Add(debt, new(big.Int).Sub(amount, owed))
	if err := s.setDebt(principal, debt); err != nil {
		return nil, err
	}
	return owed, nil
}

// CalculateOwedLiquidTokens returns the liquid tokens that back amount out of totalBalance,
// net of the proportional share of debt.
func (s *Service) CalculateOwedLiquidTokens(principal hydra.Address, amount, totalBalance *big.Int) (*big.Int, error) {
	debt, err := s.Debt(principal)
	if err != nil {
		return nil, err
	}
	share := debtShare(debt, amount, totalBalance)
	return new(big.Int).Sub(amount, share), nil
}

// ReleaseDebt settles the debt share of amount and returns the liquid tokens owed back.
func (s *Service) ReleaseDebt(principal hydra.Address, amount, totalBalance *big.Int) (*big.Int, error) {
	debt, err := s.Debt(principal)
	if err != nil {
		return nil, err
	}
	share := debtShare(debt, amount, totalBalance)
	if err := s.setDebt(principal, debt.Sub(debt, share)); err != nil {
		return nil, err
	}
	return new(big.Int).Sub(amount, share), nil
}

func debtShare(debt, amount, totalBalance *big.Int) *big.Int {
	if totalBalance.Sign() == 0 || debt.Sign() == 0 {
		return new(big.Int)
	}
	if amount.Cmp(totalBalance) >= 0 {
		return new(big.Int).Set(debt)
	}
	share := new(big.Int).Mul(debt, amount)
	return share.Quo(share, totalBalance)
}

// OwedLiquidTokens is amount minus the vesting discount of weeks at liquidityRate per week.
func OwedLiquidTokens(amount *big.Int, weeks, liquidityRate uint64) *big.Int {
	discount := new(big.Int).Mul(amount, new(big.Int).SetUint64(weeks*liquidityRate))
	discount.Quo(discount, hydra.BigDenominator)
	if discount.Cmp(amount) > 0 {
		return new(big.Int)
	}
	return discount.Sub(amount, discount)
}
