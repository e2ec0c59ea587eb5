// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
)

// Config holds the static limits and the initial values of the tunable parameters.
type Config struct {
	MinStake                 *big.Int
	MinDelegation            *big.Int
	WithdrawalWaitPeriod     uint64 // seconds
	BaseAPR                  uint64
	MacroFactor              uint64
	RSIBonus                 uint64
	PenaltyDecreasePerWeek   uint64
	LiquidityDecreasePerWeek uint64
}

var oneHydra = big.NewInt(1e18)

func DefaultConfig() Config {
	return Config{
		MinStake:                 new(big.Int).Mul(big.NewInt(10_000), oneHydra),
		MinDelegation:            new(big.Int).Set(oneHydra),
		WithdrawalWaitPeriod:     hydra.Week,
		BaseAPR:                  hydra.InitialBaseAPR,
		MacroFactor:              hydra.InitialMacroFactor,
		PenaltyDecreasePerWeek:   hydra.InitialPenaltyDecreasePerWeek,
		LiquidityDecreasePerWeek: hydra.InitialLiquidityDecreasePerWeek,
	}
}

func inDecreaseRange(rate uint64) bool {
	return rate >= hydra.MinDecreasePerWeek && rate <= hydra.MaxDecreasePerWeek
}

// Validate checks every field against the bounds enforced by the setters.
func (c *Config) Validate() error {
	switch {
	case c.MinStake == nil || c.MinStake.Sign() <= 0:
		return reverts.ErrStakeTooLow
	case c.MinDelegation == nil || c.MinDelegation.Sign() <= 0:
		return reverts.ErrStakeTooLow
	case c.WithdrawalWaitPeriod == 0:
		return reverts.ErrInvalidWaitPeriod
	case c.MacroFactor < hydra.MinMacroFactor || c.MacroFactor > hydra.MaxMacroFactor:
		return reverts.ErrInvalidMacro
	case c.RSIBonus > hydra.MaxRSIBonus:
		return reverts.ErrInvalidRSI
	case !inDecreaseRange(c.PenaltyDecreasePerWeek):
		return reverts.ErrPenaltyRateOutOfRange
	case !inDecreaseRange(c.LiquidityDecreasePerWeek):
		return reverts.ErrLiquidityRateOutOfRange
	}
	return nil
}
