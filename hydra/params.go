// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hydra

import (
	"math/big"
)

// Constants of the reward accounting protocol.
const (
	Denominator = 10000 // basis points

	Week        = uint64(7 * 24 * 60 * 60) // seconds in a week
	Day         = uint64(24 * 60 * 60)
	EpochsYear  = 31500
	MaxWeeks    = 52
	MaxRSIBonus = 17000
	MinRSIBonus = 10000

	InitialBaseAPR     = 500
	InitialMacroFactor = 7500
	MinMacroFactor     = 1250
	MaxMacroFactor     = 17500
	MacroStep          = 250

	InitialPenaltyDecreasePerWeek   = 50
	InitialLiquidityDecreasePerWeek = 133
	MinDecreasePerWeek              = 10
	MaxDecreasePerWeek              = 150

	MaxCommission = 100 // percent
)

// RewardPrecision is the fixed-point magnitude of reward-per-share values.
var RewardPrecision = big.NewInt(1e18)

// BigDenominator is Denominator as *big.Int.
var BigDenominator = big.NewInt(Denominator)
