// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apr

import "github.com/hydrachain/staker/hydra"

// vestingBonuses holds the bonus in basis points for 1..52 weeks of vesting.
var vestingBonuses = [hydra.MaxWeeks]uint64{
	6, 16, 30, 46, 65, 85, 108, 131, 157, 184,
	212, 241, 272, 304, 338, 372, 407, 444, 481, 520,
	559, 599, 641, 683, 726, 770, 815, 861, 907, 955,
	1003, 1052, 1101, 1152, 1203, 1255, 1307, 1361, 1415, 1470,
	1525, 1581, 1638, 1696, 1754, 1812, 1872, 1932, 1993, 2054,
	2116, 2178,
}

// VestingBonus returns the bonus for a vesting duration in weeks.
// Zero weeks earns nothing, anything past the last tier earns the max bonus.
func VestingBonus(weeks uint64) uint64 {
	if weeks == 0 {
		return 0
	}
	if weeks >= hydra.MaxWeeks {
		return vestingBonuses[hydra.MaxWeeks-1]
	}
	return vestingBonuses[weeks-1]
}

// MaxVestingBonus is the bonus of the longest vesting duration.
func MaxVestingBonus() uint64 {
	return VestingBonus(hydra.MaxWeeks)
}

// rsiBonusOf maps a 0..100 relative strength index to a bonus.
// A weak market pays a higher bonus, a neutral or strong one pays none.
func rsiBonusOf(index uint64) uint64 {
	switch {
	case index >= 40:
		return 0
	case index >= 30:
		return 11500
	case index >= 20:
		return 12500
	case index >= 10:
		return 15000
	default:
		return hydra.MaxRSIBonus
	}
}
