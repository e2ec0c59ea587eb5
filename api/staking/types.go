// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/hydrachain/staker/hydra"
)

type APR struct {
	Base                     uint64                `json:"base"`
	Macro                    uint64                `json:"macro"`
	RSI                      uint64                `json:"rsi"`
	Guard                    bool                  `json:"guard"`
	MaxAPRNominator          *math.HexOrDecimal256 `json:"maxAprNominator"`
	MaxAPRDenominator        *math.HexOrDecimal256 `json:"maxAprDenominator"`
	MaxVestingBonus          uint64                `json:"maxVestingBonus"`
	PenaltyDecreasePerWeek   uint64                `json:"penaltyDecreasePerWeek"`
	LiquidityDecreasePerWeek uint64                `json:"liquidityDecreasePerWeek"`
	WithdrawalWaitPeriod     uint64                `json:"withdrawalWaitPeriod"`
	PendingBurn              *math.HexOrDecimal256 `json:"pendingBurn"`
}

type VestingBonus struct {
	Weeks uint64 `json:"weeks"`
	Bonus uint64 `json:"bonus"`
}

type Validator struct {
	Address    hydra.Address `json:"address"`
	Commission uint64        `json:"commission"`
}

type Epoch struct {
	LastEpoch  uint64       `json:"lastEpoch"`
	Validators []*Validator `json:"validators"`
}

type Position struct {
	State          string                `json:"state"`
	Start          uint64                `json:"start"`
	End            uint64                `json:"end"`
	Weeks          uint64                `json:"weeks"`
	Base           uint64                `json:"base"`
	VestBonus      uint64                `json:"vestBonus"`
	RSI            uint64                `json:"rsi"`
	RemainingWeeks uint64                `json:"remainingWeeks"`
	Balance        *math.HexOrDecimal256 `json:"balance"`
	PendingReward  *math.HexOrDecimal256 `json:"pendingReward"`
}

type Reward struct {
	Pending   *math.HexOrDecimal256 `json:"pending"`
	Claimable *math.HexOrDecimal256 `json:"claimable"`
	Total     *math.HexOrDecimal256 `json:"total"`
}

type Penalty struct {
	Penalty      *math.HexOrDecimal256 `json:"penalty"`
	RewardToBurn *math.HexOrDecimal256 `json:"rewardToBurn"`
}

type Checkpoint struct {
	Index     uint64                `json:"index"`
	Epoch     uint64                `json:"epoch"`
	Balance   *math.HexOrDecimal256 `json:"balance"`
	RPS       *math.HexOrDecimal256 `json:"rps"`
	Timestamp uint64                `json:"timestamp"`
}

type Withdrawal struct {
	Target   hydra.Address         `json:"target"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	UnlockAt uint64                `json:"unlockAt"`
}

type Withdrawals struct {
	TotalBalance *math.HexOrDecimal256 `json:"totalBalance"`
	Debt         *math.HexOrDecimal256 `json:"debt"`
	Pending      []*Withdrawal         `json:"pending"`
}
