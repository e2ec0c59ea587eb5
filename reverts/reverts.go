// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a protocol level failure. The operation that produced it is rolled back
// and no state change is visible.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// authorization
var (
	ErrUnauthorized = New("unauthorized")
)

// invariant violations
var (
	ErrStakeTooLow             = New("stake is too low")
	ErrInvalidMacro            = New("invalid macro factor")
	ErrInvalidRSI              = New("invalid rsi bonus")
	ErrPenaltyRateOutOfRange   = New("penalty decrease per week out of range")
	ErrLiquidityRateOutOfRange = New("liquidity decrease per week out of range")
	ErrInvalidWaitPeriod       = New("invalid withdrawal wait period")
	ErrAlreadyInitialized      = New("already initialized")
	ErrInvalidDuration         = New("invalid vesting duration")
	ErrInvalidCommission       = New("invalid commission")
	ErrGuardAlreadyEnabled     = New("guard already enabled")
	ErrGuardAlreadyDisabled    = New("guard already disabled")
	ErrInsufficientBalance     = New("insufficient balance")
	ErrInvalidPrice            = New("invalid price")
	ErrInvalidEpochCommit      = New("epoch is not the next one")
)

// checkpoint lookup
var (
	ErrInvalidEpoch       = New("invalid epoch")
	ErrWrongRPS           = New("wrong rps checkpoint")
	ErrEarlyBalanceChange = New("balance change after epoch")
	ErrLateBalanceChange  = New("balance changed before epoch")
	ErrInvalidParamsIndex = New("invalid params index")
)

// position lifecycle
var (
	ErrAlreadyInVestingCycle    = New("already in vesting cycle")
	ErrOldPositionInactive      = New("old position inactive")
	ErrNewPositionUnavailable   = New("new position unavailable")
	ErrBalanceChangeAlreadyMade = New("balance change already made this epoch")
	ErrVestingPositionClaim     = New("reward of vesting position must be claimed with checkpoint")
	ErrValidatorInactive        = New("validator is not active")
	ErrSelfDelegation           = New("cannot delegate to self")
)

// payout
var (
	ErrPayoutFailed = New("payout failed")
)
