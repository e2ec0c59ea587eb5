// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/apr"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/vesting"
)

func TestMaturingPositionClaim(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0-10).
		DelegateWithVesting(delegator1, validator1, coins(1000), 1, t0).
		Commit(1, t0+hydra.Week-1, coins(100), validator1).
		Run(t)

	now := t0 + hydra.Week + hydra.Week/2
	st, err := s.PositionState(delegator1, validator1, now)
	require.NoError(t, err)
	assert.Equal(t, vesting.StateMaturing, st)

	claimable, err := s.CalculatePositionClaimableReward(delegator1, validator1, 1, 0, now)
	require.NoError(t, err)
	total, err := s.CalculatePositionTotalReward(delegator1, validator1, 1, 0, now)
	require.NoError(t, err)
	assert.Equal(t, 1, claimable.Sign())
	assert.Equal(t, -1, claimable.Cmp(total))

	_, err = s.ClaimPositionReward(delegator1, validator1, 1, 1, now)
	assert.ErrorIs(t, err, reverts.ErrInvalidParamsIndex)
	_, err = s.ClaimPositionReward(delegator1, validator1, 2, 0, now)
	assert.ErrorIs(t, err, reverts.ErrInvalidEpoch)

	before := env.coinOf(t, delegator1)
	paid, err := s.ClaimPositionReward(delegator1, validator1, 1, 0, now)
	require.NoError(t, err)
	assert.Equal(t, claimable, paid)
	assert.Equal(t, new(big.Int).Add(before, paid), env.coinOf(t, delegator1))

	claims := env.sink.named(EventRewardClaimed)
	require.Len(t, claims, 1)
	assert.Equal(t, paid, claims[0].Amount)
	assert.Equal(t, -1, claims[0].Amount.Cmp(total))
	require.Len(t, env.sink.named(EventRewardBurned), 1)

	again, err := s.ClaimPositionReward(delegator1, validator1, 1, 0, now)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Sign())
}

func TestActivePositionPaysNothing(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(1000), 4, t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	paid, err := s.ClaimPositionReward(delegator1, validator1, 1, 0, t0+200)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())

	_, err = s.ClaimReward(delegator1, validator1, t0+200)
	assert.ErrorIs(t, err, reverts.ErrVestingPositionClaim)

	pending, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Sign())

	// nothing for a slot without position
	paid, err = s.ClaimPositionReward(delegator2, validator1, 1, 0, t0+200)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())
}

func TestUnstakePenaltyOneWeekIntoTenWeeks(t *testing.T) {
	env := newTestEnv(t)
	s := env.staker
	amount := coins(1000)

	NewSequence(s).
		StakeWithVesting(validator1, amount, 10, t0).
		Commit(1, t0+100, big.NewInt(0)).
		Run(t)

	rate, liquidityRate, err := s.PenaltyRates()
	require.NoError(t, err)
	owed := new(big.Int).Sub(amount, new(big.Int).Quo(new(big.Int).Mul(amount, big.NewInt(int64(10*liquidityRate))), big.NewInt(10000)))
	liquid, err := env.liquid.BalanceOf(validator1)
	require.NoError(t, err)
	assert.Equal(t, owed, liquid)
	calc, err := s.CalculateOwedLiquidTokens(validator1, amount)
	require.NoError(t, err)
	assert.Equal(t, owed, calc)

	now := t0 + hydra.Week
	expected := new(big.Int).Quo(new(big.Int).Mul(amount, big.NewInt(int64(rate*9))), big.NewInt(10000))
	preview, err := s.CalculatePenalty(validator1, validator1, amount, now)
	require.NoError(t, err)
	assert.Equal(t, expected, preview.Penalty)

	before := env.coinOf(t, validator1)
	require.NoError(t, s.Unstake(validator1, amount, now))

	pending, err := s.PendingWithdrawals(validator1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, new(big.Int).Sub(amount, expected), pending[0].Amount)
	assert.Equal(t, now+hydra.Day, pending[0].UnlockAt)

	got, err := s.Withdraw(validator1, now+hydra.Day-1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())

	got, err = s.Withdraw(validator1, now+hydra.Day)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(amount, expected), got)
	assert.Equal(t, new(big.Int).Add(before, got), env.coinOf(t, validator1))
	assert.Equal(t, expected, env.coinOf(t, hydra.BurnAddress))

	st, err := s.PositionState(validator1, validator1, now)
	require.NoError(t, err)
	assert.Equal(t, vesting.StateNone, st)
	liquid, _ = env.liquid.BalanceOf(validator1)
	assert.Equal(t, 0, liquid.Sign())
	debt, err := s.Debt(validator1)
	require.NoError(t, err)
	assert.Equal(t, 0, debt.Sign())
	pending, _ = s.PendingWithdrawals(validator1)
	assert.Empty(t, pending)
	require.Len(t, env.sink.named(EventPenaltyApplied), 1)
}

func TestIdenticalDelegationsEarnAlike(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker
	later := t0 + 5000

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Stake(validator2, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(500), 4, t0+1).
		Commit(1, t0+100, coins(50), validator1).
		Commit(2, t0+200, coins(50), validator1).
		DelegateWithVesting(delegator2, validator2, coins(500), 4, later+1).
		Commit(3, later+100, coins(50), validator2).
		Commit(4, later+200, coins(50), validator2).
		Run(t)

	r1, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	r2, err := s.PendingReward(delegator2, validator2)
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Sign())
	assert.Equal(t, r1, r2)

	p1, err := s.ClaimPositionReward(delegator1, validator1, 0, 0, t0+1+8*hydra.Week)
	require.NoError(t, err)
	p2, err := s.ClaimPositionReward(delegator2, validator2, 0, 0, later+1+8*hydra.Week)
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Sign())
	assert.Equal(t, p1, p2)
}

func TestSwapVestedPosition(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Stake(validator2, coins(1000), t0).
		Stake(validator3, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(500), 4, t0).
		Commit(1, t0+100, coins(50), validator1, validator2).
		Run(t)

	before, err := s.Position(delegator1, validator1)
	require.NoError(t, err)
	earned, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	require.Equal(t, 1, earned.Sign())

	require.NoError(t, s.SwapVestedPositionValidator(delegator1, validator1, validator2, t0+200))

	oldBalance, _ := s.Balance(delegator1, validator1)
	newBalance, _ := s.Balance(delegator1, validator2)
	assert.Equal(t, 0, oldBalance.Sign())
	assert.Equal(t, coins(500), newBalance)
	after, err := s.Position(delegator1, validator2)
	require.NoError(t, err)
	assert.Equal(t, *before, *after)
	kept, _ := s.PendingReward(delegator1, validator1)
	assert.Equal(t, earned, kept)

	// one move per epoch
	err = s.SwapVestedPositionValidator(delegator1, validator2, validator3, t0+300)
	assert.ErrorIs(t, err, reverts.ErrBalanceChangeAlreadyMade)
	newBalance, _ = s.Balance(delegator1, validator2)
	assert.Equal(t, coins(500), newBalance)
	third, _ := s.Position(delegator1, validator3)
	assert.True(t, third.IsEmpty())

	NewSequence(s).Commit(2, t0+350, coins(50), validator2).Run(t)

	// the old slot still holds its cycle and reward
	err = s.SwapVestedPositionValidator(delegator1, validator2, validator1, t0+400)
	assert.ErrorIs(t, err, reverts.ErrNewPositionUnavailable)
	require.NoError(t, s.SwapVestedPositionValidator(delegator1, validator2, validator3, t0+500))

	// the swapped-out slot takes no top-up
	err = s.DelegateWithVesting(delegator1, validator1, coins(10), 4, t0+550)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInVestingCycle)

	NewSequence(s).Delegate(delegator2, validator1, coins(10), t0+600).Run(t)
	err = s.SwapVestedPositionValidator(delegator2, validator1, validator2, t0+700)
	assert.ErrorIs(t, err, reverts.ErrOldPositionInactive)

	require.NoError(t, env.registry.Ban(governance, validator2))
	err = s.SwapVestedPositionValidator(delegator1, validator3, validator2, t0+800)
	assert.ErrorIs(t, err, reverts.ErrValidatorInactive)
	assert.ErrorIs(t, s.SwapVestedPositionValidator(delegator1, validator3, delegator1, t0+800), reverts.ErrSelfDelegation)

	require.Len(t, env.sink.named(EventPositionSwapped), 2)

	// and closes once its reward is claimed
	assert.Empty(t, env.sink.named(EventPositionClosed))
	paid, err := s.ClaimPositionReward(delegator1, validator1, 0, 0, t0+8*hydra.Week)
	require.NoError(t, err)
	assert.Equal(t, 1, paid.Sign())
	closed := env.sink.named(EventPositionClosed)
	require.Len(t, closed, 1)
	assert.Equal(t, validator1, closed[0].Target)
	old, err := s.Position(delegator1, validator1)
	require.NoError(t, err)
	assert.True(t, old.IsEmpty())
	pending, _ := s.PendingReward(delegator1, validator1)
	assert.Equal(t, 0, pending.Sign())
}

func TestSwapWithoutRewardClosesOldSlot(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Stake(validator2, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(500), 4, t0).
		Commit(1, t0+50, coins(100), validator2).
		Run(t)

	require.NoError(t, s.SwapVestedPositionValidator(delegator1, validator1, validator2, t0+100))

	require.Len(t, env.sink.named(EventPositionClosed), 1)
	old, err := s.Position(delegator1, validator1)
	require.NoError(t, err)
	assert.True(t, old.IsEmpty())
	moved, err := s.Position(delegator1, validator2)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), moved.Weeks())
}

func TestClaimRewardTwice(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Delegate(delegator1, validator1, coins(100), t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	raw, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)

	paid, err := s.ClaimReward(delegator1, validator1, t0+200)
	require.NoError(t, err)
	assert.Equal(t, 1, paid.Sign())
	assert.Equal(t, -1, paid.Cmp(raw))
	assert.Equal(t, new(big.Int).Sub(raw, paid), env.coinOf(t, hydra.BurnAddress))

	again, err := s.ClaimReward(delegator1, validator1, t0+201)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Sign())
}

func TestPayoutFailureIsRetryable(t *testing.T) {
	env := newTestEnv(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Delegate(delegator1, validator1, coins(100), t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	raw, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)

	_, err = s.ClaimReward(delegator1, validator1, t0+200)
	assert.ErrorIs(t, err, reverts.ErrPayoutFailed)
	assert.True(t, reverts.IsRevertErr(err))
	pending, _ := s.PendingReward(delegator1, validator1)
	assert.Equal(t, raw, pending)
	assert.Empty(t, env.sink.named(EventRewardClaimed))

	env.fund(t)
	paid, err := s.ClaimReward(delegator1, validator1, t0+300)
	require.NoError(t, err)
	assert.Equal(t, 1, paid.Sign())
	pending, _ = s.PendingReward(delegator1, validator1)
	assert.Equal(t, 0, pending.Sign())
}

func TestDeferredBurn(t *testing.T) {
	env := newTestEnv(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Delegate(delegator1, validator1, coins(100), t0).
		Delegate(delegator2, validator1, coins(100), t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	raw, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	params, err := s.APR()
	require.NoError(t, err)
	payable := apr.ApplyRate(raw, params.Base, 0, 0)

	// enough for the payout only
	require.NoError(t, env.wallet.Fund(payable))
	paid, err := s.ClaimReward(delegator1, validator1, t0+200)
	require.NoError(t, err)
	assert.Equal(t, payable, paid)
	burn, err := s.PendingBurn()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(raw, payable), burn)

	env.fund(t)
	raw2, _ := s.PendingReward(delegator2, validator1)
	paid2, err := s.ClaimReward(delegator2, validator1, t0+300)
	require.NoError(t, err)
	left, _ := s.PendingBurn()
	assert.Equal(t, 0, left.Sign())
	burned := new(big.Int).Add(burn, new(big.Int).Sub(raw2, paid2))
	assert.Equal(t, burned, env.coinOf(t, hydra.BurnAddress))
}

func TestFailedOperationReverts(t *testing.T) {
	env := newTestEnv(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Delegate(delegator1, validator1, coins(100), t0).
		Run(t)
	require.NoError(t, env.liquid.Transfer(delegator1, outsider, coins(50)))

	err := s.Undelegate(delegator1, validator1, coins(100), t0+10)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	balance, _ := s.Balance(delegator1, validator1)
	assert.Equal(t, coins(100), balance)
	pending, _ := s.PendingWithdrawals(delegator1)
	assert.Empty(t, pending)
	checkpoints, _ := s.Checkpoints(delegator1, validator1)
	assert.Len(t, checkpoints, 1)
	assert.Empty(t, env.sink.named(EventUndelegated))

	NewSequence(s).Undelegate(delegator1, validator1, coins(50), t0+20).Run(t)
	require.Len(t, env.sink.named(EventUndelegated), 1)
}

func TestOpenSettlesRawReward(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Delegate(delegator1, validator1, coins(100), t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	raw, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	params, err := s.APR()
	require.NoError(t, err)
	payable := apr.ApplyRate(raw, params.Base, 0, 0)

	before := env.coinOf(t, delegator1)
	NewSequence(s).DelegateWithVesting(delegator1, validator1, coins(100), 2, t0+200).Run(t)

	expected := new(big.Int).Sub(new(big.Int).Add(before, payable), coins(100))
	assert.Equal(t, expected, env.coinOf(t, delegator1))
	pending, _ := s.PendingReward(delegator1, validator1)
	assert.Equal(t, 0, pending.Sign())

	balance, _ := s.Balance(delegator1, validator1)
	assert.Equal(t, coins(200), balance)
	checkpoints, err := s.Checkpoints(delegator1, validator1)
	require.NoError(t, err)
	require.Len(t, checkpoints, 1)
	assert.Equal(t, coins(200), checkpoints[0].Balance)
	assert.Equal(t, uint64(2), checkpoints[0].Epoch)

	pos, _ := s.Position(delegator1, validator1)
	assert.Equal(t, uint64(2), pos.Weeks())

	// the non vested path is closed while the cycle runs
	err = s.Delegate(delegator1, validator1, coins(1), t0+300)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInVestingCycle)
	// a top up in the opening epoch is rejected
	err = s.DelegateWithVesting(delegator1, validator1, coins(1), 2, t0+300)
	assert.ErrorIs(t, err, reverts.ErrBalanceChangeAlreadyMade)
	err = s.DelegateWithVesting(delegator1, validator1, coins(1), 3, t0+300)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInVestingCycle)
}

func TestMaturedPositionReopens(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(100), 1, t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	now := t0 + 2*hydra.Week
	total, err := s.CalculatePositionTotalReward(delegator1, validator1, 0, 0, now)
	require.NoError(t, err)

	NewSequence(s).DelegateWithVesting(delegator1, validator1, coins(10), 2, now).Run(t)

	claims := env.sink.named(EventRewardClaimed)
	require.Len(t, claims, 1)
	assert.Equal(t, total, claims[0].Amount)

	pos, err := s.Position(delegator1, validator1)
	require.NoError(t, err)
	assert.Equal(t, now, pos.Start)
	assert.Equal(t, uint64(2), pos.Weeks())
	balance, _ := s.Balance(delegator1, validator1)
	assert.Equal(t, coins(110), balance)
}

func TestMaturingFullRemovalClaims(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(100), 2, t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	now := t0 + 3*hydra.Week
	preview, err := s.CalculatePenalty(delegator1, validator1, coins(100), now)
	require.NoError(t, err)
	assert.Equal(t, 0, preview.Penalty.Sign())

	NewSequence(s).Undelegate(delegator1, validator1, coins(100), now).Run(t)

	assert.Len(t, env.sink.named(EventRewardClaimed), 1)
	assert.Empty(t, env.sink.named(EventPenaltyApplied))
	require.Len(t, env.sink.named(EventPositionClosed), 1)
	st, _ := s.PositionState(delegator1, validator1, now)
	assert.Equal(t, vesting.StateNone, st)
	pending, _ := s.PendingReward(delegator1, validator1)
	assert.Equal(t, 0, pending.Sign())
	withdrawals, _ := s.PendingWithdrawals(delegator1)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, coins(100), withdrawals[0].Amount)
}

func TestSetBaseKeepsMaturedReward(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		DelegateWithVesting(delegator1, validator1, coins(1000), 52, t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	now := t0 + 53*hydra.Week
	before, err := s.CalculatePositionClaimableReward(delegator1, validator1, 0, 0, now)
	require.NoError(t, err)
	assert.Equal(t, 1, before.Sign())

	require.NoError(t, s.SetBase(manager, 2000, now))
	after, err := s.CalculatePositionClaimableReward(delegator1, validator1, 0, 0, now)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	paid, err := s.ClaimPositionReward(delegator1, validator1, 0, 0, now)
	require.NoError(t, err)
	assert.Equal(t, before, paid)
}

func TestSetBaseKeepsAccruedBaseReward(t *testing.T) {
	env := newTestEnv(t).fund(t)
	s := env.staker

	NewSequence(s).
		Stake(validator1, coins(1000), t0).
		Delegate(delegator1, validator1, coins(100), t0).
		Commit(1, t0+100, coins(100), validator1).
		Run(t)

	raw, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	expected := apr.ApplyRate(raw, hydra.InitialBaseAPR, 0, 0)

	require.NoError(t, s.SetBase(manager, 2000, t0+150))
	paid, err := s.ClaimReward(delegator1, validator1, t0+200)
	require.NoError(t, err)
	assert.Equal(t, expected, paid)

	// reward accrued after the claim is paid at the new base
	NewSequence(s).Commit(2, t0+300, coins(100), validator1).Run(t)
	raw2, err := s.PendingReward(delegator1, validator1)
	require.NoError(t, err)
	paid2, err := s.ClaimReward(delegator1, validator1, t0+400)
	require.NoError(t, err)
	assert.Equal(t, apr.ApplyRate(raw2, 2000, 0, 0), paid2)
}

func TestStakeValidation(t *testing.T) {
	env := newTestEnv(t)
	s := env.staker
	require.NoError(t, env.registry.Whitelist(governance, outsider))
	require.NoError(t, env.registry.Ban(governance, validator3))

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"unregistered validator", func() error { return s.Stake(outsider, coins(1000), t0) }, reverts.ErrValidatorInactive},
		{"banned validator", func() error { return s.Stake(validator3, coins(1000), t0) }, reverts.ErrValidatorInactive},
		{"stake below minimum", func() error { return s.Stake(validator1, coins(999), t0) }, reverts.ErrStakeTooLow},
		{"zero stake", func() error { return s.Stake(validator1, big.NewInt(0), t0) }, reverts.ErrStakeTooLow},
		{"delegation below minimum", func() error { return s.Delegate(delegator1, validator1, big.NewInt(1), t0) }, reverts.ErrStakeTooLow},
		{"self delegation", func() error { return s.Delegate(validator1, validator1, coins(1), t0) }, reverts.ErrSelfDelegation},
		{"delegation to banned", func() error { return s.Delegate(delegator1, validator3, coins(1), t0) }, reverts.ErrValidatorInactive},
		{"vesting too long", func() error { return s.StakeWithVesting(validator1, coins(1000), 53, t0) }, reverts.ErrInvalidDuration},
		{"vesting of zero weeks", func() error { return s.DelegateWithVesting(delegator1, validator1, coins(1), 0, t0) }, reverts.ErrInvalidDuration},
		{"unstake without stake", func() error { return s.Unstake(validator1, coins(1), t0) }, reverts.ErrInsufficientBalance},
		{"undelegate self", func() error { return s.Undelegate(validator1, validator1, coins(1), t0) }, reverts.ErrSelfDelegation},
		{"commission by non validator", func() error { return s.SetCommission(delegator1, 10, t0) }, reverts.ErrUnauthorized},
		{"commission too high", func() error { return s.SetCommission(validator1, 101, t0) }, reverts.ErrInvalidCommission},
		{"commit by non system", func() error {
			_, err := s.CommitEpoch(manager, 1, t0, coins(1), nil)
			return err
		}, reverts.ErrUnauthorized},
		{"commit out of order", func() error {
			_, err := s.CommitEpoch(system, 2, t0, coins(1), nil)
			return err
		}, reverts.ErrInvalidEpochCommit},
		{"second initialize", func() error { return s.Initialize(governance, manager, system) }, reverts.ErrAlreadyInitialized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.want)
		})
	}

	NewSequence(s).Stake(validator1, coins(1000), t0).Run(t)
	assert.ErrorIs(t, s.Unstake(validator1, coins(1), t0), reverts.ErrStakeTooLow)
	require.NoError(t, s.SetCommission(validator1, 25, t0))
	c, err := s.Commission(validator1)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), c)
}

func TestParameters(t *testing.T) {
	env := newTestEnv(t)
	s := env.staker

	assert.ErrorIs(t, s.SetBase(outsider, 600, t0), reverts.ErrUnauthorized)
	require.NoError(t, s.SetBase(manager, 600, t0))
	assert.ErrorIs(t, s.SetMacro(manager, 1000, t0), reverts.ErrInvalidMacro)
	require.NoError(t, s.SetMacro(manager, 10000, t0))
	assert.ErrorIs(t, s.SetRSI(manager, 17001, t0), reverts.ErrInvalidRSI)
	require.NoError(t, s.SetRSI(manager, 9000, t0))

	params, err := s.APR()
	require.NoError(t, err)
	assert.Equal(t, uint64(600), params.Base)
	assert.Equal(t, uint64(10000), params.Macro)
	assert.Equal(t, uint64(0), params.RSI)

	require.NoError(t, s.GuardBonuses(manager, t0))
	assert.ErrorIs(t, s.GuardBonuses(manager, t0), reverts.ErrGuardAlreadyEnabled)
	require.NoError(t, s.DisableGuard(manager, t0))
	assert.ErrorIs(t, s.DisableGuard(manager, t0), reverts.ErrGuardAlreadyDisabled)

	assert.ErrorIs(t, s.SetPenaltyDecreasePerWeek(manager, 151, t0), reverts.ErrPenaltyRateOutOfRange)
	assert.ErrorIs(t, s.SetVestingLiquidityDecreasePerWeek(manager, 9, t0), reverts.ErrLiquidityRateOutOfRange)
	require.NoError(t, s.SetPenaltyDecreasePerWeek(manager, 100, t0))
	require.NoError(t, s.SetVestingLiquidityDecreasePerWeek(manager, 10, t0))
	p, l, err := s.PenaltyRates()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), p)
	assert.Equal(t, uint64(10), l)

	assert.ErrorIs(t, s.SetWithdrawalWaitPeriod(manager, 0, t0), reverts.ErrInvalidWaitPeriod)
	require.NoError(t, s.SetWithdrawalWaitPeriod(manager, 42, t0))
	wait, err := s.WithdrawalWaitPeriod()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), wait)

	assert.ErrorIs(t, s.UpdatePrice(manager, 1, big.NewInt(10), t0), reverts.ErrUnauthorized)
	require.NoError(t, s.UpdatePrice(system, 1, big.NewInt(10), t0))
	assert.ErrorIs(t, s.UpdatePrice(system, 3, big.NewInt(10), t0), reverts.ErrInvalidPrice)
	prices, err := s.Prices()
	require.NoError(t, err)
	assert.Len(t, prices, 1)

	assert.Len(t, env.sink.named(EventParameterUpdated), 8)
	assert.Len(t, env.sink.named(EventPriceUpdated), 1)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	for _, tc := range []struct {
		mutate func(*Config)
		want   error
	}{
		{func(c *Config) { c.MinStake = nil }, reverts.ErrStakeTooLow},
		{func(c *Config) { c.MinDelegation = big.NewInt(0) }, reverts.ErrStakeTooLow},
		{func(c *Config) { c.WithdrawalWaitPeriod = 0 }, reverts.ErrInvalidWaitPeriod},
		{func(c *Config) { c.MacroFactor = 20000 }, reverts.ErrInvalidMacro},
		{func(c *Config) { c.RSIBonus = 18000 }, reverts.ErrInvalidRSI},
		{func(c *Config) { c.PenaltyDecreasePerWeek = 5 }, reverts.ErrPenaltyRateOutOfRange},
		{func(c *Config) { c.LiquidityDecreasePerWeek = 200 }, reverts.ErrLiquidityRateOutOfRange},
	} {
		c := DefaultConfig()
		tc.mutate(&c)
		assert.ErrorIs(t, c.Validate(), tc.want)
	}
}
