// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/lvldb"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
	"github.com/hydrachain/staker/state"
)

var (
	principal = hydra.BytesToAddress([]byte("delegator"))
	validator = hydra.BytesToAddress([]byte("validator"))
	other     = hydra.BytesToAddress([]byte("validator-2"))
	snap      = Snapshot{Base: 500, VestBonus: 184, RSI: 15000}
)

const t0 = uint64(1_700_000_000)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slots.NewContext(slots.NamespaceOf("vesting"), state.New(db)))
}

func TestPositionStates(t *testing.T) {
	var empty *Position
	assert.Equal(t, StateNone, empty.StateAt(t0))
	assert.True(t, (&Position{}).IsEmpty())

	p := &Position{Start: t0, End: t0 + 2*hydra.Week, Duration: 2 * hydra.Week, VestBonus: 100, RSI: 17000}
	assert.Equal(t, uint64(2), p.Weeks())

	tests := []struct {
		now       uint64
		state     State
		part      uint64
		remaining uint64
	}{
		{t0, StateActive, 0, 2},
		{t0 + 1, StateActive, 0, 2},
		{t0 + hydra.Week, StateActive, 0, 1},
		{t0 + 2*hydra.Week - 1, StateActive, 0, 1},
		{t0 + 2*hydra.Week, StateMaturing, 0, 0},
		{t0 + 3*hydra.Week, StateMaturing, 5000, 0},
		{t0 + 4*hydra.Week - 1, StateMaturing, 9999, 0},
		{t0 + 4*hydra.Week, StateMatured, 10000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.state, p.StateAt(tt.now), "now %d", tt.now)
		assert.Equal(t, tt.part, p.MaturedPart(tt.now), "now %d", tt.now)
		assert.Equal(t, tt.remaining, p.RemainingWeeks(tt.now), "now %d", tt.now)
	}

	vb, rsi := p.Rates(t0 + 3*hydra.Week)
	assert.Equal(t, uint64(50), vb)
	assert.Equal(t, uint64(13500), rsi)

	vb, rsi = p.Rates(t0)
	assert.Zero(t, vb)
	assert.Zero(t, rsi)

	vb, rsi = p.Rates(t0 + 10*hydra.Week)
	assert.Equal(t, uint64(100), vb)
	assert.Equal(t, uint64(17000), rsi)
	assert.Equal(t, "maturing", StateMaturing.String())
}

func TestOpen(t *testing.T) {
	s := newService(t)

	_, err := s.Open(principal, validator, 0, t0, snap)
	assert.ErrorIs(t, err, reverts.ErrInvalidDuration)
	_, err = s.Open(principal, validator, 53, t0, snap)
	assert.ErrorIs(t, err, reverts.ErrInvalidDuration)

	pos, err := s.Open(principal, validator, 10, t0, snap)
	require.NoError(t, err)
	assert.Equal(t, &Position{Start: t0, End: t0 + 10*hydra.Week, Duration: 10 * hydra.Week, Base: 500, VestBonus: 184, RSI: 15000}, pos)

	// same cycle tops up without touching the timeline
	topUp, err := s.CheckOpen(principal, validator, 10, t0+hydra.Week)
	require.NoError(t, err)
	assert.True(t, topUp)
	again, err := s.Open(principal, validator, 10, t0+hydra.Week, Snapshot{Base: 1})
	require.NoError(t, err)
	assert.Equal(t, pos, again)

	_, err = s.Open(principal, validator, 11, t0+hydra.Week, snap)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInVestingCycle)

	_, err = s.Open(principal, validator, 10, t0+15*hydra.Week, snap)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInVestingCycle, "maturing")

	pos, err = s.Open(principal, validator, 3, t0+20*hydra.Week, snap)
	require.NoError(t, err)
	assert.Equal(t, t0+20*hydra.Week, pos.Start)

	s.Close(principal, validator)
	got, err := s.Get(principal, validator)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestSwap(t *testing.T) {
	s := newService(t)

	_, err := s.Swap(principal, validator, other, t0, false)
	assert.ErrorIs(t, err, reverts.ErrOldPositionInactive)

	pos, err := s.Open(principal, validator, 4, t0, snap)
	require.NoError(t, err)

	_, err = s.Swap(principal, validator, other, t0+hydra.Week, true)
	assert.ErrorIs(t, err, reverts.ErrNewPositionUnavailable)
	_, err = s.Swap(principal, validator, validator, t0+hydra.Week, false)
	assert.ErrorIs(t, err, reverts.ErrNewPositionUnavailable)

	swapped, err := s.Swap(principal, validator, other, t0+hydra.Week, false)
	require.NoError(t, err)
	assert.Equal(t, pos, swapped)

	// the new slot now holds a cycle and cannot receive another swap
	_, err = s.Swap(principal, validator, other, t0+hydra.Week, false)
	assert.ErrorIs(t, err, reverts.ErrNewPositionUnavailable)

	// matured positions cannot be swapped
	_, err = s.Swap(principal, other, validator, t0+8*hydra.Week, false)
	assert.ErrorIs(t, err, reverts.ErrOldPositionInactive)
}

func TestLiquidDebt(t *testing.T) {
	s := newService(t)
	amount := big.NewInt(10_000)

	assert.Equal(t, amount, OwedLiquidTokens(amount, 0, 133))
	assert.Equal(t, big.NewInt(10_000-10*133), OwedLiquidTokens(amount, 10, 133))
	assert.Equal(t, 0, OwedLiquidTokens(amount, 52, 250).Sign())
	for w := uint64(1); w <= hydra.MaxWeeks; w++ {
		assert.LessOrEqual(t, OwedLiquidTokens(amount, w, 150).Cmp(amount), 0)
	}

	owed, err := s.AddDebt(principal, amount, 10, 133)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(8670), owed)
	debt, _ := s.Debt(principal)
	assert.Equal(t, big.NewInt(1330), debt)

	// half the balance carries half the debt
	preview, err := s.CalculateOwedLiquidTokens(principal, big.NewInt(5000), amount)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5000-665), preview)

	back, err := s.ReleaseDebt(principal, big.NewInt(5000), amount)
	require.NoError(t, err)
	assert.Equal(t, preview, back)
	debt, _ = s.Debt(principal)
	assert.Equal(t, big.NewInt(665), debt)

	back, err = s.ReleaseDebt(principal, big.NewInt(5000), big.NewInt(5000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5000-665), back)
	debt, _ = s.Debt(principal)
	assert.Equal(t, 0, debt.Sign())
}
