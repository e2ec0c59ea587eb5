// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import "github.com/hydrachain/staker/hydra"

// State is the lifecycle stage of a position at a point in time.
type State uint8

const (
	StateNone State = iota
	StateActive
	StateMaturing
	StateMatured
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateMaturing:
		return "maturing"
	case StateMatured:
		return "matured"
	default:
		return "none"
	}
}

// Position is a time locked stake or delegation. All fields are snapshotted at open.
type Position struct {
	Start     uint64 // unix seconds
	End       uint64 // Start + Duration
	Duration  uint64 // seconds
	Base      uint64 // base apr at open
	VestBonus uint64 // bonus of the chosen duration
	RSI       uint64 // rsi bonus at open, zero means none
}

// IsEmpty returns whether the slot holds no vesting cycle.
func (p *Position) IsEmpty() bool {
	return p == nil || p.Duration == 0
}

// Weeks returns the vesting duration in weeks.
func (p *Position) Weeks() uint64 {
	if p.IsEmpty() {
		return 0
	}
	return p.Duration / hydra.Week
}

// StateAt returns the lifecycle stage at now.
func (p *Position) StateAt(now uint64) State {
	switch {
	case p.IsEmpty():
		return StateNone
	case now < p.End:
		return StateActive
	case now < p.End+p.Duration:
		return StateMaturing
	default:
		return StateMatured
	}
}

// MaturedPart returns the share of the maturing window elapsed at now in basis points.
func (p *Position) MaturedPart(now uint64) uint64 {
	switch p.StateAt(now) {
	case StateMatured:
		return hydra.Denominator
	case StateMaturing:
		return (now - p.End) * hydra.Denominator / p.Duration
	default:
		return 0
	}
}

// RemainingWeeks returns the started weeks left until End.
func (p *Position) RemainingWeeks(now uint64) uint64 {
	if p.StateAt(now) != StateActive {
		return 0
	}
	return (p.End - now + hydra.Week - 1) / hydra.Week
}

// Rates returns the vesting bonus and rsi bonus payable at now.
// In the maturing window both bonuses grow linearly from none at End to full at End+Duration.
func (p *Position) Rates(now uint64) (vestBonus, rsi uint64) {
	part := p.MaturedPart(now)
	if part == 0 {
		return 0, 0
	}
	vestBonus = p.VestBonus * part / hydra.Denominator
	if p.RSI > hydra.Denominator {
		rsi = hydra.Denominator + (p.RSI-hydra.Denominator)*part/hydra.Denominator
	}
	return vestBonus, rsi
}

func (p *Position) clone() *Position {
	cpy := *p
	return &cpy
}
