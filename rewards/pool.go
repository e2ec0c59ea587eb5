// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/slots"
)

// Pool is the reward pool of one side of a validator.
type Pool struct {
	Balance    *big.Int
	RPS        *big.Int // magnified by hydra.RewardPrecision
	Commission uint64   // percent, staking pool only
}

func (p *Pool) normalize() *Pool {
	if p.Balance == nil {
		p.Balance = new(big.Int)
	}
	if p.RPS == nil {
		p.RPS = new(big.Int)
	}
	return p
}

// Member is the share of a principal in the pool of a target.
type Member struct {
	Balance    *big.Int
	Correction slots.Int
	Taken      *big.Int // raw reward already claimed or burned
	Base       uint64   // base apr the unclaimed reward is paid at
}

func (m *Member) normalize() *Member {
	if m.Balance == nil {
		m.Balance = new(big.Int)
	}
	if m.Taken == nil {
		m.Taken = new(big.Int)
	}
	if m.Correction.Abs == nil {
		m.Correction = slots.NewInt(nil)
	}
	return m
}

// IsEmpty returns whether the member holds no balance and nothing left to claim.
func (m *Member) IsEmpty() bool {
	return m.Balance.Sign() == 0 && m.Correction.Big().Sign() == 0 && m.Taken.Sign() == 0
}

// Earned returns the cumulative raw reward of the member at rps.
func (m *Member) Earned(rps *big.Int) *big.Int {
	earned := new(big.Int).Mul(rps, m.Balance)
	earned.Add(earned, m.Correction.Big())
	return earned.Quo(earned, hydra.RewardPrecision)
}

// Unclaimed returns the raw reward earned at rps and not taken yet, never negative.
func (m *Member) Unclaimed(rps *big.Int) *big.Int {
	u := m.Earned(rps)
	u.Sub(u, m.Taken)
	if u.Sign() < 0 {
		return new(big.Int)
	}
	return u
}

func (m *Member) deposit(rps, amount *big.Int) {
	m.Balance = new(big.Int).Add(m.Balance, amount)
	corr := m.Correction.Big()
	corr.Sub(corr, new(big.Int).Mul(rps, amount))
	m.Correction = slots.NewInt(corr)
}

func (m *Member) withdraw(rps, amount *big.Int) {
	m.Balance = new(big.Int).Sub(m.Balance, amount)
	corr := m.Correction.Big()
	corr.Add(corr, new(big.Int).Mul(rps, amount))
	m.Correction = slots.NewInt(corr)
}
