// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package teststaker builds an in-memory staker on the dev genesis for tests of dependent packages.
package teststaker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/genesis"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/lvldb"
	"github.com/hydrachain/staker/staker"
	"github.com/hydrachain/staker/state"
)

// Launch is the unix time the test staker starts at.
const Launch = uint64(1_700_000_000)

// MemSink keeps published events in memory.
type MemSink struct {
	mu     sync.Mutex
	events []*staker.Event
}

func (m *MemSink) Publish(events []*staker.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

// Named returns the published events called name.
func (m *MemSink) Named(name string) []*staker.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*staker.Event
	for _, ev := range m.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// Env is a staker seeded with the dev genesis.
type Env struct {
	*genesis.Components
	Genesis *genesis.Genesis
	Sink    *MemSink
}

// New builds the env. Min stake is lowered to 1000 coins.
func New(t testing.TB) *Env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gen := genesis.NewDevnet()
	gen.Params.MinStake = genesis.NewHexOrDecimal256(Coins(1000))
	sink := &MemSink{}
	c, err := genesis.Build(state.New(db), gen, sink)
	require.NoError(t, err)
	return &Env{Components: c, Genesis: gen, Sink: sink}
}

// Validator returns the i-th genesis validator.
func (e *Env) Validator(i int) hydra.Address {
	return e.Genesis.Validators[i].Address
}

// Delegator returns the i-th funded account that holds no role and is no validator.
func (e *Env) Delegator(i int) hydra.Address {
	return genesis.DevAccounts()[6+i].Address
}

// Commit commits epoch over validators with equal weights.
func (e *Env) Commit(t testing.TB, epoch, timestamp uint64, total *big.Int, validators ...hydra.Address) {
	shares := make([]staker.Share, 0, len(validators))
	for _, v := range validators {
		shares = append(shares, staker.Share{Validator: v, Weight: big.NewInt(1)})
	}
	_, err := e.Staker.CommitEpoch(e.Genesis.System, epoch, timestamp, total, shares)
	require.NoError(t, err)
}

// Coins returns v whole coins.
func Coins(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1e18))
}
