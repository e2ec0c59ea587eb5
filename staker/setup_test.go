// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/acl"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/lvldb"
	"github.com/hydrachain/staker/registry"
	"github.com/hydrachain/staker/slots"
	"github.com/hydrachain/staker/state"
	"github.com/hydrachain/staker/token"
)

const t0 = uint64(1_700_000_000)

var (
	governance = hydra.BytesToAddress([]byte("governance"))
	manager    = hydra.BytesToAddress([]byte("manager"))
	system     = hydra.BytesToAddress([]byte("system"))
	validator1 = hydra.BytesToAddress([]byte("validator1"))
	validator2 = hydra.BytesToAddress([]byte("validator2"))
	validator3 = hydra.BytesToAddress([]byte("validator3"))
	delegator1 = hydra.BytesToAddress([]byte("delegator1"))
	delegator2 = hydra.BytesToAddress([]byte("delegator2"))
	outsider   = hydra.BytesToAddress([]byte("outsider"))
)

func coins(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1e18))
}

type memSink struct {
	mu     sync.Mutex
	events []*Event
}

func (m *memSink) Publish(events []*Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memSink) named(name string) []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Event
	for _, ev := range m.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

type testEnv struct {
	staker   *Staker
	state    *state.State
	registry *registry.Service
	liquid   *token.Ledger
	coin     *token.Ledger
	wallet   *token.Wallet
	sink     *memSink
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	regCtx := slots.NewContext(slots.NamespaceOf("registry"), st)
	regACL := acl.New(regCtx)
	require.NoError(t, regACL.Initialize(governance, governance, governance))
	reg := registry.New(regCtx, regACL)

	tokCtx := slots.NewContext(slots.NamespaceOf("token"), st)
	liquid := token.NewLedger(tokCtx, "liquid")
	coin := token.NewLedger(tokCtx, "hydra")
	wallet := token.NewWallet(coin)
	sink := &memSink{}

	cfg := DefaultConfig()
	cfg.MinStake = coins(1000)
	cfg.MinDelegation = coins(1)
	cfg.WithdrawalWaitPeriod = hydra.Day

	s, err := New(st, cfg, Deps{
		Registry: reg,
		Liquid:   liquid,
		Wallet:   wallet,
		Vault:    token.NewVault(coin),
		Sink:     sink,
	})
	require.NoError(t, err)
	require.NoError(t, s.Initialize(governance, manager, system))

	for _, v := range []hydra.Address{validator1, validator2, validator3} {
		require.NoError(t, reg.Whitelist(governance, v))
		require.NoError(t, reg.Register(v))
	}
	for _, p := range []hydra.Address{validator1, validator2, validator3, delegator1, delegator2} {
		require.NoError(t, coin.Mint(p, coins(10_000_000)))
	}
	return &testEnv{staker: s, state: st, registry: reg, liquid: liquid, coin: coin, wallet: wallet, sink: sink}
}

func (e *testEnv) fund(t *testing.T) *testEnv {
	require.NoError(t, e.wallet.Fund(coins(1_000_000_000)))
	return e
}

func (e *testEnv) coinOf(t *testing.T, addr hydra.Address) *big.Int {
	b, err := e.coin.BalanceOf(addr)
	require.NoError(t, err)
	return b
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	staker *Staker

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staker *Staker) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staker: staker}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(addr hydra.Address, amount *big.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.Stake(addr, amount, now); err != nil {
			t.Fatalf("failed to stake %s for %s: %v", amount, addr, err)
		}
	})
}

func (st *TestSequence) StakeWithVesting(addr hydra.Address, amount *big.Int, weeks, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.StakeWithVesting(addr, amount, weeks, now); err != nil {
			t.Fatalf("failed to stake %s for %s over %d weeks: %v", amount, addr, weeks, err)
		}
	})
}

func (st *TestSequence) Delegate(addr, validator hydra.Address, amount *big.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.Delegate(addr, validator, amount, now); err != nil {
			t.Fatalf("failed to delegate %s from %s to %s: %v", amount, addr, validator, err)
		}
	})
}

func (st *TestSequence) DelegateWithVesting(addr, validator hydra.Address, amount *big.Int, weeks, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.DelegateWithVesting(addr, validator, amount, weeks, now); err != nil {
			t.Fatalf("failed to delegate %s from %s to %s over %d weeks: %v", amount, addr, validator, weeks, err)
		}
	})
}

func (st *TestSequence) Commit(epoch, timestamp uint64, total *big.Int, validators ...hydra.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		shares := make([]Share, 0, len(validators))
		for _, v := range validators {
			shares = append(shares, Share{Validator: v, Weight: big.NewInt(1)})
		}
		if _, err := st.staker.CommitEpoch(system, epoch, timestamp, total, shares); err != nil {
			t.Fatalf("failed to commit epoch %d: %v", epoch, err)
		}
	})
}

func (st *TestSequence) Unstake(addr hydra.Address, amount *big.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.Unstake(addr, amount, now); err != nil {
			t.Fatalf("failed to unstake %s for %s: %v", amount, addr, err)
		}
	})
}

func (st *TestSequence) Undelegate(addr, validator hydra.Address, amount *big.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.Undelegate(addr, validator, amount, now); err != nil {
			t.Fatalf("failed to undelegate %s from %s: %v", amount, validator, err)
		}
	})
}

func (st *TestSequence) Swap(addr, from, to hydra.Address, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.staker.SwapVestedPositionValidator(addr, from, to, now); err != nil {
			t.Fatalf("failed to swap %s from %s to %s: %v", addr, from, to, err)
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}
