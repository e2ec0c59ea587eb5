// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/lvldb"
	"github.com/hydrachain/staker/state"
	"github.com/hydrachain/staker/token"
)

const sample = `
governance: "0x0000000000000000000000000000000000000001"
manager: "0x0000000000000000000000000000000000000002"
system: "0x0000000000000000000000000000000000000003"
validators:
  - address: "0x00000000000000000000000000000000000000a1"
    commission: 5
accounts:
  - address: "0x00000000000000000000000000000000000000a1"
    balance: "0x3635c9adc5dea00000"
rewardFund: "1000000000000000000000"
params:
  minStake: "1000"
  withdrawalWaitPeriod: 60
`

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	gen, err := Load(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, hydra.MustParseAddress("0x0000000000000000000000000000000000000001"), gen.Governance)
	require.Len(t, gen.Validators, 1)
	assert.Equal(t, uint64(5), gen.Validators[0].Commission)
	require.Len(t, gen.Accounts, 1)
	thousand := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	assert.Equal(t, thousand, gen.Accounts[0].Balance.Big())
	assert.Equal(t, thousand, gen.RewardFund.Big())

	cfg := gen.Params.Config()
	assert.Equal(t, big.NewInt(1000), cfg.MinStake)
	assert.Equal(t, uint64(60), cfg.WithdrawalWaitPeriod)
	assert.Equal(t, uint64(hydra.InitialBaseAPR), cfg.BaseAPR)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeFile(t, "governance: \"0x0000000000000000000000000000000000000001\"\nbogus: 1\n"))
	assert.Error(t, err)
	_, err = Load(writeFile(t, "rewardFund: \"ten\"\n"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := NewDevnet()
	c, err := Build(state.New(db), gen, nil)
	require.NoError(t, err)

	for _, v := range gen.Validators {
		active, err := c.Registry.IsActive(v.Address)
		require.NoError(t, err)
		assert.True(t, active)
		commission, err := c.Staker.Commission(v.Address)
		require.NoError(t, err)
		assert.Equal(t, v.Commission, commission)
	}
	fund, err := c.Wallet.Balance()
	require.NoError(t, err)
	assert.Equal(t, gen.RewardFund.Big(), fund)

	// a second build over the same store keeps the committed state
	c2, err := Build(state.New(db), gen, nil)
	require.NoError(t, err)
	balance, err := c2.Coin.BalanceOf(gen.Accounts[0].Address)
	require.NoError(t, err)
	assert.Equal(t, gen.Accounts[0].Balance.Big(), balance)
	fund, err = token.NewWallet(c2.Coin).Balance()
	require.NoError(t, err)
	assert.Equal(t, gen.RewardFund.Big(), fund)
}

func TestDevAccounts(t *testing.T) {
	accs := DevAccounts()
	require.Len(t, accs, 10)
	assert.Equal(t, accs, DevAccounts())
	seen := map[hydra.Address]bool{}
	for _, acc := range accs {
		assert.False(t, seen[acc.Address])
		seen[acc.Address] = true
	}
}

func TestGuard(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	dev := NewDevnet()
	require.NoError(t, Guard(db, dev))
	require.NoError(t, Guard(db, NewDevnet()), "same genesis passes")

	other := NewDevnet()
	other.Validators = other.Validators[:1]
	assert.ErrorContains(t, Guard(db, other), "genesis mismatch")

	id1, err := dev.ID()
	require.NoError(t, err)
	id2, err := other.ID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}
