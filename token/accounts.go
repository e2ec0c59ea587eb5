// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/hydrachain/staker/hydra"
)

var (
	WalletAddress = hydra.BytesToAddress([]byte("reward-wallet"))
	VaultAddress  = hydra.BytesToAddress([]byte("stake-vault"))
)

// Wallet pays claimed rewards out of its funded coin balance.
type Wallet struct {
	coin *Ledger
}

func NewWallet(coin *Ledger) *Wallet {
	return &Wallet{coin: coin}
}

// Fund mints amount into the wallet.
func (w *Wallet) Fund(amount *big.Int) error {
	return w.coin.Mint(WalletAddress, amount)
}

func (w *Wallet) Balance() (*big.Int, error) {
	return w.coin.BalanceOf(WalletAddress)
}

func (w *Wallet) DistributeReward(to hydra.Address, amount *big.Int) error {
	return w.coin.Transfer(WalletAddress, to, amount)
}

// Vault holds staked coins until they are withdrawn or burned.
type Vault struct {
	coin *Ledger
}

func NewVault(coin *Ledger) *Vault {
	return &Vault{coin: coin}
}

func (v *Vault) Deposit(from hydra.Address, amount *big.Int) error {
	return v.coin.Transfer(from, VaultAddress, amount)
}

func (v *Vault) Transfer(to hydra.Address, amount *big.Int) error {
	return v.coin.Transfer(VaultAddress, to, amount)
}

func (v *Vault) Balance() (*big.Int, error) {
	return v.coin.BalanceOf(VaultAddress)
}
