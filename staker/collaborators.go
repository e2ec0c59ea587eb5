// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/hydrachain/staker/hydra"
)

// Registry answers whether a validator may receive stake.
type Registry interface {
	IsActive(validator hydra.Address) (bool, error)
	IsRegistered(validator hydra.Address) (bool, error)
	IsBanned(validator hydra.Address) (bool, error)
}

// LiquidToken is the receipt token minted against stake.
type LiquidToken interface {
	Mint(to hydra.Address, amount *big.Int) error
	Burn(from hydra.Address, amount *big.Int) error
	BalanceOf(addr hydra.Address) (*big.Int, error)
}

// RewardWallet pays rewards out of an externally funded balance.
type RewardWallet interface {
	DistributeReward(to hydra.Address, amount *big.Int) error
}

// StakeVault custodies staked coins.
type StakeVault interface {
	Deposit(from hydra.Address, amount *big.Int) error
	Transfer(to hydra.Address, amount *big.Int) error
}

// EventSink receives the events of every successful operation.
type EventSink interface {
	Publish(events []*Event) error
}

// Deps are the collaborators of the staker. Sink is optional.
type Deps struct {
	Registry Registry
	Liquid   LiquidToken
	Wallet   RewardWallet
	Vault    StakeVault
	Sink     EventSink
}
