// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

// Ledger is a state backed balance sheet of one token.
type Ledger struct {
	balances *slots.Mapping[hydra.Address, *big.Int]
	supply   *slots.Uint256
}

// NewLedger creates the ledger of the token named name.
func NewLedger(sctx *slots.Context, name string) *Ledger {
	return &Ledger{
		balances: slots.NewMapping[hydra.Address, *big.Int](sctx, slots.Slot(name+"-balances")),
		supply:   slots.NewUint256(sctx, slots.Slot(name+"-supply")),
	}
}

func (l *Ledger) BalanceOf(addr hydra.Address) (*big.Int, error) {
	b, err := l.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if b == nil {
		return new(big.Int), nil
	}
	return b, nil
}

func (l *Ledger) TotalSupply() (*big.Int, error) {
	return l.supply.Get()
}

func (l *Ledger) setBalance(addr hydra.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		l.balances.Delete(addr)
		return nil
	}
	return l.balances.Set(addr, amount)
}

func (l *Ledger) Mint(to hydra.Address, amount *big.Int) error {
	b, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := l.setBalance(to, b.Add(b, amount)); err != nil {
		return err
	}
	return l.supply.Add(amount)
}

func (l *Ledger) Burn(from hydra.Address, amount *big.Int) error {
	b, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	if b.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	if err := l.setBalance(from, b.Sub(b, amount)); err != nil {
		return err
	}
	return l.supply.Sub(amount)
}

func (l *Ledger) Transfer(from, to hydra.Address, amount *big.Int) error {
	if amount.Sign() == 0 || from == to {
		return nil
	}
	b, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	if b.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	if err := l.setBalance(from, b.Sub(b, amount)); err != nil {
		return err
	}
	r, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	return l.setBalance(to, r.Add(r, amount))
}
