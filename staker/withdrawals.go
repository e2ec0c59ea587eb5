// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
)

var slotWithdrawals = hydra.BytesToBytes32([]byte(("withdrawals")))

// Withdrawal is an amount released at UnlockAt.
type Withdrawal struct {
	Target   hydra.Address
	Amount   *big.Int
	UnlockAt uint64
}

type queue struct {
	Entries []*Withdrawal
}

func (s *Staker) queueOf(principal hydra.Address) (*queue, error) {
	q, err := s.withdrawals.Get(principal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get withdrawals")
	}
	return q, nil
}

func (s *Staker) setQueue(principal hydra.Address, q *queue) error {
	if len(q.Entries) == 0 {
		s.withdrawals.Delete(principal)
		return nil
	}
	return s.withdrawals.Set(principal, q)
}

func (s *Staker) enqueue(evs *events, principal, target hydra.Address, amount *big.Int, now uint64) error {
	if amount.Sign() == 0 {
		return nil
	}
	wait, err := s.waitPeriod.Get()
	if err != nil {
		return err
	}
	q, err := s.queueOf(principal)
	if err != nil {
		return err
	}
	w := &Withdrawal{Target: target, Amount: amount, UnlockAt: now + wait}
	q.Entries = append(q.Entries, w)
	if err := s.setQueue(principal, q); err != nil {
		return err
	}
	evs.emit(EventWithdrawalRegistered, principal, target, amount, "unlockAt", w.UnlockAt)
	return nil
}

// PendingWithdrawals returns the queued withdrawals of principal.
func (s *Staker) PendingWithdrawals(principal hydra.Address) ([]*Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, err := s.queueOf(principal)
	if err != nil {
		return nil, err
	}
	return q.Entries, nil
}

// Withdraw pays out every withdrawal of caller unlocked at now and returns the total.
func (s *Staker) Withdraw(caller hydra.Address, now uint64) (*big.Int, error) {
	total := new(big.Int)
	err := s.exec("withdraw", caller, now, func(evs *events) error {
		q, err := s.queueOf(caller)
		if err != nil {
			return err
		}
		pending := q.Entries[:0]
		for _, w := range q.Entries {
			if w.UnlockAt > now {
				pending = append(pending, w)
				continue
			}
			total.Add(total, w.Amount)
		}
		if total.Sign() == 0 {
			return nil
		}
		q.Entries = pending
		if err := s.setQueue(caller, q); err != nil {
			return err
		}
		if err := s.deps.Vault.Transfer(caller, total); err != nil {
			return errors.Wrapf(err, "failed to withdraw %v", total)
		}
		evs.emit(EventWithdrawn, caller, caller, new(big.Int).Set(total))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}
