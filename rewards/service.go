// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/apr"
	"github.com/hydrachain/staker/history"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/log"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

var logger = log.WithContext("pkg", "rewards")

var (
	slotPools       = hydra.BytesToBytes32([]byte(("reward-pools")))
	slotMembers     = hydra.BytesToBytes32([]byte(("reward-members")))
	slotTotals      = hydra.BytesToBytes32([]byte(("principal-totals")))
	slotValidators  = hydra.BytesToBytes32([]byte(("reward-validators")))
	slotKnown       = hydra.BytesToBytes32([]byte(("reward-known-validators")))
	slotLastEpoch   = hydra.BytesToBytes32([]byte(("last-epoch")))
	slotPendingBurn = hydra.BytesToBytes32([]byte(("pending-burn")))
)

// Share is the weight of a validator in an epoch commit.
type Share struct {
	Validator hydra.Address
	Weight    *big.Int
}

// Commit summarises a committed epoch.
type Commit struct {
	Epoch       uint64
	Timestamp   uint64
	Distributed *big.Int // credited to pools
	Withheld    *big.Int // capped or undistributable part of the total
}

// Service is the reward accrual engine.
type Service struct {
	apr     *apr.Service
	history *history.Service

	pools       *slots.Mapping[history.PoolKey, *Pool]
	members     *slots.Mapping[slots.PairKey, *Member]
	totals      *slots.Mapping[hydra.Address, *big.Int]
	validators  *slots.List[hydra.Address]
	known       *slots.Mapping[hydra.Address, bool]
	lastEpoch   *slots.Raw[uint64]
	pendingBurn *slots.Uint256
}

func New(sctx *slots.Context, aprService *apr.Service, historyService *history.Service) *Service {
	return &Service{
		apr:         aprService,
		history:     historyService,
		pools:       slots.NewMapping[history.PoolKey, *Pool](sctx, slotPools),
		members:     slots.NewMapping[slots.PairKey, *Member](sctx, slotMembers),
		totals:      slots.NewMapping[hydra.Address, *big.Int](sctx, slotTotals),
		validators:  slots.NewList[hydra.Address](sctx, slotValidators),
		known:       slots.NewMapping[hydra.Address, bool](sctx, slotKnown),
		lastEpoch:   slots.NewRaw[uint64](sctx, slotLastEpoch),
		pendingBurn: slots.NewUint256(sctx, slotPendingBurn),
	}
}

// PoolOf returns the key of the pool principal joins at target.
func PoolOf(principal, target hydra.Address) history.PoolKey {
	return history.PoolKey{Validator: target, Delegation: principal != target}
}

func (s *Service) Pool(key history.PoolKey) (*Pool, error) {
	p, err := s.pools.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	return p.normalize(), nil
}

func (s *Service) Member(principal, target hydra.Address) (*Member, error) {
	m, err := s.members.Get(slots.PairKey{Principal: principal, Target: target})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get member")
	}
	return m.normalize(), nil
}

// LastEpoch returns the last committed epoch, zero if none.
func (s *Service) LastEpoch() (uint64, error) {
	return s.lastEpoch.Get()
}

// Validators returns every target that ever received a deposit.
func (s *Service) Validators() ([]hydra.Address, error) {
	return s.validators.All()
}

// Balance returns the balance of principal at target.
func (s *Service) Balance(principal, target hydra.Address) (*big.Int, error) {
	m, err := s.Member(principal, target)
	if err != nil {
		return nil, err
	}
	return m.Balance, nil
}

// TotalBalance returns the balance of principal summed over all targets.
func (s *Service) TotalBalance(principal hydra.Address) (*big.Int, error) {
	t, err := s.totals.Get(principal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total balance")
	}
	if t == nil {
		return new(big.Int), nil
	}
	return t, nil
}

// Unclaimed returns the raw reward of principal at target not taken yet.
func (s *Service) Unclaimed(principal, target hydra.Address) (*big.Int, error) {
	pool, err := s.Pool(PoolOf(principal, target))
	if err != nil {
		return nil, err
	}
	m, err := s.Member(principal, target)
	if err != nil {
		return nil, err
	}
	return m.Unclaimed(pool.RPS), nil
}

// Take marks amount of raw reward as claimed or burned.
// Once nothing is left unclaimed the member moves to the current base.
func (s *Service) Take(principal, target hydra.Address, amount *big.Int) error {
	pool, err := s.Pool(PoolOf(principal, target))
	if err != nil {
		return err
	}
	m, err := s.Member(principal, target)
	if err != nil {
		return err
	}
	m.Taken = new(big.Int).Add(m.Taken, amount)
	if err := s.rebase(pool, m); err != nil {
		return err
	}
	return s.setMember(principal, target, m)
}

// PayoutBase returns the base apr the unclaimed reward of principal at target is paid at.
func (s *Service) PayoutBase(principal, target hydra.Address) (uint64, error) {
	m, err := s.Member(principal, target)
	if err != nil {
		return 0, err
	}
	return m.Base, nil
}

// rebase moves m to the current base when it has nothing unclaimed at the pool rps.
func (s *Service) rebase(pool *Pool, m *Member) error {
	if m.Unclaimed(pool.RPS).Sign() > 0 {
		return nil
	}
	params, err := s.apr.Params()
	if err != nil {
		return err
	}
	m.Base = params.Base
	return nil
}

// Deposit adds amount to the balance of principal at target and records the change.
// locked forbids a second change in the same epoch.
func (s *Service) Deposit(principal, target hydra.Address, amount *big.Int, now uint64, locked bool) error {
	if err := s.track(target); err != nil {
		return err
	}
	return s.update(principal, target, now, locked, func(pool *Pool, m *Member) error {
		m.deposit(pool.RPS, amount)
		pool.Balance = new(big.Int).Add(pool.Balance, amount)
		return s.addTotal(principal, amount)
	})
}

// Withdraw removes amount from the balance of principal at target and records the change.
func (s *Service) Withdraw(principal, target hydra.Address, amount *big.Int, now uint64, locked bool) error {
	return s.update(principal, target, now, locked, func(pool *Pool, m *Member) error {
		if m.Balance.Cmp(amount) < 0 {
			return reverts.ErrInsufficientBalance
		}
		m.withdraw(pool.RPS, amount)
		pool.Balance = new(big.Int).Sub(pool.Balance, amount)
		return s.addTotal(principal, new(big.Int).Neg(amount))
	})
}

func (s *Service) update(principal, target hydra.Address, now uint64, locked bool, fn func(*Pool, *Member) error) error {
	key := PoolOf(principal, target)
	pool, err := s.Pool(key)
	if err != nil {
		return err
	}
	m, err := s.Member(principal, target)
	if err != nil {
		return err
	}
	if err := s.rebase(pool, m); err != nil {
		return err
	}
	if err := fn(pool, m); err != nil {
		return err
	}
	if err := s.pools.Set(key, pool); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	if err := s.setMember(principal, target, m); err != nil {
		return err
	}

	last, err := s.LastEpoch()
	if err != nil {
		return err
	}
	return s.history.RecordChange(principal, target, &history.Change{
		Epoch:      last + 1,
		Balance:    new(big.Int).Set(m.Balance),
		Correction: slots.NewInt(m.Correction.Big()),
		RPS:        new(big.Int).Set(pool.RPS),
		Timestamp:  now,
	}, locked)
}

func (s *Service) setMember(principal, target hydra.Address, m *Member) error {
	key := slots.PairKey{Principal: principal, Target: target}
	if m.IsEmpty() {
		s.members.Delete(key)
		return nil
	}
	if err := s.members.Set(key, m); err != nil {
		return errors.Wrap(err, "failed to set member")
	}
	return nil
}

func (s *Service) addTotal(principal hydra.Address, delta *big.Int) error {
	total, err := s.TotalBalance(principal)
	if err != nil {
		return err
	}
	total = new(big.Int).Add(total, delta)
	if total.Sign() == 0 {
		s.totals.Delete(principal)
		return nil
	}
	return s.totals.Set(principal, total)
}

func (s *Service) track(validator hydra.Address) error {
	ok, err := s.known.Get(validator)
	if err != nil || ok {
		return err
	}
	if err := s.known.Set(validator, true); err != nil {
		return err
	}
	return s.validators.Push(validator)
}

// Commission returns the commission percent of validator.
func (s *Service) Commission(validator hydra.Address) (uint64, error) {
	pool, err := s.Pool(history.PoolKey{Validator: validator})
	if err != nil {
		return 0, err
	}
	return pool.Commission, nil
}

func (s *Service) SetCommission(validator hydra.Address, percent uint64) error {
	if percent > hydra.MaxCommission {
		return reverts.ErrInvalidCommission
	}
	key := history.PoolKey{Validator: validator}
	pool, err := s.Pool(key)
	if err != nil {
		return err
	}
	pool.Commission = percent
	return s.pools.Set(key, pool)
}

// PendingBurn returns the burn amount not yet delivered to the burn sink.
func (s *Service) PendingBurn() (*big.Int, error) {
	return s.pendingBurn.Get()
}

func (s *Service) SetPendingBurn(amount *big.Int) {
	s.pendingBurn.Set(amount)
}

// CommitEpoch distributes total over the pools of shares. Epochs are strictly sequential.
func (s *Service) CommitEpoch(epoch, timestamp uint64, total *big.Int, shares []Share) (*Commit, error) {
	last, err := s.LastEpoch()
	if err != nil {
		return nil, err
	}
	if epoch != last+1 || total == nil || total.Sign() < 0 {
		return nil, reverts.ErrInvalidEpochCommit
	}

	sum := new(big.Int)
	seen := make(map[hydra.Address]bool, len(shares))
	for _, sh := range shares {
		if seen[sh.Validator] || sh.Weight == nil || sh.Weight.Sign() < 0 {
			return nil, reverts.ErrInvalidEpochCommit
		}
		seen[sh.Validator] = true
		sum.Add(sum, sh.Weight)
	}

	commit := &Commit{Epoch: epoch, Timestamp: timestamp, Distributed: new(big.Int), Withheld: new(big.Int).Set(total)}
	if sum.Sign() > 0 {
		for _, sh := range shares {
			share := new(big.Int).Mul(total, sh.Weight)
			share.Quo(share, sum)
			capped, err := s.apr.ApplyMaxReward(share)
			if err != nil {
				return nil, err
			}
			credited, err := s.distribute(sh.Validator, math.BigMin(share, capped))
			if err != nil {
				return nil, err
			}
			commit.Distributed.Add(commit.Distributed, credited)
		}
		commit.Withheld.Sub(commit.Withheld, commit.Distributed)
	}

	if err := s.checkpoint(epoch, timestamp); err != nil {
		return nil, err
	}
	if err := s.lastEpoch.Set(epoch); err != nil {
		return nil, err
	}
	logger.Debug("epoch distributed", "epoch", epoch, "distributed", commit.Distributed, "withheld", commit.Withheld)
	return commit, nil
}

// distribute credits reward to the two pools of validator and returns what members can claim.
func (s *Service) distribute(validator hydra.Address, reward *big.Int) (*big.Int, error) {
	stakeKey := history.PoolKey{Validator: validator}
	delKey := history.PoolKey{Validator: validator, Delegation: true}
	stake, err := s.Pool(stakeKey)
	if err != nil {
		return nil, err
	}
	del, err := s.Pool(delKey)
	if err != nil {
		return nil, err
	}

	balance := new(big.Int).Add(stake.Balance, del.Balance)
	if balance.Sign() == 0 || reward.Sign() == 0 {
		return new(big.Int), nil
	}
	stakePart := new(big.Int).Mul(reward, stake.Balance)
	stakePart.Quo(stakePart, balance)
	delPart := new(big.Int).Sub(reward, stakePart)

	if stake.Balance.Sign() > 0 && delPart.Sign() > 0 {
		commission := new(big.Int).Mul(delPart, new(big.Int).SetUint64(stake.Commission))
		commission.Quo(commission, big.NewInt(100))
		delPart.Sub(delPart, commission)
		stakePart.Add(stakePart, commission)
	}

	credited := new(big.Int)
	for _, p := range []struct {
		key  history.PoolKey
		pool *Pool
		part *big.Int
	}{{stakeKey, stake, stakePart}, {delKey, del, delPart}} {
		if p.pool.Balance.Sign() == 0 {
			continue
		}
		delta := new(big.Int).Mul(p.part, hydra.RewardPrecision)
		delta.Quo(delta, p.pool.Balance)
		p.pool.RPS = new(big.Int).Add(p.pool.RPS, delta)
		if err := s.pools.Set(p.key, p.pool); err != nil {
			return nil, errors.Wrap(err, "failed to set pool")
		}
		credited.Add(credited, new(big.Int).Quo(new(big.Int).Mul(delta, p.pool.Balance), hydra.RewardPrecision))
	}
	return credited, nil
}

// checkpoint records the rps of every pool holding balance at epoch.
func (s *Service) checkpoint(epoch, timestamp uint64) error {
	validators, err := s.validators.All()
	if err != nil {
		return errors.Wrap(err, "failed to get validators")
	}
	for _, v := range validators {
		for _, key := range []history.PoolKey{{Validator: v}, {Validator: v, Delegation: true}} {
			pool, err := s.Pool(key)
			if err != nil {
				return err
			}
			if pool.Balance.Sign() == 0 {
				continue
			}
			if err := s.history.RecordRPS(key, epoch, pool.RPS, timestamp); err != nil {
				return err
			}
		}
	}
	return nil
}
