// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/hydrachain/staker/acl"
	"github.com/hydrachain/staker/apr"
	"github.com/hydrachain/staker/history"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/log"
	"github.com/hydrachain/staker/penalty"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/rewards"
	"github.com/hydrachain/staker/slots"
	"github.com/hydrachain/staker/state"
	"github.com/hydrachain/staker/vesting"
)

var logger = log.WithContext("pkg", "staker")

// Address is the storage namespace of the staker.
var Address = slots.NamespaceOf("staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker is the entry point of every staking, delegation and reward operation.
// Operations are serialized and either fully applied or reverted.
type Staker struct {
	mu    sync.RWMutex
	state *state.State
	cfg   Config
	deps  Deps

	acl     *acl.Service
	apr     *apr.Service
	vesting *vesting.Service
	history *history.Service
	rewards *rewards.Service
	penalty *penalty.Service

	waitPeriod  *slots.Param
	withdrawals *slots.Mapping[hydra.Address, *queue]
}

// New creates a staker over st. All collaborators except the sink are required.
func New(st *state.State, cfg Config, deps Deps) (*Staker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if deps.Registry == nil || deps.Liquid == nil || deps.Wallet == nil || deps.Vault == nil {
		return nil, errors.New("missing staker collaborator")
	}
	sctx := slots.NewContext(Address, st)
	aprService := apr.New(sctx)
	historyService := history.New(sctx)
	return &Staker{
		state:       st,
		cfg:         cfg,
		deps:        deps,
		acl:         acl.New(sctx),
		apr:         aprService,
		vesting:     vesting.New(sctx),
		history:     historyService,
		rewards:     rewards.New(sctx, aprService, historyService),
		penalty:     penalty.New(sctx),
		waitPeriod:  slots.NewParam(sctx, "withdrawal-wait-period", cfg.WithdrawalWaitPeriod),
		withdrawals: slots.NewMapping[hydra.Address, *queue](sctx, slotWithdrawals),
	}, nil
}

// ACL exposes the role table.
func (s *Staker) ACL() *acl.Service {
	return s.acl
}

// Initialize seeds the roles and writes the configured parameters. It runs once.
func (s *Staker) Initialize(governance, manager, system hydra.Address) error {
	return s.exec("initialize", governance, 0, func(_ *events) error {
		if err := s.acl.Initialize(governance, manager, system); err != nil {
			return err
		}
		if err := s.apr.SetBase(s.cfg.BaseAPR); err != nil {
			return err
		}
		if err := s.apr.SetMacro(s.cfg.MacroFactor); err != nil {
			return err
		}
		if _, err := s.apr.SetRSI(s.cfg.RSIBonus); err != nil {
			return err
		}
		if err := s.penalty.SetPenaltyDecreasePerWeek(s.cfg.PenaltyDecreasePerWeek); err != nil {
			return err
		}
		if err := s.penalty.SetVestingLiquidityDecreasePerWeek(s.cfg.LiquidityDecreasePerWeek); err != nil {
			return err
		}
		return s.waitPeriod.Set(s.cfg.WithdrawalWaitPeriod)
	})
}

// exec runs fn as one transaction: the state is reverted and the events dropped on error.
func (s *Staker) exec(op string, caller hydra.Address, now uint64, fn func(*events) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug(op, "caller", caller, "now", now)
	rev := s.state.NewCheckpoint()
	evs := &events{now: now}
	if err := fn(evs); err != nil {
		s.state.RevertTo(rev)
		result := "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": result})
		logger.Info(op+" failed", "caller", caller, "err", err)
		return err
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	logger.Info(op, "caller", caller, "events", len(evs.list))

	if s.deps.Sink != nil && len(evs.list) > 0 {
		if err := s.deps.Sink.Publish(evs.list); err != nil {
			logger.Warn("failed to publish events", "op", op, "err", err)
		}
	}
	return nil
}

func (s *Staker) checkRole(caller hydra.Address, role acl.Role) error {
	return s.acl.Check(caller, role)
}

func (s *Staker) checkValidator(validator hydra.Address) error {
	active, err := s.deps.Registry.IsActive(validator)
	if err != nil {
		return errors.Wrap(err, "failed to get validator status")
	}
	if !active {
		return reverts.ErrValidatorInactive
	}
	return nil
}

//
// Getters - no state change
//

func (s *Staker) Position(principal, target hydra.Address) (*vesting.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vesting.Get(principal, target)
}

func (s *Staker) PositionState(principal, target hydra.Address, now uint64) (vesting.State, error) {
	pos, err := s.Position(principal, target)
	if err != nil {
		return vesting.StateNone, err
	}
	return pos.StateAt(now), nil
}

func (s *Staker) Balance(principal, target hydra.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.Balance(principal, target)
}

func (s *Staker) TotalBalance(principal hydra.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.TotalBalance(principal)
}

// PendingReward returns the raw reward of principal at target not claimed yet.
func (s *Staker) PendingReward(principal, target hydra.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.Unclaimed(principal, target)
}

// Debt returns the liquid token debt of principal.
func (s *Staker) Debt(principal hydra.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vesting.Debt(principal)
}

// CalculateOwedLiquidTokens returns the liquid tokens backing amount of the stake of principal.
func (s *Staker) CalculateOwedLiquidTokens(principal hydra.Address, amount *big.Int) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, err := s.rewards.TotalBalance(principal)
	if err != nil {
		return nil, err
	}
	return s.vesting.CalculateOwedLiquidTokens(principal, amount, total)
}

// CalculatePenalty previews the cost of removing amount from principal at target at now.
func (s *Staker) CalculatePenalty(principal, target hydra.Address, amount *big.Int, now uint64) (*penalty.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, err := s.vesting.Get(principal, target)
	if err != nil {
		return nil, err
	}
	balance, err := s.rewards.Balance(principal, target)
	if err != nil {
		return nil, err
	}
	unclaimed, err := s.rewards.Unclaimed(principal, target)
	if err != nil {
		return nil, err
	}
	return s.penalty.Calculate(pos, now, amount, balance, unclaimed)
}

// Checkpoints returns the balance changes of principal at target in the running cycle.
func (s *Staker) Checkpoints(principal, target hydra.Address) ([]*history.Change, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Changes(principal, target)
}

// RPSAt returns the rps committed at epoch for the pool principal joins at target.
func (s *Staker) RPSAt(principal, target hydra.Address, epoch uint64) (*history.RPSPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.RPSAt(rewards.PoolOf(principal, target), epoch)
}

func (s *Staker) LastEpoch() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.LastEpoch()
}

func (s *Staker) Validators() ([]hydra.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.Validators()
}

func (s *Staker) Commission(validator hydra.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.Commission(validator)
}

func (s *Staker) APR() (*apr.Params, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apr.Params()
}

func (s *Staker) MaxAPR() (*big.Int, *big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apr.MaxAPR()
}

func (s *Staker) EpochMaxReward(totalStaked *big.Int) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apr.EpochMaxReward(totalStaked)
}

func (s *Staker) Prices() ([]*apr.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apr.Prices()
}

// PenaltyRates returns the penalty and liquidity decrease per week.
func (s *Staker) PenaltyRates() (uint64, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.penalty.PenaltyDecreasePerWeek()
	if err != nil {
		return 0, 0, err
	}
	l, err := s.penalty.VestingLiquidityDecreasePerWeek()
	return p, l, err
}

func (s *Staker) WithdrawalWaitPeriod() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waitPeriod.Get()
}

// PendingBurn returns the reward burn that could not be delivered yet.
func (s *Staker) PendingBurn() (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewards.PendingBurn()
}
