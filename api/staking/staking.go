// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/api/restutil"
	"github.com/hydrachain/staker/apr"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/staker"
)

type Staking struct {
	staker *staker.Staker
}

func New(s *staker.Staker) *Staking {
	return &Staking{staker: s}
}

func (s *Staking) handleGetAPR(w http.ResponseWriter, _ *http.Request) error {
	params, err := s.staker.APR()
	if err != nil {
		return err
	}
	nom, den, err := s.staker.MaxAPR()
	if err != nil {
		return err
	}
	penaltyRate, liquidityRate, err := s.staker.PenaltyRates()
	if err != nil {
		return err
	}
	wait, err := s.staker.WithdrawalWaitPeriod()
	if err != nil {
		return err
	}
	burn, err := s.staker.PendingBurn()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &APR{
		Base:                     params.Base,
		Macro:                    params.Macro,
		RSI:                      params.RSI,
		Guard:                    params.Guard,
		MaxAPRNominator:          restutil.Amount(nom),
		MaxAPRDenominator:        restutil.Amount(den),
		MaxVestingBonus:          apr.MaxVestingBonus(),
		PenaltyDecreasePerWeek:   penaltyRate,
		LiquidityDecreasePerWeek: liquidityRate,
		WithdrawalWaitPeriod:     wait,
		PendingBurn:              restutil.Amount(burn),
	})
}

func (s *Staking) handleGetVestingBonus(w http.ResponseWriter, req *http.Request) error {
	weeks, err := restutil.ParseUint(mux.Vars(req)["weeks"], "weeks", 0)
	if err != nil {
		return err
	}
	if weeks == 0 || weeks > hydra.MaxWeeks {
		return restutil.BadRequest(errors.Errorf("weeks: must be within [1, %d]", hydra.MaxWeeks))
	}
	return restutil.WriteJSON(w, &VestingBonus{Weeks: weeks, Bonus: apr.VestingBonus(weeks)})
}

func (s *Staking) handleGetEpoch(w http.ResponseWriter, _ *http.Request) error {
	last, err := s.staker.LastEpoch()
	if err != nil {
		return err
	}
	addrs, err := s.staker.Validators()
	if err != nil {
		return err
	}
	validators := make([]*Validator, 0, len(addrs))
	for _, addr := range addrs {
		c, err := s.staker.Commission(addr)
		if err != nil {
			return err
		}
		validators = append(validators, &Validator{Address: addr, Commission: c})
	}
	return restutil.WriteJSON(w, &Epoch{LastEpoch: last, Validators: validators})
}

func parsePair(req *http.Request) (hydra.Address, hydra.Address, error) {
	principal, err := restutil.ParseAddressVar(req, "principal")
	if err != nil {
		return hydra.Address{}, hydra.Address{}, err
	}
	target, err := restutil.ParseAddressVar(req, "target")
	if err != nil {
		return hydra.Address{}, hydra.Address{}, err
	}
	return principal, target, nil
}

func (s *Staking) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	principal, target, err := parsePair(req)
	if err != nil {
		return err
	}
	now, err := restutil.ParseNow(req)
	if err != nil {
		return err
	}
	pos, err := s.staker.Position(principal, target)
	if err != nil {
		return err
	}
	balance, err := s.staker.Balance(principal, target)
	if err != nil {
		return err
	}
	pending, err := s.staker.PendingReward(principal, target)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Position{
		State:          pos.StateAt(now).String(),
		Start:          pos.Start,
		End:            pos.End,
		Weeks:          pos.Weeks(),
		Base:           pos.Base,
		VestBonus:      pos.VestBonus,
		RSI:            pos.RSI,
		RemainingWeeks: pos.RemainingWeeks(now),
		Balance:        restutil.Amount(balance),
		PendingReward:  restutil.Amount(pending),
	})
}

func (s *Staking) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	principal, target, err := parsePair(req)
	if err != nil {
		return err
	}
	query := req.URL.Query()
	epoch, err := restutil.ParseUint(query.Get("epoch"), "epoch", 0)
	if err != nil {
		return err
	}
	index, err := restutil.ParseUint(query.Get("index"), "index", 0)
	if err != nil {
		return err
	}
	now, err := restutil.ParseNow(req)
	if err != nil {
		return err
	}
	pending, err := s.staker.PendingReward(principal, target)
	if err != nil {
		return err
	}
	claimable, err := s.staker.CalculatePositionClaimableReward(principal, target, epoch, index, now)
	if err != nil {
		return err
	}
	total, err := s.staker.CalculatePositionTotalReward(principal, target, epoch, index, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Reward{
		Pending:   restutil.Amount(pending),
		Claimable: restutil.Amount(claimable),
		Total:     restutil.Amount(total),
	})
}

func (s *Staking) handleGetPenalty(w http.ResponseWriter, req *http.Request) error {
	principal, target, err := parsePair(req)
	if err != nil {
		return err
	}
	amount, err := restutil.ParseAmount(req.URL.Query().Get("amount"), "amount")
	if err != nil {
		return err
	}
	now, err := restutil.ParseNow(req)
	if err != nil {
		return err
	}
	res, err := s.staker.CalculatePenalty(principal, target, amount, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Penalty{
		Penalty:      restutil.Amount(res.Penalty),
		RewardToBurn: restutil.Amount(res.RewardToBurn),
	})
}

func (s *Staking) handleGetCheckpoints(w http.ResponseWriter, req *http.Request) error {
	principal, target, err := parsePair(req)
	if err != nil {
		return err
	}
	changes, err := s.staker.Checkpoints(principal, target)
	if err != nil {
		return err
	}
	list := make([]*Checkpoint, 0, len(changes))
	for i, c := range changes {
		list = append(list, &Checkpoint{
			Index:     uint64(i),
			Epoch:     c.Epoch,
			Balance:   restutil.Amount(c.Balance),
			RPS:       restutil.Amount(c.RPS),
			Timestamp: c.Timestamp,
		})
	}
	return restutil.WriteJSON(w, list)
}

func (s *Staking) handleGetWithdrawals(w http.ResponseWriter, req *http.Request) error {
	principal, err := restutil.ParseAddressVar(req, "principal")
	if err != nil {
		return err
	}
	pending, err := s.staker.PendingWithdrawals(principal)
	if err != nil {
		return err
	}
	total, err := s.staker.TotalBalance(principal)
	if err != nil {
		return err
	}
	debt, err := s.staker.Debt(principal)
	if err != nil {
		return err
	}
	res := &Withdrawals{
		TotalBalance: restutil.Amount(total),
		Debt:         restutil.Amount(debt),
		Pending:      make([]*Withdrawal, 0, len(pending)),
	}
	for _, wd := range pending {
		res.Pending = append(res.Pending, &Withdrawal{
			Target:   wd.Target,
			Amount:   restutil.Amount(wd.Amount),
			UnlockAt: wd.UnlockAt,
		})
	}
	return restutil.WriteJSON(w, res)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/apr").
		Methods(http.MethodGet).
		Name("GET /staker/apr").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetAPR))
	sub.Path("/apr/vesting-bonus/{weeks}").
		Methods(http.MethodGet).
		Name("GET /staker/apr/vesting-bonus/{weeks}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetVestingBonus))
	sub.Path("/epoch").
		Methods(http.MethodGet).
		Name("GET /staker/epoch").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetEpoch))
	sub.Path("/positions/{principal}/{target}").
		Methods(http.MethodGet).
		Name("GET /staker/positions/{principal}/{target}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPosition))
	sub.Path("/rewards/{principal}/{target}").
		Methods(http.MethodGet).
		Name("GET /staker/rewards/{principal}/{target}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetRewards))
	sub.Path("/penalty/{principal}/{target}").
		Methods(http.MethodGet).
		Name("GET /staker/penalty/{principal}/{target}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPenalty))
	sub.Path("/checkpoints/{principal}/{target}").
		Methods(http.MethodGet).
		Name("GET /staker/checkpoints/{principal}/{target}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetCheckpoints))
	sub.Path("/withdrawals/{principal}").
		Methods(http.MethodGet).
		Name("GET /staker/withdrawals/{principal}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetWithdrawals))
}
