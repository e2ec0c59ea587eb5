// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hydrachain/staker/genesis"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/staker"
)

// Script is an ordered list of operations.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Share is the weight of a validator in a committed epoch.
type Share struct {
	Validator hydra.Address            `yaml:"validator"`
	Weight    *genesis.HexOrDecimal256 `yaml:"weight"`
}

// Step is one operation. Fields not used by Op are ignored.
type Step struct {
	Op        string                   `yaml:"op"`
	Caller    hydra.Address            `yaml:"caller"`
	Target    hydra.Address            `yaml:"target"`
	NewTarget hydra.Address            `yaml:"newTarget"`
	Amount    *genesis.HexOrDecimal256 `yaml:"amount"`
	Weeks     uint64                   `yaml:"weeks"`
	Epoch     uint64                   `yaml:"epoch"`
	Index     uint64                   `yaml:"index"`
	Day       uint64                   `yaml:"day"`
	Value     uint64                   `yaml:"value"`
	Now       uint64                   `yaml:"now"`
	Shares    []Share                  `yaml:"shares"`
}

// LoadScript reads a yaml script. Unknown fields are rejected.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var script Script
	if err := dec.Decode(&script); err != nil {
		return nil, errors.Wrapf(err, "decode script %s", path)
	}
	for i, step := range script.Steps {
		if _, ok := operations[step.Op]; !ok {
			return nil, errors.Errorf("step %d: unknown op %q", i, step.Op)
		}
	}
	return &script, nil
}

func (s *Step) amount() *big.Int {
	return s.Amount.Big()
}

func (s *Step) shares() []staker.Share {
	out := make([]staker.Share, 0, len(s.Shares))
	for _, sh := range s.Shares {
		out = append(out, staker.Share{Validator: sh.Validator, Weight: sh.Weight.Big()})
	}
	return out
}

type operation func(c *genesis.Components, s *Step) error

func discard[T any](_ T, err error) error {
	return err
}

var operations = map[string]operation{
	"whitelist": func(c *genesis.Components, s *Step) error {
		return c.Registry.Whitelist(s.Caller, s.Target)
	},
	"register": func(c *genesis.Components, s *Step) error {
		return c.Registry.Register(s.Caller)
	},
	"ban": func(c *genesis.Components, s *Step) error {
		return c.Registry.Ban(s.Caller, s.Target)
	},
	"stake": func(c *genesis.Components, s *Step) error {
		if s.Weeks > 0 {
			return c.Staker.StakeWithVesting(s.Caller, s.amount(), s.Weeks, s.Now)
		}
		return c.Staker.Stake(s.Caller, s.amount(), s.Now)
	},
	"unstake": func(c *genesis.Components, s *Step) error {
		return c.Staker.Unstake(s.Caller, s.amount(), s.Now)
	},
	"delegate": func(c *genesis.Components, s *Step) error {
		if s.Weeks > 0 {
			return c.Staker.DelegateWithVesting(s.Caller, s.Target, s.amount(), s.Weeks, s.Now)
		}
		return c.Staker.Delegate(s.Caller, s.Target, s.amount(), s.Now)
	},
	"undelegate": func(c *genesis.Components, s *Step) error {
		return c.Staker.Undelegate(s.Caller, s.Target, s.amount(), s.Now)
	},
	"swap": func(c *genesis.Components, s *Step) error {
		return c.Staker.SwapVestedPositionValidator(s.Caller, s.Target, s.NewTarget, s.Now)
	},
	"set-commission": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetCommission(s.Caller, s.Value, s.Now)
	},
	"commit": func(c *genesis.Components, s *Step) error {
		return discard(c.Staker.CommitEpoch(s.Caller, s.Epoch, s.Now, s.amount(), s.shares()))
	},
	"claim": func(c *genesis.Components, s *Step) error {
		if s.Index > 0 || s.Epoch > 0 {
			return discard(c.Staker.ClaimPositionReward(s.Caller, s.Target, s.Epoch, s.Index, s.Now))
		}
		return discard(c.Staker.ClaimReward(s.Caller, s.Target, s.Now))
	},
	"withdraw": func(c *genesis.Components, s *Step) error {
		return discard(c.Staker.Withdraw(s.Caller, s.Now))
	},
	"update-price": func(c *genesis.Components, s *Step) error {
		return c.Staker.UpdatePrice(s.Caller, s.Day, s.amount(), s.Now)
	},
	"set-base": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetBase(s.Caller, s.Value, s.Now)
	},
	"set-macro": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetMacro(s.Caller, s.Value, s.Now)
	},
	"set-rsi": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetRSI(s.Caller, s.Value, s.Now)
	},
	"guard-bonuses": func(c *genesis.Components, s *Step) error {
		return c.Staker.GuardBonuses(s.Caller, s.Now)
	},
	"disable-guard": func(c *genesis.Components, s *Step) error {
		return c.Staker.DisableGuard(s.Caller, s.Now)
	},
	"set-penalty-rate": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetPenaltyDecreasePerWeek(s.Caller, s.Value, s.Now)
	},
	"set-liquidity-rate": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetVestingLiquidityDecreasePerWeek(s.Caller, s.Value, s.Now)
	},
	"set-wait-period": func(c *genesis.Components, s *Step) error {
		return c.Staker.SetWithdrawalWaitPeriod(s.Caller, s.Value, s.Now)
	},
}
