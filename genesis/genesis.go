// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/staker"
)

// Genesis is the initial state of a staker deployment.
type Genesis struct {
	Governance hydra.Address    `yaml:"governance"`
	Manager    hydra.Address    `yaml:"manager"`
	System     hydra.Address    `yaml:"system"`
	Validators []Validator      `yaml:"validators"`
	Accounts   []Account        `yaml:"accounts"`
	RewardFund *HexOrDecimal256 `yaml:"rewardFund"`
	Params     Params           `yaml:"params"`
}

// Validator is whitelisted and registered at genesis.
type Validator struct {
	Address    hydra.Address `yaml:"address"`
	Commission uint64        `yaml:"commission"`
}

// Account is credited with coins at genesis.
type Account struct {
	Address hydra.Address    `yaml:"address"`
	Balance *HexOrDecimal256 `yaml:"balance"`
}

// Params overrides the default staker config. Unset fields keep the default.
type Params struct {
	MinStake                 *HexOrDecimal256 `yaml:"minStake"`
	MinDelegation            *HexOrDecimal256 `yaml:"minDelegation"`
	WithdrawalWaitPeriod     *uint64          `yaml:"withdrawalWaitPeriod"`
	BaseAPR                  *uint64          `yaml:"baseApr"`
	MacroFactor              *uint64          `yaml:"macroFactor"`
	RSIBonus                 *uint64          `yaml:"rsiBonus"`
	PenaltyDecreasePerWeek   *uint64          `yaml:"penaltyDecreasePerWeek"`
	LiquidityDecreasePerWeek *uint64          `yaml:"liquidityDecreasePerWeek"`
}

// Config returns the default staker config with the overrides applied.
func (p *Params) Config() staker.Config {
	cfg := staker.DefaultConfig()
	if p.MinStake != nil {
		cfg.MinStake = p.MinStake.Big()
	}
	if p.MinDelegation != nil {
		cfg.MinDelegation = p.MinDelegation.Big()
	}
	for _, o := range []struct {
		v   *uint64
		dst *uint64
	}{
		{p.WithdrawalWaitPeriod, &cfg.WithdrawalWaitPeriod},
		{p.BaseAPR, &cfg.BaseAPR},
		{p.MacroFactor, &cfg.MacroFactor},
		{p.RSIBonus, &cfg.RSIBonus},
		{p.PenaltyDecreasePerWeek, &cfg.PenaltyDecreasePerWeek},
		{p.LiquidityDecreasePerWeek, &cfg.LiquidityDecreasePerWeek},
	} {
		if o.v != nil {
			*o.dst = *o.v
		}
	}
	return cfg
}

// Load reads a yaml genesis file. Unknown fields are rejected.
func Load(path string) (*Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrapf(err, "decode genesis %s", path)
	}
	return &gen, nil
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Big returns a copy of the value, zero for nil.
func (i *HexOrDecimal256) Big() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", s)
	}
	*i = HexOrDecimal256(*v)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (i HexOrDecimal256) MarshalYAML() (any, error) {
	return (*big.Int)(&i).String(), nil
}
