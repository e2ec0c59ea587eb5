// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"math/big"
)

// Param is a tunable uint64 stored under its name, falling back to a default until set.
type Param struct {
	name         string
	defaultValue uint64
	slot         *Raw[*paramValue]
}

type paramValue struct {
	Value uint64
}

func NewParam(context *Context, name string, defaultValue uint64) *Param {
	return &Param{
		name:         name,
		defaultValue: defaultValue,
		slot:         NewRaw[*paramValue](context, Slot("param-"+name)),
	}
}

func (p *Param) Name() string {
	return p.name
}

func (p *Param) Get() (uint64, error) {
	v, err := p.slot.Get()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return p.defaultValue, nil
	}
	return v.Value, nil
}

// Big returns the value as *big.Int.
func (p *Param) Big() (*big.Int, error) {
	v, err := p.Get()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(v), nil
}

// Set stores the value, zero is a valid explicit value.
func (p *Param) Set(value uint64) error {
	return p.slot.Set(&paramValue{Value: value})
}

