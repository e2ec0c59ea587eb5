// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"encoding/binary"
	"math/big"

	"github.com/hydrachain/staker/hydra"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key is a mapping key for counters such as epochs and days.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// PairKey keys ledger entries of a principal against a target.
type PairKey struct {
	Principal hydra.Address
	Target    hydra.Address
}

func (k PairKey) Bytes() []byte {
	return append(k.Principal.Bytes(), k.Target.Bytes()...)
}

// Int is a signed big integer that survives rlp encoding.
type Int struct {
	Neg bool
	Abs *big.Int
}

// NewInt copies x into an Int.
func NewInt(x *big.Int) Int {
	if x == nil {
		return Int{Abs: new(big.Int)}
	}
	return Int{Neg: x.Sign() < 0, Abs: new(big.Int).Abs(x)}
}

// Big returns the value as a new big.Int.
func (i Int) Big() *big.Int {
	if i.Abs == nil {
		return new(big.Int)
	}
	v := new(big.Int).Set(i.Abs)
	if i.Neg {
		v.Neg(v)
	}
	return v
}
