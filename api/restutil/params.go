// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
)

// Clock returns the current unix time. Tests replace it.
var Clock = func() uint64 { return uint64(time.Now().Unix()) }

// ParseAddressVar reads an address path variable.
func ParseAddressVar(req *http.Request, name string) (hydra.Address, error) {
	addr, err := hydra.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return hydra.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// ParseUint reads an unsigned integer, falling back to def when s is empty.
func ParseUint(s, name string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParseAmount reads a required hex or decimal 256 bit amount.
func ParseAmount(s, name string) (*big.Int, error) {
	if s == "" {
		return nil, BadRequest(errors.Errorf("%s: required", name))
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: invalid amount", name))
	}
	return v, nil
}

// ParseNow reads the optional now query parameter, defaulting to Clock.
func ParseNow(req *http.Request) (uint64, error) {
	return ParseUint(req.URL.Query().Get("now"), "now", Clock())
}

// Amount converts v for json output.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
