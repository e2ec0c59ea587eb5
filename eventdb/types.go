// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/staker"
)

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

// Range bounds the event timestamp, both ends inclusive.
// To is ignored when it is below From.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Nil fields match everything.
type Filter struct {
	Principal *hydra.Address `json:"principal"`
	Target    *hydra.Address `json:"target"`
	Name      string         `json:"name"`
	Range     *Range         `json:"range"`
	Order     OrderType      `json:"order"` // default asc
	Options   *Options       `json:"options"`
}

// Event is a stored staker event.
type Event struct {
	Seq       uint64
	Name      string
	Principal hydra.Address
	Target    hydra.Address
	Amount    *big.Int
	Epoch     uint64
	Timestamp uint64
	Data      map[string]string
}

func fromStaker(ev *staker.Event) *Event {
	return &Event{
		Name:      ev.Name,
		Principal: ev.Principal,
		Target:    ev.Target,
		Amount:    ev.Amount,
		Epoch:     ev.Epoch,
		Timestamp: ev.Timestamp,
		Data:      ev.Data,
	}
}
