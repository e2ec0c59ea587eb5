// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"strconv"

	"github.com/hydrachain/staker/hydra"
)

// Event names.
const (
	EventStaked               = "Staked"
	EventUnstaked             = "Unstaked"
	EventDelegated            = "Delegated"
	EventUndelegated          = "Undelegated"
	EventPositionOpened       = "PositionOpened"
	EventPositionSwapped      = "PositionSwapped"
	EventPositionClosed       = "PositionClosed"
	EventRewardClaimed        = "RewardClaimed"
	EventRewardBurned         = "RewardBurned"
	EventPenaltyApplied       = "PenaltyApplied"
	EventWithdrawalRegistered = "WithdrawalRegistered"
	EventWithdrawn            = "Withdrawn"
	EventEpochCommitted       = "EpochCommitted"
	EventCommissionUpdated    = "CommissionUpdated"
	EventParameterUpdated     = "ParameterUpdated"
	EventPriceUpdated         = "PriceUpdated"
)

// Event is emitted by a successful operation.
type Event struct {
	Name      string
	Principal hydra.Address
	Target    hydra.Address
	Amount    *big.Int
	Epoch     uint64
	Timestamp uint64
	Data      map[string]string
}

// events buffers the events of one operation.
type events struct {
	now  uint64
	list []*Event
}

func (e *events) emit(name string, principal, target hydra.Address, amount *big.Int, kv ...any) *Event {
	ev := &Event{
		Name:      name,
		Principal: principal,
		Target:    target,
		Amount:    amount,
		Timestamp: e.now,
	}
	if len(kv) > 0 {
		ev.Data = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			ev.Data[kv[i].(string)] = stringify(kv[i+1])
		}
	}
	e.list = append(e.list, ev)
	return ev
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case uint64:
		return strconv.FormatUint(x, 10)
	case *big.Int:
		return x.String()
	case hydra.Address:
		return x.String()
	case interface{ String() string }:
		return x.String()
	default:
		return ""
	}
}
