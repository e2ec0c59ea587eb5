// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/hydrachain/staker/api/restutil"
	"github.com/hydrachain/staker/eventdb"
	"github.com/hydrachain/staker/hydra"
)

type FilteredEvent struct {
	Seq       uint64                `json:"seq"`
	Name      string                `json:"name"`
	Principal hydra.Address         `json:"principal"`
	Target    hydra.Address         `json:"target"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	Epoch     uint64                `json:"epoch"`
	Timestamp uint64                `json:"timestamp"`
	Data      map[string]string     `json:"data,omitempty"`
}

func convertEvent(ev *eventdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Seq:       ev.Seq,
		Name:      ev.Name,
		Principal: ev.Principal,
		Target:    ev.Target,
		Epoch:     ev.Epoch,
		Timestamp: ev.Timestamp,
		Data:      ev.Data,
	}
	if ev.Amount != nil {
		fe.Amount = restutil.Amount(ev.Amount)
	}
	return fe
}
