// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/eventdb"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/staker"
)

var (
	alice = hydra.BytesToAddress([]byte("alice"))
	bob   = hydra.BytesToAddress([]byte("bob"))
	val   = hydra.BytesToAddress([]byte("validator"))
)

func newEvents() []*eventdb.Event {
	var events []*eventdb.Event
	for i := range 100 {
		principal := alice
		name := staker.EventDelegated
		if i%2 == 1 {
			principal = bob
			name = staker.EventRewardClaimed
		}
		events = append(events, &eventdb.Event{
			Name:      name,
			Principal: principal,
			Target:    val,
			Amount:    big.NewInt(int64(i)),
			Epoch:     uint64(i / 10),
			Timestamp: uint64(1000 + i),
			Data:      map[string]string{"i": big.NewInt(int64(i)).String()},
		})
	}
	return events
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Insert(newEvents()))
	require.NoError(t, db.Insert(nil))

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 100)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, big.NewInt(0), all[0].Amount)
	assert.Equal(t, "0", all[0].Data["i"])

	limit := uint64(5)
	got, err := db.Filter(context.Background(), &eventdb.Filter{
		Principal: &bob,
		Range:     &eventdb.Range{From: 1000, To: 1020},
		Order:     eventdb.DESC,
		Options:   &eventdb.Options{Offset: 0, Limit: limit},
	})
	require.NoError(t, err)
	require.Len(t, got, int(limit))
	assert.Equal(t, uint64(1019), got[0].Timestamp)
	for _, ev := range got {
		assert.Equal(t, bob, ev.Principal)
		assert.Equal(t, staker.EventRewardClaimed, ev.Name)
	}

	got, err = db.Filter(context.Background(), &eventdb.Filter{Name: staker.EventDelegated, Target: &val})
	require.NoError(t, err)
	assert.Len(t, got, 50)

	got, err = db.Filter(context.Background(), &eventdb.Filter{Range: &eventdb.Range{From: 1090}})
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestNilAmountAndData(t *testing.T) {
	db, err := eventdb.New(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Insert([]*eventdb.Event{{Name: staker.EventParameterUpdated, Principal: alice, Target: alice}}))
	got, err := db.Filter(context.Background(), &eventdb.Filter{Principal: &alice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Amount)
	assert.Nil(t, got[0].Data)
	assert.NotEmpty(t, db.DriverVersion())
}

func TestSink(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	sink := eventdb.NewSink(db)
	require.NoError(t, sink.Publish([]*staker.Event{
		{Name: staker.EventStaked, Principal: val, Target: val, Amount: big.NewInt(10), Timestamp: 7},
		{Name: staker.EventPositionOpened, Principal: alice, Target: val, Amount: big.NewInt(3), Data: map[string]string{"weeks": "4"}},
	}))

	got, err := db.Filter(context.Background(), &eventdb.Filter{Principal: &alice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].Data["weeks"])
	assert.Equal(t, big.NewInt(3), got[0].Amount)
}
