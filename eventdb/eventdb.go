// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/log"
	"github.com/hydrachain/staker/staker"
)

var logger = log.WithContext("pkg", "eventdb")

const insertEvent = "INSERT INTO event(name, principal, target, amount, epoch, timestamp, data) VALUES (?, ?, ?, ?, ?, ?, ?)"

// EventDB stores the events of successful staker operations.
type EventDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New creates or opens the event db at path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

// Insert writes events in one sql transaction.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare(insertEvent)
	if err != nil {
		return err
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	txStmt := tx.Stmt(stmt)
	for _, ev := range events {
		var amount any
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		var data any
		if len(ev.Data) > 0 {
			enc, err := json.Marshal(ev.Data)
			if err != nil {
				tx.Rollback()
				return err
			}
			data = string(enc)
		}
		if _, err := txStmt.Exec(
			ev.Name,
			ev.Principal.Bytes(),
			ev.Target.Bytes(),
			amount,
			ev.Epoch,
			ev.Timestamp,
			data,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricInserted().Add(int64(len(events)))
	return nil
}

// Filter returns the events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const query = "SELECT seq, name, principal, target, amount, epoch, timestamp, data FROM event"
	if filter == nil {
		return db.query(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := query + " WHERE 1"
	if filter.Principal != nil {
		args = append(args, filter.Principal.Bytes())
		stmt += " AND principal = ?"
	}
	if filter.Target != nil {
		args = append(args, filter.Target.Bytes())
		stmt += " AND target = ?"
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND timestamp >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND timestamp <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev        Event
			principal []byte
			target    []byte
			amount    sql.NullString
			data      sql.NullString
		)
		if err := rows.Scan(&ev.Seq, &ev.Name, &principal, &target, &amount, &ev.Epoch, &ev.Timestamp, &data); err != nil {
			return nil, err
		}
		ev.Principal = hydra.BytesToAddress(principal)
		ev.Target = hydra.BytesToAddress(target)
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("event %d: bad amount %q", ev.Seq, amount.String)
			}
			ev.Amount = v
		}
		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &ev.Data); err != nil {
				return nil, errors.Wrapf(err, "event %d: bad data", ev.Seq)
			}
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Sink adapts the db to the staker event sink.
type Sink struct {
	db *EventDB
}

func NewSink(db *EventDB) *Sink {
	return &Sink{db: db}
}

func (s *Sink) Publish(events []*staker.Event) error {
	list := make([]*Event, 0, len(events))
	for _, ev := range events {
		list = append(list, fromStaker(ev))
	}
	if err := s.db.Insert(list); err != nil {
		logger.Warn("failed to store events", "count", len(list), "err", err)
		return err
	}
	return nil
}
