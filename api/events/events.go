// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/api/restutil"
	"github.com/hydrachain/staker/eventdb"
	"github.com/hydrachain/staker/hydra"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter := &eventdb.Filter{Name: query.Get("name")}

	if p := query.Get("principal"); p != "" {
		addr, err := hydra.ParseAddress(p)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "principal"))
		}
		filter.Principal = addr
	}
	switch order := eventdb.OrderType(query.Get("order")); order {
	case "", eventdb.ASC, eventdb.DESC:
		filter.Order = order
	default:
		return restutil.BadRequest(errors.Errorf("order: must be %s or %s", eventdb.ASC, eventdb.DESC))
	}

	limit, err := restutil.ParseUint(query.Get("limit"), "limit", e.limit)
	if err != nil {
		return err
	}
	if limit > e.limit {
		return restutil.Forbidden(errors.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	offset, err := restutil.ParseUint(query.Get("offset"), "offset", 0)
	if err != nil {
		return err
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}

	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = convertEvent(ev)
	}
	return restutil.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
