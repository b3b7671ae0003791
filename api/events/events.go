// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/api/utils"
	"github.com/tacolabs/childapp/logdb"
	"github.com/tacolabs/childapp/taco"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// ParseCriteria reads address and topic0..topic4 from the query, nil if none given.
func ParseCriteria(query url.Values) (*logdb.EventCriteria, error) {
	var (
		criteria logdb.EventCriteria
		given    bool
	)
	if s := query.Get("address"); s != "" {
		addr, err := taco.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "address")
		}
		criteria.Address = &addr
		given = true
	}
	for i := range criteria.Topics {
		name := fmt.Sprintf("topic%d", i)
		if s := query.Get(name); s != "" {
			topic, err := taco.ParseBytes32(s)
			if err != nil {
				return nil, errors.WithMessage(err, name)
			}
			criteria.Topics[i] = &topic
			given = true
		}
	}
	if !given {
		return nil, nil
	}
	return &criteria, nil
}

func (e *Events) parseFilter(query url.Values) (*logdb.EventFilter, error) {
	var filter logdb.EventFilter

	criteria, err := ParseCriteria(query)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	if criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{criteria}
	}

	from, err := utils.QueryUint(query, "from", 32, 0)
	if err != nil {
		return nil, err
	}
	to, err := utils.QueryUint(query, "to", 32, uint64(^uint32(0)))
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, utils.BadRequest(errors.New("from must not be greater than to"))
	}
	filter.Range = &logdb.Range{From: uint32(from), To: uint32(to)}

	offset, err := utils.QueryUint(query, "offset", 64, 0)
	if err != nil {
		return nil, err
	}
	limit, err := utils.QueryUint(query, "limit", 64, e.limit)
	if err != nil {
		return nil, err
	}
	if limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	filter.Options = &logdb.Options{Offset: offset, Limit: limit}

	switch order := logdb.Order(query.Get("order")); order {
	case "", logdb.ASC:
		filter.Order = logdb.ASC
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unknown value %q", order))
	}
	return &filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	result := make([]*FilteredEvent, 0, len(events))
	for _, ev := range events {
		result = append(result, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, result)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("logs_filter_event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
