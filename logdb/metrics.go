// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strconv"
	"strings"

	"github.com/tacolabs/childapp/metrics"
)

var (
	metricCriteriaLength = metrics.LazyLoadHistogram("logdb_criteria_length", []int64{0, 1, 2, 5, 10, 25, 100})
	metricQueryParams    = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"parameters"})
	metricQueryOrder     = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order"})
	metricLimitBucket    = metrics.LazyLoadHistogram("logdb_query_limit", []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}

	metricCriteriaLength().Observe(int64(len(filter.CriteriaSet)))
	order := ASC
	if filter.Order == DESC {
		order = DESC
	}
	metricQueryOrder().AddWithLabel(1, map[string]string{"order": string(order)})

	if filter.Options != nil {
		limit := filter.Options.Limit
		if limit > 1000 {
			limit = 1001
		}
		metricLimitBucket().Observe(int64(limit))
	}

	for _, c := range filter.CriteriaSet {
		var used []string
		if c.Address != nil {
			used = append(used, "address")
		}
		for i, topic := range c.Topics {
			if topic != nil {
				used = append(used, "topic"+strconv.Itoa(i))
			}
		}
		metricQueryParams().AddWithLabel(1, map[string]string{"parameters": strings.Join(used, ",")})
	}
}
