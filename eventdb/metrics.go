// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/hydrachain/staker/metrics"
)

var (
	metricInserted         = metrics.LazyLoadCounter("eventdb_inserted_total")
	metricQueryParameters  = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricQueryOrder       = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"order"})
	metricQueryLimitBucket = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	params := ""
	add := func(p string) {
		if params != "" {
			params += ","
		}
		params += p
	}
	if filter.Principal != nil {
		add("principal")
	}
	if filter.Target != nil {
		add("target")
	}
	if filter.Name != "" {
		add("name")
	}
	if filter.Range != nil {
		add("range")
	}
	if params == "" {
		params = "none"
	}
	metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": params})

	order := string(filter.Order)
	if order == "" {
		order = string(ASC)
	}
	metricQueryOrder().AddWithLabel(1, map[string]string{"order": order})

	if filter.Options != nil {
		metricQueryLimitBucket().ObserveWithLabels(int64(filter.Options.Limit), map[string]string{"type": "event"})
	}
}
