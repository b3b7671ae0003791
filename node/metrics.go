// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/tacolabs/childapp/metrics"

var (
	metricBlockCount = metrics.LazyLoadCounter("node_block_count")
	metricHeadNumber = metrics.LazyLoadGauge("node_head_number")
	metricStateCache = metrics.LazyLoadGaugeVec("node_state_cache_lookups", []string{"type"})
)
