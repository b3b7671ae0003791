// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package childapp

import "github.com/tacolabs/childapp/metrics"

var (
	metricStakingProviders = metrics.LazyLoadGauge("childapp_staking_providers_count")
	metricRegistryUpdates  = metrics.LazyLoadCounterVec("childapp_updates_count", []string{"kind"})
)
