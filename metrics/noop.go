// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopMetrics is the service in place until prometheus is initialized.
type noopMetrics struct{}

// NoOp reports whether metrics collection is disabled. Callers use it to skip
// computing values that would be thrown away.
func NoOp() bool {
	_, ok := metrics.(*noopMetrics)
	return ok
}

func (*noopMetrics) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return noopMeter{} }

func (*noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return noopMeter{}
}

func (*noopMetrics) GetOrCreateCountMeter(string) CountMeter { return noopMeter{} }

func (*noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return noopMeter{} }

func (*noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter { return noopMeter{} }

func (*noopMetrics) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return noopMeter{} }

// GetOrCreateHandler answers 404 so a metrics listener started before
// initialization does not panic on a nil handler.
func (*noopMetrics) GetOrCreateHandler() http.Handler { return http.NotFoundHandler() }

// noopMeter satisfies every meter interface.
type noopMeter struct{}

func (noopMeter) Observe(int64)                              {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
func (noopMeter) Add(int64)                                  {}
func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) Set(int64)                                  {}
func (noopMeter) SetWithLabel(int64, map[string]string)      {}
