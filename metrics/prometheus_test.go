// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

// sumOf adds the value of every series in the family.
func sumOf(mf *dto.MetricFamily) (sum float64) {
	for _, m := range mf.Metric {
		switch {
		case m.Counter != nil:
			sum += m.Counter.GetValue()
		case m.Gauge != nil:
			sum += m.Gauge.GetValue()
		case m.Histogram != nil:
			sum += m.Histogram.GetSampleSum()
		}
	}
	return
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	side := func(i int) map[string]string {
		if i%2 == 0 {
			return map[string]string{"side": "even"}
		}
		return map[string]string{"side": "odd"}
	}

	Counter("prom_count").Add(1)
	for range 9 {
		Counter("prom_count_repeat").Add(1)
	}
	countVec := CounterVec("prom_count_vec", []string{"side"})
	gauge := Gauge("prom_gauge")
	gaugeVec := GaugeVec("prom_gauge_vec", []string{"side"})
	hist := Histogram("prom_hist", nil)
	histVec := HistogramVec("prom_hist_vec", []string{"side"}, Bucket10s)

	total := 0
	for i := range 10 {
		countVec.AddWithLabel(int64(i), side(i))
		gauge.Add(int64(i))
		gaugeVec.AddWithLabel(int64(i), side(i))
		hist.Observe(int64(i))
		histVec.ObserveWithLabels(int64(i), side(i))
		total += i
	}

	families := gather(t)
	require.Equal(t, float64(1), sumOf(families["taco_prom_count"]))
	require.Equal(t, float64(9), sumOf(families["taco_prom_count_repeat"]))
	for _, name := range []string{"prom_count_vec", "prom_gauge", "prom_gauge_vec", "prom_hist", "prom_hist_vec"} {
		require.Equal(t, float64(total), sumOf(families["taco_"+name]), name)
	}
	require.Len(t, families["taco_prom_count_vec"].Metric, 2)
	require.Len(t, families["taco_prom_hist_vec"].Metric[0].Histogram.Bucket, len(Bucket10s))
}

func TestLazyLoading(t *testing.T) {
	metrics = &noopMetrics{}

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, noopMeter{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}

func TestRegisterReusesCollector(t *testing.T) {
	metrics = &prometheusMetrics{meters: make(map[string]any)}
	first := Counter("reused_counter")

	// a fresh backend registers the same descriptor again
	metrics = &prometheusMetrics{meters: make(map[string]any)}
	second := Counter("reused_counter")

	first.Add(2)
	second.Add(3)

	require.Same(t, first.(*promCountMeter).c, second.(*promCountMeter).c)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "taco_reused_counter" {
			require.Equal(t, float64(5), mf.Metric[0].GetCounter().GetValue())
			return
		}
	}
	t.Fatal("taco_reused_counter not gathered")
}
