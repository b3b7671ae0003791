// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/metrics"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t, Options{EnableMetrics: true})

	ts.get(t, "/providers/length", nil)
	ts.get(t, "/providers/length", nil)
	ts.get(t, "/providers/0xabc", nil)
	ts.get(t, "/not/found", nil)

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.NoError(t, err)

	family, ok := families["taco_api_request_count"]
	require.True(t, ok)

	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		assert.Equal(t, http.MethodGet, labelValue(m, "method"))
		counts[labelValue(m, "name")+":"+labelValue(m, "code")] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"providers_get_length:200":   2,
		"providers_get_provider:400": 1,
	}, counts)
}
