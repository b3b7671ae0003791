// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	require.True(t, NoOp())

	// meters accept any labels without a backend behind them
	labels := map[string]string{"unknown": "label"}
	assert.NotPanics(t, func() {
		Counter("authorizations").Add(1)
		CounterVec("calls", []string{"method"}).AddWithLabel(1, labels)
		Gauge("providers").Set(3)
		Gauge("providers").Add(-1)
		GaugeVec("cohort", []string{"ritual"}).SetWithLabel(2, labels)
		Histogram("commit_ms", nil).Observe(12)
		HistogramVec("api_ms", []string{"route"}, nil).ObserveWithLabels(5, labels)
	})

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
