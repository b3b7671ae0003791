// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tacolabs/childapp/log"
)

type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger                     { return m }
func (m *mockLogger) New(_ ...any) log.Logger                      { return m }
func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any)         {}
func (m *mockLogger) Trace(_ string, _ ...any)                     {}
func (m *mockLogger) Debug(_ string, _ ...any)                     {}
func (m *mockLogger) Error(_ string, _ ...any)                     {}
func (m *mockLogger) Crit(_ string, _ ...any)                      {}
func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any)       {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Handler() slog.Handler                        { return nil }

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func TestRequestLoggerMiddleware(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(15 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}
	failing := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	badRequest := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		log5xx    bool
		shouldLog bool
	}{
		{"enabled", ok, true, 0, false, true},
		{"disabled", ok, false, 0, false, false},
		{"slow query", slow, false, 10 * time.Millisecond, false, true},
		{"fast query under threshold", ok, false, 200 * time.Millisecond, false, false},
		{"5xx logged", failing, false, 0, true, true},
		{"5xx not logged", failing, false, 0, false, false},
		{"4xx never logged", badRequest, false, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(mockLog, &enabled, tt.threshold, tt.log5xx)(tt.handler)

			reqBody := `{"caller":"0x00"}`
			req := httptest.NewRequest(http.MethodPost, "http://example.com/transactions", strings.NewReader(reqBody))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if !tt.shouldLog {
				assert.Empty(t, mockLog.loggedData)
				return
			}
			assert.Contains(t, mockLog.loggedData, "http://example.com/transactions")
			assert.Contains(t, mockLog.loggedData, http.MethodPost)
			assert.Contains(t, mockLog.loggedData, reqBody)
			assert.Contains(t, mockLog.loggedData, rr.Code)
		})
	}
}
