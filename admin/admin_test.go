// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacolabs/childapp/health"
	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/taco"
)

type source struct {
	offset time.Duration
}

func (s *source) GenesisID() taco.Bytes32            { return taco.Bytes32{} }
func (s *source) Head() node.Block                   { return node.Block{Number: 7} }
func (s *source) ClockOffset() (time.Duration, bool) { return s.offset, true }

func serve(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)
	h := HTTPHandler(&logLevel, new(atomic.Bool), nil)

	rr := serve(t, h, http.MethodGet, "/admin/loglevel", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "info", res.CurrentLevel)

	rr = serve(t, h, http.MethodPost, "/admin/loglevel", []byte(`{"level":"debug"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "debug", res.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	rr = serve(t, h, http.MethodPost, "/admin/loglevel", []byte(`{"level":"invalid_body"}`))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errRes errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errRes))
	assert.Equal(t, "Invalid verbosity level", errRes.ErrorMessage)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	rr = serve(t, h, http.MethodPost, "/admin/loglevel", []byte(`{`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(t, h, http.MethodDelete, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestAPILogs(t *testing.T) {
	var logLevel slog.LevelVar
	apiLogs := new(atomic.Bool)
	h := HTTPHandler(&logLevel, apiLogs, nil)

	rr := serve(t, h, http.MethodPost, "/admin/apilogs", []byte(`{"enabled":true}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, apiLogs.Load())

	rr = serve(t, h, http.MethodGet, "/admin/apilogs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res apiLogsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Enabled)

	rr = serve(t, h, http.MethodPut, "/admin/apilogs", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	var errRes errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errRes))
	assert.Equal(t, "method not allowed", errRes.ErrorMessage)

	rr = serve(t, h, http.MethodGet, "/admin/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealth(t *testing.T) {
	var logLevel slog.LevelVar
	src := &source{}
	h := HTTPHandler(&logLevel, new(atomic.Bool), health.New(src))

	rr := serve(t, h, http.MethodGet, "/admin/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var status health.Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(7), status.Head.Number)

	src.offset = time.Hour
	rr = serve(t, h, http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = serve(t, HTTPHandler(&logLevel, new(atomic.Bool), nil), http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
