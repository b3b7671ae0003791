// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/co"
	"github.com/tacolabs/childapp/health"
)

// HTTPHandler serves the operator endpoints under /admin.
func HTTPHandler(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("admin_get_log_level").
		HandlerFunc(getLogLevelHandler(logLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("admin_post_log_level").
		HandlerFunc(postLogLevelHandler(logLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("admin_get_api_logs").
		HandlerFunc(getAPILogsHandler(apiLogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("admin_post_api_logs").
		HandlerFunc(postAPILogsHandler(apiLogs))
	if h != nil {
		sub.Path("/health").
			Methods(http.MethodGet).
			Name("admin_get_health").
			HandlerFunc(healthHandler(h))
	}
	// the subrouter answers its own method mismatches
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.MethodNotAllowedHandler = notAllowed
	sub.MethodNotAllowedHandler = notAllowed
	return handlers.CompressHandler(router)
}

func StartServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{
		Handler:           HTTPHandler(logLevel, apiLogs, h),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
