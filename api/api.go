// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/tacolabs/childapp/api/bridge"
	"github.com/tacolabs/childapp/api/events"
	"github.com/tacolabs/childapp/api/middleware"
	apinode "github.com/tacolabs/childapp/api/node"
	"github.com/tacolabs/childapp/api/providers"
	"github.com/tacolabs/childapp/api/subscriptions"
	"github.com/tacolabs/childapp/api/transactions"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	Name                 string
	AllowedOrigins       string
	BacktraceLimit       uint32
	LogsLimit            uint64
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	providers.New(n).
		Mount(router, "/providers", "/operators")
	transactions.New(n).
		Mount(router, "/transactions", "/calls")
	events.New(n.LogDB(), opts.LogsLimit).
		Mount(router, "/logs/event")
	bridge.New(n).
		Mount(router, "/bridge")
	apinode.New(n, opts.Name).
		Mount(router, "/node")
	subs := subscriptions.New(n, n.LogDB(), origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	genesisID := n.GenesisID().String()
	handler = withGenesisID(handler, genesisID)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

// withGenesisID stamps responses with the genesis id, and refuses requests expecting another network.
func withGenesisID(h http.Handler, genesisID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actual := r.Header.Get("x-genesis-id"); actual != "" && !strings.EqualFold(actual, genesisID) {
			w.Header().Set("x-genesis-id", genesisID)
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		w.Header().Set("x-genesis-id", genesisID)
		h.ServeHTTP(w, r)
	})
}
