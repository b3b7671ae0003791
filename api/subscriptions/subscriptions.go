// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/api/events"
	"github.com/tacolabs/childapp/api/utils"
	"github.com/tacolabs/childapp/co"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/logdb"
	"github.com/tacolabs/childapp/node"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	// queued block events per subscriber, a subscriber falling behind is dropped
	listenerBuffer = 64
)

// EventSource is implemented by node.Node.
type EventSource interface {
	SubscribeEvents(ch chan<- *node.BlockEvents) event.Subscription
	Head() node.Block
}

type listener struct {
	ch   chan *node.BlockEvents
	slow chan struct{}
}

type Subscriptions struct {
	source         EventSource
	logDB          *logdb.LogDB
	backtraceLimit uint32
	upgrader       *websocket.Upgrader

	mu        sync.Mutex
	listeners map[*listener]struct{}
	done      chan struct{}
	goes      co.Goes
}

func New(source EventSource, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	s := &Subscriptions{
		source:         source,
		logDB:          logDB,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin || allowedOrigin == "*" {
						return true
					}
				}
				return false
			},
		},
		listeners: make(map[*listener]struct{}),
		done:      make(chan struct{}),
	}

	ch := make(chan *node.BlockEvents, listenerBuffer)
	feedSub := source.SubscribeEvents(ch)
	s.goes.Go(func() {
		defer feedSub.Unsubscribe()
		s.dispatchLoop(ch, feedSub.Err())
	})
	return s
}

func (s *Subscriptions) dispatchLoop(ch <-chan *node.BlockEvents, errCh <-chan error) {
	for {
		select {
		case be := <-ch:
			s.broadcast(be)
		case <-errCh:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Subscriptions) broadcast(be *node.BlockEvents) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for l := range s.listeners {
		select {
		case l.ch <- be:
		default:
			delete(s.listeners, l)
			close(l.slow)
			metricDroppedSubscribers().Add(1)
		}
	}
}

func (s *Subscriptions) listen() *listener {
	l := &listener{
		ch:   make(chan *node.BlockEvents, listenerBuffer),
		slow: make(chan struct{}),
	}
	s.mu.Lock()
	s.listeners[l] = struct{}{}
	s.mu.Unlock()
	return l
}

func (s *Subscriptions) unlisten(l *listener) {
	s.mu.Lock()
	delete(s.listeners, l)
	s.mu.Unlock()
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	criteria, err := events.ParseCriteria(query)
	if err != nil {
		return utils.BadRequest(err)
	}

	var from *uint32
	if query.Get("pos") != "" {
		pos, err := utils.QueryUint(query, "pos", 32, 0)
		if err != nil {
			return err
		}
		head := s.source.Head()
		if uint32(pos) <= head.Number && head.Number-uint32(pos) > s.backtraceLimit {
			return utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
		}
		p := uint32(pos)
		from = &p
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	id := uuid.New()
	logger.Debug("event subscription started", "id", id, "remote", req.RemoteAddr)
	metricActiveSubscriptions().Add(1)
	defer func() {
		metricActiveSubscriptions().Add(-1)
		logger.Debug("event subscription closed", "id", id)
	}()

	// listen before replaying, so nothing between the replay and live events is missed
	l := s.listen()
	defer s.unlisten(l)

	if err := s.pipe(conn, l, criteria, from); err != nil {
		logger.Debug("event subscription failed", "id", id, "err", err)
	}
	return nil
}

func (s *Subscriptions) replay(conn *websocket.Conn, criteria *logdb.EventCriteria, from, to uint32) error {
	filter := &logdb.EventFilter{
		Range: &logdb.Range{From: from, To: to},
	}
	if criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{criteria}
	}
	evs, err := s.logDB.FilterEvents(context.Background(), filter)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		if err := writeJSON(conn, events.ConvertEvent(ev)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, l *listener, criteria *logdb.EventCriteria, from *uint32) error {
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var replayed uint32
	if from != nil {
		replayed = s.source.Head().Number
		if err := s.replay(conn, criteria, *from, replayed); err != nil {
			return err
		}
	}

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case be := <-l.ch:
			if from != nil && be.Block.Number <= replayed {
				continue
			}
			for _, ev := range be.Events {
				if !matchCriteria(criteria, ev) {
					continue
				}
				if err := writeJSON(conn, newEventMessage(be.Block, ev)); err != nil {
					return err
				}
			}
		case <-l.slow:
			return closeConn(conn, websocket.CloseTryAgainLater, "subscriber too slow")
		case <-s.done:
			return closeConn(conn, websocket.CloseGoingAway, "")
		case <-closed:
			return nil
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func closeConn(conn *websocket.Conn, code int, text string) error {
	return conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}

// Close stops dispatching, which makes every open subscription close its connection.
func (s *Subscriptions) Close() {
	close(s.done)
	s.goes.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("subscriptions_event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
