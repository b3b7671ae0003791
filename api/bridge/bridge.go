// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridge

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/tacolabs/childapp/api/utils"
	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/taco"
)

// Outbox lists operator confirmations queued for the root chain.
type Outbox struct {
	Length    uint64         `json:"length"`
	Operators []taco.Address `json:"operators"`
}

type Relayer struct {
	Relayer taco.Address `json:"relayer"`
}

type Bridge struct {
	caller utils.Caller
}

func New(caller utils.Caller) *Bridge {
	return &Bridge{caller}
}

func (b *Bridge) call(name string, v any, args ...any) error {
	return utils.CallMethod(b.caller, builtin.Bridge.Address, builtin.Bridge.ABI, name, v, args...)
}

func (b *Bridge) handleGetOutbox(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	start, err := utils.QueryUint(query, "start", 64, 0)
	if err != nil {
		return err
	}
	maxCount, err := utils.QueryUint(query, "max", 64, 0)
	if err != nil {
		return err
	}

	var (
		length    *big.Int
		operators []common.Address
	)
	if err := b.call("outboxLength", &length); err != nil {
		return err
	}
	if err := b.call("outbox", &operators, new(big.Int).SetUint64(start), new(big.Int).SetUint64(maxCount)); err != nil {
		return err
	}
	outbox := &Outbox{
		Length:    length.Uint64(),
		Operators: make([]taco.Address, 0, len(operators)),
	}
	for _, op := range operators {
		outbox.Operators = append(outbox.Operators, taco.Address(op))
	}
	return utils.WriteJSON(w, outbox)
}

func (b *Bridge) handleGetRelayer(w http.ResponseWriter, _ *http.Request) error {
	var relayer common.Address
	if err := b.call("relayer", &relayer); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Relayer{taco.Address(relayer)})
}

func (b *Bridge) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/outbox").
		Methods(http.MethodGet).
		Name("bridge_get_outbox").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetOutbox))
	sub.Path("/relayer").
		Methods(http.MethodGet).
		Name("bridge_get_relayer").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetRelayer))
}
