// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/api/utils"
	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/tx"
)

// Executor executes clauses, which is implemented by node.Node.
type Executor interface {
	Execute(clause *tx.Clause) (*tx.Receipt, *node.Block, error)
	Call(clause *tx.Clause) (*tx.Receipt, error)
}

type Transactions struct {
	executor Executor
}

func New(executor Executor) *Transactions {
	return &Transactions{executor}
}

func parseClause(req *http.Request) (*tx.Clause, error) {
	var body Clause
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.To == nil {
		return nil, utils.BadRequest(errors.New("body: to is required"))
	}
	return tx.NewClause(body.Caller, *body.To).WithData(body.Data), nil
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	clause, err := parseClause(req)
	if err != nil {
		return err
	}
	receipt, blk, err := t.executor.Execute(clause)
	if err != nil {
		return err
	}
	metricTransactionCount().AddWithLabel(1, map[string]string{"reverted": boolLabel(receipt.Reverted)})
	return utils.WriteJSON(w, convertReceipt(receipt, blk))
}

func (t *Transactions) handleCall(w http.ResponseWriter, req *http.Request) error {
	clause, err := parseClause(req)
	if err != nil {
		return err
	}
	receipt, err := t.executor.Call(clause)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt, nil))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Mount mounts the transaction route under txPrefix and the call route under callPrefix.
func (t *Transactions) Mount(root *mux.Router, txPrefix, callPrefix string) {
	root.Path(txPrefix).
		Methods(http.MethodPost).
		Name("transactions_send_transaction").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	root.Path(callPrefix).
		Methods(http.MethodPost).
		Name("calls_call").
		HandlerFunc(utils.WrapHandlerFunc(t.handleCall))
}
