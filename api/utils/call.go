// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

// Caller executes read-only clauses.
type Caller interface {
	Call(clause *tx.Clause) (*tx.Receipt, error)
}

// CallMethod calls the named view of the contract at addr and decodes the output into v.
// A revert is reported as a bad request.
func CallMethod(c Caller, addr taco.Address, contractABI *abi.ABI, name string, v any, args ...any) error {
	method, ok := contractABI.MethodByName(name)
	if !ok {
		return errors.Errorf("method %v not found", name)
	}
	data, err := method.EncodeInput(args...)
	if err != nil {
		return BadRequest(err)
	}
	receipt, err := c.Call(tx.NewClause(taco.Address{}, addr).WithData(data))
	if err != nil {
		return err
	}
	if receipt.Reverted {
		reason, err := abi.UnpackRevert(receipt.RevertReason)
		if err != nil || reason == "" {
			reason = "execution reverted"
		}
		return BadRequest(errors.New(reason))
	}
	return errors.Wrap(method.DecodeOutput(receipt.Output, v), "decode output")
}
