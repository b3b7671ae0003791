// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// MethodID is the 4-byte selector prefixing call data.
type MethodID [4]byte

// Method wraps a go-ethereum method with its selector.
type Method struct {
	id     MethodID
	method *ethabi.Method
}

func (m *Method) ID() MethodID { return m.id }
func (m *Method) Name() string { return m.method.Name }
func (m *Method) Const() bool  { return m.method.IsConstant() }

// Sig returns the canonical signature, e.g. "updateOperator(address,address)".
func (m *Method) Sig() string { return m.method.Sig }

// EncodeInput packs args behind the selector.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	packed, err := m.method.Inputs.Pack(args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "pack %s input", m.method.Name)
	}
	data := make([]byte, 0, len(m.id)+len(packed))
	return append(append(data, m.id[:]...), packed...), nil
}

// DecodeInput unpacks call data addressed to this method into v.
func (m *Method) DecodeInput(input []byte, v any) error {
	id, err := ExtractMethodID(input)
	if err != nil {
		return err
	}
	if id != m.id {
		return errors.Errorf("selector %x does not match %s", id, m.method.Name)
	}
	return unpack(m.method.Inputs, v, input[len(id):])
}

func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	return m.method.Outputs.Pack(args...)
}

func (m *Method) DecodeOutput(output []byte, v any) error {
	return unpack(m.method.Outputs, v, output)
}

// unpack fills v directly for a single argument, or the fields of the struct v points to otherwise.
func unpack(args ethabi.Arguments, v any, data []byte) error {
	if len(args) == 0 {
		return nil
	}
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, values)
}

// ExtractMethodID reads the selector of call data.
func ExtractMethodID(input []byte) (MethodID, error) {
	var id MethodID
	if len(input) < len(id) {
		return id, errors.New("call data shorter than a selector")
	}
	copy(id[:], input)
	return id, nil
}
