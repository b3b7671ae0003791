// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// Kind classifies a rejection.
type Kind uint8

const (
	InvalidCaller Kind = iota + 1
	InvalidArgument
	PreconditionNotMet
)

func (k Kind) String() string {
	switch k {
	case InvalidCaller:
		return "invalid caller"
	case InvalidArgument:
		return "invalid argument"
	case PreconditionNotMet:
		return "precondition not met"
	default:
		return "unknown"
	}
}

// Sentinels to match a rejection kind with errors.Is.
var (
	ErrInvalidCaller      = &ErrRevert{kind: InvalidCaller}
	ErrInvalidArgument    = &ErrRevert{kind: InvalidArgument}
	ErrPreconditionNotMet = &ErrRevert{kind: PreconditionNotMet}
)

// ErrRevert is a contract rejection. It aborts the clause and carries the require message.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{kind: kind, message: message}
}

func NewInvalidCaller(message string) *ErrRevert { return New(InvalidCaller, message) }

func NewInvalidArgument(message string) *ErrRevert { return New(InvalidArgument, message) }

func NewPreconditionNotMet(message string) *ErrRevert { return New(PreconditionNotMet, message) }

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Message() string {
	return e.message
}

// Is matches any revert of the same kind.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind
}

// Bytes returns the ABI encoded Error(string) of the message.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	// offset is always 0x20 (32) after the selector
	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// IsRevertErr reports whether err is or wraps a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *ErrRevert
	if errors.As(e, &re) {
		return re != nil
	}
	return false
}
