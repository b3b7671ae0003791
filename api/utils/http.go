// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// JSONContentType is the content type of every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// httpError carries the status a handler wants to respond with.
type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string { return e.cause.Error() }
func (e *httpError) Unwrap() error { return e.cause }

// BadRequest marks cause as a client error.
func BadRequest(cause error) error {
	return &httpError{cause, http.StatusBadRequest}
}

// Forbidden marks cause as a refused operation.
func Forbidden(cause error) error {
	return &httpError{cause, http.StatusForbidden}
}

// HandlerFunc is an http handler returning an error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts f to http.HandlerFunc. Errors from BadRequest and
// Forbidden keep their status, anything else is a 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var he *httpError
		if errors.As(err, &he) {
			status = he.status
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes r into v, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON encodes obj as the response body.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParseUint parses s in any base accepted by strconv, returning def when s is empty.
func ParseUint(s string, bitSize int, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseUint(s, 0, bitSize)
}

// QueryUint reads the optional unsigned parameter name from query.
// A malformed value is a bad request naming the parameter.
func QueryUint(query url.Values, name string, bitSize int, def uint64) (uint64, error) {
	v, err := ParseUint(query.Get(name), bitSize, def)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
