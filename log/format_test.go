// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAppendEscapeString(t *testing.T) {
	assert.Equal(t, "plain", string(appendEscapeString(nil, "plain")))
	assert.Equal(t, `"has space"`, string(appendEscapeString(nil, "has space")))
	assert.Equal(t, `"k=v"`, string(appendEscapeString(nil, "k=v")))
	assert.Equal(t, `"line\nbreak"`, string(appendEscapeString(nil, "line\nbreak")))
}

func TestEscapeMessage(t *testing.T) {
	assert.Equal(t, "multi\nline ok", escapeMessage("multi\nline ok"))
	assert.Equal(t, `"a=b"`, escapeMessage("a=b"))
}

func TestFormatSlogValue(t *testing.T) {
	var nilU256 *uint256.Int
	for _, c := range []struct {
		v    slog.Value
		want string
	}{
		{slog.StringValue("x y"), `"x y"`},
		{slog.Int64Value(-1500000), "-1,500,000"},
		{slog.BoolValue(true), "true"},
		{slog.Float64Value(1.5), "1.500"},
		{slog.DurationValue(2 * time.Second), "2s"},
		{slog.AnyValue(uint256.NewInt(7)), "7"},
		{slog.AnyValue(errors.New("boom")), "boom"},
		{slog.AnyValue(nilU256), "<nil>"},
		{slog.AnyValue(nil), "<nil>"},
	} {
		assert.Equal(t, c.want, string(FormatSlogValue(c.v, nil)))
	}
}
