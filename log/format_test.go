// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"encoding/json"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"terminal": FormatTerminal,
		" JSON ":   FormatJSON,
		"logfmt":   FormatLogfmt,
	} {
		have, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, have)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}

func TestJSONAmounts(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewHandler(FormatJSON, out, newLevel(LevelInfo), false))
	l.Info("reward claimed", "amount", new(big.Int).Lsh(big.NewInt(1), 80), "nothing", (*big.Int)(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "1208925819614629174706176", rec["amount"])
	assert.Equal(t, "<nil>", rec["nothing"])
	assert.Equal(t, "info", rec["lvl"])
	assert.Contains(t, rec, "t")
}

func TestTerminalGroups(t *testing.T) {
	out := new(bytes.Buffer)
	h := NewHandler(FormatTerminal, out, newLevel(LevelDebug), false)
	l := NewLogger(h.WithGroup("op").WithAttrs(nil)).With("name", "stake")
	l.Debug("applied", "result", "ok")

	have := out.String()
	assert.Contains(t, have, "op.name=stake")
	assert.Contains(t, have, "op.result=ok")
}

func TestDiscardHandler(t *testing.T) {
	h := DiscardHandler().WithGroup("g").WithAttrs(nil)
	assert.False(t, h.Enabled(t.Context(), LevelCrit))
	assert.True(t, strings.HasPrefix(LevelString(LevelCrit), "crit"))
}

var sink []byte

func BenchmarkAppendUint64(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendUint64(buf, rand.Uint64(), false) //#nosec G404
	}
}
