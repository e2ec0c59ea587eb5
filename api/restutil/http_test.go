// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrachain/staker/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"forbidden", Forbidden(errors.New("no")), http.StatusForbidden},
		{"revert", reverts.ErrInvalidEpoch, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
				return tt.err
			})
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("0x10", "amount")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(16), v)

	v, err = ParseAmount("1000", "amount")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), v)

	_, err = ParseAmount("", "amount")
	assert.Error(t, err)
	_, err = ParseAmount("abc", "amount")
	assert.Error(t, err)
}

func TestParseUint(t *testing.T) {
	v, err := ParseUint("", "epoch", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
	_, err = ParseUint("-1", "epoch", 0)
	assert.Error(t, err)
}
