// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/state"
)

// Context binds storage primitives to a namespace of the state.
type Context struct {
	address hydra.Address
	state   *state.State
}

func NewContext(address hydra.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

// NamespaceOf derives a namespace address from a readable name.
func NamespaceOf(name string) hydra.Address {
	return hydra.BytesToAddress([]byte(name))
}

func (c *Context) Address() hydra.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot derives a storage position from a readable name.
func Slot(name string) hydra.Bytes32 {
	return hydra.BytesToBytes32([]byte(name))
}
