// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"errors"
	"math/big"

	"github.com/hydrachain/staker/hydra"
)

var (
	ErrUnderflow  = errors.New("slots: underflow")
	ErrOutOfRange = errors.New("slots: index out of range")
)

// List is an append-only sequence, like a dynamic array in Solidity.
// The length lives at the base position and items are keyed by index.
type List[V any] struct {
	length *Uint256
	items  *Mapping[Uint64Key, V]
}

func NewList[V any](context *Context, pos hydra.Bytes32) *List[V] {
	return &List[V]{
		length: NewUint256(context, pos),
		items:  NewMapping[Uint64Key, V](context, pos),
	}
}

func (l *List[V]) Len() (uint64, error) {
	n, err := l.length.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (l *List[V]) Get(index uint64) (value V, err error) {
	n, err := l.Len()
	if err != nil {
		return value, err
	}
	if index >= n {
		return value, ErrOutOfRange
	}
	return l.items.Get(Uint64Key(index))
}

// Set overwrites an existing item.
func (l *List[V]) Set(index uint64, value V) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if index >= n {
		return ErrOutOfRange
	}
	return l.items.Set(Uint64Key(index), value)
}

func (l *List[V]) Push(value V) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if err := l.items.Set(Uint64Key(n), value); err != nil {
		return err
	}
	l.length.Set(new(big.Int).SetUint64(n + 1))
	return nil
}

// Last returns the tail item, ok is false on an empty list.
func (l *List[V]) Last() (value V, ok bool, err error) {
	n, err := l.Len()
	if err != nil || n == 0 {
		return value, false, err
	}
	value, err = l.items.Get(Uint64Key(n - 1))
	return value, err == nil, err
}

// Clear drops all items.
func (l *List[V]) Clear() error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	for i := range n {
		l.items.Delete(Uint64Key(i))
	}
	l.length.Set(new(big.Int))
	return nil
}

// All returns every item in order.
func (l *List[V]) All() ([]V, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	items := make([]V, 0, n)
	for i := range n {
		v, err := l.items.Get(Uint64Key(i))
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
