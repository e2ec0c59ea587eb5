// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/kv"
)

const metaBucket = kv.Bucket("m")

var genesisIDKey = []byte("genesis-id")

// ID identifies gen by the hash of its yaml encoding.
func (g *Genesis) ID() (hydra.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return hydra.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return hydra.Blake2b(data), nil
}

// Guard binds store to gen. The first call records the genesis ID, later calls fail
// if store was initialized with a different genesis.
func Guard(store kv.Store, gen *Genesis) error {
	id, err := gen.ID()
	if err != nil {
		return err
	}
	meta := metaBucket.NewStore(store)
	stored, err := meta.Get(genesisIDKey)
	if err != nil {
		if !meta.IsNotFound(err) {
			return errors.Wrap(err, "read genesis id")
		}
		logger.Debug("recording genesis id", "id", id)
		return errors.Wrap(meta.Put(genesisIDKey, id.Bytes()), "write genesis id")
	}
	if !bytes.Equal(stored, id.Bytes()) {
		return errors.Errorf("genesis mismatch: data dir holds %v, config is %v", hydra.BytesToBytes32(stored), id)
	}
	return nil
}
