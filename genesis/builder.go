// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/acl"
	"github.com/hydrachain/staker/log"
	"github.com/hydrachain/staker/registry"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
	"github.com/hydrachain/staker/state"
	"github.com/hydrachain/staker/staker"
	"github.com/hydrachain/staker/token"
)

var logger = log.WithContext("pkg", "genesis")

var (
	registryNamespace = slots.NamespaceOf("registry")
	tokenNamespace    = slots.NamespaceOf("token")
)

// Components are the services sharing one state.
type Components struct {
	State       *state.State
	RegistryACL *acl.Service
	Registry    *registry.Service
	Liquid      *token.Ledger
	Coin        *token.Ledger
	Wallet      *token.Wallet
	Vault       *token.Vault
	Staker      *staker.Staker
}

// Build wires the services on st and seeds gen unless st already holds an initialized staker.
// The seeded state is committed.
func Build(st *state.State, gen *Genesis, sink staker.EventSink) (*Components, error) {
	regCtx := slots.NewContext(registryNamespace, st)
	tokCtx := slots.NewContext(tokenNamespace, st)

	c := &Components{
		State:       st,
		RegistryACL: acl.New(regCtx),
		Liquid:      token.NewLedger(tokCtx, "liquid"),
		Coin:        token.NewLedger(tokCtx, "hydra"),
	}
	c.Registry = registry.New(regCtx, c.RegistryACL)
	c.Wallet = token.NewWallet(c.Coin)
	c.Vault = token.NewVault(c.Coin)

	s, err := staker.New(st, gen.Params.Config(), staker.Deps{
		Registry: c.Registry,
		Liquid:   c.Liquid,
		Wallet:   c.Wallet,
		Vault:    c.Vault,
		Sink:     sink,
	})
	if err != nil {
		return nil, err
	}
	c.Staker = s

	if err := s.Initialize(gen.Governance, gen.Manager, gen.System); err != nil {
		if errors.Is(err, reverts.ErrAlreadyInitialized) {
			logger.Info("state already initialized, genesis skipped")
			return c, nil
		}
		return nil, errors.Wrap(err, "initialize staker")
	}
	if err := c.seed(gen); err != nil {
		return nil, err
	}
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit genesis")
	}
	logger.Info("genesis applied", "validators", len(gen.Validators), "accounts", len(gen.Accounts))
	return c, nil
}

func (c *Components) seed(gen *Genesis) error {
	if err := c.RegistryACL.Initialize(gen.Governance, gen.Manager, gen.System); err != nil {
		return errors.Wrap(err, "initialize registry roles")
	}
	for _, acc := range gen.Accounts {
		if err := c.Coin.Mint(acc.Address, acc.Balance.Big()); err != nil {
			return errors.Wrapf(err, "fund %v", acc.Address)
		}
	}
	if err := c.Wallet.Fund(gen.RewardFund.Big()); err != nil {
		return errors.Wrap(err, "fund reward wallet")
	}
	for _, v := range gen.Validators {
		if err := c.Registry.Whitelist(gen.Governance, v.Address); err != nil {
			return errors.Wrapf(err, "whitelist %v", v.Address)
		}
		if err := c.Registry.Register(v.Address); err != nil {
			return errors.Wrapf(err, "register %v", v.Address)
		}
		if v.Commission > 0 {
			if err := c.Staker.SetCommission(v.Address, v.Commission, 0); err != nil {
				return errors.Wrapf(err, "commission of %v", v.Address)
			}
		}
	}
	return nil
}
