// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/acl"
	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

var slotValidators = hydra.BytesToBytes32([]byte(("registry-validators")))

// Status flags of a validator.
type Status struct {
	Whitelisted bool
	Registered  bool
	Banned      bool
}

// Service is the validator registry. Signature checks of the registering key are out of scope,
// registration only requires a whitelisted caller.
type Service struct {
	acl        *acl.Service
	validators *slots.Mapping[hydra.Address, *Status]
}

func New(sctx *slots.Context, acl *acl.Service) *Service {
	return &Service{
		acl:        acl,
		validators: slots.NewMapping[hydra.Address, *Status](sctx, slotValidators),
	}
}

func (s *Service) Status(validator hydra.Address) (*Status, error) {
	st, err := s.validators.Get(validator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get validator status")
	}
	return st, nil
}

func (s *Service) update(validator hydra.Address, fn func(*Status)) error {
	st, err := s.Status(validator)
	if err != nil {
		return err
	}
	fn(st)
	return s.validators.Set(validator, st)
}

// Whitelist allows validator to register.
func (s *Service) Whitelist(caller, validator hydra.Address) error {
	if err := s.acl.Check(caller, acl.Governance); err != nil {
		return err
	}
	return s.update(validator, func(st *Status) { st.Whitelisted = true })
}

// Register marks the whitelisted caller as a registered validator.
func (s *Service) Register(caller hydra.Address) error {
	st, err := s.Status(caller)
	if err != nil {
		return err
	}
	if !st.Whitelisted {
		return reverts.ErrUnauthorized
	}
	st.Registered = true
	return s.validators.Set(caller, st)
}

func (s *Service) Ban(caller, validator hydra.Address) error {
	if err := s.acl.Check(caller, acl.Governance); err != nil {
		return err
	}
	return s.update(validator, func(st *Status) { st.Banned = true })
}

func (s *Service) Unban(caller, validator hydra.Address) error {
	if err := s.acl.Check(caller, acl.Governance); err != nil {
		return err
	}
	return s.update(validator, func(st *Status) { st.Banned = false })
}

func (s *Service) IsRegistered(validator hydra.Address) (bool, error) {
	st, err := s.Status(validator)
	if err != nil {
		return false, err
	}
	return st.Registered, nil
}

func (s *Service) IsBanned(validator hydra.Address) (bool, error) {
	st, err := s.Status(validator)
	if err != nil {
		return false, err
	}
	return st.Banned, nil
}

// IsActive returns whether validator is registered and not banned.
func (s *Service) IsActive(validator hydra.Address) (bool, error) {
	st, err := s.Status(validator)
	if err != nil {
		return false, err
	}
	return st.Registered && !st.Banned, nil
}
