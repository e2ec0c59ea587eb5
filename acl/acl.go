// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acl

import (
	"github.com/pkg/errors"

	"github.com/hydrachain/staker/hydra"
	"github.com/hydrachain/staker/reverts"
	"github.com/hydrachain/staker/slots"
)

var (
	slotMembers     = hydra.BytesToBytes32([]byte(("acl-members")))
	slotInitialized = hydra.BytesToBytes32([]byte(("acl-initialized")))
)

// Role is a capability held by an address.
type Role uint8

const (
	Governance Role = iota + 1
	Manager
	System
)

func (r Role) String() string {
	switch r {
	case Governance:
		return "governance"
	case Manager:
		return "manager"
	case System:
		return "system"
	default:
		return "unknown"
	}
}

type memberKey struct {
	role    Role
	account hydra.Address
}

func (k memberKey) Bytes() []byte {
	return append([]byte{byte(k.role)}, k.account.Bytes()...)
}

// Service keeps role membership.
type Service struct {
	members     *slots.Mapping[memberKey, bool]
	initialized *slots.Raw[bool]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		members:     slots.NewMapping[memberKey, bool](sctx, slotMembers),
		initialized: slots.NewRaw[bool](sctx, slotInitialized),
	}
}

// Initialize seeds the first holder of every role. It can only run once.
func (s *Service) Initialize(governance, manager, system hydra.Address) error {
	done, err := s.initialized.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get acl state")
	}
	if done {
		return reverts.ErrAlreadyInitialized
	}
	for role, account := range map[Role]hydra.Address{Governance: governance, Manager: manager, System: system} {
		if err := s.members.Set(memberKey{role, account}, true); err != nil {
			return errors.Wrap(err, "failed to set role")
		}
	}
	return s.initialized.Set(true)
}

func (s *Service) HasRole(account hydra.Address, role Role) (bool, error) {
	ok, err := s.members.Get(memberKey{role, account})
	if err != nil {
		return false, errors.Wrap(err, "failed to get role")
	}
	return ok, nil
}

// Check fails with ErrUnauthorized unless caller holds role.
func (s *Service) Check(caller hydra.Address, role Role) error {
	ok, err := s.HasRole(caller, role)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrUnauthorized
	}
	return nil
}

// Grant gives role to account, governance only.
func (s *Service) Grant(caller hydra.Address, role Role, account hydra.Address) error {
	if err := s.Check(caller, Governance); err != nil {
		return err
	}
	return s.members.Set(memberKey{role, account}, true)
}

// Revoke takes role from account, governance only.
func (s *Service) Revoke(caller hydra.Address, role Role, account hydra.Address) error {
	if err := s.Check(caller, Governance); err != nil {
		return err
	}
	s.members.Delete(memberKey{role, account})
	return nil
}
