// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/memguard"
)

// wrapPassword copies password into a locked buffer (spec.md §5: the password is
// secret material from the moment it's received). A lock failure surfaces as
// internal.ErrMemoryLock to the caller, per spec.md §7.
func wrapPassword(password []byte) (*memguard.Secret, error) {
	s, err := memguard.New(len(password))
	if err != nil {
		return nil, internal.ErrMemoryLock
	}
	copy(s.Bytes(), password)
	return s, nil
}

// Identities carries the caller-supplied party identities for a single registration or
// login run. Either field may be left nil, in which case it defaults to the
// corresponding party's public key (spec.md §4.4).
type Identities struct {
	ClientIdentity []byte
	ServerIdentity []byte
}

// RegistrationClientSecret is the state a Client holds between
// CreateRegistrationRequest and FinalizeRequest (spec.md §3's ClientSessionSecret,
// registration variant).
type RegistrationClientSecret struct {
	blind    *group.Scalar
	password *memguard.Secret
}

// Destroy wipes and unlocks the password buffer and drops the blinding scalar reference
// so it can be collected; gtank/ristretto255's internal representation is unexported
// and cannot be scrubbed directly.
func (s *RegistrationClientSecret) Destroy() {
	if s == nil {
		return
	}
	s.password.Destroy()
	s.blind = nil
}

// RegistrationSrvSecret is the state a Server holds between CreateRegistrationResponse
// and StoreUserRecord (spec.md §3).
type RegistrationSrvSecret struct {
	serverSecretKey *group.Scalar
	oprfKey         *group.Scalar
}

// ClientSessionSecret is the state a Client holds between CreateCredentialRequest and
// RecoverCredentials (spec.md §3).
type ClientSessionSecret struct {
	blind           *group.Scalar
	ephemeralSecret *group.Scalar
	clientNonce     []byte
	blindedMessage  *group.Element
	ke1             []byte
	password        *memguard.Secret
}

// Destroy wipes and unlocks the password and zeroises the nonce, and drops
// scalar/element references.
func (s *ClientSessionSecret) Destroy() {
	if s == nil {
		return
	}
	s.password.Destroy()
	zeroBytes(s.clientNonce)
	s.blind = nil
	s.ephemeralSecret = nil
	s.blindedMessage = nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// resolveIdentities builds the internal.ake-shaped identities from the caller-supplied
// Identities, defaulting absent fields to the given public keys.
func resolveIdentities(ids Identities, clientPublicKey, serverPublicKey []byte) (idU, idS []byte) {
	idU = ids.ClientIdentity
	if len(idU) == 0 {
		idU = clientPublicKey
	}
	idS = ids.ServerIdentity
	if len(idS) == 0 {
		idS = serverPublicKey
	}
	return idU, idS
}
