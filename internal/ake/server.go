// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	"errors"

	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/message"
)

// ErrStateNotEmpty reports that a Server already holds session state. No function in
// this package returns it.
var ErrStateNotEmpty = errors.New("ake: existing state is not empty")

// Server holds the 3DH server's per-session state between Respond and Finalize
// (spec.md §4.6's server login state machine: Idle -> AwaitingFinal -> Authenticated|Failed).
type Server struct {
	sessionKey []byte
	expectedClientMac []byte
}

// NewServer returns an empty 3DH server.
func NewServer() *Server {
	return &Server{}
}

// Respond completes the server side of 3DH given the client's ephemeral/long-term
// public keys and the server's own key material, filling in ke2.ServerMac and caching
// the session key and expected client MAC for the later Finalize call.
func (s *Server) Respond(
	conf *internal.Configuration,
	ids *Identities,
	serverSecretKey *group.Scalar,
	clientPublicKey *group.Element,
	xs *group.Scalar,
	ke1 *message.KE1,
	ke2 *message.KE2,
) error {
	Xu, err := group.DecodePoint(ke1.ClientKeyShare)
	if err != nil {
		return internal.ErrInvalidPoint
	}

	ikm := ServerIKM(xs, serverSecretKey, Xu, clientPublicKey)
	preamble := Preamble(conf, ids, ke1, ke2)

	sessionKey, keys := DeriveKeys(conf, ikm, preamble)
	zero(ikm)

	mac := internal.NewMAC()
	serverMac := mac.Compute(keys.ServerMacKey, preamble)
	ke2.ServerMac = serverMac

	transcript2 := internal.NewHash().Sum(encoding.Concatenate(preamble, serverMac))
	s.expectedClientMac = mac.Compute(keys.ClientMacKey, transcript2)
	s.sessionKey = sessionKey

	zero(keys.ServerMacKey)
	zero(keys.ClientMacKey)

	return nil
}

// Finalize verifies the client's KE3 MAC against the expected value cached by Respond,
// using a constant-time comparison. Either outcome zeroises the cached expected MAC.
func (s *Server) Finalize(ke3 *message.KE3) error {
	expected := s.expectedClientMac
	s.expectedClientMac = nil
	defer zero(expected)

	if !internal.NewMAC().Equal(expected, ke3.ClientMac) {
		return internal.ErrHandshake
	}

	return nil
}

// SessionKey returns the session key derived by the previous call to Respond.
func (s *Server) SessionKey() []byte {
	return s.sessionKey
}
