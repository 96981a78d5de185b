// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/message"
)

// ClientFinalize completes the client side of 3DH: it recomputes the preamble, derives
// the session key and MAC keys, verifies the server's MAC in constant time, and
// returns the session key plus the client's own MAC for KE3 (spec.md §4.6's
// RecoverCredentials step). A server-MAC mismatch returns internal.ErrHandshake, a
// different value from the internal.ErrEnvelopeRecovery an envelope failure yields.
func ClientFinalize(
	conf *internal.Configuration,
	ids *Identities,
	clientSecretKey *group.Scalar,
	serverPublicKey *group.Element,
	xu *group.Scalar,
	ke1 *message.KE1,
	ke2 *message.KE2,
) (sessionKey, clientMac []byte, err error) {
	Xs, err := group.DecodePoint(ke2.ServerKeyShare)
	if err != nil {
		return nil, nil, internal.ErrInvalidPoint
	}

	ikm := ClientIKM(xu, clientSecretKey, Xs, serverPublicKey)
	preamble := Preamble(conf, ids, ke1, ke2)

	sessionKey, keys := DeriveKeys(conf, ikm, preamble)
	zero(ikm)

	mac := internal.NewMAC()
	expectedServerMac := mac.Compute(keys.ServerMacKey, preamble)

	if !mac.Equal(expectedServerMac, ke2.ServerMac) {
		zero(keys.ServerMacKey)
		zero(keys.ClientMacKey)
		zero(sessionKey)
		return nil, nil, internal.ErrHandshake
	}

	transcript2 := internal.NewHash().Sum(encoding.Concatenate(preamble, ke2.ServerMac))
	clientMac = mac.Compute(keys.ClientMacKey, transcript2)

	zero(keys.ServerMacKey)
	zero(keys.ClientMacKey)

	return sessionKey, clientMac, nil
}
