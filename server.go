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
	"github.com/WorldofJARcraft/libopaque/internal/ake"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/masking"
	"github.com/WorldofJARcraft/libopaque/internal/oprf"
	"github.com/WorldofJARcraft/libopaque/message"
)

// Server drives the server-side half of both the registration and login flows
// (spec.md §4.2, §4.6). Per-session AKE state lives in the embedded ake.Server, which
// CreateCredentialResponse fills in and UserAuth consumes; everything else is
// stateless between calls.
type Server struct {
	conf *internal.Configuration
	ake  *ake.Server
}

// NewServer returns a Server bound to conf, with no AKE session in progress.
func NewServer(conf *Configuration) (*Server, error) {
	return &Server{conf: conf.toInternal(), ake: ake.NewServer()}, nil
}

// CreateRegistrationResponse evaluates the client's blinded OPRF input under a fresh
// OPRF key and returns the wire response plus the state StoreUserRecord needs
// (spec.md §4.2). serverSecretKey, when non-empty, is used as the server's long-term
// AKE secret key; otherwise a fresh one is drawn.
func (s *Server) CreateRegistrationResponse(req *message.RegistrationRequest, serverSecretKey []byte) (*RegistrationSrvSecret, *message.RegistrationResponse, error) {
	m, err := group.DecodePoint(req.BlindedMessage)
	if err != nil {
		return nil, nil, internal.ErrInvalidPoint
	}

	skS := group.ScalarRandom()
	if len(serverSecretKey) != 0 {
		skS, err = group.DecodeScalar(serverSecretKey)
		if err != nil {
			return nil, nil, internal.ErrInvalidConfiguration
		}
	}
	pkS := group.ScalarMultBase(skS)

	kU := group.ScalarRandom()
	z := oprf.Evaluate(kU, m)

	srvSec := &RegistrationSrvSecret{serverSecretKey: skS, oprfKey: kU}
	resp := &message.RegistrationResponse{
		EvaluatedMessage: group.EncodePoint(z),
		ServerPublicKey:  group.EncodePoint(pkS),
	}

	return srvSec, resp, nil
}

// StoreUserRecord combines the server's per-registration secret with the client's
// finished RegistrationRecord into the canonical UserRecord the server persists
// (spec.md §4.2's StoreUserRecord step). This call is pure and idempotent: calling it
// twice with the same inputs produces byte-identical output.
func (s *Server) StoreUserRecord(srvSec *RegistrationSrvSecret, record *message.RegistrationRecord) *message.UserRecord {
	return &message.UserRecord{
		OPRFKey:            group.EncodeScalar(srvSec.oprfKey),
		ServerSecretKey:    group.EncodeScalar(srvSec.serverSecretKey),
		RegistrationRecord: record,
	}
}

// CreateCredentialResponse evaluates the client's blinded login input, masks the
// server's public key and the user's stored envelope behind the record's masking key, runs the
// server side of 3DH, and returns KE2 (spec.md §4.6). It caches the session key and
// expected client MAC on s, for the later UserAuth call against KE3.
func (s *Server) CreateCredentialResponse(ke1 *message.KE1, userRecord *message.UserRecord, ids Identities) (*message.KE2, error) {
	m, err := group.DecodePoint(ke1.BlindedMessage)
	if err != nil {
		return nil, internal.ErrInvalidPoint
	}

	kU, err := group.DecodeScalar(userRecord.OPRFKey)
	if err != nil {
		return nil, internal.ErrInvalidConfiguration
	}
	z := oprf.Evaluate(kU, m)

	skS, err := group.DecodeScalar(userRecord.ServerSecretKey)
	if err != nil {
		return nil, internal.ErrInvalidConfiguration
	}
	pkS := group.ScalarMultBase(skS)
	serverPublicKey := group.EncodePoint(pkS)

	rec := userRecord.RegistrationRecord
	maskingNonce, maskedResponse := masking.Mask(rec.MaskingKey, serverPublicKey, rec.Envelope.Serialize(), nil)

	serverNonce := internal.RandomBytes(internal.NonceLength)
	xs := group.ScalarRandom()
	Xs := group.ScalarMultBase(xs)

	ke2 := &message.KE2{
		EvaluatedMessage: group.EncodePoint(z),
		MaskingNonce:     maskingNonce,
		MaskedResponse:   maskedResponse,
		ServerNonce:      serverNonce,
		ServerKeyShare:   group.EncodePoint(Xs),
	}

	clientPublicKey := rec.ClientPublicKey
	pkU, err := group.DecodePoint(clientPublicKey)
	if err != nil {
		return nil, internal.ErrInvalidPoint
	}

	idU, idS := resolveIdentities(ids, clientPublicKey, serverPublicKey)
	akeIDs := &ake.Identities{ClientIdentity: idU, ServerIdentity: idS}

	if err := s.ake.Respond(s.conf, akeIDs, skS, pkU, xs, ke1, ke2); err != nil {
		return nil, err
	}

	return ke2, nil
}

// UserAuth verifies the client's KE3, completing the server side of the handshake
// (spec.md §4.6's final step). On success it returns the negotiated session key.
func (s *Server) UserAuth(ke3 *message.KE3) (sessionKey []byte, err error) {
	if err := s.ake.Finalize(ke3); err != nil {
		return nil, ErrAuthFailed
	}
	return s.ake.SessionKey(), nil
}
