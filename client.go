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
	"github.com/WorldofJARcraft/libopaque/internal/keyrecovery"
	"github.com/WorldofJARcraft/libopaque/internal/masking"
	"github.com/WorldofJARcraft/libopaque/internal/memguard"
	"github.com/WorldofJARcraft/libopaque/internal/oprf"
	"github.com/WorldofJARcraft/libopaque/message"
)

// Client drives the client-side half of both the registration and login flows
// (spec.md §4.2, §4.6). A Client is stateless between calls; all per-run state lives
// in the RegistrationClientSecret/ClientSessionSecret values its methods return.
type Client struct {
	conf *internal.Configuration
}

// NewClient returns a Client bound to conf.
func NewClient(conf *Configuration) (*Client, error) {
	return &Client{conf: conf.toInternal()}, nil
}

// CreateRegistrationRequest blinds password and returns the wire request plus the
// state FinalizeRequest needs to complete the flow (spec.md §4.2).
func (c *Client) CreateRegistrationRequest(password []byte) (*RegistrationClientSecret, *message.RegistrationRequest, error) {
	r, m := oprf.Blind(password)

	pw, err := wrapPassword(password)
	if err != nil {
		return nil, nil, err
	}

	sec := &RegistrationClientSecret{blind: r, password: pw}
	req := &message.RegistrationRequest{BlindedMessage: group.EncodePoint(m)}

	return sec, req, nil
}

// FinalizeRequest unblinds the server's evaluation, derives RandomizedPwd, and builds
// the envelope and RegistrationRecord that get stored server-side (spec.md §4.2's
// FinalizeRequest step). It also returns the export key, which never leaves the
// client.
func (c *Client) FinalizeRequest(sec *RegistrationClientSecret, resp *message.RegistrationResponse, ids Identities) (*message.RegistrationRecord, []byte, error) {
	z, err := group.DecodePoint(resp.EvaluatedMessage)
	if err != nil {
		return nil, nil, internal.ErrInvalidPoint
	}

	n := oprf.Unblind(sec.blind, z)
	rwdBuf, err := memguard.Wrap(oprf.Finalize(c.conf, sec.password.Bytes(), n))
	if err != nil {
		return nil, nil, internal.ErrMemoryLock
	}
	defer rwdBuf.Destroy()
	rwd := rwdBuf.Bytes()

	nonce := internal.RandomBytes(internal.NonceLength)

	keys := keyrecovery.DeriveKeys(rwd, nonce)
	clientPublicKey := group.EncodePoint(keys.ClientPublic)

	idU, idS := resolveIdentities(ids, clientPublicKey, resp.ServerPublicKey)
	authTag := keyrecovery.Seal(keys, nonce, resp.ServerPublicKey, idS, idU)

	record := &message.RegistrationRecord{
		ClientPublicKey: clientPublicKey,
		MaskingKey:      keys.MaskingKey,
		Envelope:        &message.Envelope{Nonce: nonce, AuthTag: authTag},
	}

	return record, keys.ExportKey, nil
}

// CreateCredentialRequest blinds password and draws a fresh 3DH ephemeral key pair,
// returning KE1 and the state RecoverCredentials needs (spec.md §4.6).
func (c *Client) CreateCredentialRequest(password []byte) (*ClientSessionSecret, *message.KE1, error) {
	r, m := oprf.Blind(password)

	clientNonce := internal.RandomBytes(internal.NonceLength)
	xu := group.ScalarRandom()
	xU := group.ScalarMultBase(xu)

	ke1 := &message.KE1{
		BlindedMessage: group.EncodePoint(m),
		ClientNonce:    clientNonce,
		ClientKeyShare: group.EncodePoint(xU),
	}

	pw, err := wrapPassword(password)
	if err != nil {
		return nil, nil, err
	}

	sec := &ClientSessionSecret{
		blind:           r,
		ephemeralSecret: xu,
		clientNonce:     clientNonce,
		blindedMessage:  m,
		ke1:             ke1.Serialize(),
		password:        pw,
	}

	return sec, ke1, nil
}

// RecoverCredentials unmasks KE2's CredentialResponse, recovers the envelope, verifies
// its MAC, completes 3DH, and verifies the server's MAC - spec.md §4.6's single
// combined RecoverCredentials+ClientFinalize step. An envelope MAC failure returns
// ErrEnvelopeRecovery before the 3DH step runs; a server MAC failure returns
// ErrHandshake. The two cases differ both in error value and in running time.
func (c *Client) RecoverCredentials(sec *ClientSessionSecret, ke2 *message.KE2, clientSecretKey []byte, ids Identities) (sessionKey, clientMac, exportKey []byte, err error) {
	z, err := group.DecodePoint(ke2.EvaluatedMessage)
	if err != nil {
		return nil, nil, nil, internal.ErrInvalidPoint
	}

	n := oprf.Unblind(sec.blind, z)
	rwdBuf, err := memguard.Wrap(oprf.Finalize(c.conf, sec.password.Bytes(), n))
	if err != nil {
		return nil, nil, nil, internal.ErrMemoryLock
	}
	defer rwdBuf.Destroy()
	rwd := rwdBuf.Bytes()

	maskingKey := keyrecovery.MaskingKey(rwd)
	serverPublicKey, envelopeBytes := masking.Unmask(maskingKey, ke2.MaskingNonce, ke2.MaskedResponse)

	envelope, err := message.DeserializeEnvelope(envelopeBytes)
	if err != nil {
		return nil, nil, nil, internal.ErrInvalidEnvelopeLength
	}

	keys := keyrecovery.DeriveKeys(rwd, envelope.Nonce)
	clientPublicKey := group.EncodePoint(keys.ClientPublic)

	idU, idS := resolveIdentities(ids, clientPublicKey, serverPublicKey)

	if err := keyrecovery.Open(keys, envelope.Nonce, envelope.AuthTag, serverPublicKey, idS, idU); err != nil {
		return nil, nil, nil, internal.ErrEnvelopeRecovery
	}

	skU := keys.ClientSecret
	if len(clientSecretKey) != 0 {
		skU, err = group.DecodeScalar(clientSecretKey)
		if err != nil {
			return nil, nil, nil, internal.ErrInvalidConfiguration
		}
	}

	pkS, err := group.DecodePoint(serverPublicKey)
	if err != nil {
		return nil, nil, nil, internal.ErrInvalidPoint
	}

	ke1, err := message.DeserializeKE1(sec.ke1)
	if err != nil {
		return nil, nil, nil, internal.ErrInvalidMessageLength
	}

	akeIDs := &ake.Identities{ClientIdentity: idU, ServerIdentity: idS}

	sessionKey, clientMac, err = ake.ClientFinalize(c.conf, akeIDs, skU, pkS, sec.ephemeralSecret, ke1, ke2)
	if err != nil {
		return nil, nil, nil, internal.ErrHandshake
	}

	return sessionKey, clientMac, keys.ExportKey, nil
}
