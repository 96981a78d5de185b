// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package opaque implements the core of OPAQUE, an asymmetric password-authenticated
// key exchange protocol secure against pre-computation attacks. A client holding only a
// password and a server holding a per-user record jointly derive a mutually
// authenticated session key over a single round trip, without the server ever learning
// the password. Protocol details can be found on the IETF RFC page
// (https://datatracker.ietf.org/doc/draft-irtf-cfrg-opaque).
//
// The suite is fixed to ristretto255, SHA-512, HKDF-SHA-512, and HMAC-SHA-512; this
// package does not negotiate cipher suites. Transport, persistent storage, long-term
// server-key management, and any rate-limiting policy atop authentication failures are
// left to the caller.
package opaque

import (
	"errors"

	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/tag"
	"github.com/WorldofJARcraft/libopaque/message"
)

// Re-exported error discriminants, one per spec.md §7 kind. Callers must not branch on
// which of these they received in a way observable to the peer - ErrEnvelopeRecovery
// and ErrHandshake are distinct values, and a peer that learns which one occurred
// gains a password oracle.
var (
	ErrInvalidPoint         = internal.ErrInvalidPoint
	ErrEnvelopeRecovery     = internal.ErrEnvelopeRecovery
	ErrHandshake            = internal.ErrHandshake
	ErrMemoryLock           = internal.ErrMemoryLock
	ErrRandomness           = internal.ErrRandomness
	ErrInvalidConfiguration = internal.ErrInvalidConfiguration
	ErrInvalidMessageLength = internal.ErrInvalidMessageLength
	ErrInvalidEnvelopeLength = internal.ErrInvalidEnvelopeLength
)

// ErrAuthFailed is returned by UserAuth when the received client MAC does not match
// the expected one.
var ErrAuthFailed = errors.New("opaque: client authentication failed")

// Configuration is the small, process-wide parameter block chosen once at construction
// (spec.md §9): the caller context mixed into every transcript, and the two axes
// spec.md §6 calls out as configurable - the memory-hard function and whether
// test-vector mode is active (which also empties the OPRF Finalize info label). There
// is no way to inject fixed randomness through a Configuration.
type Configuration struct {
	// Context is mixed into the AKE transcript preamble; it need not be secret.
	Context []byte

	// TestVectors switches to the CFRG interoperability mode: the OPRF Finalize info
	// label becomes empty instead of "OPAQUE01", and the memory-hard hardening step
	// becomes the identity function, matching how the published vectors were
	// computed. Not for production use.
	TestVectors bool
}

// DefaultConfiguration returns production parameters: Argon2id hardening, the
// "OPAQUE01" finalize info label, no caller context.
func DefaultConfiguration() *Configuration {
	return &Configuration{}
}

// Client returns a newly instantiated Client from the Configuration.
func (c *Configuration) Client() (*Client, error) {
	return NewClient(c)
}

// Server returns a newly instantiated Server from the Configuration.
func (c *Configuration) Server() (*Server, error) {
	return NewServer(c)
}

// toInternal builds and freezes the internal configuration the protocol packages close
// over.
func (c *Configuration) toInternal() *internal.Configuration {
	ip := &internal.Configuration{
		Context:     c.Context,
		TestVectors: c.TestVectors,
	}

	if c.TestVectors {
		ip.FinalizeInfo = []byte(tag.FinalizeInfoTestVectors)
		ip.KSF = internal.NewIdentityKSF()
	} else {
		ip.FinalizeInfo = []byte(tag.FinalizeInfoDefault)
		ip.KSF = internal.NewKSF()
	}

	return ip
}

// KeyGen returns a fresh ristretto255 scalar/point key pair, suitable for a server's
// (or, for testing, a client's) long-term AKE key.
func KeyGen() (secretKey, publicKey []byte) {
	sk := group.ScalarRandom()
	pk := group.ScalarMultBase(sk)
	return group.EncodeScalar(sk), group.EncodePoint(pk)
}

// RandomBytes returns length bytes of platform randomness (wrapper for crypto/rand).
func RandomBytes(length int) []byte {
	return internal.RandomBytes(length)
}

// Register runs the full registration flow (CreateRegistrationRequest,
// CreateRegistrationResponse, FinalizeRequest, StoreUserRecord) in a single process,
// for callers that do not need to carry the protocol over a real network round trip
// (spec.md §6: "composite... in a single process"). serverSecretKey may be left empty,
// in which case a fresh server AKE key pair is generated; the server's public key is
// always derived from its secret key, never taken from the caller. ids.ServerIdentity
// defaults to that public key when left empty, per spec.md §4.4.
func (c *Configuration) Register(password, serverSecretKey []byte, ids Identities) (*message.UserRecord, []byte, error) {
	client, err := c.Client()
	if err != nil {
		return nil, nil, err
	}

	server, err := c.Server()
	if err != nil {
		return nil, nil, err
	}

	sec, req, err := client.CreateRegistrationRequest(password)
	if err != nil {
		return nil, nil, err
	}
	defer sec.Destroy()

	srvSec, resp, err := server.CreateRegistrationResponse(req, serverSecretKey)
	if err != nil {
		return nil, nil, err
	}

	record, exportKey, err := client.FinalizeRequest(sec, resp, ids)
	if err != nil {
		return nil, nil, err
	}

	userRecord := server.StoreUserRecord(srvSec, record)

	return userRecord, exportKey, nil
}

// Login runs the full login flow (CreateCredentialRequest, CreateCredentialResponse,
// RecoverCredentials, UserAuth) in a single process, for callers that do not need to
// carry the protocol over a real network round trip.
func (c *Configuration) Login(password []byte, userRecord *message.UserRecord, clientSecretKey []byte, ids Identities) (sessionKey, exportKey []byte, err error) {
	client, err := c.Client()
	if err != nil {
		return nil, nil, err
	}

	server, err := c.Server()
	if err != nil {
		return nil, nil, err
	}

	sec, ke1, err := client.CreateCredentialRequest(password)
	if err != nil {
		return nil, nil, err
	}
	defer sec.Destroy()

	ke2, err := server.CreateCredentialResponse(ke1, userRecord, ids)
	if err != nil {
		return nil, nil, err
	}

	clientSessionKey, clientMac, exportKey, err := client.RecoverCredentials(sec, ke2, clientSecretKey, ids)
	if err != nil {
		return nil, nil, err
	}

	serverSessionKey, err := server.UserAuth(&message.KE3{ClientMac: clientMac})
	if err != nil {
		return nil, nil, err
	}

	if !internal.NewMAC().Equal(clientSessionKey, serverSessionKey) {
		return nil, nil, ErrHandshake
	}

	return serverSessionKey, exportKey, nil
}
