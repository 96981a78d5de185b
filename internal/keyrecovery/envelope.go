// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keyrecovery derives the envelope-bound key material from RandomizedPwd and
// builds/verifies the envelope MAC, per spec.md §4.4.
//
// Deriving keys and sealing/opening the envelope are split into two steps because the
// identity defaulting rule (spec.md §4.4: an absent idU defaults to the client's
// public key) depends on the client key pair DeriveKeys produces - the caller must
// resolve identities between the two calls.
package keyrecovery

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
	"github.com/WorldofJARcraft/libopaque/internal/expand"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/tag"
)

// Keys holds the full set of envelope-derived secrets for one nonce.
type Keys struct {
	MaskingKey   []byte
	AuthKey      []byte
	ExportKey    []byte
	ClientSecret *group.Scalar
	ClientPublic *group.Element
}

// MaskingKey derives the masking key from rwd alone (it does not depend on the
// envelope nonce), so the client can unmask a CredentialResponse before the nonce -
// itself inside the masked envelope - is known.
func MaskingKey(rwd []byte) []byte {
	return internal.NewKDF().Expand(rwd, []byte(tag.MaskingKeyLabel), internal.HashLength)
}

// DeriveKeys recreates MaskingKey/AuthKey/ExportKey/the client key pair from rwd and
// nonce, per spec.md §4.4.
func DeriveKeys(rwd, nonce []byte) *Keys {
	kdf := internal.NewKDF()

	maskingKey := MaskingKey(rwd)
	authKey := kdf.Expand(rwd, encoding.Concatenate(nonce, []byte(tag.AuthKeyLabel)), internal.HashLength)
	exportKey := kdf.Expand(rwd, encoding.Concatenate(nonce, []byte(tag.ExportKeyLabel)), internal.HashLength)
	seed := kdf.Expand(rwd, encoding.Concatenate(nonce, []byte(tag.PrivateKeyLabel)), internal.SeedLength)

	clientSK := expand.HashToScalar(seed, tag.DeriveKeyPairDST)
	clientPK := group.ScalarMultBase(clientSK)

	return &Keys{
		MaskingKey:   maskingKey,
		AuthKey:      authKey,
		ExportKey:    exportKey,
		ClientSecret: clientSK,
		ClientPublic: clientPK,
	}
}

// macInput builds the byte string the envelope MAC covers, per spec.md §3's invariant:
// nonce || server_pk || htons(|idS|) || idS || htons(|idU|) || idU.
func macInput(nonce, serverPublicKey, idS, idU []byte) []byte {
	return encoding.Concatenate(
		nonce,
		serverPublicKey,
		encoding.EncodeVector(idS),
		encoding.EncodeVector(idU),
	)
}

// Seal MACs (nonce || server_pk || idS || idU) under AuthKey, producing the envelope's
// auth tag. Call after resolving identity defaulting against keys.ClientPublic.
func Seal(keys *Keys, nonce, serverPublicKey, idS, idU []byte) []byte {
	mac := internal.NewMAC()
	return mac.Compute(keys.AuthKey, macInput(nonce, serverPublicKey, idS, idU))
}

// Open verifies authTag in constant time against the same MAC input Seal computes. A
// mismatch returns internal.ErrEnvelopeRecovery and leaks no further state.
func Open(keys *Keys, nonce, authTag, serverPublicKey, idS, idU []byte) error {
	mac := internal.NewMAC()
	expected := mac.Compute(keys.AuthKey, macInput(nonce, serverPublicKey, idS, idU))

	if !mac.Equal(expected, authTag) {
		return internal.ErrEnvelopeRecovery
	}

	return nil
}
