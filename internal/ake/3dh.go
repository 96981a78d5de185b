// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake implements the 3DH authenticated key exchange and its HKDF-based,
// transcript-bound key schedule, per spec.md §4.5.
package ake

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/tag"
	"github.com/WorldofJARcraft/libopaque/message"
)

// Identities holds the two parties' caller-supplied identities, defaulted to the
// corresponding public key when absent (spec.md §4.4: "Defaulting is symmetric between
// the two endpoints").
type Identities struct {
	ClientIdentity []byte
	ServerIdentity []byte
}

// SetDefaults fills in ClientIdentity/ServerIdentity from the given public keys when
// the caller left them empty.
func (ids *Identities) SetDefaults(clientPublicKey, serverPublicKey []byte) {
	if len(ids.ClientIdentity) == 0 {
		ids.ClientIdentity = clientPublicKey
	}
	if len(ids.ServerIdentity) == 0 {
		ids.ServerIdentity = serverPublicKey
	}
}

// buildLabel constructs the hkdf_expand_label framing of spec.md §4.5:
//
//	htons(L) || I2OSP(7+|label|, 1) || "OPAQUE-" || label ||
//	    (I2OSP(64,1) || context)   if context present
//	    I2OSP(0,1)                 otherwise
func buildLabel(length int, label, context []byte) []byte {
	prefixed := encoding.Concatenate([]byte(tag.LabelPrefix), label)

	var ctxField []byte
	if len(context) > 0 {
		ctxField = encoding.Concatenate(encoding.I2OSP(internal.HashLength, 1), context)
	} else {
		ctxField = encoding.I2OSP(0, 1)
	}

	return encoding.Concatenate(
		encoding.I2OSP(length, 2),
		encoding.EncodeVectorLen(prefixed, 1),
		ctxField,
	)
}

func expandLabel(kdf *internal.KDF, secret, label, context []byte, length int) []byte {
	return kdf.Expand(secret, buildLabel(length, label, context), length)
}

// Preamble hashes the transcript spec.md §4.5 defines: the literal version tag, the
// caller context, idU, the full KE1, idS, and the first five fields of KE2.
func Preamble(conf *internal.Configuration, ids *Identities, ke1 *message.KE1, ke2 *message.KE2) []byte {
	h := internal.NewHash().Streaming()

	h.Write([]byte(tag.VersionTag))
	h.Write(encoding.EncodeVector(conf.Context))
	h.Write(encoding.EncodeVector(ids.ClientIdentity))
	h.Write(ke1.Serialize())
	h.Write(encoding.EncodeVector(ids.ServerIdentity))
	h.Write(ke2.SerializeCredentialResponse())

	return h.Sum()
}

// MacKeys holds the two transcript-bound MAC keys the 3DH schedule derives.
type MacKeys struct {
	ServerMacKey []byte
	ClientMacKey []byte
}

// DeriveKeys runs the HKDF-based key schedule of spec.md §4.5 over the 96-byte 3DH IKM
// and the preamble, returning the session key and the two MAC keys. prk and
// handshakeSecret are zeroised before returning.
func DeriveKeys(conf *internal.Configuration, ikm, preamble []byte) (sessionKey []byte, keys *MacKeys) {
	kdf := internal.NewKDF()

	prk := kdf.Extract(nil, ikm)
	defer zero(prk)

	handshakeSecret := expandLabel(kdf, prk, []byte(tag.HandshakeSecretLabel), preamble, internal.HashLength)
	defer zero(handshakeSecret)

	sessionKey = expandLabel(kdf, prk, []byte(tag.SessionKeyLabel), preamble, internal.HashLength)

	keys = &MacKeys{
		ServerMacKey: expandLabel(kdf, handshakeSecret, []byte(tag.MacServerLabel), nil, internal.HashLength),
		ClientMacKey: expandLabel(kdf, handshakeSecret, []byte(tag.MacClientLabel), nil, internal.HashLength),
	}

	return sessionKey, keys
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// k3dh concatenates three ristretto255 DH products: spec.md §4.5's 96-byte IKM.
func k3dh(s1 *group.Scalar, p1 *group.Element, s2 *group.Scalar, p2 *group.Element, s3 *group.Scalar, p3 *group.Element) []byte {
	return encoding.Concat3(
		group.EncodePoint(group.ScalarMult(s1, p1)),
		group.EncodePoint(group.ScalarMult(s2, p2)),
		group.EncodePoint(group.ScalarMult(s3, p3)),
	)
}

// ServerIKM computes the server's 3DH input keying material: spec.md §4.5, server role
// (skS, x_s, peer long-term pkU, peer ephemeral X_u):
//
//	scalarmult(x_s, X_u) || scalarmult(skS, X_u) || scalarmult(x_s, pkU)
func ServerIKM(xs *group.Scalar, skS *group.Scalar, Xu, pkU *group.Element) []byte {
	return k3dh(xs, Xu, skS, Xu, xs, pkU)
}

// ClientIKM computes the client's 3DH input keying material: spec.md §4.5, client role
// with roles swapped:
//
//	scalarmult(x_u, X_s) || scalarmult(x_u, pkS) || scalarmult(skU, X_s)
func ClientIKM(xu *group.Scalar, skU *group.Scalar, Xs, pkS *group.Element) []byte {
	return k3dh(xu, Xs, xu, pkS, skU, Xs)
}
