// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag holds the fixed domain-separation byte strings the draft pins protocol
// messages to. None of these may be changed without breaking interoperability with other
// draft-compliant implementations: see draft-irtf-cfrg-voprf-08 and
// draft-irtf-cfrg-opaque.
package tag

const (
	// HashToGroupDST is the expand_message_xmd domain separation tag used to map a
	// password (or OPRF input) onto the ristretto255 group.
	HashToGroupDST = "HashToGroup-VOPRF08-\x00\x00\x01"

	// HashToScalarDST is the generic VOPRF-08 expand_message_xmd domain separation
	// tag for HashToScalar. No production code path uses it.
	HashToScalarDST = "HashToScalar-VOPRF08-\x00\x00\x01"

	// DeriveKeyPairDST is the domain separation tag used to turn the private-key
	// seed derived from RandomizedPwd into the client's long-term AKE scalar.
	DeriveKeyPairDST = "OPAQUE-DeriveAuthKeyPair"

	// FinalizeDST is appended to the OPRF Finalize transcript hash.
	FinalizeDST = "Finalize-VOPRF08-\x00\x00\x01"

	// FinalizeInfoDefault is the info label mixed into Finalize in production mode.
	FinalizeInfoDefault = "OPAQUE01"

	// FinalizeInfoTestVectors is the info label mixed into Finalize when
	// reproducing the published CFRG test vectors (empty by definition).
	FinalizeInfoTestVectors = ""

	// MaskingKeyLabel is the HKDF-Expand label used to derive the masking key.
	MaskingKeyLabel = "MaskingKey"

	// AuthKeyLabel is the HKDF-Expand label used to derive the envelope auth key.
	AuthKeyLabel = "AuthKey"

	// ExportKeyLabel is the HKDF-Expand label used to derive the caller-visible export key.
	ExportKeyLabel = "ExportKey"

	// PrivateKeyLabel is the HKDF-Expand label used to derive the client's
	// long-term key-pair seed.
	PrivateKeyLabel = "PrivateKey"

	// CredentialResponsePad is the expand label used to derive the masked_response pad.
	CredentialResponsePad = "CredentialResponsePad"

	// VersionTag is the literal 7-byte preamble prefix the draft pins interop to.
	VersionTag = "RFCXXXX"

	// HandshakeSecretLabel names the handshake secret in the 3DH key schedule.
	HandshakeSecretLabel = "HandshakeSecret"

	// SessionKeyLabel names the session key in the 3DH key schedule.
	SessionKeyLabel = "SessionKey"

	// MacServerLabel names the server MAC key in the 3DH key schedule.
	MacServerLabel = "ServerMAC"

	// MacClientLabel names the client MAC key in the 3DH key schedule.
	MacClientLabel = "ClientMAC"

	// LabelPrefix is prepended to every hkdf_expand_label label, per spec.md §4.5.
	LabelPrefix = "OPAQUE-"
)
