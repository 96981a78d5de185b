// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message holds the byte-exact wire structures of spec.md §6. Every message is
// treated as an explicit sequence of fixed-size fields with declared offsets - none of
// this relies on struct layout matching the wire (spec.md §9).
package message

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
)

// Envelope is the small authenticated blob created at registration and transmitted, in
// masked form, during login (spec.md §3).
type Envelope struct {
	Nonce   []byte // 32
	AuthTag []byte // 64
}

// Serialize returns the 96-byte wire encoding of the envelope.
func (e *Envelope) Serialize() []byte {
	return encoding.Concat3(e.Nonce, e.AuthTag, nil)
}

// DeserializeEnvelope decodes a 96-byte envelope.
func DeserializeEnvelope(b []byte) (*Envelope, error) {
	if len(b) != internal.EnvelopeSize {
		return nil, internal.ErrInvalidEnvelopeLength
	}
	return &Envelope{
		Nonce:   b[:internal.NonceLength],
		AuthTag: b[internal.NonceLength:],
	}, nil
}

// RegistrationRequest is the client's first registration message: the blinded
// password.
type RegistrationRequest struct {
	BlindedMessage []byte // 32
}

// Serialize returns the 32-byte wire encoding.
func (m *RegistrationRequest) Serialize() []byte {
	return m.BlindedMessage
}

// DeserializeRegistrationRequest decodes a 32-byte registration request.
func DeserializeRegistrationRequest(b []byte) (*RegistrationRequest, error) {
	if len(b) != internal.RegistrationRequestSize {
		return nil, internal.ErrInvalidMessageLength
	}
	return &RegistrationRequest{BlindedMessage: b}, nil
}

// RegistrationResponse is the server's reply to RegistrationRequest: the OPRF
// evaluation and the server's long-term public key.
type RegistrationResponse struct {
	EvaluatedMessage []byte // 32
	ServerPublicKey  []byte // 32
}

// Serialize returns the 64-byte wire encoding.
func (m *RegistrationResponse) Serialize() []byte {
	return encoding.Concatenate(m.EvaluatedMessage, m.ServerPublicKey)
}

// DeserializeRegistrationResponse decodes a 64-byte registration response.
func DeserializeRegistrationResponse(b []byte) (*RegistrationResponse, error) {
	if len(b) != internal.RegistrationResponseSize {
		return nil, internal.ErrInvalidMessageLength
	}
	return &RegistrationResponse{
		EvaluatedMessage: b[:internal.ElementLength],
		ServerPublicKey:  b[internal.ElementLength:],
	}, nil
}

// RegistrationRecord is the client's final registration output, stored by the server
// indefinitely.
type RegistrationRecord struct {
	ClientPublicKey []byte // 32
	MaskingKey      []byte // 64
	Envelope        *Envelope
}

// Serialize returns the 192-byte wire encoding.
func (m *RegistrationRecord) Serialize() []byte {
	return encoding.Concatenate(m.ClientPublicKey, m.MaskingKey, m.Envelope.Serialize())
}

// DeserializeRegistrationRecord decodes a 192-byte registration record.
func DeserializeRegistrationRecord(b []byte) (*RegistrationRecord, error) {
	if len(b) != internal.RegistrationRecordSize {
		return nil, internal.ErrInvalidMessageLength
	}
	env, err := DeserializeEnvelope(b[internal.ElementLength+internal.HashLength:])
	if err != nil {
		return nil, err
	}
	return &RegistrationRecord{
		ClientPublicKey: b[:internal.ElementLength],
		MaskingKey:      b[internal.ElementLength : internal.ElementLength+internal.HashLength],
		Envelope:        env,
	}, nil
}

// UserRecord is the server's canonical per-user record.
type UserRecord struct {
	OPRFKey             []byte // 32, kU
	ServerSecretKey     []byte // 32, skS
	RegistrationRecord *RegistrationRecord
}

// Serialize returns the 256-byte wire encoding.
func (m *UserRecord) Serialize() []byte {
	return encoding.Concatenate(m.OPRFKey, m.ServerSecretKey, m.RegistrationRecord.Serialize())
}

// DeserializeUserRecord decodes a 256-byte user record.
func DeserializeUserRecord(b []byte) (*UserRecord, error) {
	if len(b) != internal.UserRecordSize {
		return nil, internal.ErrInvalidMessageLength
	}
	rec, err := DeserializeRegistrationRecord(b[internal.ScalarLength*2:])
	if err != nil {
		return nil, err
	}
	return &UserRecord{
		OPRFKey:             b[:internal.ScalarLength],
		ServerSecretKey:     b[internal.ScalarLength : internal.ScalarLength*2],
		RegistrationRecord: rec,
	}, nil
}

// KE1 is the first login message (CredentialRequest): the blinded password, the
// client's nonce, and its ephemeral public key.
type KE1 struct {
	BlindedMessage      []byte // 32, M
	ClientNonce         []byte // 32, nonceU
	ClientKeyShare       []byte // 32, X_u
}

// Serialize returns the 96-byte wire encoding.
func (m *KE1) Serialize() []byte {
	return encoding.Concatenate(m.BlindedMessage, m.ClientNonce, m.ClientKeyShare)
}

// DeserializeKE1 decodes a 96-byte KE1.
func DeserializeKE1(b []byte) (*KE1, error) {
	if len(b) != internal.KE1Size {
		return nil, internal.ErrInvalidMessageLength
	}
	return &KE1{
		BlindedMessage: b[:32],
		ClientNonce:    b[32:64],
		ClientKeyShare: b[64:96],
	}, nil
}

// KE2 is the second login message (CredentialResponse inner fields plus the AKE's
// ephemeral share and MAC).
type KE2 struct {
	EvaluatedMessage []byte // 32, Z
	MaskingNonce     []byte // 32
	MaskedResponse   []byte // 128
	ServerNonce      []byte // 32, nonceS
	ServerKeyShare   []byte // 32, X_s
	ServerMac        []byte // 64
}

// Serialize returns the 320-byte wire encoding.
func (m *KE2) Serialize() []byte {
	return encoding.Concatenate(m.EvaluatedMessage, m.MaskingNonce, m.MaskedResponse, m.ServerNonce, m.ServerKeyShare, m.ServerMac)
}

// SerializeCredentialResponse returns just the first five fields (everything but the
// server MAC), the portion the transcript preamble binds (spec.md §3's invariant).
func (m *KE2) SerializeCredentialResponse() []byte {
	return encoding.Concatenate(m.EvaluatedMessage, m.MaskingNonce, m.MaskedResponse, m.ServerNonce, m.ServerKeyShare)
}

// DeserializeKE2 decodes a 320-byte KE2.
func DeserializeKE2(b []byte) (*KE2, error) {
	if len(b) != internal.KE2Size {
		return nil, internal.ErrInvalidMessageLength
	}
	return &KE2{
		EvaluatedMessage: b[0:32],
		MaskingNonce:     b[32:64],
		MaskedResponse:   b[64:192],
		ServerNonce:      b[192:224],
		ServerKeyShare:   b[224:256],
		ServerMac:        b[256:320],
	}, nil
}

// KE3 is the final login message: the client's MAC, verified by UserAuth.
type KE3 struct {
	ClientMac []byte // 64
}

// Serialize returns the 64-byte wire encoding.
func (m *KE3) Serialize() []byte {
	return m.ClientMac
}

// DeserializeKE3 decodes a 64-byte KE3.
func DeserializeKE3(b []byte) (*KE3, error) {
	if len(b) != internal.MacLength {
		return nil, internal.ErrInvalidMessageLength
	}
	return &KE3{ClientMac: b}, nil
}
