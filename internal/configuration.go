// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal holds the frozen configuration block and primitive wrappers shared
// by the protocol driver packages. Configuration is built once at construction time
// (spec.md §9: "the only process-wide state is a small configuration block chosen at
// construction... set once; no runtime mutation") and never mutated afterward.
package internal

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"errors"

	"github.com/bytemare/hash"
	"github.com/bytemare/ksf"
)

// Fixed sizes, per spec.md §3 and §6. The suite is locked to ristretto255/SHA-512 -
// spec.md §1 Non-goals explicitly excludes cipher-suite negotiation.
const (
	ScalarLength  = 32
	ElementLength = 32
	NonceLength   = 32
	SeedLength    = 32
	HashLength    = 64
	MacLength     = 64

	EnvelopeSize            = NonceLength + MacLength // 96
	RegistrationRecordSize  = ElementLength + HashLength + EnvelopeSize // 192
	UserRecordSize          = ScalarLength + ScalarLength + RegistrationRecordSize // 256
	KE1Size                 = ElementLength + NonceLength + ElementLength // 96
	MaskedResponseSize      = ElementLength + EnvelopeSize // 128
	KE2Size                 = ElementLength + NonceLength + MaskedResponseSize + NonceLength + ElementLength + MacLength // 320
	RegistrationRequestSize = ElementLength
	RegistrationResponseSize = ElementLength + ElementLength
)

// Sentinel errors, one per discriminant in spec.md §7 except MHF failure, which has
// none. Every operation that returns one of these aborts without a partial result; the
// password and RandomizedPwd buffers are zeroised on those paths, other derived keys
// are not wiped.
var (
	// ErrInvalidPoint indicates a peer-supplied group element failed validity.
	ErrInvalidPoint = errors.New("opaque: invalid point")

	// ErrEnvelopeRecovery indicates an envelope MAC mismatch after client-side
	// derivation. It is a separate value from ErrHandshake.
	ErrEnvelopeRecovery = errors.New("opaque: credential recovery failed")

	// ErrHandshake indicates a server or client MAC mismatch during the AKE.
	ErrHandshake = errors.New("opaque: handshake authentication failed")

	// ErrMemoryLock indicates the platform refused to lock a required secret buffer.
	ErrMemoryLock = errors.New("opaque: failed to lock secret memory")

	// ErrRandomness indicates the platform RNG failed.
	ErrRandomness = errors.New("opaque: randomness source failed")

	// ErrInvalidConfiguration indicates a Configuration field was out of range.
	ErrInvalidConfiguration = errors.New("opaque: invalid configuration")

	// ErrConfigurationInvalidLength indicates a serialized Configuration was too short
	// to decode.
	ErrConfigurationInvalidLength = errors.New("opaque: configuration encoding too short")

	// ErrInvalidEnvelopeLength indicates a stored RegistrationRecord's envelope is not
	// EnvelopeSize bytes.
	ErrInvalidEnvelopeLength = errors.New("opaque: invalid envelope length")

	// ErrInvalidMessageLength indicates a wire message decoded to the wrong length.
	ErrInvalidMessageLength = errors.New("opaque: invalid message length")
)

// Configuration is the frozen, validated set of parameters every internal package
// closes over for the lifetime of a Client/Server. It corresponds to the root
// package's exported Configuration after toInternal() has validated it.
type Configuration struct {
	// Context is the caller-supplied application context mixed into the preamble.
	Context []byte

	// FinalizeInfo is the OPRF Finalize info label (spec.md §4.3): "OPAQUE01" in
	// production, empty in CFRG test-vector mode.
	FinalizeInfo []byte

	// KSF is the configured memory-hard function.
	KSF *KSF

	// TestVectors records whether CFRG test-vector mode was selected. Nothing reads it
	// to change the randomness source: RandomBytes and the scalar draws always use the
	// platform RNG.
	TestVectors bool
}

// KDF wraps HKDF-SHA-512 Extract/Expand via github.com/bytemare/hash.
type KDF struct {
	h hash.Hashing
}

// NewKDF returns the fixed HKDF-SHA-512 KDF the suite specifies.
func NewKDF() *KDF {
	return &KDF{h: hash.SHA512}
}

// Size returns the KDF's output block size (64 for SHA-512).
func (k *KDF) Size() int {
	return k.h.Get().Size()
}

// Extract runs HKDF-Extract(salt, ikm).
func (k *KDF) Extract(salt, ikm []byte) []byte {
	return k.h.Get().HKDFExtract(ikm, salt)
}

// Expand runs HKDF-Expand(secret, info, length).
func (k *KDF) Expand(secret, info []byte, length int) []byte {
	return k.h.Get().HKDFExpand(secret, info, length)
}

// MAC wraps HMAC-SHA-512 via github.com/bytemare/hash, with a constant-time Equal.
type MAC struct {
	h hash.Hashing
}

// NewMAC returns the fixed HMAC-SHA-512 MAC the suite specifies.
func NewMAC() *MAC {
	return &MAC{h: hash.SHA512}
}

// Size returns the MAC's tag size (64 for HMAC-SHA-512).
func (m *MAC) Size() int {
	return m.h.Get().Size()
}

// Compute returns HMAC-SHA-512(key, message).
func (m *MAC) Compute(key, message []byte) []byte {
	return m.h.Get().Hmac(message, key)
}

// Equal performs a constant-time comparison of two MAC tags, per spec.md §5's
// constant-time discipline. It never short-circuits on a length mismatch at the byte
// level beyond what crypto/hmac.Equal already guarantees.
func (m *MAC) Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}

// Hash wraps plain SHA-512 hashing, used for the transcript preamble and the OPRF
// Finalize transcript.
type Hash struct {
	h hash.Hashing
}

// NewHash returns the fixed SHA-512 hash the suite specifies.
func NewHash() *Hash {
	return &Hash{h: hash.SHA512}
}

// Size returns the hash's digest size (64 for SHA-512).
func (h *Hash) Size() int {
	return h.h.Get().Size()
}

// Sum returns SHA-512(data).
func (h *Hash) Sum(data []byte) []byte {
	sum := sha512.Sum512(data)
	return sum[:]
}

// Streaming returns a fresh streaming SHA-512 hasher compatible with the transcript
// preamble construction in internal/ake.
func (h *Hash) Streaming() *StreamingHash {
	return &StreamingHash{h: sha512.New()}
}

// StreamingHash accumulates writes for the preamble transcript (spec.md §4.5).
type StreamingHash struct {
	h interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

// Write feeds more transcript bytes into the running hash.
func (s *StreamingHash) Write(p []byte) {
	_, _ = s.h.Write(p)
}

// Sum finalizes and returns the current 64-byte digest without resetting state.
func (s *StreamingHash) Sum() []byte {
	return s.h.Sum(nil)
}

// KSF wraps the configured memory-hard function (spec.md §4.3's MHF step). In
// production this is Argon2id (github.com/bytemare/ksf); in CFRG test-vector mode it is
// the identity function, since the published vectors are computed without hardening.
type KSF struct {
	identity bool
	id       ksf.Identifier
}

// NewKSF returns the production Argon2id-backed memory-hard function.
func NewKSF() *KSF {
	return &KSF{id: ksf.Argon2id}
}

// NewIdentityKSF returns a no-op hardening step, used only in CFRG test-vector mode.
func NewIdentityKSF() *KSF {
	return &KSF{identity: true}
}

// Harden applies the configured memory-hard function to input.
func (k *KSF) Harden(input []byte) []byte {
	if k.identity {
		out := make([]byte, len(input))
		copy(out, input)
		return out
	}
	return k.id.Get().Harden(input, nil, HashLength)
}

// RandomBytes returns length bytes read from the platform CSPRNG, panicking on
// failure - spec.md §7 models RNG failure as ErrRandomness, but crypto/rand.Read
// failing is an unrecoverable environment fault no caller can meaningfully continue
// past.
func RandomBytes(length int) []byte {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(ErrRandomness)
	}
	return b
}
