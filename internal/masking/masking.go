// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package masking hides the server's public key and the user's envelope behind a pad
// derived from the per-user masking key, per spec.md §3's invariant:
//
//	masked_response = (server_pk || envelope) XOR Expand(masking_key, masking_nonce || "CredentialResponsePad", 32+96)
package masking

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
	"github.com/WorldofJARcraft/libopaque/internal/tag"
)

func pad(maskingKey, maskingNonce []byte, length int) []byte {
	kdf := internal.NewKDF()
	return kdf.Expand(maskingKey, encoding.Concatenate(maskingNonce, []byte(tag.CredentialResponsePad)), length)
}

func xor(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Mask draws a masking nonce (unless one is injected for test-vector mode) and returns
// (masking_nonce, masked_response).
func Mask(maskingKey, serverPublicKey, envelope []byte, injectedNonce []byte) (maskingNonce, maskedResponse []byte) {
	maskingNonce = injectedNonce
	if len(maskingNonce) == 0 {
		maskingNonce = internal.RandomBytes(internal.NonceLength)
	}

	plaintext := encoding.Concatenate(serverPublicKey, envelope)
	p := pad(maskingKey, maskingNonce, len(plaintext))

	maskedResponse = make([]byte, len(plaintext))
	xor(maskedResponse, plaintext, p)

	return maskingNonce, maskedResponse
}

// Unmask reverses Mask, splitting the recovered plaintext back into the server's
// public key (internal.ElementLength bytes) and the envelope (internal.EnvelopeSize
// bytes).
func Unmask(maskingKey, maskingNonce, maskedResponse []byte) (serverPublicKey, envelope []byte) {
	p := pad(maskingKey, maskingNonce, len(maskedResponse))

	plaintext := make([]byte, len(maskedResponse))
	xor(plaintext, maskedResponse, p)

	return plaintext[:internal.ElementLength], plaintext[internal.ElementLength:]
}
