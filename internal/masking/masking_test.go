// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package masking_test

import (
	"bytes"
	"testing"

	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/masking"
)

func TestMaskUnmaskRoundTrip(t *testing.T) {
	maskingKey := internal.RandomBytes(internal.HashLength)
	serverPublicKey := internal.RandomBytes(internal.ElementLength)
	envelope := internal.RandomBytes(internal.EnvelopeSize)

	nonce, masked := masking.Mask(maskingKey, serverPublicKey, envelope, nil)
	if len(nonce) != internal.NonceLength {
		t.Fatalf("expected a %d-byte masking nonce, got %d", internal.NonceLength, len(nonce))
	}
	if len(masked) != internal.ElementLength+internal.EnvelopeSize {
		t.Fatalf("expected a %d-byte masked response, got %d", internal.ElementLength+internal.EnvelopeSize, len(masked))
	}

	gotServerPK, gotEnvelope := masking.Unmask(maskingKey, nonce, masked)
	if !bytes.Equal(gotServerPK, serverPublicKey) {
		t.Fatal("Unmask did not recover the masked server public key")
	}
	if !bytes.Equal(gotEnvelope, envelope) {
		t.Fatal("Unmask did not recover the masked envelope")
	}
}

func TestMaskWithInjectedNonce(t *testing.T) {
	maskingKey := internal.RandomBytes(internal.HashLength)
	serverPublicKey := internal.RandomBytes(internal.ElementLength)
	envelope := internal.RandomBytes(internal.EnvelopeSize)
	injected := internal.RandomBytes(internal.NonceLength)

	nonce, _ := masking.Mask(maskingKey, serverPublicKey, envelope, injected)
	if !bytes.Equal(nonce, injected) {
		t.Fatal("Mask did not use the injected masking nonce")
	}
}

func TestUnmaskWithWrongKeyProducesGarbage(t *testing.T) {
	maskingKey := internal.RandomBytes(internal.HashLength)
	otherKey := internal.RandomBytes(internal.HashLength)
	serverPublicKey := internal.RandomBytes(internal.ElementLength)
	envelope := internal.RandomBytes(internal.EnvelopeSize)

	nonce, masked := masking.Mask(maskingKey, serverPublicKey, envelope, nil)
	gotServerPK, _ := masking.Unmask(otherKey, nonce, masked)

	if bytes.Equal(gotServerPK, serverPublicKey) {
		t.Fatal("Unmask with the wrong masking key should not recover the original plaintext")
	}
}
