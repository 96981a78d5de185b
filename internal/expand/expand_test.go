// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package expand_test

import (
	"bytes"
	"testing"

	"github.com/WorldofJARcraft/libopaque/internal/expand"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/tag"
)

func TestXMDDeterministicAndRightLength(t *testing.T) {
	msg := []byte("abc")
	dst := []byte("QUUX-V01-CS02-with-expander-SHA512")

	a, err := expand.XMD(msg, dst, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 128 {
		t.Fatalf("expected 128 bytes, got %d", len(a))
	}

	b, err := expand.XMD(msg, dst, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expand_message_xmd is not deterministic over identical input")
	}
}

func TestXMDSensitiveToInputs(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-expander-SHA512")

	a, err := expand.XMD([]byte("abc"), dst, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := expand.XMD([]byte("abcd"), dst, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("expand_message_xmd output did not change with the message")
	}

	c, err := expand.XMD([]byte("abc"), []byte("other-dst"), 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatal("expand_message_xmd output did not change with the DST")
	}
}

func TestXMDRejectsOverlongOutput(t *testing.T) {
	// ell = ceil(length / 64) must not exceed 255 for SHA-512.
	if _, err := expand.XMD([]byte("abc"), []byte("dst"), 255*64+1); err == nil {
		t.Fatal("expected an error for an output length exceeding 255*b_in_bytes")
	}
}

func TestHashToGroupProducesValidPoint(t *testing.T) {
	p := expand.HashToGroup([]byte("some password"))
	if !group.IsValidPoint(group.EncodePoint(p)) {
		t.Fatal("HashToGroup did not produce a valid ristretto255 point")
	}
}

func TestHashToScalarDeterministic(t *testing.T) {
	a := expand.HashToScalar([]byte("seed"), tag.DeriveKeyPairDST)
	b := expand.HashToScalar([]byte("seed"), tag.DeriveKeyPairDST)

	if !bytes.Equal(group.EncodeScalar(a), group.EncodeScalar(b)) {
		t.Fatal("HashToScalar is not deterministic over identical input")
	}
}

// TestHashToScalarDSTDomainSeparation exercises the generic VOPRF-08 scalar DST
// (spec.md §4.2 names it alongside "OPAQUE-DeriveAuthKeyPair" as one of the two tags
// HashToScalar is used with) and checks it separates from the key-derivation DST over
// the same input.
func TestHashToScalarDSTDomainSeparation(t *testing.T) {
	a := expand.HashToScalar([]byte("seed"), tag.HashToScalarDST)
	b := expand.HashToScalar([]byte("seed"), tag.DeriveKeyPairDST)

	if bytes.Equal(group.EncodeScalar(a), group.EncodeScalar(b)) {
		t.Fatal("HashToScalar output did not change with the domain-separation tag")
	}
}
