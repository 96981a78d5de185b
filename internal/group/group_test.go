// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package group_test

import (
	"bytes"
	"testing"

	"github.com/WorldofJARcraft/libopaque/internal/group"
)

func TestScalarRandomDistinct(t *testing.T) {
	a := group.ScalarRandom()
	b := group.ScalarRandom()

	if group.EncodeScalar(a) == nil || group.EncodeScalar(b) == nil {
		t.Fatal("expected non-nil encodings")
	}
	if bytes.Equal(group.EncodeScalar(a), group.EncodeScalar(b)) {
		t.Fatal("two independently drawn random scalars collided")
	}
}

func TestScalarInvertRoundTrip(t *testing.T) {
	s := group.ScalarRandom()
	inv := group.ScalarInvert(s)

	base := group.ScalarMultBase(group.ScalarRandom())
	sp := group.ScalarMult(s, base)
	back := group.ScalarMult(inv, sp)

	if !bytes.Equal(group.EncodePoint(back), group.EncodePoint(base)) {
		t.Fatal("s^-1 * (s * p) != p")
	}
}

func TestDecodePointRejectsGarbage(t *testing.T) {
	nonCanonical := bytes.Repeat([]byte{0xff}, 32)
	if group.IsValidPoint(nonCanonical) {
		// 0xff..ff is not a canonical field element encoding (it exceeds p and is negative).
		t.Fatal("expected non-canonical string to be rejected")
	}
	if group.IsValidPoint([]byte("too short")) {
		t.Fatal("expected undersized input to be rejected")
	}
}

func TestEncodeDecodePointRoundTrip(t *testing.T) {
	s := group.ScalarRandom()
	p := group.ScalarMultBase(s)
	enc := group.EncodePoint(p)

	if len(enc) != group.ElementLength {
		t.Fatalf("expected %d-byte encoding, got %d", group.ElementLength, len(enc))
	}

	dec, err := group.DecodePoint(enc)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !bytes.Equal(group.EncodePoint(dec), enc) {
		t.Fatal("decode(encode(p)) != p")
	}
}

func TestMapToGroupDeterministic(t *testing.T) {
	wide := make([]byte, 64)
	for i := range wide {
		wide[i] = byte(i)
	}

	a := group.MapToGroup(wide)
	b := group.MapToGroup(wide)

	if !bytes.Equal(group.EncodePoint(a), group.EncodePoint(b)) {
		t.Fatal("MapToGroup is not deterministic over identical input")
	}
}

func TestMapToGroupPanicsOnWrongLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on non-64-byte input")
		}
	}()
	group.MapToGroup(make([]byte, 32))
}
