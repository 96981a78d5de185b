// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package group wraps the ristretto255 group operations the rest of the module needs,
// per spec.md §4.1. Every function that accepts peer-supplied bytes validates them
// before use; nothing in this package retains state between calls.
package group

import (
	"crypto/rand"
	"errors"

	ristretto "github.com/gtank/ristretto255"
)

const (
	// ScalarLength is the encoded size of a ristretto255 scalar.
	ScalarLength = 32

	// ElementLength is the encoded size of a ristretto255 group element.
	ElementLength = 32
)

// ErrInvalidPoint is returned when a peer-supplied byte string does not decode to a
// valid ristretto255 group element.
var ErrInvalidPoint = errors.New("group: invalid ristretto255 point")

// ErrInvalidScalar is returned when a peer-supplied byte string does not decode to a
// valid ristretto255 scalar.
var ErrInvalidScalar = errors.New("group: invalid ristretto255 scalar")

// Scalar is a ristretto255 scalar.
type Scalar = ristretto.Scalar

// Element is a ristretto255 group element.
type Element = ristretto.Element

// ScalarRandom returns a uniformly random scalar, reducing 64 bytes of fresh
// randomness modulo the group order (scalar_random).
func ScalarRandom() *Scalar {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		panic("group: failed to read system randomness")
	}
	return ScalarReduceWide(b)
}

// ScalarReduceWide reduces a 64-byte uniform buffer modulo the group order.
func ScalarReduceWide(wide []byte) *Scalar {
	if len(wide) != 64 {
		panic("group: ScalarReduceWide requires exactly 64 bytes")
	}
	return new(Scalar).FromUniformBytes(wide)
}

// ScalarInvert returns the multiplicative inverse of s modulo the group order.
func ScalarInvert(s *Scalar) *Scalar {
	return new(Scalar).Invert(s)
}

// DecodeScalar decodes and validates an encoded scalar.
func DecodeScalar(b []byte) (*Scalar, error) {
	s := new(Scalar)
	if err := s.Decode(b); err != nil {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

// EncodeScalar returns the canonical 32-byte encoding of s.
func EncodeScalar(s *Scalar) []byte {
	return s.Encode(nil)
}

// IsValidPoint reports whether b is the canonical encoding of a ristretto255 element.
// Every byte string that originates from a peer and will be used as the base of a
// scalar multiplication MUST pass this check first.
func IsValidPoint(b []byte) bool {
	_, err := DecodePoint(b)
	return err == nil
}

// DecodePoint decodes and validates an encoded group element, returning ErrInvalidPoint
// on failure.
func DecodePoint(b []byte) (*Element, error) {
	e := new(Element)
	if err := e.Decode(b); err != nil {
		return nil, ErrInvalidPoint
	}
	return e, nil
}

// EncodePoint returns the canonical 32-byte encoding of e.
func EncodePoint(e *Element) []byte {
	return e.Encode(nil)
}

// ScalarMult returns s*p. The caller must have validated p via IsValidPoint/DecodePoint
// if p originated from a peer.
func ScalarMult(s *Scalar, p *Element) *Element {
	return new(Element).ScalarMult(s, p)
}

// ScalarMultBase returns s*G, the group's base point multiplied by s.
func ScalarMultBase(s *Scalar) *Element {
	return new(Element).ScalarBaseMult(s)
}

// MapToGroup reduces a 64-byte uniform buffer to a group element (the non-constant
// "H'" of spec.md §2, implemented here via Elligator2 through gtank/ristretto255's
// FromUniformBytes).
func MapToGroup(wide []byte) *Element {
	if len(wide) != 64 {
		panic("group: MapToGroup requires exactly 64 bytes")
	}
	return new(Element).FromUniformBytes(wide)
}
