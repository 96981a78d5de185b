// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding holds the byte-exact framing helpers the wire formats in spec.md §6
// depend on: network-byte-order length prefixes and plain concatenation. Nothing here
// relies on struct layout; every message is built as an explicit sequence of
// fixed-size fields.
package encoding

import "errors"

// ErrVectorTooShort is returned when decoding a length-prefixed vector whose declared
// length exceeds the remaining input.
var ErrVectorTooShort = errors.New("encoding: length-prefixed vector runs past end of input")

// I2OSP encodes i as a big-endian (network byte order) unsigned integer of the given
// byte length. It panics if i does not fit, mirroring the draft's I2OSP failure mode
// (this is always a programmer error: every caller in this module passes a
// compile-time-bounded length).
func I2OSP(i, length int) []byte {
	out := make([]byte, length)
	for j := length - 1; j >= 0; j-- {
		out[j] = byte(i & 0xff)
		i >>= 8
	}
	if i != 0 {
		panic("encoding: I2OSP: integer too large for requested length")
	}
	return out
}

// Concatenate returns the concatenation of all inputs into one freshly allocated slice.
func Concatenate(inputs ...[]byte) []byte {
	n := 0
	for _, in := range inputs {
		n += len(in)
	}
	out := make([]byte, 0, n)
	for _, in := range inputs {
		out = append(out, in...)
	}
	return out
}

// Concat3 is a small fixed-arity convenience wrapper around Concatenate, matching the
// call shape used throughout the AKE and message-serialization code.
func Concat3(a, b, c []byte) []byte {
	return Concatenate(a, b, c)
}

// EncodeVector prefixes data with its 2-byte (uint16) big-endian length, per the
// "htons(|x|) || x" framing spec.md uses for identities and context strings.
func EncodeVector(data []byte) []byte {
	return Concatenate(I2OSP(len(data), 2), data)
}

// DecodeVector reads a 2-byte length-prefixed vector from the front of in, returning
// the vector's payload and the number of input bytes consumed.
func DecodeVector(in []byte) (data []byte, consumed int, err error) {
	if len(in) < 2 {
		return nil, 0, ErrVectorTooShort
	}
	l := int(in[0])<<8 | int(in[1])
	if len(in) < 2+l {
		return nil, 0, ErrVectorTooShort
	}
	return in[2 : 2+l], 2 + l, nil
}

// EncodeVectorLen is like EncodeVector but with a configurable length-prefix size,
// used by hkdf_expand_label's single-byte-prefixed label field.
func EncodeVectorLen(data []byte, prefixLen int) []byte {
	return Concatenate(I2OSP(len(data), prefixLen), data)
}
