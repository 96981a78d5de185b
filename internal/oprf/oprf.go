// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the VOPRF-08 ristretto255 OPRF base mode (spec.md §4.3):
// Blind, Evaluate, Unblind, and Finalize. Finalize is the bridge between the OPRF and
// the rest of OPAQUE - it composes the password and the unblinded evaluation, hardens
// the result with the configured memory-hard function, then runs HKDF-Extract to
// produce the 64-byte RandomizedPwd every other derivation in the module is rooted in.
package oprf

import (
	"github.com/WorldofJARcraft/libopaque/internal"
	"github.com/WorldofJARcraft/libopaque/internal/encoding"
	"github.com/WorldofJARcraft/libopaque/internal/expand"
	"github.com/WorldofJARcraft/libopaque/internal/group"
	"github.com/WorldofJARcraft/libopaque/internal/tag"
)

// Blind draws a random blinding scalar r and returns (r, M) where M = r * HashToGroup(x).
func Blind(x []byte) (r *group.Scalar, m *group.Element) {
	r = group.ScalarRandom()
	h := expand.HashToGroup(x)
	m = group.ScalarMult(r, h)
	return r, m
}

// BlindWith is Blind with a caller-supplied blinding scalar. The client drivers always
// call Blind; test-vector mode does not route through BlindWith.
func BlindWith(x []byte, r *group.Scalar) (m *group.Element) {
	h := expand.HashToGroup(x)
	return group.ScalarMult(r, h)
}

// Evaluate returns k * M, the server's OPRF evaluation. M must already have been
// validated with group.IsValidPoint by the caller if it came from the wire.
func Evaluate(k *group.Scalar, m *group.Element) *group.Element {
	return group.ScalarMult(k, m)
}

// Unblind returns (1/r) * Z, undoing the blinding applied in Blind. Z must already
// have been validated by the caller if it came from the wire.
func Unblind(r *group.Scalar, z *group.Element) *group.Element {
	rInv := group.ScalarInvert(r)
	return group.ScalarMult(rInv, z)
}

// Finalize composes the password x, the unblinded evaluation n, and the configured
// info label into the 64-byte RandomizedPwd, per spec.md §4.3.
func Finalize(conf *internal.Configuration, x []byte, n *group.Element) []byte {
	info := conf.FinalizeInfo
	encoded := group.EncodePoint(n)

	h := internal.NewHash().Sum(encoding.Concatenate(
		encoding.I2OSP(len(x), 2), x,
		encoding.I2OSP(len(info), 2), info,
		encoding.I2OSP(group.ElementLength, 2), encoded,
		encoding.I2OSP(len(tag.FinalizeDST), 2), []byte(tag.FinalizeDST),
	))

	hardened := conf.KSF.Harden(h)

	return internal.NewKDF().Extract(nil, encoding.Concatenate(h, hardened))
}
