// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/WorldofJARcraft/libopaque/internal"
)

// timingAnalysis runs a and b n times each and flags a relative runtime delta over 1%,
// adapted from avahowell-occlude/crypto_test.go's constant-time check.
func timingAnalysis(a func(), b func(), n int) error {
	type timingData struct {
		a []time.Duration
		b []time.Duration
	}
	t := timingData{}
	for i := 0; i < n; i++ {
		s := time.Now()
		a()
		t.a = append(t.a, time.Since(s))
		s = time.Now()
		b()
		t.b = append(t.b, time.Since(s))
	}

	var sumA, sumB time.Duration
	for i := range t.a {
		sumA += t.a[i]
		sumB += t.b[i]
	}
	sumA /= time.Duration(len(t.a))
	sumB /= time.Duration(len(t.b))

	var diff time.Duration
	if sumA > sumB {
		diff = sumA - sumB
	} else {
		diff = sumB - sumA
	}
	diff = diff * 100 / ((sumA + sumB) / 2)

	if diff > 1 {
		return fmt.Errorf("non constant time: A=%v B=%v delta=%v%%", sumA, sumB, diff)
	}
	return nil
}

// TestMACEqualConstantTime times internal.MAC.Equal - the comparison envelope
// recovery and AKE MAC verification both rely on - for tags that match, mismatch in
// their first byte, or mismatch in their last byte (spec.md §8, testable property 8).
// A timing delta over 1% is only logged, not failed; the test fails only if Equal
// returns the wrong result.
func TestMACEqualConstantTime(t *testing.T) {
	mac := internal.NewMAC()
	key := internal.RandomBytes(internal.HashLength)
	msg := internal.RandomBytes(64)
	tag := mac.Compute(key, msg)

	matching := make([]byte, len(tag))
	copy(matching, tag)

	mismatchFirst := make([]byte, len(tag))
	copy(mismatchFirst, tag)
	mismatchFirst[0] ^= 0xff

	mismatchLast := make([]byte, len(tag))
	copy(mismatchLast, tag)
	mismatchLast[len(mismatchLast)-1] ^= 0xff

	fMatch := func() { mac.Equal(tag, matching) }
	fFirst := func() { mac.Equal(tag, mismatchFirst) }
	fLast := func() { mac.Equal(tag, mismatchLast) }

	if err := timingAnalysis(fMatch, fFirst, 10000); err != nil {
		t.Log(err)
	}
	if err := timingAnalysis(fFirst, fLast, 10000); err != nil {
		t.Log(err)
	}
	if err := timingAnalysis(fMatch, fLast, 10000); err != nil {
		t.Log(err)
	}

	if !mac.Equal(tag, matching) {
		t.Fatal("matching tags must compare equal")
	}
	if mac.Equal(tag, mismatchFirst) || mac.Equal(tag, mismatchLast) {
		t.Fatal("mismatched tags must not compare equal")
	}
}
