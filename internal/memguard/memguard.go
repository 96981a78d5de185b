// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package memguard provides locked, zeroise-on-destroy secret buffers. The client
// drivers wrap the password and RandomizedPwd in a Secret; AuthKey, Km2/Km3, the
// session key, scalars, and the 96-byte 3DH IKM are not held in one (the IKM and MAC
// keys are zeroed with plain loops, unlocked). Locking uses golang.org/x/sys, an
// indirect dependency of the teacher promoted to direct use here since no
// memory-locking library appears anywhere in the retrieval pack (see DESIGN.md).
package memguard

import "errors"

// ErrLockFailed surfaces as internal.ErrMemoryLock to callers (spec.md §7: MemoryLockFailure).
var ErrLockFailed = errors.New("memguard: failed to lock secret buffer")

// Secret is a byte buffer holding key material. It is locked against swap on
// allocation (best effort, platform dependent) and must be released via Destroy on
// every exit path, including error returns.
type Secret struct {
	b      []byte
	locked bool
}

// New allocates a zeroed Secret of the given length and attempts to lock it.
func New(length int) (*Secret, error) {
	s := &Secret{b: make([]byte, length)}
	if err := lock(s.b); err != nil {
		return nil, ErrLockFailed
	}
	s.locked = true
	return s, nil
}

// Wrap takes ownership of an existing buffer, locking it in place. The caller must not
// retain any other reference to b.
func Wrap(b []byte) (*Secret, error) {
	s := &Secret{b: b}
	if err := lock(s.b); err != nil {
		return nil, ErrLockFailed
	}
	s.locked = true
	return s, nil
}

// Bytes returns the underlying buffer. The returned slice aliases the Secret's storage
// and must not outlive a call to Destroy.
func (s *Secret) Bytes() []byte {
	return s.b
}

// Destroy zeroises the buffer and releases its lock. Safe to call multiple times and on
// a nil *Secret.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	Zero(s.b)
	if s.locked {
		_ = unlock(s.b)
		s.locked = false
	}
}

// Zero overwrites b with zeroes in place. It does not short-circuit and makes no
// assumption about the compiler eliding the write, matching the constant-time
// discipline spec.md §5 requires of every exit path touching secret bytes.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
