// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

//go:build !unix

package memguard

// lock/unlock are no-ops on platforms without an mlock equivalent reachable through
// golang.org/x/sys; the buffer is still zeroised on Destroy.
func lock(b []byte) error   { return nil }
func unlock(b []byte) error { return nil }
