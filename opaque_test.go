// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"bytes"
	"testing"

	"github.com/WorldofJARcraft/libopaque"
	"github.com/WorldofJARcraft/libopaque/message"
)

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	conf := opaque.DefaultConfiguration()
	password := []byte("correct horse battery staple")

	serverSecretKey, _ := opaque.KeyGen()

	userRecord, exportKeyReg, err := conf.Register(password, serverSecretKey, opaque.Identities{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	sessionKeyServer, exportKeyLogin, err := conf.Login(password, userRecord, nil, opaque.Identities{})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if !bytes.Equal(exportKeyReg, exportKeyLogin) {
		t.Fatal("export key differs between registration and a successful login")
	}
	if len(sessionKeyServer) == 0 {
		t.Fatal("expected a non-empty negotiated session key")
	}
}

func TestLoginFailsOnWrongPassword(t *testing.T) {
	conf := opaque.DefaultConfiguration()

	serverSecretKey, _ := opaque.KeyGen()

	userRecord, _, err := conf.Register([]byte("the real password"), serverSecretKey, opaque.Identities{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := conf.Login([]byte("a wrong password"), userRecord, nil, opaque.Identities{}); err == nil {
		t.Fatal("expected Login to fail with the wrong password")
	}
}

func TestLoginFailsWithMismatchedClientIdentity(t *testing.T) {
	conf := opaque.DefaultConfiguration()
	password := []byte("correct horse battery staple")

	serverSecretKey, _ := opaque.KeyGen()

	regIDs := opaque.Identities{ClientIdentity: []byte("alice")}
	userRecord, _, err := conf.Register(password, serverSecretKey, regIDs)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	loginIDs := opaque.Identities{ClientIdentity: []byte("mallory")}
	if _, _, err := conf.Login(password, userRecord, nil, loginIDs); err == nil {
		t.Fatal("expected Login to fail when the client identity does not match the one used at registration")
	}
}

func TestDifferentRegistrationsOfSamePasswordYieldDifferentRecords(t *testing.T) {
	conf := opaque.DefaultConfiguration()
	password := []byte("correct horse battery staple")

	serverSecretKey, _ := opaque.KeyGen()

	rec1, _, err := conf.Register(password, serverSecretKey, opaque.Identities{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	rec2, _, err := conf.Register(password, serverSecretKey, opaque.Identities{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if bytes.Equal(rec1.Serialize(), rec2.Serialize()) {
		t.Fatal("two independent registrations of the same password produced identical records")
	}
}

func TestLoginFailsWithMismatchedContext(t *testing.T) {
	password := []byte("correct horse battery staple")

	regConf := opaque.DefaultConfiguration()
	serverSecretKey, _ := opaque.KeyGen()

	userRecord, _, err := regConf.Register(password, serverSecretKey, opaque.Identities{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	clientConf := &opaque.Configuration{Context: []byte("client context")}
	serverConf := &opaque.Configuration{Context: []byte("server context")}

	client, err := clientConf.Client()
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}
	server, err := serverConf.Server()
	if err != nil {
		t.Fatalf("Server failed: %v", err)
	}

	sec, ke1, err := client.CreateCredentialRequest(password)
	if err != nil {
		t.Fatalf("CreateCredentialRequest failed: %v", err)
	}
	defer sec.Destroy()

	ke2, err := server.CreateCredentialResponse(ke1, userRecord, opaque.Identities{})
	if err != nil {
		t.Fatalf("CreateCredentialResponse failed: %v", err)
	}

	clientSessionKey, clientMac, _, err := client.RecoverCredentials(sec, ke2, nil, opaque.Identities{})
	if err != nil {
		// The client detects the mismatched preamble while verifying the server's MAC,
		// which is itself a MAC failure satisfying spec.md §8 property 4.
		return
	}

	serverSessionKey, err := server.UserAuth(&message.KE3{ClientMac: clientMac})
	if err == nil && bytes.Equal(clientSessionKey, serverSessionKey) {
		t.Fatal("expected mismatched ctx on the two sides to produce mismatched session keys or a MAC failure")
	}
}

func TestStoreUserRecordIsIdempotent(t *testing.T) {
	conf := opaque.DefaultConfiguration()
	password := []byte("correct horse battery staple")

	client, err := conf.Client()
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}
	server, err := conf.Server()
	if err != nil {
		t.Fatalf("Server failed: %v", err)
	}

	sec, req, err := client.CreateRegistrationRequest(password)
	if err != nil {
		t.Fatalf("CreateRegistrationRequest failed: %v", err)
	}
	defer sec.Destroy()

	serverSecretKey, _ := opaque.KeyGen()
	srvSec, resp, err := server.CreateRegistrationResponse(req, serverSecretKey)
	if err != nil {
		t.Fatalf("CreateRegistrationResponse failed: %v", err)
	}

	record, _, err := client.FinalizeRequest(sec, resp, opaque.Identities{})
	if err != nil {
		t.Fatalf("FinalizeRequest failed: %v", err)
	}

	r1 := server.StoreUserRecord(srvSec, record)
	r2 := server.StoreUserRecord(srvSec, record)

	if !bytes.Equal(r1.Serialize(), r2.Serialize()) {
		t.Fatal("StoreUserRecord must be idempotent over identical inputs")
	}
}

func TestKeyGenProducesUsableKeyPair(t *testing.T) {
	sk, pk := opaque.KeyGen()
	if len(sk) == 0 || len(pk) == 0 {
		t.Fatal("expected non-empty key pair")
	}
}

func TestRandomBytesLength(t *testing.T) {
	b := opaque.RandomBytes(32)
	if len(b) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(b))
	}
}
