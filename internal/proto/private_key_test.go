// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/toeirei/keyproto/internal/security"
)

func samplePrivateKeys() map[string]PrivateKey {
	return map[string]PrivateKey{
		"rsa": &RsaPrivateKey{
			N: MpInt{0x00, 0xc3, 0x11}, E: MpInt{1, 0, 1},
			D: security.Secret{0x11}, Iqmp: security.Secret{0x12}, P: security.Secret{0x13}, Q: security.Secret{0x14},
		},
		"dss": &DssPrivateKey{P: MpInt{0x00, 0x81}, Q: MpInt{5}, G: MpInt{2}, Y: MpInt{9}, X: security.Secret{3}},
		"ecdsa": &EcDsaPrivateKey{
			Identifier: "nistp384", Q: MpInt{4, 1, 2, 3}, D: security.Secret{0x00, 0x99},
		},
		"sk-ecdsa": &SkEcDsaPrivateKey{
			Identifier: "nistp256", Q: MpInt{4, 7}, Application: "ssh:",
			Flags: 0x01, KeyHandle: security.Secret{0xaa, 0xbb}, Reserved: []byte{},
		},
		"ed25519": &Ed25519PrivateKey{
			EncA: bytes.Repeat([]byte{2}, 32), KEncA: security.Secret(bytes.Repeat([]byte{3}, 64)),
		},
		"sk-ed25519": &SkEd25519PrivateKey{
			EncA: bytes.Repeat([]byte{4}, 32), Application: "ssh:test",
			Flags: 0x05, KeyHandle: security.Secret{0xcc}, Reserved: nil,
		},
	}
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	for name, k := range samplePrivateKeys() {
		data := k.Marshal()
		got, err := ParsePrivateKey(data)
		if err != nil {
			t.Fatalf("%s: ParsePrivateKey failed: %v", name, err)
		}
		if got.KeyType() != k.KeyType() {
			t.Fatalf("%s: key type changed from %q to %q", name, k.KeyType(), got.KeyType())
		}
		if !bytes.Equal(got.Marshal(), data) {
			t.Fatalf("%s: re-encoding differs", name)
		}
	}
}

func TestProjectionCopiesPublicFields(t *testing.T) {
	rsa := samplePrivateKeys()["rsa"].(*RsaPrivateKey)
	rp := rsa.PublicKey()
	if !bytes.Equal(rp.E, rsa.E) || !bytes.Equal(rp.N, rsa.N) {
		t.Fatalf("rsa fields differ: %#v", rp)
	}

	dss := samplePrivateKeys()["dss"].(*DssPrivateKey)
	dp := dss.PublicKey()
	if !bytes.Equal(dp.P, dss.P) || !bytes.Equal(dp.Q, dss.Q) || !bytes.Equal(dp.G, dss.G) || !bytes.Equal(dp.Y, dss.Y) {
		t.Fatalf("dss fields differ: %#v", dp)
	}

	ec := samplePrivateKeys()["ecdsa"].(*EcDsaPrivateKey)
	ep := ec.PublicKey()
	if ep.Identifier != ec.Identifier || !bytes.Equal(ep.Q, ec.Q) {
		t.Fatalf("ecdsa fields differ: %#v", ep)
	}

	skec := samplePrivateKeys()["sk-ecdsa"].(*SkEcDsaPrivateKey)
	sp := skec.PublicKey()
	if sp.Identifier != skec.Identifier || !bytes.Equal(sp.Q, skec.Q) || sp.Application != skec.Application {
		t.Fatalf("sk-ecdsa fields differ: %#v", sp)
	}

	ed := samplePrivateKeys()["ed25519"].(*Ed25519PrivateKey)
	if !bytes.Equal(ed.PublicKey().EncA, ed.EncA) {
		t.Fatalf("ed25519 point differs")
	}

	sked := samplePrivateKeys()["sk-ed25519"].(*SkEd25519PrivateKey)
	skp := sked.PublicKey()
	if !bytes.Equal(skp.EncA, sked.EncA) || skp.Application != sked.Application {
		t.Fatalf("sk-ed25519 fields differ: %#v", skp)
	}
}

func TestProjectionKeepsKeyTypeAndDropsSecrets(t *testing.T) {
	for name, k := range samplePrivateKeys() {
		pub := PublicKeyOf(k)
		if pub.KeyType() != k.KeyType() {
			t.Fatalf("%s: projected key type %q, want %q", name, pub.KeyType(), k.KeyType())
		}
		if !Equal(pub, k.Public()) {
			t.Fatalf("%s: PublicKeyOf and Public disagree", name)
		}
		if _, err := ParsePublicKey(pub.Marshal()); err != nil {
			t.Fatalf("%s: projected key does not parse: %v", name, err)
		}
		if len(pub.Marshal()) >= len(k.Marshal()) {
			t.Fatalf("%s: public encoding should be shorter than private encoding", name)
		}
	}
}

func TestProjectionDoesNotAlias(t *testing.T) {
	src := &Ed25519PrivateKey{EncA: []byte{1, 2, 3}, KEncA: security.Secret{9}}
	pub := src.PublicKey()
	pub.EncA[0] = 0xff
	if src.EncA[0] != 1 {
		t.Fatalf("projection aliased the source buffer")
	}

	rsa := &RsaPrivateKey{N: MpInt{5}, E: MpInt{3}}
	rp := rsa.PublicKey()
	rsa.N[0] = 6
	if rp.N[0] != 5 {
		t.Fatalf("source mutation leaked into projected key")
	}
}

func TestParsePrivateKeyErrors(t *testing.T) {
	var w Writer
	w.WriteString("ssh-unknown-type")
	if _, err := ParsePrivateKey(w.Bytes()); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}

	data := samplePrivateKeys()["sk-ed25519"].Marshal()
	if _, err := ParsePrivateKey(data[:len(data)-2]); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}

	shortSeed := &Ed25519PrivateKey{EncA: bytes.Repeat([]byte{2}, 32), KEncA: security.Secret{1, 2}}
	if _, err := ParsePrivateKey(shortSeed.Marshal()); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for short ed25519 secret, got %v", err)
	}
	shortPoint := &Ed25519PrivateKey{EncA: []byte{2}, KEncA: security.Secret(bytes.Repeat([]byte{3}, 64))}
	if _, err := ParsePrivateKey(shortPoint.Marshal()); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for short ed25519 point, got %v", err)
	}

	// A public encoding lacks the private fields.
	pub := samplePrivateKeys()["ecdsa"].Public().Marshal()
	if _, err := ParsePrivateKey(pub); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for public encoding, got %v", err)
	}
}
