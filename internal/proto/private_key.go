// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/toeirei/keyproto/internal/security"
)

// PrivateKey is one of the six private key families. Every family projects
// onto its public counterpart through Public, which copies the public
// fields and drops the secret ones.
type PrivateKey interface {
	KeyTyper
	Public() PublicKey
	// Marshal returns the tagged wire encoding used by the agent protocol.
	Marshal() []byte
	isPrivateKey()
}

type RsaPrivateKey struct {
	N    MpInt
	E    MpInt
	D    security.Secret
	Iqmp security.Secret
	P    security.Secret
	Q    security.Secret
}

type DssPrivateKey struct {
	P MpInt
	Q MpInt
	G MpInt
	Y MpInt
	X security.Secret
}

type EcDsaPrivateKey struct {
	Identifier string
	Q          MpInt
	D          security.Secret
}

// SkEcDsaPrivateKey is the host-side half of a security-key ECDSA key; the
// private scalar never leaves the token, only its KeyHandle does.
type SkEcDsaPrivateKey struct {
	Identifier  string
	Q           MpInt
	Application string
	Flags       uint8
	KeyHandle   security.Secret
	Reserved    []byte
}

// Ed25519PrivateKey stores KEncA as the 64-byte seed || public point.
type Ed25519PrivateKey struct {
	EncA  []byte
	KEncA security.Secret
}

type SkEd25519PrivateKey struct {
	EncA        []byte
	Application string
	Flags       uint8
	KeyHandle   security.Secret
	Reserved    []byte
}

func (*RsaPrivateKey) KeyType() string       { return KeyTypeRSA }
func (*DssPrivateKey) KeyType() string       { return KeyTypeDSS }
func (*Ed25519PrivateKey) KeyType() string   { return KeyTypeEd25519 }
func (*SkEd25519PrivateKey) KeyType() string { return KeyTypeSkEd25519 }

func (k *EcDsaPrivateKey) KeyType() string   { return EcDsaKeyType(k.Identifier) }
func (k *SkEcDsaPrivateKey) KeyType() string { return SkEcDsaKeyType(k.Identifier) }

func (*RsaPrivateKey) isPrivateKey()       {}
func (*DssPrivateKey) isPrivateKey()       {}
func (*EcDsaPrivateKey) isPrivateKey()     {}
func (*SkEcDsaPrivateKey) isPrivateKey()   {}
func (*Ed25519PrivateKey) isPrivateKey()   {}
func (*SkEd25519PrivateKey) isPrivateKey() {}

// PublicKey returns the public half of k in freshly allocated buffers.
func (k *RsaPrivateKey) PublicKey() *RsaPublicKey {
	return &RsaPublicKey{E: k.E.clone(), N: k.N.clone()}
}

func (k *DssPrivateKey) PublicKey() *DssPublicKey {
	return &DssPublicKey{P: k.P.clone(), Q: k.Q.clone(), G: k.G.clone(), Y: k.Y.clone()}
}

func (k *EcDsaPrivateKey) PublicKey() *EcDsaPublicKey {
	return &EcDsaPublicKey{Identifier: k.Identifier, Q: k.Q.clone()}
}

func (k *SkEcDsaPrivateKey) PublicKey() *SkEcDsaPublicKey {
	return &SkEcDsaPublicKey{Identifier: k.Identifier, Q: k.Q.clone(), Application: k.Application}
}

func (k *Ed25519PrivateKey) PublicKey() *Ed25519PublicKey {
	return &Ed25519PublicKey{EncA: bytes.Clone(k.EncA)}
}

func (k *SkEd25519PrivateKey) PublicKey() *SkEd25519PublicKey {
	return &SkEd25519PublicKey{EncA: bytes.Clone(k.EncA), Application: k.Application}
}

func (k *RsaPrivateKey) Public() PublicKey       { return k.PublicKey() }
func (k *DssPrivateKey) Public() PublicKey       { return k.PublicKey() }
func (k *EcDsaPrivateKey) Public() PublicKey     { return k.PublicKey() }
func (k *SkEcDsaPrivateKey) Public() PublicKey   { return k.PublicKey() }
func (k *Ed25519PrivateKey) Public() PublicKey   { return k.PublicKey() }
func (k *SkEd25519PrivateKey) Public() PublicKey { return k.PublicKey() }

// PublicKeyOf projects any private key onto its public key.
func PublicKeyOf(k PrivateKey) PublicKey {
	return k.Public()
}

func (k *RsaPrivateKey) Marshal() []byte       { return encodeTagged(k) }
func (k *DssPrivateKey) Marshal() []byte       { return encodeTagged(k) }
func (k *EcDsaPrivateKey) Marshal() []byte     { return encodeTagged(k) }
func (k *SkEcDsaPrivateKey) Marshal() []byte   { return encodeTagged(k) }
func (k *Ed25519PrivateKey) Marshal() []byte   { return encodeTagged(k) }
func (k *SkEd25519PrivateKey) Marshal() []byte { return encodeTagged(k) }

func (k *RsaPrivateKey) marshalPayload(w *Writer) {
	w.WriteMpInt(k.N)
	w.WriteMpInt(k.E)
	w.WriteBytes(k.D)
	w.WriteBytes(k.Iqmp)
	w.WriteBytes(k.P)
	w.WriteBytes(k.Q)
}

func (k *DssPrivateKey) marshalPayload(w *Writer) {
	w.WriteMpInt(k.P)
	w.WriteMpInt(k.Q)
	w.WriteMpInt(k.G)
	w.WriteMpInt(k.Y)
	w.WriteBytes(k.X)
}

func (k *EcDsaPrivateKey) marshalPayload(w *Writer) {
	w.WriteString(k.Identifier)
	w.WriteMpInt(k.Q)
	w.WriteBytes(k.D)
}

func (k *SkEcDsaPrivateKey) marshalPayload(w *Writer) {
	w.WriteString(k.Identifier)
	w.WriteMpInt(k.Q)
	w.WriteString(k.Application)
	w.WriteUint8(k.Flags)
	w.WriteBytes(k.KeyHandle)
	w.WriteBytes(k.Reserved)
}

func (k *Ed25519PrivateKey) marshalPayload(w *Writer) {
	w.WriteBytes(k.EncA)
	w.WriteBytes(k.KEncA)
}

func (k *SkEd25519PrivateKey) marshalPayload(w *Writer) {
	w.WriteBytes(k.EncA)
	w.WriteString(k.Application)
	w.WriteUint8(k.Flags)
	w.WriteBytes(k.KeyHandle)
	w.WriteBytes(k.Reserved)
}

var privateKeys Registry[PrivateKey]

func readSecret(r *Reader) (security.Secret, error) {
	b, err := r.ReadBytes()
	return security.Secret(b), err
}

func init() {
	privateKeys.Register(Literal(KeyTypeRSA), func(r *Reader, _, _ string) (PrivateKey, error) {
		var k RsaPrivateKey
		var err error
		if k.N, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		if k.E, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		for _, f := range []*security.Secret{&k.D, &k.Iqmp, &k.P, &k.Q} {
			if *f, err = readSecret(r); err != nil {
				return nil, err
			}
		}
		return &k, nil
	})
	privateKeys.Register(Literal(KeyTypeDSS), func(r *Reader, _, _ string) (PrivateKey, error) {
		var k DssPrivateKey
		var err error
		for _, f := range []*MpInt{&k.P, &k.Q, &k.G, &k.Y} {
			if *f, err = r.ReadMpInt(); err != nil {
				return nil, err
			}
		}
		if k.X, err = readSecret(r); err != nil {
			return nil, err
		}
		return &k, nil
	})
	privateKeys.Register(Literal(KeyTypeEd25519), func(r *Reader, _, _ string) (PrivateKey, error) {
		var k Ed25519PrivateKey
		var err error
		if k.EncA, err = readEd25519Point(r); err != nil {
			return nil, err
		}
		if k.KEncA, err = readSecret(r); err != nil {
			return nil, err
		}
		if len(k.KEncA) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("ed25519 private key is %d bytes, want %d", len(k.KEncA), ed25519.PrivateKeySize)
		}
		return &k, nil
	})
	privateKeys.Register(Literal(KeyTypeSkEd25519), func(r *Reader, _, _ string) (PrivateKey, error) {
		var k SkEd25519PrivateKey
		var err error
		if k.EncA, err = readEd25519Point(r); err != nil {
			return nil, err
		}
		if k.Application, err = r.ReadString(); err != nil {
			return nil, err
		}
		if k.Flags, err = r.ReadUint8(); err != nil {
			return nil, err
		}
		if k.KeyHandle, err = readSecret(r); err != nil {
			return nil, err
		}
		if k.Reserved, err = r.ReadBytes(); err != nil {
			return nil, err
		}
		return &k, nil
	})
	privateKeys.Register(Parameterized(KeyTypeECDSA, ""), func(r *Reader, _, id string) (PrivateKey, error) {
		var k EcDsaPrivateKey
		var err error
		if k.Identifier, err = readIdentifier(r, id); err != nil {
			return nil, err
		}
		if k.Q, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		if k.D, err = readSecret(r); err != nil {
			return nil, err
		}
		return &k, nil
	})
	privateKeys.Register(Parameterized(KeyTypeSkECDSA, OpenSSHSuffix), func(r *Reader, _, id string) (PrivateKey, error) {
		var k SkEcDsaPrivateKey
		var err error
		if k.Identifier, err = readIdentifier(r, id); err != nil {
			return nil, err
		}
		if k.Q, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		if k.Application, err = r.ReadString(); err != nil {
			return nil, err
		}
		if k.Flags, err = r.ReadUint8(); err != nil {
			return nil, err
		}
		if k.KeyHandle, err = readSecret(r); err != nil {
			return nil, err
		}
		if k.Reserved, err = r.ReadBytes(); err != nil {
			return nil, err
		}
		return &k, nil
	})
}

// ParsePrivateKey decodes a tagged private key in the agent wire layout.
func ParsePrivateKey(b []byte) (PrivateKey, error) {
	return privateKeys.Decode(b)
}
