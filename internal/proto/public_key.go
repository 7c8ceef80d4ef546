// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
)

// PublicKey is one of *RsaPublicKey, *DssPublicKey, *EcDsaPublicKey,
// *SkEcDsaPublicKey, *Ed25519PublicKey or *SkEd25519PublicKey. The set is
// closed; values must not be mutated once shared. Calling Marshal or KeyType
// on a nil pointer panics.
type PublicKey interface {
	KeyTyper
	// Marshal returns the tagged wire encoding: the algorithm name followed
	// by the key fields in declaration order.
	Marshal() []byte
	isPublicKey()
}

type RsaPublicKey struct {
	E MpInt
	N MpInt
}

type DssPublicKey struct {
	P MpInt
	Q MpInt
	G MpInt
	Y MpInt
}

// EcDsaPublicKey holds a point Q on the curve named by Identifier (e.g.
// "nistp256"). The identifier is part of the algorithm name.
type EcDsaPublicKey struct {
	Identifier string
	Q          MpInt
}

// SkEcDsaPublicKey is an ECDSA key held by a hardware security key.
// Application is the relying party the key is scoped to.
type SkEcDsaPublicKey struct {
	Identifier  string
	Q           MpInt
	Application string
}

type Ed25519PublicKey struct {
	EncA []byte
}

type SkEd25519PublicKey struct {
	EncA        []byte
	Application string
}

// NewEcDsaPublicKey returns an ECDSA key after checking that identifier can
// be embedded in an algorithm name.
func NewEcDsaPublicKey(identifier string, q MpInt) (*EcDsaPublicKey, error) {
	if !ValidIdentifier(identifier) {
		return nil, fmt.Errorf("invalid curve identifier %q", identifier)
	}
	return &EcDsaPublicKey{Identifier: identifier, Q: q.clone()}, nil
}

func NewSkEcDsaPublicKey(identifier string, q MpInt, application string) (*SkEcDsaPublicKey, error) {
	if !ValidIdentifier(identifier) {
		return nil, fmt.Errorf("invalid curve identifier %q", identifier)
	}
	return &SkEcDsaPublicKey{Identifier: identifier, Q: q.clone(), Application: application}, nil
}

func (*RsaPublicKey) KeyType() string       { return KeyTypeRSA }
func (*DssPublicKey) KeyType() string       { return KeyTypeDSS }
func (*Ed25519PublicKey) KeyType() string   { return KeyTypeEd25519 }
func (*SkEd25519PublicKey) KeyType() string { return KeyTypeSkEd25519 }

func (k *EcDsaPublicKey) KeyType() string   { return EcDsaKeyType(k.Identifier) }
func (k *SkEcDsaPublicKey) KeyType() string { return SkEcDsaKeyType(k.Identifier) }

func (*RsaPublicKey) isPublicKey()       {}
func (*DssPublicKey) isPublicKey()       {}
func (*EcDsaPublicKey) isPublicKey()     {}
func (*SkEcDsaPublicKey) isPublicKey()   {}
func (*Ed25519PublicKey) isPublicKey()   {}
func (*SkEd25519PublicKey) isPublicKey() {}

func (k *RsaPublicKey) Marshal() []byte       { return encodeTagged(k) }
func (k *DssPublicKey) Marshal() []byte       { return encodeTagged(k) }
func (k *EcDsaPublicKey) Marshal() []byte     { return encodeTagged(k) }
func (k *SkEcDsaPublicKey) Marshal() []byte   { return encodeTagged(k) }
func (k *Ed25519PublicKey) Marshal() []byte   { return encodeTagged(k) }
func (k *SkEd25519PublicKey) Marshal() []byte { return encodeTagged(k) }

func (k *RsaPublicKey) marshalPayload(w *Writer) {
	w.WriteMpInt(k.E)
	w.WriteMpInt(k.N)
}

func (k *DssPublicKey) marshalPayload(w *Writer) {
	w.WriteMpInt(k.P)
	w.WriteMpInt(k.Q)
	w.WriteMpInt(k.G)
	w.WriteMpInt(k.Y)
}

func (k *EcDsaPublicKey) marshalPayload(w *Writer) {
	w.WriteString(k.Identifier)
	w.WriteMpInt(k.Q)
}

func (k *SkEcDsaPublicKey) marshalPayload(w *Writer) {
	w.WriteString(k.Identifier)
	w.WriteMpInt(k.Q)
	w.WriteString(k.Application)
}

func (k *Ed25519PublicKey) marshalPayload(w *Writer) {
	w.WriteBytes(k.EncA)
}

func (k *SkEd25519PublicKey) marshalPayload(w *Writer) {
	w.WriteBytes(k.EncA)
	w.WriteString(k.Application)
}

var publicKeys Registry[PublicKey]

func init() {
	publicKeys.Register(Literal(KeyTypeRSA), func(r *Reader, _, _ string) (PublicKey, error) {
		var k RsaPublicKey
		var err error
		if k.E, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		if k.N, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		return &k, nil
	})
	publicKeys.Register(Literal(KeyTypeDSS), func(r *Reader, _, _ string) (PublicKey, error) {
		var k DssPublicKey
		for _, f := range []*MpInt{&k.P, &k.Q, &k.G, &k.Y} {
			v, err := r.ReadMpInt()
			if err != nil {
				return nil, err
			}
			*f = v
		}
		return &k, nil
	})
	publicKeys.Register(Literal(KeyTypeEd25519), func(r *Reader, _, _ string) (PublicKey, error) {
		encA, err := readEd25519Point(r)
		if err != nil {
			return nil, err
		}
		return &Ed25519PublicKey{EncA: encA}, nil
	})
	publicKeys.Register(Literal(KeyTypeSkEd25519), func(r *Reader, _, _ string) (PublicKey, error) {
		var k SkEd25519PublicKey
		var err error
		if k.EncA, err = readEd25519Point(r); err != nil {
			return nil, err
		}
		if k.Application, err = r.ReadString(); err != nil {
			return nil, err
		}
		return &k, nil
	})
	publicKeys.Register(Parameterized(KeyTypeECDSA, ""), func(r *Reader, name, id string) (PublicKey, error) {
		var k EcDsaPublicKey
		var err error
		if k.Identifier, err = readIdentifier(r, id); err != nil {
			return nil, err
		}
		if k.Q, err = r.ReadMpInt(); err != nil {
			return nil, err
		}
		return &k, nil
	})
	publicKeys.Register(Parameterized(KeyTypeSkECDSA, OpenSSHSuffix), func(r *Reader, name, id string) (PublicKey, error) {
		var k SkEcDsaPublicKey
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
		return &k, nil
	})
}

// readEd25519Point reads an encoded Ed25519 point, which is always
// ed25519.PublicKeySize bytes.
func readEd25519Point(r *Reader) ([]byte, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 point is %d bytes, want %d", len(b), ed25519.PublicKeySize)
	}
	return b, nil
}

// readIdentifier reads the curve identifier repeated in ECDSA payloads and
// checks it against the one embedded in the algorithm name.
func readIdentifier(r *Reader, want string) (string, error) {
	id, err := r.ReadString()
	if err != nil {
		return "", err
	}
	if id != want {
		return "", fmt.Errorf("curve identifier %q does not match algorithm curve %q", id, want)
	}
	return id, nil
}

// ParsePublicKey decodes a tagged public key. It fails with an error matching
// ErrUnknownAlgorithm or ErrMalformedPayload and never returns a partial key.
func ParsePublicKey(b []byte) (PublicKey, error) {
	return publicKeys.Decode(b)
}

// ReadPublicKey decodes a tagged public key from r, leaving any following
// data unread.
func ReadPublicKey(r *Reader) (PublicKey, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, malformed("", err)
	}
	return publicKeys.DecodeNamed(r, name)
}

// isNil reports whether k is nil or a nil pointer of one of the variants.
func isNil(k PublicKey) bool {
	switch k := k.(type) {
	case nil:
		return true
	case *RsaPublicKey:
		return k == nil
	case *DssPublicKey:
		return k == nil
	case *EcDsaPublicKey:
		return k == nil
	case *SkEcDsaPublicKey:
		return k == nil
	case *Ed25519PublicKey:
		return k == nil
	case *SkEd25519PublicKey:
		return k == nil
	}
	return false
}

// Equal reports whether a and b are the same variant with identical fields.
// Nil keys, typed or not, are equal only to each other.
func Equal(a, b PublicKey) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return bytes.Equal(a.Marshal(), b.Marshal())
}

// HashKey returns a comparable value identifying k, usable as a map key.
// Two keys have the same HashKey exactly when Equal reports true; every nil
// key hashes to the empty string, which no encoded key produces.
func HashKey(k PublicKey) string {
	if isNil(k) {
		return ""
	}
	return string(k.Marshal())
}
