// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ssh bridges proto keys and the golang.org/x/crypto/ssh and
// crypto/* key types.
package ssh // import "github.com/toeirei/keyproto/internal/crypto/ssh"

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // ssh-dss keys still show up in old authorized_keys files
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/toeirei/keyproto/internal/proto"
	"github.com/toeirei/keyproto/internal/security"
	"golang.org/x/crypto/ssh"
)

// ErrVerifyUnsupported is returned by Verify on keys wrapped with Wrap.
var ErrVerifyUnsupported = errors.New("signature verification is not supported on wire-only keys")

// wireKey lets any proto key be used where x/crypto/ssh expects a
// PublicKey, even when x/crypto/ssh itself would reject the key material.
type wireKey struct {
	key proto.PublicKey
}

func (w wireKey) Type() string    { return w.key.KeyType() }
func (w wireKey) Marshal() []byte { return w.key.Marshal() }
func (w wireKey) Verify([]byte, *ssh.Signature) error {
	return ErrVerifyUnsupported
}

// Wrap exposes k as an ssh.PublicKey for encoding helpers. Verify always fails.
func Wrap(k proto.PublicKey) ssh.PublicKey { return wireKey{key: k} }

// FingerprintSHA256 returns the OpenSSH SHA256 fingerprint of k.
func FingerprintSHA256(k proto.PublicKey) string {
	return ssh.FingerprintSHA256(Wrap(k))
}

// MarshalAuthorizedKey renders k as an authorized_keys line (with trailing newline).
func MarshalAuthorizedKey(k proto.PublicKey) []byte {
	return ssh.MarshalAuthorizedKey(Wrap(k))
}

// FromSSH converts a parsed x/crypto/ssh key.
func FromSSH(pk ssh.PublicKey) (proto.PublicKey, error) {
	return proto.ParsePublicKey(pk.Marshal())
}

// ToSSH converts k into a x/crypto/ssh key. Unlike Wrap this validates the
// key material (point sizes, curve membership).
func ToSSH(k proto.PublicKey) (ssh.PublicKey, error) {
	pk, err := ssh.ParsePublicKey(k.Marshal())
	if err != nil {
		return nil, fmt.Errorf("invalid %s key: %w", k.KeyType(), err)
	}
	return pk, nil
}

// FromCrypto converts a crypto public key (*rsa.PublicKey, *dsa.PublicKey,
// *ecdsa.PublicKey, ed25519.PublicKey).
func FromCrypto(pub crypto.PublicKey) (proto.PublicKey, error) {
	pk, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return FromSSH(pk)
}

// CryptoPublicKey returns the crypto/* form of k.
func CryptoPublicKey(k proto.PublicKey) (crypto.PublicKey, error) {
	pk, err := ToSSH(k)
	if err != nil {
		return nil, err
	}
	cpk, ok := pk.(ssh.CryptoPublicKey)
	if !ok {
		return nil, fmt.Errorf("no crypto public key for %s", k.KeyType())
	}
	return cpk.CryptoPublicKey(), nil
}

// CurveIdentifier maps a NIST curve to its SSH identifier.
func CurveIdentifier(c elliptic.Curve) (string, bool) {
	switch c {
	case elliptic.P256():
		return "nistp256", true
	case elliptic.P384():
		return "nistp384", true
	case elliptic.P521():
		return "nistp521", true
	}
	return "", false
}

func secretInt(n *big.Int) security.Secret {
	return security.Secret(proto.MpIntFromBig(n))
}

// PrivateKeyFromCrypto converts a private key as returned by
// ssh.ParseRawPrivateKey or the crypto/* generators.
func PrivateKeyFromCrypto(priv any) (proto.PrivateKey, error) {
	switch k := priv.(type) {
	case *rsa.PrivateKey:
		if len(k.Primes) != 2 {
			return nil, fmt.Errorf("rsa keys with %d primes are not supported", len(k.Primes))
		}
		p, q := k.Primes[0], k.Primes[1]
		return &proto.RsaPrivateKey{
			N:    proto.MpIntFromBig(k.N),
			E:    proto.MpIntFromBig(big.NewInt(int64(k.E))),
			D:    secretInt(k.D),
			Iqmp: secretInt(new(big.Int).ModInverse(q, p)),
			P:    secretInt(p),
			Q:    secretInt(q),
		}, nil
	case *dsa.PrivateKey:
		return &proto.DssPrivateKey{
			P: proto.MpIntFromBig(k.P),
			Q: proto.MpIntFromBig(k.Q),
			G: proto.MpIntFromBig(k.G),
			Y: proto.MpIntFromBig(k.Y),
			X: secretInt(k.X),
		}, nil
	case *ecdsa.PrivateKey:
		id, ok := CurveIdentifier(k.Curve)
		if !ok {
			return nil, fmt.Errorf("unsupported curve %s", k.Curve.Params().Name)
		}
		pub, err := k.PublicKey.ECDH()
		if err != nil {
			return nil, err
		}
		return &proto.EcDsaPrivateKey{
			Identifier: id,
			Q:          proto.MpInt(pub.Bytes()),
			D:          secretInt(k.D),
		}, nil
	case ed25519.PrivateKey:
		if len(k) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("ed25519 private key has %d bytes", len(k))
		}
		return &proto.Ed25519PrivateKey{
			EncA:  []byte(k.Public().(ed25519.PublicKey)),
			KEncA: security.FromBytes(k),
		}, nil
	case *ed25519.PrivateKey:
		return PrivateKeyFromCrypto(*k)
	}
	return nil, fmt.Errorf("unsupported private key type %T", priv)
}

// ParsePrivateKeyPEM decodes an OpenSSH or PEM private key. An empty
// passphrase means the key is expected to be unencrypted.
func ParsePrivateKeyPEM(data []byte, passphrase string) (proto.PrivateKey, error) {
	var raw any
	var err error
	if passphrase == "" {
		raw, err = ssh.ParseRawPrivateKey(data)
	} else {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(passphrase))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return PrivateKeyFromCrypto(raw)
}
