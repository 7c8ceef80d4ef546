// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds the redacting byte wrapper used for private key
// material so that secret fields never end up in logs or rendered output.
package security

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
)

const redacted = "[SECRET]"

// Secret is a byte slice holding sensitive key material (private exponents,
// scalars, seeds, security-key handles). Formatting and marshaling redact it.
type Secret []byte

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter so that %v, %#v, %x and friends are redacted.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

// FromBytes copies in into a new Secret. A nil input stays nil.
func FromBytes(in []byte) Secret {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return Secret(out)
}

// Bytes returns a copy of the underlying bytes. Callers are responsible for
// zeroing sensitive copies when done.
func (s Secret) Bytes() []byte {
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(o Secret) bool {
	return subtle.ConstantTimeCompare(s, o) == 1
}

// Zero overwrites the underlying byte slice with zeros.
func (s *Secret) Zero() {
	if s == nil {
		return
	}
	clear(*s)
}

// MarshalJSON redacts secrets in JSON marshaling.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// MarshalText redacts secrets for text encoders.
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// MarshalYAML redacts secrets for gopkg.in/yaml.v3.
func (s Secret) MarshalYAML() (any, error) { return redacted, nil }
