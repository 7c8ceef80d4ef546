// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

// Algorithm names as they appear on the wire. The ECDSA entries are bases:
// the full name embeds the curve identifier.
const (
	KeyTypeRSA       = "ssh-rsa"
	KeyTypeDSS       = "ssh-dss"
	KeyTypeEd25519   = "ssh-ed25519"
	KeyTypeSkEd25519 = "sk-ssh-ed25519@openssh.com"
	KeyTypeECDSA     = "ecdsa-sha2"
	KeyTypeSkECDSA   = "sk-ecdsa-sha2"

	// OpenSSHSuffix marks vendor extension algorithm names.
	OpenSSHSuffix = "@openssh.com"
)

// KeyTyper is implemented by every key variant. KeyType returns the
// algorithm name used as the wire discriminant.
type KeyTyper interface {
	KeyType() string
}

// EcDsaKeyType returns the algorithm name of an ECDSA key on the given curve,
// e.g. "ecdsa-sha2-nistp256".
func EcDsaKeyType(identifier string) string {
	return KeyTypeECDSA + "-" + identifier
}

// SkEcDsaKeyType returns the algorithm name of a security-key ECDSA key,
// e.g. "sk-ecdsa-sha2-nistp256@openssh.com".
func SkEcDsaKeyType(identifier string) string {
	return KeyTypeSkECDSA + "-" + identifier + OpenSSHSuffix
}

// ValidIdentifier reports whether id can be embedded in an ECDSA algorithm
// name: non-empty printable ASCII without spaces or '@'.
func ValidIdentifier(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c <= ' ' || c > '~' || c == '@' {
			return false
		}
	}
	return true
}
