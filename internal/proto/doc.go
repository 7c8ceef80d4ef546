// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package proto models SSH public and private keys and their tagged wire
// encoding. Every key serializes as its algorithm name followed by the
// family's fields; decoding dispatches on that name alone. Parameterized
// names (ECDSA curves, "@openssh.com" security-key variants) are matched by
// prefix and suffix rather than one literal per curve.
//
// The package performs no cryptography. Values are immutable once built and
// may be shared between goroutines for reading.
package proto
