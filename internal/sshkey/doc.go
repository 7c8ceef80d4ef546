// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshkey reads OpenSSH authorized_keys lines into proto public keys.
// Bad entries are rejected one by one so a single broken line never hides
// the rest of the file.
package sshkey
