// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/toeirei/keyproto/internal/logging"
	"github.com/toeirei/keyproto/internal/proto"
)

// algorithmPrefixes are the leading parts of every algorithm name proto knows.
var algorithmPrefixes = []string{"ssh-", "ecdsa-", "sk-"}

func isAlgorithmField(field string) bool {
	for _, p := range algorithmPrefixes {
		if strings.HasPrefix(field, p) {
			return true
		}
	}
	return false
}

// Parse splits a raw public key string (like one from an authorized_keys file)
// into its three core components: algorithm, key data, and comment.
// It correctly handles leading options in the line (e.g., from="...",command="...").
func Parse(rawKey string) (algorithm, keyData, comment string, err error) {
	_, algorithm, keyData, comment, err = split(rawKey)
	return
}

// splitFields splits s at whitespace outside double-quoted spans, so option values
// such as command="a b" stay in one field. A backslash escapes the next
// character inside quotes.
func splitFields(s string) []string {
	var out []string
	var cur strings.Builder
	inField, inQuote, escaped := false, false, false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case !inQuote && unicode.IsSpace(r):
			if inField {
				out = append(out, cur.String())
				cur.Reset()
				inField = false
			}
			continue
		}
		cur.WriteRune(r)
		inField = true
	}
	if inField {
		out = append(out, cur.String())
	}
	return out
}

func split(rawKey string) (options, algorithm, keyData, comment string, err error) {
	fields := splitFields(rawKey)
	if len(fields) == 0 {
		err = fmt.Errorf("empty line")
		return
	}

	keyStartIndex := slices.IndexFunc(fields, isAlgorithmField)
	if keyStartIndex == -1 {
		err = fmt.Errorf("no valid SSH key type found in line")
		return
	}

	if len(fields) < keyStartIndex+2 {
		err = fmt.Errorf("invalid public key format: missing key data after algorithm")
		return
	}

	options = strings.Join(fields[:keyStartIndex], " ")
	algorithm = fields[keyStartIndex]
	keyData = fields[keyStartIndex+1]
	if len(fields) > keyStartIndex+2 {
		comment = strings.Join(fields[keyStartIndex+2:], " ")
	}
	return
}

// AuthorizedKey is one decoded authorized_keys entry.
type AuthorizedKey struct {
	Options string
	Key     proto.PublicKey
	Comment string
	// Source names the file the entry was read from, if the caller set it.
	Source string
	// Line is the 1-based line number, zero for keys not read from a file.
	Line int
}

// ParseAuthorizedKey decodes a single authorized_keys line. The algorithm
// written on the line must match the one encoded in the key blob.
func ParseAuthorizedKey(line string) (*AuthorizedKey, error) {
	options, algorithm, keyData, comment, err := split(line)
	if err != nil {
		return nil, err
	}
	blob, err := base64.StdEncoding.DecodeString(keyData)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 key data: %w", err)
	}
	key, err := proto.ParsePublicKey(blob)
	if err != nil {
		return nil, err
	}
	if key.KeyType() != algorithm {
		return nil, fmt.Errorf("line declares %q but key is %q", algorithm, key.KeyType())
	}
	return &AuthorizedKey{Options: options, Key: key, Comment: comment}, nil
}

// LineError records why one line of an authorized_keys file was rejected.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// MaxLineLength bounds a single authorized_keys line. Longer lines are
// rejected on their own.
const MaxLineLength = 1 << 20

// ParseAuthorizedKeys decodes every entry of an authorized_keys file. Blank
// lines and comments are skipped. A bad entry is reported in rejected and
// does not stop processing of the following lines.
func ParseAuthorizedKeys(data []byte) (keys []AuthorizedKey, rejected []*LineError) {
	n := 0
	for raw := range bytes.Lines(data) {
		n++
		if len(raw) > MaxLineLength {
			err := fmt.Errorf("line is %d bytes, limit is %d", len(raw), MaxLineLength)
			logging.Debugf("rejecting authorized_keys line %d: %v", n, err)
			rejected = append(rejected, &LineError{Line: n, Err: err})
			continue
		}
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, err := ParseAuthorizedKey(line)
		if err != nil {
			logging.Debugf("rejecting authorized_keys line %d: %v", n, err)
			rejected = append(rejected, &LineError{Line: n, Err: err})
			continue
		}
		k.Line = n
		keys = append(keys, *k)
	}
	return keys, rejected
}

// Dedup drops entries whose key already appeared earlier, keeping the first.
func Dedup(keys []AuthorizedKey) []AuthorizedKey {
	seen := make(map[string]struct{}, len(keys))
	out := make([]AuthorizedKey, 0, len(keys))
	for _, k := range keys {
		h := proto.HashKey(k.Key)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Filter keeps entries whose algorithm is in allowed. Entries match either by
// full name or, for ECDSA families, by base name ("ecdsa-sha2",
// "sk-ecdsa-sha2"). An empty list allows everything.
func Filter(keys []AuthorizedKey, allowed []string) (kept, dropped []AuthorizedKey) {
	if len(allowed) == 0 {
		return keys, nil
	}
	for _, k := range keys {
		if algorithmAllowed(k.Key, allowed) {
			kept = append(kept, k)
		} else {
			dropped = append(dropped, k)
		}
	}
	return kept, dropped
}

func algorithmAllowed(k proto.PublicKey, allowed []string) bool {
	name := k.KeyType()
	var base string
	switch k.(type) {
	case *proto.EcDsaPublicKey:
		base = proto.KeyTypeECDSA
	case *proto.SkEcDsaPublicKey:
		base = proto.KeyTypeSkECDSA
	}
	for _, a := range allowed {
		if a == name || (base != "" && a == base) {
			return true
		}
	}
	return false
}

// CheckAlgorithm returns a warning for keys using algorithms that current
// OpenSSH releases disable by default, or an empty string.
func CheckAlgorithm(k proto.PublicKey) string {
	switch k.KeyType() {
	case proto.KeyTypeDSS:
		return "ssh-dss keys are no longer accepted by OpenSSH 7.0 and later"
	case proto.KeyTypeRSA:
		return "ssh-rsa keys rely on SHA-1 signatures unless rsa-sha2-256/512 is negotiated; consider ssh-ed25519"
	}
	return ""
}
