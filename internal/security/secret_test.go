// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSecretRedaction(t *testing.T) {
	s := FromBytes([]byte("supersecret"))
	for _, verb := range []string{"%v", "%s", "%x", "%#v", "%q"} {
		if got := fmt.Sprintf(verb, s); got != "[SECRET]" {
			t.Fatalf("%s: unexpected fmt output: %q", verb, got)
		}
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != "\"[SECRET]\"" {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
	y, err := yaml.Marshal(map[string]Secret{"d": s})
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	if bytes.Contains(y, []byte("supersecret")) {
		t.Fatalf("yaml output leaked secret: %s", y)
	}
}

func TestSecretZero(t *testing.T) {
	s := FromBytes([]byte("abc123"))
	(&s).Zero()
	for i, c := range s {
		if c != 0 {
			t.Fatalf("expected zeroed byte at index %d, got %d", i, c)
		}
	}
	var nilSecret *Secret
	nilSecret.Zero()
}

func TestSecretCopies(t *testing.T) {
	original := []byte("sensitive")
	s := FromBytes(original)
	original[0] = 'X'
	if !bytes.Equal(s.Bytes(), []byte("sensitive")) {
		t.Fatalf("FromBytes aliased its input")
	}
	c := s.Bytes()
	c[0] = 'Y'
	if !s.Equal(Secret("sensitive")) {
		t.Fatalf("Bytes returned an alias of the secret")
	}
	if FromBytes(nil) != nil {
		t.Fatalf("FromBytes(nil) should stay nil")
	}
}
