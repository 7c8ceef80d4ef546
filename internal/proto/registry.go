// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"errors"
	"strings"
)

// A Matcher decides whether an algorithm name belongs to a family. For
// parameterized families it also returns the embedded parameter.
type Matcher func(name string) (param string, ok bool)

// Literal matches exactly one algorithm name.
func Literal(name string) Matcher {
	return func(s string) (string, bool) {
		return "", s == name
	}
}

// Parameterized matches prefix + "-" + identifier + suffix and returns the
// identifier. Names whose identifier fails ValidIdentifier do not match.
func Parameterized(prefix, suffix string) Matcher {
	prefix += "-"
	return func(s string) (string, bool) {
		if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, suffix) {
			return "", false
		}
		if len(s) < len(prefix)+len(suffix) {
			return "", false
		}
		id := s[len(prefix) : len(s)-len(suffix)]
		if !ValidIdentifier(id) {
			return "", false
		}
		return id, true
	}
}

// DecodeFunc reads the payload of one family. name is the full discriminant
// and param is whatever the matcher extracted from it.
type DecodeFunc[T any] func(r *Reader, name, param string) (T, error)

type registryEntry[T any] struct {
	match  Matcher
	decode DecodeFunc[T]
}

// Registry maps discriminants to payload decoders for one tagged type.
// Entries are tried in registration order.
type Registry[T any] struct {
	entries []registryEntry[T]
}

func (reg *Registry[T]) Register(m Matcher, dec DecodeFunc[T]) {
	reg.entries = append(reg.entries, registryEntry[T]{match: m, decode: dec})
}

// Decode reads a discriminant and the payload it names from b. The whole
// buffer must be consumed.
func (reg *Registry[T]) Decode(b []byte) (T, error) {
	var zero T
	r := NewReader(b)
	name, err := r.ReadString()
	if err != nil {
		return zero, malformed("", err)
	}
	v, err := reg.DecodeNamed(r, name)
	if err != nil {
		return zero, err
	}
	if r.Len() != 0 {
		return zero, malformed(name, errors.New("trailing data after payload"))
	}
	return v, nil
}

// DecodeNamed decodes the payload of an already consumed discriminant.
func (reg *Registry[T]) DecodeNamed(r *Reader, name string) (T, error) {
	var zero T
	for _, e := range reg.entries {
		param, ok := e.match(name)
		if !ok {
			continue
		}
		v, err := e.decode(r, name, param)
		if err != nil {
			var mp *MalformedPayloadError
			if errors.As(err, &mp) {
				return zero, err
			}
			return zero, malformed(name, err)
		}
		return v, nil
	}
	return zero, &UnknownAlgorithmError{Name: name}
}

// payloadEncoder is implemented by every tagged wire type.
type payloadEncoder interface {
	KeyTyper
	marshalPayload(w *Writer)
}

func encodeTagged(v payloadEncoder) []byte {
	var w Writer
	w.WriteString(v.KeyType())
	v.marshalPayload(&w)
	return w.Bytes()
}
