// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAlgorithm is matched by errors.Is for every *UnknownAlgorithmError.
	ErrUnknownAlgorithm = errors.New("unknown algorithm identifier")
	// ErrMalformedPayload is matched by errors.Is for every *MalformedPayloadError.
	ErrMalformedPayload = errors.New("malformed key payload")
)

// UnknownAlgorithmError reports a discriminant that names no known key family.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm identifier %q", e.Name)
}

func (e *UnknownAlgorithmError) Is(target error) bool { return target == ErrUnknownAlgorithm }

// MalformedPayloadError reports a payload that does not decode into the
// layout of the family named by its discriminant. KeyType is empty when the
// discriminant itself could not be read.
type MalformedPayloadError struct {
	KeyType string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	if e.KeyType == "" {
		return fmt.Sprintf("malformed key payload: %v", e.Err)
	}
	return fmt.Sprintf("malformed %s payload: %v", e.KeyType, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

func malformed(keyType string, err error) error {
	return &MalformedPayloadError{KeyType: keyType, Err: err}
}
