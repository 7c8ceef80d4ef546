// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"bytes"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
)

// MpInt is a multi-precision integer in the SSH wire encoding: big-endian,
// two's complement, with a leading zero byte when the most significant bit
// of a positive value would otherwise be set. The bytes are carried as-is.
type MpInt []byte

// MpIntFromBig encodes a non-negative big.Int as an MpInt.
func MpIntFromBig(n *big.Int) MpInt {
	if n == nil || n.Sign() == 0 {
		return MpInt{}
	}
	b := n.Bytes()
	if b[0]&0x80 != 0 {
		return append(MpInt{0}, b...)
	}
	return MpInt(b)
}

// Big decodes the value as a non-negative integer.
func (m MpInt) Big() *big.Int {
	return new(big.Int).SetBytes(m)
}

// Equal reports whether both integers have the same encoding.
func (m MpInt) Equal(o MpInt) bool { return bytes.Equal(m, o) }

func (m MpInt) clone() MpInt {
	if m == nil {
		return nil
	}
	return MpInt(bytes.Clone(m))
}

var errShortBuffer = errors.New("unexpected end of data")

// Writer appends SSH wire primitives to a buffer. The zero value is ready
// to use.
type Writer struct {
	b cryptobyte.Builder
}

// Bytes returns the encoded data. It panics if a single field was longer
// than a uint32 length prefix can describe.
func (w *Writer) Bytes() []byte { return w.b.BytesOrPanic() }

func (w *Writer) WriteUint32(v uint32) { w.b.AddUint32(v) }

func (w *Writer) WriteUint8(v uint8) { w.b.AddUint8(v) }

// WriteBytes writes a length-prefixed byte string.
func (w *Writer) WriteBytes(p []byte) {
	w.b.AddUint32LengthPrefixed(func(c *cryptobyte.Builder) {
		c.AddBytes(p)
	})
}

func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }

// WriteMpInt writes m as a length-prefixed string without re-encoding it.
func (w *Writer) WriteMpInt(m MpInt) { w.WriteBytes(m) }

// Reader consumes SSH wire primitives. Every returned slice is a fresh copy.
type Reader struct {
	s cryptobyte.String
}

func NewReader(b []byte) *Reader { return &Reader{s: cryptobyte.String(b)} }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.s) }

func (r *Reader) ReadUint32() (uint32, error) {
	var v uint32
	if !r.s.ReadUint32(&v) {
		return 0, errShortBuffer
	}
	return v, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	var v uint8
	if !r.s.ReadUint8(&v) {
		return 0, errShortBuffer
	}
	return v, nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	var n uint32
	var v []byte
	if !r.s.ReadUint32(&n) || !r.s.ReadBytes(&v, int(n)) {
		return nil, errShortBuffer
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	return string(b), err
}

func (r *Reader) ReadMpInt() (MpInt, error) {
	b, err := r.ReadBytes()
	return MpInt(b), err
}
