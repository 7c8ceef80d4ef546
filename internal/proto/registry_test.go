// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package proto

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func TestParameterizedMatcher(t *testing.T) {
	sk := Parameterized("sk-ecdsa-sha2", "@openssh.com")
	cases := map[string]string{
		"sk-ecdsa-sha2-nistp256@openssh.com": "nistp256",
		"sk-ecdsa-sha2-nistp521@openssh.com": "nistp521",
		"sk-ecdsa-sha2-x@openssh.com":        "x",
	}
	for name, want := range cases {
		got, ok := sk(name)
		if !ok || got != want {
			t.Fatalf("%q: expected %q, got %q (ok=%v)", name, want, got, ok)
		}
	}
	for _, name := range []string{
		"sk-ecdsa-sha2-@openssh.com",
		"sk-ecdsa-sha2-nistp256",
		"sk-ecdsa-sha2@openssh.com",
		"sk-ecdsa-sha2-a@b@openssh.com",
		"ecdsa-sha2-nistp256",
	} {
		if id, ok := sk(name); ok {
			t.Fatalf("%q: unexpected match %q", name, id)
		}
	}

	ec := Parameterized("ecdsa-sha2", "")
	if id, ok := ec("ecdsa-sha2-nistp384"); !ok || id != "nistp384" {
		t.Fatalf("expected nistp384, got %q (ok=%v)", id, ok)
	}
}

type testMsg struct {
	name string
	body string
}

func (m *testMsg) KeyType() string { return m.name }

func (m *testMsg) marshalPayload(w *Writer) { w.WriteString(m.body) }

func TestRegistryDispatchOrder(t *testing.T) {
	var reg Registry[*testMsg]
	reg.Register(Literal("exact"), func(r *Reader, name, _ string) (*testMsg, error) {
		body, err := r.ReadString()
		return &testMsg{name: name, body: "literal:" + body}, err
	})
	reg.Register(Parameterized("exact", ""), func(r *Reader, name, param string) (*testMsg, error) {
		body, err := r.ReadString()
		return &testMsg{name: name, body: param + ":" + body}, err
	})

	got, err := reg.Decode(encodeTagged(&testMsg{name: "exact", body: "x"}))
	if err != nil || got.body != "literal:x" {
		t.Fatalf("unexpected literal decode: %#v, %v", got, err)
	}
	got, err = reg.Decode(encodeTagged(&testMsg{name: "exact-p", body: "y"}))
	if err != nil || got.body != "p:y" {
		t.Fatalf("unexpected parameterized decode: %#v, %v", got, err)
	}
	if _, err := reg.Decode(encodeTagged(&testMsg{name: "other", body: "z"})); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestMpIntFromBig(t *testing.T) {
	cases := []struct {
		in   int64
		want []byte
	}{
		{0, []byte{}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x00, 0x80}},
		{0x1234, []byte{0x12, 0x34}},
		{0xff00, []byte{0x00, 0xff, 0x00}},
	}
	for _, c := range cases {
		got := MpIntFromBig(big.NewInt(c.in))
		if !bytes.Equal(got, c.want) {
			t.Fatalf("%#x: expected %x got %x", c.in, c.want, []byte(got))
		}
		if got.Big().Int64() != c.in {
			t.Fatalf("%#x: Big returned %v", c.in, got.Big())
		}
	}
	if len(MpIntFromBig(nil)) != 0 {
		t.Fatalf("nil should encode as zero")
	}
}

func TestReaderCopiesBuffers(t *testing.T) {
	var w Writer
	w.WriteBytes([]byte{1, 2, 3})
	data := w.Bytes()
	r := NewReader(data)
	b, err := r.ReadBytes()
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	data[4] = 9
	if b[0] != 1 {
		t.Fatalf("reader aliased the input buffer")
	}
	if _, err := r.ReadUint8(); err == nil {
		t.Fatalf("expected error reading past the end")
	}
}

func TestWriterLayout(t *testing.T) {
	var w Writer
	w.WriteUint32(1)
	w.WriteUint8(2)
	w.WriteString("ab")
	w.WriteMpInt(MpInt{0x00, 0x80})
	w.WriteBytes(nil)
	want := []byte{
		0, 0, 0, 1,
		2,
		0, 0, 0, 2, 'a', 'b',
		0, 0, 0, 2, 0x00, 0x80,
		0, 0, 0, 0,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("unexpected encoding:\n got %x\nwant %x", w.Bytes(), want)
	}

	r := NewReader(want)
	if v, err := r.ReadUint32(); err != nil || v != 1 {
		t.Fatalf("ReadUint32: %d, %v", v, err)
	}
	if v, err := r.ReadUint8(); err != nil || v != 2 {
		t.Fatalf("ReadUint8: %d, %v", v, err)
	}
	if s, err := r.ReadString(); err != nil || s != "ab" {
		t.Fatalf("ReadString: %q, %v", s, err)
	}
	if m, err := r.ReadMpInt(); err != nil || !m.Equal(MpInt{0x00, 0x80}) {
		t.Fatalf("ReadMpInt: %x, %v", []byte(m), err)
	}
	if b, err := r.ReadBytes(); err != nil || b == nil || len(b) != 0 {
		t.Fatalf("ReadBytes on empty string: %v, %v", b, err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected all input consumed, %d bytes left", r.Len())
	}
}

func TestReaderRejectsOverlongPrefix(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 5, 1, 2})
	if _, err := r.ReadBytes(); err == nil {
		t.Fatalf("expected error for length past the end of input")
	}
	if _, err := NewReader([]byte{0, 0, 1}).ReadUint32(); err == nil {
		t.Fatalf("expected error for short uint32")
	}
}
