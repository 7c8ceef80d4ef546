// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/toeirei/keyproto/internal/crypto/ssh"
	"github.com/toeirei/keyproto/internal/proto"
	"gopkg.in/yaml.v3"
)

type field struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// keyView is the rendered form of one key for text and yaml output.
type keyView struct {
	Source      string  `yaml:"source,omitempty"`
	Line        int     `yaml:"line,omitempty"`
	Type        string  `yaml:"type"`
	Fingerprint string  `yaml:"fingerprint"`
	Comment     string  `yaml:"comment,omitempty"`
	Options     string  `yaml:"options,omitempty"`
	Warning     string  `yaml:"warning,omitempty"`
	Fields      []field `yaml:"fields,omitempty"`
}

func newKeyView(k proto.PublicKey) keyView {
	return keyView{
		Type:        k.KeyType(),
		Fingerprint: ssh.FingerprintSHA256(k),
	}
}

func hexValue(b []byte) string { return hex.EncodeToString(b) }

func publicFields(k proto.PublicKey) []field {
	switch k := k.(type) {
	case *proto.RsaPublicKey:
		return []field{{"e", hexValue(k.E)}, {"n", hexValue(k.N)}}
	case *proto.DssPublicKey:
		return []field{{"p", hexValue(k.P)}, {"q", hexValue(k.Q)}, {"g", hexValue(k.G)}, {"y", hexValue(k.Y)}}
	case *proto.EcDsaPublicKey:
		return []field{{"identifier", k.Identifier}, {"q", hexValue(k.Q)}}
	case *proto.SkEcDsaPublicKey:
		return []field{{"identifier", k.Identifier}, {"q", hexValue(k.Q)}, {"application", k.Application}}
	case *proto.Ed25519PublicKey:
		return []field{{"enc_a", hexValue(k.EncA)}}
	case *proto.SkEd25519PublicKey:
		return []field{{"enc_a", hexValue(k.EncA)}, {"application", k.Application}}
	}
	return nil
}

// privateFields lists the secret fields of k; their values stay redacted.
func privateFields(k proto.PrivateKey) []field {
	switch k := k.(type) {
	case *proto.RsaPrivateKey:
		return []field{{"d", k.D}, {"iqmp", k.Iqmp}, {"p", k.P}, {"q", k.Q}}
	case *proto.DssPrivateKey:
		return []field{{"x", k.X}}
	case *proto.EcDsaPrivateKey:
		return []field{{"d", k.D}}
	case *proto.SkEcDsaPrivateKey:
		return []field{{"flags", fmt.Sprintf("0x%02x", k.Flags)}, {"key_handle", k.KeyHandle}, {"reserved", hexValue(k.Reserved)}}
	case *proto.Ed25519PrivateKey:
		return []field{{"k_enc_a", k.KEncA}}
	case *proto.SkEd25519PrivateKey:
		return []field{{"flags", fmt.Sprintf("0x%02x", k.Flags)}, {"key_handle", k.KeyHandle}, {"reserved", hexValue(k.Reserved)}}
	}
	return nil
}

func writeViews(w io.Writer, format string, views []keyView) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, v := range views {
		writeText(w, v)
	}
	return nil
}

func writeText(w io.Writer, v keyView) {
	cols := []string{}
	if v.Source != "" {
		cols = append(cols, fmt.Sprintf("%s:%d", v.Source, v.Line))
	}
	cols = append(cols, v.Type, v.Fingerprint)
	if v.Comment != "" {
		cols = append(cols, v.Comment)
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, f := range v.Fields {
		fmt.Fprintf(w, "  %s: %v\n", f.Name, f.Value)
	}
	if v.Warning != "" {
		fmt.Fprintf(w, "  warning: %s\n", v.Warning)
	}
}
