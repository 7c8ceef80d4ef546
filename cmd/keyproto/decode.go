// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/keyproto/internal/proto"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <base64 | ->",
		Short: "Decode a base64 SSH key wire blob and print its fields",
		Long: `Decodes a tagged key blob, as found in the second column of an
authorized_keys line. With --private the blob is read in the agent
private key layout; secret fields are never printed.`,
		Args: cobra.ExactArgs(1),
		RunE: runDecode,
	}
	cmd.Flags().Bool("private", false, "Decode a private key blob")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	text := args[0]
	if text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("invalid base64: %w", err)
	}

	private, _ := cmd.Flags().GetBool("private")
	var view keyView
	if private {
		k, err := proto.ParsePrivateKey(blob)
		if err != nil {
			return err
		}
		pub := proto.PublicKeyOf(k)
		view = newKeyView(pub)
		view.Fields = append(publicFields(pub), privateFields(k)...)
	} else {
		k, err := proto.ParsePublicKey(blob)
		if err != nil {
			return err
		}
		view = newKeyView(k)
		view.Fields = publicFields(k)
	}
	return writeViews(cmd.OutOrStdout(), appConfig.Output, []keyView{view})
}
