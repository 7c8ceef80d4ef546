// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/keyproto/internal/crypto/ssh"
	"github.com/toeirei/keyproto/internal/logging"
	"github.com/toeirei/keyproto/internal/proto"
	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

func newPubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pub <private-key-file>",
		Short: "Print the authorized_keys line for an OpenSSH private key",
		Args:  cobra.ExactArgs(1),
		RunE:  runPub,
	}
	cmd.Flags().String("passphrase-env", "", "Read the key passphrase from this environment variable")
	cmd.Flags().String("comment", "", "Comment appended to the output line")
	return cmd
}

func runPub(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}

	passphrase := ""
	if env, _ := cmd.Flags().GetString("passphrase-env"); env != "" {
		passphrase = os.Getenv(env)
	}

	priv, err := ssh.ParsePrivateKeyPEM(data, passphrase)
	var missing *xssh.PassphraseMissingError
	if errors.As(err, &missing) {
		passphrase, err = promptPassphrase(cmd)
		if err != nil {
			return err
		}
		priv, err = ssh.ParsePrivateKeyPEM(data, passphrase)
	}
	if err != nil {
		return err
	}

	pub := proto.PublicKeyOf(priv)
	logging.Debugf("derived %s public key %s", pub.KeyType(), ssh.FingerprintSHA256(pub))

	line := strings.TrimSuffix(string(ssh.MarshalAuthorizedKey(pub)), "\n")
	if comment, _ := cmd.Flags().GetString("comment"); comment != "" {
		line += " " + comment
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

// promptPassphrase asks for the key passphrase on the controlling terminal.
func promptPassphrase(cmd *cobra.Command) (string, error) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("private key is encrypted: use --passphrase-env or run interactively")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Enter passphrase: ")
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}
