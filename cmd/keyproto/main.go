// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the keyproto command line tool using Cobra. keyproto
// inspects authorized_keys files, decodes SSH key wire blobs and derives
// public keys from OpenSSH private keys.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/keyproto/buildvars"
	"github.com/toeirei/keyproto/internal/config"
	"github.com/toeirei/keyproto/internal/logging"
)

var cfgFile string

// appConfig is filled by PersistentPreRunE before any subcommand runs.
var appConfig config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra already printed the error.
		os.Exit(1)
	}
}

// newRootCmd creates the root command with all subcommands attached. Tests
// build a fresh tree per case.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "keyproto",
		Short:         "Inspect and convert SSH public keys",
		Version:       buildvars.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		Long: `keyproto reads SSH public keys in authorized_keys and wire format.

Every key is decoded by its algorithm name (ssh-rsa, ssh-dss, ecdsa-sha2-*,
ssh-ed25519 and the sk-*@openssh.com security-key variants). Unknown or
malformed entries are reported and skipped.`,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/keyproto/keyproto.yaml, /etc/keyproto or ./keyproto.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("output", "o", "text", `Output format ("text" or "yaml")`)

	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newPubCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.LoadConfig[config.Config](cmd, config.Defaults(), &cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	appConfig = c
	logging.L.SetOutput(cmd.ErrOrStderr())
	logging.SetDebug(c.Debug)
	logging.Debugf("config loaded: %+v", c)
	return nil
}
