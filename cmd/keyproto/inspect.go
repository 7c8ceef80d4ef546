// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/keyproto/internal/logging"
	"github.com/toeirei/keyproto/internal/sshkey"
	"golang.org/x/term"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file...]",
		Short: "List the keys of authorized_keys or .pub files",
		Long: `Reads each file (or stdin when no file is given) as authorized_keys
content and prints one entry per accepted key. Rejected lines are logged
as warnings and do not stop the remaining entries from being processed.`,
		RunE: runInspect,
	}
	cmd.Flags().StringSlice("allow", nil, "Only accept these algorithms (full names or ecdsa-sha2/sk-ecdsa-sha2)")
	cmd.Flags().Bool("dedup", false, "Drop repeated keys")
	cmd.Flags().Bool("warn-legacy", true, "Flag ssh-rsa and ssh-dss keys")
	return cmd
}

type inputFile struct {
	name string
	data []byte
}

// readInputs reads the named files, or stdin when none are given. An
// interactive terminal on stdin is refused instead of blocking.
func readInputs(cmd *cobra.Command, args []string) ([]inputFile, error) {
	if len(args) == 0 {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errors.New("no input: pass a file or pipe authorized_keys content on stdin")
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []inputFile{{name: "-", data: data}}, nil
	}
	var out []inputFile
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		out = append(out, inputFile{name: path, data: data})
	}
	return out, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	var keys []sshkey.AuthorizedKey
	rejected := 0
	for _, in := range inputs {
		parsed, bad := sshkey.ParseAuthorizedKeys(in.data)
		for _, r := range bad {
			logging.Warnf("%s: %v", in.name, r)
		}
		rejected += len(bad)
		for i := range parsed {
			parsed[i].Source = in.name
		}
		keys = append(keys, parsed...)
	}

	keys, dropped := sshkey.Filter(keys, appConfig.Allow)
	for _, d := range dropped {
		logging.Warnf("%s:%d: algorithm %s not allowed", d.Source, d.Line, d.Key.KeyType())
	}
	if appConfig.Dedup {
		keys = sshkey.Dedup(keys)
	}

	views := make([]keyView, 0, len(keys))
	for _, k := range keys {
		v := newKeyView(k.Key)
		v.Source = k.Source
		v.Line = k.Line
		v.Comment = k.Comment
		v.Options = k.Options
		if appConfig.WarnLegacy {
			v.Warning = sshkey.CheckAlgorithm(k.Key)
		}
		views = append(views, v)
	}
	logging.Debugf("inspect: %d accepted, %d rejected, %d filtered", len(views), rejected, len(dropped))

	if len(views) == 0 && rejected > 0 {
		return fmt.Errorf("all %d entries were rejected", rejected)
	}
	return writeViews(cmd.OutOrStdout(), appConfig.Output, views)
}
