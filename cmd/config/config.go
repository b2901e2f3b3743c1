// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config contains the config command, which prints an example job list.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/urfave/cli/v3"
)

const (
	formatArg  = "format"
	formatYAML = "yaml"
	formatHCL  = "hcl"
)

// ErrUnknownFormat is returned for a format other than yaml or hcl.
var ErrUnknownFormat = errors.New("unknown format, expected yaml or hcl")

// ConfigCmd is the command that documents the job list format.
var ConfigCmd = NewConfigCmd()

// NewConfigCmd returns a fresh config command.
func NewConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print an example job list",
		Description: `Print an example job list in YAML (the default) or HCL.
Each job runs in working_directory, resolved against the directory the previous job
ran in. An empty working_directory keeps the previous directory.`,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      formatArg,
				UsageText: "[yaml|hcl]",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	var out []byte

	switch f := cmd.StringArg(formatArg); f {
	case "", formatYAML:
		b, err := joblist.EncodeYAML(Example())
		if err != nil {
			return err //nolint:wrapcheck
		}

		out = b
	case formatHCL:
		out = joblist.EncodeHCL(Example())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	_, err := w.Write(out)

	return err //nolint:wrapcheck
}

// Example returns a small job list showing every field.
func Example() *joblist.List {
	detach := false

	return &joblist.List{
		Name:        "nightly",
		Description: "Nightly reports, each job runs from the directory of the previous one",
		Root:        ".",
		Detach:      &detach,
		Jobs: []joblist.Job{
			{
				Name:             "mesa",
				WorkingDirectory: "002_MESA",
				Program:          "python",
				Arguments:        []string{"002_MESA.py"},
			},
			{
				Name:             "plx",
				WorkingDirectory: "../049_TAK_PLX",
				Env:              map[string]string{"PYTHONUNBUFFERED": "1"},
				Steps: []joblist.Step{
					{Name: "collect", CommandLine: "python 049_TAK_PLX.py"},
					{Name: "chart", Program: "python", Arguments: []string{"049_TAK_PLX_C.py"}},
				},
			},
		},
	}
}
