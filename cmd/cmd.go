// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/batchwalk/cmd/config"
	"github.com/matt-FFFFFF/batchwalk/cmd/run"
	"github.com/matt-FFFFFF/batchwalk/cmd/show"
	"github.com/matt-FFFFFF/batchwalk/cmd/validate"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		config.ConfigCmd,
		run.RunCmd,
		show.ShowCmd,
		validate.ValidateCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "batchwalk",
	Description: `Batchwalk runs an ordered list of jobs one after another on a single host.
Each job starts in the directory the previous job ran in, moved by its own relative
or absolute working directory. Failed jobs are recorded and the rest of the list
still runs. When the list has finished, the summary stays on screen until it is
acknowledged.`,
	Usage:     "batchwalk run -f jobs.yaml",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
