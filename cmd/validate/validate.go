// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package validate contains the validate command, which checks a job list without running it.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/batchwalk/internal/color"
	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag   = "file"
	rootFlag   = "root"
	cliExitStr = ""
)

// ErrInvalidPlan is returned when one or more working directories do not exist.
var ErrInvalidPlan = errors.New("job list refers to working directories that do not exist")

// ValidateCmd is the command that checks a job list.
var ValidateCmd = NewValidateCmd()

// NewValidateCmd returns a fresh validate command.
func NewValidateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a job list and its working directories without running any job",
		Description: `Load and validate a job list, then walk its working directories
from the start directory and print where each job would run.
Every missing directory is reported, not only the first.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     fileFlag,
				Aliases:  []string{"f"},
				Usage:    "Job list to check, a local path or a go-getter URL",
				Sources:  cli.EnvVars("BATCHWALK_FILE"),
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      rootFlag,
				Usage:     "Directory the first job resolves its working directory against",
				TakesFile: true,
				Sources:   cli.EnvVars("BATCHWALK_ROOT"),
				OnlyOnce:  true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	src := cmd.String(fileFlag)
	if src == "" {
		logger.Error("Please specify the job list with the --file or -f flag.")
		return cli.Exit(cliExitStr, 1)
	}

	list, err := joblist.Load(ctx, src)
	if err != nil {
		logger.Error(err.Error(), "source", src)
		return cli.Exit(cliExitStr, 1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	startDir := list.StartDir(cwd, cmd.String(rootFlag))
	plan, planErr := runbatch.Plan(runbatch.FsFactory(), list, startDir)

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	if err := writePlan(w, list, startDir, plan); err != nil {
		return err
	}

	if planErr != nil {
		logger.Error(errors.Join(ErrInvalidPlan, planErr).Error())
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

func writePlan(w io.Writer, list *joblist.List, startDir string, plan []runbatch.PlannedJob) error {
	if _, err := fmt.Fprintf(w, "%s from %s\n", color.Colorize(list.Label(), color.Bold), startDir); err != nil {
		return err //nolint:wrapcheck
	}

	for _, p := range plan {
		icon := color.Colorize("✓", color.FgGreen)
		if p.Err != nil {
			icon = color.Colorize("✗", color.FgRed)
		}

		if _, err := fmt.Fprintf(w, "%s %03d %s %s\n", icon, p.Index+1, p.Label, p.Dir); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}
