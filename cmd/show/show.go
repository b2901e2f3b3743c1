// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show contains the show command, which prints previously saved results.
package show

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	fileArg                  = "file"
	noOutputStdErrFlag       = "no-output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrDecodeResults is returned when the results cannot be decoded from the file.
	ErrDecodeResults = errors.New("failed to decode results")
	// ErrWriteResults is returned when the results cannot be written to stdout.
	ErrWriteResults = errors.New("failed to write results to stdout")
	// ErrNoFile is returned when no results file is given.
	ErrNoFile = errors.New("no results file specified")
)

// ShowCmd is the command that shows the results of a previous run.
var ShowCmd = NewShowCmd()

// NewShowCmd returns a fresh show command.
func NewShowCmd() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show previously saved results",
		Description: "Show the results saved by run --out.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      fileArg,
				UsageText: "RESULTSFILE",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    outputStdOutFlag,
				Aliases: []string{"stdout"},
				Usage:   "Include the stdout tail in the results",
			},
			&cli.BoolFlag{
				Name:    noOutputStdErrFlag,
				Aliases: []string{"no-stderr"},
				Usage:   "Exclude the stderr tail from the results",
			},
			&cli.BoolFlag{
				Name:    outputSuccessDetailsFlag,
				Aliases: []string{"success"},
				Usage:   "Include details of successful jobs in the results",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(fileArg)
	if name == "" {
		return ErrNoFile
	}

	file, err := os.Open(name)
	if err != nil {
		return errors.Join(ErrReadFile, err)
	}

	defer file.Close() //nolint:errcheck

	res, err := runbatch.ReadBinary(file)
	if err != nil {
		return errors.Join(ErrDecodeResults, err)
	}

	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
	opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	if err := res.WriteText(w, opts); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}
