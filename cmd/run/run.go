// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the run command, which executes a job list.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/batchwalk/cmd/cmdstate"
	"github.com/matt-FFFFFF/batchwalk/internal/ack"
	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/matt-FFFFFF/batchwalk/internal/joblog"
	"github.com/matt-FFFFFF/batchwalk/internal/launcher"
	"github.com/matt-FFFFFF/batchwalk/internal/progress"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
	"github.com/matt-FFFFFF/batchwalk/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag                 = "file"
	rootFlag                 = "root"
	detachFlag               = "detach"
	policyFlag               = "policy"
	noWaitFlag               = "no-wait"
	tuiFlag                  = "tui"
	outFlag                  = "out"
	logDirFlag               = "log-dir"
	strictFlag               = "strict"
	noOutputStdErrFlag       = "no-output-stderr"
	outputStdOutFlag         = "output-stdout"
	outputSuccessDetailsFlag = "output-success-details"
	cliExitStr               = ""
	envPrefix                = "BATCHWALK_"
)

var (
	// ErrLoadJobList is returned when the job list cannot be fetched, decoded or validated.
	ErrLoadJobList = errors.New("failed to load job list")
	// ErrRunFailed is returned by --strict runs when a job failed.
	ErrRunFailed = errors.New("one or more jobs failed")
)

// RunCmd is the command that runs a job list.
var RunCmd = NewRunCmd()

// NewRunCmd returns a fresh run command.
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run every job of a job list in order",
		Description: `Run the jobs of a YAML or HCL job list one after another.
Each job runs in its working directory, resolved against the directory the previous
job ran in. A job that fails is recorded and the next job still runs, unless
--policy abort is given. A working directory that does not exist stops the run.

Job list URLs use Hashicorp's go-getter syntax, see https://github.com/hashicorp/go-getter.

When the run finishes the summary stays on screen until Enter is pressed.
Use --no-wait for unattended runs.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     fileFlag,
				Aliases:  []string{"f"},
				Usage:    "Job list to run, a local path or a go-getter URL",
				Sources:  cli.EnvVars(envPrefix + "FILE"),
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      rootFlag,
				Usage:     "Directory the first job resolves its working directory against, overrides the job list root",
				TakesFile: true,
				Sources:   cli.EnvVars(envPrefix + "ROOT"),
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:     detachFlag,
				Usage:    "Relaunch in a new background process before running, overrides the job list setting",
				Sources:  cli.EnvVars(envPrefix + "DETACH"),
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     launcher.MarkerFlag,
				Usage:    "Set on the relaunched process",
				Hidden:   true,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     policyFlag,
				Usage:    "What to do after a failed job: " + strings.Join(runbatch.FailurePolicyNames(), " or "),
				Value:    runbatch.PolicyContinue.String(),
				Sources:  cli.EnvVars(envPrefix + "POLICY"),
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     noWaitFlag,
				Usage:    "Exit as soon as the run finishes instead of waiting for Enter",
				Sources:  cli.EnvVars(envPrefix + "NO_WAIT"),
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     tuiFlag,
				Aliases:  []string{"t", "interactive"},
				Usage:    "Show progress in an interactive terminal UI",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      outFlag,
				Usage:     "Save the results to this file, view them later with the show command",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.StringFlag{
				Name:      logDirFlag,
				Usage:     "Write the output of each job to a log file under this directory",
				TakesFile: true,
				Sources:   cli.EnvVars(envPrefix + "LOG_DIR"),
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:     strictFlag,
				Usage:    "Exit non-zero when any job failed",
				Sources:  cli.EnvVars(envPrefix + "STRICT"),
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     outputStdOutFlag,
				Aliases:  []string{"stdout"},
				Usage:    "Include the stdout tail in the results",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     noOutputStdErrFlag,
				Aliases:  []string{"no-stderr"},
				Usage:    "Exclude the stderr tail from the results",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:     outputSuccessDetailsFlag,
				Aliases:  []string{"success"},
				Usage:    "Include details of successful jobs in the results",
				OnlyOnce: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	ctx = ctxlog.New(ctx, logger)
	stdout, stderr := writers(cmd)

	lc := &runbatch.Lifecycle{}

	src := cmd.String(fileFlag)
	if src == "" {
		logger.Error("Please specify the job list with the --file or -f flag.")
		return cli.Exit(cliExitStr, 1)
	}

	policy, err := runbatch.NewFailurePolicy(cmd.String(policyFlag))
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	list, err := joblist.Load(ctx, src)
	if err != nil {
		logger.Error(errors.Join(ErrLoadJobList, err).Error(), "source", src)
		return cli.Exit(cliExitStr, 1)
	}

	relaunched, err := guard(ctx, cmd, list, lc)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	if relaunched {
		logger.Info("run continues in a detached process")
		return lc.Advance(ctx, runbatch.PhaseTerminated) //nolint:wrapcheck
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to get the working directory: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	runner := runbatch.NewRunner(nil)
	runner.Policy = policy
	runner.Stdout = stdout
	runner.Stderr = stderr

	if dir := cmd.String(logDirFlag); dir != "" {
		store := joblog.New(dir, "")
		runner.Logs = store
		runner.RunID = store.RunID
		logger.Info("writing job logs", "dir", store.RunDir())
	}

	startDir := list.StartDir(cwd, cmd.String(rootFlag))

	if err := lc.Advance(ctx, runbatch.PhaseRunning); err != nil {
		return err //nolint:wrapcheck
	}

	var res *runbatch.RunResult

	if cmd.Bool(tuiFlag) {
		res, err = runWithTUI(ctx, runner, list, startDir, stderr)
		if err != nil {
			logger.Error(fmt.Sprintf("TUI execution error: %s", err.Error()))
		}
	} else {
		runner.Executor = &runbatch.OSExecutor{Signals: cmdstate.Signals(ctx)}
		runner.Reporter = progress.NewWriterReporter(stderr)
		res = runner.Run(ctx, list, startDir)
	}

	if res == nil {
		logger.Error("the run produced no result")
		return cli.Exit(cliExitStr, 1)
	}

	if err := writeResults(ctx, cmd, res, stdout); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	// The TUI final screen is the acknowledgment.
	if !cmd.Bool(noWaitFlag) && !cmd.Bool(tuiFlag) {
		if err := lc.Advance(ctx, runbatch.PhaseAwaitingAck); err != nil {
			return err //nolint:wrapcheck
		}

		p := ack.NewPrompter(os.Stdin, stdout)
		if err := ack.Wait(ctx, p, ack.DefaultPrompt); err != nil {
			logger.Warn("acknowledgment not received", "error", err.Error())
		}

		p.Close() //nolint:errcheck
	}

	if err := lc.Advance(ctx, runbatch.PhaseTerminated); err != nil {
		return err //nolint:wrapcheck
	}

	return exitStatus(ctx, res, cmd.Bool(strictFlag))
}

// guard relaunches the process detached when asked to and reports whether it did.
func guard(ctx context.Context, cmd *cli.Command, list *joblist.List, lc *runbatch.Lifecycle) (bool, error) {
	detach := list.DetachEnabled()
	if cmd.IsSet(detachFlag) {
		detach = cmd.Bool(detachFlag)
	}

	l := &launcher.Launcher{
		Detach: detach,
		Marker: cmd.Bool(launcher.MarkerFlag),
	}

	if !l.Detach || l.Marker {
		return false, nil
	}

	if err := lc.Advance(ctx, runbatch.PhaseRelaunching); err != nil {
		return false, err //nolint:wrapcheck
	}

	exe, err := os.Executable()
	if err != nil {
		return false, errors.Join(launcher.ErrRelaunch, err)
	}

	return l.Guard(ctx, exe, os.Args[1:]) //nolint:wrapcheck
}

func runWithTUI(
	ctx context.Context, runner *runbatch.Runner, list *joblist.List, startDir string, stderr io.Writer,
) (*runbatch.RunResult, error) {
	// The TUI owns the terminal, so job output only goes to the log files and results.
	buf := new(bytes.Buffer)
	tuiCtx := ctxlog.NewForTUI(ctx, buf)

	defer buf.WriteTo(stderr) //nolint:errcheck

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	defer devNull.Close() //nolint:errcheck

	runner.Executor = &runbatch.OSExecutor{Stdin: devNull, Signals: cmdstate.Signals(ctx)}
	runner.Stdout = io.Discard
	runner.Stderr = io.Discard

	t := tui.NewRunner(tuiCtx, list)

	return t.Run(tuiCtx, func(ctx context.Context, reporter progress.Reporter) *runbatch.RunResult {
		runner.Reporter = reporter
		return runner.Run(ctx, list, startDir)
	})
}

func writeResults(ctx context.Context, cmd *cli.Command, res *runbatch.RunResult, w io.Writer) error {
	if outFileName := cmd.String(outFlag); outFileName != "" {
		f, err := os.Create(outFileName)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", outFileName, err)
		}

		defer f.Close() //nolint:errcheck

		if err := res.WriteBinary(f); err != nil {
			return fmt.Errorf("failed to write results to file %s: %w", outFileName, err)
		}

		ctxlog.Info(ctx, fmt.Sprintf("Results written to %s", outFileName))
	}

	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
	opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	opts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

	if err := res.WriteText(w, opts); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}

// exitStatus maps the outcome of a finished run to the command result.
// A halted run always fails. Failed jobs only fail the command with strict set.
func exitStatus(ctx context.Context, res *runbatch.RunResult, strict bool) error {
	logger := ctxlog.Logger(ctx)

	switch {
	case res.Halted():
		logger.Error("The run was halted before every job was attempted.", "error", res.Err.Error())
		return cli.Exit(cliExitStr, 1)
	case res.HasFailures() && strict:
		logger.Error(ErrRunFailed.Error(), "failed", len(res.Failed()))
		return cli.Exit(cliExitStr, 1)
	case res.HasFailures():
		logger.Warn("Some jobs failed. See above for details.", "failed", len(res.Failed()))
	}

	return nil
}

// writers returns the console writers of the root command. Job output, progress lines
// and results all go through them from several goroutines, so writes are serialised.
func writers(cmd *cli.Command) (io.Writer, io.Writer) {
	root := cmd.Root()

	stdout, stderr := root.Writer, root.ErrWriter
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return runbatch.SyncWriters(stdout, stderr)
}
