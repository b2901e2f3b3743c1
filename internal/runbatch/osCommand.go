// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/matt-FFFFFF/batchwalk/internal/teereader"
)

const (
	tickerInterval = 10 * time.Second // Interval for the process watchdog ticker
	tailSize       = 16 * 1024        // Bytes of stdout and stderr kept on the result
	lastLineMax    = 120              // Longest last line passed to the progress callback
)

var _ Executor = (*OSExecutor)(nil)

// OSExecutor runs commands as operating system processes.
// The zero value is ready to use: it inherits os.Stdin and forwards no signals.
type OSExecutor struct {
	Stdin        *os.File         // Child stdin, os.Stdin when nil
	Signals      <-chan os.Signal // Signals forwarded to the running child
	TickInterval time.Duration    // Progress callback interval, 10s when zero

	lookPath func(program, cwd string) (string, error) // Allows mocking in test
}

// Execute implements Executor. It starts the process in cwd and waits for it to exit.
// The current directory of the runner itself is never changed.
func (e *OSExecutor) Execute(ctx context.Context, cwd string, cmd Command) *Result {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", cmd.Label)

	res := &Result{
		Label:    cmd.Label,
		Cwd:      cwd,
		ExitCode: -1,
		Status:   ResultStatusNotStarted,
	}

	path, args, err := e.argv(ctx, cwd, cmd)
	if err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		return res
	}

	logger.Debug("command info", "path", path, "cwd", cwd, "args", args[1:])

	e.drainSignals(ctx)

	rOut, wOut, err := os.Pipe()
	if err != nil {
		res.Error = errors.Join(ErrCouldNotStartProcess, ErrFailedToCreatePipe, err)
		return res
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = rOut.Close()
		_ = wOut.Close()
		res.Error = errors.Join(ErrCouldNotStartProcess, ErrFailedToCreatePipe, err)

		return res
	}

	stdin := e.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	ps, err := os.StartProcess(path, args, &os.ProcAttr{
		Dir:   cwd,
		Env:   cmd.environ(),
		Files: []*os.File{stdin, wOut, wErr},
	})

	// The child holds its own copies of the write ends.
	_ = wOut.Close()
	_ = wErr.Close()

	if err != nil {
		_ = rOut.Close()
		_ = rErr.Close()
		res.Error = errors.Join(ErrCouldNotStartProcess, err)

		return res
	}

	startTime := time.Now()

	logger.Debug("process started", "pid", ps.Pid)

	outTee := teereader.NewLastLineTeeReader(rOut, tailSize)
	errTee := teereader.NewLastLineTeeReader(rErr, tailSize)

	var copyWg sync.WaitGroup

	copyWg.Add(2)

	go copyOutput(&copyWg, cmd.Stdout, outTee)
	go copyOutput(&copyWg, cmd.Stderr, errTee)

	done := make(chan struct{})
	// Tracks why the process was interrupted, if it was.
	wasKilled := make(chan error, 1)

	var watchWg sync.WaitGroup

	watchWg.Add(1)

	go func() {
		defer watchWg.Done()
		e.watchdog(ctx, ps, cmd, startTime, done, wasKilled, outTee, errTee)
	}()

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()

	close(done)
	watchWg.Wait()
	copyWg.Wait()

	_ = rOut.Close()
	_ = rErr.Close()

	res.Duration = time.Since(startTime)
	res.StdOut = outTee.Tail()
	res.StdErr = errTee.Tail()
	res.Status = ResultStatusError

	if psErr != nil {
		res.Error = psErr
		return res
	}

	res.ExitCode = state.ExitCode()

	select {
	case e := <-wasKilled:
		res.Error = e
	default:
	}

	logger.Debug("process finished", "exitCode", res.ExitCode)

	if res.ExitCode == 0 && res.Error == nil {
		res.Status = ResultStatusSuccess
		return res
	}

	if res.ExitCode == 0 {
		res.ExitCode = -1 // If exit code is 0 but there is an error, set exit code to -1
	}

	return res
}

// watchdog reports progress, forwards signals to the process and kills it when the
// context is cancelled. It returns when done is closed.
func (e *OSExecutor) watchdog(
	ctx context.Context,
	ps *os.Process,
	cmd Command,
	startTime time.Time,
	done <-chan struct{},
	wasKilled chan error,
	outTee, errTee *teereader.LastLineTeeReader,
) {
	logger := ctxlog.Logger(ctx)

	interval := e.TickInterval
	if interval <= 0 {
		interval = tickerInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := e.Signals
	ctxDone := ctx.Done()

	for {
		select {
		case <-done:
			return

		case <-ticker.C:
			if cmd.Progress == nil {
				continue
			}

			cmd.Progress(time.Since(startTime).Round(time.Second), progressLine(outTee, errTee))

		case s, ok := <-sigCh:
			if !ok {
				sigCh = nil
				continue
			}

			logger.Info("forwarding signal", "signal", s.String(), "pid", ps.Pid)

			if err := ps.Signal(s); err != nil {
				logger.Info("failed to send signal", "signal", s.String(), "error", err)
			}

			select {
			case wasKilled <- fmt.Errorf("%w: %s", ErrSignalReceived, s):
			default:
			}

		case <-ctxDone:
			ctxDone = nil

			logger.Info("context done, killing process", "pid", ps.Pid)
			killPs(ctx, ps)

			// Replaces a pending signal error, cancellation is the more useful reason.
			select {
			case <-wasKilled:
			default:
			}

			wasKilled <- errors.Join(ErrRunCancelled, context.Cause(ctx))
		}
	}
}

// drainSignals discards signals that arrived while no process was running.
// They were meant for an earlier job, or for none.
func (e *OSExecutor) drainSignals(ctx context.Context) {
	if e.Signals == nil {
		return
	}

	for {
		select {
		case s, ok := <-e.Signals:
			if !ok {
				return
			}

			ctxlog.Debug(ctx, "discarding signal received between jobs", "signal", s.String())
		default:
			return
		}
	}
}

// progressLine returns the last complete line of stdout, then of stderr.
// Output without a newline yet, such as a progress counter, is used when neither has one.
func progressLine(outTee, errTee *teereader.LastLineTeeReader) string {
	if line := outTee.GetLastLine(lastLineMax); line != "" {
		return line
	}

	if line := errTee.GetLastLine(lastLineMax); line != "" {
		return line
	}

	partial := outTee.GetPartialLine()
	if i := strings.LastIndexByte(strings.TrimRight(partial, "\r"), '\r'); i >= 0 {
		partial = partial[i+1:]
	}

	partial = strings.TrimSpace(partial)
	if len(partial) > lastLineMax {
		partial = partial[:lastLineMax-3] + "..."
	}

	return partial
}

// argv returns the executable path and the full argument vector, including argv[0].
func (e *OSExecutor) argv(ctx context.Context, cwd string, cmd Command) (string, []string, error) {
	if cmd.CommandLine != "" {
		shell, args := shellArgv(ctx, cmd.CommandLine)
		return shell, slices.Concat([]string{filepath.Base(shell)}, args), nil
	}

	if cmd.Program == "" {
		return "", nil, ErrNoCommand
	}

	look := e.lookPath
	if look == nil {
		look = lookPath
	}

	path, err := look(cmd.Program, cwd)
	if err != nil {
		return "", nil, err
	}

	return path, slices.Concat([]string{filepath.Base(path)}, cmd.Args), nil
}

func copyOutput(wg *sync.WaitGroup, w io.Writer, r io.Reader) {
	defer wg.Done()

	if w == nil {
		w = io.Discard
	}

	// A failing writer must not stall the child on a full pipe.
	if _, err := io.Copy(w, r); err != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

// killPs kills the process.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Logger(ctx).Debug("process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Logger(ctx).Error("process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Logger(ctx).Info("process killed", "pid", ps.Pid)
}
