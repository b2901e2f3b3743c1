// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/matt-FFFFFF/batchwalk/internal/progress"
	"github.com/spf13/afero"
)

// LogSink opens a log destination for each job. The runner closes it when the job ends.
type LogSink interface {
	Open(index int, label string) (io.WriteCloser, error)
}

// Runner runs the jobs of a job list one after another.
type Runner struct {
	Executor Executor          // Runs each command, an OSExecutor when nil
	Fs       afero.Fs          // Used to check working directories, FsFactory() when nil
	Policy   FailurePolicy     // What to do after a failed job
	Reporter progress.Reporter // Receives job events, discarded when nil
	Logs     LogSink           // Per job log files, optional
	Stdout   io.Writer         // Console destination for job stdout, discarded when nil
	Stderr   io.Writer         // Console destination for job stderr, discarded when nil
	RunID    string            // Identifier for the run, a new UUID when empty
}

// NewRunner returns a Runner that passes job output through to the console.
func NewRunner(executor Executor) *Runner {
	return &Runner{
		Executor: executor,
		Fs:       FsFactory(),
		Policy:   PolicyContinue,
		Reporter: progress.NewNullReporter(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Run executes every job in list in order, starting from startDir.
//
// Each job's working directory is resolved against the directory of the previous job.
// A directory that does not exist halts the run with a *DirectoryNotFoundError in
// RunResult.Err and later jobs are never started. A job that fails is recorded and,
// under PolicyContinue, the next job runs regardless.
func (r *Runner) Run(ctx context.Context, list *joblist.List, startDir string) *RunResult {
	r.setDefaults()

	start := filepath.Clean(startDir)
	res := &RunResult{
		Label:    list.Label(),
		RunID:    r.RunID,
		StartDir: start,
		Policy:   r.Policy,
		Total:    len(list.Jobs),
		State:    State{CurrentDirectory: start},
		Started:  time.Now(),
	}

	logger := ctxlog.Logger(ctx).With("runID", res.RunID, "pipeline", res.Label)
	ctx = ctxlog.New(ctx, logger)

	logger.Info("run started", "jobs", res.Total, "startDir", start, "policy", r.Policy.String())

	// Index of the first job that received no event.
	reached := 0

	for i := range list.Jobs {
		job := &list.Jobs[i]
		label := job.Label(i)

		if err := ctx.Err(); err != nil {
			res.Err = errors.Join(ErrRunCancelled, context.Cause(ctx))
			logger.Warn("run cancelled", "job", label)

			break
		}

		reached = i + 1

		dir, err := ResolveDir(r.Fs, res.State.CurrentDirectory, job.WorkingDirectory)
		if err != nil {
			var dnf *DirectoryNotFoundError
			if errors.As(err, &dnf) {
				dnf.Job = label
				dnf.Index = i
			}

			res.Err = err
			logger.Error("working directory not found, halting run", "job", label, "error", err)
			r.report(i, res.Total, label, "", progress.EventFailed, progress.EventData{Error: err})

			break
		}

		res.State.CurrentDirectory = dir

		jobRes := r.runJob(ctx, res.Total, i, job, dir)
		res.Jobs = append(res.Jobs, jobRes)
		res.State.LastExitStatus = jobRes.ExitCode
		res.State.JobIndex = i + 1

		if jobRes.Failed() && r.Policy == PolicyAbort {
			res.Err = jobRes.Error
			logger.Warn("job failed, aborting run", "job", label, "exitCode", jobRes.ExitCode)

			break
		}
	}

	for i := reached; i < res.Total; i++ {
		r.report(i, res.Total, list.Jobs[i].Label(i), "", progress.EventSkipped, progress.EventData{})
	}

	res.Finished = time.Now()

	logger.Info(
		"run finished",
		"attempted", res.Attempted(),
		"failed", len(res.Failed()),
		"halted", res.Halted(),
		"duration", res.Duration().Round(time.Millisecond).String(),
	)

	return res
}

func (r *Runner) setDefaults() {
	if r.Executor == nil {
		r.Executor = &OSExecutor{}
	}

	if r.Fs == nil {
		r.Fs = FsFactory()
	}

	if r.Reporter == nil {
		r.Reporter = progress.NewNullReporter()
	}

	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
}

// runJob runs every step of a job in dir and returns the job's result.
func (r *Runner) runJob(ctx context.Context, total, index int, job *joblist.Job, dir string) *Result {
	label := job.Label(index)
	logger := ctxlog.Logger(ctx).With("job", label, "index", index)
	start := time.Now()

	r.report(index, total, label, "", progress.EventStarted, progress.EventData{Cwd: dir})
	logger.Info("job started", "cwd", dir)

	stdout, stderr, closeLog := r.outputs(ctx, index, label)
	defer closeLog()

	res := &Result{
		Label:  label,
		Index:  index,
		Cwd:    dir,
		Status: ResultStatusSuccess,
	}

	hasSteps := len(job.Steps) > 0

	for _, step := range job.Commands() {
		stepLabel := ""
		if hasSteps {
			stepLabel = step.Name
		}

		if err := ctx.Err(); err != nil {
			res.Status = ResultStatusError
			res.ExitCode = -1
			res.Error = &JobExecutionError{
				Job: label, Step: stepLabel, ExitCode: -1, Err: errors.Join(ErrRunCancelled, context.Cause(ctx)),
			}

			break
		}

		cmd := Command{
			Label:       fullLabel(label, stepLabel),
			Program:     step.Program,
			Args:        step.Arguments,
			CommandLine: step.CommandLine,
			Env:         step.Env,
			Stdout:      stdout,
			Stderr:      stderr,
			Progress: func(elapsed time.Duration, lastLine string) {
				r.report(index, total, label, stepLabel, progress.EventProgress, progress.EventData{
					Cwd:        dir,
					Elapsed:    elapsed,
					OutputLine: lastLine,
				})
			},
		}

		if hasSteps {
			r.report(index, total, label, stepLabel, progress.EventStarted, progress.EventData{Cwd: dir})
		}

		stepRes := r.Executor.Execute(ctx, dir, cmd)
		stepRes.Index = index
		stepRes.Cwd = dir

		if stepRes.Failed() {
			stepRes.Error = &JobExecutionError{Job: label, Step: stepLabel, ExitCode: stepRes.ExitCode, Err: stepRes.Error}
			logger.Warn("job failed", "step", stepLabel, "exitCode", stepRes.ExitCode, "error", stepRes.Error)
		}

		if !hasSteps {
			stepRes.Label = label
			res = stepRes

			break
		}

		stepRes.Label = stepLabel
		res.Children = append(res.Children, stepRes)
		r.reportOutcome(index, total, label, stepLabel, stepRes)

		if stepRes.Failed() && res.Error == nil {
			res.Status = ResultStatusError
			res.ExitCode = stepRes.ExitCode
			res.Error = stepRes.Error
		}

		if stepRes.Failed() && r.Policy == PolicyAbort {
			break
		}
	}

	res.Duration = time.Since(start)
	r.reportOutcome(index, total, label, "", res)

	logger.Info("job finished", "status", res.Status.String(), "exitCode", res.ExitCode, "duration", res.Duration.Round(time.Millisecond).String())

	return res
}

func (r *Runner) reportOutcome(index, total int, label, step string, res *Result) {
	data := progress.EventData{
		Cwd:      res.Cwd,
		ExitCode: res.ExitCode,
		Error:    res.Error,
		Elapsed:  res.Duration.Round(time.Second),
	}

	if res.Failed() {
		r.report(index, total, label, step, progress.EventFailed, data)
		return
	}

	r.report(index, total, label, step, progress.EventCompleted, data)
}

func (r *Runner) report(index, total int, label, step string, t progress.EventType, data progress.EventData) {
	r.Reporter.Report(progress.Event{
		JobIndex:  index,
		JobCount:  total,
		Job:       label,
		Step:      step,
		Type:      t,
		Message:   t.String(),
		Timestamp: time.Now(),
		Data:      data,
	})
}

// outputs returns the stdout and stderr writers for a job, teeing into the job's log
// file when a LogSink is configured. A log that cannot be opened is logged and skipped.
// The two writers share a lock because the process output is copied by two goroutines.
func (r *Runner) outputs(ctx context.Context, index int, label string) (io.Writer, io.Writer, func()) {
	if r.Logs == nil {
		stdout, stderr := SyncWriters(r.Stdout, r.Stderr)
		return stdout, stderr, func() {}
	}

	f, err := r.Logs.Open(index, label)
	if err != nil {
		ctxlog.Warn(ctx, "could not open job log, continuing without it", "job", label, "error", err)

		stdout, stderr := SyncWriters(r.Stdout, r.Stderr)

		return stdout, stderr, func() {}
	}

	closeFn := func() {
		if err := f.Close(); err != nil {
			ctxlog.Warn(ctx, "could not close job log", "job", label, "error", err)
		}
	}

	stdout, stderr := SyncWriters(tee(r.Stdout, f), tee(r.Stderr, f))

	return stdout, stderr, closeFn
}

func tee(console, log io.Writer) io.Writer {
	if console == nil {
		return log
	}

	return io.MultiWriter(console, log)
}

func fullLabel(job, step string) string {
	if step == "" {
		return job
	}

	return job + " > " + step
}

// SyncWriters returns stdout and stderr wrapped so that no two writes to either of them
// run at the same time. Callers that pass the same writer, or one terminal, as both
// need this when output is copied concurrently. A nil writer discards.
func SyncWriters(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	mu := &sync.Mutex{}

	return &lockedWriter{mu: mu, w: orDiscard(stdout)}, &lockedWriter{mu: mu, w: orDiscard(stderr)}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.w.Write(p) //nolint:wrapcheck
}
