// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryNotFound is matched by every *DirectoryNotFoundError.
	ErrDirectoryNotFound = errors.New("working directory not found")
	// ErrNotADirectory is returned when a working directory resolves to a file.
	ErrNotADirectory = errors.New("not a directory")
	// ErrJobExecution is matched by every *JobExecutionError.
	ErrJobExecution = errors.New("job execution failed")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrCommandNotFound is returned when a program cannot be located.
	ErrCommandNotFound = errors.New("command not found")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrSignalReceived is returned when an operating system signal was forwarded to the child process.
	ErrSignalReceived = errors.New("signal received")
	// ErrRunCancelled is returned when the run context is cancelled, usually by a second interrupt.
	ErrRunCancelled = errors.New("run cancelled")
	// ErrNoCommand is returned when a step has neither a program nor a command line.
	ErrNoCommand = errors.New("step has no program or command line")
)

// DirectoryNotFoundError is returned when a job's working directory does not resolve
// to an existing directory. It is fatal for the run.
type DirectoryNotFoundError struct {
	Job      string // Label of the job whose directory is missing
	Index    int    // Position of the job in the list
	Base     string // Directory the path was resolved against
	Path     string // Working directory as written in the job list
	Resolved string // Result of the resolution
	Err      error  // Underlying file system error
}

// Error implements the error interface.
func (e *DirectoryNotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %q resolved from %q to %q", ErrDirectoryNotFound, e.Path, e.Base, e.Resolved)
	if e.Job != "" {
		msg = fmt.Sprintf("job %d (%s): %s", e.Index+1, e.Job, msg)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is reports whether target is ErrDirectoryNotFound.
func (e *DirectoryNotFoundError) Is(target error) bool {
	return target == ErrDirectoryNotFound //nolint:errorlint,err113
}

// Unwrap returns the underlying error.
func (e *DirectoryNotFoundError) Unwrap() error {
	return e.Err
}

// JobExecutionError records a job or step that exited non-zero or could not be started.
type JobExecutionError struct {
	Job      string // Job label
	Step     string // Step label, empty for single command jobs
	ExitCode int    // Exit code, -1 when the process did not start or was killed
	Err      error  // Underlying error, nil for a plain non-zero exit
}

// Error implements the error interface.
func (e *JobExecutionError) Error() string {
	name := e.Job
	if e.Step != "" {
		name += " > " + e.Step
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s (exit code %d): %v", ErrJobExecution, name, e.ExitCode, e.Err)
	}

	return fmt.Sprintf("%s: %s (exit code %d)", ErrJobExecution, name, e.ExitCode)
}

// Is reports whether target is ErrJobExecution.
func (e *JobExecutionError) Is(target error) bool {
	return target == ErrJobExecution //nolint:errorlint,err113
}

// Unwrap returns the underlying error.
func (e *JobExecutionError) Unwrap() error {
	return e.Err
}
