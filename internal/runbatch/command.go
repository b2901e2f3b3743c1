// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"time"
)

// Command is one process invocation: a job without steps, or one step of a job.
type Command struct {
	Label       string            // Job label, or "job > step" for steps
	Program     string            // Program to run, looked up on PATH when it has no separator
	Args        []string          // Arguments, not including the program itself
	CommandLine string            // Shell command line, used instead of Program when set
	Env         map[string]string // Added to the environment of the runner
	Stdout      io.Writer         // Receives the child's stdout, nil discards it
	Stderr      io.Writer         // Receives the child's stderr, nil discards it

	// Progress, when set, is called periodically while the process runs with the
	// elapsed time and the last line of output.
	Progress func(elapsed time.Duration, lastLine string)
}

// environ returns the runner's environment with the command's variables appended.
func (c Command) environ() []string {
	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		env = append(env, k+"="+c.Env[k])
	}

	return env
}

// Executor runs a single command in the given directory and waits for it to finish.
type Executor interface {
	Execute(ctx context.Context, cwd string, cmd Command) *Result
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, cwd string, cmd Command) *Result

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, cwd string, cmd Command) *Result {
	return f(ctx, cwd, cmd)
}
