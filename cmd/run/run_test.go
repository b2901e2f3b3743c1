// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/batchwalk/internal/launcher"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// newTestRoot returns a root command around a fresh run command that never calls os.Exit.
func newTestRoot(out *bytes.Buffer) *cli.Command {
	return &cli.Command{
		Name:           "batchwalk",
		Commands:       []*cli.Command{NewRunCmd()},
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func writeJobList(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	if err != nil {
		return -1
	}

	return 0
}

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell command lines")
	}
}

func TestRun_NoFile(t *testing.T) {
	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(), []string{"batchwalk", "run", "--no-wait"})

	assert.Equal(t, 1, exitCode(err))
}

func TestRun_UnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeJobList(t, dir, "jobs:\n  - program: ./x\n")

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--policy", "sometimes", "--no-wait"})

	assert.Equal(t, 1, exitCode(err))
}

func TestRun_DetachRelaunchesOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeJobList(t, dir, `
detach: true
jobs:
  - name: never
    command_line: "echo should-not-run"
`)

	var calls [][]string

	stubs := gostub.Stub(&launcher.StartDetached, func(_ context.Context, _ string, args []string) error {
		calls = append(calls, args)
		return nil
	})
	defer stubs.Reset()

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(), []string{"batchwalk", "run", "-f", path, "--no-wait"})

	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, launcher.HasMarker(calls[0]))
	assert.NotContains(t, out.String(), "should-not-run")
	assert.NotContains(t, out.String(), "jobs attempted")
}

func TestRun_RelaunchedCopyDoesNotRelaunch(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	path := writeJobList(t, dir, `
detach: true
jobs:
  - name: greet
    command_line: "echo hello"
`)

	stubs := gostub.Stub(&launcher.StartDetached, func(context.Context, string, []string) error {
		t.Fatal("the relaunched copy must not relaunch again")
		return nil
	})
	defer stubs.Reset()

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--no-wait", "--relaunched"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1 of 1 jobs attempted, 0 failed")
}

func TestRun_ThreadsWorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "A", "B"), 0o750))

	path := writeJobList(t, dir, `
name: chain
jobs:
  - name: first
    working_directory: A
    command_line: "pwd > first.txt"
  - name: second
    working_directory: B
    command_line: "pwd > second.txt"
`)

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--root", dir, "--no-wait"})

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "A", "first.txt"))
	assert.FileExists(t, filepath.Join(dir, "A", "B", "second.txt"))
	assert.Contains(t, out.String(), "2 of 2 jobs attempted, 0 failed")
}

func TestRun_FailedJobDoesNotStopRun(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	path := writeJobList(t, dir, `
jobs:
  - name: broken
    command_line: "exit 3"
  - name: after
    command_line: "echo still-running > after.txt"
`)

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--root", dir, "--no-wait"})

	require.NoError(t, err, "failed jobs only fail the command with --strict")
	assert.FileExists(t, filepath.Join(dir, "after.txt"))
	assert.Contains(t, out.String(), "2 of 2 jobs attempted, 1 failed")

	out.Reset()
	err = newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--root", dir, "--no-wait", "--strict"})

	assert.Equal(t, 1, exitCode(err))
}

func TestRun_StdoutAndStderrShareOneWriter(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	path := writeJobList(t, dir, `
jobs:
  - name: chatty
    command_line: "i=0; while [ $i -lt 2000 ]; do echo stdout-line $i; echo stderr-line $i >&2; i=$((i+1)); done"
`)

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--root", dir, "--no-wait", "--no-stderr"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "stdout-line 1999\n")
	assert.Contains(t, out.String(), "stderr-line 1999\n")
	assert.Contains(t, out.String(), "1 of 1 jobs attempted, 0 failed")
}

func TestRun_MissingDirectoryHalts(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	path := writeJobList(t, dir, `
jobs:
  - name: first
    command_line: "echo one > one.txt"
  - name: lost
    working_directory: missing
    command_line: "echo two > two.txt"
  - name: third
    command_line: "echo three > three.txt"
`)

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(),
		[]string{"batchwalk", "run", "-f", path, "--root", dir, "--no-wait"})

	assert.Equal(t, 1, exitCode(err))
	assert.FileExists(t, filepath.Join(dir, "one.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "three.txt"))
	assert.Contains(t, out.String(), "working directory not found")
}

func TestRun_SavesResultsAndLogs(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	outFile := filepath.Join(dir, "results.gob")
	path := writeJobList(t, dir, `
jobs:
  - name: greet
    command_line: "echo hello-log"
`)

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(), []string{
		"batchwalk", "run", "-f", path, "--root", dir, "--no-wait",
		"--out", outFile, "--log-dir", logDir,
	})

	require.NoError(t, err)
	assert.FileExists(t, outFile)

	logs, err := filepath.Glob(filepath.Join(logDir, "*", "001_greet.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	content, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "hello-log"))
}
