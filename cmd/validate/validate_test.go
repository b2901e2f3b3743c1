// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package validate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/batchwalk/internal/color"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestMain(m *testing.M) {
	color.SetEnabled(false)
	os.Exit(m.Run())
}

func newTestRoot(out *bytes.Buffer) *cli.Command {
	return &cli.Command{
		Name:           "batchwalk",
		Commands:       []*cli.Command{NewValidateCmd()},
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
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

const jobList = `
name: chain
jobs:
  - name: first
    working_directory: A
    program: ./first
  - name: second
    working_directory: B
    program: ./second
  - name: third
    working_directory: C
    program: ./third
`

func TestValidate_ValidChain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(jobList), 0o600))

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/A/B/C", 0o755))

	stubs := gostub.Stub(&runbatch.FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(), []string{"batchwalk", "validate", "-f", path, "--root", "/r"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "chain from /r")
	assert.Contains(t, out.String(), "001 first /r/A")
	assert.Contains(t, out.String(), "002 second /r/A/B")
	assert.Contains(t, out.String(), "003 third /r/A/B/C")
}

func TestValidate_ReportsEveryMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(jobList), 0o600))

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/r/A", 0o755))

	stubs := gostub.Stub(&runbatch.FsFactory, func() afero.Fs { return fs })
	defer stubs.Reset()

	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(), []string{"batchwalk", "validate", "-f", path, "--root", "/r"})

	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out.String(), "✗ 002 second /r/A/B")
	assert.Contains(t, out.String(), "✗ 003 third /r/A/B/C")
}

func TestValidate_NoFile(t *testing.T) {
	out := new(bytes.Buffer)
	err := newTestRoot(out).Run(context.Background(), []string{"batchwalk", "validate"})

	assert.Equal(t, 1, exitCode(err))
}
