// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDir(t *testing.T) {
	fs := memFs(t, "/root/X", "/root/A", "/root/A/sub", "/opt")
	require.NoError(t, afero.WriteFile(fs, "/root/A/file.txt", []byte("x"), 0o644))

	tests := []struct {
		name     string
		current  string
		wd       string
		expected string
		errIs    error
	}{
		{name: "empty keeps current", current: "/root/X", wd: "", expected: "/root/X"},
		{name: "dot keeps current", current: "/root/X", wd: ".", expected: "/root/X"},
		{name: "relative child", current: "/root/A", wd: "sub", expected: "/root/A/sub"},
		{name: "relative sibling", current: "/root/X", wd: "../A", expected: "/root/A"},
		{name: "trailing slash", current: "/root/X", wd: "../A/", expected: "/root/A"},
		{name: "absolute replaces", current: "/root/X", wd: "/opt", expected: "/opt"},
		{name: "missing", current: "/root/X", wd: "../B", errIs: ErrDirectoryNotFound},
		{name: "file", current: "/root/A", wd: "file.txt", errIs: ErrNotADirectory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveDir(fs, tc.current, tc.wd)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				require.ErrorIs(t, err, ErrDirectoryNotFound)
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestResolveDir_ComposesOntoPreviousResult(t *testing.T) {
	fs := memFs(t, "/root/X", "/root/A", "/root/B")

	first, err := ResolveDir(fs, "/root/X", "../A/")
	require.NoError(t, err)

	second, err := ResolveDir(fs, first, "../B/")
	require.NoError(t, err)

	assert.Equal(t, "/root/A", first)
	assert.Equal(t, "/root/B", second)
}

func TestDirectoryNotFoundError_Message(t *testing.T) {
	_, err := ResolveDir(memFs(t, "/r"), "/r", "gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"gone" resolved from "/r" to "/r/gone"`)

	var dnf *DirectoryNotFoundError
	require.ErrorAs(t, err, &dnf)

	dnf.Job = "mesa"
	dnf.Index = 2
	assert.Contains(t, dnf.Error(), "job 3 (mesa)")
}

func TestNewRunner_UsesFsFactory(t *testing.T) {
	fs := memFs(t, "/stubbed")
	stubs := gostub.StubFunc(&FsFactory, fs)
	defer stubs.Reset()

	r := NewRunner(&fakeExecutor{})

	got, err := ResolveDir(r.Fs, "/", "stubbed")
	require.NoError(t, err)
	assert.Equal(t, "/stubbed", got)
}
