// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// FsFactory creates the file system used to check working directories.
// Tests replace it with an in-memory file system.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ResolveDir resolves wd against current and checks that the result is an existing directory.
// An empty wd keeps the current directory, an absolute wd replaces it.
// Resolution composes: resolving "../A" then "../B" from "/root/X" gives "/root/A" then "/root/B".
func ResolveDir(fs afero.Fs, current, wd string) (string, error) {
	next := joinDir(current, wd)

	info, err := fs.Stat(next)
	if err != nil {
		return "", &DirectoryNotFoundError{Base: current, Path: wd, Resolved: next, Err: err}
	}

	if !info.IsDir() {
		return "", &DirectoryNotFoundError{Base: current, Path: wd, Resolved: next, Err: ErrNotADirectory}
	}

	return next, nil
}

func joinDir(current, wd string) string {
	if wd == "" {
		return filepath.Clean(current)
	}

	wd = filepath.FromSlash(wd)
	if filepath.IsAbs(wd) {
		return filepath.Clean(wd)
	}

	return filepath.Join(current, wd)
}
