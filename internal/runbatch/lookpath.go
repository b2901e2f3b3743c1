// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// lookPath finds the executable for program.
// A program containing a path separator is resolved against cwd, the job's working
// directory, rather than the directory of the runner. Bare names are searched for on PATH.
// On Windows a bare name is looked for in cwd before PATH, as cmd.exe does.
func lookPath(program, cwd string) (string, error) {
	return findProgram(program, cwd, runtime.GOOS == goosWindows)
}

func findProgram(program, cwd string, searchCwd bool) (string, error) {
	if program == "" {
		return "", ErrCommandNotFound
	}

	if strings.ContainsAny(program, `/\`) {
		p := filepath.FromSlash(program)
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}

		for _, c := range candidates(p) {
			if isExecutable(c) {
				return c, nil
			}
		}

		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, p)
	}

	if searchCwd {
		for _, c := range candidates(filepath.Join(cwd, program)) {
			if isExecutable(c) {
				return c, nil
			}
		}
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}

		for _, c := range candidates(filepath.Join(dir, program)) {
			if isExecutable(c) {
				return c, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrCommandNotFound, program)
}

// candidates returns the file names to try for p.
// On Windows a name without an extension is tried with each extension in PATHEXT.
func candidates(p string) []string {
	if runtime.GOOS != goosWindows || filepath.Ext(p) != "" {
		return []string{p}
	}

	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".com;.exe;.bat;.cmd"
	}

	res := []string{p}
	for _, ext := range filepath.SplitList(exts) {
		if ext != "" {
			res = append(res, p+strings.ToLower(ext))
		}
	}

	return res
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	return runtime.GOOS == goosWindows || info.Mode()&0o111 != 0
}
