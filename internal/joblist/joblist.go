// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
)

// Step is one program invocation inside a job.
type Step struct {
	// Name is an optional label for output.
	Name string `yaml:"name,omitempty"`
	// Program is the executable to run: a path, or a name searched for in PATH.
	Program string `yaml:"program,omitempty"`
	// Arguments are passed to Program in order. Do not include the program name.
	Arguments []string `yaml:"arguments,omitempty"`
	// CommandLine is run through the platform shell instead of Program.
	CommandLine string `yaml:"command_line,omitempty"`
	// Env holds extra environment variables for this step.
	Env map[string]string `yaml:"env,omitempty"`
}

// Job is one entry of the job list.
// It holds either a single Program / CommandLine, or a list of Steps.
type Job struct {
	Name string `yaml:"name,omitempty"`
	// WorkingDirectory is resolved against the directory left by the previous job.
	// Absolute paths replace it. Empty keeps the current directory.
	WorkingDirectory string            `yaml:"working_directory,omitempty"`
	Program          string            `yaml:"program,omitempty"`
	Arguments        []string          `yaml:"arguments,omitempty"`
	CommandLine      string            `yaml:"command_line,omitempty"`
	Env              map[string]string `yaml:"env,omitempty"`
	Steps            []Step            `yaml:"steps,omitempty"`
}

// Label returns the job name, or a positional name when it has none.
func (j *Job) Label(index int) string {
	if j.Name != "" {
		return j.Name
	}

	return fmt.Sprintf("job-%03d", index+1)
}

// Commands returns the steps to run for this job, in order.
// A job without Steps yields a single step built from its own fields.
// Job environment is inherited by every step; step values win.
func (j *Job) Commands() []Step {
	if len(j.Steps) == 0 {
		return []Step{{
			Name:        j.Name,
			Program:     j.Program,
			Arguments:   slices.Clone(j.Arguments),
			CommandLine: j.CommandLine,
			Env:         maps.Clone(j.Env),
		}}
	}

	steps := make([]Step, 0, len(j.Steps))

	for i, s := range j.Steps {
		env := maps.Clone(j.Env)
		if env == nil && len(s.Env) > 0 {
			env = make(map[string]string, len(s.Env))
		}

		maps.Copy(env, s.Env)

		if s.Name == "" {
			s.Name = fmt.Sprintf("step-%d", i+1)
		}

		s.Arguments = slices.Clone(s.Arguments)
		s.Env = env
		steps = append(steps, s)
	}

	return steps
}

// List is the ordered job list for one pipeline.
type List struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	// Root is the directory the first job's working directory is resolved against.
	// A relative root is resolved against BaseDir.
	Root string `yaml:"root,omitempty"`
	// Detach asks the launcher to relaunch the run in a minimised background window.
	Detach *bool `yaml:"detach,omitempty"`
	Jobs   []Job `yaml:"jobs"`

	// BaseDir is the directory holding the job list file.
	// It is empty for lists that were fetched remotely or decoded from bytes.
	BaseDir string `yaml:"-"`
}

// Label returns the list name, or a default label.
func (l *List) Label() string {
	if l.Name == "" {
		return "Pipeline"
	}

	return l.Name
}

// DetachEnabled reports whether the list asks to be run detached.
func (l *List) DetachEnabled() bool {
	return l.Detach != nil && *l.Detach
}

// StartDir returns the directory the run starts in.
// override, when set, replaces Root and is resolved against cwd.
// A relative Root is resolved against BaseDir, or against cwd when the list
// has no BaseDir.
func (l *List) StartDir(cwd, override string) string {
	if override != "" {
		if filepath.IsAbs(override) {
			return filepath.Clean(override)
		}

		return filepath.Join(cwd, override)
	}

	base := l.BaseDir
	if base == "" {
		base = cwd
	}

	switch {
	case l.Root == "":
		return filepath.Clean(base)
	case filepath.IsAbs(l.Root):
		return filepath.Clean(l.Root)
	default:
		return filepath.Join(base, l.Root)
	}
}
