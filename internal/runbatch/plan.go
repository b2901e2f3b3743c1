// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/spf13/afero"
)

// PlannedJob is the directory a job would run in.
type PlannedJob struct {
	Index int
	Label string
	Dir   string
	Err   error // *DirectoryNotFoundError when Dir does not exist
}

// Plan walks the directory chain of list from startDir without running anything.
// Unlike Run it does not stop at a missing directory: the walk carries on from the
// unresolved path so that every problem is reported. The returned error aggregates
// all of them.
func Plan(fs afero.Fs, list *joblist.List, startDir string) ([]PlannedJob, error) {
	current := filepath.Clean(startDir)
	plan := make([]PlannedJob, 0, len(list.Jobs))

	var errs *multierror.Error

	for i := range list.Jobs {
		job := &list.Jobs[i]
		label := job.Label(i)

		dir, err := ResolveDir(fs, current, job.WorkingDirectory)
		if err != nil {
			var dnf *DirectoryNotFoundError
			if errors.As(err, &dnf) {
				dnf.Job = label
				dnf.Index = i
			}

			dir = joinDir(current, job.WorkingDirectory)
			errs = multierror.Append(errs, err)
		}

		plan = append(plan, PlannedJob{Index: i, Label: label, Dir: dir, Err: err})
		current = dir
	}

	return plan, errs.ErrorOrNil()
}
