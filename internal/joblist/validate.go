// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks the list for structural problems and returns all of them at once.
// It does not touch the filesystem, see runbatch.Plan for directory checks.
func (l *List) Validate() error {
	if len(l.Jobs) == 0 {
		return errors.Join(ErrValidation, ErrNoJobs)
	}

	var result *multierror.Error

	for i := range l.Jobs {
		job := &l.Jobs[i]
		label := job.Label(i)

		if len(job.Steps) > 0 {
			if job.Program != "" || job.CommandLine != "" || len(job.Arguments) > 0 {
				result = multierror.Append(result, fmt.Errorf("job %d (%s): %w", i+1, label, ErrProgramAndSteps))
			}

			for si, step := range job.Steps {
				if err := checkCommand(step.Program, step.CommandLine); err != nil {
					result = multierror.Append(result, fmt.Errorf("job %d (%s) step %d: %w", i+1, label, si+1, err))
				}
			}

			continue
		}

		if err := checkCommand(job.Program, job.CommandLine); err != nil {
			result = multierror.Append(result, fmt.Errorf("job %d (%s): %w", i+1, label, err))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Join(ErrValidation, err)
	}

	return nil
}

func checkCommand(program, commandLine string) error {
	switch {
	case program == "" && commandLine == "":
		return ErrNoProgram
	case program != "" && commandLine != "":
		return ErrProgramAndCommandLine
	default:
		return nil
	}
}
