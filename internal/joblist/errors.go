// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import "errors"

var (
	// ErrInvalidYaml is returned when a YAML job list cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML job list")
	// ErrInvalidHcl is returned when an HCL job list cannot be parsed or decoded.
	ErrInvalidHcl = errors.New("invalid HCL job list")
	// ErrUnknownFormat is returned when the file extension is not a supported job list format.
	ErrUnknownFormat = errors.New("unknown job list format, expected .yaml, .yml or .hcl")
	// ErrNoJobs is returned when a job list contains no jobs.
	ErrNoJobs = errors.New("job list contains no jobs")
	// ErrValidation wraps every problem found by List.Validate.
	ErrValidation = errors.New("job list is not valid")
	// ErrNoProgram is returned for a job or step that has nothing to run.
	ErrNoProgram = errors.New("no program or command_line specified")
	// ErrProgramAndCommandLine is returned when both program and command_line are set.
	ErrProgramAndCommandLine = errors.New("program and command_line are mutually exclusive")
	// ErrProgramAndSteps is returned when a job sets both its own program and steps.
	ErrProgramAndSteps = errors.New("a job with steps cannot also set program, arguments or command_line")
	// ErrGetJobList is returned when the job list cannot be fetched.
	ErrGetJobList = errors.New("failed to get job list")
)
