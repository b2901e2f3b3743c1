// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"io"
	"os"
	"slices"
	"time"
)

// ResultStatus is the outcome of a job or step.
type ResultStatus int

const (
	// ResultStatusUnknown is the zero value and is never produced by the runner.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the process exited with code zero.
	ResultStatusSuccess
	// ResultStatusError means the process exited non-zero or was interrupted.
	ResultStatusError
	// ResultStatusNotStarted means the process could not be launched.
	ResultStatusNotStarted
)

// String returns the string representation of the ResultStatus.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusNotStarted:
		return "not-started"
	default:
		return "unknown"
	}
}

// Result is the outcome of running a job, or one step of a job.
type Result struct {
	Label    string        // Job or step label
	Index    int           // Position of the job in the list
	Cwd      string        // Directory the process ran in
	ExitCode int           // Exit code, -1 when the process did not start or was killed
	Error    error         // *JobExecutionError when the job failed
	Status   ResultStatus  // Outcome
	StdOut   []byte        // Tail of stdout
	StdErr   []byte        // Tail of stderr
	Duration time.Duration // Wall time of the job
	Children Results       // Step results for jobs with steps
}

// Failed reports whether the result is not a success.
func (r *Result) Failed() bool {
	return r.Status != ResultStatusSuccess
}

// Results is a slice of Result pointers.
type Results []*Result

// HasError reports whether any result, or any child result, failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Failed() || v.Error != nil {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// RunResult summarises one run of a job list.
type RunResult struct {
	Label    string        // Job list name
	RunID    string        // Unique identifier of the run
	StartDir string        // Directory the first job was resolved against
	Policy   FailurePolicy // Failure policy in force
	Total    int           // Number of jobs in the list
	State    State         // Final state
	Jobs     Results       // One result per attempted job, in order
	Err      error         // Error that halted the run, nil when every job was attempted
	Started  time.Time
	Finished time.Time
}

// Attempted returns the number of jobs that were attempted.
func (r *RunResult) Attempted() int {
	return len(r.Jobs)
}

// Failed returns the results of the jobs that did not succeed.
func (r *RunResult) Failed() Results {
	var failed Results

	for _, j := range r.Jobs {
		if j.Failed() {
			failed = append(failed, j)
		}
	}

	return failed
}

// HasFailures reports whether any attempted job failed.
func (r *RunResult) HasFailures() bool {
	return r.Jobs.HasError()
}

// Halted reports whether the run stopped before attempting every job.
func (r *RunResult) Halted() bool {
	return r.Err != nil
}

// Duration returns the wall time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Print outputs the result to stdout with default options.
func (r *RunResult) Print() error {
	return r.WriteText(os.Stdout, nil)
}

// Write outputs the result to the specified writer with default options.
func (r *RunResult) Write(w io.Writer) error {
	return r.WriteText(w, nil)
}
