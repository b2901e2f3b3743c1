// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"encoding/gob"
	"errors"
	"io"
	"time"
)

var (
	// ErrWriteGob is returned when writing the results to a binary format fails.
	ErrWriteGob = errors.New("failed to write binary results")
	// ErrReadGob is returned when reading results from a binary format fails.
	ErrReadGob = errors.New("failed to read binary results")
)

// savedError stands in for an error read back from a results file.
// Only the message survives, so errors.Is against the original sentinels does not match.
type savedError struct {
	msg string
}

func (e *savedError) Error() string { return e.msg }

// Error values are interfaces over unexported types, which gob cannot encode,
// so results are copied into these mirror types with errors flattened to strings.
type gobRunResult struct {
	Label    string
	RunID    string
	StartDir string
	Policy   FailurePolicy
	Total    int
	State    State
	Jobs     []*gobResult
	Err      string
	Started  time.Time
	Finished time.Time
}

type gobResult struct {
	Label    string
	Index    int
	Cwd      string
	ExitCode int
	Error    string
	Status   ResultStatus
	StdOut   []byte
	StdErr   []byte
	Duration time.Duration
	Children []*gobResult
}

// WriteBinary writes the run result to w in gob format.
func (r *RunResult) WriteBinary(w io.Writer) error {
	out := gobRunResult{
		Label:    r.Label,
		RunID:    r.RunID,
		StartDir: r.StartDir,
		Policy:   r.Policy,
		Total:    r.Total,
		State:    r.State,
		Jobs:     toGobResults(r.Jobs),
		Err:      errString(r.Err),
		Started:  r.Started,
		Finished: r.Finished,
	}

	if err := gob.NewEncoder(w).Encode(&out); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}

// ReadBinary reads a run result written by WriteBinary.
func ReadBinary(rd io.Reader) (*RunResult, error) {
	var in gobRunResult
	if err := gob.NewDecoder(rd).Decode(&in); err != nil {
		return nil, errors.Join(ErrReadGob, err)
	}

	return &RunResult{
		Label:    in.Label,
		RunID:    in.RunID,
		StartDir: in.StartDir,
		Policy:   in.Policy,
		Total:    in.Total,
		State:    in.State,
		Jobs:     fromGobResults(in.Jobs),
		Err:      stringError(in.Err),
		Started:  in.Started,
		Finished: in.Finished,
	}, nil
}

func toGobResults(results Results) []*gobResult {
	if results == nil {
		return nil
	}

	out := make([]*gobResult, 0, len(results))
	for _, r := range results {
		out = append(out, &gobResult{
			Label:    r.Label,
			Index:    r.Index,
			Cwd:      r.Cwd,
			ExitCode: r.ExitCode,
			Error:    errString(r.Error),
			Status:   r.Status,
			StdOut:   r.StdOut,
			StdErr:   r.StdErr,
			Duration: r.Duration,
			Children: toGobResults(r.Children),
		})
	}

	return out
}

func fromGobResults(in []*gobResult) Results {
	if in == nil {
		return nil
	}

	out := make(Results, 0, len(in))
	for _, r := range in {
		out = append(out, &Result{
			Label:    r.Label,
			Index:    r.Index,
			Cwd:      r.Cwd,
			ExitCode: r.ExitCode,
			Error:    stringError(r.Error),
			Status:   r.Status,
			StdOut:   r.StdOut,
			StdErr:   r.StdErr,
			Duration: r.Duration,
			Children: fromGobResults(r.Children),
		})
	}

	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

func stringError(s string) error {
	if s == "" {
		return nil
	}

	return &savedError{msg: s}
}
