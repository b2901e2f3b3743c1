// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
)

// FailurePolicy decides what the runner does after a job fails.
type FailurePolicy int

const (
	// PolicyContinue records the failure and runs the next job. This is the default.
	PolicyContinue FailurePolicy = iota
	// PolicyAbort stops the run after the first failed job.
	PolicyAbort
)

const (
	policyContinueStr = "continue"
	policyAbortStr    = "abort"
	policyUnknownStr  = "unknown"
)

var (
	// ErrFailurePolicyUnknown is returned when an unknown FailurePolicy value is encountered.
	ErrFailurePolicyUnknown = errors.New("unknown failure policy value")
)

// String returns the string representation of the FailurePolicy.
func (p FailurePolicy) String() string {
	switch p {
	case PolicyContinue:
		return policyContinueStr
	case PolicyAbort:
		return policyAbortStr
	default:
		return policyUnknownStr
	}
}

// NewFailurePolicy creates a FailurePolicy from a string. The empty string is PolicyContinue.
func NewFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", policyContinueStr:
		return PolicyContinue, nil
	case policyAbortStr:
		return PolicyAbort, nil
	default:
		return FailurePolicy(-1), ErrFailurePolicyUnknown
	}
}

// FailurePolicyNames lists the accepted policy names.
func FailurePolicyNames() []string {
	return []string{policyContinueStr, policyAbortStr}
}
