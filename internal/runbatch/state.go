// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

// State is the mutable state of a single run.
// It is created when the run starts, updated once per job and returned in the RunResult.
type State struct {
	CurrentDirectory string // Directory the most recent job ran in, or the start directory
	JobIndex         int    // Number of jobs attempted so far
	LastExitStatus   int    // Exit code of the most recently completed job
}

// Phase is a step in the lifecycle of one batchwalk invocation.
type Phase int

const (
	// PhaseNotStarted is the initial phase.
	PhaseNotStarted Phase = iota
	// PhaseRelaunching is entered when the invocation starts a detached copy of itself.
	PhaseRelaunching
	// PhaseRunning is entered when the job list starts executing.
	PhaseRunning
	// PhaseAwaitingAck is entered when the run has finished and the operator is asked to acknowledge.
	PhaseAwaitingAck
	// PhaseTerminated is the final phase.
	PhaseTerminated
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRelaunching:
		return "relaunching"
	case PhaseRunning:
		return "running"
	case PhaseAwaitingAck:
		return "awaiting-ack"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ErrInvalidPhaseTransition is returned by Lifecycle.Advance for a transition that is not allowed.
var ErrInvalidPhaseTransition = errors.New("invalid phase transition")

var phaseTransitions = map[Phase][]Phase{
	PhaseNotStarted:  {PhaseRelaunching, PhaseRunning, PhaseTerminated},
	PhaseRelaunching: {PhaseTerminated},
	PhaseRunning:     {PhaseAwaitingAck, PhaseTerminated},
	PhaseAwaitingAck: {PhaseTerminated},
}

// Lifecycle tracks the Phase of an invocation and logs every transition.
// The zero value is in PhaseNotStarted.
type Lifecycle struct {
	mu    sync.Mutex
	phase Phase
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.phase
}

// Advance moves to the next phase, returning ErrInvalidPhaseTransition when next cannot follow the current phase.
func (l *Lifecycle) Advance(ctx context.Context, next Phase) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, allowed := range phaseTransitions[l.phase] {
		if allowed == next {
			ctxlog.Debug(ctx, "phase transition", "from", l.phase.String(), "to", next.String())
			l.phase = next

			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidPhaseTransition, l.phase, next)
}
