// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launcher

import (
	"context"
	"errors"
	"slices"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

// MarkerFlag is the name of the hidden flag that marks a relaunched invocation.
const MarkerFlag = "relaunched"

// ErrRelaunch is returned when the detached copy could not be started.
var ErrRelaunch = errors.New("failed to relaunch detached")

// StartFunc starts exe with args in the background and returns without waiting for it.
type StartFunc func(ctx context.Context, exe string, args []string) error

// StartDetached is the platform StartFunc. Tests replace it to observe relaunches.
var StartDetached StartFunc = startDetached

// Launcher decides whether this invocation runs the pipeline or hands it to a detached copy.
type Launcher struct {
	Detach bool      // The job list or the command line asked for a detached run
	Marker bool      // This invocation is the relaunched copy
	Start  StartFunc // Starts the copy, StartDetached when nil
}

// Guard relaunches exe once with args plus the marker flag when Detach is set and the
// marker is absent. It reports whether a relaunch happened: when true the caller must
// exit without running any job.
func (l *Launcher) Guard(ctx context.Context, exe string, args []string) (bool, error) {
	if !l.Detach {
		ctxlog.Debug(ctx, "detach not requested, running in this process")
		return false, nil
	}

	if l.Marker {
		ctxlog.Debug(ctx, "already relaunched, running in this process")
		return false, nil
	}

	start := l.Start
	if start == nil {
		start = StartDetached
	}

	relaunchArgs := WithMarker(args)

	ctxlog.Info(ctx, "relaunching detached", "exe", exe, "args", relaunchArgs)

	if err := start(ctx, exe, relaunchArgs); err != nil {
		return false, errors.Join(ErrRelaunch, err)
	}

	return true, nil
}

// WithMarker returns a copy of args with the marker flag appended, unless it is already present.
func WithMarker(args []string) []string {
	out := slices.Clone(args)
	if HasMarker(out) {
		return out
	}

	return append(out, "--"+MarkerFlag)
}

// HasMarker reports whether args contain the marker flag.
func HasMarker(args []string) bool {
	for _, a := range args {
		switch a {
		case "--" + MarkerFlag, "-" + MarkerFlag, "--" + MarkerFlag + "=true", "-" + MarkerFlag + "=true":
			return true
		}
	}

	return false
}
