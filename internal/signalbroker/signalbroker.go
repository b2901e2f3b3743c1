// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker relays termination signals to the running job.
//
// The first interrupt is forwarded to the child process so a collaborator script
// can clean up. A second interrupt of the same type cancels the run context, which
// kills the child and stops the pipeline before the next job.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// New subscribes to sigs, or to the termination signals when none are given.
// The returned channel is unsubscribed when ctx is done.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	go func() {
		<-ctx.Done()
		signal.Stop(ch)
	}()

	return ch
}
