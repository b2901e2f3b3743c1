// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the batchwalk command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/batchwalk"
	"github.com/matt-FFFFFF/batchwalk/cmd"
	"github.com/matt-FFFFFF/batchwalk/cmd/cmdstate"
	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/matt-FFFFFF/batchwalk/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	forward := make(chan os.Signal, 1)

	// The first signal goes to the running job, a second one stops the run.
	go signalbroker.Watch(ctx, sigCh, forward, cancel)

	ctx = cmdstate.WithSignals(ctx, forward)

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", batchwalk.Version, batchwalk.Commit)

	err := cmd.RootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
