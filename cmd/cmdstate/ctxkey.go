// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate carries process-wide state from main into the subcommands.
// The CLI framework only passes a context to actions, so the state travels in it.
package cmdstate

import (
	"context"
	"os"
)

type signalsKey struct{}

// WithSignals returns a context carrying the channel of signals to forward to running jobs.
func WithSignals(ctx context.Context, ch <-chan os.Signal) context.Context {
	return context.WithValue(ctx, signalsKey{}, ch)
}

// Signals returns the forwarding channel stored by WithSignals, or nil.
func Signals(ctx context.Context) <-chan os.Signal {
	ch, _ := ctx.Value(signalsKey{}).(<-chan os.Signal)
	return ch
}
