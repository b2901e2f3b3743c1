// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

// Watch reads sigCh and calls cancel on the second signal of any given type.
// Every signal is also passed on to forward, if it is non-nil, without blocking.
// Watch returns when sigCh is closed, ctx is done, or cancel has been called.
func Watch(ctx context.Context, sigCh <-chan os.Signal, forward chan<- os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if forward != nil {
				select {
				case forward <- sig:
				default:
				}
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Warn(ctx, "second signal received, stopping the pipeline", "signal", sig.String())
				cancel()

				return
			}

			ctxlog.Info(ctx, "signal received, passing it to the running job", "signal", sig.String())

			seen[sig] = struct{}{}
		}
	}
}
