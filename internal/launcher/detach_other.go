// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package launcher

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

// startDetached runs the copy in a new session so it outlives the invoking terminal.
func startDetached(ctx context.Context, exe string, args []string) error {
	cmd := exec.Command(exe, args...) //nolint:gosec,noctx
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err //nolint:wrapcheck
	}

	ctxlog.Debug(ctx, "detached copy started", "pid", cmd.Process.Pid)

	return cmd.Process.Release() //nolint:wrapcheck
}
