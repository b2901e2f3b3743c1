// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package launcher

import (
	"context"
	"os/exec"
	"slices"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

// startDetached runs the copy in a new minimised console window.
func startDetached(ctx context.Context, exe string, args []string) error {
	cmdArgs := slices.Concat([]string{"/C", "start", "", "/MIN", exe}, args)
	cmd := exec.Command("cmd.exe", cmdArgs...) //nolint:gosec,noctx

	if err := cmd.Start(); err != nil {
		return err //nolint:wrapcheck
	}

	ctxlog.Debug(ctx, "detached copy started", "pid", cmd.Process.Pid)

	return cmd.Process.Release() //nolint:wrapcheck
}
