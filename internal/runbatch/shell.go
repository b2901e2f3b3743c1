// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

const (
	goosWindows          = "windows"    // GOOS value for Windows from the runtime package.
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // Directory where cmd.exe is located on Windows.
	cmdExe               = "cmd.exe"    // Command interpreter executable on Windows.
	binSh                = "/bin/sh"    // Default shell for Unix-like systems.
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory.
)

// shellArgv returns the path and arguments that run commandLine with the default shell.
func shellArgv(ctx context.Context, commandLine string) (string, []string) {
	if runtime.GOOS == goosWindows {
		return defaultShell(ctx), []string{commandSwitchWindows, commandLine}
	}

	return defaultShell(ctx), []string{commandSwitchUnix, commandLine}
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == goosWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}
