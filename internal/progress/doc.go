// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries job lifecycle events from the runner to whatever is
// displaying them: plain console lines, the interactive TUI, or nothing at all.
// Reporting never blocks the runner.
package progress
