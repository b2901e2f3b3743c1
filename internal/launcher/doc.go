// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package launcher implements the relaunch guard.
//
// When a job list asks to be detached, the first invocation starts one copy of itself
// in the background with a marker flag added, then exits without running any job.
// The marked copy sees the marker and runs the pipeline. The guard is idempotent: an
// invocation that already carries the marker never relaunches.
//
// On Windows the copy is started minimised with "cmd.exe /C start /MIN", elsewhere it is
// started in a new session so it survives the invoking terminal.
package launcher
