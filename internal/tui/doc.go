// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a terminal user interface for following a run.
// It lists every job with its status, and shows the last output line of the running job.
// When the run finishes the summary screen stays up until the operator presses Enter,
// which is the acknowledgment of the run.
package tui
