// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides an io.Reader wrapper that remembers the last complete
// line and a bounded tail of everything read through it.
// The runner uses it on child process pipes so that progress output can show what a
// long running job printed most recently, and so that a failed job can show the end
// of its stderr without holding the whole stream in memory.
package teereader
