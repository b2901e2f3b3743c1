// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs a job list strictly in order, one operating system process at a time.
//
// The working directory is a value threaded through the run: each job's directory is
// resolved against the directory of the job before it and handed to the child process.
// The runner never changes the working directory of the current process.
//
// A job that fails is recorded and the run carries on with the next job, unless the
// abort policy is selected. A working directory that does not exist halts the run.
package runbatch
