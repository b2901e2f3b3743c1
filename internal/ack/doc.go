// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ack implements the final acknowledgment wait: after the run, the operator
// presses Enter before the program exits. There is no timeout.
package ack
