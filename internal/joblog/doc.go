// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package joblog writes the output of each job to its own file.
//
// Files are grouped per run:
//
//	<dir>/<run-id>/001_prepare.log
//	<dir>/<run-id>/002_TAK_MESA.log
package joblog
