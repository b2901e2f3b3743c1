// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package joblist defines the declarative job list that a pipeline run walks,
// and loads it from YAML or HCL files, local or remote.
//
// A job list is an ordered set of jobs. Each job names a working directory,
// which is resolved relative to the directory left by the previous job, and
// either a single program or a list of steps to run there.
//
// A minimal YAML job list:
//
//	name: nightly
//	detach: true
//	jobs:
//	  - name: mesa
//	    working_directory: 002_MESA
//	    program: python
//	    arguments: [002_MESA.py]
//	  - name: plx
//	    working_directory: ../049_TAK_PLX
//	    steps:
//	      - program: python
//	        arguments: [049_TAK_PLX.py]
//	      - command_line: python 049_TAK_PLX_C.py --all
//
// The same list in HCL:
//
//	name   = "nightly"
//	detach = true
//
//	job "mesa" {
//	  working_directory = "002_MESA"
//	  program           = "python"
//	  arguments         = ["002_MESA.py"]
//	}
package joblist
