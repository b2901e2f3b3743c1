// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import "github.com/spf13/afero"

// FsFactory returns the filesystem local job lists are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
