// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/spf13/afero"
)

// Load reads, decodes and validates a job list.
// src is a local path or any go-getter source URL.
func Load(ctx context.Context, src string) (*List, error) {
	data, name, baseDir, err := read(ctx, src)
	if err != nil {
		return nil, err
	}

	list, err := Decode(name, data, baseDir)
	if err != nil {
		return nil, err
	}

	list.BaseDir = baseDir

	if err := list.Validate(); err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "job list loaded", "source", src, "jobs", len(list.Jobs), "baseDir", baseDir)

	return list, nil
}

// Decode picks the decoder from the file extension of name.
func Decode(name string, data []byte, baseDir string) (*List, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".hcl":
		return DecodeHCL(name, data, baseDir)
	default:
		return nil, errors.Join(ErrUnknownFormat, errors.New(name))
	}
}

// read returns the content, the file name used to pick a decoder and the
// directory relative roots resolve against.
func read(ctx context.Context, src string) ([]byte, string, string, error) {
	if src == "" {
		return nil, "", "", errors.Join(ErrGetJobList, errors.New("empty source"))
	}

	fs := FsFactory()

	if ok, _ := afero.Exists(fs, src); ok {
		abs, err := filepath.Abs(src)
		if err != nil {
			return nil, "", "", errors.Join(ErrGetJobList, err)
		}

		data, err := afero.ReadFile(fs, src)
		if err != nil {
			return nil, "", "", errors.Join(ErrGetJobList, err)
		}

		return data, src, filepath.Dir(abs), nil
	}

	data, name, err := fetch(ctx, src)
	if err != nil {
		return nil, "", "", err
	}

	return data, name, "", nil
}
