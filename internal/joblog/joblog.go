// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrCreateLogDir is returned when the run log directory cannot be created.
	ErrCreateLogDir = errors.New("failed to create log directory")
	// ErrCreateLogFile is returned when a job log file cannot be created.
	ErrCreateLogFile = errors.New("failed to create log file")
)

// FsFactory creates the file system logs are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Store creates one log file per job under Dir/RunID.
type Store struct {
	Dir   string
	RunID string
	fs    afero.Fs
	now   func() time.Time
}

// New returns a Store for a run. An empty runID gets a new UUID.
func New(dir, runID string) *Store {
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Store{
		Dir:   dir,
		RunID: runID,
		fs:    FsFactory(),
		now:   time.Now,
	}
}

// RunDir returns the directory holding the logs of this run.
func (s *Store) RunDir() string {
	return filepath.Join(s.Dir, s.RunID)
}

// Path returns the log file path for a job.
func (s *Store) Path(index int, label string) string {
	return filepath.Join(s.RunDir(), fmt.Sprintf("%03d_%s.log", index+1, sanitize(label)))
}

// Open creates the log file for a job and writes a short header to it.
func (s *Store) Open(index int, label string) (io.WriteCloser, error) {
	if err := s.fs.MkdirAll(s.RunDir(), dirPerm); err != nil {
		return nil, errors.Join(ErrCreateLogDir, err)
	}

	path := s.Path(index, label)

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, errors.Join(ErrCreateLogFile, err)
	}

	if _, err := fmt.Fprintf(f, "# job %d: %s\n# run %s started %s\n", index+1, label, s.RunID, s.now().Format(time.RFC3339)); err != nil {
		_ = f.Close()
		return nil, errors.Join(ErrCreateLogFile, err)
	}

	return f, nil
}

// sanitize keeps letters, digits, dash, dot and underscore so the label is safe in a file name.
func sanitize(name string) string {
	var sb strings.Builder

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('_')
		}
	}

	clean := strings.Trim(sb.String(), ".")
	if clean == "" {
		return "job"
	}

	return clean
}
