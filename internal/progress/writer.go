// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/matt-FFFFFF/batchwalk/internal/color"
	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
)

var _ Reporter = (*WriterReporter)(nil)

// WriterReporter prints one line per event to a writer.
// It is used when the TUI is not enabled.
type WriterReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterReporter returns a Reporter that writes event lines to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

// Report implements Reporter.
func (wr *WriterReporter) Report(event Event) {
	line := FormatEvent(event)
	if line == "" {
		return
	}

	wr.mu.Lock()
	defer wr.mu.Unlock()

	fmt.Fprintln(wr.w, line) //nolint:errcheck
}

// Close implements Reporter.
func (wr *WriterReporter) Close() {}

// FormatEvent renders an event as a single console line.
// Output events return an empty string, the job's own output is already on the console.
func FormatEvent(event Event) string {
	name := jobName(event)
	at := event.Timestamp.Format(ctxlog.TimeFormat)

	switch event.Type {
	case EventStarted:
		return fmt.Sprintf("%s Starting %s in %s", at, name, event.Data.Cwd)
	case EventProgress:
		msg := fmt.Sprintf("%s Running %s: [%s]...", at, name, event.Data.Elapsed)
		if event.Data.OutputLine != "" {
			msg += " " + color.Colorize(event.Data.OutputLine, color.Faint)
		}

		return msg
	case EventCompleted:
		return fmt.Sprintf("%s %s %s [%s]", at, color.Colorize("Finished", color.FgGreen), name, event.Data.Elapsed)
	case EventFailed:
		msg := fmt.Sprintf("%s %s %s", at, color.Colorize("Failed", color.FgRed), name)
		if event.Data.Error != nil {
			msg += ": " + event.Data.Error.Error()
		}

		return msg
	case EventSkipped:
		return fmt.Sprintf("%s %s %s", at, color.Colorize("Not run", color.FgYellow), name)
	default:
		return ""
	}
}

func jobName(event Event) string {
	name := event.Job
	if event.Step != "" {
		name += " > " + event.Step
	}

	if event.JobCount > 0 {
		return fmt.Sprintf("%03d/%03d %s", event.JobIndex+1, event.JobCount, name)
	}

	return name
}
