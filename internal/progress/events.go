// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is a single progress notification about a job in a run.
type Event struct {
	JobIndex  int       // Zero based position of the job in the list
	JobCount  int       // Number of jobs in the list
	Job       string    // Job label
	Step      string    // Step label, empty for single command jobs
	Type      EventType // What happened
	Message   string    // Human readable status message
	Timestamp time.Time // When the event occurred
	Data      EventData // Type specific data
}

// EventType identifies what an Event reports.
type EventType int

const (
	// EventStarted is sent when a job (or one of its steps) starts.
	EventStarted EventType = iota
	// EventProgress is sent periodically while a job runs.
	EventProgress
	// EventOutput carries the most recent line of output of a running job.
	EventOutput
	// EventCompleted is sent when a job finishes successfully.
	EventCompleted
	// EventFailed is sent when a job fails, could not be started, or its directory is missing.
	EventFailed
	// EventSkipped is sent for jobs that were never reached because the run halted.
	EventSkipped
)

// String returns the string representation of the EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventOutput:
		return "output"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// EventData holds the type specific part of an Event.
type EventData struct {
	OutputLine string        // Last output line, for EventOutput
	Cwd        string        // Directory the job runs in
	ExitCode   int           // Exit code, for EventCompleted and EventFailed
	Error      error         // Failure reason, for EventFailed
	Elapsed    time.Duration // Time since the job started
}

// Reporter receives progress events.
// Implementations must not block the caller.
type Reporter interface {
	Report(event Event)
	Close()
}

// Listener is notified of events forwarded by a ChannelReporter.
type Listener interface {
	OnEvent(event Event)
}

// NullReporter discards all events.
type NullReporter struct{}

// Report implements Reporter.
func (nr *NullReporter) Report(_ Event) {}

// Close implements Reporter.
func (nr *NullReporter) Close() {}

// NewNullReporter returns a Reporter that discards all events.
func NewNullReporter() Reporter {
	return &NullReporter{}
}
