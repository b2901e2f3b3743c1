// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matt-FFFFFF/batchwalk/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{EventStarted, "started"},
		{EventProgress, "progress"},
		{EventOutput, "output"},
		{EventCompleted, "completed"},
		{EventFailed, "failed"},
		{EventSkipped, "skipped"},
		{EventType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
		})
	}
}

func TestNullReporter(t *testing.T) {
	reporter := NewNullReporter()
	require.NotNil(t, reporter)

	reporter.Report(Event{Job: "mesa", Type: EventStarted, Timestamp: time.Now()})
	reporter.Close()
}

func TestChannelReporter(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 10)
	require.NotNil(t, reporter)

	event := Event{JobIndex: 2, JobCount: 70, Job: "mesa", Type: EventStarted, Message: "started"}
	reporter.Report(event)

	select {
	case got := <-reporter.Events():
		assert.Equal(t, event, got)
	case <-time.After(time.Second):
		t.Fatal("event not received")
	}

	reporter.Close()
	reporter.Close()

	// dropped without panicking
	reporter.Report(Event{Type: EventCompleted})

	assert.Error(t, reporter.Context().Err())
}

func TestChannelReporter_BufferOverflow(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 1)

	reporter.Report(Event{Type: EventStarted, Message: "one"})
	reporter.Report(Event{Type: EventProgress, Message: "two"})

	got := <-reporter.Events()
	assert.Equal(t, "one", got.Message)

	reporter.Close()
}

type mockListener struct {
	mu     sync.Mutex
	events []Event
}

func (ml *mockListener) OnEvent(event Event) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.events = append(ml.events, event)
}

func TestChannelReporter_Listen(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 10)
	listener := &mockListener{}
	reporter.Listen(listener)

	events := []Event{
		{Type: EventStarted, Message: "Started"},
		{Type: EventProgress, Message: "Progress"},
		{Type: EventCompleted, Message: "Completed"},
	}

	for _, event := range events {
		reporter.Report(event)
	}

	// Close drains the buffered events before returning.
	reporter.Close()

	listener.mu.Lock()
	defer listener.mu.Unlock()

	require.Len(t, listener.events, len(events))

	for i, expected := range events {
		assert.Equal(t, expected.Type, listener.events[i].Type)
		assert.Equal(t, expected.Message, listener.events[i].Message)
	}
}

func TestChannelReporter_ConcurrentReportAndClose(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 4)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				reporter.Report(Event{Type: EventOutput})
			}
		}()
	}

	reporter.Close()
	wg.Wait()
}

func TestFormatEvent(t *testing.T) {
	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	ts := time.Date(2025, 6, 1, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		event    Event
		contains []string
		empty    bool
	}{
		{
			name:     "started",
			event:    Event{JobIndex: 2, JobCount: 70, Job: "mesa", Type: EventStarted, Data: EventData{Cwd: "/srv/002_MESA"}},
			contains: []string{"[03:04:05.000]", "Starting 003/070 mesa in /srv/002_MESA"},
		},
		{
			name:     "progress with output line",
			event:    Event{Job: "mesa", Type: EventProgress, Data: EventData{Elapsed: 20 * time.Second, OutputLine: "linking"}},
			contains: []string{"Running mesa: [20s]... linking"},
		},
		{
			name:     "step completed",
			event:    Event{Job: "build", Step: "compile", Type: EventCompleted, Data: EventData{Elapsed: time.Second}},
			contains: []string{"Finished build > compile [1s]"},
		},
		{
			name:     "failed",
			event:    Event{Job: "plx", Type: EventFailed, Data: EventData{Error: errors.New("exit code 2")}},
			contains: []string{"Failed plx: exit code 2"},
		},
		{
			name:     "skipped",
			event:    Event{Job: "sput", Type: EventSkipped},
			contains: []string{"Not run sput"},
		},
		{
			name:  "output is not echoed",
			event: Event{Job: "sput", Type: EventOutput, Data: EventData{OutputLine: "x"}},
			empty: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.event.Timestamp = ts
			got := FormatEvent(tc.event)

			if tc.empty {
				assert.Empty(t, got)
				return
			}

			for _, s := range tc.contains {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestWriterReporter(t *testing.T) {
	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	var buf bytes.Buffer

	wr := NewWriterReporter(&buf)
	wr.Report(Event{Job: "a", Type: EventStarted, Data: EventData{Cwd: "/r"}})
	wr.Report(Event{Job: "a", Type: EventOutput, Data: EventData{OutputLine: "ignored"}})
	wr.Report(Event{Job: "a", Type: EventCompleted})
	wr.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Starting a in /r")
	assert.Contains(t, lines[1], "Finished a")
}
