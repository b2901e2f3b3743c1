// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/matt-FFFFFF/batchwalk/internal/progress"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testList() *joblist.List {
	return &joblist.List{
		Name: "nightly",
		Jobs: []joblist.Job{
			{Name: "mesa", WorkingDirectory: "A", Program: "./mesa"},
			{Name: "plx", WorkingDirectory: "B", Program: "./plx"},
			{WorkingDirectory: "C", Program: "./sput"},
		},
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(context.Background(), testList())

	require.Len(t, model.jobs, 3)
	assert.Equal(t, "nightly", model.title)
	assert.Equal(t, "mesa", model.jobs[0].Name)
	assert.Equal(t, "job-003", model.jobs[2].Name)

	for _, j := range model.jobs {
		assert.Equal(t, StatusPending, j.Status)
		assert.Nil(t, j.StartTime)
	}

	assert.False(t, model.Completed())
}

func TestJobNode_SetStatus(t *testing.T) {
	node := newJobNode(0, "job")
	start := time.Now()

	node.setStatus(StatusRunning, start)
	require.NotNil(t, node.StartTime)
	assert.Nil(t, node.EndTime)

	node.setStatus(StatusSuccess, start.Add(time.Second))
	require.NotNil(t, node.EndTime)

	d, ok := node.elapsed(start.Add(time.Hour))
	assert.True(t, ok)
	assert.Equal(t, time.Second, d)
}

func TestJobNode_SetOutput(t *testing.T) {
	node := newJobNode(0, "job")

	node.setOutput("Line 1\nLine 2\nLine 3\n")
	assert.Equal(t, "Line 3", node.LastOutput)

	node.setOutput("   ")
	assert.Equal(t, "Line 3", node.LastOutput, "blank output keeps the previous line")
}

func TestModel_ProcessProgressEvent(t *testing.T) {
	model := NewModel(context.Background(), testList())
	now := time.Now()

	model.processProgressEvent(progress.Event{
		JobIndex:  0,
		Type:      progress.EventStarted,
		Timestamp: now,
		Data:      progress.EventData{Cwd: "/r/A"},
	})

	assert.Equal(t, StatusRunning, model.jobs[0].Status)
	assert.Equal(t, "/r/A", model.jobs[0].Cwd)
	assert.Equal(t, 0, model.runningLine())

	model.processProgressEvent(progress.Event{
		JobIndex: 0,
		Type:     progress.EventProgress,
		Data:     progress.EventData{OutputLine: "compiling"},
	})
	assert.Equal(t, "compiling", model.jobs[0].LastOutput)

	model.processProgressEvent(progress.Event{
		JobIndex:  0,
		Type:      progress.EventFailed,
		Timestamp: now.Add(time.Second),
		Data:      progress.EventData{Error: assert.AnError},
	})

	assert.Equal(t, StatusFailed, model.jobs[0].Status)
	assert.Contains(t, model.jobs[0].ErrorMsg, "assert.AnError")
	assert.Equal(t, -1, model.runningLine())

	model.processProgressEvent(progress.Event{JobIndex: 2, Type: progress.EventSkipped})
	assert.Equal(t, StatusNotRun, model.jobs[2].Status)

	assert.NotPanics(t, func() {
		model.processProgressEvent(progress.Event{JobIndex: 9, Type: progress.EventStarted})
	})
}

func TestModel_ProcessProgressEventSteps(t *testing.T) {
	model := NewModel(context.Background(), testList())

	model.processProgressEvent(progress.Event{JobIndex: 1, Step: "configure", Type: progress.EventStarted})
	model.processProgressEvent(progress.Event{JobIndex: 1, Step: "configure", Type: progress.EventCompleted})
	model.processProgressEvent(progress.Event{JobIndex: 1, Step: "build", Type: progress.EventStarted})

	job := model.jobs[1]
	require.Len(t, job.Steps, 2)
	assert.Equal(t, "configure", job.Steps[0].Name)
	assert.Equal(t, StatusSuccess, job.Steps[0].Status)
	assert.Equal(t, StatusRunning, job.Steps[1].Status)
	assert.Equal(t, StatusPending, job.Status)
}

func TestModel_Complete(t *testing.T) {
	model := NewModel(context.Background(), testList())

	dirErr := &runbatch.DirectoryNotFoundError{
		Job: "plx", Index: 1, Base: "/r/A", Path: "B", Resolved: "/r/A/B", Err: runbatch.ErrDirectoryNotFound,
	}

	model.complete(&runbatch.RunResult{
		Total: 3,
		Jobs: runbatch.Results{
			{Label: "mesa", Index: 0, Status: runbatch.ResultStatusSuccess},
		},
		Err: dirErr,
	})

	assert.True(t, model.Completed())
	assert.Equal(t, StatusSuccess, model.jobs[0].Status)
	assert.Equal(t, StatusFailed, model.jobs[1].Status)
	assert.Contains(t, model.jobs[1].ErrorMsg, "working directory not found")
	assert.Equal(t, StatusNotRun, model.jobs[2].Status)
}

func TestModel_View(t *testing.T) {
	model := NewModel(context.Background(), testList())
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	model.processProgressEvent(progress.Event{JobIndex: 0, Type: progress.EventStarted})

	view := model.View()
	assert.Contains(t, view, "nightly")
	assert.Contains(t, view, "0/3")
	assert.Contains(t, view, "001 mesa")
	assert.Contains(t, view, "Ctrl+C to cancel")

	model.complete(&runbatch.RunResult{
		Total: 3,
		Jobs: runbatch.Results{
			{Index: 0, Status: runbatch.ResultStatusSuccess},
			{Index: 1, Status: runbatch.ResultStatusError, ExitCode: 2, Error: runbatch.ErrJobExecution},
			{Index: 2, Status: runbatch.ResultStatusSuccess},
		},
	})

	view = model.View()
	assert.Contains(t, view, "Run completed: 1 of 3 jobs failed")
	assert.Contains(t, view, "Press Enter to exit")
}

func TestModel_KeysWhileRunning(t *testing.T) {
	model := NewModel(context.Background(), testList())

	cancelled := false
	model.SetCancel(func() { cancelled = true })

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "enter does nothing until the run completes")

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, cancelled)
	assert.True(t, model.cancelled)
	assert.Contains(t, model.View(), "Cancelling")
}

func TestModel_KeysAfterCompletion(t *testing.T) {
	model := NewModel(context.Background(), testList())
	model.complete(&runbatch.RunResult{Total: 3})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, model.View())
}

func TestModel_FollowToggle(t *testing.T) {
	model := NewModel(context.Background(), testList())
	require.True(t, model.follow)

	model.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.False(t, model.follow)

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	assert.True(t, model.follow)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestReporter(t *testing.T) {
	reporter := &Reporter{}
	event := progress.Event{JobIndex: 0, Type: progress.EventStarted}

	assert.NotPanics(t, func() { reporter.Report(event) })
	assert.NotPanics(t, func() { reporter.Close() })
	assert.NotPanics(t, func() { reporter.Report(event) })
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(ctx, testList(),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	want := &runbatch.RunResult{Total: 3}

	go func() {
		for !r.model.Completed() {
			time.Sleep(10 * time.Millisecond)
		}

		r.program.Send(tea.KeyMsg{Type: tea.KeyEnter})
	}()

	got, err := r.Run(ctx, func(_ context.Context, rep progress.Reporter) *runbatch.RunResult {
		rep.Report(progress.Event{JobIndex: 0, JobCount: 3, Type: progress.EventStarted})
		rep.Report(progress.Event{JobIndex: 0, JobCount: 3, Type: progress.EventCompleted})

		return want
	})

	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, StatusSuccess, r.model.jobs[0].Status)
}

func TestRunner_RunCancelledFromOutside(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(ctx, testList(),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	got, err := r.Run(ctx, func(ctx context.Context, _ progress.Reporter) *runbatch.RunResult {
		cancel()
		<-ctx.Done()

		return &runbatch.RunResult{Total: 3, Err: errors.Join(runbatch.ErrRunCancelled, context.Cause(ctx))}
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.ErrorIs(t, got.Err, runbatch.ErrRunCancelled)
}
