// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/matt-FFFFFF/batchwalk/internal/progress"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
)

// JobStatus represents the current state of a job in the TUI.
type JobStatus int

const (
	StatusPending JobStatus = iota
	StatusRunning
	StatusSuccess
	StatusFailed
	StatusNotRun
)

// String returns a string representation of the job status.
func (s JobStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusNotRun:
		return "not-run"
	default:
		return "unknown"
	}
}

// JobNode is one job, or one step of a job, in the list.
type JobNode struct {
	Index      int
	Name       string
	Cwd        string
	Status     JobStatus
	StartTime  *time.Time
	EndTime    *time.Time
	LastOutput string
	ErrorMsg   string
	Steps      []*JobNode
}

func newJobNode(index int, name string) *JobNode {
	return &JobNode{Index: index, Name: name, Status: StatusPending}
}

func (n *JobNode) setStatus(status JobStatus, at time.Time) {
	n.Status = status

	switch status {
	case StatusRunning:
		if n.StartTime == nil {
			n.StartTime = &at
		}
	case StatusSuccess, StatusFailed:
		if n.StartTime == nil {
			n.StartTime = &at
		}

		if n.EndTime == nil {
			n.EndTime = &at
		}
	}
}

func (n *JobNode) setOutput(output string) {
	output = strings.TrimSpace(output)
	if output == "" {
		return
	}

	lines := strings.Split(output, "\n")
	n.LastOutput = strings.TrimSpace(lines[len(lines)-1])
}

func (n *JobNode) step(name string) *JobNode {
	for _, s := range n.Steps {
		if s.Name == name {
			return s
		}
	}

	s := newJobNode(n.Index, name)
	n.Steps = append(n.Steps, s)

	return s
}

// elapsed returns the running or final duration of the node.
func (n *JobNode) elapsed(now time.Time) (time.Duration, bool) {
	if n.StartTime == nil {
		return 0, false
	}

	if n.EndTime != nil {
		return n.EndTime.Sub(*n.StartTime), true
	}

	return now.Sub(*n.StartTime), true
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc // Cancels the run on Ctrl+C, may be nil
	title     string
	jobs      []*JobNode
	width     int
	height    int
	quitting  bool
	completed bool
	cancelled bool
	result    *runbatch.RunResult
	follow    bool // Keep the running job in view
	spinner   spinner.Model
	viewport  viewport.Model
	styles    *Styles
	now       func() time.Time
	mutex     sync.RWMutex
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	NotRun  lipgloss.Style
	Output  lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		NotRun: lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// NewModel creates a model listing every job of list as pending.
func NewModel(ctx context.Context, list *joblist.List) *Model {
	jobs := make([]*JobNode, 0, len(list.Jobs))
	for i := range list.Jobs {
		jobs = append(jobs, newJobNode(i, list.Jobs[i].Label(i)))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:      ctx,
		title:    list.Label(),
		jobs:     jobs,
		follow:   true,
		spinner:  sp,
		viewport: viewport.New(defaultWidth, defaultHeight),
		styles:   NewStyles(),
		now:      time.Now,
	}
}

// SetCancel sets the function called when the operator interrupts the run.
func (m *Model) SetCancel(cancel context.CancelFunc) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.cancel = cancel
}

// Completed reports whether the run has finished.
func (m *Model) Completed() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.completed
}

// processProgressEvent applies a progress event to the job list.
func (m *Model) processProgressEvent(event progress.Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if event.JobIndex < 0 || event.JobIndex >= len(m.jobs) {
		return
	}

	at := event.Timestamp
	if at.IsZero() {
		at = m.now()
	}

	node := m.jobs[event.JobIndex]
	if event.Step != "" {
		node = node.step(event.Step)
	}

	if event.Data.Cwd != "" {
		node.Cwd = event.Data.Cwd
	}

	switch event.Type {
	case progress.EventStarted:
		node.setStatus(StatusRunning, at)
	case progress.EventProgress, progress.EventOutput:
		node.setOutput(event.Data.OutputLine)
	case progress.EventCompleted:
		node.setStatus(StatusSuccess, at)
	case progress.EventFailed:
		node.setStatus(StatusFailed, at)

		if event.Data.Error != nil {
			node.ErrorMsg = event.Data.Error.Error()
		}
	case progress.EventSkipped:
		node.setStatus(StatusNotRun, at)
	}
}

// complete records the final result of the run.
func (m *Model) complete(result *runbatch.RunResult) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.completed = true
	m.result = result

	if result == nil {
		return
	}

	// Final results carry the specific errors, events may have been dropped.
	for _, r := range result.Jobs {
		if r.Index < 0 || r.Index >= len(m.jobs) {
			continue
		}

		node := m.jobs[r.Index]
		if r.Failed() {
			node.Status = StatusFailed
			if r.Error != nil {
				node.ErrorMsg = r.Error.Error()
			}
		} else {
			node.Status = StatusSuccess
		}
	}

	var dnf *runbatch.DirectoryNotFoundError
	if errors.As(result.Err, &dnf) && dnf.Index >= 0 && dnf.Index < len(m.jobs) {
		m.jobs[dnf.Index].Status = StatusFailed
		m.jobs[dnf.Index].ErrorMsg = dnf.Error()
	}

	for _, node := range m.jobs[min(result.Attempted(), len(m.jobs)):] {
		if node.Status == StatusPending || node.Status == StatusRunning {
			node.Status = StatusNotRun
		}
	}
}

// runningLine returns the index of the first running job, or -1.
func (m *Model) runningLine() int {
	for i, j := range m.jobs {
		if j.Status == StatusRunning {
			return i
		}
	}

	return -1
}
