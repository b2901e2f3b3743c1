// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/batchwalk/internal/progress"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
)

const (
	defaultWidth                = 80
	defaultHeight               = 20
	minViewportWidth            = 20
	minStatusBarAvailableHeight = 10
	reservedLines               = 7 // title, border, status bar and help
	durationRounding            = 100 * time.Millisecond
	ellipsis                    = "..."
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// RunCompletedMsg indicates that the run has finished.
type RunCompletedMsg struct {
	Result *runbatch.RunResult
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mutex.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSize()
		m.mutex.Unlock()

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.mutex.Lock()
		m.spinner, cmd = m.spinner.Update(msg)
		m.mutex.Unlock()

		return m, cmd

	case ProgressEventMsg:
		m.processProgressEvent(msg.Event)
		return m, nil

	case RunCompletedMsg:
		m.complete(msg.Result)
		return m, nil
	}

	var cmd tea.Cmd

	m.mutex.Lock()
	m.viewport, cmd = m.viewport.Update(msg)
	m.mutex.Unlock()

	return m, cmd
}

// handleKeyPress processes keyboard input.
// Once the run has completed, Enter or q acknowledges it and quits.
// While it runs, Ctrl+C cancels the run and other keys scroll.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch msg.String() {
	case "enter", "q", "esc":
		if m.completed {
			m.quitting = true
			return m, tea.Quit
		}

		return m, nil
	case "ctrl+c":
		if m.completed {
			m.quitting = true
			return m, tea.Quit
		}

		if !m.cancelled && m.cancel != nil {
			m.cancelled = true
			m.cancel()
		}

		return m, nil
	case "f":
		m.follow = !m.follow
		return m, nil
	}

	m.follow = false

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// updateViewportSize must be called with the lock held.
func (m *Model) updateViewportSize() {
	w := m.width - 2 //nolint:mnd // border
	if w < minViewportWidth {
		w = minViewportWidth
	}

	h := m.height - reservedLines
	if h < 1 {
		h = 1
	}

	m.viewport.Width = w
	m.viewport.Height = h
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	var content strings.Builder

	for _, job := range m.jobs {
		m.renderJob(&content, job)
	}

	if m.completed {
		content.WriteString("\n")
		content.WriteString(m.renderCompletion())
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())

	if m.follow {
		if line := m.runningLine(); line >= 0 {
			m.viewport.SetYOffset(max(0, line-m.viewport.Height/2)) //nolint:mnd
		} else if m.completed {
			m.viewport.GotoBottom()
		}
	}

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("batchwalk: " + m.title))
	view.WriteString(m.styles.Help.Render(fmt.Sprintf("  %d/%d", m.finishedCount(), len(m.jobs))))
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height == 0 || m.height > minStatusBarAvailableHeight {
		view.WriteString("\n")
		view.WriteString(m.styles.Help.Render(m.helpText()))
	}

	return view.String()
}

func (m *Model) helpText() string {
	switch {
	case m.completed:
		return "Run finished. Press Enter to exit, ↑/↓ to scroll."
	case m.cancelled:
		return "Cancelling: the running job is being stopped..."
	default:
		return "↑/↓ or j/k to scroll, f to follow the running job, Ctrl+C to cancel the run"
	}
}

func (m *Model) finishedCount() int {
	n := 0

	for _, j := range m.jobs {
		if j.Status == StatusSuccess || j.Status == StatusFailed {
			n++
		}
	}

	return n
}

func (m *Model) renderCompletion() string {
	r := m.result

	switch {
	case r == nil:
		return m.styles.Failed.Render("Run finished without a result")
	case r.Halted():
		return m.styles.Failed.Render(fmt.Sprintf(
			"Run halted after %d of %d jobs: %s", r.Attempted(), r.Total, r.Err.Error(),
		))
	case r.HasFailures():
		return m.styles.Failed.Render(fmt.Sprintf(
			"Run completed: %d of %d jobs failed", len(r.Failed()), r.Total,
		))
	default:
		return m.styles.Success.Render(fmt.Sprintf("Run completed: all %d jobs succeeded", r.Total))
	}
}

// renderJob writes a job line followed by its steps.
func (m *Model) renderJob(b *strings.Builder, job *JobNode) {
	m.renderLine(b, job, fmt.Sprintf("%03d ", job.Index+1))

	for i, step := range job.Steps {
		connector := "    ├ "
		if i == len(job.Steps)-1 {
			connector = "    └ "
		}

		m.renderLine(b, step, connector)
	}
}

func (m *Model) renderLine(b *strings.Builder, node *JobNode, prefix string) {
	var icon string

	style := m.styles.Pending

	switch node.Status {
	case StatusPending:
		icon = "·"
	case StatusRunning:
		icon = m.spinner.View()
		style = m.styles.Running
	case StatusSuccess:
		icon = "✓"
		style = m.styles.Success
	case StatusFailed:
		icon = "✗"
		style = m.styles.Failed
	case StatusNotRun:
		icon = "-"
		style = m.styles.NotRun
	}

	left := prefix + node.Name
	if d, ok := node.elapsed(m.now()); ok {
		left += fmt.Sprintf(" (%v)", d.Round(durationRounding))
	}

	var right string

	switch {
	case node.Status == StatusFailed && node.ErrorMsg != "":
		right = m.styles.Error.Render(truncate(node.ErrorMsg, m.rightWidth()))
	case node.Status == StatusRunning && node.LastOutput != "":
		right = m.styles.Output.Render(truncate(node.LastOutput, m.rightWidth()))
	case node.Status == StatusRunning && node.Cwd != "":
		right = m.styles.Pending.Render(truncate(node.Cwd, m.rightWidth()))
	}

	leftWidth := m.leftWidth()
	left = truncate(left, leftWidth)
	padded := left + strings.Repeat(" ", max(0, leftWidth-lipgloss.Width(left)))

	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(style.Render(padded))
	b.WriteString(right)
	b.WriteString("\n")
}

func (m *Model) leftWidth() int {
	return max(minViewportWidth, m.viewport.Width-2) / 2 //nolint:mnd
}

func (m *Model) rightWidth() int {
	return max(minViewportWidth, m.viewport.Width-2) - m.leftWidth()
}

// truncate shortens s to at most width runes, ending in an ellipsis when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	if width <= len(ellipsis) {
		return string(runes[:width])
	}

	return string(runes[:width-len(ellipsis)]) + ellipsis
}
