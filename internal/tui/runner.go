// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/batchwalk/internal/joblist"
	"github.com/matt-FFFFFF/batchwalk/internal/progress"
	"github.com/matt-FFFFFF/batchwalk/internal/runbatch"
	"golang.org/x/sync/errgroup"
)

// eventBufferSize bounds the events queued between the pipeline and the TUI.
const eventBufferSize = 256

// ErrInterrupted is the cancellation cause when the operator stops the run from the TUI.
var ErrInterrupted = errors.New("run interrupted from the terminal")

// RunFunc runs the pipeline, reporting progress to reporter.
type RunFunc func(ctx context.Context, reporter progress.Reporter) *runbatch.RunResult

// Runner manages the TUI application and progress event integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
}

var (
	_ progress.Reporter = (*Reporter)(nil)
	_ progress.Listener = (*Reporter)(nil)
)

// Reporter implements progress.Reporter and progress.Listener, forwarding events to the TUI.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewReporter creates a new TUI progress reporter.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Report implements progress.Reporter.Report.
func (tr *Reporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(ProgressEventMsg{Event: event})
}

// OnEvent implements progress.Listener.
func (tr *Reporter) OnEvent(event progress.Event) {
	tr.Report(event)
}

// Close implements progress.Reporter.Close.
func (tr *Reporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	tr.closed = true
}

// NewRunner creates a TUI runner for list. The program uses the alternate screen and
// exits when ctx is cancelled. Extra options are applied after the defaults.
func NewRunner(ctx context.Context, list *joblist.List, opts ...tea.ProgramOption) *Runner {
	model := NewModel(ctx, list)
	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, options...)

	return &Runner{
		model:    model,
		program:  program,
		reporter: NewReporter(program),
	}
}

// Run shows the TUI while run executes, then keeps it open until the operator
// acknowledges the final result.
// Ctrl+C while jobs are running cancels the run with ErrInterrupted as the cause.
func (r *Runner) Run(ctx context.Context, run RunFunc) (*runbatch.RunResult, error) {
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	r.model.SetCancel(func() { cancel(ErrInterrupted) })

	g, gctx := errgroup.WithContext(runCtx)

	var result *runbatch.RunResult

	g.Go(func() error {
		// The queue keeps a slow terminal from stalling the jobs.
		// Close drains it, so every queued event reaches the TUI before the result.
		events := progress.NewChannelReporter(gctx, eventBufferSize)
		events.Listen(r.reporter)

		result = run(gctx, events)

		events.Close()
		r.program.Send(RunCompletedMsg{Result: result})

		return nil
	})

	g.Go(func() error {
		defer r.reporter.Close()

		_, err := r.program.Run()
		if err != nil && ctx.Err() != nil {
			// Cancelled from outside, the run result records the cause.
			return nil
		}

		return err //nolint:wrapcheck
	})

	err := g.Wait()

	return result, err
}
