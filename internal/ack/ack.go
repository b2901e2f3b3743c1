// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ack

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/batchwalk/internal/ctxlog"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

// DefaultPrompt is shown while waiting for acknowledgment.
const DefaultPrompt = "Press Enter to exit..."

// ErrAcknowledge is returned when reading the acknowledgment fails.
var ErrAcknowledge = errors.New("failed to read acknowledgment")

// Prompter shows a prompt and reads one line.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

var _ Prompter = (*TerminalPrompter)(nil)

// TerminalPrompter reads from an interactive terminal.
type TerminalPrompter struct {
	line *liner.State
}

// NewTerminalPrompter puts the terminal in line editing mode. Close restores it.
func NewTerminalPrompter() *TerminalPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return &TerminalPrompter{line: line}
}

// Prompt implements Prompter.
func (p *TerminalPrompter) Prompt(prompt string) (string, error) {
	return p.line.Prompt(prompt) //nolint:wrapcheck
}

// Close implements Prompter.
func (p *TerminalPrompter) Close() error {
	return p.line.Close() //nolint:wrapcheck
}

var _ Prompter = (*ReaderPrompter)(nil)

// ReaderPrompter reads lines from any reader, such as a redirected stdin.
type ReaderPrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewReaderPrompter writes prompts to w and reads lines from r.
func NewReaderPrompter(r io.Reader, w io.Writer) *ReaderPrompter {
	return &ReaderPrompter{r: bufio.NewReader(r), w: w}
}

// Prompt implements Prompter. A final line without a newline is returned with io.EOF.
func (p *ReaderPrompter) Prompt(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.w, prompt); err != nil {
		return "", err //nolint:wrapcheck
	}

	line, err := p.r.ReadString('\n')

	return strings.TrimRight(line, "\r\n"), err //nolint:wrapcheck
}

// Close implements Prompter.
func (p *ReaderPrompter) Close() error {
	return nil
}

// NewPrompter returns a TerminalPrompter when in is a terminal, otherwise a ReaderPrompter.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) { //nolint:gosec
		return NewTerminalPrompter()
	}

	return NewReaderPrompter(in, out)
}

// Wait blocks until the operator acknowledges or ctx is cancelled.
// A line, end of input and an aborted prompt all count as acknowledgment:
// with no operator attached there is nobody to wait for.
func Wait(ctx context.Context, p Prompter, prompt string) error {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	done := make(chan error, 1)

	go func() {
		_, err := p.Prompt(prompt)
		done <- err
	}()

	select {
	case err := <-done:
		switch {
		case err == nil:
			ctxlog.Debug(ctx, "acknowledged")
			return nil
		case errors.Is(err, io.EOF):
			ctxlog.Debug(ctx, "end of input, treating as acknowledged")
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			ctxlog.Debug(ctx, "prompt aborted, treating as acknowledged")
			return nil
		default:
			return errors.Join(ErrAcknowledge, err)
		}
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}
