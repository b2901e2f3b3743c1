// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/batchwalk/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdOut      bool // Whether to include the stdout tail in the output
	IncludeStdErr      bool // Whether to include the stderr tail in the output
	ShowSuccessDetails bool // Whether to show details for successful jobs
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ShowSuccessDetails: false,
	}
}

// WriteText writes a human readable report of the run to w.
func (r *RunResult) WriteText(w io.Writer, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	if _, err := fmt.Fprintf(
		w,
		"%s%s%s %s\n",
		color.Control(color.Bold),
		label,
		color.Control(color.Reset),
		color.Colorize("(run "+r.RunID+")", color.Faint),
	); err != nil {
		return err //nolint:wrapcheck
	}

	for _, res := range r.Jobs {
		if err := writeResultWithIndent(w, res, "", options); err != nil {
			return err
		}
	}

	if r.Err != nil {
		fmt.Fprintf( // nolint:errcheck
			w,
			"%s %s\n",
			color.ColorizeNoReset("✗ Run halted:", color.Bold, color.FgRed),
			r.Err.Error()+color.ResetString(),
		)
	}

	return writeSummary(w, r)
}

func writeSummary(w io.Writer, r *RunResult) error {
	failed := len(r.Failed())
	summaryColor := color.FgGreen

	switch {
	case r.Err != nil || (failed > 0 && r.Policy == PolicyAbort):
		summaryColor = color.FgRed
	case failed > 0:
		summaryColor = color.FgYellow
	}

	msg := fmt.Sprintf("%d of %d jobs attempted, %d failed", r.Attempted(), r.Total, failed)
	if notRun := r.Total - r.Attempted(); notRun > 0 {
		msg += fmt.Sprintf(", %d not run", notRun)
	}

	if !r.Started.IsZero() && !r.Finished.IsZero() {
		msg += fmt.Sprintf(" [%s]", r.Duration().Round(time.Second))
	}

	_, err := fmt.Fprintln(w, color.Colorize(msg, summaryColor))

	return err //nolint:wrapcheck
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch r.Status {
	case ResultStatusNotStarted:
		statusStr = color.Colorize("!", color.FgMagenta)
		labelPrefix = color.Control(color.Bold, color.FgMagenta)
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.Control(color.Bold, color.FgRed)
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.Control(color.Bold, color.FgGreen)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	if indent == "" {
		label = fmt.Sprintf("%03d %s", r.Index+1, label)
	}

	fmt.Fprintf( // nolint:errcheck
		w,
		"%s%s %s%s%s",
		indent,
		statusStr,
		labelPrefix,
		label,
		color.Control(color.Reset),
	)

	if r.Cwd != "" && indent == "" {
		fmt.Fprintf(w, " %s", color.Colorize(r.Cwd, color.Faint)) // nolint:errcheck
	}

	if r.ExitCode != 0 {
		fmt.Fprintf(w, " (exit code: %d)", r.ExitCode) // nolint:errcheck
	}

	fmt.Fprintln(w) // nolint:errcheck

	// Jobs with steps carry the first failing step's error, which the child line repeats.
	if r.Error != nil && len(r.Children) == 0 {
		fmt.Fprintf( // nolint:errcheck
			w,
			"%s  %s %s%s\n",
			indent,
			color.ColorizeNoReset("➜ Error:", color.FgRed),
			r.Error.Error(),
			color.Control(color.Reset),
		)
	}

	shouldShowDetails := (r.Failed() || options.ShowSuccessDetails) && len(r.Children) == 0

	if shouldShowDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		fmt.Fprintf(w, "%s  ➜ Output:\n", indent)                    // nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.StdOut, indent+"     ")) // nolint:errcheck
	}

	if shouldShowDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		fmt.Fprintf(w, "%s  %s\n", indent, color.Colorize("➜ Error Output:", color.FgHiRed)) // nolint:errcheck
		fmt.Fprintf(w, "%s", formatOutput(r.StdErr, indent+"     "))                         // nolint:errcheck
	}

	for _, child := range r.Children {
		if err := writeResultWithIndent(w, child, indent+"  ", options); err != nil {
			return err
		}
	}

	return nil
}

// formatOutput formats multi-line output with proper indentation.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
