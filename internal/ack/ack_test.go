// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ack

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWait_ReaderPrompter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "enter", input: "\n"},
		{name: "text then enter", input: "ok\r\n"},
		{name: "end of input", input: ""},
		{name: "partial line then end of input", input: "bye"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			p := NewReaderPrompter(strings.NewReader(tc.input), &out)

			require.NoError(t, Wait(context.Background(), p, ""))
			assert.Equal(t, DefaultPrompt, out.String())
			require.NoError(t, p.Close())
		})
	}
}

func TestReaderPrompter_Prompt(t *testing.T) {
	var out bytes.Buffer

	p := NewReaderPrompter(strings.NewReader("first\nsecond\n"), &out)

	line, err := p.Prompt("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = p.Prompt("> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = p.Prompt("> ")
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > ", out.String())
}

func TestWait_BlocksUntilInput(t *testing.T) {
	r, w := io.Pipe()
	p := NewReaderPrompter(r, io.Discard)

	result := make(chan error, 1)

	go func() {
		result <- Wait(context.Background(), p, "wait")
	}()

	select {
	case <-result:
		t.Fatal("returned before input")
	default:
	}

	_, err := w.Write([]byte("\n"))
	require.NoError(t, err)
	require.NoError(t, <-result)
	require.NoError(t, w.Close())
}

func TestWait_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	p := NewReaderPrompter(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, p, "wait")
	require.ErrorIs(t, err, context.Canceled)

	// Unblock the reader goroutine.
	require.NoError(t, w.Close())
}

type fakePrompter struct {
	err error
}

func (f *fakePrompter) Prompt(_ string) (string, error) { return "", f.err }
func (f *fakePrompter) Close() error                    { return nil }

func TestWait_PrompterErrors(t *testing.T) {
	require.NoError(t, Wait(context.Background(), &fakePrompter{err: liner.ErrPromptAborted}, "x"))

	err := Wait(context.Background(), &fakePrompter{err: errors.New("tty gone")}, "x")
	require.ErrorIs(t, err, ErrAcknowledge)
}
