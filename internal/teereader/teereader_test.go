// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLastLineTeeReader(t *testing.T) {
	lt := NewLastLineTeeReader(strings.NewReader("test data"), 0)

	require.NotNil(t, lt)
	assert.Equal(t, DefaultTailSize, lt.tailSize)
	assert.Empty(t, lt.GetLastLine(0))
	assert.Empty(t, lt.GetPartialLine())
	assert.Empty(t, lt.Tail())
}

func TestLastLineTeeReader_Lines(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedLast    string
		expectedPartial string
	}{
		{
			name:         "single line with newline",
			input:        "hello world\n",
			expectedLast: "hello world",
		},
		{
			name:            "single line without newline",
			input:           "hello world",
			expectedPartial: "hello world",
		},
		{
			name: "empty string",
		},
		{
			name:  "just newline",
			input: "\n",
		},
		{
			name:            "several lines with trailing partial",
			input:           "one\ntwo\nthree",
			expectedLast:    "two",
			expectedPartial: "three",
		},
		{
			name:         "crlf line endings",
			input:        "one\r\ntwo\r\n",
			expectedLast: "two",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lt := NewLastLineTeeReader(strings.NewReader(tc.input), 0)

			data, err := io.ReadAll(lt)
			require.NoError(t, err)
			assert.Equal(t, tc.input, string(data))
			assert.Equal(t, tc.expectedLast, lt.GetLastLine(0))
			assert.Equal(t, tc.expectedPartial, lt.GetPartialLine())
		})
	}
}

func TestLastLineTeeReader_LineSplitAcrossReads(t *testing.T) {
	r, w := io.Pipe()
	lt := NewLastLineTeeReader(r, 0)

	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = io.Copy(io.Discard, lt)
	}()

	for _, chunk := range []string{"comp", "iling mesa", "\nlinking", " plx\n"} {
		_, err := w.Write([]byte(chunk))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	<-done

	assert.Equal(t, "linking plx", lt.GetLastLine(0))
	assert.Empty(t, lt.GetPartialLine())
}

func TestLastLineTeeReader_Truncate(t *testing.T) {
	lt := NewLastLineTeeReader(strings.NewReader("abcdefghijklmnop\n"), 0)
	_, err := io.ReadAll(lt)
	require.NoError(t, err)

	assert.Equal(t, "abcdefg...", lt.GetLastLine(10))
	assert.Equal(t, "abcdefghijklmnop", lt.GetLastLine(0))
	assert.Equal(t, "abcdefghijklmnop", lt.GetLastLine(100))
}

func TestLastLineTeeReader_TailIsBounded(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []string
		size     int
		expected string
	}{
		{
			name:     "fits",
			chunks:   []string{"abc", "def"},
			size:     10,
			expected: "abcdef",
		},
		{
			name:     "overflow across chunks",
			chunks:   []string{"abcdef", "ghij"},
			size:     6,
			expected: "efghij",
		},
		{
			name:     "single chunk larger than tail",
			chunks:   []string{"abcdefghij"},
			size:     4,
			expected: "ghij",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lt := NewLastLineTeeReader(strings.NewReader(""), tc.size)
			for _, c := range tc.chunks {
				lt.appendTail([]byte(c))
			}

			assert.Equal(t, tc.expected, string(lt.Tail()))
		})
	}
}

func TestLastLineTeeReader_Reset(t *testing.T) {
	lt := NewLastLineTeeReader(strings.NewReader("one\ntwo"), 0)
	_, err := io.ReadAll(lt)
	require.NoError(t, err)

	lt.Reset()

	assert.Empty(t, lt.GetLastLine(0))
	assert.Empty(t, lt.GetPartialLine())
	assert.Empty(t, lt.Tail())
}

func TestLastLineTeeReader_ConcurrentAccess(t *testing.T) {
	input := strings.Repeat("line of output\n", 500)
	lt := NewLastLineTeeReader(strings.NewReader(input), 64)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		_, _ = io.Copy(io.Discard, lt)
	}()

	go func() {
		defer wg.Done()

		for range 100 {
			_ = lt.GetLastLine(20)
			_ = lt.Tail()
		}
	}()

	wg.Wait()

	assert.Equal(t, "line of output", lt.GetLastLine(0))
	assert.Len(t, lt.Tail(), 64)
}
