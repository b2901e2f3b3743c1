// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"io"
	"strings"
	"sync"
)

// DefaultTailSize is the number of trailing bytes kept when New is called with a
// non-positive size.
const DefaultTailSize = 8 * 1024

// LastLineTeeReader wraps an io.Reader and tracks the last complete line
// together with a bounded tail of the data read.
// It is safe for concurrent use.
type LastLineTeeReader struct {
	reader   io.Reader
	tail     []byte
	tailSize int
	lastLine string
	partial  strings.Builder
	mu       sync.RWMutex
}

// NewLastLineTeeReader creates a new LastLineTeeReader that wraps the given reader
// and keeps at most tailSize trailing bytes.
func NewLastLineTeeReader(r io.Reader, tailSize int) *LastLineTeeReader {
	if tailSize <= 0 {
		tailSize = DefaultTailSize
	}

	return &LastLineTeeReader{
		reader:   r,
		tailSize: tailSize,
	}
}

// Read implements io.Reader.
func (lt *LastLineTeeReader) Read(p []byte) (n int, err error) {
	n, err = lt.reader.Read(p)
	if n > 0 {
		lt.mu.Lock()
		defer lt.mu.Unlock()

		lt.appendTail(p[:n])
		lt.processNewData(string(p[:n]))
	}

	return n, err //nolint:wrapcheck
}

// appendTail must be called with the write lock held.
func (lt *LastLineTeeReader) appendTail(b []byte) {
	if len(b) >= lt.tailSize {
		lt.tail = append(lt.tail[:0], b[len(b)-lt.tailSize:]...)
		return
	}

	if over := len(lt.tail) + len(b) - lt.tailSize; over > 0 {
		lt.tail = append(lt.tail[:0], lt.tail[over:]...)
	}

	lt.tail = append(lt.tail, b...)
}

// processNewData must be called with the write lock held.
func (lt *LastLineTeeReader) processNewData(data string) {
	lt.partial.WriteString(data)
	combined := lt.partial.String()

	idx := strings.LastIndexByte(combined, '\n')
	if idx < 0 {
		return
	}

	complete := strings.TrimRight(combined[:idx], "\r")
	if prev := strings.LastIndexByte(complete, '\n'); prev >= 0 {
		complete = complete[prev+1:]
	}

	lt.lastLine = strings.TrimRight(complete, "\r")
	rest := combined[idx+1:]
	lt.partial.Reset()
	lt.partial.WriteString(rest)
}

// GetLastLine returns the last complete line that was read, without its line ending.
// If maxLength > 3 and the line is longer, it is truncated and "..." appended.
func (lt *LastLineTeeReader) GetLastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	result := lt.lastLine
	if maxLength > 3 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// GetPartialLine returns the data read after the last newline.
func (lt *LastLineTeeReader) GetPartialLine() string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.partial.String()
}

// Tail returns a copy of the last bytes read, at most the configured tail size.
func (lt *LastLineTeeReader) Tail() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	out := make([]byte, len(lt.tail))
	copy(out, lt.tail)

	return out
}

// Reset clears the captured state. The underlying reader is not affected.
func (lt *LastLineTeeReader) Reset() {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.tail = lt.tail[:0]
	lt.lastLine = ""
	lt.partial.Reset()
}
