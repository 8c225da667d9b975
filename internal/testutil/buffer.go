package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// SyncBuffer is an io.Writer that can be written by log handlers on several
// goroutines and read from the test goroutine.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Count reports how many times substr appears in the buffer so far.
func (b *SyncBuffer) Count(substr string) int {
	return strings.Count(b.String(), substr)
}

func (b *SyncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
