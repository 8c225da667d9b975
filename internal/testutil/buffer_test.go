package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncBuffer_ConcurrentWrites(t *testing.T) {
	var buf SyncBuffer
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			fmt.Fprintf(&buf, "line %d\n", i)
		})
	}
	wg.Wait()

	assert.Equal(t, 10, buf.Count("line "))
	buf.Reset()
	assert.Empty(t, buf.String())
}
