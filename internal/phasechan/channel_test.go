package phasechan

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/phase"
	"github.com/robbyt/go-loglater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugCollector() *loglater.LogCollector {
	return loglater.NewLogCollector(
		slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
}

func TestChannel_LastWriteWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sends []phase.Phase
		want  phase.Phase
	}{
		{name: "single send", sends: []phase.Phase{phase.Green}, want: phase.Green},
		{name: "two sends", sends: []phase.Phase{phase.Green, phase.Red}, want: phase.Red},
		{
			name:  "collapsed flip sequence",
			sends: []phase.Phase{phase.Green, phase.Red, phase.Green, phase.Red, phase.Green},
			want:  phase.Green,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			for _, p := range tt.sends {
				c.Send(p)
			}
			require.True(t, c.Pending())

			assert.Equal(t, tt.want, c.Receive())
			assert.False(t, c.Pending(), "receive must empty the slot")
		})
	}
}

func TestChannel_ReceiveBlocksUntilSend(t *testing.T) {
	t.Parallel()

	c := New()
	got := make(chan phase.Phase, 1)
	go func() {
		got <- c.Receive()
	}()

	select {
	case p := <-got:
		t.Fatalf("receive returned %q before any send", p)
	case <-time.After(50 * time.Millisecond):
	}

	c.Send(phase.Green)

	select {
	case p := <-got:
		assert.Equal(t, phase.Green, p)
	case <-time.After(time.Second):
		t.Fatal("receive did not return after send")
	}
}

func TestChannel_ValueIsConsumedOnce(t *testing.T) {
	t.Parallel()

	c := New()
	c.Send(phase.Red)
	assert.Equal(t, phase.Red, c.Receive())

	// The slot is empty again, so a second receive must block.
	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()
	_, err := c.ReceiveContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChannel_SendDeliversToOneReceiver(t *testing.T) {
	t.Parallel()

	c := New()
	var received atomic.Int32
	var wg sync.WaitGroup

	for range 2 {
		wg.Go(func() {
			if c.Receive() == phase.Green {
				received.Add(1)
			}
		})
	}

	// Give both receivers time to block in Wait.
	time.Sleep(20 * time.Millisecond)

	c.Send(phase.Green)
	assert.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Never(t, func() bool {
		return received.Load() > 1
	}, 50*time.Millisecond, 5*time.Millisecond, "one send must not reach two receivers")

	c.Send(phase.Green)
	wg.Wait()
	assert.Equal(t, int32(2), received.Load())
}

func TestChannel_ConcurrentSendersAndReceivers(t *testing.T) {
	t.Parallel()

	c := New()
	const receivers = 8

	var wg sync.WaitGroup
	for range receivers {
		wg.Go(func() {
			p := c.Receive()
			assert.True(t, p.Valid())
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// Keep sending until every receiver has been served.
	deadline := time.After(5 * time.Second)
	next := phase.Red
	for {
		select {
		case <-done:
			return
		case <-time.After(time.Millisecond):
			next = next.Next()
			c.Send(next)
		case <-deadline:
			t.Fatal("receivers starved")
		}
	}
}

func TestChannel_ReceiveContext(t *testing.T) {
	t.Parallel()

	t.Run("returns pending value", func(t *testing.T) {
		c := New()
		c.Send(phase.Green)

		p, err := c.ReceiveContext(t.Context())
		require.NoError(t, err)
		assert.Equal(t, phase.Green, p)
	})

	t.Run("already canceled context", func(t *testing.T) {
		c := New()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := c.ReceiveContext(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancellation unblocks waiter", func(t *testing.T) {
		c := New()
		ctx, cancel := context.WithCancel(t.Context())

		errCh := make(chan error, 1)
		go func() {
			_, err := c.ReceiveContext(ctx)
			errCh <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("ReceiveContext did not return after cancel")
		}
	})

	t.Run("canceled waiter does not consume later sends", func(t *testing.T) {
		c := New()
		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		_, err := c.ReceiveContext(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		c.Send(phase.Red)
		assert.True(t, c.Pending())
		assert.Equal(t, phase.Red, c.Receive())
	})

	t.Run("plain receiver survives broadcast from canceled waiter", func(t *testing.T) {
		c := New()
		ctx, cancel := context.WithCancel(t.Context())

		plain := make(chan phase.Phase, 1)
		go func() {
			plain <- c.Receive()
		}()
		go func() {
			_, _ = c.ReceiveContext(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case p := <-plain:
			t.Fatalf("plain receiver returned %q without a send", p)
		case <-time.After(50 * time.Millisecond):
		}

		c.Send(phase.Green)
		select {
		case p := <-plain:
			assert.Equal(t, phase.Green, p)
		case <-time.After(time.Second):
			t.Fatal("plain receiver never woke up")
		}
	})
}

func TestChannel_SendTrace(t *testing.T) {
	t.Parallel()

	collector := newDebugCollector()
	c := New(WithLogHandler(collector))

	c.Send(phase.Green)
	c.Send(phase.Red)

	logs := collector.GetLogs()
	require.Len(t, logs, 2)
	for i, want := range []phase.Phase{phase.Green, phase.Red} {
		assert.Equal(t, "Phase change queued", logs[i].Message)
		assert.Equal(t, slog.LevelDebug, logs[i].Level)

		var found bool
		for _, attr := range logs[i].Attrs {
			if attr.Key == "phase" {
				found = true
				assert.Equal(t, want.String(), attr.Value.String())
			}
		}
		assert.True(t, found, "record %d should carry the phase attribute", i)
	}
}
