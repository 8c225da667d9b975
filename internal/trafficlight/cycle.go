package trafficlight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/phase"
)

// cycleThroughPhases is the body of the cycle goroutine. It polls elapsed
// time every pollInterval; once the drawn dwell has passed it flips the
// phase, restarts the timer with a fresh dwell and sends the new phase.
func (l *Light) cycleThroughPhases(ctx context.Context) error {
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	dwell := l.DwellRange().Draw(l.rng)
	start := time.Now()
	l.logger.Debug("Cycle started", "phase", l.GetCurrentPhase(), "dwell", dwell)

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("Context canceled")
			return nil
		case <-l.stopCh:
			l.logger.Debug("Stop requested")
			return nil
		case <-ticker.C:
		}

		elapsed := time.Since(start)
		if elapsed < dwell {
			continue
		}

		change, err := l.flip(elapsed)
		if err != nil {
			return err
		}
		start = change.At
		dwell = l.DwellRange().Draw(l.rng)

		l.channel.Send(change.To)
		l.record(ctx, change, dwell)
		if l.onChange != nil {
			l.onChange(change)
		}
	}
}

// flip moves the phase machine to the opposite phase. The machine only allows
// red->green and green->red, so a failure here means the single-writer rule
// was broken.
func (l *Light) flip(elapsed time.Duration) (phase.Change, error) {
	from := l.GetCurrentPhase()
	to := from.Next()
	if err := l.phaseFSM.TransitionIfCurrentState(from.String(), to.String()); err != nil {
		return phase.Change{}, fmt.Errorf("failed to flip phase from %s to %s: %w", from, to, err)
	}
	return phase.Change{From: from, To: to, At: time.Now(), Dwell: elapsed}, nil
}

// record logs the change and keeps a copy in the history collector.
func (l *Light) record(ctx context.Context, change phase.Change, next time.Duration) {
	attrs := []slog.Attr{
		slog.String("from", change.From.String()),
		slog.String("to", change.To.String()),
		slog.Duration("dwell", change.Dwell),
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "Phase changed", append(attrs, slog.Duration("next_dwell", next))...)
	slog.New(l.history).LogAttrs(ctx, slog.LevelInfo, "Phase changed", attrs...)
}
