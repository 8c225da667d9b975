package trafficlight

import (
	"log/slog"

	"github.com/atlanticdynamic/trafficlight/internal/phase"
)

// History returns every phase change since the light started, oldest first.
func (l *Light) History() []phase.Change {
	records := l.history.GetLogs()
	changes := make([]phase.Change, 0, len(records))
	for _, rec := range records {
		c := phase.Change{At: rec.Time}
		for _, attr := range rec.Attrs {
			switch attr.Key {
			case "from":
				c.From = phase.Phase(attr.Value.String())
			case "to":
				c.To = phase.Phase(attr.Value.String())
			case "dwell":
				if attr.Value.Kind() == slog.KindDuration {
					c.Dwell = attr.Value.Duration()
				}
			}
		}
		changes = append(changes, c)
	}
	return changes
}

// PlaybackHistory replays the recorded phase changes to handler.
func (l *Light) PlaybackHistory(handler slog.Handler) error {
	return l.history.PlayLogs(handler)
}
