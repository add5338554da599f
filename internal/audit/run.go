package audit

import (
	"context"
	"log/slog"

	"careerfolio/internal/queue"
)

// Recorder stores one event.
type Recorder interface {
	Record(ctx context.Context, msg queue.Message) error
}

// LogRecorder writes events to the log only.
type LogRecorder struct {
	Logger *slog.Logger
}

func (l LogRecorder) Record(ctx context.Context, msg queue.Message) error {
	l.Logger.InfoContext(ctx, "artifact event",
		"id", msg.ID, "type", msg.Type, "email", msg.Email, "kind", msg.Kind, "filename", msg.Filename, "at", msg.At)
	return nil
}

// Run records every message until the channel closes. A failed event is
// logged and skipped. It returns the number of events recorded.
func Run(ctx context.Context, messages <-chan queue.Message, rec Recorder, log *slog.Logger) int {
	n := 0
	for msg := range messages {
		switch msg.Type {
		case queue.TypeArtifactSubmitted, queue.TypeArtifactCancelled:
		default:
			log.Warn("skipping unknown event", "type", msg.Type, "id", msg.ID)
			continue
		}
		if err := rec.Record(ctx, msg); err != nil {
			log.Error("record event failed", "id", msg.ID, "err", err)
			continue
		}
		n++
	}
	return n
}
