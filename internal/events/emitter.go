package events

import (
	"context"

	"github.com/rs/zerolog"
)

var Emit = func(ctx context.Context, name string, evt Event) {}

// EnableLogEmitter routes all emitted events into the given logger. The
// external presentation layer can replace this with SetCustomEmitter to
// forward events to its own transport.
func EnableLogEmitter(logger zerolog.Logger) {
	Emit = func(ctx context.Context, name string, evt Event) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}

		logEvent(logger, name, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt Event)) {
	if f == nil {
		Emit = func(context.Context, string, Event) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt Event) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}

func logEvent(logger zerolog.Logger, name string, evt Event) {
	var le *zerolog.Event
	switch evt.Type {
	case EventError:
		le = logger.Error()
	case EventWarn:
		le = logger.Warn()
	default:
		le = logger.Info()
	}
	le.Str("event", name).Str("session", evt.SessionKey).Msg(evt.Message)
}
