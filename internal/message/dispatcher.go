package message

import (
	"context"
	"errors"

	"github.com/keepmind9/anybot/internal/logger"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/internal/tracer"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ErrFinished is returned by Finish after a successful send so the host stops
// running further handlers for the event
var ErrFinished = errors.New("event handling finished")

// nativeEvent is implemented by unified events
type nativeEvent interface {
	Native() any
}

// Dispatcher builds messages with the handler of the active platform and
// sends the result
type Dispatcher struct {
	platforms *platform.Registry
	handlers  *Registry
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(platforms *platform.Registry, handlers *Registry) *Dispatcher {
	return &Dispatcher{platforms: platforms, handlers: handlers}
}

func (d *Dispatcher) handler(ctx context.Context, p platform.Platform, bot any) (Handler, error) {
	if p == platform.Unknown {
		var err error
		if p, err = d.platforms.CurrentPlatform(ctx, bot); err != nil {
			return nil, err
		}
	}
	return d.handlers.Get(p)
}

// Build converts m into the native messages of p. When p is Unknown the
// platform of bot, or of the bot stored in ctx, is used.
func (d *Dispatcher) Build(ctx context.Context, p platform.Platform, bot any, m *Msg) ([]any, error) {
	if bot == nil {
		bot = platform.BotFromContext(ctx)
	}
	h, err := d.handler(ctx, p, bot)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.StartSpan(ctx, "message.build",
		attribute.String("platform", h.Platform().String()),
		attribute.Int("segments", m.Len()),
	)
	defer span.End()

	natives, err := h.Build(ctx, bot, m.Segments())
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("natives", len(natives)))
	tracer.SetOK(span)
	return natives, nil
}

// Send builds m and sends every native message in order. Mention and reply
// decoration is applied to the first native message only. Sending stops at the
// first error; the results of messages already sent are returned with it.
//
// ev may be a native event or a unified event. A nil bot or ev falls back to
// the values the host stored in ctx.
func (d *Dispatcher) Send(ctx context.Context, bot, ev any, m *Msg, opts SendOptions) ([]any, error) {
	if bot == nil {
		bot = platform.BotFromContext(ctx)
	}
	if ev == nil {
		ev = platform.EventFromContext(ctx)
	}
	if u, ok := ev.(nativeEvent); ok {
		ev = u.Native()
	}

	h, err := d.handler(ctx, platform.Unknown, bot)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.StartSpan(ctx, "message.send",
		attribute.String("platform", h.Platform().String()),
		attribute.Bool("at", opts.At),
		attribute.Bool("reply", opts.Reply),
	)
	defer span.End()

	natives, err := h.Build(ctx, bot, m.Segments())
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	results := make([]any, 0, len(natives))
	for i, native := range natives {
		o := opts
		if i > 0 {
			o = SendOptions{}
		}
		res, err := h.Send(ctx, bot, ev, native, o)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"platform": h.Platform().String(),
				"index":    i,
				"total":    len(natives),
				"error":    err,
			}).Error("native-message-send-failed")
			tracer.RecordError(span, err)
			return results, err
		}
		results = append(results, res)
	}

	logger.WithFields(logrus.Fields{
		"platform": h.Platform().String(),
		"natives":  len(natives),
	}).Debug("native-message-sent")
	span.SetAttributes(attribute.Int("natives", len(natives)))
	tracer.SetOK(span)
	return results, nil
}

// Finish sends m and then reports ErrFinished. A send error is returned instead.
func (d *Dispatcher) Finish(ctx context.Context, bot, ev any, m *Msg, opts SendOptions) error {
	if _, err := d.Send(ctx, bot, ev, m, opts); err != nil {
		return err
	}
	return ErrFinished
}
