package platform

import "context"

type ctxKey int

const (
	botKey ctxKey = iota
	eventKey
)

// WithBot stores the bot handling the current event in ctx. Hosts call this
// before invoking handler code so operations can fall back to it.
func WithBot(ctx context.Context, bot any) context.Context {
	return context.WithValue(ctx, botKey, bot)
}

// BotFromContext returns the bot stored by WithBot, or nil
func BotFromContext(ctx context.Context) any {
	if ctx == nil {
		return nil
	}
	return ctx.Value(botKey)
}

// WithEvent stores the native event being handled in ctx
func WithEvent(ctx context.Context, event any) context.Context {
	return context.WithValue(ctx, eventKey, event)
}

// EventFromContext returns the native event stored by WithEvent, or nil
func EventFromContext(ctx context.Context) any {
	if ctx == nil {
		return nil
	}
	return ctx.Value(eventKey)
}
