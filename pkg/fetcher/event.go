package fetcher

import "context"

// Event is broadcast to subscribers as a load progresses.
type Event interface {
	GetContext() context.Context
}

// EventStart indicates that a load has been issued.
type EventStart struct {
	ctx  context.Context //nolint:containedctx // Carried for logging and tracing.
	Page int
}

// NewEventStart creates an [EventStart] for page.
func NewEventStart(ctx context.Context, page int) EventStart {
	return EventStart{ctx: ctx, Page: page}
}

func (e EventStart) GetContext() context.Context {
	return e.ctx
}

// EventEnd indicates that a load has completed and its result was applied.
// It carries the resulting state, which may be an error state.
type EventEnd struct {
	ctx context.Context //nolint:containedctx // Carried for logging and tracing.
	Snapshot
}

// NewEventEnd creates an [EventEnd] carrying s.
func NewEventEnd(ctx context.Context, s Snapshot) EventEnd {
	return EventEnd{ctx: ctx, Snapshot: s}
}

func (e EventEnd) GetContext() context.Context {
	return e.ctx
}

// EventCancel indicates that a load was superseded or canceled, and its
// result was discarded.
type EventCancel struct {
	ctx  context.Context //nolint:containedctx // Carried for logging and tracing.
	Page int
}

// NewEventCancel creates an [EventCancel] for page.
func NewEventCancel(ctx context.Context, page int) EventCancel {
	return EventCancel{ctx: ctx, Page: page}
}

func (e EventCancel) GetContext() context.Context {
	return e.ctx
}
