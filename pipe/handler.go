package pipe

import "context"

// HandlerFunc handles a message without a consumer type.
type HandlerFunc[T any] func(ctx context.Context, c *ConsumeContext[T]) error

// HandlerFilter invokes a bare handler for each message.
type HandlerFilter[T any] struct {
	handle HandlerFunc[T]
}

// NewHandler returns a filter invoking handle.
func NewHandler[T any](handle HandlerFunc[T]) *HandlerFilter[T] {
	return &HandlerFilter[T]{handle: handle}
}

// Kind returns KindHandler.
func (*HandlerFilter[T]) Kind() Kind {
	return KindHandler
}

// Send invokes the handler, then next.
func (f *HandlerFilter[T]) Send(ctx context.Context, c *ConsumeContext[T], next Pipe[*ConsumeContext[T]]) error {
	if err := f.handle(ctx, c); err != nil {
		return err
	}
	return next.Send(ctx, c)
}
