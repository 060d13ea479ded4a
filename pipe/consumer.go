package pipe

import (
	"context"
	"fmt"
	"reflect"
)

// Consumer consumes messages of type T.
type Consumer[T any] interface {
	Consume(ctx context.Context, c *ConsumeContext[T]) error
}

// ConsumerFactory creates the consumer for a single message.
type ConsumerFactory[C any] func(ctx context.Context) (C, error)

// ConsumerMessageFilter creates a consumer per message and sends the bound
// consumer+message context through the consumer pipe.
type ConsumerMessageFilter[C, T any] struct {
	factory ConsumerFactory[C]
	pipe    Pipe[*ConsumerConsumeContext[C, T]]
}

// NewConsumerMessage returns a filter binding consumers from factory and
// sending the bound context through p.
func NewConsumerMessage[C, T any](factory ConsumerFactory[C], p Pipe[*ConsumerConsumeContext[C, T]]) *ConsumerMessageFilter[C, T] {
	return &ConsumerMessageFilter[C, T]{factory: factory, pipe: p}
}

// ConsumeWith returns a consumer-message filter whose consumer pipe runs
// filters and then calls the consumer's Consume method.
func ConsumeWith[C Consumer[T], T any](factory ConsumerFactory[C], filters ...Filter[*ConsumerConsumeContext[C, T]]) *ConsumerMessageFilter[C, T] {
	consume := NewMethodConsumer[C, T](func(consumer C, ctx context.Context, c *ConsumeContext[T]) error {
		return consumer.Consume(ctx, c)
	})
	filters = append(filters[:len(filters):len(filters)], consume)
	return NewConsumerMessage(factory, NewPipe(filters...))
}

// Pipe returns the consumer pipe.
func (f *ConsumerMessageFilter[C, T]) Pipe() Pipe[*ConsumerConsumeContext[C, T]] {
	return f.pipe
}

// ConsumerType returns the type of the bound consumer.
func (*ConsumerMessageFilter[C, T]) ConsumerType() reflect.Type {
	return reflect.TypeFor[C]()
}

// Kind returns KindConsumerMessage.
func (*ConsumerMessageFilter[C, T]) Kind() Kind {
	return KindConsumerMessage
}

// Probe returns the consumer pipe.
func (f *ConsumerMessageFilter[C, T]) Probe() []Node {
	return []Node{PipeNode(f.pipe)}
}

// Send creates a consumer, sends the bound context through the consumer
// pipe and then sends c to next.
func (f *ConsumerMessageFilter[C, T]) Send(ctx context.Context, c *ConsumeContext[T], next Pipe[*ConsumeContext[T]]) error {
	consumer, err := f.factory(ctx)
	if err != nil {
		logger.Warn("pipewalk: consumer factory failed", "consumer", reflect.TypeFor[C](), "error", err)
		return fmt.Errorf("%w: %v: %w", ErrConsumerFactory, reflect.TypeFor[C](), err)
	}
	if err := f.pipe.Send(ctx, NewConsumerConsumeContext(consumer, c)); err != nil {
		return err
	}
	return next.Send(ctx, c)
}

// MethodFunc is a consumer method, usually a method expression such as
// (*OrderConsumer).Consume.
type MethodFunc[C, T any] func(consumer C, ctx context.Context, c *ConsumeContext[T]) error

// MethodConsumerFilter invokes one method of the bound consumer.
type MethodConsumerFilter[C, T any] struct {
	method MethodFunc[C, T]
}

// NewMethodConsumer returns a filter invoking method on the bound consumer.
func NewMethodConsumer[C, T any](method MethodFunc[C, T]) *MethodConsumerFilter[C, T] {
	return &MethodConsumerFilter[C, T]{method: method}
}

// Kind returns KindMethodConsumer.
func (*MethodConsumerFilter[C, T]) Kind() Kind {
	return KindMethodConsumer
}

// Send invokes the method, then next.
func (f *MethodConsumerFilter[C, T]) Send(ctx context.Context, c *ConsumerConsumeContext[C, T], next Pipe[*ConsumerConsumeContext[C, T]]) error {
	if err := f.method(c.Consumer(), ctx, c.ConsumeContext); err != nil {
		return err
	}
	return next.Send(ctx, c)
}

// SplitFilter sends the consumer-only view of a context through a nested
// filter. When the nested filter continues, the consumer it passes on is
// merged back with the message and sent to the rest of the pipeline.
type SplitFilter[C, T any] struct {
	inner Filter[*ConsumerContext[C]]
}

// NewSplit returns a split filter around inner.
func NewSplit[C, T any](inner Filter[*ConsumerContext[C]]) *SplitFilter[C, T] {
	return &SplitFilter[C, T]{inner: inner}
}

// Inner returns the nested consumer filter.
func (f *SplitFilter[C, T]) Inner() Filter[*ConsumerContext[C]] {
	return f.inner
}

// Kind returns KindSplit.
func (*SplitFilter[C, T]) Kind() Kind {
	return KindSplit
}

// Probe returns the nested consumer filter.
func (f *SplitFilter[C, T]) Probe() []Node {
	return []Node{FilterNode(f.inner)}
}

// Send sends the consumer-only context to the nested filter.
func (f *SplitFilter[C, T]) Send(ctx context.Context, c *ConsumerConsumeContext[C, T], next Pipe[*ConsumerConsumeContext[C, T]]) error {
	return f.inner.Send(ctx, c.Split(), mergePipe[C, T]{context: c, next: next})
}

type mergePipe[C, T any] struct {
	context *ConsumerConsumeContext[C, T]
	next    Pipe[*ConsumerConsumeContext[C, T]]
}

func (p mergePipe[C, T]) Send(ctx context.Context, c *ConsumerContext[C]) error {
	return p.next.Send(ctx, p.context.Merge(c.Consumer()))
}

var (
	_ Filter[*ConsumeContext[any]]              = (*HandlerFilter[any])(nil)
	_ Filter[*ConsumeContext[any]]              = (*ConsumerMessageFilter[any, any])(nil)
	_ Filter[*ConsumerConsumeContext[any, any]] = (*MethodConsumerFilter[any, any])(nil)
	_ Filter[*ConsumerConsumeContext[any, any]] = (*SplitFilter[any, any])(nil)
	_ Filter[*ConsumeContext[any]]              = (*RetryFilter[*ConsumeContext[any]])(nil)
	_ Filter[*ConsumeContext[any]]              = (*TeeFilter[*ConsumeContext[any]])(nil)
	_ Filter[*ConsumeContext[any]]              = FilterFunc[*ConsumeContext[any]](nil)
)
