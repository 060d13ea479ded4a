package pipe

import "github.com/fxsml/pipewalk/message"

// MessageContext is implemented by contexts carrying a message of type T.
type MessageContext[T any] interface {
	Message() *message.TypedMessage[T]
}

// ConsumerBinding is implemented by contexts carrying a consumer of type C.
type ConsumerBinding[C any] interface {
	Consumer() C
}

// ConsumeContext carries a message through a pipeline.
type ConsumeContext[T any] struct {
	msg *message.TypedMessage[T]
}

// NewConsumeContext returns a context for msg.
func NewConsumeContext[T any](msg *message.TypedMessage[T]) *ConsumeContext[T] {
	return &ConsumeContext[T]{msg: msg}
}

// Message returns the message being consumed.
func (c *ConsumeContext[T]) Message() *message.TypedMessage[T] {
	return c.msg
}

// MessageShape reports the message type. It does not use the receiver, so
// contexts embedding a nil *ConsumeContext still report the message type.
func (*ConsumeContext[T]) MessageShape() Shape {
	return messageShape[T]{}
}

// ReceiveContext carries a message whose payload has not been decoded.
// It closes over no type arguments.
type ReceiveContext struct {
	msg *message.Message
}

// NewReceiveContext returns a context for msg.
func NewReceiveContext(msg *message.Message) *ReceiveContext {
	return &ReceiveContext{msg: msg}
}

// Message returns the received message.
func (c *ReceiveContext) Message() *message.Message {
	return c.msg
}

// ConsumerContext carries a consumer without a message type.
type ConsumerContext[C any] struct {
	consumer C
}

// NewConsumerContext returns a context for consumer.
func NewConsumerContext[C any](consumer C) *ConsumerContext[C] {
	return &ConsumerContext[C]{consumer: consumer}
}

// Consumer returns the bound consumer.
func (c *ConsumerContext[C]) Consumer() C {
	return c.consumer
}

// ConsumerShape reports the consumer type. It does not use the receiver.
func (*ConsumerContext[C]) ConsumerShape() Shape {
	return consumerShape[C]{}
}

// ConsumerConsumeContext carries a consumer together with the message it
// consumes. It is a [MessageContext] for T.
type ConsumerConsumeContext[C, T any] struct {
	*ConsumeContext[T]
	consumer C
}

// NewConsumerConsumeContext binds consumer to the message context c.
func NewConsumerConsumeContext[C, T any](consumer C, c *ConsumeContext[T]) *ConsumerConsumeContext[C, T] {
	return &ConsumerConsumeContext[C, T]{
		ConsumeContext: c,
		consumer:       consumer,
	}
}

// Consumer returns the bound consumer.
func (c *ConsumerConsumeContext[C, T]) Consumer() C {
	return c.consumer
}

// Split returns the consumer-only view of c.
func (c *ConsumerConsumeContext[C, T]) Split() *ConsumerContext[C] {
	return NewConsumerContext(c.consumer)
}

// Merge returns a context for the same message bound to consumer.
func (c *ConsumerConsumeContext[C, T]) Merge(consumer C) *ConsumerConsumeContext[C, T] {
	return NewConsumerConsumeContext(consumer, c.ConsumeContext)
}

// ConsumerMessageShape reports consumer and message types. It does not use
// the receiver.
func (*ConsumerConsumeContext[C, T]) ConsumerMessageShape() Shape {
	return consumerMessageShape[C, T]{}
}

// ConsumerShape reports the consumer type.
func (*ConsumerConsumeContext[C, T]) ConsumerShape() Shape {
	return consumerShape[C]{}
}

// MessageShape reports the message type without going through the
// embedded *ConsumeContext.
func (*ConsumerConsumeContext[C, T]) MessageShape() Shape {
	return messageShape[T]{}
}

var (
	_ MessageContext[any]  = (*ConsumeContext[any])(nil)
	_ MessageContext[any]  = (*ConsumerConsumeContext[any, any])(nil)
	_ ConsumerBinding[any] = (*ConsumerContext[any])(nil)
	_ ConsumerBinding[any] = (*ConsumerConsumeContext[any, any])(nil)
)
