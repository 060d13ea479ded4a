package pipe

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Family identifies which type arguments a context closes over.
type Family uint8

const (
	// FamilyMessage contexts close over a message type.
	FamilyMessage Family = iota + 1
	// FamilyConsumer contexts close over a consumer type.
	FamilyConsumer
	// FamilyConsumerMessage contexts close over a consumer and a message type.
	FamilyConsumerMessage
)

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case FamilyMessage:
		return "message"
	case FamilyConsumer:
		return "consumer"
	case FamilyConsumerMessage:
		return "consumer-message"
	default:
		return fmt.Sprintf("family(%d)", uint8(f))
	}
}

// Key identifies an adapter by family and closed type arguments.
// Keys are comparable and used as cache keys.
type Key struct {
	Family   Family
	Consumer reflect.Type
	Message  reflect.Type
}

// Types returns the type arguments in declaration order: consumer, then message.
func (k Key) Types() []reflect.Type {
	types := make([]reflect.Type, 0, 2)
	if k.Consumer != nil {
		types = append(types, k.Consumer)
	}
	if k.Message != nil {
		types = append(types, k.Message)
	}
	return types
}

// Validate reports whether the type arguments match the family.
func (k Key) Validate() error {
	switch k.Family {
	case FamilyMessage:
		if k.Message == nil || k.Consumer != nil {
			return fmt.Errorf("%s requires exactly a message type", k.Family)
		}
	case FamilyConsumer:
		if k.Consumer == nil || k.Message != nil {
			return fmt.Errorf("%s requires exactly a consumer type", k.Family)
		}
	case FamilyConsumerMessage:
		if k.Consumer == nil || k.Message == nil {
			return fmt.Errorf("%s requires a consumer and a message type", k.Family)
		}
	default:
		return fmt.Errorf("unknown %s", k.Family)
	}
	return nil
}

// String returns e.g. "consumer-message(*app.OrderConsumer, app.OrderCreated)".
func (k Key) String() string {
	types := k.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return k.Family.String() + "(" + strings.Join(names, ", ") + ")"
}

// Shape describes the type arguments a context type closes over and builds
// the adapter for them.
type Shape interface {
	// Key returns the adapter key for the shape.
	Key() Key
	// NewAdapter builds an adapter specialized to the shape's type arguments.
	NewAdapter() Adapter
}

// MessageShaped is implemented by contexts closing over a message type.
type MessageShaped interface {
	MessageShape() Shape
}

// ConsumerShaped is implemented by contexts closing over a consumer type.
type ConsumerShaped interface {
	ConsumerShape() Shape
}

// ConsumerMessageShaped is implemented by contexts closing over a consumer
// and a message type.
type ConsumerMessageShaped interface {
	ConsumerMessageShape() Shape
}

var shapes sync.Map // reflect.Type -> shapeEntry

type shapeEntry struct {
	shape Shape
}

// ShapeOf returns the shape of the context type Ctx, or nil if Ctx closes
// over no known shape. The consumer+message capability is checked first,
// then consumer, then message. Pointer context types are inspected on a
// freshly allocated zero value, so contexts embedding a shaped context
// report the embedded shape. Results are cached per type.
func ShapeOf[Ctx any]() Shape {
	t := reflect.TypeFor[Ctx]()
	if e, ok := shapes.Load(t); ok {
		return e.(shapeEntry).shape
	}
	s := shapeOfValue(zeroContext[Ctx](t))
	shapes.Store(t, shapeEntry{shape: s})
	return s
}

func zeroContext[Ctx any](t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	var zero Ctx
	return zero
}

// shapeOfValue treats a shape method that panics as no shape.
func shapeOfValue(c any) (s Shape) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("pipewalk: context shape unavailable", "type", fmt.Sprintf("%T", c), "panic", r)
			s = nil
		}
	}()
	switch c := c.(type) {
	case ConsumerMessageShaped:
		return c.ConsumerMessageShape()
	case ConsumerShaped:
		return c.ConsumerShape()
	case MessageShaped:
		return c.MessageShape()
	}
	return nil
}

type messageShape[T any] struct{}

func (messageShape[T]) Key() Key {
	return Key{Family: FamilyMessage, Message: reflect.TypeFor[T]()}
}

func (s messageShape[T]) NewAdapter() Adapter {
	return &messageAdapter[T]{key: s.Key()}
}

type consumerShape[C any] struct{}

func (consumerShape[C]) Key() Key {
	return Key{Family: FamilyConsumer, Consumer: reflect.TypeFor[C]()}
}

func (s consumerShape[C]) NewAdapter() Adapter {
	return &consumerAdapter[C]{key: s.Key()}
}

type consumerMessageShape[C, T any] struct{}

func (consumerMessageShape[C, T]) Key() Key {
	return Key{
		Family:   FamilyConsumerMessage,
		Consumer: reflect.TypeFor[C](),
		Message:  reflect.TypeFor[T](),
	}
}

func (s consumerMessageShape[C, T]) NewAdapter() Adapter {
	return &consumerMessageAdapter[C, T]{key: s.Key()}
}
