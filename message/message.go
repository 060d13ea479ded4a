package message

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNacked is passed to the nack callback when Nack is called with a nil error.
var ErrNacked = errors.New("message: nacked")

// acking settles a message exactly once, either way.
type acking struct {
	mu      sync.Mutex
	ack     func()
	nack    func(error)
	settled bool
	err     error
}

// settle runs the callback for err on first use. Later calls report
// whether they agree with the first outcome.
func (a *acking) settle(err error) bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settled {
		return (a.err == nil) == (err == nil)
	}
	a.settled, a.err = true, err
	if err == nil {
		a.ack()
	} else {
		a.nack(err)
	}
	return true
}

// Property keys set or read by this package.
const (
	// PropID holds the unique message identifier.
	PropID = "id"
	// PropType holds the message type name.
	PropType = "type"
	// PropSource holds the origin of the message.
	PropSource = "source"
	// PropSubject holds the optional message subject.
	PropSubject = "subject"
	// PropTime holds the message timestamp formatted as RFC3339.
	PropTime = "time"
	// PropContentType holds the content type of the payload.
	PropContentType = "datacontenttype"
)

// Properties is a map of message properties.
type Properties map[string]any

// String returns the property as string, or "" if it is missing or not a string.
func (p Properties) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// TypedMessage wraps a typed payload with properties and acknowledgment callbacks.
// Payload and Properties are public for direct access.
// Ack/Nack operations are mutually exclusive and idempotent.
type TypedMessage[T any] struct {
	Payload    T
	Properties Properties

	a *acking
}

// Message is a message with []byte payload as received from a broker.
type Message = TypedMessage[[]byte]

// New creates a new typed message with the given payload and properties.
// Pass nil for properties if no properties are needed. An id property is
// generated if the properties do not carry one.
func New[T any](payload T, props Properties) *TypedMessage[T] {
	return &TypedMessage[T]{
		Payload:    payload,
		Properties: withID(props),
	}
}

// NewWithAcking creates a new typed message with acknowledgment callbacks.
// Acking is only enabled when both ack and nack are provided.
func NewWithAcking[T any](payload T, props Properties, ack func(), nack func(error)) *TypedMessage[T] {
	msg := New(payload, props)
	if ack != nil && nack != nil {
		msg.a = &acking{ack: ack, nack: nack}
	}
	return msg
}

// NewID returns a random RFC 4122 UUID string.
func NewID() string {
	return uuid.NewString()
}

func withID(props Properties) Properties {
	if props == nil {
		props = make(Properties)
	}
	if props.String(PropID) == "" {
		props[PropID] = NewID()
	}
	return props
}

// ID returns the message identifier.
func (m *TypedMessage[T]) ID() string {
	return m.Properties.String(PropID)
}

// Type returns the message type property.
func (m *TypedMessage[T]) Type() string {
	return m.Properties.String(PropType)
}

// Ack settles the message as processed. It reports false if the message
// has no callbacks or was nacked before.
func (m *TypedMessage[T]) Ack() bool {
	return m.a.settle(nil)
}

// Nack settles the message as failed with err. It reports false if the
// message has no callbacks or was acked before.
func (m *TypedMessage[T]) Nack(err error) bool {
	if err == nil {
		err = ErrNacked
	}
	return m.a.settle(err)
}

// Copy returns a message with payload that shares the properties and the
// settlement of msg.
func Copy[In, Out any](msg *TypedMessage[In], payload Out) *TypedMessage[Out] {
	return &TypedMessage[Out]{Payload: payload, Properties: msg.Properties, a: msg.a}
}
