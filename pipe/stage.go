package pipe

import "reflect"

// Kind is the variant tag of a pipeline stage.
type Kind uint8

const (
	// KindUnknown is a filter matching no recognized variant.
	KindUnknown Kind = iota
	// KindPipe is a pipe.
	KindPipe
	// KindTee fans a context out to several branches.
	KindTee
	// KindHandler invokes a bare message handler.
	KindHandler
	// KindRetry wraps a filter with a retry policy.
	KindRetry
	// KindConsumerMessage binds a consumer to a message context.
	KindConsumerMessage
	// KindMethodConsumer invokes one consumer method.
	KindMethodConsumer
	// KindSplit hands the consumer-only context to a nested filter.
	KindSplit
	// KindConsumerConsume is any other filter over a consumer+message context.
	KindConsumerConsume
	// KindConsumer is any other filter over a consumer-only context.
	KindConsumer
	// KindMessageType routes untyped messages to pipes by message type.
	KindMessageType
)

var kindNames = [...]string{
	KindUnknown:         "unknown",
	KindPipe:            "pipe",
	KindTee:             "tee",
	KindHandler:         "handler",
	KindRetry:           "retry",
	KindConsumerMessage: "consumer-message",
	KindMethodConsumer:  "method-consumer",
	KindSplit:           "split",
	KindConsumerConsume: "consumer-consume",
	KindConsumer:        "consumer",
	KindMessageType:     "message-type",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinded is implemented by catalog stages to report their variant tag.
type Kinded interface {
	Kind() Kind
}

// Stage is a classified filter or pipe.
type Stage struct {
	Kind Kind
	// Value is the filter or pipe.
	Value any
	// Consumer is the consumer type, if known.
	Consumer reflect.Type
	// Message is the message type, if known.
	Message reflect.Type
}

// Dispatcher receives classified stages.
type Dispatcher interface {
	Dispatch(s Stage) bool
}

// Adapter classifies filters using the concrete type arguments of its key
// and hands the result to a dispatcher.
type Adapter interface {
	Key() Key
	Visit(d Dispatcher, filter any) bool
}

// Prober is implemented by composite stages to expose nested nodes.
type Prober interface {
	Probe() []Node
}

// Node is a type-erased filter or pipe that keeps its context shape.
type Node struct {
	value  any
	shape  Shape
	isPipe bool
}

// FilterNode returns the node for f.
func FilterNode[Ctx any](f Filter[Ctx]) Node {
	return Node{value: f, shape: ShapeOf[Ctx]()}
}

// PipeNode returns the node for p.
func PipeNode[Ctx any](p Pipe[Ctx]) Node {
	return Node{value: p, shape: ShapeOf[Ctx](), isPipe: true}
}

// Value returns the filter or pipe.
func (n Node) Value() any { return n.value }

// Shape returns the context shape, or nil.
func (n Node) Shape() Shape { return n.shape }

// IsPipe reports whether the node is a pipe.
func (n Node) IsPipe() bool { return n.isPipe }

// Children returns the nested nodes of a composite stage.
func (n Node) Children() []Node {
	if p, ok := n.value.(Prober); ok {
		return p.Probe()
	}
	return nil
}
