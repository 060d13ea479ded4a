package visit

import "github.com/fxsml/pipewalk/pipe"

// Callback continues a traversal. It returns false to stop.
type Callback func(v *Visitor) bool

// Continue is a callback that always continues.
func Continue(*Visitor) bool { return true }

// Handler handles a classified stage. The default behavior is to return
// cb(v).
type Handler func(v *Visitor, s pipe.Stage, cb Callback) bool

// Handlers holds one handler per stage kind. Nil handlers invoke the
// callback and return its result.
type Handlers struct {
	// Pipe handles pipes.
	Pipe Handler
	// Unknown handles filters matching no recognized kind.
	Unknown Handler
	// Tee handles fan-out filters.
	Tee Handler
	// Handler handles bare message handler filters.
	Handler Handler
	// Retry handles retry filters.
	Retry Handler
	// ConsumerMessage handles filters binding a consumer to a message.
	ConsumerMessage Handler
	// ConsumerConsume handles other filters over consumer+message contexts.
	ConsumerConsume Handler
	// MethodConsumer handles filters invoking a consumer method.
	MethodConsumer Handler
	// Split handles split filters.
	Split Handler
	// Consumer handles other filters over consumer-only contexts.
	Consumer Handler
	// MessageType handles filters routing untyped messages by message type.
	MessageType Handler
}

// Each returns Handlers using h for every kind.
func Each(h Handler) Handlers {
	return Handlers{
		Pipe:            h,
		Unknown:         h,
		Tee:             h,
		Handler:         h,
		Retry:           h,
		ConsumerMessage: h,
		ConsumerConsume: h,
		MethodConsumer:  h,
		Split:           h,
		Consumer:        h,
		MessageType:     h,
	}
}

func (h *Handlers) get(k pipe.Kind) Handler {
	switch k {
	case pipe.KindPipe:
		return h.Pipe
	case pipe.KindTee:
		return h.Tee
	case pipe.KindHandler:
		return h.Handler
	case pipe.KindRetry:
		return h.Retry
	case pipe.KindConsumerMessage:
		return h.ConsumerMessage
	case pipe.KindConsumerConsume:
		return h.ConsumerConsume
	case pipe.KindMethodConsumer:
		return h.MethodConsumer
	case pipe.KindSplit:
		return h.Split
	case pipe.KindConsumer:
		return h.Consumer
	case pipe.KindMessageType:
		return h.MessageType
	default:
		return h.Unknown
	}
}

// Option configures a Visitor.
type Option func(*Visitor)

// WithResolver sets the adapter resolver. Defaults to [DefaultResolver].
func WithResolver(r *Resolver) Option {
	return func(v *Visitor) {
		v.resolver = r
	}
}

// Visitor classifies filters and pipes and dispatches them to handlers.
// It holds no traversal state and is safe for concurrent use.
type Visitor struct {
	handlers Handlers
	resolver *Resolver
}

// New returns a visitor using h.
func New(h Handlers, opts ...Option) *Visitor {
	v := &Visitor{
		handlers: h,
		resolver: defaultResolver,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Filter classifies f and invokes the matching handler. A nil cb continues.
func Filter[Ctx any](v *Visitor, f pipe.Filter[Ctx], cb Callback) bool {
	return v.Visit(pipe.FilterNode(f), cb)
}

// Pipe invokes the pipe handler for p. A nil cb continues.
func Pipe[Ctx any](v *Visitor, p pipe.Pipe[Ctx], cb Callback) bool {
	return v.Visit(pipe.PipeNode(p), cb)
}

// Visit classifies n and invokes exactly one handler, returning its result.
// Filters over shaped contexts are classified by the adapter for the shape.
// It panics with a *ShapeError if no adapter can be built for the shape.
func (v *Visitor) Visit(n pipe.Node, cb Callback) bool {
	if cb == nil {
		cb = Continue
	}
	d := dispatcher{v: v, cb: cb}

	if n.IsPipe() {
		return d.Dispatch(pipe.Stage{Kind: pipe.KindPipe, Value: n.Value()})
	}

	if shape := n.Shape(); shape != nil {
		a, err := v.resolver.Resolve(shape)
		if err != nil {
			pipe.DefaultLogger().Error("pipewalk: cannot resolve adapter", "error", err)
			panic(err)
		}
		return a.Visit(d, n.Value())
	}

	s := pipe.Stage{Value: n.Value()}
	if _, ok := n.Value().(*pipe.MessageTypeFilter); ok {
		s.Kind = pipe.KindMessageType
	} else {
		s.Kind = pipe.TaggedKind(n.Value(), pipe.KindUnknown)
	}
	return d.Dispatch(s)
}

type dispatcher struct {
	v  *Visitor
	cb Callback
}

func (d dispatcher) Dispatch(s pipe.Stage) bool {
	h := d.v.handlers.get(s.Kind)
	if h == nil {
		return d.cb(d.v)
	}
	return h(d.v, s, d.cb)
}
