package pipe

import (
	"context"
	"fmt"
	"sync"

	"github.com/fxsml/pipewalk/message"
)

type messageRoute struct {
	id      uint64
	msgType string
	node    Node
	send    func(ctx context.Context, msg *message.Message) error
}

// MessageTypeFilter decodes received messages and sends them to the typed
// pipes connected for their message type, then continues with the rest of
// the pipeline. Messages of a type without pipes pass through unchanged.
type MessageTypeFilter struct {
	mu     sync.RWMutex
	nextID uint64
	routes []messageRoute
}

// NewMessageType returns a message type filter without pipes.
func NewMessageType() *MessageTypeFilter {
	return &MessageTypeFilter{}
}

// ConnectMessageType connects p for messages of msgType. Payloads are
// decoded from JSON into T. It returns a function disconnecting p.
func ConnectMessageType[T any](f *MessageTypeFilter, msgType string, p Pipe[*ConsumeContext[T]]) (disconnect func()) {
	send := func(ctx context.Context, msg *message.Message) error {
		typed, err := message.Decode[T](msg)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrMessageType, msgType, err)
		}
		return p.Send(ctx, NewConsumeContext(typed))
	}

	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.routes = append(f.routes, messageRoute{id: id, msgType: msgType, node: PipeNode(p), send: send})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { f.disconnect(id) })
	}
}

func (f *MessageTypeFilter) disconnect(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.routes {
		if r.id == id {
			f.routes = append(f.routes[:i:i], f.routes[i+1:]...)
			return
		}
	}
}

func (f *MessageTypeFilter) snapshot() []messageRoute {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]messageRoute(nil), f.routes...)
}

// MessageTypes returns the distinct message types with connected pipes in
// connection order.
func (f *MessageTypeFilter) MessageTypes() []string {
	var types []string
	seen := make(map[string]bool)
	for _, r := range f.snapshot() {
		if !seen[r.msgType] {
			seen[r.msgType] = true
			types = append(types, r.msgType)
		}
	}
	return types
}

// Kind returns KindMessageType.
func (*MessageTypeFilter) Kind() Kind {
	return KindMessageType
}

// Probe returns a node per connected pipe.
func (f *MessageTypeFilter) Probe() []Node {
	routes := f.snapshot()
	nodes := make([]Node, len(routes))
	for i, r := range routes {
		nodes[i] = r.node
	}
	return nodes
}

// Send sends the message in c to every pipe connected for its type in
// connection order, then c to next. The first error stops sending.
func (f *MessageTypeFilter) Send(ctx context.Context, c *ReceiveContext, next Pipe[*ReceiveContext]) error {
	msgType := c.Message().Type()
	for _, r := range f.snapshot() {
		if r.msgType != msgType {
			continue
		}
		if err := r.send(ctx, c.Message()); err != nil {
			return err
		}
	}
	return next.Send(ctx, c)
}

var _ Filter[*ReceiveContext] = (*MessageTypeFilter)(nil)
