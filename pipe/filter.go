package pipe

import "context"

// Filter is a single pipeline stage. It receives a context and the rest of
// the pipeline; calling next.Send continues processing.
type Filter[Ctx any] interface {
	Send(ctx context.Context, c Ctx, next Pipe[Ctx]) error
}

// Pipe is an ordered composition of filters sharing the context type Ctx.
type Pipe[Ctx any] interface {
	Send(ctx context.Context, c Ctx) error
}

// FilterFunc adapts a function to a Filter.
type FilterFunc[Ctx any] func(ctx context.Context, c Ctx, next Pipe[Ctx]) error

// Send calls f.
func (f FilterFunc[Ctx]) Send(ctx context.Context, c Ctx, next Pipe[Ctx]) error {
	return f(ctx, c, next)
}

// PipeFunc adapts a function to a Pipe.
type PipeFunc[Ctx any] func(ctx context.Context, c Ctx) error

// Send calls f.
func (f PipeFunc[Ctx]) Send(ctx context.Context, c Ctx) error {
	return f(ctx, c)
}

// Empty returns a pipe that does nothing.
func Empty[Ctx any]() Pipe[Ctx] {
	return PipeFunc[Ctx](func(context.Context, Ctx) error { return nil })
}

// Chain is a Pipe sending contexts through its filters in order.
type Chain[Ctx any] struct {
	filters []Filter[Ctx]
}

// NewPipe returns a pipe composed of filters. A pipe without filters
// accepts every context.
func NewPipe[Ctx any](filters ...Filter[Ctx]) *Chain[Ctx] {
	return &Chain[Ctx]{filters: filters}
}

// Send sends c through all filters.
func (p *Chain[Ctx]) Send(ctx context.Context, c Ctx) error {
	return link[Ctx]{filters: p.filters}.Send(ctx, c)
}

// Filters returns the filters in order.
func (p *Chain[Ctx]) Filters() []Filter[Ctx] {
	return append([]Filter[Ctx](nil), p.filters...)
}

// Probe returns a node per filter.
func (p *Chain[Ctx]) Probe() []Node {
	nodes := make([]Node, len(p.filters))
	for i, f := range p.filters {
		nodes[i] = FilterNode(f)
	}
	return nodes
}

// link is the remainder of a chain, optionally followed by tail.
type link[Ctx any] struct {
	filters []Filter[Ctx]
	tail    Pipe[Ctx]
}

func (l link[Ctx]) Send(ctx context.Context, c Ctx) error {
	if len(l.filters) == 0 {
		if l.tail == nil {
			return nil
		}
		return l.tail.Send(ctx, c)
	}
	return l.filters[0].Send(ctx, c, link[Ctx]{filters: l.filters[1:], tail: l.tail})
}
