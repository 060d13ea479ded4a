package pipe

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type teeBranch[Ctx any] struct {
	id   uint64
	pipe Pipe[Ctx]
}

// TeeFilter sends each context to all connected branches concurrently
// before continuing with the rest of the pipeline. Branches can be
// connected and disconnected at runtime.
type TeeFilter[Ctx any] struct {
	mu       sync.RWMutex
	nextID   uint64
	branches []teeBranch[Ctx]
}

// NewTee returns a tee connected to branches.
func NewTee[Ctx any](branches ...Pipe[Ctx]) *TeeFilter[Ctx] {
	t := &TeeFilter[Ctx]{}
	for _, b := range branches {
		t.Connect(b)
	}
	return t
}

// Connect adds a branch and returns a function disconnecting it.
func (t *TeeFilter[Ctx]) Connect(p Pipe[Ctx]) (disconnect func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.branches = append(t.branches, teeBranch[Ctx]{id: id, pipe: p})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { t.disconnect(id) })
	}
}

func (t *TeeFilter[Ctx]) disconnect(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, b := range t.branches {
		if b.id == id {
			t.branches = append(t.branches[:i:i], t.branches[i+1:]...)
			return
		}
	}
}

// Branches returns the connected branches in connection order.
func (t *TeeFilter[Ctx]) Branches() []Pipe[Ctx] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	pipes := make([]Pipe[Ctx], len(t.branches))
	for i, b := range t.branches {
		pipes[i] = b.pipe
	}
	return pipes
}

// Kind returns KindTee.
func (*TeeFilter[Ctx]) Kind() Kind {
	return KindTee
}

// Probe returns a node per branch.
func (t *TeeFilter[Ctx]) Probe() []Node {
	branches := t.Branches()
	nodes := make([]Node, len(branches))
	for i, b := range branches {
		nodes[i] = PipeNode(b)
	}
	return nodes
}

// Send sends c to every branch and then to next. The first branch error
// cancels the remaining branches and is returned.
func (t *TeeFilter[Ctx]) Send(ctx context.Context, c Ctx, next Pipe[Ctx]) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range t.Branches() {
		g.Go(func() error {
			return b.Send(gctx, c)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return next.Send(ctx, c)
}
