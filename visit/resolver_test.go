package visit_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fxsml/pipewalk/pipe"
	"github.com/fxsml/pipewalk/visit"
)

type audit struct{}

var built atomic.Int32

// countingShape counts the adapters it builds.
type countingShape struct {
	pipe.Shape
}

func (s countingShape) NewAdapter() pipe.Adapter {
	built.Add(1)
	return s.Shape.NewAdapter()
}

type countedContext struct{}

func (*countedContext) MessageShape() pipe.Shape {
	return countingShape{pipe.ShapeOf[*pipe.ConsumeContext[audit]]()}
}

type mismatchedShape struct{}

func (mismatchedShape) Key() pipe.Key {
	return pipe.ShapeOf[*pipe.ConsumeContext[order]]().Key()
}

func (mismatchedShape) NewAdapter() pipe.Adapter {
	return pipe.ShapeOf[*pipe.ConsumeContext[int]]().NewAdapter()
}

type mismatchedContext struct{}

func (*mismatchedContext) MessageShape() pipe.Shape {
	return mismatchedShape{}
}

type invalidShape struct {
	pipe.Shape
}

func (invalidShape) Key() pipe.Key {
	return pipe.Key{Family: pipe.FamilyConsumerMessage, Message: pipe.ShapeOf[*pipe.ConsumeContext[order]]().Key().Message}
}

func TestResolver_Caches(t *testing.T) {
	r := visit.NewResolver()
	v := visit.New(visit.Handlers{}, visit.WithResolver(r))
	before := built.Load()

	for range 5 {
		visit.Filter[*countedContext](v, pass[*countedContext](), nil)
	}

	if got := built.Load() - before; got != 1 {
		t.Errorf("expected 1 adapter to be built, got %d", got)
	}
	if got := r.Len(); got != 1 {
		t.Errorf("expected 1 cached adapter, got %d", got)
	}
}

func TestResolver_ConcurrentFirstUse(t *testing.T) {
	r := visit.NewResolver()
	shape := pipe.ShapeOf[*countedContext]()
	before := built.Load()

	adapters := make([]pipe.Adapter, 64)
	var wg sync.WaitGroup
	for i := range adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := r.Resolve(shape)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			adapters[i] = a
		}()
	}
	wg.Wait()

	if got := built.Load() - before; got != 1 {
		t.Errorf("expected 1 adapter to be built, got %d", got)
	}
	for i, a := range adapters {
		if a != adapters[0] {
			t.Errorf("adapter %d differs from the first", i)
		}
	}
}

func TestResolver_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		shape pipe.Shape
	}{
		{"adapter key differs", mismatchedShape{}},
		{"invalid key", invalidShape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := visit.NewResolver()
			a, err := r.Resolve(tt.shape)
			if a != nil {
				t.Error("expected no adapter")
			}
			var shapeErr *visit.ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected *ShapeError, got %v", err)
			}
			if shapeErr.Key != tt.shape.Key() {
				t.Errorf("expected key %v, got %v", tt.shape.Key(), shapeErr.Key)
			}
			if !errors.Is(err, visit.ErrShapeMismatch) {
				t.Errorf("expected ErrShapeMismatch, got %v", err)
			}
			if r.Len() != 0 {
				t.Error("expected nothing to be cached")
			}
		})
	}
}

func TestVisitor_ShapeMismatchPanics(t *testing.T) {
	v := visit.New(visit.Handlers{}, visit.WithResolver(visit.NewResolver()))

	defer func() {
		err, ok := recover().(error)
		if !ok {
			t.Fatal("expected a panic with an error")
		}
		if !errors.Is(err, visit.ErrShapeMismatch) {
			t.Errorf("expected ErrShapeMismatch, got %v", err)
		}
	}()
	visit.Filter[*mismatchedContext](v, pass[*mismatchedContext](), nil)
}

type recordLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordLogger) Error(msg string, _ ...any) { l.record(msg) }

func TestResolver_LogsThroughPipeLogger(t *testing.T) {
	prev := pipe.DefaultLogger()
	t.Cleanup(func() { pipe.SetDefaultLogger(prev) })
	l := &recordLogger{}
	pipe.SetDefaultLogger(l)

	r := visit.NewResolver()
	if _, err := r.Resolve(pipe.ShapeOf[*pipe.ConsumeContext[audit]]()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.msgs) != 1 || l.msgs[0] != "pipewalk: adapter resolved" {
		t.Errorf("expected one resolve log entry, got %v", l.msgs)
	}
}
