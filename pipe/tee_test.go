package pipe_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fxsml/pipewalk/pipe"
)

func branch(r *recorder, name string) pipe.Pipe[int] {
	return pipe.PipeFunc[int](func(_ context.Context, c int) error {
		r.add(name)
		return nil
	})
}

func TestTee_SendsToAllBranches(t *testing.T) {
	r := &recorder{}
	tee := pipe.NewTee(branch(r, "a"), branch(r, "b"))
	p := pipe.NewPipe[int](tee, recordFilter[int](r, "next"))

	if err := p.Send(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := r.get()
	if calls[len(calls)-1] != "next" {
		t.Errorf("expected next after branches, got %v", calls)
	}
	sort.Strings(calls)
	if diff := cmp.Diff([]string{"a", "b", "next"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_ConnectDisconnect(t *testing.T) {
	r := &recorder{}
	tee := pipe.NewTee[int]()
	disconnect := tee.Connect(branch(r, "a"))
	tee.Connect(branch(r, "b"))

	if got := len(tee.Branches()); got != 2 {
		t.Fatalf("expected 2 branches, got %d", got)
	}

	disconnect()
	disconnect()

	if got := len(tee.Branches()); got != 1 {
		t.Fatalf("expected 1 branch, got %d", got)
	}
	if err := tee.Send(context.Background(), 1, pipe.Empty[int]()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, r.get()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTee_BranchError(t *testing.T) {
	want := errors.New("branch failed")
	r := &recorder{}
	tee := pipe.NewTee(pipe.PipeFunc[int](func(context.Context, int) error { return want }))

	err := tee.Send(context.Background(), 1, branch(r, "next"))
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if len(r.get()) != 0 {
		t.Errorf("expected next not to be called, got %v", r.get())
	}
}

func TestTee_Probe(t *testing.T) {
	tee := pipe.NewTee(pipe.Empty[int](), pipe.Empty[int]())

	nodes := tee.Probe()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	for _, n := range nodes {
		if !n.IsPipe() {
			t.Errorf("expected pipe node")
		}
		if n.Shape() != nil {
			t.Errorf("expected no shape for int context")
		}
	}
}
