package pipe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fxsml/pipewalk/message"
	"github.com/fxsml/pipewalk/pipe"
)

type refund struct {
	Order string
}

func received(msgType, payload string) *pipe.ReceiveContext {
	return pipe.NewReceiveContext(message.New([]byte(payload), message.Properties{message.PropType: msgType}))
}

func orderHandler(r *recorder, name string) pipe.Pipe[*pipe.ConsumeContext[order]] {
	return pipe.NewPipe[*pipe.ConsumeContext[order]](pipe.NewHandler(func(_ context.Context, c *pipe.ConsumeContext[order]) error {
		r.add(name + ":" + c.Message().Payload.ID)
		return nil
	}))
}

func TestMessageType_Routes(t *testing.T) {
	r := &recorder{}
	f := pipe.NewMessageType()
	pipe.ConnectMessageType(f, "order.placed", orderHandler(r, "placed"))
	pipe.ConnectMessageType(f, "order.placed", orderHandler(r, "audit"))
	pipe.ConnectMessageType(f, "order.refunded", pipe.NewPipe[*pipe.ConsumeContext[refund]](pipe.NewHandler(func(_ context.Context, c *pipe.ConsumeContext[refund]) error {
		r.add("refunded:" + c.Message().Payload.Order)
		return nil
	})))
	p := pipe.NewPipe[*pipe.ReceiveContext](f, recordFilter[*pipe.ReceiveContext](r, "next"))

	if err := p.Send(context.Background(), received("order.placed", `{"ID":"1"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Send(context.Background(), received("order.refunded", `{"Order":"1"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"placed:1", "audit:1", "next", "refunded:1", "next"}
	if diff := cmp.Diff(want, r.get()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageType_Unmatched(t *testing.T) {
	r := &recorder{}
	f := pipe.NewMessageType()
	pipe.ConnectMessageType(f, "order.placed", orderHandler(r, "placed"))
	p := pipe.NewPipe[*pipe.ReceiveContext](f, recordFilter[*pipe.ReceiveContext](r, "next"))

	if err := p.Send(context.Background(), received("order.shipped", `not json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"next"}, r.get()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageType_DecodeError(t *testing.T) {
	r := &recorder{}
	f := pipe.NewMessageType()
	pipe.ConnectMessageType(f, "order.placed", orderHandler(r, "placed"))
	p := pipe.NewPipe[*pipe.ReceiveContext](f, recordFilter[*pipe.ReceiveContext](r, "next"))

	err := p.Send(context.Background(), received("order.placed", `{`))
	if !errors.Is(err, pipe.ErrMessageType) {
		t.Errorf("expected ErrMessageType, got %v", err)
	}
	if got := r.get(); len(got) != 0 {
		t.Errorf("expected no calls, got %v", got)
	}
}

func TestMessageType_Disconnect(t *testing.T) {
	r := &recorder{}
	f := pipe.NewMessageType()
	disconnect := pipe.ConnectMessageType(f, "order.placed", orderHandler(r, "placed"))
	pipe.ConnectMessageType(f, "order.refunded", orderHandler(r, "refunded"))

	if diff := cmp.Diff([]string{"order.placed", "order.refunded"}, f.MessageTypes()); diff != "" {
		t.Errorf("message types mismatch (-want +got):\n%s", diff)
	}
	if got := len(f.Probe()); got != 2 {
		t.Errorf("expected 2 nested pipes, got %d", got)
	}

	disconnect()
	disconnect()

	if diff := cmp.Diff([]string{"order.refunded"}, f.MessageTypes()); diff != "" {
		t.Errorf("message types mismatch (-want +got):\n%s", diff)
	}
	if err := f.Send(context.Background(), received("order.placed", `{"ID":"1"}`), pipe.NewPipe[*pipe.ReceiveContext]()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.get(); len(got) != 0 {
		t.Errorf("expected no calls after disconnect, got %v", got)
	}
}

func TestMessageType_Children(t *testing.T) {
	f := pipe.NewMessageType()
	pipe.ConnectMessageType(f, "order.placed", pipe.NewPipe[*pipe.ConsumeContext[order]]())

	n := pipe.FilterNode[*pipe.ReceiveContext](f)
	if got := f.Kind(); got != pipe.KindMessageType {
		t.Errorf("expected kind %v, got %v", pipe.KindMessageType, got)
	}
	children := n.Children()
	if len(children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(children))
	}
	if !children[0].IsPipe() {
		t.Error("expected the child to be a pipe")
	}
	if children[0].Shape() == nil {
		t.Error("expected the child to keep its context shape")
	}
}
