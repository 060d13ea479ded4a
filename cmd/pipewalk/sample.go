package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxsml/pipewalk/config"
	"github.com/fxsml/pipewalk/pipe"
)

const orderPlacedType = "order.placed"

type orderPlaced struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

type orderContext = *pipe.ConsumeContext[orderPlaced]

var errInvalidOrder = errors.New("invalid order")

type orderConsumer struct {
	out     io.Writer
	handled int
}

func (c *orderConsumer) Consume(_ context.Context, cc orderContext) error {
	c.handled++
	order := cc.Message().Payload
	fmt.Fprintf(c.out, "consumed order %s (%.2f)\n", order.ID, order.Amount)
	return nil
}

var defaultRetry = config.Retry{
	MaxAttempts: 3,
	Timeout:     10 * time.Second,
	Delay:       100 * time.Millisecond,
	Factor:      2,
	MaxDelay:    time.Second,
	Jitter:      0.2,
}

func loadRetry(stage string) (pipe.RetryConfig, error) {
	r, err := config.LoadRetry(stage, defaultRetry)
	if err != nil {
		return pipe.RetryConfig{}, err
	}
	cfg := r.RetryConfig()
	cfg.ShouldRetry = pipe.ShouldNotRetry(errInvalidOrder)
	return cfg, nil
}

// newOrderPipeline validates orders under a retry policy, audits them on a
// tee branch and hands them to an order consumer.
func newOrderPipeline(out io.Writer, retry pipe.RetryConfig) *pipe.Chain[orderContext] {
	validate := pipe.NewHandler(func(_ context.Context, c orderContext) error {
		if c.Message().Payload.ID == "" {
			return fmt.Errorf("%w: missing id", errInvalidOrder)
		}
		return nil
	})
	audit := pipe.NewPipe[orderContext](pipe.NewHandler(func(_ context.Context, c orderContext) error {
		fmt.Fprintf(out, "audited message %s\n", c.Message().ID())
		return nil
	}))
	announce := pipe.FilterFunc[*pipe.ConsumerContext[*orderConsumer]](
		func(ctx context.Context, c *pipe.ConsumerContext[*orderConsumer], next pipe.Pipe[*pipe.ConsumerContext[*orderConsumer]]) error {
			fmt.Fprintf(out, "bound consumer %T\n", c.Consumer())
			return next.Send(ctx, c)
		})

	return pipe.NewPipe[orderContext](
		pipe.NewRetry[orderContext](validate, retry),
		pipe.NewTee[orderContext](audit),
		pipe.ConsumeWith[*orderConsumer, orderPlaced](
			func(context.Context) (*orderConsumer, error) {
				return &orderConsumer{out: out}, nil
			},
			pipe.NewSplit[*orderConsumer, orderPlaced](announce),
		),
	)
}

// newReceivePipeline routes received messages by type into the order
// pipeline. Messages of other types only reach the trailing log filter.
func newReceivePipeline(out io.Writer, retry pipe.RetryConfig) *pipe.Chain[*pipe.ReceiveContext] {
	router := pipe.NewMessageType()
	pipe.ConnectMessageType[orderPlaced](router, orderPlacedType, newOrderPipeline(out, retry))

	received := pipe.FilterFunc[*pipe.ReceiveContext](
		func(ctx context.Context, c *pipe.ReceiveContext, next pipe.Pipe[*pipe.ReceiveContext]) error {
			fmt.Fprintf(out, "received message %s of type %s\n", c.Message().ID(), c.Message().Type())
			return next.Send(ctx, c)
		})
	return pipe.NewPipe[*pipe.ReceiveContext](router, received)
}
