package main

import (
	"encoding/json"
	"fmt"
	"os"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/spf13/cobra"

	"github.com/fxsml/pipewalk/message"
	"github.com/fxsml/pipewalk/pipe"
)

var sendFlags struct {
	file      string
	data      string
	eventType string
	source    string
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a CloudEvent through the sample pipeline",
	RunE:  runSend,
}

func init() {
	f := sendCmd.Flags()
	f.StringVar(&sendFlags.file, "file", "", "Path to a CloudEvent in JSON format")
	f.StringVar(&sendFlags.data, "data", "", "Order payload in JSON format")
	f.StringVar(&sendFlags.eventType, "type", orderPlacedType, "Event type")
	f.StringVar(&sendFlags.source, "source", "pipewalk", "Event source")

	sendCmd.MarkFlagsOneRequired("file", "data")
	sendCmd.MarkFlagsMutuallyExclusive("file", "data")
}

func runSend(cmd *cobra.Command, _ []string) error {
	event, err := readEvent()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	raw, err := message.FromEvent(event,
		func() { fmt.Fprintf(out, "acked %s\n", event.ID()) },
		func(err error) { fmt.Fprintf(out, "nacked %s: %v\n", event.ID(), err) },
	)
	if err != nil {
		return err
	}
	retry, err := loadRetry(rootFlags.stage)
	if err != nil {
		raw.Nack(err)
		return fmt.Errorf("load retry config: %w", err)
	}
	p := newReceivePipeline(out, retry)
	if err := p.Send(cmd.Context(), pipe.NewReceiveContext(raw)); err != nil {
		raw.Nack(err)
		return err
	}
	raw.Ack()
	return nil
}

func readEvent() (*cloudevents.Event, error) {
	if sendFlags.file != "" {
		data, err := os.ReadFile(sendFlags.file)
		if err != nil {
			return nil, fmt.Errorf("read event: %w", err)
		}
		event := cloudevents.NewEvent()
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("parse event: %w", err)
		}
		return &event, nil
	}

	event := cloudevents.NewEvent()
	event.SetID(message.NewID())
	event.SetType(sendFlags.eventType)
	event.SetSource(sendFlags.source)
	if err := event.SetData(cloudevents.ApplicationJSON, json.RawMessage(sendFlags.data)); err != nil {
		return nil, fmt.Errorf("set event data: %w", err)
	}
	return &event, nil
}
