package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// ErrNilEvent is returned when converting a nil event or message.
var ErrNilEvent = errors.New("message: nil event")

var eventAttributes = map[string]struct{}{
	PropID:          {},
	PropType:        {},
	PropSource:      {},
	PropSubject:     {},
	PropTime:        {},
	PropContentType: {},
	"specversion":   {},
	"dataschema":    {},
}

// FromEvent converts a CloudEvent into a Message. Standard attributes and
// extensions become properties, event data becomes the payload.
func FromEvent(e *cloudevents.Event, ack func(), nack func(error)) (*Message, error) {
	if e == nil {
		return nil, ErrNilEvent
	}
	props := Properties{
		PropID:        e.ID(),
		PropType:      e.Type(),
		PropSource:    e.Source(),
		"specversion": e.SpecVersion(),
	}
	if ct := e.DataContentType(); ct != "" {
		props[PropContentType] = ct
	}
	if ds := e.DataSchema(); ds != "" {
		props["dataschema"] = ds
	}
	if subj := e.Subject(); subj != "" {
		props[PropSubject] = subj
	}
	if t := e.Time(); !t.IsZero() {
		props[PropTime] = t.UTC().Format(time.RFC3339)
	}
	for k, v := range e.Extensions() {
		props[k] = v
	}

	var data []byte
	if b := e.Data(); len(b) > 0 {
		data = append([]byte(nil), b...)
	}
	return NewWithAcking(data, props, ack, nack), nil
}

// ToEvent converts a Message into a CloudEvent. Properties that are not
// CloudEvents attributes are set as extensions.
func ToEvent(msg *Message) (*cloudevents.Event, error) {
	if msg == nil {
		return nil, ErrNilEvent
	}
	e := cloudevents.NewEvent()
	e.SetID(msg.ID())
	e.SetType(msg.Type())
	e.SetSource(msg.Properties.String(PropSource))
	if v := msg.Properties.String("specversion"); v != "" {
		e.SetSpecVersion(v)
	}
	if v := msg.Properties.String(PropSubject); v != "" {
		e.SetSubject(v)
	}
	if v := msg.Properties.String("dataschema"); v != "" {
		e.SetDataSchema(v)
	}
	if v := msg.Properties.String(PropTime); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			e.SetTime(t)
		}
	}
	for k, v := range msg.Properties {
		if _, ok := eventAttributes[k]; ok {
			continue
		}
		e.SetExtension(k, v)
	}

	ct := msg.Properties.String(PropContentType)
	if msg.Payload != nil {
		var err error
		if ct == cloudevents.ApplicationJSON && json.Valid(msg.Payload) {
			err = e.SetData(ct, json.RawMessage(msg.Payload))
		} else {
			err = e.SetData(ct, msg.Payload)
		}
		if err != nil {
			return nil, fmt.Errorf("message: set event data: %w", err)
		}
	}
	return &e, nil
}

// Decode unmarshals a JSON payload into a typed message that shares the
// properties and acknowledgment of msg.
func Decode[T any](msg *Message) (*TypedMessage[T], error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return nil, fmt.Errorf("message: decode %T: %w", v, err)
	}
	return Copy(msg, v), nil
}
