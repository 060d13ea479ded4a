// Package message provides the typed envelope that flows through a pipeline.
//
// [TypedMessage] carries a payload, a property map and optional ack/nack
// callbacks. [Message] is the []byte variant produced by transports; use
// [Decode] to obtain a typed message and [FromEvent]/[ToEvent] to convert
// between messages and CloudEvents.
//
// Every message carries an id property. [New] assigns a UUID when the
// caller does not provide one.
package message
