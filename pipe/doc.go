// Package pipe provides the filter and pipe contracts, the typed contexts
// that flow through them and the catalog of recognized stages.
//
// A [Filter] receives a context and the rest of the pipeline as a [Pipe].
// Contexts are typed envelopes: [ConsumeContext] carries a message,
// [ConsumerContext] carries a consumer and [ConsumerConsumeContext] carries
// both. A consumer+message context is also a [MessageContext] for its
// message type.
//
// # Stages
//
// Plain filters: [FilterFunc]
//
// Wrappers: [RetryFilter], [TeeFilter]
//
// Message-bound: [HandlerFilter], [ConsumerMessageFilter]
//
// Consumer-bound: [MethodConsumerFilter], [SplitFilter]
//
// Untyped: [MessageTypeFilter] over [ReceiveContext]
//
// # Shapes
//
// Each context type reports the type arguments it closes over through a
// [Shape]. The shape is read from the zero value of the context type by
// [ShapeOf], so shape methods must not dereference their receiver. A shape
// builds an [Adapter], which classifies a filter using the concrete type
// arguments and hands the resulting [Stage] to a [Dispatcher]. The visit
// package caches adapters per [Key].
//
// Composite stages implement [Prober] to expose nested filters and pipes
// as type-erased [Node] values that keep their context shape.
package pipe
