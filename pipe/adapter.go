package pipe

import "reflect"

// consumerMessageStage matches any specialization of ConsumerMessageFilter.
type consumerMessageStage interface {
	Kinded
	ConsumerType() reflect.Type
}

// TaggedKind returns the kind a filter reports through [Kinded] if it is
// one of the wrappers recognized over any context type (tee, retry), and
// fallback otherwise. Adapters use it for wrappers over context types
// embedding a shaped context.
func TaggedKind(filter any, fallback Kind) Kind {
	if k, ok := filter.(Kinded); ok {
		switch kind := k.Kind(); kind {
		case KindTee, KindRetry:
			return kind
		}
	}
	return fallback
}

type messageAdapter[T any] struct {
	key Key
}

func (a *messageAdapter[T]) Key() Key {
	return a.key
}

func (a *messageAdapter[T]) Visit(d Dispatcher, filter any) bool {
	s := Stage{Value: filter, Message: a.key.Message}
	switch f := filter.(type) {
	case *TeeFilter[*ConsumeContext[T]]:
		s.Kind = KindTee
	case *HandlerFilter[T]:
		s.Kind = KindHandler
	case *RetryFilter[*ConsumeContext[T]]:
		s.Kind = KindRetry
	case consumerMessageStage:
		if f.Kind() == KindConsumerMessage {
			s.Kind = KindConsumerMessage
			s.Consumer = f.ConsumerType()
		}
	default:
		s.Kind = TaggedKind(filter, KindUnknown)
	}
	return d.Dispatch(s)
}

type consumerAdapter[C any] struct {
	key Key
}

func (a *consumerAdapter[C]) Key() Key {
	return a.key
}

func (a *consumerAdapter[C]) Visit(d Dispatcher, filter any) bool {
	s := Stage{Value: filter, Consumer: a.key.Consumer, Kind: KindConsumer}
	switch filter.(type) {
	case *TeeFilter[*ConsumerContext[C]]:
		s.Kind = KindTee
	case *RetryFilter[*ConsumerContext[C]]:
		s.Kind = KindRetry
	default:
		s.Kind = TaggedKind(filter, KindConsumer)
	}
	return d.Dispatch(s)
}

type consumerMessageAdapter[C, T any] struct {
	key Key
}

func (a *consumerMessageAdapter[C, T]) Key() Key {
	return a.key
}

func (a *consumerMessageAdapter[C, T]) Visit(d Dispatcher, filter any) bool {
	s := Stage{
		Value:    filter,
		Consumer: a.key.Consumer,
		Message:  a.key.Message,
		Kind:     KindConsumerConsume,
	}
	switch filter.(type) {
	case *SplitFilter[C, T]:
		s.Kind = KindSplit
	case *MethodConsumerFilter[C, T]:
		s.Kind = KindMethodConsumer
	case *RetryFilter[*ConsumerConsumeContext[C, T]]:
		s.Kind = KindRetry
	default:
		s.Kind = TaggedKind(filter, KindConsumerConsume)
	}
	return d.Dispatch(s)
}
