package visit

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/fxsml/pipewalk/pipe"
)

// Resolver caches adapters by key. The cache only grows; its size is
// bounded by the context types of the running program.
type Resolver struct {
	adapters sync.Map // pipe.Key -> pipe.Adapter
	group    singleflight.Group
	size     atomic.Int64
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

var defaultResolver = NewResolver()

// DefaultResolver returns the process-wide resolver used by visitors
// created without [WithResolver].
func DefaultResolver() *Resolver {
	return defaultResolver
}

// Resolve returns the adapter for s, building it on first use. It returns
// a *ShapeError if the key is invalid or the built adapter does not match it.
func (r *Resolver) Resolve(s pipe.Shape) (pipe.Adapter, error) {
	key := s.Key()
	if a, ok := r.adapters.Load(key); ok {
		return a.(pipe.Adapter), nil
	}
	if err := key.Validate(); err != nil {
		return nil, &ShapeError{Key: key, Reason: err.Error()}
	}

	a, err, _ := r.group.Do(groupKey(key), func() (any, error) {
		if a, ok := r.adapters.Load(key); ok {
			return a, nil
		}
		a := s.NewAdapter()
		if a == nil {
			return nil, &ShapeError{Key: key, Reason: "no adapter"}
		}
		if got := a.Key(); got != key {
			return nil, &ShapeError{Key: key, Reason: fmt.Sprintf("adapter closes %s", got)}
		}
		actual, loaded := r.adapters.LoadOrStore(key, a)
		if !loaded {
			r.size.Add(1)
			pipe.DefaultLogger().Debug("pipewalk: adapter resolved", "key", key.String())
		}
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return a.(pipe.Adapter), nil
}

// Len returns the number of cached adapters.
func (r *Resolver) Len() int {
	return int(r.size.Load())
}

// Keys returns the keys of all cached adapters in no particular order.
func (r *Resolver) Keys() []pipe.Key {
	var keys []pipe.Key
	r.adapters.Range(func(k, _ any) bool {
		keys = append(keys, k.(pipe.Key))
		return true
	})
	return keys
}

// groupKey identifies key by type identity rather than type name.
func groupKey(key pipe.Key) string {
	return fmt.Sprintf("%d/%p/%p", key.Family, key.Consumer, key.Message)
}
