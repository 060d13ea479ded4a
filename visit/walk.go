package visit

import (
	"reflect"

	"github.com/fxsml/pipewalk/pipe"
)

// Walk visits n and, when its handler continues, every node nested in it,
// depth first. It returns false as soon as a handler stops.
func (v *Visitor) Walk(n pipe.Node) bool {
	return v.Visit(n, func(v *Visitor) bool {
		for _, child := range n.Children() {
			if !v.Walk(child) {
				return false
			}
		}
		return true
	})
}

// WalkPipe walks p and everything nested in it.
func WalkPipe[Ctx any](v *Visitor, p pipe.Pipe[Ctx]) bool {
	return v.Walk(pipe.PipeNode(p))
}

// WalkFilter walks f and everything nested in it.
func WalkFilter[Ctx any](v *Visitor, f pipe.Filter[Ctx]) bool {
	return v.Walk(pipe.FilterNode(f))
}

// Contains reports whether a stage of kind k is reachable from n.
func Contains(n pipe.Node, k pipe.Kind, opts ...Option) bool {
	var found bool
	v := New(Each(func(v *Visitor, s pipe.Stage, cb Callback) bool {
		if s.Kind == k {
			found = true
			return false
		}
		return cb(v)
	}), opts...)
	v.Walk(n)
	return found
}

// ConsumerTypes returns the distinct consumer types reachable from n in
// traversal order.
func ConsumerTypes(n pipe.Node, opts ...Option) []reflect.Type {
	var types []reflect.Type
	seen := make(map[reflect.Type]bool)
	v := New(Each(func(v *Visitor, s pipe.Stage, cb Callback) bool {
		if s.Consumer != nil && !seen[s.Consumer] {
			seen[s.Consumer] = true
			types = append(types, s.Consumer)
		}
		return cb(v)
	}), opts...)
	v.Walk(n)
	return types
}

// Stages returns every stage reachable from n, depth first.
func Stages(n pipe.Node, opts ...Option) []pipe.Stage {
	var stages []pipe.Stage
	v := New(Each(func(v *Visitor, s pipe.Stage, cb Callback) bool {
		stages = append(stages, s)
		return cb(v)
	}), opts...)
	v.Walk(n)
	return stages
}
