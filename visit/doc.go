// Package visit walks pipelines and classifies their stages.
//
// A [Visitor] holds one optional [Handler] per stage kind. Visiting a
// filter classifies it and invokes exactly one handler; a nil handler
// invokes the caller's [Callback] and returns its result. Handlers decide
// whether to continue by calling the callback, so any handler can stop a
// traversal by returning false.
//
//	v := visit.New(visit.Handlers{
//		Retry: func(v *visit.Visitor, s pipe.Stage, next visit.Callback) bool {
//			log.Printf("retry around %v", s.Message)
//			return next(v)
//		},
//	})
//	visit.Filter(v, filter, nil)
//
// Filters over shaped contexts (see pipe.Shape) are classified by an
// adapter specialized to the context's type arguments. Adapters are built
// on first use and cached by a [Resolver] for the lifetime of the process.
//
// [Visitor.Walk] descends into composite stages, and [Contains],
// [ConsumerTypes] and [Stages] are small tools built on it.
package visit
