package visit

import (
	"errors"
	"fmt"

	"github.com/fxsml/pipewalk/pipe"
)

// ErrShapeMismatch indicates type arguments that do not close the expected
// context shape. It is a pipeline assembly bug and is not retried.
var ErrShapeMismatch = errors.New("pipewalk: shape mismatch")

// ShapeError reports the offending adapter key.
type ShapeError struct {
	Key    pipe.Key
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrShapeMismatch, e.Key, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
