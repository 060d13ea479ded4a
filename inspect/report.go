// Package inspect renders the stage tree of a pipeline as a report.
package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/fxsml/pipewalk/pipe"
	"github.com/fxsml/pipewalk/visit"
)

// Report describes a stage and the stages nested in it.
type Report struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Type     string    `json:"type" yaml:"type"`
	Consumer string    `json:"consumer,omitempty" yaml:"consumer,omitempty"`
	Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
	Retry    *Retry    `json:"retry,omitempty" yaml:"retry,omitempty"`
	Children []*Report `json:"children,omitempty" yaml:"children,omitempty"`
}

// Retry describes the policy of a retry stage.
type Retry struct {
	MaxAttempts int    `json:"maxAttempts" yaml:"maxAttempts"`
	Timeout     string `json:"timeout" yaml:"timeout"`
}

type retryConfigured interface {
	Config() pipe.RetryConfig
}

// Build walks n and returns its report.
func Build(n pipe.Node, opts ...visit.Option) *Report {
	b := &builder{stack: []*Report{{}}}
	visit.New(visit.Each(b.handle), opts...).Walk(n)
	return b.stack[0].Children[0]
}

type builder struct {
	stack []*Report
}

func (b *builder) handle(v *visit.Visitor, s pipe.Stage, cb visit.Callback) bool {
	r := newReport(s)
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, r)

	b.stack = append(b.stack, r)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()
	return cb(v)
}

func newReport(s pipe.Stage) *Report {
	r := &Report{
		Kind:     s.Kind.String(),
		Type:     typeName(reflect.TypeOf(s.Value)),
		Consumer: typeName(s.Consumer),
		Message:  typeName(s.Message),
	}
	if rc, ok := s.Value.(retryConfigured); ok && s.Kind == pipe.KindRetry {
		cfg := rc.Config()
		r.Retry = &Retry{MaxAttempts: cfg.MaxAttempts, Timeout: cfg.Timeout.String()}
	}
	return r
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// Count returns the number of stages of each kind in the report.
func (r *Report) Count() map[string]int {
	counts := make(map[string]int)
	var count func(*Report)
	count = func(r *Report) {
		counts[r.Kind]++
		for _, c := range r.Children {
			count(c)
		}
	}
	count(r)
	return counts
}

// Format is a report encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for formats other than yaml and json.
var ErrUnknownFormat = errors.New("inspect: unknown format")

// Encode writes r to w in format f.
func (r *Report) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("inspect: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("inspect: encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
