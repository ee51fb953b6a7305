package daub

import (
	"errors"
	"fmt"
)

// ErrNoSpecs is returned when a tool is constructed without any passes.
var ErrNoSpecs = errors.New("daub: tool needs at least one pass")

// Tool is an immutable, ordered list of shader passes. Each pass consumes
// one input image and the gesture uniforms and produces one output image
// of the same resolution. Tools hold no mutable state; switching the
// active tool only changes which pass list the controller hands to the
// engine.
type Tool struct {
	name   string
	passes []*Program
}

// NewTool compiles every pass spec in order. Any compile failure aborts
// construction; a tool either exists with all passes valid or not at all.
func NewTool(name string, specs ...ProgramSpec) (*Tool, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w (tool %q)", ErrNoSpecs, name)
	}
	passes := make([]*Program, 0, len(specs))
	for _, spec := range specs {
		p, err := NewProgram(spec)
		if err != nil {
			return nil, fmt.Errorf("daub: tool %q: %w", name, err)
		}
		passes = append(passes, p)
	}
	return &Tool{name: name, passes: passes}, nil
}

// Name returns the tool name.
func (t *Tool) Name() string {
	return t.name
}

// PassCount returns the number of passes in the tool's chain.
func (t *Tool) PassCount() int {
	return len(t.passes)
}

// Passes returns the ordered pass list. The slice and its programs are
// immutable after construction.
func (t *Tool) Passes() []*Program {
	return t.passes
}
