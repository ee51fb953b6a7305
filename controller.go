package daub

import (
	"errors"
	"fmt"
	"image"
)

// Controller errors.
var (
	// ErrUnknownTool is returned when selecting an id with no bound tool.
	ErrUnknownTool = errors.New("daub: no tool bound to id")
)

// Controller binds gesture input to engine invocation once per display
// frame. It owns the single active-tool reference and is the sole router
// of input events; tools never register their own listeners.
//
// Like the engine, the controller is single-threaded: input handlers and
// RenderFrame must run on the same serialized event/frame loop.
type Controller struct {
	engine  *Engine
	tracker *Tracker

	tools  map[string]*Tool
	active string

	// latched is the pass list captured at drag start. An in-flight drag
	// previews and commits with the tool it began with; selecting another
	// tool only affects future drags.
	latched []*Program

	dirty bool
}

// NewController creates a controller for the engine. Bind tools with
// WithTool options or Bind; the first bound tool becomes active.
func NewController(engine *Engine, opts ...ControllerOption) *Controller {
	c := &Controller{
		engine: engine,
		tools:  make(map[string]*Tool),
		dirty:  true, // render the initial source once
	}
	c.tracker = NewTracker(c.MarkDirty)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind associates a tool with a short identifier (keyboard key or UI
// element id), replacing any previous binding. The first binding becomes
// the active tool.
func (c *Controller) Bind(id string, tool *Tool) {
	c.tools[id] = tool
	if c.active == "" {
		c.active = id
	}
}

// Select makes the tool bound to id the active tool. Re-selecting the
// active tool is a no-op. Selection never mutates tool data and never
// affects a drag already in flight.
func (c *Controller) Select(id string) error {
	if id == c.active {
		return nil
	}
	if _, ok := c.tools[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	c.active = id
	Logger().Debug("tool selected", "id", id)
	return nil
}

// ActiveTool returns the id of the active tool, or "" if none is bound.
func (c *Controller) ActiveTool() string {
	return c.active
}

// Tracker exposes the gesture tracker, mainly for tests and host
// integrations that synthesize input.
func (c *Controller) Tracker() *Tracker {
	return c.tracker
}

// Engine returns the controller's engine.
func (c *Controller) Engine() *Engine {
	return c.engine
}

// MarkDirty flags that the next RenderFrame must draw.
func (c *Controller) MarkDirty() {
	c.dirty = true
}

// IsDirty reports whether a frame is pending.
func (c *Controller) IsDirty() bool {
	return c.dirty
}

// flip converts top-left-origin pointer coordinates to the engine's
// lower-left-origin pixel space. The flip happens exactly once, at
// capture time.
func (c *Controller) flip(x, y float64) Point {
	return Pt(x, float64(c.engine.Height())-y)
}

// PointerDown begins a drag at the given top-left-origin coordinates. The
// active tool's pass list is latched here for the duration of the drag.
// Ignored when no tool is bound.
func (c *Controller) PointerDown(x, y float64) {
	tool, ok := c.tools[c.active]
	if !ok {
		Logger().Warn("pointer down with no active tool")
		return
	}
	c.latched = tool.Passes()
	c.tracker.DragStart(c.flip(x, y))
}

// PointerMove extends the in-flight drag. No-op outside a drag.
func (c *Controller) PointerMove(x, y float64) {
	c.tracker.DragMove(c.flip(x, y))
}

// PointerUp ends the drag; the commit itself happens on the next
// RenderFrame.
func (c *Controller) PointerUp() {
	c.tracker.DragEnd()
}

// PointerCancel aborts the drag without committing (pointer left the
// surface or the host cancelled the stream). The preview disappears on
// the next frame.
func (c *Controller) PointerCancel() {
	if c.tracker.Phase() == PhaseIdle {
		return
	}
	c.tracker.Reset()
	c.latched = nil
	c.MarkDirty()
}

// SetBackground ingests a new background raster. Any in-flight drag is
// invalidated: its textures are destroyed with the old pool.
func (c *Controller) SetBackground(img image.Image) {
	c.engine.SetBackground(img)
	c.tracker.Reset()
	c.latched = nil
	c.MarkDirty()
}

// SetBackgroundTexture installs a prepared canvas-sized texture as the
// background, with the same gesture invalidation as SetBackground.
func (c *Controller) SetBackgroundTexture(t *Texture) error {
	if err := c.engine.SetBackgroundTexture(t); err != nil {
		return err
	}
	c.tracker.Reset()
	c.latched = nil
	c.MarkDirty()
	return nil
}

// RenderFrame drives one display frame. It is a no-op unless some input
// or commit has marked the frame dirty.
//
// A pending commit consumes exactly one frame: the pass chain runs with
// commit semantics, the gesture resets to idle, and the dirty flag is
// deliberately re-armed so the next frame shows the swapped-in source via
// the idle fast path.
func (c *Controller) RenderFrame() error {
	if !c.dirty {
		return nil
	}

	g := c.tracker.Snapshot()
	switch g.Phase {
	case PhasePendingCommit:
		if err := c.engine.RunPasses(c.latched, g, true); err != nil {
			return err
		}
		c.tracker.Reset()
		c.latched = nil
		c.dirty = true
		return nil

	case PhaseDragging:
		c.dirty = false
		return c.engine.RunPasses(c.latched, g, false)

	default:
		c.dirty = false
		c.engine.BlitSource()
		return nil
	}
}
