package daub

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Engine construction and execution errors.
var (
	// ErrInvalidDimensions is returned for non-positive canvas sizes.
	ErrInvalidDimensions = errors.New("daub: invalid canvas dimensions")

	// ErrNoPasses is returned when RunPasses is invoked with an empty
	// pass list.
	ErrNoPasses = errors.New("daub: empty pass list")

	// ErrBackgroundSize is returned when an installed texture does not
	// match the canvas size.
	ErrBackgroundSize = errors.New("daub: background texture size does not match canvas")
)

// slot names a role in the engine's texture pool. The pool itself is a
// fixed arena of reusable textures; slots are an indirection table mapping
// roles to arena entries, so a commit can reassign which texture is the
// source without copying pixels.
type slot int

const (
	slotSource slot = iota
	slotScratchA
	slotScratchB
	slotCount
)

// Engine owns the source texture, two ping-pong scratch textures, and the
// screen target, and executes a tool's pass list against a gesture
// snapshot.
//
// The source is the authoritative image persisted across gestures. The
// scratch textures are transient; their contents are undefined between
// invocations. All four are destroyed and recreated, never resized, when
// the background changes.
//
// Engine is single-threaded: all calls must come from the same event/frame
// loop.
type Engine struct {
	width  int
	height int

	pool  [slotCount]*Texture
	slots [slotCount]int // role -> pool index

	screen *Texture

	backdrop RGBA
	scaler   draw.Scaler
}

// NewEngine creates an engine with a blank source cleared to the backdrop
// color (opaque white unless overridden with WithBackdrop).
func NewEngine(width, height int, opts ...EngineOption) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		width:    width,
		height:   height,
		backdrop: o.backdrop,
		scaler:   o.scaler,
	}
	blank := NewTexture(width, height)
	blank.Clear(e.opaqueBackdrop())
	e.install(blank)
	return e, nil
}

// Width returns the canvas width in pixels.
func (e *Engine) Width() int {
	return e.width
}

// Height returns the canvas height in pixels.
func (e *Engine) Height() int {
	return e.height
}

// tex returns the texture currently bound to a slot.
func (e *Engine) tex(s slot) *Texture {
	return e.pool[e.slots[s]]
}

// swapSlots reassigns which textures two slots point at. This is the
// commit operation: the slot formerly holding the source now holds the
// freshly rendered scratch, and the old source becomes reusable scratch.
func (e *Engine) swapSlots(a, b slot) {
	e.slots[a], e.slots[b] = e.slots[b], e.slots[a]
}

// Source returns the authoritative source texture. It is owned by the
// engine; callers must not write it. Use Export for a stable copy.
func (e *Engine) Source() *Texture {
	return e.tex(slotSource)
}

// Screen returns the screen target holding the most recent preview or
// idle blit. Owned by the engine.
func (e *Engine) Screen() *Texture {
	return e.screen
}

// opaqueBackdrop is the backdrop forced opaque; the composited base image
// never carries transparency.
func (e *Engine) opaqueBackdrop() RGBA {
	b := e.backdrop
	b.A = 1
	return b
}

// install replaces every owned texture. Old textures are dropped, not
// resized; any gesture that was mid-flight against them is void.
func (e *Engine) install(source *Texture) {
	e.pool = [slotCount]*Texture{
		source,
		NewTexture(e.width, e.height),
		NewTexture(e.width, e.height),
	}
	e.slots = [slotCount]int{0, 1, 2}
	e.screen = NewTexture(e.width, e.height)
	Logger().Info("background installed", "width", e.width, "height", e.height)
}

// SetBackground ingests a raster of arbitrary dimensions: it is scaled to
// fit the canvas preserving aspect ratio, centered, composited onto the
// opaque backdrop, flipped to the engine's lower-left origin, and
// installed as the new source. All owned textures are reallocated.
func (e *Engine) SetBackground(img image.Image) {
	e.install(FitRaster(img, e.width, e.height, e.opaqueBackdrop(), e.scaler))
}

// SetBackgroundTexture installs an already-prepared texture as the new
// source. The engine takes ownership of t. The texture must match the
// canvas size exactly; use SetBackground for arbitrary rasters.
func (e *Engine) SetBackgroundTexture(t *Texture) error {
	if t.Width() != e.width || t.Height() != e.height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrBackgroundSize,
			t.Width(), t.Height(), e.width, e.height)
	}
	e.install(t)
	return nil
}

// Export returns a copy of the current source image as raw RGBA bytes
// (bottom row first) with its dimensions. The copy is independent of
// future edits.
func (e *Engine) Export() (pix []uint8, width, height int) {
	src := e.tex(slotSource)
	out := make([]uint8, len(src.Data()))
	copy(out, src.Data())
	return out, e.width, e.height
}

// ExportImage returns the current source as a top-left-origin image.RGBA,
// suitable for PNG encoding or handoff to external consumers.
func (e *Engine) ExportImage() *image.RGBA {
	return e.tex(slotSource).ToImage()
}

// BlitSource copies the source directly to the screen, bypassing all
// passes. This is the idle fast path: cheaper than running a tool's
// chain, and it sidesteps shader edge cases at the zero-length-drag
// boundary.
func (e *Engine) BlitSource() {
	e.screen.CopyFrom(e.tex(slotSource))
	e.present()
}

// RunPasses executes a pass list in order against the current source and
// the given gesture snapshot.
//
// With commit false, the final pass renders to the screen target and the
// source is never written. With commit true, the final pass renders into a
// scratch texture which is then slot-swapped into the source position; no
// pixels are copied on commit, and nothing is presented (the caller shows
// the committed result via BlitSource on the following frame).
//
// Intermediate results ping-pong between the two scratch slots; a pass
// never reads and writes the same texture.
func (e *Engine) RunPasses(passes []*Program, g Gesture, commit bool) error {
	if len(passes) == 0 {
		return ErrNoPasses
	}

	u := Uniforms{
		Resolution: Pt(float64(e.width), float64(e.height)),
		Start:      g.Start,
		End:        g.End,
		Mid:        g.Mid,
		DragLength: g.DragLength,
	}
	if g.Dragging() {
		u.IsDragging = 1
	}

	cur := e.tex(slotSource)
	scratch := [2]slot{slotScratchA, slotScratchB}
	next := 0
	var lastDst slot

	for i, p := range passes {
		final := i == len(passes)-1
		var dst *Texture
		if final && !commit {
			dst = e.screen
		} else {
			lastDst = scratch[next]
			next = 1 - next
			dst = e.tex(lastDst)
		}
		if err := p.Execute(cur, dst, u); err != nil {
			return err
		}
		cur = dst
	}

	if commit {
		e.swapSlots(lastDst, slotSource)
		Logger().Debug("gesture committed", "passes", len(passes))
		return nil
	}
	e.present()
	return nil
}

// present offers the finished screen image to the registered presenter,
// if any. Presentation is fire-and-forget; a failed frame is logged and
// dropped, never retried.
func (e *Engine) present() {
	p := presenter()
	if p == nil {
		return
	}
	err := p.Present(Frame{
		Pixels: e.screen.Data(),
		Width:  e.width,
		Height: e.height,
		Stride: e.screen.Stride(),
	})
	if err != nil {
		Logger().Warn("presenter frame dropped", "presenter", p.Name(), "err", err)
	}
}
