package daub

import "golang.org/x/image/draw"

// EngineOption configures an Engine during creation.
//
// Example:
//
//	// Default: opaque white backdrop, Catmull-Rom background scaling.
//	engine, err := daub.NewEngine(1024, 1024)
//
//	// Dark backdrop, faster scaler:
//	engine, err := daub.NewEngine(1024, 1024,
//	    daub.WithBackdrop(daub.RGB(0.1, 0.1, 0.1)),
//	    daub.WithScaler(draw.ApproxBiLinear))
type EngineOption func(*engineOptions)

type engineOptions struct {
	backdrop RGBA
	scaler   draw.Scaler
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		backdrop: White,
		scaler:   draw.CatmullRom,
	}
}

// WithBackdrop sets the color composited behind ingested background
// images and used for the blank initial source. The alpha component is
// ignored; the backdrop is always opaque.
func WithBackdrop(c RGBA) EngineOption {
	return func(o *engineOptions) {
		o.backdrop = c
	}
}

// WithScaler sets the interpolator used when scaling ingested background
// images to fit the canvas. Defaults to draw.CatmullRom.
func WithScaler(s draw.Scaler) EngineOption {
	return func(o *engineOptions) {
		if s != nil {
			o.scaler = s
		}
	}
}

// ControllerOption configures a Controller during creation.
type ControllerOption func(*Controller)

// WithTool binds a tool to a short identifier (typically a keyboard key).
// The first bound tool becomes the active tool.
func WithTool(id string, tool *Tool) ControllerOption {
	return func(c *Controller) {
		c.Bind(id, tool)
	}
}
