// Package daub provides an interactive, gesture-driven image editing engine
// built on a multi-pass fragment-shader pipeline.
//
// # Overview
//
// daub turns pointer drags into a compact gesture descriptor (start, end,
// sampled midpoints) and feeds it as uniforms into one or more chained
// fragment passes that transform a source texture. Tools such as erase,
// smudge, line, arc, rotate, and blur are just ordered pass lists; the
// engine decides how intermediate results ping-pong between scratch
// textures and how a committed edit becomes the new base image.
//
// # Quick Start
//
//	engine, err := daub.NewEngine(1024, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tool, err := daub.NewLineTool()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctrl := daub.NewController(engine, daub.WithTool("l", tool))
//
//	// Route pointer input (top-left origin; y is flipped at capture):
//	ctrl.PointerDown(100, 100)
//	ctrl.PointerMove(200, 150)
//	ctrl.PointerUp()
//
//	// Once per display frame:
//	ctrl.RenderFrame()
//
// # Preview vs. Commit
//
// While a drag is in progress the pass chain renders to the screen target
// only; the source texture is never written. When the drag ends, the next
// frame runs the same chain once more with the final pass routed into a
// scratch texture, then swaps texture slots so the scratch becomes the new
// source. The swap is a slot reassignment, never a pixel copy.
//
// # Shaders
//
// Every pass carries WGSL fragment source, compiled to SPIR-V with
// gogpu/naga when the tool is constructed. A compile failure aborts tool
// construction; there is no runtime recovery. Execution uses a CPU
// reference kernel for each pass, so results are deterministic and
// testable; an optional GPU presenter (backend/wgpu) can display frames
// and reuse the compiled SPIR-V.
//
// # Coordinate System
//
// The engine works in pixel space with the origin at the lower left.
// Pointer input arrives in top-left DOM coordinates and is flipped once at
// capture time. Background rasters are flipped when installed.
package daub
