// Package wgpu displays daub frames through the gogpu GPU stack.
//
// The engine's CPU textures stay the source of truth; this package only
// presents finished frames. A TexturePresenter uploads each screen image
// into a GPU texture via a gpucontext.TextureDrawer supplied by the host
// application (e.g. a gogpu window) and draws it. Pass SPIR-V compiled at
// tool construction can additionally be turned into hal shader modules
// and pipeline layouts for hosts that want to run the passes on the GPU.
//
// Typical wiring:
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    // once, at startup:
//	    _ = wgpu.Register(dc.AsTextureDrawer())
//	})
package wgpu
