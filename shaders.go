package daub

import _ "embed"

// Embedded WGSL fragment sources for the built-in tools. Each is compiled
// against the shared pass prelude when the tool is constructed.

//go:embed shaders/erase.wgsl
var eraseWGSL string

//go:embed shaders/blur_horizontal.wgsl
var blurHorizontalWGSL string

//go:embed shaders/blur_vertical.wgsl
var blurVerticalWGSL string

//go:embed shaders/smudge_advect.wgsl
var smudgeAdvectWGSL string

//go:embed shaders/smudge_settle.wgsl
var smudgeSettleWGSL string

//go:embed shaders/line.wgsl
var lineWGSL string

//go:embed shaders/arc.wgsl
var arcWGSL string

//go:embed shaders/rotate.wgsl
var rotateWGSL string
