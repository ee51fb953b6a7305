package daub

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// Program construction and execution errors.
var (
	// ErrNilKernel is returned when a ProgramSpec has no CPU kernel.
	ErrNilKernel = errors.New("daub: program spec has nil kernel")

	// ErrEmptySource is returned when a ProgramSpec has no fragment source.
	ErrEmptySource = errors.New("daub: program spec has empty fragment source")

	// ErrTextureAliased is returned when a pass would read and write the
	// same texture.
	ErrTextureAliased = errors.New("daub: pass source and destination alias the same texture")

	// ErrSizeMismatch is returned when pass input and output dimensions
	// differ.
	ErrSizeMismatch = errors.New("daub: pass source and destination sizes differ")
)

// Uniforms are the per-pass, per-frame shader inputs. Values are in pixel
// space with the origin at the lower left.
type Uniforms struct {
	Resolution Point
	Start      Point
	End        Point
	Mid        Point

	// IsDragging is 1.0 mid-drag and 0.0 otherwise. Bound only for
	// programs that declare CapIsDragging.
	IsDragging float64

	// DragLength is the Euclidean distance from Start to End. Bound only
	// for programs that declare CapDragLength.
	DragLength float64
}

// Kernel is the CPU reference implementation of one fragment pass: it
// computes the output color for pixel (x, y) by sampling src. Kernels must
// not retain src and must not write anywhere.
type Kernel func(src *Texture, u Uniforms, x, y int) RGBA

// Capability declares which optional uniforms a program reads. The set is
// fixed when the program is built, never probed per frame.
type Capability uint32

const (
	// CapIsDragging declares the is_dragging uniform.
	CapIsDragging Capability = 1 << iota

	// CapDragLength declares the drag_length uniform.
	CapDragLength
)

// passPrelude is the shared WGSL scaffolding every pass fragment is
// compiled against: the uniform block, the source texture bindings, and a
// fullscreen-triangle vertex stage. frag_coord converts the builtin
// framebuffer position (top-left origin) to engine pixel space
// (lower-left origin).
const passPrelude = `
struct PassUniforms {
    resolution: vec2<f32>,
    drag_start: vec2<f32>,
    drag_end: vec2<f32>,
    pivot: vec2<f32>,
    is_dragging: f32,
    drag_length: f32,
}

@group(0) @binding(0) var<uniform> u: PassUniforms;
@group(0) @binding(1) var src_texture: texture_2d<f32>;
@group(0) @binding(2) var src_sampler: sampler;

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOut {
    var out: VertexOut;
    let uv = vec2<f32>(f32((index << 1u) & 2u), f32(index & 2u));
    out.position = vec4<f32>(uv * 2.0 - vec2<f32>(1.0, 1.0), 0.0, 1.0);
    out.uv = uv;
    return out;
}

fn sample_at(p: vec2<f32>) -> vec4<f32> {
    return textureSampleLevel(src_texture, src_sampler, p / u.resolution, 0.0);
}

fn frag_coord(position: vec4<f32>) -> vec2<f32> {
    return vec2<f32>(position.x, u.resolution.y - position.y);
}
`

// ProgramSpec describes one shader pass before compilation.
type ProgramSpec struct {
	// Name identifies the pass in errors and logs.
	Name string

	// Fragment is the WGSL fragment stage (an fs_main entry point). It is
	// compiled against the shared pass prelude, which provides the
	// uniform block, source texture bindings, and helpers.
	Fragment string

	// Kernel is the CPU reference implementation of the pass.
	Kernel Kernel

	// Caps declares the optional uniforms the pass reads.
	Caps Capability
}

// Program is one compiled, immutable shader pass.
type Program struct {
	name   string
	kernel Kernel
	caps   Capability
	wgsl   string
	spirv  []uint32
}

// NewProgram compiles a pass. The WGSL source is compiled to SPIR-V with
// naga; a compile failure is fatal to construction, since a broken shader
// can never succeed later.
func NewProgram(spec ProgramSpec) (*Program, error) {
	if spec.Kernel == nil {
		return nil, fmt.Errorf("%w (pass %q)", ErrNilKernel, spec.Name)
	}
	if spec.Fragment == "" {
		return nil, fmt.Errorf("%w (pass %q)", ErrEmptySource, spec.Name)
	}

	wgsl := passPrelude + spec.Fragment
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("daub: compile pass %q: %w", spec.Name, err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return &Program{
		name:   spec.Name,
		kernel: spec.Kernel,
		caps:   spec.Caps,
		wgsl:   wgsl,
		spirv:  spirv,
	}, nil
}

// Name returns the pass name.
func (p *Program) Name() string {
	return p.name
}

// Uses reports whether the program declared the given capability.
func (p *Program) Uses(c Capability) bool {
	return p.caps&c != 0
}

// WGSL returns the full WGSL source the program was compiled from.
func (p *Program) WGSL() string {
	return p.wgsl
}

// SPIRV returns the compiled SPIR-V words. The slice is owned by the
// program; GPU backends build shader modules from it.
func (p *Program) SPIRV() []uint32 {
	return p.spirv
}

// Execute runs the pass over every pixel of src, writing the result to
// dst. src and dst must be distinct textures of identical size; aliasing
// them is a caller bug, not a recoverable condition. Optional uniforms the
// program did not declare are zeroed before the kernel sees them.
func (p *Program) Execute(src, dst *Texture, u Uniforms) error {
	if src == dst {
		return fmt.Errorf("%w (pass %q)", ErrTextureAliased, p.name)
	}
	if src.Width() != dst.Width() || src.Height() != dst.Height() {
		return fmt.Errorf("%w (pass %q: %dx%d -> %dx%d)", ErrSizeMismatch,
			p.name, src.Width(), src.Height(), dst.Width(), dst.Height())
	}

	if !p.Uses(CapIsDragging) {
		u.IsDragging = 0
	}
	if !p.Uses(CapDragLength) {
		u.DragLength = 0
	}

	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			dst.SetPixel(x, y, p.kernel(src, u, x, y))
		}
	}
	return nil
}
