package daub

import (
	"errors"
	"testing"
)

// passthroughFragment is the smallest valid pass stage: it copies the
// source pixel through unchanged.
const passthroughFragment = `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return sample_at(frag_coord(in.position));
}
`

func passthroughKernel(src *Texture, _ Uniforms, x, y int) RGBA {
	return src.GetPixel(x, y)
}

func mustProgram(t *testing.T, spec ProgramSpec) *Program {
	t.Helper()
	p, err := NewProgram(spec)
	if err != nil {
		t.Fatalf("NewProgram(%q): %v", spec.Name, err)
	}
	return p
}

func TestNewProgramValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    ProgramSpec
		wantErr error
	}{
		{
			name:    "nil kernel",
			spec:    ProgramSpec{Name: "k", Fragment: passthroughFragment},
			wantErr: ErrNilKernel,
		},
		{
			name:    "empty fragment",
			spec:    ProgramSpec{Name: "f", Kernel: passthroughKernel},
			wantErr: ErrEmptySource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProgram(tt.spec)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewProgram error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProgramCompilesToSPIRV(t *testing.T) {
	p := mustProgram(t, ProgramSpec{
		Name:     "pass_copy",
		Fragment: passthroughFragment,
		Kernel:   passthroughKernel,
	})

	spirv := p.SPIRV()
	if len(spirv) == 0 {
		t.Fatal("compiled program has no SPIR-V")
	}
	if spirv[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", spirv[0])
	}
	if p.WGSL() == "" {
		t.Error("program lost its WGSL source")
	}
	if p.Name() != "pass_copy" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestNewProgramRejectsBrokenSource(t *testing.T) {
	_, err := NewProgram(ProgramSpec{
		Name:     "broken",
		Fragment: "@fragment fn fs_main( this is not wgsl",
		Kernel:   passthroughKernel,
	})
	if err == nil {
		t.Fatal("broken shader source compiled")
	}
}

func TestProgramCapabilities(t *testing.T) {
	p := mustProgram(t, ProgramSpec{
		Name:     "caps",
		Fragment: passthroughFragment,
		Kernel:   passthroughKernel,
		Caps:     CapIsDragging,
	})
	if !p.Uses(CapIsDragging) {
		t.Error("declared capability not reported")
	}
	if p.Uses(CapDragLength) {
		t.Error("undeclared capability reported")
	}
}

func TestExecuteZeroesUndeclaredUniforms(t *testing.T) {
	var seen Uniforms
	record := func(src *Texture, u Uniforms, x, y int) RGBA {
		seen = u
		return src.GetPixel(x, y)
	}

	p := mustProgram(t, ProgramSpec{
		Name:     "record",
		Fragment: passthroughFragment,
		Kernel:   record,
	})

	src := NewTexture(1, 1)
	dst := NewTexture(1, 1)
	u := Uniforms{IsDragging: 1, DragLength: 42, Start: Pt(1, 2)}
	if err := p.Execute(src, dst, u); err != nil {
		t.Fatal(err)
	}

	if seen.IsDragging != 0 {
		t.Errorf("IsDragging leaked to undeclared program: %v", seen.IsDragging)
	}
	if seen.DragLength != 0 {
		t.Errorf("DragLength leaked to undeclared program: %v", seen.DragLength)
	}
	// Mandatory uniforms always pass through.
	if seen.Start != Pt(1, 2) {
		t.Errorf("Start = %+v, want {1 2}", seen.Start)
	}
}

func TestExecuteForwardsDeclaredUniforms(t *testing.T) {
	var seen Uniforms
	record := func(src *Texture, u Uniforms, x, y int) RGBA {
		seen = u
		return src.GetPixel(x, y)
	}

	p := mustProgram(t, ProgramSpec{
		Name:     "record_caps",
		Fragment: passthroughFragment,
		Kernel:   record,
		Caps:     CapIsDragging | CapDragLength,
	})

	src := NewTexture(1, 1)
	dst := NewTexture(1, 1)
	if err := p.Execute(src, dst, Uniforms{IsDragging: 1, DragLength: 42}); err != nil {
		t.Fatal(err)
	}
	if seen.IsDragging != 1 || seen.DragLength != 42 {
		t.Errorf("declared uniforms not forwarded: %+v", seen)
	}
}

func TestExecuteGuards(t *testing.T) {
	p := mustProgram(t, ProgramSpec{
		Name:     "guards",
		Fragment: passthroughFragment,
		Kernel:   passthroughKernel,
	})

	tex := NewTexture(2, 2)
	if err := p.Execute(tex, tex, Uniforms{}); !errors.Is(err, ErrTextureAliased) {
		t.Errorf("aliased execute error = %v, want ErrTextureAliased", err)
	}

	other := NewTexture(3, 2)
	if err := p.Execute(tex, other, Uniforms{}); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("mismatched execute error = %v, want ErrSizeMismatch", err)
	}
}

func TestExecutePassthroughIsExact(t *testing.T) {
	p := mustProgram(t, ProgramSpec{
		Name:     "exact",
		Fragment: passthroughFragment,
		Kernel:   passthroughKernel,
	})

	src := NewTexture(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetPixel(x, y, RGBA{
				R: float64(x) / 3, G: float64(y) / 3, B: 0.5, A: 1,
			})
		}
	}

	dst := NewTexture(4, 4)
	if err := p.Execute(src, dst, Uniforms{}); err != nil {
		t.Fatal(err)
	}
	if !src.Equal(dst) {
		t.Error("passthrough pass changed pixels")
	}
}
