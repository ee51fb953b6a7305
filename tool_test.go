package daub

import (
	"errors"
	"testing"
)

func TestNewToolRequiresSpecs(t *testing.T) {
	_, err := NewTool("empty")
	if !errors.Is(err, ErrNoSpecs) {
		t.Errorf("NewTool() error = %v, want ErrNoSpecs", err)
	}
}

func TestNewToolCompileFailureAborts(t *testing.T) {
	_, err := NewTool("half-broken",
		ProgramSpec{Name: "ok", Fragment: passthroughFragment, Kernel: passthroughKernel},
		ProgramSpec{Name: "bad", Fragment: "not wgsl at all", Kernel: passthroughKernel},
	)
	if err == nil {
		t.Fatal("tool with a broken pass constructed")
	}
}

func TestNewToolPassOrder(t *testing.T) {
	tool, err := NewTool("ordered",
		ProgramSpec{Name: "first", Fragment: passthroughFragment, Kernel: passthroughKernel},
		ProgramSpec{Name: "second", Fragment: passthroughFragment, Kernel: passthroughKernel},
	)
	if err != nil {
		t.Fatal(err)
	}
	if tool.Name() != "ordered" {
		t.Errorf("Name = %q", tool.Name())
	}
	if tool.PassCount() != 2 {
		t.Fatalf("PassCount = %d, want 2", tool.PassCount())
	}
	passes := tool.Passes()
	if passes[0].Name() != "first" || passes[1].Name() != "second" {
		t.Errorf("pass order = %q, %q", passes[0].Name(), passes[1].Name())
	}
}

func TestDefaultPalette(t *testing.T) {
	palette, err := DefaultPalette()
	if err != nil {
		t.Fatalf("DefaultPalette: %v", err)
	}

	wantPasses := map[string]int{
		"e": 1, // erase
		"b": 2, // separable blur
		"s": 3, // smudge advect x2 + settle
		"l": 1, // line
		"a": 1, // arc
		"r": 1, // rotate
	}
	if len(palette) != len(wantPasses) {
		t.Fatalf("palette has %d tools, want %d", len(palette), len(wantPasses))
	}
	for key, want := range wantPasses {
		tool, ok := palette[key]
		if !ok {
			t.Errorf("palette missing tool %q", key)
			continue
		}
		if got := tool.PassCount(); got != want {
			t.Errorf("tool %q has %d passes, want %d", key, got, want)
		}
	}
}

func TestLineToolDeclaresDragging(t *testing.T) {
	tool, err := NewLineTool()
	if err != nil {
		t.Fatal(err)
	}
	if !tool.Passes()[0].Uses(CapIsDragging) {
		t.Error("line pass does not declare the is_dragging uniform")
	}
}

func TestBuiltinKernelsPassThroughOnTinyDrag(t *testing.T) {
	src := NewTexture(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetPixel(x, y, RGBA{R: float64(x) / 7, G: float64(y) / 7, B: 0.3, A: 1})
		}
	}

	// A drag shorter than the epsilon must leave every pixel untouched,
	// whatever the tool.
	u := Uniforms{
		Resolution: Pt(8, 8),
		Start:      Pt(4, 4),
		End:        Pt(4.2, 4),
		Mid:        Pt(4, 4),
		DragLength: 0.2,
	}

	kernels := map[string]Kernel{
		"erase":  eraseKernel,
		"blur_h": axisBlurKernel(1, 0),
		"blur_v": axisBlurKernel(0, 1),
		"advect": advectKernel(0.25),
		"settle": settleKernel,
		"line":   lineKernel,
		"arc":    arcKernel,
		"rotate": rotateKernel,
	}
	for name, k := range kernels {
		t.Run(name, func(t *testing.T) {
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					got := k(src, u, x, y)
					if got != src.GetPixel(x, y) {
						t.Fatalf("pixel (%d,%d) changed under tiny drag: %+v", x, y, got)
					}
				}
			}
		})
	}
}

func TestArcKernelCollinearPassthrough(t *testing.T) {
	src := NewTexture(8, 8)
	src.Clear(RGB(0.5, 0.5, 0.5))

	u := Uniforms{
		Resolution: Pt(8, 8),
		Start:      Pt(1, 1),
		Mid:        Pt(4, 4),
		End:        Pt(7, 7),
		DragLength: Pt(1, 1).Distance(Pt(7, 7)),
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := arcKernel(src, u, x, y); got != src.GetPixel(x, y) {
				t.Fatalf("collinear arc modified pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestRotateKernelDegeneratePivot(t *testing.T) {
	src := NewTexture(8, 8)
	src.Clear(RGB(0.2, 0.4, 0.6))

	// Pivot on the start point: no angle is defined, so nothing rotates.
	u := Uniforms{
		Resolution: Pt(8, 8),
		Start:      Pt(2, 2),
		Mid:        Pt(2, 2),
		End:        Pt(6, 6),
		DragLength: Pt(2, 2).Distance(Pt(6, 6)),
	}
	if got := rotateKernel(src, u, 4, 4); got != src.GetPixel(4, 4) {
		t.Errorf("degenerate pivot rotated pixel: %+v", got)
	}
}

func TestLineKernelDrawsInk(t *testing.T) {
	src := NewTexture(16, 16)
	src.Clear(White)

	u := Uniforms{
		Resolution: Pt(16, 16),
		Start:      Pt(2, 8),
		End:        Pt(14, 8),
		DragLength: 12,
	}

	on := lineKernel(src, u, 8, 8)
	if on.R > 0.1 || on.G > 0.1 || on.B > 0.1 {
		t.Errorf("stroke core not inked: %+v", on)
	}
	off := lineKernel(src, u, 8, 15)
	if off != White {
		t.Errorf("pixel far from stroke changed: %+v", off)
	}
}
