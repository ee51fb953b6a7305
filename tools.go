package daub

import "math"

// Built-in tool tuning. Radii are in pixels on the canvas.
const (
	// dragEpsilon is the drag length below which every built-in pass is a
	// passthrough. Keeps zero-length commits bit-identical and avoids
	// degenerate segment math.
	dragEpsilon = 1.0

	eraseRadius  = 28.0
	blurRadius   = 32.0
	smudgeRadius = 36.0
	smudgeReach  = 48.0
	lineHalf     = 3.0
	arcHalf      = 3.0
)

var inkColor = Black

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// strokeFalloff is 1 at the stroke core and eases to 0 at the rim.
func strokeFalloff(p Point, u Uniforms, radius float64) float64 {
	d := p.DistanceToSegment(u.Start, u.End)
	if d >= radius {
		return 0
	}
	return smoothstep(0, 1, 1-d/radius)
}

// NewEraseTool builds the single-pass soft eraser: pixels near the drag
// segment are progressively blurred away, strongest at the stroke core.
func NewEraseTool() (*Tool, error) {
	return NewTool("erase", ProgramSpec{
		Name:     "erase_soft",
		Fragment: eraseWGSL,
		Kernel:   eraseKernel,
		Caps:     CapDragLength,
	})
}

func eraseKernel(src *Texture, u Uniforms, x, y int) RGBA {
	if u.DragLength < dragEpsilon {
		return src.GetPixel(x, y)
	}
	p := Pt(float64(x), float64(y))
	f := strokeFalloff(p, u, eraseRadius)
	if f == 0 {
		return src.GetPixel(x, y)
	}

	spread := 1.0 + 5.0*f
	var acc RGBA
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			c := src.Sample(p.X+float64(i)*spread, p.Y+float64(j)*spread)
			acc.R += c.R
			acc.G += c.G
			acc.B += c.B
			acc.A += c.A
		}
	}
	acc = RGBA{R: acc.R / 9, G: acc.G / 9, B: acc.B / 9, A: acc.A / 9}
	return src.GetPixel(x, y).Lerp(acc, f)
}

// NewBlurTool builds the two-pass separable blur: a horizontal pass
// followed by a vertical pass, both confined to the drag segment's
// neighborhood. Exercises the engine's two-pass strategy where the first
// scratch is intermediate-only.
func NewBlurTool() (*Tool, error) {
	return NewTool("blur",
		ProgramSpec{
			Name:     "blur_horizontal",
			Fragment: blurHorizontalWGSL,
			Kernel:   axisBlurKernel(1, 0),
			Caps:     CapDragLength,
		},
		ProgramSpec{
			Name:     "blur_vertical",
			Fragment: blurVerticalWGSL,
			Kernel:   axisBlurKernel(0, 1),
			Caps:     CapDragLength,
		},
	)
}

// blurWeights is a 9-tap gaussian-ish kernel summing to 1.
var blurWeights = [9]float64{0.05, 0.09, 0.12, 0.15, 0.18, 0.15, 0.12, 0.09, 0.05}

func axisBlurKernel(dx, dy float64) Kernel {
	return func(src *Texture, u Uniforms, x, y int) RGBA {
		if u.DragLength < dragEpsilon {
			return src.GetPixel(x, y)
		}
		p := Pt(float64(x), float64(y))
		f := strokeFalloff(p, u, blurRadius)
		if f == 0 {
			return src.GetPixel(x, y)
		}

		step := 2.0 * f
		var acc RGBA
		for k := -4; k <= 4; k++ {
			w := blurWeights[k+4]
			c := src.Sample(p.X+dx*float64(k)*step, p.Y+dy*float64(k)*step)
			acc.R += c.R * w
			acc.G += c.G * w
			acc.B += c.B * w
			acc.A += c.A * w
		}
		return acc
	}
}

// NewSmudgeTool builds the three-pass smudge: two half-strength advection
// steps drag pixels along the stroke direction, then a settle pass smooths
// the streaks. Exercises the engine's N>2 ping-pong strategy.
func NewSmudgeTool() (*Tool, error) {
	return NewTool("smudge",
		ProgramSpec{
			Name:     "smudge_advect_1",
			Fragment: smudgeAdvectWGSL,
			Kernel:   advectKernel(0.25),
			Caps:     CapDragLength,
		},
		ProgramSpec{
			Name:     "smudge_advect_2",
			Fragment: smudgeAdvectWGSL,
			Kernel:   advectKernel(0.25),
			Caps:     CapDragLength,
		},
		ProgramSpec{
			Name:     "smudge_settle",
			Fragment: smudgeSettleWGSL,
			Kernel:   settleKernel,
			Caps:     CapDragLength,
		},
	)
}

func advectKernel(strength float64) Kernel {
	return func(src *Texture, u Uniforms, x, y int) RGBA {
		if u.DragLength < dragEpsilon {
			return src.GetPixel(x, y)
		}
		p := Pt(float64(x), float64(y))
		f := strokeFalloff(p, u, smudgeRadius)
		if f == 0 {
			return src.GetPixel(x, y)
		}

		reach := u.DragLength
		if reach > smudgeReach {
			reach = smudgeReach
		}
		dir := u.End.Sub(u.Start).Normalize()
		shift := reach * strength * f
		return src.Sample(p.X-dir.X*shift, p.Y-dir.Y*shift)
	}
}

func settleKernel(src *Texture, u Uniforms, x, y int) RGBA {
	if u.DragLength < dragEpsilon {
		return src.GetPixel(x, y)
	}
	p := Pt(float64(x), float64(y))
	f := strokeFalloff(p, u, smudgeRadius)
	if f == 0 {
		return src.GetPixel(x, y)
	}

	center := src.GetPixel(x, y)
	acc := RGBA{R: center.R * 0.6, G: center.G * 0.6, B: center.B * 0.6, A: center.A * 0.6}
	for _, o := range [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		c := src.Sample(p.X+o[0], p.Y+o[1])
		acc.R += c.R * 0.1
		acc.G += c.G * 0.1
		acc.B += c.B * 0.1
		acc.A += c.A * 0.1
	}
	return center.Lerp(acc, f)
}

// NewLineTool builds the single-pass line tool: an antialiased ink stroke
// along the drag segment. While dragging, a ring marks the live endpoint;
// the ring is a preview affordance driven by the is_dragging uniform and
// vanishes on commit.
func NewLineTool() (*Tool, error) {
	return NewTool("line", ProgramSpec{
		Name:     "line_draw",
		Fragment: lineWGSL,
		Kernel:   lineKernel,
		Caps:     CapIsDragging | CapDragLength,
	})
}

func lineKernel(src *Texture, u Uniforms, x, y int) RGBA {
	if u.DragLength < dragEpsilon {
		return src.GetPixel(x, y)
	}
	p := Pt(float64(x), float64(y))
	d := p.DistanceToSegment(u.Start, u.End)
	cov := 1 - smoothstep(lineHalf-1, lineHalf+1, d)
	out := src.GetPixel(x, y).Lerp(inkColor, cov*inkColor.A)

	if u.IsDragging > 0.5 {
		rd := math.Abs(p.Distance(u.End) - 6)
		ring := 1 - smoothstep(0.5, 2, rd)
		out = out.Lerp(inkColor, ring*0.6)
	}
	return out
}

// NewArcTool builds the single-pass arc tool: it fits a circle through
// the drag start, the pivot midpoint, and the drag end, and strokes the
// arc between start and end that passes through the pivot. Collinear
// constructions are a passthrough, never an error.
func NewArcTool() (*Tool, error) {
	return NewTool("arc", ProgramSpec{
		Name:     "arc_draw",
		Fragment: arcWGSL,
		Kernel:   arcKernel,
		Caps:     CapDragLength,
	})
}

func arcKernel(src *Texture, u Uniforms, x, y int) RGBA {
	if u.DragLength < dragEpsilon {
		return src.GetPixel(x, y)
	}

	a, b, c := u.Start, u.Mid, u.End
	// Twice the signed triangle area; near zero means collinear.
	det := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(det) < 1e-3 {
		return src.GetPixel(x, y)
	}

	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	center := Pt(
		(a2*(b.Y-c.Y)+b2*(c.Y-a.Y)+c2*(a.Y-b.Y))/det,
		(a2*(c.X-b.X)+b2*(a.X-c.X)+c2*(b.X-a.X))/det,
	)
	radius := center.Distance(a)

	p := Pt(float64(x), float64(y))
	if !onArc(p, center, a, b, c) {
		return src.GetPixel(x, y)
	}
	d := math.Abs(p.Distance(center) - radius)
	cov := 1 - smoothstep(arcHalf-1, arcHalf+1, d)
	return src.GetPixel(x, y).Lerp(inkColor, cov*inkColor.A)
}

// onArc reports whether p's angle around center lies on the arc from a to
// c that passes through b.
func onArc(p, center, a, b, c Point) bool {
	a0 := math.Atan2(a.Y-center.Y, a.X-center.X)
	sweep := wrapTau(math.Atan2(c.Y-center.Y, c.X-center.X) - a0)
	bRel := wrapTau(math.Atan2(b.Y-center.Y, b.X-center.X) - a0)
	pRel := wrapTau(math.Atan2(p.Y-center.Y, p.X-center.X) - a0)
	if bRel <= sweep {
		return pRel <= sweep
	}
	// The through-b arc runs the other way around.
	return pRel >= sweep
}

// wrapTau wraps an angle into [0, 2*pi).
func wrapTau(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// NewRotateTool builds the single-pass rotate tool: the image rotates
// around the pivot by the angle the drag subtends as seen from it. A
// pivot coinciding with either endpoint degenerates to a passthrough.
func NewRotateTool() (*Tool, error) {
	return NewTool("rotate", ProgramSpec{
		Name:     "rotate_view",
		Fragment: rotateWGSL,
		Kernel:   rotateKernel,
		Caps:     CapDragLength,
	})
}

func rotateKernel(src *Texture, u Uniforms, x, y int) RGBA {
	if u.DragLength < dragEpsilon {
		return src.GetPixel(x, y)
	}
	v1 := u.Start.Sub(u.Mid)
	v2 := u.End.Sub(u.Mid)
	if v1.Length() < dragEpsilon || v2.Length() < dragEpsilon {
		return src.GetPixel(x, y)
	}
	angle := math.Atan2(v1.Cross(v2), v1.Dot(v2))

	// Sample the source at the inverse-rotated position.
	sin, cos := math.Sincos(-angle)
	p := Pt(float64(x), float64(y)).Sub(u.Mid)
	q := Pt(p.X*cos-p.Y*sin, p.X*sin+p.Y*cos).Add(u.Mid)
	return src.Sample(q.X, q.Y)
}

// DefaultPalette builds the standard tool set keyed by its activation
// keys: e(rase), b(lur), s(mudge), l(ine), a(rc), r(otate). Any shader
// compile failure aborts the whole palette.
func DefaultPalette() (map[string]*Tool, error) {
	palette := map[string]func() (*Tool, error){
		"e": NewEraseTool,
		"b": NewBlurTool,
		"s": NewSmudgeTool,
		"l": NewLineTool,
		"a": NewArcTool,
		"r": NewRotateTool,
	}
	tools := make(map[string]*Tool, len(palette))
	for key, build := range palette {
		tool, err := build()
		if err != nil {
			return nil, err
		}
		tools[key] = tool
	}
	return tools, nil
}
