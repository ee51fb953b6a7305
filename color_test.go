package daub

import (
	"image/color"
	"testing"
)

func TestRGBConstructor(t *testing.T) {
	c := RGB(0.2, 0.4, 0.6)
	if c.A != 1 {
		t.Errorf("RGB alpha = %v, want 1", c.A)
	}
	if c.R != 0.2 || c.G != 0.4 || c.B != 0.6 {
		t.Errorf("RGB = %+v", c)
	}
}

func TestRGBALerp(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want RGBA
	}{
		{"t=0 returns receiver", 0, Black},
		{"t=1 returns target", 1, White},
		{"t=0.5 midpoint", 0.5, RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Black.Lerp(White, tt.t)
			if got != tt.want {
				t.Errorf("Lerp(%v) = %+v, want %+v", tt.t, got, tt.want)
			}
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	orig := RGBA{R: 0.5, G: 0.25, B: 0.75, A: 1}
	back := FromColor(orig.Color())

	const tol = 1.0 / 255
	if d := back.R - orig.R; d > tol || d < -tol {
		t.Errorf("R round trip drifted: %v -> %v", orig.R, back.R)
	}
	if d := back.G - orig.G; d > tol || d < -tol {
		t.Errorf("G round trip drifted: %v -> %v", orig.G, back.G)
	}
	if d := back.B - orig.B; d > tol || d < -tol {
		t.Errorf("B round trip drifted: %v -> %v", orig.B, back.B)
	}
	if back.A != 1 {
		t.Errorf("A round trip = %v, want 1", back.A)
	}
}

func TestFromColorStdColors(t *testing.T) {
	if got := FromColor(color.White); got != White {
		t.Errorf("FromColor(white) = %+v", got)
	}
	if got := FromColor(color.Black); got != Black {
		t.Errorf("FromColor(black) = %+v", got)
	}
}

func TestColorClampsOutOfRange(t *testing.T) {
	c := RGBA{R: 2, G: -1, B: 0.5, A: 1.5}.Color().(color.NRGBA)
	if c.R != 255 || c.G != 0 || c.A != 255 {
		t.Errorf("out-of-range components not clamped: %+v", c)
	}
}
