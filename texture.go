package daub

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/gogpu/gputypes"
)

// Texture represents a rectangular RGBA pixel buffer used as a pass input
// or render target. Pixel (0, 0) is the lower-left corner.
type Texture struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewTexture creates a new texture with the given dimensions, cleared to
// transparent black.
func NewTexture(width, height int) *Texture {
	return &Texture{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the texture.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the height of the texture.
func (t *Texture) Height() int {
	return t.height
}

// Data returns the raw pixel data (RGBA format, bottom row first).
func (t *Texture) Data() []uint8 {
	return t.data
}

// Stride returns the number of bytes per row.
func (t *Texture) Stride() int {
	return t.width * 4
}

// Format returns the pixel format of the texture.
func (t *Texture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// SetPixel sets the color of a single pixel. Out-of-range coordinates are
// ignored.
func (t *Texture) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	i := (y*t.width + x) * 4
	t.data[i+0] = quantize(c.R)
	t.data[i+1] = quantize(c.G)
	t.data[i+2] = quantize(c.B)
	t.data[i+3] = quantize(c.A)
}

// quantize converts a [0, 1] channel value to a byte, rounding to
// nearest so that GetPixel followed by SetPixel is lossless.
func quantize(v float64) uint8 {
	return uint8(clamp255(v*255 + 0.5))
}

// GetPixel returns the color of a single pixel. Out-of-range coordinates
// return Transparent.
func (t *Texture) GetPixel(x, y int) RGBA {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return Transparent
	}
	i := (y*t.width + x) * 4
	return RGBA{
		R: float64(t.data[i+0]) / 255,
		G: float64(t.data[i+1]) / 255,
		B: float64(t.data[i+2]) / 255,
		A: float64(t.data[i+3]) / 255,
	}
}

// texel returns the pixel at (x, y) with coordinates clamped to the edge.
func (t *Texture) texel(x, y int) RGBA {
	if x < 0 {
		x = 0
	} else if x >= t.width {
		x = t.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.height {
		y = t.height - 1
	}
	i := (y*t.width + x) * 4
	return RGBA{
		R: float64(t.data[i+0]) / 255,
		G: float64(t.data[i+1]) / 255,
		B: float64(t.data[i+2]) / 255,
		A: float64(t.data[i+3]) / 255,
	}
}

// Sample returns the bilinearly interpolated color at the continuous pixel
// coordinate (x, y), clamping to the edge. Pixel centers sit at integer
// coordinates.
func (t *Texture) Sample(x, y float64) RGBA {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := c00.Lerp(c10, fx)
	bot := c01.Lerp(c11, fx)
	return top.Lerp(bot, fy)
}

// Clear fills the entire texture with a color.
func (t *Texture) Clear(c RGBA) {
	r := quantize(c.R)
	g := quantize(c.G)
	b := quantize(c.B)
	a := quantize(c.A)

	for i := 0; i < len(t.data); i += 4 {
		t.data[i+0] = r
		t.data[i+1] = g
		t.data[i+2] = b
		t.data[i+3] = a
	}
}

// CopyFrom replaces the texture contents with those of src. The two
// textures must have identical dimensions; mismatched copies are ignored.
func (t *Texture) CopyFrom(src *Texture) {
	if src == nil || src.width != t.width || src.height != t.height {
		return
	}
	copy(t.data, src.data)
}

// Clone returns a deep copy of the texture.
func (t *Texture) Clone() *Texture {
	c := NewTexture(t.width, t.height)
	copy(c.data, t.data)
	return c
}

// Equal reports whether two textures have identical dimensions and pixels.
func (t *Texture) Equal(o *Texture) bool {
	if o == nil || t.width != o.width || t.height != o.height {
		return false
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// FromImage creates a texture from an image, flipping it vertically so
// that top-left-origin raster rows land in the bottom-left-origin texture.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	t := NewTexture(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			t.SetPixel(x, height-1-y, FromColor(c))
		}
	}

	return t
}

// ToImage converts the texture to an image.RGBA, undoing the vertical
// flip so the result is top-left origin.
func (t *Texture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	stride := t.width * 4
	for y := 0; y < t.height; y++ {
		src := t.data[(t.height-1-y)*stride : (t.height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img
}

// SavePNG saves the texture to a PNG file.
func (t *Texture) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, t.ToImage())
}

// At implements the image.Image interface.
func (t *Texture) At(x, y int) color.Color {
	return t.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// ColorModel implements the image.Image interface.
func (t *Texture) ColorModel() color.Model {
	return color.NRGBAModel
}
