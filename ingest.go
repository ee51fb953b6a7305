package daub

import (
	"image"

	"golang.org/x/image/draw"
)

// FitRaster prepares an arbitrary raster for use as a background: the
// image is scaled to fit within width x height preserving its aspect
// ratio, centered, and composited onto an opaque backdrop. The result is
// flipped from the raster's top-left origin to the engine's lower-left
// origin.
//
// A 1:1 sized source skips the scaler entirely, so installing a
// canvas-sized image is lossless.
func FitRaster(img image.Image, width, height int, backdrop RGBA, scaler draw.Scaler) *Texture {
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	backdrop.A = 1

	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(backdrop.Color()), image.Point{}, draw.Src)

	if sw <= 0 || sh <= 0 {
		return FromImage(dst)
	}

	if sw == width && sh == height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
		return FromImage(dst)
	}

	scale := float64(width) / float64(sw)
	if s := float64(height) / float64(sh); s < scale {
		scale = s
	}
	dw := int(float64(sw)*scale + 0.5)
	dh := int(float64(sh)*scale + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	ox := (width - dw) / 2
	oy := (height - dh) / 2

	scaler.Scale(dst, image.Rect(ox, oy, ox+dw, oy+dh), img, b, draw.Over, nil)
	return FromImage(dst)
}
