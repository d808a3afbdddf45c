package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/fogleman/gg"
)

// Ink styling of the approval screen's canvas.
const (
	inkR, inkG, inkB = 0x1e, 0x29, 0x3b
	inkWidth         = 2.0
)

// Render rasterizes the pad's strokes onto a transparent surface. A single
// point stroke renders as a dot.
func Render(p *Pad) image.Image {
	dc := gg.NewContext(p.Width(), p.Height())
	dc.SetRGB255(inkR, inkG, inkB)
	dc.SetLineWidth(inkWidth)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	for _, stroke := range p.Strokes() {
		if len(stroke) == 0 {
			continue
		}
		if len(stroke) == 1 {
			dc.DrawCircle(stroke[0].X, stroke[0].Y, inkWidth/2)
			dc.Fill()
			continue
		}
		dc.MoveTo(stroke[0].X, stroke[0].Y)
		for _, pt := range stroke[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.Stroke()
	}
	return dc.Image()
}

// EncodePNG produces the transport raster, on demand at approval time.
func EncodePNG(p *Pad) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(p)); err != nil {
		return nil, fmt.Errorf("encode signature png: %w", err)
	}
	return buf.Bytes(), nil
}

// BlankReference renders a same-dimension surface with no strokes, the
// baseline against which a working surface is compared.
func BlankReference(width, height int) ([]byte, error) {
	return EncodePNG(NewPad(width, height))
}

// EqualRasters compares two images pixel for pixel.
func EqualRasters(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				return false
			}
		}
	}
	return true
}

// IsBlankPNG decodes an incoming raster and reports whether it carries no
// ink. Browser canvases serialize an untouched surface as fully transparent
// pixels; a cleared-then-filled surface is uniform. Either counts as blank.
func IsBlankPNG(data []byte) (bool, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("decode signature png: %w", err)
	}
	return isUniform(img), nil
}

func isUniform(img image.Image) bool {
	bounds := img.Bounds()
	if bounds.Empty() {
		return true
	}
	fr, fg, fb, fa := img.At(bounds.Min.X, bounds.Min.Y).RGBA()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r != fr || g != fg || b != fb || a != fa {
				return false
			}
		}
	}
	return true
}
