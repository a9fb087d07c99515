// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"math"

	"github.com/gogpu/dlist"
)

// rgba is a premultiplied color ready for source-over blending.
type rgba struct {
	r, g, b, a uint8
}

// paintColor resolves a paint to a premultiplied color, folding in the
// baked soft alpha. A nil paint draws opaque black.
func paintColor(p *dlist.Paint, softAlpha float32) rgba {
	var packed uint32 = 0xff000000
	if p != nil {
		packed = p.Color
		if p.ColorFilter != nil {
			packed = applyColorFilter(packed, p.ColorFilter)
		}
	}
	a := float32(packed>>24&0xff) / 255 * softAlpha
	return premultiply(
		float32(packed>>16&0xff)/255,
		float32(packed>>8&0xff)/255,
		float32(packed&0xff)/255,
		a,
	)
}

func premultiply(r, g, b, a float32) rgba {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return rgba{
		r: uint8(r*a*255 + 0.5),
		g: uint8(g*a*255 + 0.5),
		b: uint8(b*a*255 + 0.5),
		a: uint8(a*255 + 0.5),
	}
}

// applyColorFilter transforms a packed 0xAARRGGBB color through a
// multiply-add filter.
func applyColorFilter(c uint32, f *dlist.ColorFilter) uint32 {
	var out uint32
	for shift := 0; shift < 32; shift += 8 {
		ch := c >> shift & 0xff
		mul := f.Mul >> shift & 0xff
		add := f.Add >> shift & 0xff
		v := ch*mul/255 + add
		if v > 255 {
			v = 255
		}
		out |= v << shift
	}
	return out
}

// blendPixel source-overs a premultiplied color onto one pixel.
func blendPixel(pix []byte, offset int, c rgba) {
	if c.a == 0 {
		return
	}
	if c.a == 255 {
		pix[offset] = c.r
		pix[offset+1] = c.g
		pix[offset+2] = c.b
		pix[offset+3] = 255
		return
	}
	inv := uint16(255 - c.a)
	pix[offset] = uint8((uint16(c.r)*255 + uint16(pix[offset])*inv + 127) / 255)
	pix[offset+1] = uint8((uint16(c.g)*255 + uint16(pix[offset+1])*inv + 127) / 255)
	pix[offset+2] = uint8((uint16(c.b)*255 + uint16(pix[offset+2])*inv + 127) / 255)
	pix[offset+3] = uint8((uint16(c.a)*255 + uint16(pix[offset+3])*inv + 127) / 255)
}

// fillRect source-overs a solid rectangle, scissored to clip.
func fillRect(img *image.RGBA, scissor image.Rectangle, r dlist.Rect, c rgba) {
	area := imageRect(r).Intersect(scissor).Intersect(img.Bounds())
	if area.Empty() || c.a == 0 {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		offset := img.PixOffset(area.Min.X, y)
		for x := area.Min.X; x < area.Max.X; x++ {
			blendPixel(img.Pix, offset, c)
			offset += 4
		}
	}
}

// fillSegment draws a thick line segment by distance test over its
// bounding box. No anti-aliasing.
func fillSegment(img *image.RGBA, scissor image.Rectangle, x0, y0, x1, y1, half float32, c rgba) {
	if half <= 0 || c.a == 0 {
		return
	}
	bounds := dlist.RectLTRB(
		min(x0, x1)-half, min(y0, y1)-half,
		max(x0, x1)+half, max(y0, y1)+half,
	)
	area := imageRect(bounds).Intersect(scissor).Intersect(img.Bounds())
	if area.Empty() {
		return
	}

	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	halfSq := half * half
	for y := area.Min.Y; y < area.Max.Y; y++ {
		offset := img.PixOffset(area.Min.X, y)
		py := float32(y) + 0.5
		for x := area.Min.X; x < area.Max.X; x++ {
			px := float32(x) + 0.5
			// Project onto the segment, clamp, test distance.
			var t float32
			if lenSq > 0 {
				t = ((px-x0)*dx + (py-y0)*dy) / lenSq
				if t < 0 {
					t = 0
				} else if t > 1 {
					t = 1
				}
			}
			ex, ey := px-(x0+t*dx), py-(y0+t*dy)
			if ex*ex+ey*ey <= halfSq {
				blendPixel(img.Pix, offset, c)
			}
			offset += 4
		}
	}
}

// transformScale approximates the uniform scale factor of a transform,
// used to map stroke widths into render-target space.
func transformScale(m dlist.Matrix4) float32 {
	if m.IsPureTranslate() {
		return 1
	}
	x0, y0 := m.MapPoint(0, 0)
	x1, y1 := m.MapPoint(1, 1)
	dx, dy := x1-x0, y1-y0
	s := float32(math.Sqrt(float64(dx*dx+dy*dy))) / float32(math.Sqrt2)
	if s <= 0 {
		return 1
	}
	return s
}

// modulate returns a copy of src with every pixel scaled by alpha and
// passed through the color filter.
func modulate(src *image.RGBA, bounds image.Rectangle, alpha float32,
	filter *dlist.ColorFilter) *image.RGBA {

	out := image.NewRGBA(bounds.Sub(bounds.Min))
	scale := uint32(alpha * 256)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		so := src.PixOffset(bounds.Min.X, y)
		do := out.PixOffset(0, y-bounds.Min.Y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r := uint32(src.Pix[so]) * scale >> 8
			g := uint32(src.Pix[so+1]) * scale >> 8
			b := uint32(src.Pix[so+2]) * scale >> 8
			a := uint32(src.Pix[so+3]) * scale >> 8
			if filter != nil {
				// Filter operates on straight color; approximate on
				// premultiplied channels.
				packed := a<<24 | r<<16 | g<<8 | b
				packed = applyColorFilter(packed, filter)
				a, r, g, b = packed>>24&0xff, packed>>16&0xff, packed>>8&0xff, packed&0xff
			}
			out.Pix[do] = uint8(r)
			out.Pix[do+1] = uint8(g)
			out.Pix[do+2] = uint8(b)
			out.Pix[do+3] = uint8(a)
			so += 4
			do += 4
		}
	}
	return out
}

// colorizeAlpha8 expands a coverage-only bitmap into premultiplied RGBA
// tinted by the paint color.
func colorizeAlpha8(bmp *dlist.Bitmap, c rgba) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, bmp.Width, bmp.Height))
	for i, coverage := range bmp.Pix {
		o := i * 4
		cov := uint16(coverage)
		out.Pix[o] = uint8((uint16(c.r)*cov + 127) / 255)
		out.Pix[o+1] = uint8((uint16(c.g)*cov + 127) / 255)
		out.Pix[o+2] = uint8((uint16(c.b)*cov + 127) / 255)
		out.Pix[o+3] = uint8((uint16(c.a)*cov + 127) / 255)
	}
	return out
}
