// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package host

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// RadialLayer is one elliptical radial gradient of a FallbackStyle.
//
// The ellipse radii are fractions of the box size, the center is a fraction
// of the box, and the color fades linearly from Color at the center to
// transparent at Stop (a fraction of the radius).
type RadialLayer struct {
	RadiusX, RadiusY float64
	CenterX, CenterY float64
	Color            color.NRGBA
	Stop             float64
}

// CSS returns the layer as a CSS radial-gradient function.
func (l RadialLayer) CSS() string {
	return fmt.Sprintf("radial-gradient(%s %s at %s %s, rgba(%d,%d,%d,%s), rgba(255,255,255,0) %s)",
		percent(l.RadiusX), percent(l.RadiusY), percent(l.CenterX), percent(l.CenterY),
		l.Color.R, l.Color.G, l.Color.B, cssAlpha(l.Color.A), percent(l.Stop))
}

// FallbackStyle is the static decoration shown when no render context is
// available. Layers are listed top first, as in CSS.
type FallbackStyle struct {
	Layers     []RadialLayer
	Background color.RGBA
	BlendMode  string
}

// CSSDeclarations is a FallbackStyle as CSS property values.
type CSSDeclarations struct {
	BackgroundImage     string
	BackgroundColor     string
	BackgroundBlendMode string
}

// CSS returns the style as CSS property values.
func (f FallbackStyle) CSS() CSSDeclarations {
	images := make([]string, len(f.Layers))
	for i, l := range f.Layers {
		images[i] = l.CSS()
	}
	return CSSDeclarations{
		BackgroundImage:     strings.Join(images, ", "),
		BackgroundColor:     fmt.Sprintf("#%02x%02x%02x", f.Background.R, f.Background.G, f.Background.B),
		BackgroundBlendMode: f.BlendMode,
	}
}

// Draw rasterizes the style over the whole of dst. The background is opaque,
// so every pixel of dst is overwritten.
func (f FallbackStyle) Draw(dst *image.RGBA) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	bg := [3]float64{
		float64(f.Background.R) / 255,
		float64(f.Background.G) / 255,
		float64(f.Background.B) / 255,
	}
	screen := f.BlendMode == "screen"

	for y := b.Min.Y; y < b.Max.Y; y++ {
		py := float64(y-b.Min.Y) + 0.5
		for x := b.Min.X; x < b.Max.X; x++ {
			px := float64(x-b.Min.X) + 0.5
			c := bg
			// Bottom layer first.
			for i := len(f.Layers) - 1; i >= 0; i-- {
				l := f.Layers[i]
				a := l.alphaAt(px, py, w, h)
				if a <= 0 {
					continue
				}
				src := [3]float64{
					float64(l.Color.R) / 255,
					float64(l.Color.G) / 255,
					float64(l.Color.B) / 255,
				}
				for k := range c {
					s := src[k]
					if screen {
						// Backdrop is opaque: Cs' = B(Cb, Cs).
						s = c[k] + s - c[k]*s
					}
					c[k] = a*s + (1-a)*c[k]
				}
			}
			dst.SetRGBA(x, y, color.RGBA{R: unit8(c[0]), G: unit8(c[1]), B: unit8(c[2]), A: 255})
		}
	}
}

// alphaAt returns the layer coverage at pixel center (px, py) of a w×h box.
func (l RadialLayer) alphaAt(px, py, w, h float64) float64 {
	rx, ry := l.RadiusX*w, l.RadiusY*h
	if rx <= 0 || ry <= 0 || l.Stop <= 0 {
		return 0
	}
	dx := (px - l.CenterX*w) / rx
	dy := (py - l.CenterY*h) / ry
	t := math.Sqrt(dx*dx+dy*dy) / l.Stop
	if t >= 1 {
		return 0
	}
	return float64(l.Color.A) / 255 * (1 - t)
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

func percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e2, 'f', -1, 64) + "%"
}

// cssAlpha formats an 8-bit alpha with two decimals, trimmed.
func cssAlpha(a uint8) string {
	return strconv.FormatFloat(math.Round(float64(a)/255*100)/100, 'f', -1, 64)
}
