// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Surface is a drawable owned by a mounted renderer. Its size is set by the
// resize coordinator through Context.SetSize; hosts read it to composite.
type Surface interface {
	// Width returns the surface width in device pixels.
	Width() int

	// Height returns the surface height in device pixels.
	Height() int
}

// PixmapSurface is a CPU-backed surface using *image.RGBA.
//
// Pixels are stored premultiplied, top row first. Software and wgpu contexts
// draw into it; pixel hosts composite Image().
//
// Example:
//
//	s := render.NewPixmapSurface(0, 0)
//	ctx, err := render.SoftwareAcquirer(s)
type PixmapSurface struct {
	img *image.RGBA
}

// NewPixmapSurface creates a CPU-backed surface.
func NewPixmapSurface(width, height int) *PixmapSurface {
	return &PixmapSurface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Width returns the surface width in pixels.
func (s *PixmapSurface) Width() int {
	return s.img.Bounds().Dx()
}

// Height returns the surface height in pixels.
func (s *PixmapSurface) Height() int {
	return s.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (s *PixmapSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (s *PixmapSurface) Pixels() []byte {
	return s.img.Pix
}

// Stride returns the number of bytes per row.
func (s *PixmapSurface) Stride() int {
	return s.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the surface until the next Resize.
func (s *PixmapSurface) Image() *image.RGBA {
	return s.img
}

// Clear fills the surface with c.
func (s *PixmapSurface) Clear(c color.RGBA) {
	pix := s.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Resize reallocates the backing image when the size changes.
// The contents are not preserved.
func (s *PixmapSurface) Resize(width, height int) {
	if width == s.Width() && height == s.Height() {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ Surface = (*PixmapSurface)(nil)
