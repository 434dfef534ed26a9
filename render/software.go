// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/aurora/internal/parallel"
	"github.com/gogpu/aurora/kernel"
)

// parallelMinPixels is the surface area from which rows are shaded on a
// worker pool.
const parallelMinPixels = 256 * 256

// SoftwareContext evaluates the Go kernel for every pixel of a PixmapSurface.
//
// It reports TierBaseline and DialectNative. Output is premultiplied RGBA8,
// top row first, matching what a GPU context reads back.
//
// Performance characteristics:
//   - Noise and ramp are evaluated once per column, not per pixel
//   - Surfaces of parallelMinPixels or more are shaded in row bands on a
//     worker pool started on first use and stopped by Lose
//   - Memory: O(width) for the column cache
type SoftwareContext struct {
	surface *PixmapSurface
	lost    bool
	pool    *parallel.Pool

	// Per-column cache reused across frames.
	heights []float32
	ramps   []kernel.RGB
}

// softwareProgram marks a program built by a SoftwareContext.
type softwareProgram struct {
	owner     *SoftwareContext
	destroyed bool
}

func (p *softwareProgram) Destroy() { p.destroyed = true }

// NewSoftwareContext creates a software context drawing into s.
func NewSoftwareContext(s *PixmapSurface) *SoftwareContext {
	return &SoftwareContext{surface: s}
}

// SoftwareAcquirer acquires a SoftwareContext. It fails with
// ErrSurfaceUnsupported unless s is a *PixmapSurface.
func SoftwareAcquirer(s Surface) (Context, error) {
	ps, ok := s.(*PixmapSurface)
	if !ok || ps == nil {
		return nil, fmt.Errorf("%w: software context needs *PixmapSurface, got %T", ErrSurfaceUnsupported, s)
	}
	return NewSoftwareContext(ps), nil
}

// Tier returns TierBaseline.
func (c *SoftwareContext) Tier() Tier { return TierBaseline }

// Dialect returns kernel.DialectNative.
func (c *SoftwareContext) Dialect() kernel.Dialect { return kernel.DialectNative }

// BuildProgram accepts only native sources.
func (c *SoftwareContext) BuildProgram(src kernel.Source) (Program, error) {
	if c.lost {
		return nil, ErrContextLost
	}
	if src.Dialect != kernel.DialectNative {
		return nil, fmt.Errorf("%w: software context cannot run %v", ErrProgramBuild, src.Dialect)
	}
	return &softwareProgram{owner: c}, nil
}

// SetSize resizes the surface.
func (c *SoftwareContext) SetSize(width, height int) {
	if c.lost {
		return
	}
	c.surface.Resize(width, height)
}

// Size returns the surface size.
func (c *SoftwareContext) Size() (int, int) {
	return c.surface.Width(), c.surface.Height()
}

// Draw shades every pixel of the surface.
func (c *SoftwareContext) Draw(p Program, u *kernel.Uniforms) error {
	if c.lost {
		return ErrContextLost
	}
	sp, ok := p.(*softwareProgram)
	if !ok || sp.owner != c {
		return errors.New("render: program does not belong to this context")
	}
	if sp.destroyed {
		return errors.New("render: program destroyed")
	}

	width, height := c.Size()
	if width == 0 || height == 0 {
		return nil
	}
	shader := kernel.NewShader(u)

	if cap(c.heights) < width {
		c.heights = make([]float32, width)
		c.ramps = make([]kernel.RGB, width)
	}
	heights := c.heights[:width]
	ramps := c.ramps[:width]
	for x := 0; x < width; x++ {
		uvx, _ := shader.UV(float32(x)+0.5, 0)
		heights[x] = shader.Height(uvx)
		ramps[x] = shader.Ramp(uvx)
	}

	pix := c.surface.Pixels()
	stride := c.surface.Stride()
	shadeRows := func(lo, hi int) {
		for row := lo; row < hi; row++ {
			// Image rows go top-down; fragment coordinates go bottom-up.
			_, uvy := shader.UV(0, float32(height-row)-0.5)
			off := row * stride
			for x := 0; x < width; x++ {
				px := shader.ShadeColumn(uvy, heights[x], ramps[x])
				i := off + x*4
				pix[i+0], pix[i+1], pix[i+2], pix[i+3] = PackPixel(px)
			}
		}
	}

	if width*height < parallelMinPixels {
		shadeRows(0, height)
		return nil
	}
	if c.pool == nil {
		c.pool = parallel.NewPool(0)
	}
	c.pool.ForBands(height, shadeRows)
	return nil
}

// Lose marks the context lost, stops the worker pool and drops the column
// cache.
func (c *SoftwareContext) Lose() {
	c.lost = true
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	c.heights = nil
	c.ramps = nil
}

// PackPixel clamps a premultiplied pixel to [0, 1] and quantizes it to 8 bits.
func PackPixel(p kernel.Pixel) (r, g, b, a uint8) {
	a = unorm8(p.A)
	r = min(unorm8(p.R), a)
	g = min(unorm8(p.G), a)
	b = min(unorm8(p.B), a)
	return r, g, b, a
}

func unorm8(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

var _ Context = (*SoftwareContext)(nil)
