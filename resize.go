// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"math"

	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/kernel"
	"github.com/gogpu/aurora/render"
)

// resizer keeps the context surface equal to the container's layout box in
// device pixels and mirrors the result into the resolution uniform.
type resizer struct {
	container host.Container
	ctx       render.Context
	uniforms  *kernel.Uniforms
}

// devicePixels converts a layout size to device pixels: floor(size × dpr),
// with a non-positive ratio treated as 1.
func devicePixels(w, h, dpr float64) (int, int) {
	if !(dpr > 0) {
		dpr = 1
	}
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 0, 0
	}
	return int(math.Floor(w * dpr)), int(math.Floor(h * dpr))
}

// apply resizes to the current layout box. A zero-area box is ignored and
// apply reports false.
func (r *resizer) apply() bool {
	lw, lh := r.container.LayoutSize()
	w, h := devicePixels(lw, lh, r.container.DevicePixelRatio())
	if w <= 0 || h <= 0 {
		return false
	}
	r.ctx.SetSize(w, h)
	gw, gh := r.ctx.Size()
	r.uniforms.Resolution = [2]float32{float32(gw), float32(gh)}
	slogger().Debug("aurora: resized", "width", gw, "height", gh)
	return true
}
