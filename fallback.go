// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"image/color"

	"github.com/gogpu/aurora/host"
)

// DefaultFallback is the static decoration shown when no render context is
// available: three soft pink radial gradients screened over a pale
// background.
var DefaultFallback = host.FallbackStyle{
	Layers: []host.RadialLayer{
		{RadiusX: 1.2, RadiusY: 0.8, CenterX: 0.1, CenterY: 0.1, Color: color.NRGBA{R: 255, G: 106, B: 162, A: 166}, Stop: 0.6},
		{RadiusX: 1.2, RadiusY: 0.8, CenterX: 0.9, CenterY: 0.2, Color: color.NRGBA{R: 255, G: 154, B: 194, A: 128}, Stop: 0.55},
		{RadiusX: 1.2, RadiusY: 0.8, CenterX: 0.5, CenterY: 1.0, Color: color.NRGBA{R: 255, G: 59, B: 111, A: 140}, Stop: 0.6},
	},
	Background: color.RGBA{R: 0xff, G: 0xf7, B: 0xfb, A: 0xff},
	BlendMode:  "screen",
}

// engageFallback applies the fallback decoration. The mount stays in
// StateFallback: nothing is scheduled and nothing is retried.
func (a *Aurora) engageFallback(reason error) {
	slogger().Warn("aurora: using static fallback", "err", reason)
	a.state.Store(int32(StateFallback))
	a.container.ApplyFallback(DefaultFallback)
}
