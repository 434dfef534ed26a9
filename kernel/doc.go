// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package kernel holds the aurora pixel formula.
//
// The formula is implemented once in Go (float32 arithmetic) and rendered
// into shader source text for every GPU dialect the renderer supports. All
// dialects share the constants declared in this package, so the software
// rasterizer and the GPU programs produce the same image.
//
// # Pixel Formula
//
// For a fragment at (x, y) with bottom-left origin:
//
//	uv        = (x, y) / resolution
//	height    = exp(snoise(uv.x*2 + time*0.1, time*0.25) * 0.5 * amplitude)
//	intensity = 0.6 * (uv.y*2 - height + 0.2)
//	ramp      = piecewise-linear ramp over three stops at uv.x
//	alpha     = smoothstep(0.2 - blend/2, 0.2 + blend/2, intensity)
//	out       = vec4(intensity * ramp * alpha, alpha)
//
// # Dialects
//
//   - DialectWGSL: WebGPU shading language (typed I/O, explicit bindings)
//   - DialectGLSL300ES: WebGL2 class contexts
//   - DialectGLSL100: WebGL1 class contexts
//   - DialectNative: the Go implementation, no source text
package kernel
