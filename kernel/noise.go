// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import "math"

// Simplex skew and gradient constants. The shader templates receive the
// same values, so changing one here changes every dialect.
const (
	simplexSkewX    = 0.211324865405187  // (3 - sqrt(3)) / 6
	simplexSkewY    = 0.366025403784439  // (sqrt(3) - 1) / 2
	simplexSkewZ    = -0.577350269189626 // -1 + 2*skewX
	simplexSkewW    = 0.024390243902439  // 1 / 41
	gradientNormA   = 1.79284291400159
	gradientNormB   = 0.85373472095314
	noiseOutputGain = 130.0
	permuteModulus  = 289.0
)

type vec3 [3]float32

func floor32(x float32) float32 { return float32(math.Floor(float64(x))) }

func fract32(x float32) float32 { return x - floor32(x) }

func abs32(x float32) float32 { return float32(math.Abs(float64(x))) }

// mod289 follows GLSL mod semantics: x - y*floor(x/y).
func mod289(x float32) float32 {
	return x - permuteModulus*floor32(x/permuteModulus)
}

func permute(x vec3) vec3 {
	var r vec3
	for k := range x {
		r[k] = mod289((x[k]*34 + 1) * x[k])
	}
	return r
}

// Snoise evaluates 2D simplex gradient noise at (x, y).
//
// The result is continuous and lies roughly in [-1, 1]. The permutation is
// periodic with period 289 on the integer lattice.
func Snoise(x, y float32) float32 {
	// Skew to the simplex cell origin.
	s := (x + y) * simplexSkewY
	ix := floor32(x + s)
	iy := floor32(y + s)

	t := (ix + iy) * simplexSkewX
	x0x := x - ix + t
	x0y := y - iy + t

	var i1x, i1y float32
	if x0x > x0y {
		i1x = 1
	} else {
		i1y = 1
	}

	// x12 = x0.xyxy + C.xxzz, then x12.xy -= i1
	x1x := x0x + simplexSkewX - i1x
	x1y := x0y + simplexSkewX - i1y
	x2x := x0x + simplexSkewZ
	x2y := x0y + simplexSkewZ

	ix = mod289(ix)
	iy = mod289(iy)

	p := permute(vec3{iy, iy + i1y, iy + 1})
	p = permute(vec3{p[0] + ix, p[1] + ix + i1x, p[2] + ix + 1})

	m := vec3{
		0.5 - (x0x*x0x + x0y*x0y),
		0.5 - (x1x*x1x + x1y*x1y),
		0.5 - (x2x*x2x + x2y*x2y),
	}
	for k := range m {
		if m[k] < 0 {
			m[k] = 0
		}
		m[k] *= m[k]
		m[k] *= m[k]
	}

	var a0, h vec3
	for k := range p {
		gx := 2*fract32(p[k]*simplexSkewW) - 1
		h[k] = abs32(gx) - 0.5
		a0[k] = gx - floor32(gx+0.5)
		m[k] *= gradientNormA - gradientNormB*(a0[k]*a0[k]+h[k]*h[k])
	}

	g := vec3{
		a0[0]*x0x + h[0]*x0y,
		a0[1]*x1x + h[1]*x1y,
		a0[2]*x2x + h[2]*x2y,
	}
	return noiseOutputGain * (m[0]*g[0] + m[1]*g[1] + m[2]*g[2])
}
