// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import "math"

// Formula constants shared by the Go kernel and every shader dialect.
const (
	// NoiseScaleX scales uv.x before sampling the noise field.
	NoiseScaleX = 2.0
	// NoiseDriftX is the horizontal drift of the noise sample per time unit.
	NoiseDriftX = 0.1
	// NoiseDriftY is the vertical (second axis) drift per time unit.
	NoiseDriftY = 0.25
	// HeightGain scales the noise sample, multiplied by amplitude.
	HeightGain = 0.5
	// HeightBias is added to the band height before scaling.
	HeightBias = 0.2
	// IntensityScale converts band height to color intensity.
	IntensityScale = 0.6
	// MidPoint is the center of the alpha transition band.
	MidPoint = 0.20
)

// Uniforms are the per-frame kernel inputs.
type Uniforms struct {
	Time      float32
	Amplitude float32
	Blend     float32

	// Resolution is the surface size in device pixels.
	Resolution [2]float32

	// Colors are the ramp colors at StopPositions.
	Colors [StopCount]RGB
}

// Stops returns the uniform colors as ramp stops.
func (u *Uniforms) Stops() [StopCount]ColorStop {
	return MakeStops(u.Colors)
}

// Smoothstep is the Hermite interpolation between e0 and e1.
// When e1 <= e0 it degrades to a hard step at e0.
func Smoothstep(e0, e1, x float32) float32 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := (x - e0) / (e1 - e0)
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return t * t * (3 - 2*t)
}

// Pixel is a premultiplied fragment output. Components are not clamped.
type Pixel struct {
	R, G, B, A float32
}

// Shader evaluates the pixel formula for one frame. Frame-constant terms are
// computed once in NewShader.
type Shader struct {
	stops      [StopCount]ColorStop
	resolution [2]float32
	blend      float32
	amplitude  float32
	driftX     float32
	driftY     float32
}

// NewShader prepares a Shader for the given uniforms.
func NewShader(u *Uniforms) *Shader {
	return &Shader{
		stops:      u.Stops(),
		resolution: u.Resolution,
		blend:      u.Blend,
		amplitude:  u.Amplitude,
		driftX:     u.Time * NoiseDriftX,
		driftY:     u.Time * NoiseDriftY,
	}
}

// Height returns exp(noise) for the column at uv.x. It depends only on uv.x
// and the frame uniforms, so rasterizers may evaluate it once per column.
func (s *Shader) Height(uvx float32) float32 {
	n := Snoise(uvx*NoiseScaleX+s.driftX, s.driftY) * HeightGain * s.amplitude
	return float32(math.Exp(float64(n)))
}

// ShadeColumn evaluates a fragment given its column height and ramp color.
func (s *Shader) ShadeColumn(uvy, height float32, ramp RGB) Pixel {
	intensity := IntensityScale * (uvy*2 - height + HeightBias)
	half := s.blend * 0.5
	alpha := Smoothstep(MidPoint-half, MidPoint+half, intensity)
	c := ramp.Scale(intensity * alpha)
	return Pixel{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Ramp returns the ramp color at uv.x.
func (s *Shader) Ramp(uvx float32) RGB {
	return Ramp(s.stops, uvx)
}

// UV normalizes fragment coordinates by the resolution.
func (s *Shader) UV(fragX, fragY float32) (float32, float32) {
	return fragX / s.resolution[0], fragY / s.resolution[1]
}

// Shade evaluates one fragment. fragX and fragY use a bottom-left origin with
// pixel centers at +0.5, as gl_FragCoord does.
func (s *Shader) Shade(fragX, fragY float32) Pixel {
	uvx, uvy := s.UV(fragX, fragY)
	return s.ShadeColumn(uvy, s.Height(uvx), s.Ramp(uvx))
}

// Shade evaluates one fragment for the given uniforms.
func Shade(fragX, fragY float32, u *Uniforms) Pixel {
	return NewShader(u).Shade(fragX, fragY)
}
