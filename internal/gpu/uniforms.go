//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/aurora/kernel"
)

// uniformSize is the byte size of the aurora uniform buffer.
// Layout (std140-compatible, matches the WGSL Uniforms struct):
//
//	color1     vec3<f32> @ 0
//	time       f32       @ 12
//	color2     vec3<f32> @ 16
//	amplitude  f32       @ 28
//	color3     vec3<f32> @ 32
//	blend      f32       @ 44
//	resolution vec2<f32> @ 48
//	padding    vec2<f32> @ 56
const uniformSize = 64

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
}

func putRGB(buf []byte, off int, c kernel.RGB) {
	putF32(buf, off, c.R)
	putF32(buf, off+4, c.G)
	putF32(buf, off+8, c.B)
}

// packUniforms serializes u into the uniform buffer layout.
func packUniforms(u *kernel.Uniforms) []byte {
	buf := make([]byte, uniformSize)
	putRGB(buf, 0, u.Colors[0])
	putF32(buf, 12, u.Time)
	putRGB(buf, 16, u.Colors[1])
	putF32(buf, 28, u.Amplitude)
	putRGB(buf, 32, u.Colors[2])
	putF32(buf, 44, u.Blend)
	putF32(buf, 48, u.Resolution[0])
	putF32(buf, 52, u.Resolution[1])
	// Padding bytes 56..63 remain zero.
	return buf
}
