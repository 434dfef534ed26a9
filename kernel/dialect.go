// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// ErrUnknownDialect is returned by Generate for a dialect outside the closed set.
var ErrUnknownDialect = errors.New("kernel: unknown shader dialect")

// Dialect is a shader language variant. The set is closed; a render context
// reports exactly one.
type Dialect uint8

const (
	// DialectNative runs the Go kernel directly. It has no source text.
	DialectNative Dialect = iota
	// DialectWGSL is WebGPU Shading Language with explicit bindings.
	DialectWGSL
	// DialectGLSL300ES is GLSL ES 3.00 (WebGL2): typed in/out, explicit output.
	DialectGLSL300ES
	// DialectGLSL100 is GLSL ES 1.00 (WebGL1): attribute, gl_FragColor.
	DialectGLSL100
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectNative:
		return "native"
	case DialectWGSL:
		return "wgsl"
	case DialectGLSL300ES:
		return "glsl300es"
	case DialectGLSL100:
		return "glsl100"
	default:
		return "Dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// Attribute and uniform names used by the GLSL dialects.
const (
	AttrPosition      = "position"
	UniformTime       = "uTime"
	UniformAmplitude  = "uAmplitude"
	UniformColorStops = "uColorStops"
	UniformResolution = "uResolution"
	UniformBlend      = "uBlend"
)

// WGSL entry points.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// FullScreenTriangle holds the clip-space corners of the single triangle
// that covers the viewport. Its bounding box extends past the right and top
// edges and is clipped.
var FullScreenTriangle = [6]float32{-1, -1, 3, -1, -1, 3}

// Source is the generated program text for one dialect.
//
// GLSL dialects fill Vertex and Fragment. WGSL fills Module with both entry
// points. DialectNative leaves all fields empty.
type Source struct {
	Dialect  Dialect
	Vertex   string
	Fragment string
	Module   string
}

//go:embed shaders/*.tmpl
var shaderFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{"f": floatLiteral}).
	ParseFS(shaderFS, "shaders/*.tmpl"))

type templateData struct {
	ES3 bool

	AttrPosition  string
	UniTime       string
	UniAmplitude  string
	UniColorStops string
	UniResolution string
	UniBlend      string

	SkewX, SkewY, SkewZ, SkewW float64
	GradA, GradB               float64
	OutputGain                 float64
	Modulus                    float64

	Stop0, Stop1, Stop2 float64

	NoiseScaleX    float64
	NoiseDriftX    float64
	NoiseDriftY    float64
	HeightGain     float64
	HeightBias     float64
	IntensityScale float64
	MidPoint       float64

	Triangle0X, Triangle0Y float64
	Triangle1X, Triangle1Y float64
	Triangle2X, Triangle2Y float64
}

func newTemplateData(es3 bool) templateData {
	t := FullScreenTriangle
	return templateData{
		ES3:            es3,
		AttrPosition:   AttrPosition,
		UniTime:        UniformTime,
		UniAmplitude:   UniformAmplitude,
		UniColorStops:  UniformColorStops,
		UniResolution:  UniformResolution,
		UniBlend:       UniformBlend,
		SkewX:          simplexSkewX,
		SkewY:          simplexSkewY,
		SkewZ:          simplexSkewZ,
		SkewW:          simplexSkewW,
		GradA:          gradientNormA,
		GradB:          gradientNormB,
		OutputGain:     noiseOutputGain,
		Modulus:        permuteModulus,
		Stop0:          float64(StopPositions[0]),
		Stop1:          float64(StopPositions[1]),
		Stop2:          float64(StopPositions[2]),
		NoiseScaleX:    NoiseScaleX,
		NoiseDriftX:    NoiseDriftX,
		NoiseDriftY:    NoiseDriftY,
		HeightGain:     HeightGain,
		HeightBias:     HeightBias,
		IntensityScale: IntensityScale,
		MidPoint:       MidPoint,
		Triangle0X:     float64(t[0]),
		Triangle0Y:     float64(t[1]),
		Triangle1X:     float64(t[2]),
		Triangle1Y:     float64(t[3]),
		Triangle2X:     float64(t[4]),
		Triangle2Y:     float64(t[5]),
	}
}

// floatLiteral formats v so every dialect parses it as a float: it always
// carries a decimal point or an exponent.
func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Generate renders the program source for d.
func Generate(d Dialect) (Source, error) {
	src := Source{Dialect: d}
	var err error
	switch d {
	case DialectNative:
		return src, nil
	case DialectWGSL:
		src.Module, err = execute("aurora.wgsl.tmpl", newTemplateData(false))
	case DialectGLSL300ES, DialectGLSL100:
		data := newTemplateData(d == DialectGLSL300ES)
		if src.Vertex, err = execute("aurora.vert.glsl.tmpl", data); err != nil {
			break
		}
		src.Fragment, err = execute("aurora.frag.glsl.tmpl", data)
	default:
		return Source{}, fmt.Errorf("%w: %v", ErrUnknownDialect, d)
	}
	if err != nil {
		return Source{}, fmt.Errorf("kernel: generate %v: %w", d, err)
	}
	return src, nil
}

func execute(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
