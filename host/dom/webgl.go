// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package dom

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gogpu/aurora/kernel"
	"github.com/gogpu/aurora/render"
)

// Canvas is a <canvas> element used as a render.Surface.
type Canvas struct {
	el js.Value
}

// Element returns the underlying DOM element.
func (c *Canvas) Element() js.Value { return c.el }

// Width returns the drawing buffer width.
func (c *Canvas) Width() int { return c.el.Get("width").Int() }

// Height returns the drawing buffer height.
func (c *Canvas) Height() int { return c.el.Get("height").Int() }

// glConsts caches the WebGL enum values used by glContext.
type glConsts struct {
	arrayBuffer    int
	staticDraw     int
	floatType      int
	triangles      int
	colorBufferBit int
	compileStatus  int
	linkStatus     int
	vertexShader   int
	fragmentShader int
}

func loadConsts(gl js.Value) glConsts {
	return glConsts{
		arrayBuffer:    gl.Get("ARRAY_BUFFER").Int(),
		staticDraw:     gl.Get("STATIC_DRAW").Int(),
		floatType:      gl.Get("FLOAT").Int(),
		triangles:      gl.Get("TRIANGLES").Int(),
		colorBufferBit: gl.Get("COLOR_BUFFER_BIT").Int(),
		compileStatus:  gl.Get("COMPILE_STATUS").Int(),
		linkStatus:     gl.Get("LINK_STATUS").Int(),
		vertexShader:   gl.Get("VERTEX_SHADER").Int(),
		fragmentShader: gl.Get("FRAGMENT_SHADER").Int(),
	}
}

// glContext is a WebGL rendering context on a Canvas.
type glContext struct {
	canvas  *Canvas
	gl      js.Value
	consts  glConsts
	tier    render.Tier
	dialect kernel.Dialect
	lost    bool
}

// glProgram is a linked WebGL program with its uniform locations and the
// full-screen triangle buffer.
type glProgram struct {
	owner   *glContext
	program js.Value
	vbo     js.Value

	uTime       js.Value
	uAmplitude  js.Value
	uColorStops js.Value
	uResolution js.Value
	uBlend      js.Value

	colors js.Value // Float32Array(9), reused per draw
}

// WebGL2Acquirer acquires a "webgl2" context at TierModern.
func WebGL2Acquirer(s render.Surface) (render.Context, error) {
	return acquire(s, "webgl2", render.TierModern, kernel.DialectGLSL300ES)
}

// WebGL1Acquirer acquires a "webgl" context, or the legacy
// "experimental-webgl", at TierBaseline.
func WebGL1Acquirer(s render.Surface) (render.Context, error) {
	ctx, err := acquire(s, "webgl", render.TierBaseline, kernel.DialectGLSL100)
	if err == nil {
		return ctx, nil
	}
	return acquire(s, "experimental-webgl", render.TierBaseline, kernel.DialectGLSL100)
}

func acquire(s render.Surface, kind string, tier render.Tier, d kernel.Dialect) (render.Context, error) {
	c, ok := s.(*Canvas)
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %s needs *dom.Canvas, got %T", render.ErrSurfaceUnsupported, kind, s)
	}
	attrs := map[string]any{
		"alpha":              true,
		"premultipliedAlpha": true,
		"antialias":          false,
	}
	gl := c.el.Call("getContext", kind, attrs)
	if !gl.Truthy() {
		return nil, fmt.Errorf("%w: getContext(%q) returned null", render.ErrContextUnavailable, kind)
	}
	slogger().Debug("dom: context acquired", "kind", kind)
	return &glContext{
		canvas:  c,
		gl:      gl,
		consts:  loadConsts(gl),
		tier:    tier,
		dialect: d,
	}, nil
}

func (c *glContext) Tier() render.Tier       { return c.tier }
func (c *glContext) Dialect() kernel.Dialect { return c.dialect }
func (c *glContext) Size() (int, int)        { return c.canvas.Width(), c.canvas.Height() }
func (c *glContext) isLost() bool            { return c.lost || c.gl.Call("isContextLost").Bool() }

// BuildProgram compiles and links src and uploads the triangle.
func (c *glContext) BuildProgram(src kernel.Source) (render.Program, error) {
	if c.isLost() {
		return nil, render.ErrContextLost
	}
	if src.Dialect != c.dialect {
		return nil, fmt.Errorf("%w: context compiles %v, got %v", render.ErrProgramBuild, c.dialect, src.Dialect)
	}

	vs, err := c.compile(c.consts.vertexShader, src.Vertex)
	if err != nil {
		return nil, err
	}
	defer c.gl.Call("deleteShader", vs)
	fs, err := c.compile(c.consts.fragmentShader, src.Fragment)
	if err != nil {
		return nil, err
	}
	defer c.gl.Call("deleteShader", fs)

	prog := c.gl.Call("createProgram")
	c.gl.Call("attachShader", prog, vs)
	c.gl.Call("attachShader", prog, fs)
	c.gl.Call("bindAttribLocation", prog, 0, kernel.AttrPosition)
	c.gl.Call("linkProgram", prog)
	if !c.gl.Call("getProgramParameter", prog, c.consts.linkStatus).Bool() {
		log := c.gl.Call("getProgramInfoLog", prog).String()
		c.gl.Call("deleteProgram", prog)
		return nil, fmt.Errorf("%w: link: %s", render.ErrProgramBuild, log)
	}

	vbo := c.gl.Call("createBuffer")
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, vbo)
	c.gl.Call("bufferData", c.consts.arrayBuffer, float32Array(kernel.FullScreenTriangle[:]), c.consts.staticDraw)

	p := &glProgram{
		owner:       c,
		program:     prog,
		vbo:         vbo,
		uTime:       c.gl.Call("getUniformLocation", prog, kernel.UniformTime),
		uAmplitude:  c.gl.Call("getUniformLocation", prog, kernel.UniformAmplitude),
		uColorStops: c.gl.Call("getUniformLocation", prog, kernel.UniformColorStops),
		uResolution: c.gl.Call("getUniformLocation", prog, kernel.UniformResolution),
		uBlend:      c.gl.Call("getUniformLocation", prog, kernel.UniformBlend),
		colors:      js.Global().Get("Float32Array").New(kernel.StopCount * 3),
	}
	return p, nil
}

func (c *glContext) compile(kind int, source string) (js.Value, error) {
	sh := c.gl.Call("createShader", kind)
	c.gl.Call("shaderSource", sh, source)
	c.gl.Call("compileShader", sh)
	if !c.gl.Call("getShaderParameter", sh, c.consts.compileStatus).Bool() {
		log := c.gl.Call("getShaderInfoLog", sh).String()
		c.gl.Call("deleteShader", sh)
		return js.Value{}, fmt.Errorf("%w: compile: %s", render.ErrProgramBuild, log)
	}
	return sh, nil
}

// SetSize sets the drawing buffer size and viewport.
func (c *glContext) SetSize(width, height int) {
	if c.lost {
		return
	}
	c.canvas.el.Set("width", width)
	c.canvas.el.Set("height", height)
	c.gl.Call("viewport", 0, 0, width, height)
}

// Draw clears to transparent and draws the full-screen triangle.
func (c *glContext) Draw(p render.Program, u *kernel.Uniforms) error {
	if c.isLost() {
		return render.ErrContextLost
	}
	gp, ok := p.(*glProgram)
	if !ok || gp.owner != c {
		return errors.New("dom: program does not belong to this context")
	}
	if !gp.program.Truthy() {
		return errors.New("dom: program destroyed")
	}

	gl := c.gl
	gl.Call("clearColor", 0, 0, 0, 0)
	gl.Call("clear", c.consts.colorBufferBit)
	gl.Call("useProgram", gp.program)

	gl.Call("bindBuffer", c.consts.arrayBuffer, gp.vbo)
	gl.Call("enableVertexAttribArray", 0)
	gl.Call("vertexAttribPointer", 0, 2, c.consts.floatType, false, 0, 0)

	for i, col := range u.Colors {
		gp.colors.SetIndex(i*3+0, col.R)
		gp.colors.SetIndex(i*3+1, col.G)
		gp.colors.SetIndex(i*3+2, col.B)
	}
	gl.Call("uniform1f", gp.uTime, u.Time)
	gl.Call("uniform1f", gp.uAmplitude, u.Amplitude)
	gl.Call("uniform3fv", gp.uColorStops, gp.colors)
	gl.Call("uniform2f", gp.uResolution, u.Resolution[0], u.Resolution[1])
	gl.Call("uniform1f", gp.uBlend, u.Blend)

	gl.Call("drawArrays", c.consts.triangles, 0, 3)
	return nil
}

// Lose forces context loss through WEBGL_lose_context when available.
func (c *glContext) Lose() {
	if c.lost {
		return
	}
	c.lost = true
	if ext := c.gl.Call("getExtension", "WEBGL_lose_context"); ext.Truthy() {
		ext.Call("loseContext")
	}
}

// Destroy deletes the program and buffer. After context loss the handles
// are already invalid and only dropped.
func (p *glProgram) Destroy() {
	if !p.program.Truthy() {
		return
	}
	if !p.owner.isLost() {
		p.owner.gl.Call("deleteBuffer", p.vbo)
		p.owner.gl.Call("deleteProgram", p.program)
	}
	p.program = js.Null()
	p.vbo = js.Null()
}

func float32Array(v []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(v))
	for i, f := range v {
		arr.SetIndex(i, f)
	}
	return arr
}

var _ render.Context = (*glContext)(nil)
