//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/aurora/kernel"
	"github.com/gogpu/aurora/render"
)

// colorFormat is the offscreen texture format. It matches the byte order of
// render.PixmapSurface so readback needs no swizzle.
const colorFormat = gputypes.TextureFormatRGBA8Unorm

// copyRowAlignment is the required BytesPerRow alignment for texture to
// buffer copies.
const copyRowAlignment = 256

// submitTimeout bounds the wait for one frame on the GPU.
const submitTimeout = 5 * time.Second

// Context is a modern-tier render.Context drawing with a HAL device into a
// render.PixmapSurface.
type Context struct {
	dev     *Device
	surface *render.PixmapSurface
	lost    bool

	// Offscreen color target and readback buffer, sized to the surface.
	tex      hal.Texture
	view     hal.TextureView
	staging  hal.Buffer
	rowPitch uint32
	width    uint32
	height   uint32
}

var _ render.Context = (*Context)(nil)

// NewContext creates a context on dev drawing into s. The context owns dev
// from now on and releases it in Lose.
func NewContext(dev *Device, s *render.PixmapSurface) *Context {
	return &Context{dev: dev, surface: s}
}

// Tier returns render.TierModern.
func (c *Context) Tier() render.Tier { return render.TierModern }

// Dialect returns kernel.DialectWGSL.
func (c *Context) Dialect() kernel.Dialect { return kernel.DialectWGSL }

// Device returns the underlying device, or nil after Lose.
func (c *Context) Device() *Device { return c.dev }

// SetSize resizes the surface. GPU textures follow on the next Draw.
func (c *Context) SetSize(width, height int) {
	if c.lost {
		return
	}
	c.surface.Resize(width, height)
}

// Size returns the surface size.
func (c *Context) Size() (int, int) {
	return c.surface.Width(), c.surface.Height()
}

// Lose destroys every GPU resource the context owns and releases the device.
func (c *Context) Lose() {
	if c.lost {
		return
	}
	c.lost = true
	c.destroyTargets()
	if c.dev != nil {
		c.dev.Release()
		c.dev = nil
	}
	slogger().Debug("gpu: context released")
}

// Program is a compiled aurora pipeline with its uniform binding.
type Program struct {
	owner *Context

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	uniforms   hal.Buffer
	bindGroup  hal.BindGroup
}

var _ render.Program = (*Program)(nil)

// BuildProgram compiles src with naga and creates the render pipeline.
func (c *Context) BuildProgram(src kernel.Source) (render.Program, error) {
	if c.lost {
		return nil, render.ErrContextLost
	}
	if src.Dialect != kernel.DialectWGSL || src.Module == "" {
		return nil, fmt.Errorf("%w: wgpu context needs WGSL, got %v", render.ErrProgramBuild, src.Dialect)
	}
	spirv, err := compileSPIRV(src.Module)
	if err != nil {
		return nil, fmt.Errorf("%w: compile aurora shader: %w", render.ErrProgramBuild, err)
	}

	p := &Program{owner: c}
	if err := p.create(c.dev.device, spirv); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("%w: %w", render.ErrProgramBuild, err)
	}
	slogger().Debug("gpu: aurora pipeline created", "spirv_words", len(spirv))
	return p, nil
}

func (p *Program) create(device hal.Device, spirv []uint32) error {
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "aurora_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	p.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "aurora_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "aurora_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// The kernel outputs premultiplied color.
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "aurora_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: kernel.VertexEntry,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: kernel.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	uniforms, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "aurora_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	p.uniforms = uniforms

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "aurora_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniforms.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	p.bindGroup = bindGroup
	return nil
}

// Destroy releases the pipeline objects. Safe to call multiple times and
// after the owning context was lost.
func (p *Program) Destroy() {
	if p.owner == nil {
		return
	}
	var device hal.Device
	if p.owner.dev != nil {
		device = p.owner.dev.device
	}
	if device != nil {
		if p.bindGroup != nil {
			device.DestroyBindGroup(p.bindGroup)
		}
		if p.uniforms != nil {
			device.DestroyBuffer(p.uniforms)
		}
		if p.pipeline != nil {
			device.DestroyRenderPipeline(p.pipeline)
		}
		if p.pipeLayout != nil {
			device.DestroyPipelineLayout(p.pipeLayout)
		}
		if p.bindLayout != nil {
			device.DestroyBindGroupLayout(p.bindLayout)
		}
		if p.shader != nil {
			device.DestroyShaderModule(p.shader)
		}
	}
	*p = Program{}
}

// Draw renders one frame and reads it back into the surface.
func (c *Context) Draw(rp render.Program, u *kernel.Uniforms) error {
	if c.lost {
		return render.ErrContextLost
	}
	p, ok := rp.(*Program)
	if !ok || p.owner != c {
		return errors.New("gpu: program does not belong to this context")
	}
	if p.pipeline == nil {
		return errors.New("gpu: program destroyed")
	}

	w, h := c.Size()
	if w == 0 || h == 0 {
		return nil
	}
	if err := c.ensureTargets(uint32(w), uint32(h)); err != nil { //nolint:gosec // surface dimensions fit uint32
		return err
	}

	c.dev.queue.WriteBuffer(p.uniforms, 0, packUniforms(u))
	return c.encodeAndReadback(p)
}

// ensureTargets creates or recreates the color texture and staging buffer
// if the requested dimensions differ from the current size.
func (c *Context) ensureTargets(w, h uint32) error {
	if c.width == w && c.height == h && c.tex != nil {
		return nil
	}
	c.destroyTargets()
	device := c.dev.device

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "aurora_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	c.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "aurora_color_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.destroyTargets()
		return fmt.Errorf("create color view: %w", err)
	}
	c.view = view

	pitch := alignRow(w * 4)
	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "aurora_staging",
		Size:  uint64(pitch) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		c.destroyTargets()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	c.staging = staging

	c.rowPitch = pitch
	c.width = w
	c.height = h
	slogger().Debug("gpu: targets resized", "width", w, "height", h, "row_pitch", pitch)
	return nil
}

// destroyTargets releases the texture resources and resets dimensions.
func (c *Context) destroyTargets() {
	if c.dev != nil && c.dev.device != nil {
		device := c.dev.device
		if c.staging != nil {
			device.DestroyBuffer(c.staging)
		}
		if c.view != nil {
			device.DestroyTextureView(c.view)
		}
		if c.tex != nil {
			device.DestroyTexture(c.tex)
		}
	}
	c.staging = nil
	c.view = nil
	c.tex = nil
	c.rowPitch = 0
	c.width = 0
	c.height = 0
}

func (c *Context) encodeAndReadback(p *Program) error {
	device, queue := c.dev.device, c.dev.queue
	w, h := c.width, c.height

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "aurora_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("aurora_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "aurora_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       c.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	// The color texture is in attachment layout after the pass; the copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: c.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(c.tex, c.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: c.rowPitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: c.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, submitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, uint64(c.rowPitch)*uint64(h))
	if err := queue.ReadBuffer(c.staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	copyRows(c.surface.Pixels(), c.surface.Stride(), readback, int(c.rowPitch), int(w)*4, int(h))
	return nil
}

// alignRow rounds n up to copyRowAlignment.
func alignRow(n uint32) uint32 {
	return (n + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

// copyRows copies h rows of rowBytes from src (pitch srcPitch) into dst
// (pitch dstPitch).
func copyRows(dst []byte, dstPitch int, src []byte, srcPitch, rowBytes, h int) {
	for y := 0; y < h; y++ {
		copy(dst[y*dstPitch:y*dstPitch+rowBytes], src[y*srcPitch:y*srcPitch+rowBytes])
	}
}
