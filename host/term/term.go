// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package term is a true-colour terminal host built on tcell.
//
// Each terminal cell shows two vertically stacked pixels using the upper
// half block: the upper pixel is the foreground colour and the lower pixel
// the background colour. A screen of C columns and R rows is therefore a
// layout box of C × 2R logical pixels. With a device pixel ratio above 1
// the surface is rendered larger and scaled down when presented.
//
// Frames are driven by a ticker on the goroutine that calls Run; every
// frame callback and resize notification runs there.
package term

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/host/headless"
	"github.com/gogpu/aurora/render"
)

// upperHalfBlock renders the foreground in the top half of a cell.
const upperHalfBlock = '▀'

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30

// Host drives an aurora renderer on a tcell screen. It implements
// host.Container, host.Window and host.Scheduler.
type Host struct {
	screen     tcell.Screen
	fps        int
	dpr        float64
	background color.RGBA
	modern     render.Acquirer
	baseline   render.Acquirer

	sched  headless.Scheduler
	window headless.Window
	layout headless.Window

	surface  *render.PixmapSurface
	fallback *host.FallbackStyle
	frame    *image.RGBA
	start    time.Time
}

// Option configures a Host.
type Option func(*Host)

// WithFPS sets the frame rate. Values below 1 are ignored.
func WithFPS(fps int) Option {
	return func(h *Host) {
		if fps > 0 {
			h.fps = fps
		}
	}
}

// WithDevicePixelRatio renders dpr device pixels per terminal half-cell.
func WithDevicePixelRatio(dpr float64) Option {
	return func(h *Host) {
		h.dpr = dpr
	}
}

// WithBackground sets the colour transparent pixels are composited over.
func WithBackground(c color.RGBA) Option {
	return func(h *Host) {
		h.background = c
	}
}

// WithAcquirers sets the render contexts offered to the renderer.
func WithAcquirers(modern, baseline render.Acquirer) Option {
	return func(h *Host) {
		h.modern = modern
		h.baseline = baseline
	}
}

// New creates a host on screen. The screen must already be initialized;
// the caller keeps ownership and calls Fini.
func New(screen tcell.Screen, opts ...Option) *Host {
	h := &Host{
		screen:     screen,
		fps:        DefaultFPS,
		dpr:        1,
		background: color.RGBA{A: 0xff},
		baseline:   render.SoftwareAcquirer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run delivers frames until ctx is done or the user presses Esc, Ctrl-C or
// q. It returns ctx.Err() when cancelled and nil on a quit key.
func (h *Host) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(h.fps))
	defer ticker.Stop()
	h.start = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			h.Tick(float64(now.Sub(h.start).Microseconds()) / 1000)
		}
	}
}

// Tick runs the queued frame callbacks with timestamp ts and presents the
// result.
func (h *Host) Tick(ts float64) {
	h.sched.Step(ts)
	h.Present()
}

// HandleEvent processes one terminal event and reports whether the host
// should keep running.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.window.FireResize()
		h.layout.FireResize()
		h.Present()
	}
	return true
}

// Present draws the attached surface, or the fallback, to the screen.
func (h *Host) Present() {
	cols, rows := h.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	b := image.Rect(0, 0, cols, rows*2)
	if h.frame == nil || h.frame.Bounds() != b {
		h.frame = image.NewRGBA(b)
	}

	switch {
	case h.fallback != nil:
		h.fallback.Draw(h.frame)
	case h.surface != nil && h.surface.Width() > 0 && h.surface.Height() > 0:
		src := h.surface.Image()
		if src.Bounds().Size() == b.Size() {
			copy(h.frame.Pix, src.Pix)
		} else {
			xdraw.BiLinear.Scale(h.frame, b, src, src.Bounds(), xdraw.Src, nil)
		}
		h.flatten()
	default:
		return
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := h.frame.RGBAAt(x, 2*y)
			bottom := h.frame.RGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(rgbColor(top)).
				Background(rgbColor(bottom))
			h.screen.SetContent(x, y, upperHalfBlock, nil, style)
		}
	}
	h.screen.Show()
}

// flatten composites the premultiplied frame over the background.
func (h *Host) flatten() {
	bg := h.background
	p := h.frame.Pix
	for i := 0; i+3 < len(p); i += 4 {
		inv := 255 - uint32(p[i+3])
		p[i+0] = uint8(uint32(p[i+0]) + (uint32(bg.R)*inv+127)/255)
		p[i+1] = uint8(uint32(p[i+1]) + (uint32(bg.G)*inv+127)/255)
		p[i+2] = uint8(uint32(p[i+2]) + (uint32(bg.B)*inv+127)/255)
		p[i+3] = 0xff
	}
}

func rgbColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// RequestFrame queues fn for the next tick.
func (h *Host) RequestFrame(fn host.FrameFunc) host.FrameID {
	return h.sched.RequestFrame(fn)
}

// CancelFrame removes a queued callback.
func (h *Host) CancelFrame(id host.FrameID) {
	h.sched.CancelFrame(id)
}

// AddResizeListener registers fn for terminal resizes.
func (h *Host) AddResizeListener(fn func()) func() {
	return h.window.AddResizeListener(fn)
}

// ObserveResize registers fn for layout changes, which in a terminal are
// the same events as window resizes.
func (h *Host) ObserveResize(fn func()) func() {
	return h.layout.AddResizeListener(fn)
}

// CreateSurface returns an empty pixmap surface.
func (h *Host) CreateSurface() render.Surface {
	return render.NewPixmapSurface(0, 0)
}

// LayoutSize returns the screen size in half-cell pixels.
func (h *Host) LayoutSize() (float64, float64) {
	cols, rows := h.screen.Size()
	return float64(cols), float64(rows * 2)
}

// DevicePixelRatio returns the configured ratio.
func (h *Host) DevicePixelRatio() float64 { return h.dpr }

// Attach makes s the presented surface. Surfaces other than
// *render.PixmapSurface are ignored.
func (h *Host) Attach(s render.Surface) {
	if ps, ok := s.(*render.PixmapSurface); ok {
		h.surface = ps
	}
}

// Detach stops presenting s.
func (h *Host) Detach(s render.Surface) bool {
	if h.surface == nil || render.Surface(h.surface) != s {
		return false
	}
	h.surface = nil
	return true
}

// ApplyFallback presents style from now on.
func (h *Host) ApplyFallback(style host.FallbackStyle) {
	h.fallback = &style
}

// Acquirers returns the configured acquirers.
func (h *Host) Acquirers() (modern, baseline render.Acquirer) {
	return h.modern, h.baseline
}

var (
	_ host.Scheduler        = (*Host)(nil)
	_ host.Window           = (*Host)(nil)
	_ host.Container        = (*Host)(nil)
	_ host.AcquirerProvider = (*Host)(nil)
)
