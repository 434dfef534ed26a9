// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

// Package dom is the browser host. A Host wraps one container element and
// drives frames with requestAnimationFrame. Surfaces are <canvas> elements
// and the probe offers WebGL2 (modern) then WebGL1 (baseline).
//
// All callbacks run on the browser event loop.
package dom

import (
	"log/slog"
	"syscall/js"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/render"
)

func slogger() *slog.Logger { return aurora.Logger() }

// Host binds a container element to the page window.
type Host struct {
	container js.Value
	window    js.Value
	document  js.Value

	nextID host.FrameID
	frames map[host.FrameID]frameHandle
}

type frameHandle struct {
	raf int
	fn  js.Func
}

// New creates a host for the container element.
func New(container js.Value) *Host {
	win := js.Global()
	return &Host{
		container: container,
		window:    win,
		document:  win.Get("document"),
		frames:    make(map[host.FrameID]frameHandle),
	}
}

// RequestFrame schedules fn with requestAnimationFrame.
func (h *Host) RequestFrame(fn host.FrameFunc) host.FrameID {
	h.nextID++
	id := h.nextID
	var cb js.Func
	cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		delete(h.frames, id)
		cb.Release()
		ts := 0.0
		if len(args) > 0 {
			ts = args[0].Float()
		}
		fn(ts)
		return nil
	})
	raf := h.window.Call("requestAnimationFrame", cb).Int()
	h.frames[id] = frameHandle{raf: raf, fn: cb}
	return id
}

// CancelFrame cancels a pending animation frame.
func (h *Host) CancelFrame(id host.FrameID) {
	f, ok := h.frames[id]
	if !ok {
		return
	}
	delete(h.frames, id)
	h.window.Call("cancelAnimationFrame", f.raf)
	f.fn.Release()
}

// AddResizeListener listens for window "resize" events.
func (h *Host) AddResizeListener(fn func()) func() {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	h.window.Call("addEventListener", "resize", cb)
	return func() {
		if cb.IsUndefined() {
			return
		}
		h.window.Call("removeEventListener", "resize", cb)
		cb.Release()
		cb = js.Func{}
	}
}

// ObserveResize observes the container with a ResizeObserver. Browsers
// without ResizeObserver rely on window resize events only.
func (h *Host) ObserveResize(fn func()) func() {
	ctor := js.Global().Get("ResizeObserver")
	if !ctor.Truthy() {
		return func() {}
	}
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	obs := ctor.New(cb)
	obs.Call("observe", h.container)
	return func() {
		if cb.IsUndefined() {
			return
		}
		obs.Call("disconnect")
		cb.Release()
		cb = js.Func{}
	}
}

// CreateSurface creates a canvas that fills the container.
func (h *Host) CreateSurface() render.Surface {
	el := h.document.Call("createElement", "canvas")
	style := el.Get("style")
	style.Set("display", "block")
	style.Set("width", "100%")
	style.Set("height", "100%")
	return &Canvas{el: el}
}

// LayoutSize returns the container's client size in CSS pixels.
func (h *Host) LayoutSize() (float64, float64) {
	return h.container.Get("clientWidth").Float(), h.container.Get("clientHeight").Float()
}

// DevicePixelRatio returns window.devicePixelRatio.
func (h *Host) DevicePixelRatio() float64 {
	v := h.window.Get("devicePixelRatio")
	if v.Type() != js.TypeNumber {
		return 1
	}
	return v.Float()
}

// Attach appends the canvas to the container.
func (h *Host) Attach(s render.Surface) {
	if c, ok := s.(*Canvas); ok {
		h.container.Call("appendChild", c.el)
	}
}

// Detach removes the canvas if the container is its parent.
func (h *Host) Detach(s render.Surface) bool {
	c, ok := s.(*Canvas)
	if !ok || !c.el.Get("parentNode").Equal(h.container) {
		return false
	}
	h.container.Call("removeChild", c.el)
	return true
}

// ApplyFallback sets the fallback as the container's background.
func (h *Host) ApplyFallback(style host.FallbackStyle) {
	css := style.CSS()
	st := h.container.Get("style")
	st.Set("backgroundImage", css.BackgroundImage)
	st.Set("backgroundColor", css.BackgroundColor)
	st.Set("backgroundBlendMode", css.BackgroundBlendMode)
}

// Acquirers returns WebGL2 and WebGL1.
func (h *Host) Acquirers() (modern, baseline render.Acquirer) {
	return WebGL2Acquirer, WebGL1Acquirer
}

var (
	_ host.Scheduler        = (*Host)(nil)
	_ host.Window           = (*Host)(nil)
	_ host.Container        = (*Host)(nil)
	_ host.AcquirerProvider = (*Host)(nil)
)
