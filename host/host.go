// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package host defines the environment an aurora renderer is mounted into:
// a layout container, the window, and a refresh-synchronized frame scheduler.
//
// Implementations live in the sub-packages:
//
//   - host/headless: deterministic in-memory host for tests and snapshots
//   - host/term: true-colour terminal host on tcell
//   - host/dom: browser host (js/wasm)
//
// All callbacks a host delivers (frames, resize notifications) run on one
// goroutine, the host's loop goroutine.
package host

import "github.com/gogpu/aurora/render"

// FrameFunc is called once per display refresh with a timestamp in
// milliseconds.
type FrameFunc func(timestampMS float64)

// FrameID identifies a scheduled frame callback. Zero is never a valid ID.
type FrameID uint64

// Scheduler delivers frame callbacks synchronized with display refresh.
type Scheduler interface {
	// RequestFrame schedules fn for the next refresh.
	RequestFrame(fn FrameFunc) FrameID

	// CancelFrame cancels a scheduled callback. Unknown or already fired
	// IDs are ignored.
	CancelFrame(id FrameID)
}

// Window reports global viewport changes.
type Window interface {
	// AddResizeListener registers fn and returns a function that removes it.
	AddResizeListener(fn func()) (remove func())
}

// Container is the layout box that hosts the surface.
type Container interface {
	// CreateSurface returns a new drawable suitable for this container.
	CreateSurface() render.Surface

	// LayoutSize returns the layout box in logical pixels.
	LayoutSize() (width, height float64)

	// DevicePixelRatio returns device pixels per logical pixel.
	DevicePixelRatio() float64

	// Attach adds s to the container.
	Attach(s render.Surface)

	// Detach removes s and reports whether it was attached.
	Detach(s render.Surface) bool

	// ObserveResize calls fn whenever the layout box changes and returns a
	// function that stops observing.
	ObserveResize(fn func()) (disconnect func())

	// ApplyFallback shows the static fallback decoration.
	ApplyFallback(style FallbackStyle)
}

// AcquirerProvider is implemented by containers that know which render
// contexts their surfaces support.
type AcquirerProvider interface {
	Acquirers() (modern, baseline render.Acquirer)
}
