// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package aurora renders an animated procedural gradient as a background.
//
// A noise field bends a color band whose colors come from a three-stop
// ramp. The renderer picks the most capable render context the host offers,
// keeps its surface sized to the container in device pixels, and redraws
// once per display refresh. When no context is available the container
// shows a static layered radial gradient instead.
//
// # Quick Start
//
//	h := headless.New(800, 600)
//	a := aurora.Mount(h.Container, h.Window, h.Scheduler,
//	    aurora.WithColorStops("#ff6aa2", "#ffb6d5", "#ff3b6f"),
//	    aurora.WithSpeed(1.5),
//	)
//	defer a.Unmount()
//
// # Lifecycle
//
// Mount creates the surface, probes for a context, builds the program,
// attaches the surface, starts the frame loop and subscribes to resize
// notifications. Unmount reverses all of it and is safe to call more than
// once or before the first frame.
//
//	Unmounted ──Mount──▶ Running ──Unmount──▶ Stopped
//	              │          │
//	              │          └──draw error──▶ Fallback
//	              └──no context / build error──▶ Fallback
//
// # Props
//
// Props are read once per frame from a PropsCell. The owning page may
// replace them at any time from any goroutine; the next frame picks up the
// latest value.
//
// # Logging
//
// By default aurora produces no log output. Use SetLogger to enable it.
package aurora
