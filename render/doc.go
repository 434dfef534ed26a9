// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the drawable surfaces and render contexts that the
// aurora renderer draws into.
//
// A render context owns the surface binding, the compiled program and the
// device handle. Contexts come in capability tiers and are obtained through
// an Acquirer. Probe tries the higher tier first and falls back to the
// baseline tier on the same surface; the selected tier fixes the shader
// dialect for the lifetime of the mount.
//
// # Core Interfaces
//
//   - Surface: a drawable whose size the resize coordinator controls
//   - Context: one per mounted instance; builds programs and draws frames
//   - Program: a compiled kernel bound to one Context
//   - Acquirer: creates a Context on a Surface, or reports why it cannot
//
// # Context Implementations
//
//   - SoftwareContext: the Go kernel evaluated per pixel (tier 1)
//   - gpu.Acquirer: a gogpu/wgpu HAL device running WGSL (tier 2)
//   - host/dom: WebGL2 (tier 2) and WebGL1 (tier 1) in the browser
//
// # Architecture
//
//	             aurora.Mount
//	                  │
//	                  ▼
//	   Probe(surface, modern, baseline)
//	      ┌───────────┴───────────┐
//	      ▼                       ▼
//	 modern Acquirer        baseline Acquirer
//	      │                       │
//	      └───────────┬───────────┘
//	                  ▼
//	           render.Context ── Dialect() ──▶ kernel.Generate
//	                  │
//	                  ▼
//	      BuildProgram / SetSize / Draw
//
// # Thread Safety
//
// Contexts are NOT thread-safe. A context is used from the host's loop
// goroutine only.
package render
