// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"strconv"

	"github.com/gogpu/aurora/kernel"
)

// Tier is a rendering capability level. Higher is more capable.
type Tier uint8

const (
	// TierNone means no context; the static fallback is shown.
	TierNone Tier = iota
	// TierBaseline is the widely available tier (WebGL1, software).
	TierBaseline
	// TierModern is the higher tier (WebGL2, wgpu).
	TierModern
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierBaseline:
		return "baseline"
	case TierModern:
		return "modern"
	default:
		return "Tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// Program is a kernel compiled for one Context.
type Program interface {
	// Destroy releases the program. It is safe to call more than once.
	Destroy()
}

// Context is a live rendering context bound to one Surface.
//
// Exactly one Context exists per mounted renderer. After Lose every method
// except Tier, Dialect and Lose fails with ErrContextLost or does nothing.
type Context interface {
	// Tier returns the capability tier the context was acquired at.
	Tier() Tier

	// Dialect returns the shader dialect this context compiles.
	Dialect() kernel.Dialect

	// BuildProgram compiles and links src. Failures wrap ErrProgramBuild.
	BuildProgram(src kernel.Source) (Program, error)

	// SetSize resizes the drawable and viewport in device pixels.
	SetSize(width, height int)

	// Size returns the drawable size in device pixels.
	Size() (width, height int)

	// Draw renders one full-screen primitive with p and u.
	Draw(p Program, u *kernel.Uniforms) error

	// Lose releases the device and forces context loss. Idempotent.
	Lose()
}

// Acquirer creates a Context on s, or reports why it cannot.
type Acquirer func(s Surface) (Context, error)
