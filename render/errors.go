// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

var (
	// ErrContextUnavailable is returned by Probe when no tier can be acquired.
	ErrContextUnavailable = errors.New("render: no rendering context available")

	// ErrProgramBuild is returned when a program fails to compile or link.
	ErrProgramBuild = errors.New("render: program build failed")

	// ErrSurfaceUnsupported is returned by an Acquirer that cannot draw into
	// the given surface type.
	ErrSurfaceUnsupported = errors.New("render: surface type not supported")

	// ErrContextLost is returned by operations on a context after Lose.
	ErrContextLost = errors.New("render: context lost")
)
