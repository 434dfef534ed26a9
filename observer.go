// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"time"

	"github.com/gogpu/aurora/render"
)

// FrameStats describes one drawn frame.
type FrameStats struct {
	// Frame counts drawn frames from 1.
	Frame uint64

	// TimestampMS is the scheduler timestamp passed to the frame.
	TimestampMS float64

	// TimeUniform is the animation time given to the kernel.
	TimeUniform float32

	// Width and Height are the surface size in device pixels.
	Width, Height int

	// DrawDuration is the wall time spent in Context.Draw.
	DrawDuration time.Duration

	Tier render.Tier
}

// FrameObserver receives stats after each drawn frame, on the loop
// goroutine. Implementations must not block.
type FrameObserver interface {
	ObserveFrame(FrameStats)
}

// FrameObserverFunc adapts a function to FrameObserver.
type FrameObserverFunc func(FrameStats)

// ObserveFrame calls f(s).
func (f FrameObserverFunc) ObserveFrame(s FrameStats) { f(s) }
