// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"time"

	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/kernel"
	"github.com/gogpu/aurora/render"
)

// Clock conversion factors: the scheduler timestamp in milliseconds is
// scaled to seconds/10 before speed, and the kernel receives a further 0.1.
const (
	timestampScale  = 0.01
	timeUniformGain = 0.1
)

// frameTime returns the kernel time for a frame at timestamp ts.
func frameTime(p Props, ts float64) float32 {
	t := ts * timestampScale
	if p.Time != nil {
		t = *p.Time
	}
	return float32(t * p.Speed * timeUniformGain)
}

// applyProps writes the per-frame uniforms from p. Resolution is owned by
// the resizer and left untouched.
func applyProps(u *kernel.Uniforms, p Props, ts float64) {
	u.Time = frameTime(p, ts)
	u.Amplitude = float32(p.Amplitude)
	u.Blend = float32(p.Blend)
	u.Colors = resolveStops(p.ColorStops, slogger())
}

// loop draws one frame per scheduler callback while running.
//
// At most one callback is outstanding at any time; it is cancelled by stop.
type loop struct {
	sched    host.Scheduler
	ctx      render.Context
	prog     render.Program
	uniforms *kernel.Uniforms
	cell     *PropsCell
	observer FrameObserver

	// onError is called once with the first draw error, after the loop has
	// stopped.
	onError func(error)

	running bool
	frameID host.FrameID
	frames  uint64
}

func (l *loop) start() {
	if l.running {
		return
	}
	l.running = true
	l.schedule()
}

func (l *loop) stop() {
	l.running = false
	if l.frameID != 0 {
		l.sched.CancelFrame(l.frameID)
		l.frameID = 0
	}
}

func (l *loop) schedule() {
	l.frameID = l.sched.RequestFrame(l.tick)
}

func (l *loop) tick(ts float64) {
	l.frameID = 0
	if !l.running {
		return
	}

	applyProps(l.uniforms, l.cell.Load(), ts)
	begin := time.Now()
	if err := l.ctx.Draw(l.prog, l.uniforms); err != nil {
		l.running = false
		l.onError(err)
		return
	}
	elapsed := time.Since(begin)
	l.frames++

	if l.observer != nil {
		w, h := l.ctx.Size()
		l.observer.ObserveFrame(FrameStats{
			Frame:        l.frames,
			TimestampMS:  ts,
			TimeUniform:  l.uniforms.Time,
			Width:        w,
			Height:       h,
			DrawDuration: elapsed,
			Tier:         l.ctx.Tier(),
		})
	}

	if l.running {
		l.schedule()
	}
}
