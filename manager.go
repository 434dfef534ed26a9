// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/kernel"
	"github.com/gogpu/aurora/render"
)

// State is the lifecycle state of a mounted Aurora.
type State int32

const (
	// StateRunning means frames are being drawn.
	StateRunning State = iota + 1
	// StateStopped means the Aurora was unmounted.
	StateStopped
	// StateFallback means no context could be used and the static fallback
	// is shown.
	StateFallback
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFallback:
		return "fallback"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Aurora is one mounted renderer instance. It owns its render context,
// surface, frame loop and resize subscriptions.
//
// Methods other than State, Props and SetProps must be called from the
// host's loop goroutine.
type Aurora struct {
	container host.Container
	window    host.Window
	sched     host.Scheduler
	cell      *PropsCell

	surface  render.Surface
	ctx      render.Context
	prog     render.Program
	uniforms kernel.Uniforms
	loop     *loop
	resizer  *resizer

	removeListener func()
	disconnect     func()

	state     atomic.Int32
	unmounted bool
}

// Mount creates an Aurora in container c.
//
// It probes for a render context, builds the program for the context's
// dialect, attaches the surface, starts the frame loop and subscribes to
// window and container resizes. If no context is available or the program
// fails to build, the fallback decoration is applied instead and the
// returned Aurora is in StateFallback. Mount itself never fails.
func Mount(c host.Container, w host.Window, s host.Scheduler, opts ...Option) *Aurora {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &Aurora{
		container: c,
		window:    w,
		sched:     s,
		cell:      o.cell,
	}
	if a.cell == nil {
		a.cell = NewPropsCell(o.props)
	}

	modern, baseline := o.modern, o.baseline
	if !o.acquirersSet {
		if ap, ok := c.(host.AcquirerProvider); ok {
			modern, baseline = ap.Acquirers()
		} else {
			baseline = render.SoftwareAcquirer
		}
	}

	a.surface = c.CreateSurface()
	ctx, err := render.Probe(a.surface, modern, baseline)
	if err != nil {
		a.engageFallback(err)
		return a
	}
	slogger().Info("aurora: context acquired", "tier", ctx.Tier(), "dialect", ctx.Dialect())

	applyProps(&a.uniforms, a.cell.Load(), 0)

	prog, err := buildProgram(ctx)
	if err != nil {
		ctx.Lose()
		a.engageFallback(err)
		return a
	}
	a.ctx = ctx
	a.prog = prog

	c.Attach(a.surface)

	a.resizer = &resizer{container: c, ctx: ctx, uniforms: &a.uniforms}
	a.loop = &loop{
		sched:    s,
		ctx:      ctx,
		prog:     prog,
		uniforms: &a.uniforms,
		cell:     a.cell,
		observer: o.observer,
		onError:  a.fail,
	}
	a.state.Store(int32(StateRunning))
	a.loop.start()

	a.removeListener = w.AddResizeListener(a.Resize)
	a.disconnect = c.ObserveResize(a.Resize)
	a.Resize()
	return a
}

func buildProgram(ctx render.Context) (render.Program, error) {
	src, err := kernel.Generate(ctx.Dialect())
	if err != nil {
		return nil, fmt.Errorf("aurora: generate %v kernel: %w", ctx.Dialect(), err)
	}
	prog, err := ctx.BuildProgram(src)
	if err != nil {
		return nil, fmt.Errorf("aurora: build %v program: %w", ctx.Dialect(), err)
	}
	return prog, nil
}

// Resize sizes the surface to the container's layout box. It is called
// automatically on window and container resizes. A zero-area box is ignored.
func (a *Aurora) Resize() {
	if a.unmounted || a.resizer == nil || a.State() != StateRunning {
		return
	}
	a.resizer.apply()
}

// Unmount stops the loop, removes every subscription, detaches the surface
// and releases the render context. It is idempotent and safe to call before
// the first frame.
func (a *Aurora) Unmount() {
	if a.unmounted {
		return
	}
	a.unmounted = true
	a.release()
	a.state.Store(int32(StateStopped))
	slogger().Info("aurora: unmounted")
}

// fail handles a draw error: the context is treated as lost and the
// fallback takes over.
func (a *Aurora) fail(err error) {
	a.release()
	a.engageFallback(fmt.Errorf("aurora: draw: %w", err))
}

// release tears down everything Mount set up. Each step runs at most once.
func (a *Aurora) release() {
	if a.loop != nil {
		a.loop.stop()
	}
	if a.removeListener != nil {
		a.removeListener()
		a.removeListener = nil
	}
	if a.disconnect != nil {
		a.disconnect()
		a.disconnect = nil
	}
	if a.surface != nil && a.ctx != nil {
		a.container.Detach(a.surface)
	}
	if a.prog != nil {
		a.prog.Destroy()
		a.prog = nil
	}
	if a.ctx != nil {
		a.ctx.Lose()
		a.ctx = nil
	}
}

// State returns the lifecycle state. Safe for concurrent use.
func (a *Aurora) State() State {
	return State(a.state.Load())
}

// Tier returns the tier of the active context, or render.TierNone.
func (a *Aurora) Tier() render.Tier {
	if a.ctx == nil {
		return render.TierNone
	}
	return a.ctx.Tier()
}

// Surface returns the drawable created at mount.
func (a *Aurora) Surface() render.Surface {
	return a.surface
}

// Props returns the props cell read by the frame loop.
func (a *Aurora) Props() *PropsCell {
	return a.cell
}

// SetProps replaces the props. The next frame uses them. Safe for
// concurrent use.
func (a *Aurora) SetProps(p Props) {
	a.cell.Store(p)
}
