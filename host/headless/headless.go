// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless is a deterministic in-memory host. Frames run only when
// the test or tool calls Step, and layout changes are explicit.
//
// Example:
//
//	h := headless.New(800, 600)
//	a := aurora.Mount(h.Container, h.Window, h.Scheduler)
//	h.Scheduler.Step(0)
//	png.Encode(w, h.Container.Surface().Image())
package headless

import (
	"slices"
	"sync"

	"github.com/gogpu/aurora/host"
	"github.com/gogpu/aurora/render"
)

// Host bundles a headless container, window and scheduler.
type Host struct {
	Container *Container
	Window    *Window
	Scheduler *Scheduler
}

// New creates a host with a width×height layout box and a device pixel
// ratio of 1.
func New(width, height float64) *Host {
	return &Host{
		Container: NewContainer(width, height),
		Window:    &Window{},
		Scheduler: &Scheduler{},
	}
}

// Scheduler is a manual frame scheduler.
type Scheduler struct {
	mu      sync.Mutex
	nextID  host.FrameID
	pending map[host.FrameID]host.FrameFunc
	order   []host.FrameID
}

// RequestFrame queues fn for the next Step.
func (s *Scheduler) RequestFrame(fn host.FrameFunc) host.FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[host.FrameID]host.FrameFunc)
	}
	s.nextID++
	s.pending[s.nextID] = fn
	s.order = append(s.order, s.nextID)
	return s.nextID
}

// CancelFrame removes a queued callback.
func (s *Scheduler) CancelFrame(id host.FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return
	}
	delete(s.pending, id)
	s.order = slices.DeleteFunc(s.order, func(v host.FrameID) bool { return v == id })
}

// Outstanding returns the number of queued callbacks.
func (s *Scheduler) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Step runs every callback queued before the call with timestamp ts.
// Callbacks queued during Step run on the next Step. It returns the number
// of callbacks run.
func (s *Scheduler) Step(ts float64) int {
	s.mu.Lock()
	batch := make([]host.FrameFunc, 0, len(s.order))
	for _, id := range s.order {
		batch = append(batch, s.pending[id])
		delete(s.pending, id)
	}
	s.order = s.order[:0]
	s.mu.Unlock()

	for _, fn := range batch {
		fn(ts)
	}
	return len(batch)
}

// Window records resize listeners.
type Window struct {
	listeners listenerSet
}

// AddResizeListener registers fn.
func (w *Window) AddResizeListener(fn func()) func() {
	return w.listeners.add(fn)
}

// Listeners returns the number of registered resize listeners.
func (w *Window) Listeners() int { return w.listeners.len() }

// FireResize calls every registered listener.
func (w *Window) FireResize() { w.listeners.fire() }

// Container is an in-memory layout box holding pixmap surfaces.
type Container struct {
	mu        sync.Mutex
	width     float64
	height    float64
	dpr       float64
	attached  []render.Surface
	observers listenerSet
	fallback  *host.FallbackStyle
}

// NewContainer creates a width×height container with a ratio of 1.
func NewContainer(width, height float64) *Container {
	return &Container{width: width, height: height, dpr: 1}
}

// CreateSurface returns a new empty *render.PixmapSurface.
func (c *Container) CreateSurface() render.Surface {
	return render.NewPixmapSurface(0, 0)
}

// LayoutSize returns the layout box.
func (c *Container) LayoutSize() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// DevicePixelRatio returns the configured ratio.
func (c *Container) DevicePixelRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dpr
}

// SetLayoutSize changes the layout box and notifies observers.
func (c *Container) SetLayoutSize(width, height float64) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
	c.observers.fire()
}

// SetDevicePixelRatio changes the ratio. Observers are not notified; a
// ratio change alone does not change the layout box.
func (c *Container) SetDevicePixelRatio(dpr float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dpr = dpr
}

// Attach adds s.
func (c *Container) Attach(s render.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = append(c.attached, s)
}

// Detach removes s and reports whether it was attached.
func (c *Container) Detach(s render.Surface) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.attached, s)
	if i < 0 {
		return false
	}
	c.attached = slices.Delete(c.attached, i, i+1)
	return true
}

// Attached returns the attached surfaces.
func (c *Container) Attached() []render.Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.attached)
}

// Surface returns the first attached pixmap surface, or nil.
func (c *Container) Surface() *render.PixmapSurface {
	for _, s := range c.Attached() {
		if ps, ok := s.(*render.PixmapSurface); ok {
			return ps
		}
	}
	return nil
}

// ObserveResize registers fn for layout changes.
func (c *Container) ObserveResize(fn func()) func() {
	return c.observers.add(fn)
}

// Observers returns the number of active resize observers.
func (c *Container) Observers() int { return c.observers.len() }

// ApplyFallback records style.
func (c *Container) ApplyFallback(style host.FallbackStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = &style
}

// Fallback returns the applied fallback style, or nil.
func (c *Container) Fallback() *host.FallbackStyle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallback
}

// Acquirers returns no modern tier and the software context as baseline.
func (c *Container) Acquirers() (modern, baseline render.Acquirer) {
	return nil, render.SoftwareAcquirer
}

var (
	_ host.Scheduler        = (*Scheduler)(nil)
	_ host.Window           = (*Window)(nil)
	_ host.Container        = (*Container)(nil)
	_ host.AcquirerProvider = (*Container)(nil)
)

// listenerSet is a set of callbacks with removal handles.
type listenerSet struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

func (l *listenerSet) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	l.nextID++
	id := l.nextID
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listenerSet) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

func (l *listenerSet) fire() {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
