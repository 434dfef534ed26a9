// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"slices"
	"sync/atomic"
)

// Default prop values.
const (
	DefaultAmplitude = 1.0
	DefaultBlend     = 0.5
	DefaultSpeed     = 1.0
)

// DefaultColorStops are the ramp colors used when none are given.
var DefaultColorStops = []string{"#ff6aa2", "#ffb6d5", "#ff3b6f"}

// Props are the externally supplied renderer parameters.
type Props struct {
	// ColorStops are hex colors for ramp positions 0, 0.5 and 1. Missing
	// entries use DefaultColorStops per index.
	ColorStops []string `json:"colorStops,omitempty" yaml:"color_stops"`

	// Amplitude scales the noise displacement of the band.
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`

	// Blend is the width of the soft edge. Zero or less gives a hard edge.
	Blend float64 `json:"blend" yaml:"blend"`

	// Speed multiplies animation time.
	Speed float64 `json:"speed" yaml:"speed"`

	// Time overrides the frame clock when set. Nil means wall-clock time.
	Time *float64 `json:"time,omitempty" yaml:"time"`
}

// DefaultProps returns the default props.
func DefaultProps() Props {
	return Props{
		ColorStops: slices.Clone(DefaultColorStops),
		Amplitude:  DefaultAmplitude,
		Blend:      DefaultBlend,
		Speed:      DefaultSpeed,
	}
}

// Clone returns a deep copy of p.
func (p Props) Clone() Props {
	p.ColorStops = slices.Clone(p.ColorStops)
	if p.Time != nil {
		t := *p.Time
		p.Time = &t
	}
	return p
}

// PropsPatch is a partial props update. Nil fields are left unchanged.
type PropsPatch struct {
	ColorStops []string `json:"colorStops,omitempty"`
	Amplitude  *float64 `json:"amplitude,omitempty"`
	Blend      *float64 `json:"blend,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	Time       *float64 `json:"time,omitempty"`

	// WallClock clears a Time override.
	WallClock bool `json:"wallClock,omitempty"`
}

// Patch returns a patch that replaces every field with the value in p.
func (p Props) Patch() PropsPatch {
	p = p.Clone()
	return PropsPatch{
		ColorStops: p.ColorStops,
		Amplitude:  &p.Amplitude,
		Blend:      &p.Blend,
		Speed:      &p.Speed,
		Time:       p.Time,
		WallClock:  p.Time == nil,
	}
}

// Apply returns p with patch applied.
func (p Props) Apply(patch PropsPatch) Props {
	p = p.Clone()
	if patch.ColorStops != nil {
		p.ColorStops = slices.Clone(patch.ColorStops)
	}
	if patch.Amplitude != nil {
		p.Amplitude = *patch.Amplitude
	}
	if patch.Blend != nil {
		p.Blend = *patch.Blend
	}
	if patch.Speed != nil {
		p.Speed = *patch.Speed
	}
	if patch.WallClock {
		p.Time = nil
	}
	if patch.Time != nil {
		t := *patch.Time
		p.Time = &t
	}
	return p
}

// PropsCell holds the current props. Writers replace the whole value; the
// frame loop reads it once per tick. Last write wins.
//
// PropsCell is safe for concurrent use.
type PropsCell struct {
	p atomic.Pointer[Props]
}

// NewPropsCell creates a cell holding a copy of p.
func NewPropsCell(p Props) *PropsCell {
	c := &PropsCell{}
	c.Store(p)
	return c
}

// Load returns the current props. The result must not be modified.
func (c *PropsCell) Load() Props {
	if p := c.p.Load(); p != nil {
		return *p
	}
	return DefaultProps()
}

// Store replaces the props with a copy of p.
func (c *PropsCell) Store(p Props) {
	p = p.Clone()
	c.p.Store(&p)
}

// Update applies patch to the current props atomically and returns the
// stored result.
func (c *PropsCell) Update(patch PropsPatch) Props {
	for {
		old := c.p.Load()
		var base Props
		if old != nil {
			base = *old
		} else {
			base = DefaultProps()
		}
		next := base.Apply(patch)
		if c.p.CompareAndSwap(old, &next) {
			return next
		}
	}
}
