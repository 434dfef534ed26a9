// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"slices"

	"github.com/gogpu/aurora/render"
)

// Option configures an Aurora during Mount.
//
// Example:
//
//	a := aurora.Mount(c, w, s,
//	    aurora.WithAmplitude(1.4),
//	    aurora.WithBlend(0.3),
//	)
type Option func(*options)

// options holds optional configuration for Mount.
type options struct {
	props    Props
	cell     *PropsCell
	modern   render.Acquirer
	baseline render.Acquirer
	// acquirersSet distinguishes WithAcquirers(nil, nil) from no option.
	acquirersSet bool
	observer     FrameObserver
}

// defaultOptions returns the default mount options.
func defaultOptions() options {
	return options{
		props: DefaultProps(),
	}
}

// WithProps replaces all props.
func WithProps(p Props) Option {
	return func(o *options) {
		o.props = p.Clone()
	}
}

// WithPropsCell makes the Aurora read props from cell, which the caller may
// share with other writers such as a propsync handler. Props options are
// ignored when a cell is given.
func WithPropsCell(cell *PropsCell) Option {
	return func(o *options) {
		o.cell = cell
	}
}

// WithColorStops sets the ramp colors for positions 0, 0.5 and 1.
func WithColorStops(stops ...string) Option {
	return func(o *options) {
		o.props.ColorStops = slices.Clone(stops)
	}
}

// WithAmplitude sets the noise amplitude.
func WithAmplitude(v float64) Option {
	return func(o *options) {
		o.props.Amplitude = v
	}
}

// WithBlend sets the soft edge width.
func WithBlend(v float64) Option {
	return func(o *options) {
		o.props.Blend = v
	}
}

// WithSpeed sets the animation speed multiplier.
func WithSpeed(v float64) Option {
	return func(o *options) {
		o.props.Speed = v
	}
}

// WithTime pins the animation clock to t instead of wall-clock time.
func WithTime(t float64) Option {
	return func(o *options) {
		o.props.Time = &t
	}
}

// WithAcquirers sets the modern and baseline render context acquirers
// tried by the capability probe. Either may be nil. Without this option
// the container's acquirers are used if it provides them, and otherwise
// only the software context.
func WithAcquirers(modern, baseline render.Acquirer) Option {
	return func(o *options) {
		o.modern = modern
		o.baseline = baseline
		o.acquirersSet = true
	}
}

// WithFrameObserver registers an observer called after every drawn frame.
func WithFrameObserver(obs FrameObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}
