// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"errors"
	"fmt"
)

// ErrStopOrder is returned when color stop positions are not strictly increasing.
var ErrStopOrder = errors.New("kernel: color stop positions must be strictly increasing")

// StopCount is the number of color stops in the ramp.
const StopCount = 3

// StopPositions are the fixed ramp positions of the three color stops.
var StopPositions = [StopCount]float32{0.0, 0.5, 1.0}

// RGB is a linear color with components in [0, 1].
type RGB struct {
	R, G, B float32
}

// Scale multiplies every component by s.
func (c RGB) Scale(s float32) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Mix returns a*(1-t) + b*t per component, matching the GLSL mix builtin.
// Mix(a, b, 0) is exactly a and Mix(a, b, 1) is exactly b.
func Mix(a, b RGB, t float32) RGB {
	u := 1 - t
	return RGB{
		R: a.R*u + b.R*t,
		G: a.G*u + b.G*t,
		B: a.B*u + b.B*t,
	}
}

// ColorStop anchors a ramp color at a position in [0, 1].
type ColorStop struct {
	Color    RGB
	Position float32
}

// MakeStops places three colors at StopPositions.
func MakeStops(colors [StopCount]RGB) [StopCount]ColorStop {
	var stops [StopCount]ColorStop
	for i := range stops {
		stops[i] = ColorStop{Color: colors[i], Position: StopPositions[i]}
	}
	return stops
}

// ValidateStops reports ErrStopOrder if positions do not strictly increase.
func ValidateStops(stops [StopCount]ColorStop) error {
	for i := 1; i < len(stops); i++ {
		if !(stops[i].Position > stops[i-1].Position) {
			return fmt.Errorf("%w: stop %d at %v, stop %d at %v",
				ErrStopOrder, i-1, stops[i-1].Position, i, stops[i].Position)
		}
	}
	return nil
}

// Ramp evaluates the piecewise-linear color ramp at factor.
//
// The interval is chosen by the last stop whose position is <= factor, among
// all stops but the final one. A factor exactly on an interior stop therefore
// starts the upper interval and yields that stop's color.
func Ramp(stops [StopCount]ColorStop, factor float32) RGB {
	index := 0
	for i := 0; i < StopCount-1; i++ {
		if stops[i].Position <= factor {
			index = i
		}
	}
	cur := stops[index]
	next := stops[index+1]
	span := next.Position - cur.Position
	return Mix(cur.Color, next.Color, (factor-cur.Position)/span)
}
