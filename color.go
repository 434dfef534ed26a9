// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/aurora/kernel"
)

// ParseColor converts a hex color ("#ff6aa2", "ff6aa2" or "#f6a") to linear
// components in [0, 1]. Channels are divided by 255 with no gamma
// conversion.
func ParseColor(hex string) (kernel.RGB, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return kernel.RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return kernel.RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}, nil
}

// defaultStopColors are DefaultColorStops parsed once.
var defaultStopColors = func() [kernel.StopCount]kernel.RGB {
	var out [kernel.StopCount]kernel.RGB
	for i, s := range DefaultColorStops {
		c, err := ParseColor(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}()

// resolveStops converts hex stops to ramp colors. Missing or invalid entries
// use the default color for that index.
func resolveStops(stops []string, log *slog.Logger) [kernel.StopCount]kernel.RGB {
	out := defaultStopColors
	for i := 0; i < kernel.StopCount && i < len(stops); i++ {
		c, err := ParseColor(stops[i])
		if err != nil {
			log.Debug("aurora: color stop ignored", "index", i, "err", err)
			continue
		}
		out[i] = c
	}
	return out
}
