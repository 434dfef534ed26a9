//go:build nogpu

package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/aurora/render"
)

// Acquirer always fails in nogpu builds.
func Acquirer(gpucontext.DeviceProvider) render.Acquirer {
	return func(render.Surface) (render.Context, error) {
		return nil, errors.New("gpu: built with nogpu")
	}
}
