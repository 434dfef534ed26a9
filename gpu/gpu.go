//go:build !nogpu

// Package gpu provides the modern-tier aurora render context on a
// gogpu/wgpu HAL device.
//
// The context draws the WGSL kernel into an offscreen texture and reads
// each frame back into a *render.PixmapSurface, so any pixel host can
// composite it.
//
// Usage:
//
//	a := aurora.Mount(container, window, scheduler,
//	    aurora.WithAcquirers(gpu.Acquirer(nil), render.SoftwareAcquirer))
//
// When the host runs on gogpu, pass its device provider so the renderer
// shares the host's device instead of opening one:
//
//	gpu.Acquirer(app.DeviceProvider())
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/aurora"
	gpuimpl "github.com/gogpu/aurora/internal/gpu"
	"github.com/gogpu/aurora/render"
)

func init() {
	aurora.RegisterLoggerSink(gpuimpl.SetLogger)
}

// Acquirer returns a render.Acquirer for the modern tier.
//
// If provider exposes HAL handles (HalDevice() any, HalQueue() any) the
// context borrows that device. Otherwise, including for a nil provider or a
// render.NullDeviceHandle, a standalone Vulkan device is opened. The surface
// must be a *render.PixmapSurface.
func Acquirer(provider gpucontext.DeviceProvider) render.Acquirer {
	return func(s render.Surface) (render.Context, error) {
		ps, ok := s.(*render.PixmapSurface)
		if !ok || ps == nil {
			return nil, fmt.Errorf("%w: wgpu context needs *render.PixmapSurface, got %T", render.ErrSurfaceUnsupported, s)
		}
		dev, err := openDevice(provider)
		if err != nil {
			return nil, err
		}
		return gpuimpl.NewContext(dev, ps), nil
	}
}

func openDevice(provider gpucontext.DeviceProvider) (*gpuimpl.Device, error) {
	if provider != nil {
		dev, err := gpuimpl.FromProvider(provider)
		if err == nil {
			return dev, nil
		}
		if !errors.Is(err, gpuimpl.ErrNoHAL) {
			return nil, err
		}
	}
	return gpuimpl.OpenStandalone()
}
