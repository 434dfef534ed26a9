//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoHAL is returned by FromProvider when the provider does not expose
// HAL device and queue handles.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL types")

// Device is an open HAL device and queue.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string

	// external is true for a device borrowed from a host; Release leaves it alive.
	external bool
}

// NewDevice wraps an already open device. The caller keeps ownership of
// device and queue; Release does not destroy them.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue, name: "external", external: true}
}

// OpenStandalone opens a device on the Vulkan backend, preferring a discrete
// or integrated GPU over software adapters.
func OpenStandalone() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}

// FromProvider borrows the HAL device of a host. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func FromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	slogger().Info("gpu: using shared device")
	return NewDevice(device, queue), nil
}

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// Release destroys the device and instance unless they are borrowed.
// Safe to call multiple times.
func (d *Device) Release() {
	if !d.external {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}
