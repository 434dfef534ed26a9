// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// A gogpu host passes its DeviceHandle to gpu.Acquirer so the renderer shares
// the host's device instead of opening its own. DeviceHandle is an alias for
// gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle without a device. gpu.Acquirer opens a
// standalone device when given one.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
