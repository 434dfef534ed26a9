//go:build !nogpu

// Package gpu implements the modern-tier aurora render context on a
// gogpu/wgpu HAL device.
//
// The aurora kernel is generated as WGSL, compiled to SPIR-V with naga and
// drawn as one full-screen triangle into an offscreen RGBA8 texture. The
// texture is copied to a staging buffer and read back into the surface
// pixmap after every frame.
//
// # Devices
//
// A Device is either opened standalone on the Vulkan backend or borrowed
// from a host that exposes its HAL device and queue. Borrowed devices are
// never destroyed here.
//
// # Resources
//
//   - Program: shader module, bind group layout, pipeline layout, render
//     pipeline, uniform buffer and bind group. Built once per mount.
//   - Context: color texture, view and staging buffer. Recreated when the
//     surface size changes.
//
// This is an internal package used by github.com/gogpu/aurora/gpu.
package gpu
