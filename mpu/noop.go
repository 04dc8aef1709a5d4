// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mpu

// NoMPU is a no-op Driver for boards without an MPU, or for early boot
// before one is brought up. Every allocator operation succeeds and returns
// the requested extent unchanged; Commit, Enable and Disable do nothing.
type NoMPU struct{}

// Enable is a no-op.
func (NoMPU) Enable() {}

// Disable is a no-op.
func (NoMPU) Disable() {}

// NumberTotalRegions always reports zero: there is no hardware to own
// regions.
func (NoMPU) NumberTotalRegions() int {
	return 0
}

// AllocateAppMemoryRegion stores nothing and returns the requested extent
// unchanged.
func (NoMPU) AllocateAppMemoryRegion(parentStart uint32, _ uint64, minTotal, initialApp, initialKernel uint64, _ Permissions, _ *Config) (Region, error) {
	size := minTotal
	if want := initialApp + initialKernel; want > size {
		size = want
	}
	return Region{Start: parentStart, Size: size}, nil
}

// UpdateAppMemoryRegion always succeeds.
func (NoMPU) UpdateAppMemoryRegion(_, _ uint32, _ *Config) error {
	return nil
}

// AllocateRegion stores nothing and returns the requested extent
// unchanged.
func (NoMPU) AllocateRegion(parentStart uint32, _ uint64, minRegionSize uint64, _ Permissions, _ *Config) (Region, error) {
	return Region{Start: parentStart, Size: minRegionSize}, nil
}

// Commit is a no-op.
func (NoMPU) Commit(_ *Config) {}

var _ Driver = NoMPU{}
