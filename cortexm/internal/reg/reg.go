// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

// Package reg provides primitives for reading and writing the Cortex-M
// System Control Space registers the MPU driver programs. Unlike tamago's
// own internal/reg (used for Cortex-A peripheral MMIO), no data-cache
// maintenance is performed around each access: the SCS is not behind the
// data cache on Cortex-M.
package reg

import "unsafe"

// Read returns the 32-bit value at addr.
func Read(addr uint32) uint32 {
	return *(*uint32)(unsafe.Pointer(uintptr(addr)))
}

// Write stores val at addr.
func Write(addr uint32, val uint32) {
	*(*uint32)(unsafe.Pointer(uintptr(addr))) = val
}

// Get returns the mask-wide field at bit position pos within addr.
func Get(addr uint32, pos int, mask int) uint32 {
	return (Read(addr) >> uint(pos)) & uint32(mask)
}
