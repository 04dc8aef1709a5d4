// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cortexm

import (
	"fmt"

	"github.com/usbarmory/cortexm-mpu/mpu"
)

// MPU represents the Cortex-M Memory Protection Unit. The zero value is
// not usable; construct one with New, which binds the fixed System
// Control Space base address.
type MPU struct {
	// Base is the MPU register block base address, fixed at 0xE000ED90
	// on every Cortex-M part.
	Base uint32
}

// New returns an MPU bound to the standard Cortex-M register base. The
// constructor is the only place that may assert the address is genuinely
// MMIO-backed; callers must not construct more than one MPU value that
// targets live hardware.
func New() *MPU {
	return &MPU{Base: mpuBase}
}

func (m *MPU) addr(offset uint32) uint32 {
	return m.Base + offset
}

// AllocateAppMemoryRegion chooses the block a process will live in and
// makes an initially small, app-owned prefix accessible by programming
// region 0's subregion-disable mask (p191, 4.5.5 MPU Region Attribute and
// Size Register). It is meant to be called once per process: a second
// call against a config whose slot 0 is already occupied fails with
// ErrOverlapsExisting as soon as the requested parent block overlaps the
// region already sitting in slot 0, which it almost always will. The
// scheduler must not rely on any particular repeat-call behavior.
func (m *MPU) AllocateAppMemoryRegion(parentStart uint32, parentSize uint64, minTotal, initialApp, initialKernel uint64, perm mpu.Permissions, config *mpu.Config) (mpu.Region, error) {
	if config.Overlaps(mpu.Extent{Start: parentStart, Size: parentSize}) {
		return mpu.Region{}, mpu.ErrOverlapsExisting
	}

	totalNeeded := minTotal
	if want := initialApp + initialKernel; want > totalNeeded {
		totalNeeded = want
	}

	physicalSize := nextPowerOfTwo(totalNeeded)
	if physicalSize < 256 {
		physicalSize = 256
	}
	if physicalSize > uint64(1)<<32 {
		return mpu.Region{}, mpu.ErrInfeasibleGeometry
	}

	physicalBase := uint32(ceilToMultiple(uint64(parentStart), physicalSize))
	subregionSize := physicalSize / 8
	subregionsInUse := initialApp*8/physicalSize + 1

	kernelBreak := uint64(physicalBase) + physicalSize - initialKernel
	if uint64(physicalBase)+subregionsInUse*subregionSize > kernelBreak {
		physicalSize *= 2
		if physicalSize > uint64(1)<<32 {
			return mpu.Region{}, mpu.ErrInfeasibleGeometry
		}
		physicalBase = uint32(ceilToMultiple(uint64(parentStart), physicalSize))
		subregionSize = physicalSize / 8
		subregionsInUse = initialApp*8/physicalSize + 1
	}

	if uint64(physicalBase)+physicalSize > uint64(parentStart)+parentSize {
		return mpu.Region{}, mpu.ErrInfeasibleGeometry
	}

	var mask uint8 = 0xff
	for i := uint64(0); i < subregionsInUse; i++ {
		mask &^= 1 << i
	}

	slot := mpu.RegionSlot{
		Logical: &mpu.Extent{Start: physicalBase, Size: physicalSize},
		RBAR:    rbarWord(physicalBase, mpu.AppMemoryRegionNum),
		RASR:    rasrWord(physicalSize, &mask, perm),
	}

	config.Slots[mpu.AppMemoryRegionNum] = slot
	config.Activate()

	return mpu.Region{Start: physicalBase, Size: physicalSize}, nil
}

// UpdateAppMemoryRegion grows or shrinks the enabled-subregion prefix of
// the app-memory region as the process's heap or kernel grant region
// moves, by rewriting region 0's SRD field. Calling it before
// AllocateAppMemoryRegion is a programming error: there is no region to
// update, and this panics.
func (m *MPU) UpdateAppMemoryRegion(appBreak, kernelBreak uint32, config *mpu.Config) error {
	slot := &config.Slots[mpu.AppMemoryRegionNum]

	if !slot.Occupied() {
		panic("cortexm: UpdateAppMemoryRegion called before AllocateAppMemoryRegion")
	}

	if appBreak > kernelBreak {
		config.MarkOutOfMemory()
		return mpu.ErrOutOfMemory
	}

	physicalBase := slot.Logical.Start
	physicalSize := slot.Logical.Size

	perm := permissionsOf(slot.RASR)

	appUsed := uint64(appBreak) - uint64(physicalBase)
	subregionsInUse := appUsed*8/physicalSize + 1
	subregionSize := physicalSize / 8

	if uint64(physicalBase)+subregionsInUse*subregionSize > uint64(kernelBreak) {
		config.MarkOutOfMemory()
		return mpu.ErrOutOfMemory
	}

	var mask uint8 = 0xff
	for i := uint64(0); i < subregionsInUse; i++ {
		mask &^= 1 << i
	}

	*slot = mpu.RegionSlot{
		Logical: &mpu.Extent{Start: physicalBase, Size: physicalSize},
		RBAR:    rbarWord(physicalBase, mpu.AppMemoryRegionNum),
		RASR:    rasrWord(physicalSize, &mask, perm),
	}

	return nil
}

// AllocateRegion places a general-purpose region of at least minRegionSize
// bytes inside [parentStart, parentStart+parentSize) in the lowest free
// slot 1..7. The logical start may be shifted above parentStart to meet
// the hardware alignment rules; the returned Region is the logical range
// actually granted.
func (m *MPU) AllocateRegion(parentStart uint32, parentSize uint64, minRegionSize uint64, perm mpu.Permissions, config *mpu.Config) (mpu.Region, error) {
	slotIndex := -1
	for i := mpu.AppMemoryRegionNum + 1; i < mpu.TotalRegions; i++ {
		if !config.Slots[i].Occupied() {
			slotIndex = i
			break
		}
	}
	if slotIndex < 0 {
		return mpu.Region{}, mpu.ErrOutOfSlots
	}

	g, ok := solve(parentStart, parentSize, minRegionSize)
	if !ok {
		return mpu.Region{}, mpu.ErrInfeasibleGeometry
	}

	logical := mpu.Extent{Start: g.logicalStart, Size: g.logicalSize}
	if config.Overlaps(logical) {
		return mpu.Region{}, mpu.ErrOverlapsExisting
	}

	config.Slots[slotIndex] = makeRegion(g, slotIndex, perm)

	return mpu.Region{Start: g.logicalStart, Size: g.logicalSize}, nil
}

// rbarWord and rasrWord build the two hardware words from a region's
// physical base and size and its optional subregion-disable mask. They
// serve both makeRegion (solved geometries, whose physical region may be
// larger than the logical range) and the app-memory operations (whose
// stored extent is the whole physical region).
func rbarWord(physicalBase uint32, regionIndex int) uint32 {
	return (physicalBase>>rbarAddrShift)<<rbarAddrShift | 1<<rbarValidPos | uint32(regionIndex)&rbarRegionMask
}

func rasrWord(physicalSize uint64, disableMask *uint8, perm mpu.Permissions) uint32 {
	ap, xn := accessPermission(perm)
	size := uint32(log2(physicalSize) - 1)

	rasr := uint32(1)<<rasrEnablePos | (size&rasrSizeMask)<<rasrSizePos | ap<<rasrApPos | xn<<rasrXnPos
	if disableMask != nil {
		rasr |= uint32(*disableMask) << rasrSrdPos
	}
	return rasr
}

// permissionsOf recovers the Permissions value previously encoded into a
// RASR word, needed by UpdateAppMemoryRegion to preserve the region's
// access rights across a mask rewrite.
func permissionsOf(rasr uint32) mpu.Permissions {
	ap := (rasr >> rasrApPos) & rasrApMask
	xn := (rasr >> rasrXnPos) & 1

	switch {
	case ap == apReadWrite && xn == 0:
		return mpu.ReadWriteExecute
	case ap == apReadWrite && xn == 1:
		return mpu.ReadWrite
	case ap == apReadOnly && xn == 0:
		return mpu.ReadExecute
	case ap == apReadOnly && xn == 1:
		return mpu.ReadOnly
	case ap == apNoAccess && xn == 0:
		return mpu.ExecuteOnly
	default:
		panic(fmt.Sprintf("cortexm: unrecognized RASR access encoding %#x", rasr))
	}
}

// log2 returns the base-2 logarithm of a power of two; callers only ever
// pass physical sizes solve/AllocateAppMemoryRegion already constrained to
// a power of two.
func log2(n uint64) int {
	k := 0
	for n > 1 {
		n >>= 1
		k++
	}
	return k
}
