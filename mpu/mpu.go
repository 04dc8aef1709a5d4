// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package mpu defines the architecture-neutral contract a kernel uses to
// program per-process memory isolation, and the data types shared by every
// region allocator: Permissions, a logical Region, and the per-process
// Config that survives across the Driver operations and context switches.
//
// The Driver interface is implemented by cortexm.MPU (the real Cortex-M
// MPU) and by NoMPU (a no-op used by boards without an MPU).
package mpu

import "errors"

// Permissions is an input to region configuration only; it carries no
// hardware encoding itself (see cortexm for the AP/XN translation table).
type Permissions int

const (
	// ReadWriteExecute grants full access.
	ReadWriteExecute Permissions = iota
	// ReadWrite grants read and write, no execute.
	ReadWrite
	// ReadExecute grants read and execute, no write.
	ReadExecute
	// ReadOnly grants read only.
	ReadOnly
	// ExecuteOnly grants execute only, no read or write.
	ExecuteOnly
)

func (p Permissions) String() string {
	switch p {
	case ReadWriteExecute:
		return "RWX"
	case ReadWrite:
		return "RW"
	case ReadExecute:
		return "RX"
	case ReadOnly:
		return "R"
	case ExecuteOnly:
		return "X"
	default:
		return "invalid"
	}
}

// Region is the logical address range a caller asked for and was granted,
// returned by the allocator operations below. Size is wide enough to
// represent the one legal 4 GiB region (base 0, size 2^32), which does not
// fit in a uint32; Start, a hardware base address, always does.
type Region struct {
	Start uint32
	Size  uint64
}

// Extent is a logical [Start, Start+Size) range stored inside an occupied
// region slot.
type Extent struct {
	Start uint32
	Size  uint64
}

// End returns the first address past the extent.
func (e Extent) End() uint64 {
	return uint64(e.Start) + e.Size
}

// Overlaps reports whether e and other, both logical extents, intersect.
func (e Extent) Overlaps(other Extent) bool {
	return uint64(e.Start) < other.End() && uint64(other.Start) < e.End()
}

// RegionSlot is a per-process record for one of the eight hardware regions.
// Logical is nil for an empty slot; a nil Logical is the only way to mark a
// slot empty (address 0 is a legitimate physical base on some parts and
// cannot serve as a sentinel). RBAR and RASR are the hardware words an
// empty or occupied slot writes verbatim on Commit.
type RegionSlot struct {
	Logical *Extent
	RBAR    uint32
	RASR    uint32
}

// Occupied reports whether the slot currently holds a region.
func (s *RegionSlot) Occupied() bool {
	return s.Logical != nil
}

// AppMemoryRegionNum is the reserved slot index for the app-memory region;
// general-purpose allocations use slots 1..len(Config.Slots)-1.
const AppMemoryRegionNum = 0

// TotalRegions is the number of hardware regions a Cortex-M MPU of this
// shape exposes (p188, 4.5.2 MPU Type Register, MPU_TYPE.DREGION); this
// driver does not support parts that implement a different count.
const TotalRegions = 8

// State tracks the lifecycle of one process's Config: Fresh until an
// app-memory region has been allocated, Active once slot 0 holds one,
// and terminally OutOfMemory once an update would overlap kernel memory.
type State int

const (
	// Fresh means no app-memory region has been allocated yet.
	Fresh State = iota
	// Active means slot 0 holds an app-memory region.
	Active
	// OutOfMemory means a prior UpdateAppMemoryRegion call failed; the
	// state is terminal and the owning process must be destroyed.
	OutOfMemory
)

// Config is the per-process MPU configuration: eight region slots plus the
// state machine that governs the app-memory slot's lifecycle. The zero
// value is a Fresh configuration with all slots empty.
type Config struct {
	Slots [TotalRegions]RegionSlot
	state State
}

// State returns the configuration's current lifecycle state.
func (c *Config) State() State {
	return c.state
}

// Activate transitions the configuration from Fresh to Active. Drivers
// call it after successfully placing the app-memory region in slot 0.
func (c *Config) Activate() {
	c.state = Active
}

// MarkOutOfMemory transitions the configuration to the terminal
// OutOfMemory state. Drivers call it when an app-memory update would
// overlap the kernel break; the owning process must then be destroyed.
func (c *Config) MarkOutOfMemory() {
	c.state = OutOfMemory
}

// Overlaps reports whether any occupied slot's logical extent intersects
// the given logical extent.
func (c *Config) Overlaps(e Extent) bool {
	for i := range c.Slots {
		if slot := c.Slots[i].Logical; slot != nil && slot.Overlaps(e) {
			return true
		}
	}
	return false
}

// unusedSlot returns the lowest-indexed empty general-purpose slot
// (searching 1..TotalRegions-1), or -1 if none is free.
func (c *Config) unusedSlot() int {
	for i := AppMemoryRegionNum + 1; i < TotalRegions; i++ {
		if !c.Slots[i].Occupied() {
			return i
		}
	}
	return -1
}

// Errors returned by the allocator operations. InfeasibleGeometry,
// OutOfSlots, OverlapsExisting and OutOfMemory are ordinary, expected
// outcomes a kernel is meant to branch on. Calling UpdateAppMemoryRegion
// before AllocateAppMemoryRegion is a programmer error and has no error
// value here: it panics instead (see Driver.UpdateAppMemoryRegion).
var (
	ErrInfeasibleGeometry = errors.New("mpu: no region geometry satisfies the request")
	ErrOutOfSlots         = errors.New("mpu: no free general-purpose region slot")
	ErrOverlapsExisting   = errors.New("mpu: requested range overlaps an existing region")
	ErrOutOfMemory        = errors.New("mpu: app memory break would overlap kernel memory")
)

// Driver is the interface a kernel scheduler uses to program per-process
// memory isolation. It is implemented by cortexm.MPU and by NoMPU.
type Driver interface {
	// Enable turns the MPU on.
	Enable()

	// Disable turns the MPU off.
	Disable()

	// NumberTotalRegions returns how many hardware regions this MPU
	// exposes.
	NumberTotalRegions() int

	// AllocateAppMemoryRegion chooses the block a process will live in
	// and stores it in config's slot 0. See cortexm.MPU for the exact
	// geometry.
	AllocateAppMemoryRegion(parentStart uint32, parentSize uint64, minTotal, initialApp, initialKernel uint64, perm Permissions, config *Config) (Region, error)

	// UpdateAppMemoryRegion grows or shrinks the enabled-subregion
	// prefix of config's slot 0 as the process's memory break moves.
	// Calling it before AllocateAppMemoryRegion is a programming error
	// and panics.
	UpdateAppMemoryRegion(appBreak, kernelBreak uint32, config *Config) error

	// AllocateRegion places a general-purpose region in the lowest free
	// slot 1..7.
	AllocateRegion(parentStart uint32, parentSize uint64, minRegionSize uint64, perm Permissions, config *Config) (Region, error)

	// Commit writes all eight region slots to hardware.
	Commit(config *Config)
}
