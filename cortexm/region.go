// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cortexm

import (
	"github.com/usbarmory/cortexm-mpu/mpu"
)

// accessPermission translates mpu.Permissions into the AP/XN pair the
// hardware expects (p191, Table 4-32, Cortex-M4 DGUG).
func accessPermission(p mpu.Permissions) (ap uint32, xn uint32) {
	switch p {
	case mpu.ReadWriteExecute:
		return apReadWrite, 0
	case mpu.ReadWrite:
		return apReadWrite, 1
	case mpu.ReadExecute:
		return apReadOnly, 0
	case mpu.ReadOnly:
		return apReadOnly, 1
	case mpu.ExecuteOnly:
		return apNoAccess, 0
	default:
		panic("cortexm: invalid permissions")
	}
}

// makeRegion builds the RBAR/RASR words for a solved geometry.
// physicalBase must be 32-byte aligned, which solve always guarantees.
func makeRegion(g geometry, regionIndex int, perm mpu.Permissions) mpu.RegionSlot {
	return mpu.RegionSlot{
		Logical: &mpu.Extent{Start: g.logicalStart, Size: g.logicalSize},
		RBAR:    rbarWord(g.physicalBase, regionIndex),
		RASR:    rasrWord(g.physicalSize, g.disableMask, perm),
	}
}

// emptySlot returns the RBAR/RASR encoding for an unused region slot: RBAR
// still carries the region index so a single write pair correctly clears
// any prior use of that hardware region; RASR's ENABLE bit is clear.
func emptySlot(regionIndex int) mpu.RegionSlot {
	return mpu.RegionSlot{
		RBAR: 1<<rbarValidPos | uint32(regionIndex)<<rbarRegionPos,
		RASR: 0,
	}
}
