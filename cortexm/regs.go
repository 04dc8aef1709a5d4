// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cortexm implements the geometry solver, region configuration and
// controller for the ARM Cortex-M Memory Protection Unit, as described in
// section 4.5 of the Cortex-M4 Devices Generic User Guide
// (ARM DUI0553A), table references below refer to that document.
package cortexm

// MPU register map, fixed base address (p186, 4.5 The MPU, Cortex-M4 DGUG).
const (
	mpuBase = 0xE000ED90

	typeOffset = 0x00 // MPU_TYPE, read-only
	ctrlOffset = 0x04 // MPU_CTRL
	rnrOffset  = 0x08 // MPU_RNR, unused (RBAR.VALID selects the region instead)
	rbarOffset = 0x0c // MPU_RBAR
	rasrOffset = 0x10 // MPU_RASR
)

// MPU_TYPE fields (p188, 4.5.2 MPU Type Register).
const (
	typeDregionPos  = 8
	typeDregionMask = 0xff
)

// MPU_CTRL fields (p189, 4.5.3 MPU Control Register).
const (
	ctrlEnablePos     = 0
	ctrlHfnmienaPos   = 1
	ctrlPrivdefenaPos = 2
)

// MPU_RBAR fields (p190, 4.5.4 MPU Region Base Address Register).
const (
	rbarRegionPos  = 0
	rbarRegionMask = 0xf
	rbarValidPos   = 4
	rbarAddrShift  = 5
)

// MPU_RASR fields (p191, 4.5.5 MPU Region Attribute and Size Register).
const (
	rasrEnablePos = 0
	rasrSizePos   = 1
	rasrSizeMask  = 0x1f
	rasrSrdPos    = 8
	rasrSrdMask   = 0xff
	rasrApPos     = 24
	rasrApMask    = 0x7
	rasrXnPos     = 28
)

// Access Permission encodings used by this driver (p191, Table 4-32). Only
// the three-bit patterns the Permissions table in region.go maps to are
// named here; the MPU supports a wider AP encoding than this driver
// exposes.
const (
	apNoAccess  = 0b000
	apReadOnly  = 0b110
	apReadWrite = 0b011
)
