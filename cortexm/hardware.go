// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package cortexm

import (
	"log"

	"github.com/usbarmory/cortexm-mpu/cortexm/internal/reg"
	"github.com/usbarmory/cortexm-mpu/mpu"
)

// Enable turns the MPU on: sets CTRL.ENABLE, clears CTRL.HFNMIENA (the MPU
// is bypassed during HardFault/NMI/FAULTMASK handlers) and sets
// CTRL.PRIVDEFENA (privileged code falls back to the default memory map
// for any address not covered by an enabled region).
func (m *MPU) Enable() {
	var ctrl uint32
	ctrl |= 1 << ctrlEnablePos
	ctrl |= 1 << ctrlPrivdefenaPos
	reg.Write(m.addr(ctrlOffset), ctrl)
}

// Disable turns the MPU off.
func (m *MPU) Disable() {
	reg.Write(m.addr(ctrlOffset), 0)
}

// NumberTotalRegions reads MPU_TYPE.DREGION, the number of hardware
// regions this part implements.
func (m *MPU) NumberTotalRegions() int {
	return int(reg.Get(m.addr(typeOffset), typeDregionPos, typeDregionMask))
}

// Commit writes every region slot to hardware: one write to RBAR
// (selecting the region and its base address) followed by one write to
// RASR (programming size, attributes and enable) per slot, in index
// order. There is no partial write and no read-modify-write; empty slots
// clear their region exactly as occupied ones program theirs.
func (m *MPU) Commit(config *mpu.Config) {
	for i := range config.Slots {
		slot := &config.Slots[i]
		reg.Write(m.addr(rbarOffset), slot.RBAR)
		reg.Write(m.addr(rasrOffset), slot.RASR)
	}

	log.Printf("cortexm: mpu committed %d regions", len(config.Slots))
}

var _ mpu.Driver = (*MPU)(nil)
