// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cortexm

import "github.com/usbarmory/cortexm-mpu/mpu"

// NewConfig returns a Fresh, all-empty per-process MPU configuration. Its
// eight slots each carry the RBAR encoding of their own region index (see
// emptySlot) so that committing a config nobody has allocated into still
// clears all eight hardware regions correctly; the zero value of
// mpu.Config does not have this property and must not be committed
// directly.
func NewConfig() *mpu.Config {
	var config mpu.Config

	for i := range config.Slots {
		config.Slots[i] = emptySlot(i)
	}

	return &config
}
