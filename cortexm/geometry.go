// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cortexm

import "math/bits"

// minSubregionSize is the smallest subregion size the MPU can express: a
// 256 B region split into 8 subregions of 32 B each, which is also the
// smallest legal MPU region size.
const minSubregionSize = 32

// geometry is the result of solving a logical range against a parent
// block: the (possibly shifted) logical range the caller gets, and the
// physical region that covers it. disableMask is nil when the logical
// range itself is a legal, naturally-aligned MPU region (no subregions
// needed).
type geometry struct {
	logicalStart uint32
	logicalSize  uint64
	physicalBase uint32
	physicalSize uint64
	disableMask  *uint8
}

// solve computes a legal Cortex-M MPU region covering a logical range of
// at least minRegionSize bytes placed at or after parentStart, entirely
// within [parentStart, parentStart+parentSize). It reports ok=false if no
// legal (size, base, subregion mask) triple exists.
//
// minRegionSize 0 is promoted to 32, the smallest legal MPU region size
// (p191, 4.5.5 MPU Region Attribute and Size Register); the outer loop walks
// subregion sizes from sizeCeiling/8 up to sizeCeiling, trying the fast
// (naturally aligned) path first and falling back to a subregion mask,
// stopping at the first size that works.
func solve(parentStart uint32, parentSize uint64, minRegionSize uint64) (geometry, bool) {
	if minRegionSize == 0 {
		minRegionSize = minSubregionSize
	}
	if minRegionSize < minSubregionSize {
		minRegionSize = minSubregionSize
	}

	sizeCeiling := nextPowerOfTwo(minRegionSize)
	if sizeCeiling < 256 {
		sizeCeiling = 256
	}

	start := uint64(parentStart)
	size := minRegionSize

	subregionSize := sizeCeiling / 8

	// Pre-loop shortcut: start the search at the largest alignment the
	// parent start naturally admits, skipping guaranteed-failing smaller
	// subregion sizes.
	if parentStart != 0 {
		roundedStart := ceilToMultiple(start, sizeCeiling/8)
		subregionSize = uint64(1) << trailingZeros64(roundedStart)
		if subregionSize < sizeCeiling/8 {
			subregionSize = sizeCeiling / 8
		}
		if subregionSize > sizeCeiling {
			subregionSize = sizeCeiling
		}
	}

	for subregionSize <= sizeCeiling {
		start = ceilToMultiple(start, subregionSize)
		size = ceilToMultiple(size, subregionSize)

		if isPowerOfTwo(size) && start%size == 0 {
			g := geometry{
				logicalStart: uint32(start),
				logicalSize:  size,
				physicalBase: uint32(start),
				physicalSize: size,
			}
			return validate(g, parentStart, parentSize)
		}

		underlying := subregionSize * 8
		underlyingBase := start - (start % underlying)

		if underlyingBase+underlying >= start+size {
			lo := (start - underlyingBase) / subregionSize
			hi := lo + size/subregionSize - 1

			var mask uint8 = 0xff
			for i := lo; i <= hi; i++ {
				mask &^= 1 << i
			}

			g := geometry{
				logicalStart: uint32(start),
				logicalSize:  size,
				physicalBase: uint32(underlyingBase),
				physicalSize: underlying,
				disableMask:  &mask,
			}
			return validate(g, parentStart, parentSize)
		}

		subregionSize *= 2
	}

	return geometry{}, false
}

// validate applies the solver's post-conditions: the physical region must
// not exceed the 4 GiB Cortex-M size cap, and the logical range must not
// escape the parent block.
func validate(g geometry, parentStart uint32, parentSize uint64) (geometry, bool) {
	if g.physicalSize > uint64(1)<<32 {
		return geometry{}, false
	}
	if uint64(g.logicalStart)+g.logicalSize > uint64(parentStart)+parentSize {
		return geometry{}, false
	}
	return g, true
}

// nextPowerOfTwo returns the smallest power of two >= n (n itself if
// already a power of two).
func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return uint64(1) << bits.Len64(n-1)
}

// isPowerOfTwo reports whether n is a power of two; 0 is not.
func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// ceilToMultiple rounds x up to the nearest multiple of y.
func ceilToMultiple(x, y uint64) uint64 {
	if x%y == 0 {
		return x
	}
	return x + y - x%y
}

// trailingZeros64 returns the number of trailing zero bits of x, used to
// find the largest power-of-two alignment a base address naturally
// admits.
func trailingZeros64(x uint64) int {
	if x == 0 {
		return 64
	}
	return bits.TrailingZeros64(x)
}
