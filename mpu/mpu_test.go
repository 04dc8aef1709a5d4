// Cortex-M Memory Protection Unit driver
// https://github.com/usbarmory/cortexm-mpu
//
// Copyright (c) The cortexm-mpu Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mpu

import "testing"

func TestPermissionsString(t *testing.T) {
	cases := []struct {
		perm Permissions
		want string
	}{
		{ReadWriteExecute, "RWX"},
		{ReadWrite, "RW"},
		{ReadExecute, "RX"},
		{ReadOnly, "R"},
		{ExecuteOnly, "X"},
		{Permissions(99), "invalid"},
	}
	for _, c := range cases {
		if got := c.perm.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.perm, got, c.want)
		}
	}
}

func TestExtentOverlaps(t *testing.T) {
	a := Extent{Start: 100, Size: 100} // [100, 200)

	cases := []struct {
		name string
		b    Extent
		want bool
	}{
		{"identical", Extent{Start: 100, Size: 100}, true},
		{"contained", Extent{Start: 120, Size: 10}, true},
		{"straddles start", Extent{Start: 50, Size: 60}, true},
		{"straddles end", Extent{Start: 150, Size: 100}, true},
		{"adjacent before", Extent{Start: 0, Size: 100}, false},
		{"adjacent after", Extent{Start: 200, Size: 100}, false},
		{"disjoint", Extent{Start: 1000, Size: 10}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := a.Overlaps(c.b); got != c.want {
				t.Errorf("(%+v).Overlaps(%+v) = %v, want %v", a, c.b, got, c.want)
			}
			if got := c.b.Overlaps(a); got != c.want {
				t.Errorf("Overlaps should be symmetric: (%+v).Overlaps(%+v) = %v, want %v", c.b, a, got, c.want)
			}
		})
	}
}

func TestExtentEnd(t *testing.T) {
	e := Extent{Start: 100, Size: 50}
	if end := e.End(); end != 150 {
		t.Errorf("End() = %d, want 150", end)
	}
}

func TestRegionSlotOccupied(t *testing.T) {
	var slot RegionSlot
	if slot.Occupied() {
		t.Error("zero-value RegionSlot should not be Occupied")
	}

	slot.Logical = &Extent{Start: 0, Size: 256}
	if !slot.Occupied() {
		t.Error("RegionSlot with a non-nil Logical should be Occupied")
	}
}

func TestConfigStateMachine(t *testing.T) {
	var config Config
	if config.State() != Fresh {
		t.Fatalf("zero-value Config state = %v, want Fresh", config.State())
	}

	config.Activate()
	if config.State() != Active {
		t.Fatalf("state after Activate() = %v, want Active", config.State())
	}

	config.MarkOutOfMemory()
	if config.State() != OutOfMemory {
		t.Fatalf("state after MarkOutOfMemory() = %v, want OutOfMemory", config.State())
	}
}

func TestConfigOverlaps(t *testing.T) {
	var config Config
	config.Slots[2].Logical = &Extent{Start: 100, Size: 100}

	if !config.Overlaps(Extent{Start: 150, Size: 10}) {
		t.Error("expected an overlap with the occupied slot")
	}
	if config.Overlaps(Extent{Start: 300, Size: 10}) {
		t.Error("expected no overlap with a disjoint extent")
	}
}

func TestConfigUnusedSlot(t *testing.T) {
	var config Config
	config.Slots[AppMemoryRegionNum].Logical = &Extent{Start: 0, Size: 256}

	if got := config.unusedSlot(); got != 1 {
		t.Errorf("unusedSlot() = %d, want 1", got)
	}

	for i := 1; i < TotalRegions; i++ {
		config.Slots[i].Logical = &Extent{Start: uint32(i * 1000), Size: 32}
	}
	if got := config.unusedSlot(); got != -1 {
		t.Errorf("unusedSlot() with every slot occupied = %d, want -1", got)
	}
}
