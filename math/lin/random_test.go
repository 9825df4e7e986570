// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

import (
	"testing"
)

func TestSplitMixKnownValue(t *testing.T) {
	// First output of splitmix64 from seed 0, per the reference
	// implementation at prng.di.unimi.it.
	sm := SplitMix64{State: 0}
	if got := sm.Uint64(); got != 0xe220a8397b1dcdaf {
		t.Errorf("SplitMix64(0) got %#x", got)
	}
}

func TestXoshiroDeterminism(t *testing.T) {
	a, b := NewXoshiro256SS(42), NewXoshiro256SS(42)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("Same seed must produce the same stream")
		}
	}
	c := NewXoshiro256SS(43)
	same := 0
	a = NewXoshiro256SS(42)
	for i := 0; i < 100; i++ {
		if a.Uint64() == c.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("Adjacent seeds collided %d times in 100 draws", same)
	}
}

func TestFloat32Range(t *testing.T) {
	x := NewXoshiro256SS(7)
	var lo, hi float32 = 1, 0
	for i := 0; i < 10000; i++ {
		f := x.Float32()
		if f < 0 || f >= 1 {
			t.Fatalf("Float32 out of [0,1): %f", f)
		}
		lo, hi = min(lo, f), max(hi, f)
	}
	if lo > 0.01 || hi < 0.99 {
		t.Errorf("Float32 poorly distributed: lo %f hi %f", lo, hi)
	}
}

func TestRandomUnitV3(t *testing.T) {
	x := NewXoshiro256SS(11)
	var mean V3
	for i := 0; i < 5000; i++ {
		v := x.UnitV3()
		if !Aeq(v.Len(), 1) {
			t.Fatalf("UnitV3 not unit length: %f", v.Len())
		}
		mean = mean.Add(v)
	}
	// Uniform sphere samples average out near the origin.
	if mean.Scale(1.0/5000).Len() > 0.05 {
		t.Errorf("UnitV3 biased, mean %v", mean.Scale(1.0/5000))
	}
}

func TestOnHemisphere(t *testing.T) {
	x := NewXoshiro256SS(13)
	n := V3{0, 1, 0}
	for i := 0; i < 1000; i++ {
		if v := x.OnHemisphereV3(n); v.Dot(n) < 0 {
			t.Fatalf("Hemisphere sample below the surface: %v", v)
		}
	}
}

func TestInUnitDisk(t *testing.T) {
	x := NewXoshiro256SS(17)
	for i := 0; i < 1000; i++ {
		if v := x.InUnitDiskV2(); v.Len2() > 1 {
			t.Fatalf("Disk sample outside unit disk: %v", v)
		}
	}
}
