// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// Interval is a closed range [Min, Max] of ray parameters or other
// scalars. The empty interval has Min greater than Max so that it
// contains, surrounds and intersects nothing.
type Interval struct {
	Min, Max float32
}

// EmptyInterval returns the interval containing nothing.
func EmptyInterval() Interval { return Interval{MaxFloat, -MaxFloat} }

// UniverseInterval returns the interval containing everything.
func UniverseInterval() Interval { return Interval{-MaxFloat, Inf} }

// Len returns the length of interval i.
// Negative lengths mean an empty interval.
func (i Interval) Len() float32 { return i.Max - i.Min }

// Contains returns true if t is inside the closed interval i.
func (i Interval) Contains(t float32) bool { return t >= i.Min && t <= i.Max }

// Surrounds returns true if t is strictly inside interval i.
func (i Interval) Surrounds(t float32) bool { return t > i.Min && t < i.Max }

// Intersects returns true if intervals i and a overlap,
// including touching at a single point.
func (i Interval) Intersects(a Interval) bool {
	return i.Min <= a.Max && a.Min <= i.Max
}

// Clamp returns t limited to the interval i.
func (i Interval) Clamp(t float32) float32 { return Clamp(t, i.Min, i.Max) }
