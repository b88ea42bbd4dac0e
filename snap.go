package gizmo

import (
	"math"
)

// SnapEvent is delivered by OnSnap observables. SnapDistance is the signed quantum applied by one pointer move.
type SnapEvent struct {
	SnapDistance float64
}

// snapTolerance absorbs floating point noise when the running total lands on a multiple of the snap distance
const snapTolerance = 1e-9

// Snapper quantizes the running total of raw drag amounts into whole multiples of Distance.
// With a zero Distance every raw amount passes through unchanged.
type Snapper struct {
	Distance float64
	total    float64 // raw amount since Reset
	applied  float64 // whole quanta released since Reset
}

// Reset forgets the running total (drag start).
func (s *Snapper) Reset() {
	s.total, s.applied = 0, 0
}

// Accumulated is the raw amount not yet released, in (-Distance, Distance).
func (s *Snapper) Accumulated() float64 {
	return s.total - s.applied
}

// Step feeds a raw amount and returns the amount to apply now.
// snapped reports that whole quanta were released (always false in continuous mode).
func (s *Snapper) Step(raw float64) (apply float64, snapped bool) {
	if s.Distance == 0 {
		return raw, false
	}
	s.total += raw
	steps := math.Trunc(s.total/s.Distance + math.Copysign(snapTolerance, s.total))
	target := steps * s.Distance
	apply = target - s.applied
	if apply == 0 {
		return 0, false
	}
	s.applied = target
	return apply, true
}
