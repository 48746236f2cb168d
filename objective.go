package main

import "github.com/collegesched/scheduler/internal/engine"

// waveSlots gives the preferred 0-based slot indices for each stagger wave
// (room index modulo 3), bounded to admitted slots by the caller (§4.5).
var waveSlots = [3][]int{
	{0, 3, 6},
	{1, 4, 7},
	{2, 5},
}

// ShapeObjective runs the Objective Shaper (§4.5): adds a weighted
// contribution to the model's (maximized) objective for every created
// variable.
func ShapeObjective(m engine.Model, arena *Arena, rc *ReducedCatalog, staggered bool) {
	for _, k := range arena.All() {
		v := arena.vars[k]
		weight := 1.0
		course := rc.Courses[k.Course]

		if course.Kind == CourseLab {
			if k.Slot < 4 {
				weight += 0.3
			} else if k.Slot < 6 {
				weight += 0.1
			}
		} else {
			if k.Slot >= 3 && k.Slot <= 6 {
				weight += 0.1
			}
		}

		if staggered {
			wave := k.Room % 3
			for _, s := range waveSlots[wave] {
				if s == k.Slot {
					weight += 0.15
					break
				}
			}
		}

		m.AddObjectiveTerm(v, weight)
	}
	m.Maximize()
}
