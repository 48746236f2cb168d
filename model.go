package main

import (
	"go.uber.org/zap"

	"github.com/collegesched/scheduler/internal/engine"
	"github.com/collegesched/scheduler/internal/errs"
)

// varKey is the 5-tuple a decision variable is keyed by: x[t,c,d,s,r]. All
// indices are positions into the owning ReducedCatalog's slices; Slot is
// 0-based (slot number = Slot+1).
type varKey struct {
	Teacher int
	Course  int
	Day     int
	Slot    int
	Room    int
}

// Arena is the sparse decision-variable arena (§9 Design Notes): a mapping
// keyed by tuple rather than a dense 5-D array, since the valid-combination
// filter makes the space 1-3% populated.
type Arena struct {
	rc   *ReducedCatalog
	vars map[varKey]engine.Var
}

func (a *Arena) Get(k varKey) (engine.Var, bool) {
	v, ok := a.vars[k]
	return v, ok
}

// All returns every created key, in a deterministic order (by Teacher, then
// Course, Day, Slot, Room). The constraint builders group these keys in maps
// and post one constraint per group in map iteration order, so the set of
// posted constraints is fixed for a given catalog but their order is not.
func (a *Arena) All() []varKey {
	keys := make([]varKey, 0, len(a.vars))
	for k := range a.vars {
		keys = append(keys, k)
	}
	sortVarKeys(keys)
	return keys
}

func sortVarKeys(keys []varKey) {
	less := func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Teacher != b.Teacher {
			return a.Teacher < b.Teacher
		}
		if a.Course != b.Course {
			return a.Course < b.Course
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Room < b.Room
	}
	insertionSort(keys, less)
}

// insertionSort sorts keys in place by less without sort.Slice's reflection.
// Keys arrive in map iteration order, so its cost is quadratic in len(keys).
func insertionSort(keys []varKey, less func(i, j int) bool) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

// BuildModel runs the Constraint Model Builder (§4.4): creates the sparse
// decision-variable arena over the admitted teacher/course/day/slot/room
// combinations, then posts T1-T6 unconditionally and the gated constraints
// per the resolved profile and overrides.
func BuildModel(rc *ReducedCatalog, profile Profile, overrides ToggleOverrides, staggered bool, logger *zap.Logger) (engine.Model, *Arena, *errs.Error) {
	m := engine.NewModel()
	arena := &Arena{rc: rc, vars: make(map[varKey]engine.Var)}

	for ti, t := range rc.Teachers {
		for _, ci := range rc.TeacherCourses[t.ID] {
			for di := range rc.Days {
				for si := range rc.Slots {
					for _, ri := range rc.CourseRooms[ci] {
						key := varKey{Teacher: ti, Course: ci, Day: di, Slot: si, Room: ri}
						arena.vars[key] = m.NewBoolVar(varLabel(rc, key))
					}
				}
			}
		}
	}

	if len(arena.vars) == 0 {
		return m, arena, errs.New(errs.ModelEmpty, "no decision variables after reduction")
	}

	postHardConstraints(m, arena, rc, profile)
	postGatedConstraints(m, arena, rc, profile, overrides, staggered, logger)

	return m, arena, nil
}

func varLabel(rc *ReducedCatalog, k varKey) string {
	return rc.Teachers[k.Teacher].ID + "|" + rc.Courses[k.Course].ID
}

// postHardConstraints posts T1-T5; T6 is implicit in variable creation above.
func postHardConstraints(m engine.Model, arena *Arena, rc *ReducedCatalog, profile Profile) {
	tds := make(map[[3]int][]engine.Var) // T1: teacher-day-slot
	cds := make(map[[3]int][]engine.Var) // T2: course-day-slot
	rds := make(map[[3]int][]engine.Var) // T3: room-day-slot
	td := make(map[[2]int][]engine.Var)  // T4: teacher-day
	byCourse := make(map[int][]engine.Var)

	for _, k := range arena.All() {
		v := arena.vars[k]
		tds[[3]int{k.Teacher, k.Day, k.Slot}] = append(tds[[3]int{k.Teacher, k.Day, k.Slot}], v)
		cds[[3]int{k.Course, k.Day, k.Slot}] = append(cds[[3]int{k.Course, k.Day, k.Slot}], v)
		rds[[3]int{k.Room, k.Day, k.Slot}] = append(rds[[3]int{k.Room, k.Day, k.Slot}], v)
		td[[2]int{k.Teacher, k.Day}] = append(td[[2]int{k.Teacher, k.Day}], v)
		byCourse[k.Course] = append(byCourse[k.Course], v)
	}

	for _, vars := range tds {
		m.PostLessEqual(unitTerms(vars), 1)
	}
	for _, vars := range cds {
		m.PostLessEqual(unitTerms(vars), 1)
	}
	for _, vars := range rds {
		m.PostLessEqual(unitTerms(vars), 1)
	}
	for _, vars := range td {
		m.PostLessEqual(unitTerms(vars), 5)
	}

	n := ResolvedMinInstances(profile)
	for _, vars := range byCourse {
		if len(vars) >= n {
			m.PostGreaterEqual(unitTerms(vars), float64(n))
		}
	}
}

func unitTerms(vars []engine.Var) []engine.Term {
	terms := make([]engine.Term, len(vars))
	for i, v := range vars {
		terms[i] = engine.Term{Coefficient: 1, Var: v}
	}
	return terms
}

func postGatedConstraints(m engine.Model, arena *Arena, rc *ReducedCatalog, profile Profile, overrides ToggleOverrides, staggered bool, logger *zap.Logger) {
	if overrides.ResolvedLunch(profile) {
		postLunch(m, arena, rc)
	}
	if overrides.ResolvedLabConsecutivity(profile) {
		postLabConsecutivity(m, arena, rc, true)
	} else {
		postLabConsecutivity(m, arena, rc, false)
	}
	if overrides.ResolvedCohortConflict(profile) {
		postCohortConflict(m, arena, rc, logger)
	}
	if staggered {
		postStaggerCap(m, arena, rc)
	}
}

// postLunch posts, for each (teacher, day): sum over lunch-window vars <=
// |lunch slots admitted| - 1, i.e. at least one lunch slot stays free.
func postLunch(m engine.Model, arena *Arena, rc *ReducedCatalog) {
	lunchSlotIdx := admittedLunchSlotIndices(rc)
	if len(lunchSlotIdx) == 0 {
		return
	}

	grouped := make(map[[2]int][]engine.Var)
	for _, k := range arena.All() {
		if !containsInt(lunchSlotIdx, k.Slot) {
			continue
		}
		key := [2]int{k.Teacher, k.Day}
		grouped[key] = append(grouped[key], arena.vars[k])
	}
	rhs := float64(len(lunchSlotIdx) - 1)
	for _, vars := range grouped {
		m.PostLessEqual(unitTerms(vars), rhs)
	}
}

// admittedLunchSlotIndices maps the fixed lunch slots {5,6,7} (1-indexed) to
// 0-based indices that survived Domain Reduction.
func admittedLunchSlotIndices(rc *ReducedCatalog) []int {
	var out []int
	for _, slotNum := range LunchSlots {
		idx := slotNum - 1
		if idx < len(rc.Slots) {
			out = append(out, idx)
		}
	}
	return out
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

// postLabConsecutivity posts the consecutive-slot implication for every lab
// course when on, or the softer "at least one instance" rule when off (§4.4).
func postLabConsecutivity(m engine.Model, arena *Arena, rc *ReducedCatalog, on bool) {
	labCourses := make(map[int]bool)
	for i, c := range rc.Courses {
		if c.Kind == CourseLab {
			labCourses[i] = true
		}
	}
	if len(labCourses) == 0 {
		return
	}

	if !on {
		byCourse := make(map[int][]engine.Var)
		for _, k := range arena.All() {
			if labCourses[k.Course] {
				byCourse[k.Course] = append(byCourse[k.Course], arena.vars[k])
			}
		}
		for _, vars := range byCourse {
			if len(vars) > 0 {
				m.PostGreaterEqual(unitTerms(vars), 1)
			}
		}
		return
	}

	lastSlot := len(rc.Slots) - 1
	for _, k := range arena.All() {
		if !labCourses[k.Course] || k.Slot >= lastSlot {
			continue
		}
		nextKey := varKey{Teacher: k.Teacher, Course: k.Course, Day: k.Day, Slot: k.Slot + 1, Room: k.Room}
		nextVar, ok := arena.Get(nextKey)
		if !ok {
			continue
		}
		m.PostImplication(arena.vars[k], nextVar)
	}
}

// postCohortConflict posts, for each (dept, year) cohort with >= 2 courses
// and for each (day, slot), at most one of the cohort's courses appears. When
// the optional students table is present, cohorts are further restricted to
// (dept, year) pairs with at least one enrolled student.
func postCohortConflict(m engine.Model, arena *Arena, rc *ReducedCatalog, logger *zap.Logger) {
	type cohortKey struct {
		dept string
		year int
	}
	coursesByCohort := make(map[cohortKey][]int)
	for i, c := range rc.Courses {
		if c.Year() == 0 {
			continue // non-numeric year: cohort rules skip this course
		}
		key := cohortKey{dept: c.DeptName, year: c.Year()}
		coursesByCohort[key] = append(coursesByCohort[key], i)
	}

	if len(rc.Students) > 0 {
		studentCohorts := make(map[cohortKey]bool)
		for _, s := range rc.Students {
			studentCohorts[cohortKey{dept: s.DeptName, year: s.Year}] = true
		}
		for key := range coursesByCohort {
			if !studentCohorts[key] {
				delete(coursesByCohort, key)
			}
		}
	}

	cohortOf := make(map[int]cohortKey)
	for key, courseIdxs := range coursesByCohort {
		if len(courseIdxs) < 2 {
			continue
		}
		for _, ci := range courseIdxs {
			cohortOf[ci] = key
		}
	}
	if len(cohortOf) == 0 {
		logger.Debug("no cohort has >= 2 courses; cohort-conflict constraint is a no-op this run")
		return
	}

	grouped := make(map[[3]int][]engine.Var) // (cohort index via dept+year encoded, day, slot)
	cohortIndex := make(map[cohortKey]int)
	for _, k := range arena.All() {
		key, ok := cohortOf[k.Course]
		if !ok {
			continue
		}
		idx, seen := cohortIndex[key]
		if !seen {
			idx = len(cohortIndex)
			cohortIndex[key] = idx
		}
		gk := [3]int{idx, k.Day, k.Slot}
		grouped[gk] = append(grouped[gk], arena.vars[k])
	}
	for _, vars := range grouped {
		m.PostLessEqual(unitTerms(vars), 1)
	}
}

// postStaggerCap posts, for each (day, slot), total sum <= min(25,
// floor(|rooms|/2)).
func postStaggerCap(m engine.Model, arena *Arena, rc *ReducedCatalog) {
	staggerCap := len(rc.Rooms) / 2
	if staggerCap > 25 {
		staggerCap = 25
	}
	grouped := make(map[[2]int][]engine.Var)
	for _, k := range arena.All() {
		gk := [2]int{k.Day, k.Slot}
		grouped[gk] = append(grouped[gk], arena.vars[k])
	}
	for _, vars := range grouped {
		m.PostLessEqual(unitTerms(vars), float64(staggerCap))
	}
}
