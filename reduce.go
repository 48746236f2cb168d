package main

import (
	"sort"

	"go.uber.org/zap"
)

const (
	maxCourses  = 100
	maxTeachers = 200
	maxRooms    = 50
	maxLabRooms = 20
	maxDaysCap  = 4
	maxSlotsCap = 8
	maxCoursesPerTeacher = 5
)

// ReducedCatalog is the tractable, precomputed snapshot the Constraint Model
// Builder consumes (§4.3). Courses, Teachers and Rooms are fresh copies;
// Departments, Students, Assignment, Days and Slots share storage with the
// Catalog it was derived from. The Reducer's caps never mutate the original.
type ReducedCatalog struct {
	Departments map[string]Department
	Rooms       []Room
	Teachers    []Teacher
	Courses     []Course
	Students    []Student
	Assignment  map[string]map[string]bool
	Days        []string
	Slots       []SlotWindow

	// TeacherCourses maps teacher_id -> indices into Courses.
	TeacherCourses map[string][]int
	// CourseRooms maps a Courses index -> indices into Rooms.
	CourseRooms map[int][]int
}

// Reduce runs the Domain Reducer (§4.3). When reduced is false the same
// precomputation runs over the full catalog with no caps, so downstream
// stages always see a ReducedCatalog regardless of the --reduced flag.
func Reduce(cat *Catalog, reduced bool, logger *zap.Logger) *ReducedCatalog {
	rc := &ReducedCatalog{
		Departments: cat.Departments,
		Students:    cat.Students,
		Assignment:  cat.Assignment,
	}

	rc.Courses = capCourses(cat.Courses, reduced)
	rc.Teachers = capTeachers(cat.Teachers, rc.Courses, cat.Assignment, reduced)
	rc.Rooms = capRooms(cat.Rooms, reduced)

	grid := cat.Grid
	days := grid.Days
	if reduced && len(days) > maxDaysCap {
		days = days[:maxDaysCap]
	}
	slots := grid.Slots
	if reduced && len(slots) > maxSlotsCap {
		slots = slots[:maxSlotsCap]
	}
	rc.Days = days
	rc.Slots = slots

	rc.TeacherCourses = precomputeTeacherCourses(rc.Teachers, rc.Courses, cat.Assignment, reduced)
	rc.CourseRooms = precomputeCourseRooms(rc.Courses, rc.Rooms)

	if needed := minRoomsNeeded(rc.Courses, rc.CourseRooms); needed > len(rc.Rooms) {
		logger.Warn("reduced room cap may be below the minimum hitting set needed to cover every course",
			zap.Int("rooms_available", len(rc.Rooms)), zap.Int("rooms_needed_lower_bound", needed))
	}

	return rc
}

// capCourses caps at 100 courses (stable catalog order, so two runs over
// identical input yield identical reductions).
func capCourses(courses []Course, reduced bool) []Course {
	if !reduced || len(courses) <= maxCourses {
		out := make([]Course, len(courses))
		copy(out, courses)
		return out
	}
	out := make([]Course, maxCourses)
	copy(out, courses[:maxCourses])
	return out
}

// capTeachers caps at 200 teachers, restricted first to those retaining >= 1
// assigned course after the course cap.
func capTeachers(teachers []Teacher, courses []Course, assignment map[string]map[string]bool, reduced bool) []Teacher {
	survivingCourseIDs := make(map[string]bool, len(courses))
	for _, c := range courses {
		survivingCourseIDs[c.ID] = true
	}

	var retained []Teacher
	for _, t := range teachers {
		if hasAssignedCourse(t.ID, survivingCourseIDs, assignment) {
			retained = append(retained, t)
		}
	}
	if len(retained) == 0 {
		retained = teachers
	}

	if !reduced || len(retained) <= maxTeachers {
		out := make([]Teacher, len(retained))
		copy(out, retained)
		return out
	}
	out := make([]Teacher, maxTeachers)
	copy(out, retained[:maxTeachers])
	return out
}

func hasAssignedCourse(teacherID string, survivingCourseIDs map[string]bool, assignment map[string]map[string]bool) bool {
	for courseID, teachers := range assignment {
		if !survivingCourseIDs[courseID] {
			continue
		}
		if teachers[teacherID] {
			return true
		}
	}
	return false
}

// capRooms caps at 50 rooms, at most 20 labs plus regular rooms to fill the
// cap (stable order: labs first in catalog order, then regular rooms).
func capRooms(rooms []Room, reduced bool) []Room {
	if !reduced || len(rooms) <= maxRooms {
		out := make([]Room, len(rooms))
		copy(out, rooms)
		return out
	}

	var labs, others []Room
	for _, r := range rooms {
		if r.Kind == RoomLab {
			labs = append(labs, r)
		} else {
			others = append(others, r)
		}
	}
	if len(labs) > maxLabRooms {
		labs = labs[:maxLabRooms]
	}

	out := make([]Room, 0, maxRooms)
	out = append(out, labs...)
	remaining := maxRooms - len(out)
	if remaining > len(others) {
		remaining = len(others)
	}
	out = append(out, others[:remaining]...)
	return out
}

// precomputeTeacherCourses maps each teacher to the course indices they
// teach, capped at 5 per teacher under reduction (stable course order).
func precomputeTeacherCourses(teachers []Teacher, courses []Course, assignment map[string]map[string]bool, reduced bool) map[string][]int {
	out := make(map[string][]int, len(teachers))
	for _, t := range teachers {
		var indices []int
		for i, c := range courses {
			if assignment[c.ID][t.ID] {
				indices = append(indices, i)
			}
		}
		if reduced && len(indices) > maxCoursesPerTeacher {
			indices = indices[:maxCoursesPerTeacher]
		}
		out[t.ID] = indices
	}
	return out
}

// precomputeCourseRooms maps each course index to the room indices whose
// kind is compatible: labs accept lab rooms, falling back to regular rooms
// when no lab rooms survive; non-labs accept regular rooms.
func precomputeCourseRooms(courses []Course, rooms []Room) map[int][]int {
	var labIdx, regularIdx []int
	for i, r := range rooms {
		if r.Kind == RoomLab {
			labIdx = append(labIdx, i)
		} else if r.Kind == RoomRegular {
			regularIdx = append(regularIdx, i)
		}
	}

	out := make(map[int][]int, len(courses))
	for i, c := range courses {
		if c.Kind == CourseLab {
			if len(labIdx) > 0 {
				out[i] = labIdx
			} else {
				out[i] = regularIdx
			}
		} else {
			out[i] = regularIdx
		}
	}
	return out
}

// minRoomsNeeded finds the smallest number of rooms that together cover
// every course's valid-room set (a minimum hitting set), brute-forced via
// n-choose-k enumeration. Adapted from the teacher's findMinRooms/
// nChooseKInit/nChooseKNext in search.go, which solved the analogous
// per-instructor "how few rooms suffice" problem; here it is a Domain
// Reducer diagnostic rather than a per-instructor schedule constraint.
func minRoomsNeeded(courses []Course, courseRooms map[int][]int) int {
	if len(courses) == 0 {
		return 0
	}

	roomSet := make(map[int]bool)
	for i := range courses {
		for _, r := range courseRooms[i] {
			roomSet[r] = true
		}
	}
	rooms := make([]int, 0, len(roomSet))
	for r := range roomSet {
		rooms = append(rooms, r)
	}
	sort.Ints(rooms)
	n := len(rooms)
	if n == 0 {
		return 0
	}
	// The brute-force enumeration below is combinatorial in n; beyond a
	// modest room count it is only useful as a diagnostic, so cap the search
	// and report the trivial upper bound instead of stalling a run.
	if n > 20 {
		return n
	}

	for k := 1; k <= n; k++ {
		set := nChooseKInit(k)
		for nChooseKNext(set, n, k) {
			if coversAll(set, rooms, courses, courseRooms) {
				return k
			}
		}
	}
	return n
}

func coversAll(set []int, rooms []int, courses []Course, courseRooms map[int][]int) bool {
courseLoop:
	for i := range courses {
		for _, roomN := range set {
			room := rooms[roomN]
			for _, candidate := range courseRooms[i] {
				if candidate == room {
					continue courseLoop
				}
			}
		}
		return false
	}
	return true
}

func nChooseKInit(k int) []int {
	lst := make([]int, k)
	for i := range lst {
		lst[i] = -1
	}
	return lst
}

func nChooseKNext(lst []int, n, k int) bool {
	if lst[0] == -1 {
		for i := 0; i < k; i++ {
			lst[i] = i
		}
		return true
	}
	for i := 0; i < k; i++ {
		elt := lst[k-1-i]
		if elt < n-1-i {
			for j := k - 1 - i; j < k; j++ {
				elt++
				lst[j] = elt
			}
			return true
		}
	}
	return false
}
