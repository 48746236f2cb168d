package main

import (
	"github.com/collegesched/scheduler/internal/engine"
)

// Materialize runs the Solution Materializer (§4.7): iterates every created
// variable, emits a ScheduleEntry for each whose value is 1, and returns them
// in the canonical (day, slot, course_id, teacher_id, room_id) lexicographic
// order (§5) so two solver runs that find the same assignment produce
// byte-identical output downstream. No deduplication is needed: T2 and T3
// already guarantee uniqueness per (course, d, s) and (room, d, s).
func Materialize(rc *ReducedCatalog, arena *Arena, result engine.Result) []ScheduleEntry {
	var entries []ScheduleEntry
	for _, k := range arena.All() {
		v := arena.vars[k]
		if !result.ValueOf(v) {
			continue
		}
		course := rc.Courses[k.Course]
		entries = append(entries, ScheduleEntry{
			Day:       rc.Days[k.Day],
			Slot:      k.Slot + 1,
			TimeText:  rc.Slots[k.Slot].Start + "-" + rc.Slots[k.Slot].End,
			CourseID:  course.ID,
			TeacherID: rc.Teachers[k.Teacher].ID,
			DeptName:  course.DeptName,
			RoomID:    rc.Rooms[k.Room].ID,
		})
	}
	sortEntries(entries, rc.Days)
	return entries
}

func sortEntries(entries []ScheduleEntry, days []string) {
	dayOrder := make(map[string]int, len(days))
	for i, d := range days {
		dayOrder[d] = i
	}
	less := func(i, j int) bool {
		a, b := entries[i], entries[j]
		if dayOrder[a.Day] != dayOrder[b.Day] {
			return dayOrder[a.Day] < dayOrder[b.Day]
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		if a.TeacherID != b.TeacherID {
			return a.TeacherID < b.TeacherID
		}
		return a.RoomID < b.RoomID
	}
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// GroupByDaySlot groups entries into the nested day -> slot -> entries
// mapping used for console printing (§4.7).
func GroupByDaySlot(entries []ScheduleEntry) map[string]map[int][]ScheduleEntry {
	out := make(map[string]map[int][]ScheduleEntry)
	for _, e := range entries {
		if out[e.Day] == nil {
			out[e.Day] = make(map[int][]ScheduleEntry)
		}
		out[e.Day][e.Slot] = append(out[e.Day][e.Slot], e)
	}
	return out
}
