package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collegesched/scheduler/internal/engine"
)

type fakeVar struct{ id int }

func (v fakeVar) ID() int { return v.id }

type fakeResult struct {
	set map[int]bool
}

func (r fakeResult) Status() engine.Status { return engine.StatusOptimal }
func (r fakeResult) ValueOf(v engine.Var) bool {
	return r.set[v.ID()]
}

func TestMaterializeOrdersCanonically(t *testing.T) {
	rc := &ReducedCatalog{
		Teachers: []Teacher{{ID: "alice@college.edu"}, {ID: "bob@college.edu"}},
		Courses:  []Course{{ID: "CS2301", DeptName: "Computer Science"}, {ID: "CS2302", DeptName: "Computer Science"}},
		Rooms:    []Room{{ID: "R1"}, {ID: "R2"}},
		Days:     []string{"Monday", "Tuesday"},
		Slots:    DefaultTimeGrid().Slots[:2],
	}

	arena := &Arena{rc: rc, vars: map[varKey]engine.Var{
		{Teacher: 1, Course: 1, Day: 0, Slot: 0, Room: 1}: fakeVar{id: 0},
		{Teacher: 0, Course: 0, Day: 0, Slot: 0, Room: 0}: fakeVar{id: 1},
		{Teacher: 0, Course: 0, Day: 1, Slot: 0, Room: 0}: fakeVar{id: 2},
	}}
	result := fakeResult{set: map[int]bool{0: true, 1: true, 2: true}}

	entries := Materialize(rc, arena, result)
	require.Len(t, entries, 3)
	require.Equal(t, "Monday", entries[0].Day)
	require.Equal(t, "Monday", entries[1].Day)
	require.Equal(t, "Tuesday", entries[2].Day)
	require.Equal(t, "CS2301", entries[0].CourseID)
	require.Equal(t, "CS2302", entries[1].CourseID)
}

func TestMaterializeSkipsUnsetVariables(t *testing.T) {
	rc := &ReducedCatalog{
		Teachers: []Teacher{{ID: "alice@college.edu"}},
		Courses:  []Course{{ID: "CS2301", DeptName: "Computer Science"}},
		Rooms:    []Room{{ID: "R1"}},
		Days:     []string{"Monday"},
		Slots:    DefaultTimeGrid().Slots[:1],
	}
	arena := &Arena{rc: rc, vars: map[varKey]engine.Var{
		{Teacher: 0, Course: 0, Day: 0, Slot: 0, Room: 0}: fakeVar{id: 0},
	}}
	result := fakeResult{set: map[int]bool{}}

	entries := Materialize(rc, arena, result)
	require.Empty(t, entries)
}

func TestGroupByDaySlot(t *testing.T) {
	entries := []ScheduleEntry{
		{Day: "Monday", Slot: 1, CourseID: "A"},
		{Day: "Monday", Slot: 1, CourseID: "B"},
		{Day: "Tuesday", Slot: 2, CourseID: "C"},
	}
	grouped := GroupByDaySlot(entries)
	require.Len(t, grouped["Monday"][1], 2)
	require.Len(t, grouped["Tuesday"][2], 1)
}
