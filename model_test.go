package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/collegesched/scheduler/internal/errs"
)

func TestSortVarKeysOrdersByTupleFields(t *testing.T) {
	keys := []varKey{
		{Teacher: 1, Course: 0, Day: 0, Slot: 0, Room: 0},
		{Teacher: 0, Course: 1, Day: 0, Slot: 0, Room: 0},
		{Teacher: 0, Course: 0, Day: 0, Slot: 0, Room: 1},
		{Teacher: 0, Course: 0, Day: 0, Slot: 0, Room: 0},
	}
	sortVarKeys(keys)

	require.Equal(t, varKey{Teacher: 0, Course: 0, Day: 0, Slot: 0, Room: 0}, keys[0])
	require.Equal(t, varKey{Teacher: 0, Course: 0, Day: 0, Slot: 0, Room: 1}, keys[1])
	require.Equal(t, varKey{Teacher: 0, Course: 1, Day: 0, Slot: 0, Room: 0}, keys[2])
	require.Equal(t, varKey{Teacher: 1, Course: 0, Day: 0, Slot: 0, Room: 0}, keys[3])
}

func TestAdmittedLunchSlotIndices(t *testing.T) {
	rc := &ReducedCatalog{Slots: DefaultTimeGrid().Slots}
	idx := admittedLunchSlotIndices(rc)
	require.Equal(t, []int{4, 5, 6}, idx, "1-indexed slots 5,6,7 map to 0-based 4,5,6")
}

func TestAdmittedLunchSlotIndicesTruncatedGrid(t *testing.T) {
	rc := &ReducedCatalog{Slots: DefaultTimeGrid().Slots[:5]}
	idx := admittedLunchSlotIndices(rc)
	require.Equal(t, []int{4}, idx, "only slot 5 survives a grid truncated to 5 slots")
}

func TestContainsInt(t *testing.T) {
	require.True(t, containsInt([]int{1, 2, 3}, 2))
	require.False(t, containsInt([]int{1, 2, 3}, 9))
}

func TestBuildModelReportsModelEmpty(t *testing.T) {
	rc := &ReducedCatalog{
		Teachers:       nil,
		Courses:        nil,
		Rooms:          nil,
		Days:           DefaultTimeGrid().Days,
		Slots:          DefaultTimeGrid().Slots,
		TeacherCourses: map[string][]int{},
		CourseRooms:    map[int][]int{},
	}
	_, _, err := BuildModel(rc, ProfileBalanced, ToggleOverrides{}, false, zap.NewNop())
	require.NotNil(t, err)
	require.Equal(t, errs.ModelEmpty, err.Code)
}

func TestBuildModelCreatesVariablesForValidCombinations(t *testing.T) {
	rc := &ReducedCatalog{
		Teachers:       []Teacher{{ID: "alice@college.edu", DeptID: "D1", Active: true}},
		Courses:        []Course{{ID: "CS2301", DeptName: "Computer Science", Kind: CourseTheory}},
		Rooms:          []Room{{ID: "R1", Kind: RoomRegular}},
		Days:           DefaultTimeGrid().Days,
		Slots:          DefaultTimeGrid().Slots,
		TeacherCourses: map[string][]int{"alice@college.edu": {0}},
		CourseRooms:    map[int][]int{0: {0}},
	}
	_, arena, err := BuildModel(rc, ProfileRelaxed, ToggleOverrides{}, false, zap.NewNop())
	require.Nil(t, err)
	require.Equal(t, len(rc.Days)*len(rc.Slots), len(arena.All()),
		"one teacher/course/room combination admits one variable per day-slot pair")
}
