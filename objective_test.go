package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShapeObjectiveDoesNotPanicOnStaggeredLabModel(t *testing.T) {
	rc := &ReducedCatalog{
		Teachers:       []Teacher{{ID: "alice@college.edu", DeptID: "D1", Active: true}},
		Courses:        []Course{{ID: "CS2301", DeptName: "Computer Science", Kind: CourseLab}},
		Rooms:          []Room{{ID: "L1", Kind: RoomLab}, {ID: "L2", Kind: RoomLab}, {ID: "L3", Kind: RoomLab}},
		Days:           DefaultTimeGrid().Days,
		Slots:          DefaultTimeGrid().Slots,
		TeacherCourses: map[string][]int{"alice@college.edu": {0}},
		CourseRooms:    map[int][]int{0: {0, 1, 2}},
	}
	m, arena, err := BuildModel(rc, ProfileRelaxed, ToggleOverrides{}, true, zap.NewNop())
	require.Nil(t, err)

	require.NotPanics(t, func() {
		ShapeObjective(m, arena, rc, true)
	})
}
