package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMockCatalog(t *testing.T) {
	cat := mockCatalog()
	require.Len(t, cat.Departments, 2)
	require.Len(t, cat.Rooms, 3)
	require.Len(t, cat.Teachers, 3)
	require.Len(t, cat.Courses, 3)
}

func TestLoadCatalogMockBypassesFileIO(t *testing.T) {
	cfg := &RunConfig{Mock: true, DataDir: "/does/not/exist"}
	cat, err := LoadCatalog(cfg, zap.NewNop())
	require.Nil(t, err)
	require.NotEmpty(t, cat.Courses)
}

func TestLoadCatalogMissingTableDegradesToEmpty(t *testing.T) {
	cfg := &RunConfig{DataDir: t.TempDir()}
	cat, err := LoadCatalog(cfg, zap.NewNop())
	require.Nil(t, err, "a missing catalog source is a recoverable InputMissing condition, not a fatal error")
	require.Empty(t, cat.Departments)
	require.Empty(t, cat.Courses)
}

func TestLoadDepartmentsSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "departments.csv", "id,dept_name\nD1,Computer Science\n,Missing ID\n")

	cat := NewCatalog()
	loadDepartments(cat, zap.NewNop(), filepath.Join(dir, "departments.csv"))

	require.Len(t, cat.Departments, 1)
	require.Equal(t, "Computer Science", cat.Departments["D1"].Name)
}

func TestLoadCoursesDerivesLabKindFromPracticalHours(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "departments.csv", "id,dept_name\nD1,Computer Science\n")
	writeCSV(t, dir, "course.csv",
		"course_id,course_dept_id,practical_hours\nCS2301,D1,2\nCS2302,D1,0\n")

	cat := NewCatalog()
	loadDepartments(cat, zap.NewNop(), filepath.Join(dir, "departments.csv"))
	loadCourses(cat, zap.NewNop(), filepath.Join(dir, "course.csv"))

	require.Len(t, cat.Courses, 2)
	require.Equal(t, CourseLab, cat.Courses[0].Kind)
	require.Equal(t, CourseTheory, cat.Courses[1].Kind)
	require.Equal(t, "Computer Science", cat.Courses[0].DeptName)
}

func TestLoadTeachersSkipsInactive(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "teachers.csv",
		"teacher_id__email,dept_id,resignation_status\nalice@college.edu,D1,active\nbob@college.edu,D1,resigned\n")

	cat := NewCatalog()
	loadTeachers(cat, zap.NewNop(), filepath.Join(dir, "teachers.csv"))

	require.Len(t, cat.Teachers, 1)
	require.Equal(t, "alice@college.edu", cat.Teachers[0].ID)
}

func TestFetchFileReadsLocalCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rooms.csv", "room_number,room_max_cap,is_lab\nR1,60,false\nL1,30,true\n")

	rows, err := fetchFile(zap.NewNop(), path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"room_number", "room_max_cap", "is_lab"}, rows[0])
}
