package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	files map[string][][]string
}

func (e *recordingEmitter) WriteRows(filename string, header []string, rows [][]string) error {
	if e.files == nil {
		e.files = make(map[string][][]string)
	}
	e.files[filename] = append([][]string{header}, rows...)
	return nil
}

func TestTableWriterWritesFileAtomically(t *testing.T) {
	dir := t.TempDir()
	w := NewTableWriter(dir)

	require.NoError(t, w.WriteRows("out.csv", []string{"A", "B"}, [][]string{{"1", "2"}}))

	path := filepath.Join(dir, "out.csv")
	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "the .tmp file must be renamed away, never left behind")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "A,B")
	require.Contains(t, string(data), "1,2")
}

func TestEmitAllProducesMasterAndGroupedTables(t *testing.T) {
	entries := []ScheduleEntry{
		{Day: "Monday", Slot: 1, TimeText: "08:00-09:00", CourseID: "CS2301", TeacherID: "alice@college.edu", DeptName: "Computer Science", RoomID: "R1"},
		{Day: "Tuesday", Slot: 2, TimeText: "09:00-09:50", CourseID: "MA1001", TeacherID: "bob@college.edu", DeptName: "Mathematics", RoomID: "R2"},
	}
	rc := &ReducedCatalog{
		Teachers:       []Teacher{{ID: "alice@college.edu", DeptID: "D1"}},
		Departments:    map[string]Department{"D1": {ID: "D1", Name: "Computer Science"}},
		Courses:        []Course{{ID: "CS2301", SubjectArea: "CS"}},
		TeacherCourses: map[string][]int{"alice@college.edu": {0}},
	}

	e := &recordingEmitter{}
	require.NoError(t, EmitAll(e, entries, rc))

	require.Contains(t, e.files, "master_timetable.csv")
	require.Contains(t, e.files, "timetable_teacher_alice.csv")
	require.Contains(t, e.files, "timetable_dept_Computer_Science.csv")
	require.Contains(t, e.files, "timetable_dept_Mathematics.csv")
	require.Contains(t, e.files, "teacher_expertise_data.csv")

	master := e.files["master_timetable.csv"]
	require.Len(t, master, 3) // header + 2 rows
}

func TestSanitizeNameReplacesHostileCharacters(t *testing.T) {
	require.Equal(t, "Computer_Science", sanitizeName("Computer Science"))
	require.Equal(t, "a_b", sanitizeName("a/b"))
	require.Equal(t, "a_b", sanitizeName("a\\b"))
	require.Equal(t, "a__b", sanitizeName("a..b"))
	require.Equal(t, "Smith___Jones", sanitizeName("Smith & Jones"))
	require.Equal(t, "O_Brien", sanitizeName("O'Brien"))
	require.Equal(t, "Dept__CS_", sanitizeName("Dept: CS!"))
	require.Equal(t, "Room__101_", sanitizeName("Room (101)"))
}

func TestLocalPart(t *testing.T) {
	require.Equal(t, "alice", localPart("alice@college.edu"))
	require.Equal(t, "T1", localPart("T1"))
}
