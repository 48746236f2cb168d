package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/collegesched/scheduler/internal/errs"
)

// Emitter is the output boundary (§4.8): anything that can accept a named
// table of rows. TableWriter is the concrete CSV implementation; tests
// substitute a recording fake.
type Emitter interface {
	WriteRows(filename string, header []string, rows [][]string) error
}

// TableWriter writes CSV tables under a fixed output directory, one file per
// table. It writes to a ".tmp" sibling and renames into place, the same
// atomic-publish idiom the source uses for its schedule JSON (writeJsonFile
// in cli.go): a reader of the final path never observes a partial file.
type TableWriter struct {
	OutDir string
}

func NewTableWriter(outDir string) *TableWriter {
	return &TableWriter{OutDir: outDir}
}

func (w *TableWriter) WriteRows(filename string, header []string, rows [][]string) error {
	if err := os.MkdirAll(w.OutDir, 0o755); err != nil {
		return errs.Wrap(err, errs.EmitterFailure, "creating output directory "+w.OutDir)
	}

	path := filepath.Join(w.OutDir, filename)
	tmpPath := path + ".tmp"

	fp, err := os.Create(tmpPath)
	if err != nil {
		return errs.Wrap(err, errs.EmitterFailure, "creating "+tmpPath)
	}

	writer := csv.NewWriter(fp)
	if len(header) > 0 {
		if err := writer.Write(header); err != nil {
			fp.Close()
			return errs.Wrap(err, errs.EmitterFailure, "writing header for "+filename)
		}
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			fp.Close()
			return errs.Wrap(err, errs.EmitterFailure, "writing row for "+filename)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		fp.Close()
		return errs.Wrap(err, errs.EmitterFailure, "flushing "+filename)
	}

	if err := fp.Close(); err != nil {
		return errs.Wrap(err, errs.EmitterFailure, "closing "+tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errs.Wrap(err, errs.EmitterFailure, "renaming "+tmpPath+" to "+path)
	}
	return nil
}

// EmitAll runs the Emitter stage of §4.8 over a materialized schedule: the
// master timetable, one per-teacher table, one per-department table, and the
// expertise snapshot that produced the run (for auditability of induced
// assignments, §4.2).
func EmitAll(e Emitter, entries []ScheduleEntry, rc *ReducedCatalog) error {
	if err := emitMaster(e, entries); err != nil {
		return err
	}
	if err := emitByTeacher(e, entries); err != nil {
		return err
	}
	if err := emitByDept(e, entries); err != nil {
		return err
	}
	return emitExpertise(e, rc)
}

func emitMaster(e Emitter, entries []ScheduleEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, en := range entries {
		rows = append(rows, []string{
			en.Day, strconv.Itoa(en.Slot), en.TimeText, en.CourseID, en.TeacherID, en.DeptName, en.RoomID,
		})
	}
	header := []string{"Day", "Slot", "Time", "Course", "Teacher", "Department", "Room"}
	return e.WriteRows("master_timetable.csv", header, rows)
}

func emitByTeacher(e Emitter, entries []ScheduleEntry) error {
	grouped := make(map[string][]ScheduleEntry)
	for _, en := range entries {
		grouped[en.TeacherID] = append(grouped[en.TeacherID], en)
	}
	header := []string{"Day", "Slot", "Time", "Course", "Department", "Room"}
	for teacherID, rows := range grouped {
		out := make([][]string, 0, len(rows))
		for _, en := range rows {
			out = append(out, []string{en.Day, strconv.Itoa(en.Slot), en.TimeText, en.CourseID, en.DeptName, en.RoomID})
		}
		filename := "timetable_teacher_" + sanitizeName(localPart(teacherID)) + ".csv"
		if err := e.WriteRows(filename, header, out); err != nil {
			return err
		}
	}
	return nil
}

func emitByDept(e Emitter, entries []ScheduleEntry) error {
	grouped := make(map[string][]ScheduleEntry)
	for _, en := range entries {
		grouped[en.DeptName] = append(grouped[en.DeptName], en)
	}
	header := []string{"Day", "Slot", "Time", "Course", "Teacher", "Room"}
	for dept, rows := range grouped {
		out := make([][]string, 0, len(rows))
		for _, en := range rows {
			out = append(out, []string{en.Day, strconv.Itoa(en.Slot), en.TimeText, en.CourseID, en.TeacherID, en.RoomID})
		}
		filename := "timetable_dept_" + sanitizeName(dept) + ".csv"
		if err := e.WriteRows(filename, header, out); err != nil {
			return err
		}
	}
	return nil
}

func emitExpertise(e Emitter, rc *ReducedCatalog) error {
	header := []string{"TeacherID", "TeacherName", "Department", "SubjectArea"}
	var rows [][]string
	for _, t := range rc.Teachers {
		dept := rc.Departments[t.DeptID].Name
		seen := make(map[string]bool)
		for _, idx := range rc.TeacherCourses[t.ID] {
			subject := rc.Courses[idx].SubjectArea
			if seen[subject] {
				continue
			}
			seen[subject] = true
			rows = append(rows, []string{t.ID, localPart(t.ID), dept, subject})
		}
	}
	return e.WriteRows("teacher_expertise_data.csv", header, rows)
}

// localPart returns the part of an email-shaped teacher ID before the "@",
// or the ID unchanged when it carries no "@".
func localPart(teacherID string) string {
	if i := strings.IndexByte(teacherID, '@'); i >= 0 {
		return teacherID[:i]
	}
	return teacherID
}

// sanitizeName replaces every non-alphanumeric rune with '_' so a department
// or teacher name is safe to use as a filename, matching the original's
// c if c.isalnum() else '_'.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
