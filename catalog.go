package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/collegesched/scheduler/internal/errs"
)

// fetchFile reads a catalog source that is either a local path or an
// http(s):// URL, rewriting a Google Docs "share" export link to its CSV
// export form first. Grounded on the teacher's fetchFile in main.go/cli.go,
// generalized to every catalog file instead of a single hardcoded input.
func fetchFile(logger *zap.Logger, filename string) ([][]string, error) {
	var reader io.Reader
	if strings.HasPrefix(filename, "http:") || strings.HasPrefix(filename, "https:") {
		const docsSuffix = "/edit?usp=sharing"
		if strings.HasSuffix(filename, docsSuffix) {
			filename = filename[:len(filename)-len(docsSuffix)] + "/export?format=csv"
		}
		logger.Debug("downloading catalog URL", zap.String("url", filename))
		res, err := http.Get(filename)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		reader = res.Body
	} else {
		fp, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		reader = fp
	}

	buf := bufio.NewReader(reader)
	r := csv.NewReader(buf)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// headerIndex maps column name -> index from the first row of rows.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func col(row []string, idx map[string]int, name string) (string, bool) {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// loadTable fetches and CSV-parses one catalog source. A missing file is
// reported through warn (InputMissing) and yields a nil row set rather than
// an error, so the caller can continue with an empty working set (§7).
func loadTable(logger *zap.Logger, path string) (header []string, rows [][]string, missing bool) {
	all, err := fetchFile(logger, path)
	if err != nil {
		logger.Warn("catalog source missing, proceeding with empty set",
			zap.String("path", path), zap.Error(err))
		return nil, nil, true
	}
	if len(all) == 0 {
		return nil, nil, false
	}
	return all[0], all[1:], false
}

// LoadCatalog runs the Catalog Loader (§4.1): reads the five required tables
// plus the optional students table from cfg.DataDir, normalizes identifiers,
// and returns the Catalog. It never returns a fatal error for a
// missing or malformed table; those conditions degrade to empty/skipped rows
// per the §7 error taxonomy.
func LoadCatalog(cfg *RunConfig, logger *zap.Logger) (*Catalog, *errs.Error) {
	if cfg.Mock {
		return mockCatalog(), nil
	}

	cat := NewCatalog()
	loadDepartments(cat, logger, filepath.Join(cfg.DataDir, "departments.csv"))
	loadRooms(cat, logger, filepath.Join(cfg.DataDir, "rooms.csv"))
	loadTeachers(cat, logger, filepath.Join(cfg.DataDir, "teachers.csv"))
	loadCourses(cat, logger, filepath.Join(cfg.DataDir, "course.csv"))
	loadFaculty(cat, logger, filepath.Join(cfg.DataDir, "course_for_the_department_and_thier_faculty.csv"))
	loadStudents(cat, logger, filepath.Join(cfg.DataDir, "students.csv"))

	return cat, nil
}

func loadDepartments(cat *Catalog, logger *zap.Logger, path string) {
	header, rows, _ := loadTable(logger, path)
	if header == nil {
		return
	}
	idx := headerIndex(header)
	for n, row := range rows {
		id, okID := col(row, idx, "id")
		name, okName := col(row, idx, "dept_name")
		if !okID || !okName || id == "" {
			logger.Warn("skipping malformed departments row", zap.Int("row", n+1))
			continue
		}
		cat.Departments[id] = Department{ID: id, Name: name}
		cat.NameToDept[name] = id
	}
}

func loadRooms(cat *Catalog, logger *zap.Logger, path string) {
	header, rows, _ := loadTable(logger, path)
	if header == nil {
		return
	}
	idx := headerIndex(header)
	for n, row := range rows {
		id, okID := col(row, idx, "room_number")
		if !okID || id == "" {
			logger.Warn("skipping malformed rooms row", zap.Int("row", n+1))
			continue
		}
		capacity := 30
		if capStr, ok := col(row, idx, "room_max_cap"); ok && capStr != "" {
			if v, err := strconv.Atoi(capStr); err == nil && v > 0 {
				capacity = v
			}
		}
		kind := RoomRegular
		if isLabStr, ok := col(row, idx, "is_lab"); ok && isTruthy(isLabStr) {
			kind = RoomLab
		}
		cat.Rooms = append(cat.Rooms, Room{ID: id, Capacity: capacity, Kind: kind})
	}
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

func loadTeachers(cat *Catalog, logger *zap.Logger, path string) {
	header, rows, _ := loadTable(logger, path)
	if header == nil {
		return
	}
	idx := headerIndex(header)
	for n, row := range rows {
		id, okID := col(row, idx, "teacher_id__email")
		if !okID || id == "" {
			logger.Warn("skipping malformed teachers row", zap.Int("row", n+1))
			continue
		}
		status, _ := col(row, idx, "resignation_status")
		if strings.ToLower(status) != "active" {
			continue
		}
		deptID, _ := col(row, idx, "dept_id")
		if deptID != "" {
			if _, ok := cat.Departments[deptID]; !ok {
				logger.Warn("teacher references unresolved department, keeping as-is",
					zap.String("teacher", id), zap.String("dept_id", deptID))
			}
		}
		cat.Teachers = append(cat.Teachers, Teacher{ID: id, DeptID: deptID, Active: true})
	}
}

func loadCourses(cat *Catalog, logger *zap.Logger, path string) {
	header, rows, _ := loadTable(logger, path)
	if header == nil {
		return
	}
	idx := headerIndex(header)
	for n, row := range rows {
		id, okID := col(row, idx, "course_id")
		if !okID || id == "" {
			logger.Warn("skipping malformed course row", zap.Int("row", n+1))
			continue
		}
		practicalHours := 0
		if hoursStr, ok := col(row, idx, "practical_hours"); ok && hoursStr != "" {
			if v, err := strconv.Atoi(hoursStr); err == nil {
				practicalHours = v
			}
		}
		deptID, _ := col(row, idx, "course_dept_id")
		deptName := deptID
		if dept, ok := cat.Departments[deptID]; ok {
			deptName = dept.Name
		}
		kind := CourseTheory
		if practicalHours >= 2 {
			kind = CourseLab
		}
		subjectArea := id
		if len(id) >= 2 {
			subjectArea = id[:2]
		}
		cat.Courses = append(cat.Courses, Course{
			ID:             id,
			DeptName:       deptName,
			PracticalHours: practicalHours,
			SubjectArea:    subjectArea,
			Kind:           kind,
		})
	}
}

// loadFaculty reads the prior teacher<->department-for-course assignment
// table. Department-by-name references that do not resolve are preserved
// verbatim (ReferentialGap) so the Expertise Inducer can still operate on
// them; each matching course row's department name is overwritten in place
// with the Faculty value, whether or not the course table had resolved it.
func loadFaculty(cat *Catalog, logger *zap.Logger, path string) {
	header, rows, _ := loadTable(logger, path)
	if header == nil {
		return
	}
	idx := headerIndex(header)
	byID := make(map[string]int, len(cat.Courses))
	for i, c := range cat.Courses {
		byID[c.ID] = i
	}
	for n, row := range rows {
		courseCode, okCode := col(row, idx, "Course Code")
		faculty, okFaculty := col(row, idx, "Faculty")
		if !okCode || !okFaculty || courseCode == "" {
			logger.Warn("skipping malformed faculty-assignment row", zap.Int("row", n+1))
			continue
		}
		i, ok := byID[courseCode]
		if !ok {
			logger.Warn("faculty assignment references unknown course",
				zap.String("course_id", courseCode))
			continue
		}
		cat.Courses[i].DeptName = faculty
		deptID, ok := cat.NameToDept[faculty]
		if !ok {
			logger.Warn("faculty assignment references unresolved department, preserving name",
				zap.String("dept_name", faculty))
			continue
		}
		cat.PriorAssignmentSeed[courseCode] = deptID
	}
}

func loadStudents(cat *Catalog, logger *zap.Logger, path string) {
	header, rows, _ := loadTable(logger, path)
	if header == nil {
		return
	}
	idx := headerIndex(header)
	for n, row := range rows {
		id, okID := col(row, idx, "student_id__email")
		if !okID || id == "" {
			logger.Warn("skipping malformed students row", zap.Int("row", n+1))
			continue
		}
		dept, _ := col(row, idx, "dept")
		year := 0
		if yearStr, ok := col(row, idx, "year"); ok {
			year, _ = strconv.Atoi(yearStr)
		}
		semester := 0
		if semStr, ok := col(row, idx, "current_semester"); ok {
			semester, _ = strconv.Atoi(semStr)
		}
		cat.Students = append(cat.Students, Student{ID: id, DeptName: dept, Year: year, CurrentSemester: semester})
	}
}

// mockCatalog builds a small, deterministic in-memory catalog for --mock
// runs, bypassing all file I/O. Grounded on the Python original's CLI mock
// mode, sized for a quick smoke test rather than a realistic college.
func mockCatalog() *Catalog {
	cat := NewCatalog()
	cat.Departments["D1"] = Department{ID: "D1", Name: "Computer Science"}
	cat.Departments["D2"] = Department{ID: "D2", Name: "Mathematics"}
	cat.NameToDept["Computer Science"] = "D1"
	cat.NameToDept["Mathematics"] = "D2"

	cat.Rooms = []Room{
		{ID: "R1", Capacity: 60, Kind: RoomRegular},
		{ID: "R2", Capacity: 40, Kind: RoomRegular},
		{ID: "L1", Capacity: 30, Kind: RoomLab},
	}

	cat.Teachers = []Teacher{
		{ID: "alice@college.edu", DeptID: "D1", Active: true},
		{ID: "bob@college.edu", DeptID: "D1", Active: true},
		{ID: "carol@college.edu", DeptID: "D2", Active: true},
	}

	cat.Courses = []Course{
		{ID: "CS201", DeptName: "Computer Science", PracticalHours: 2, SubjectArea: "CS", Kind: CourseLab},
		{ID: "CS210", DeptName: "Computer Science", PracticalHours: 0, SubjectArea: "CS", Kind: CourseTheory},
		{ID: "MA101", DeptName: "Mathematics", PracticalHours: 0, SubjectArea: "MA", Kind: CourseTheory},
	}

	return cat
}
