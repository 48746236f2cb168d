package main

import "fmt"

// RoomKind classifies a Room for the valid-room filter (§4.3, T6).
type RoomKind int

const (
	RoomRegular RoomKind = iota
	RoomLab
	RoomTechLounge
)

func (k RoomKind) String() string {
	switch k {
	case RoomLab:
		return "lab"
	case RoomTechLounge:
		return "techlounge"
	default:
		return "regular"
	}
}

// CourseKind is derived from PracticalHours: lab iff PracticalHours >= 2.
type CourseKind int

const (
	CourseTheory CourseKind = iota
	CourseLab
)

// Department is one row of departments.csv.
type Department struct {
	ID   string
	Name string
}

// Room is one row of rooms.csv. Missing capacity defaults to 30.
type Room struct {
	ID       string
	Capacity int
	Kind     RoomKind
}

// Teacher is one row of teachers.csv with status "active".
type Teacher struct {
	ID     string
	DeptID string
	Active bool
}

// Course is one row of course.csv, enriched with the department name
// resolved from course_for_the_department_and_thier_faculty.csv.
type Course struct {
	ID             string
	DeptName       string
	PracticalHours int
	SubjectArea    string
	Kind           CourseKind
}

// Year returns the cohort year derived from characters 3-4 of the course ID
// as decimal tens (e.g. "23" -> 2). Non-numeric -> 0, per the spec's resolved
// open question: treat the original's truncation as authoritative.
func (c Course) Year() int {
	if len(c.ID) < 4 {
		return 0
	}
	digits := c.ID[2:4]
	var n int
	if _, err := fmt.Sscanf(digits, "%2d", &n); err != nil {
		return 0
	}
	return n / 10
}

// Student is one optional row of students.csv, consulted only by the
// cohort-conflict heuristic.
type Student struct {
	ID             string
	DeptName       string
	Year           int
	CurrentSemester int
}

// SlotWindow is one row of the fixed time-grid table (§6).
type SlotWindow struct {
	Start string
	End   string
}

// TimeGrid is the immutable weekly grid: 5 days, 13 fixed slot windows.
type TimeGrid struct {
	Days  []string
	Slots []SlotWindow
}

// DefaultTimeGrid returns the fixed grid from §6: slot 1 is a 60-minute
// opener, slots 2-13 are 50-minute successors. Slot 7 is interpreted as
// 13:10-14:00 per the spec's resolved open question.
func DefaultTimeGrid() TimeGrid {
	return TimeGrid{
		Days: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		Slots: []SlotWindow{
			{"08:00", "09:00"},
			{"09:00", "09:50"},
			{"09:50", "10:40"},
			{"10:40", "11:30"},
			{"11:30", "12:20"},
			{"12:20", "13:10"},
			{"13:10", "14:00"},
			{"14:00", "14:50"},
			{"14:50", "15:40"},
			{"15:40", "16:30"},
			{"16:30", "17:20"},
			{"17:20", "18:10"},
			{"18:10", "19:00"},
		},
	}
}

// LunchSlots is the fixed lunch window, {5,6,7} as 1-indexed slot numbers.
var LunchSlots = []int{5, 6, 7}

// Catalog is the stable entity set produced by the Catalog Loader and
// consumed by every later stage. Its entity slices are not changed after
// Load; the Expertise Inducer fills Assignment and Expertise in place.
type Catalog struct {
	Departments map[string]Department // by dept_id
	NameToDept  map[string]string     // dept_name -> dept_id
	Rooms       []Room
	Teachers    []Teacher
	Courses     []Course
	Students    []Student

	// Assignment holds course_id -> set of teacher_id, populated entirely by
	// the Expertise Inducer (neither mode has any other writer).
	Assignment map[string]map[string]bool

	// Expertise holds teacher_id -> set of subject_area, grown monotonically.
	Expertise map[string]map[string]bool

	// PriorAssignmentSeed holds course_id -> resolved teaching dept_id, set by
	// the Catalog Loader's loadFaculty from the prior-assignments table
	// (course_for_the_department_and_thier_faculty.csv). Its presence, not
	// Assignment's, is what tells the Expertise Inducer whether Inference mode
	// has anything to walk (§4.2): Assignment is Inducer output, never input.
	PriorAssignmentSeed map[string]string

	Grid TimeGrid
}

// NewCatalog builds an empty, ready-to-populate Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Departments:         make(map[string]Department),
		NameToDept:          make(map[string]string),
		Assignment:          make(map[string]map[string]bool),
		Expertise:           make(map[string]map[string]bool),
		PriorAssignmentSeed: make(map[string]string),
		Grid:                DefaultTimeGrid(),
	}
}

func (c *Catalog) assign(courseID, teacherID string) {
	if c.Assignment[courseID] == nil {
		c.Assignment[courseID] = make(map[string]bool)
	}
	c.Assignment[courseID][teacherID] = true
}

func (c *Catalog) promoteExpertise(teacherID, subjectArea string) {
	if c.Expertise[teacherID] == nil {
		c.Expertise[teacherID] = make(map[string]bool)
	}
	c.Expertise[teacherID][subjectArea] = true
}

// Profile is the tagged-variant strictness preset (§9 Design Notes), a named
// point on the relaxation lattice real > hybrid > balanced > relaxed.
type Profile int

const (
	ProfileRelaxed Profile = iota
	ProfileBalanced
	ProfileHybrid
	ProfileReal
)

func (p Profile) String() string {
	switch p {
	case ProfileBalanced:
		return "balanced"
	case ProfileHybrid:
		return "hybrid"
	case ProfileReal:
		return "real"
	default:
		return "relaxed"
	}
}

// ParseProfile parses a profile name from the CLI flags.
func ParseProfile(s string) (Profile, bool) {
	switch s {
	case "relaxed":
		return ProfileRelaxed, true
	case "balanced":
		return ProfileBalanced, true
	case "hybrid":
		return ProfileHybrid, true
	case "real":
		return ProfileReal, true
	default:
		return ProfileBalanced, false
	}
}

// Relax returns the next-looser profile on the lattice walk
// real -> hybrid -> balanced -> relaxed, and false once already relaxed.
func (p Profile) Relax() (Profile, bool) {
	switch p {
	case ProfileReal:
		return ProfileHybrid, true
	case ProfileHybrid:
		return ProfileBalanced, true
	case ProfileBalanced:
		return ProfileRelaxed, true
	default:
		return ProfileRelaxed, false
	}
}

// ToggleOverrides lets a caller force an individual gated constraint on or
// off regardless of profile; nil means "use the profile default". This
// replaces the source's boolean-flag explosion with a single profile plus a
// sparse override set (§9 Design Notes).
type ToggleOverrides struct {
	Lunch            *bool
	LabConsecutivity *bool
	CohortConflict   *bool
}

func resolveToggle(override *bool, profileDefault bool) bool {
	if override != nil {
		return *override
	}
	return profileDefault
}

// ResolvedLunch reports whether the Lunch constraint is active for p unless overridden.
func (o ToggleOverrides) ResolvedLunch(p Profile) bool {
	return resolveToggle(o.Lunch, p >= ProfileBalanced)
}

// ResolvedLabConsecutivity reports whether lab-consecutivity is active for p unless overridden.
func (o ToggleOverrides) ResolvedLabConsecutivity(p Profile) bool {
	return resolveToggle(o.LabConsecutivity, p >= ProfileBalanced)
}

// ResolvedCohortConflict reports whether cohort-conflict is active for p unless overridden.
func (o ToggleOverrides) ResolvedCohortConflict(p Profile) bool {
	return resolveToggle(o.CohortConflict, p >= ProfileHybrid)
}

// ResolvedMinInstances is the T5 minimum-instances threshold N for p (§4.4).
func ResolvedMinInstances(p Profile) int {
	if p >= ProfileHybrid {
		return 2
	}
	return 1
}

// ScheduleEntry is one emitted placement: a variable whose solved value is 1.
type ScheduleEntry struct {
	Day      string
	Slot     int
	TimeText string
	CourseID string
	TeacherID string
	DeptName string
	RoomID   string
}
