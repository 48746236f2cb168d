package main

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"
)

// InduceExpertise runs the Expertise Inducer (§4.2) in place on cat. rng must
// be seeded deterministically by the caller (RunConfig.Seed) so that P8
// (idempotence) and P9 (determinism) hold; the teacher's global
// rand.Seed(time.Now().UnixNano()) idiom is deliberately not used here.
//
// noExpertise clears any expertise/assignment state the Catalog Loader
// already populated from the prior-assignments table, forcing a clean
// Synthesis pass regardless of what was found on disk.
func InduceExpertise(cat *Catalog, rng *rand.Rand, noExpertise bool, logger *zap.Logger) {
	if noExpertise {
		cat.Assignment = make(map[string]map[string]bool)
		cat.Expertise = make(map[string]map[string]bool)
		cat.PriorAssignmentSeed = make(map[string]string)
	}

	if len(cat.PriorAssignmentSeed) > 0 {
		induceByInference(cat, rng, logger)
	} else {
		induceBySynthesis(cat, rng, logger)
	}

	// Guarantee: every course with at least one eligible teacher ends with
	// >=1 teacher. Courses the modes above left unassigned (no department
	// teachers, prior-assignment data absent for that course) get one more
	// synthesis pass over the global teacher pool.
	fillUnassigned(cat, rng, logger)
}

// induceByInference walks the Catalog Loader's (course, teaching_department)
// seeds from the prior-assignments table and, for each that resolves, samples
// 1-2 teachers of that department without replacement per course (§4.2
// Inference mode).
func induceByInference(cat *Catalog, rng *rand.Rand, logger *zap.Logger) {
	teachersByDept := groupTeachersByDept(cat)
	coursesByID := make(map[string]Course, len(cat.Courses))
	for _, c := range cat.Courses {
		coursesByID[c.ID] = c
	}

	courseIDs := make([]string, 0, len(cat.PriorAssignmentSeed))
	for courseID := range cat.PriorAssignmentSeed {
		courseIDs = append(courseIDs, courseID)
	}
	sort.Strings(courseIDs)

	for _, courseID := range courseIDs {
		deptID := cat.PriorAssignmentSeed[courseID]
		course, ok := coursesByID[courseID]
		if !ok {
			continue
		}
		candidates := teachersByDept[deptID]
		if len(candidates) == 0 {
			logger.Warn("no teachers available for inferred assignment",
				zap.String("course_id", course.ID), zap.String("dept", course.DeptName))
			continue
		}
		n := pickCount(rng, len(candidates))
		for _, t := range sampleWithoutReplacement(rng, candidates, n) {
			cat.assign(course.ID, t.ID)
			cat.promoteExpertise(t.ID, course.SubjectArea)
		}
	}
}

// induceBySynthesis groups courses by (dept, subject_area) and ranks
// candidate teachers by current subject-area load then total course load,
// ascending, picking the first 1-2 (§4.2 Synthesis mode).
func induceBySynthesis(cat *Catalog, rng *rand.Rand, logger *zap.Logger) {
	teachersByDept := groupTeachersByDept(cat)

	type groupKey struct {
		dept        string
		subjectArea string
	}
	groups := make(map[groupKey][]Course)
	var order []groupKey
	for _, course := range cat.Courses {
		deptID := cat.NameToDept[course.DeptName]
		key := groupKey{dept: deptID, subjectArea: course.SubjectArea}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], course)
	}

	courseLoad := make(map[string]int) // teacher_id -> total assigned courses so far

	for _, key := range order {
		candidates := teachersByDept[key.dept]
		if len(candidates) == 0 {
			candidates = sampleGlobalTeachers(rng, cat.Teachers, 3)
			if len(candidates) == 0 {
				logger.Warn("no teachers available for synthesized assignment",
					zap.String("dept", key.dept), zap.String("subject_area", key.subjectArea))
				continue
			}
		}

		for _, course := range groups[key] {
			ranked := make([]Teacher, len(candidates))
			copy(ranked, candidates)
			sort.SliceStable(ranked, func(i, j int) bool {
				si := subjectCount(cat, ranked[i].ID, key.subjectArea)
				sj := subjectCount(cat, ranked[j].ID, key.subjectArea)
				if si != sj {
					return si < sj
				}
				return courseLoad[ranked[i].ID] < courseLoad[ranked[j].ID]
			})

			n := pickCount(rng, len(ranked))
			for i := 0; i < n; i++ {
				t := ranked[i]
				cat.assign(course.ID, t.ID)
				cat.promoteExpertise(t.ID, course.SubjectArea)
				courseLoad[t.ID]++
			}
		}
	}
}

func fillUnassigned(cat *Catalog, rng *rand.Rand, logger *zap.Logger) {
	for _, course := range cat.Courses {
		if len(cat.Assignment[course.ID]) > 0 {
			continue
		}
		candidates := sampleGlobalTeachers(rng, cat.Teachers, 3)
		if len(candidates) == 0 {
			logger.Warn("course has no eligible teacher after induction",
				zap.String("course_id", course.ID))
			continue
		}
		n := pickCount(rng, len(candidates))
		for _, t := range sampleWithoutReplacement(rng, candidates, n) {
			cat.assign(course.ID, t.ID)
			cat.promoteExpertise(t.ID, course.SubjectArea)
		}
	}
}

func groupTeachersByDept(cat *Catalog) map[string][]Teacher {
	out := make(map[string][]Teacher)
	for _, t := range cat.Teachers {
		out[t.DeptID] = append(out[t.DeptID], t)
	}
	return out
}

func subjectCount(cat *Catalog, teacherID, subjectArea string) int {
	count := 0
	for course, teachers := range cat.Assignment {
		if !teachers[teacherID] {
			continue
		}
		for _, c := range cat.Courses {
			if c.ID == course && c.SubjectArea == subjectArea {
				count++
			}
		}
	}
	return count
}

// pickCount samples 1 or 2 candidates, capped by the pool size (§4.2: |set|
// in [1,2] per course when possible).
func pickCount(rng *rand.Rand, poolSize int) int {
	if poolSize <= 1 {
		return poolSize
	}
	return 1 + rng.Intn(2)
}

func sampleWithoutReplacement(rng *rand.Rand, pool []Teacher, n int) []Teacher {
	if n >= len(pool) {
		out := make([]Teacher, len(pool))
		copy(out, pool)
		return out
	}
	shuffled := make([]Teacher, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func sampleGlobalTeachers(rng *rand.Rand, pool []Teacher, max int) []Teacher {
	if len(pool) == 0 {
		return nil
	}
	if len(pool) <= max {
		out := make([]Teacher, len(pool))
		copy(out, pool)
		return out
	}
	return sampleWithoutReplacement(rng, pool, max)
}
