package enrollment

import "slices"

// StudentRecord is one registered student's enrollment state.
//
// The course list and the credit total only change together, through the
// Engine, so TotalCredit always equals the sum of the enrolled credits.
type StudentRecord struct {
	name           string
	id             string
	enrolled       []*Course
	totalCredit    int
	minimumReached bool
}

// NewStudentRecord registers a student with no courses. name and id must
// already satisfy the registration rules.
func NewStudentRecord(name, id string) *StudentRecord {
	return &StudentRecord{name: name, id: id}
}

func (s *StudentRecord) Name() string { return s.name }
func (s *StudentRecord) ID() string   { return s.id }

// Enrolled returns the enrolled courses in the order they were added.
func (s *StudentRecord) Enrolled() []*Course {
	return slices.Clone(s.enrolled)
}

func (s *StudentRecord) TotalCredit() int { return s.totalCredit }

// MinimumReached reports whether the record has held MinCredit or more at
// least once. From then on drops may not take it below MinCredit.
func (s *StudentRecord) MinimumReached() bool { return s.minimumReached }

// IsEnrolled reports whether a course with code is enrolled.
func (s *StudentRecord) IsEnrolled(code string) bool {
	return s.indexOf(code) >= 0
}

func (s *StudentRecord) indexOf(code string) int {
	return slices.IndexFunc(s.enrolled, func(c *Course) bool { return c.Code == code })
}

func (s *StudentRecord) enrol(c *Course) {
	s.enrolled = append(s.enrolled, c)
	s.totalCredit += c.Credit
	if s.totalCredit >= MinCredit {
		s.minimumReached = true
	}
}

func (s *StudentRecord) withdraw(i int) {
	c := s.enrolled[i]
	s.enrolled = slices.Delete(s.enrolled, i, i+1)
	s.totalCredit -= c.Credit
}
