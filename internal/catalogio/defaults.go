package catalogio

import "github.com/stemsi/course-registration/internal/enrollment"

// DefaultCourses returns the Year 1, Semester 1 catalog used when no
// catalog file has been provided.
func DefaultCourses() []*enrollment.Course {
	type slot = enrollment.TimeInterval
	mk := func(code, name string, credit int, location string, slots ...slot) *enrollment.Course {
		return &enrollment.Course{Code: code, Name: name, Credit: credit, Intervals: slots, Location: location}
	}
	return []*enrollment.Course{
		mk("SAIA1113", "PYTHON PROGRAMMING", 3, "Lab 1",
			slot{Day: enrollment.Monday, StartHour: 8, EndHour: 10},
			slot{Day: enrollment.Tuesday, StartHour: 8, EndHour: 10}),
		mk("SAIA1143", "DISCRETE MATHEMATICS", 3, "LR 15",
			slot{Day: enrollment.Tuesday, StartHour: 10, EndHour: 12}),
		mk("SAIA1013", "RESPONSIBLE AI & ETHICS", 3, "Seminar 3",
			slot{Day: enrollment.Wednesday, StartHour: 14, EndHour: 16}),
		mk("SAIA1123", "INTRODUCTION TO AI", 3, "LR 15",
			slot{Day: enrollment.Tuesday, StartHour: 8, EndHour: 10}),
		mk("ULRS1032", "INTEGRITY & ANTI-CORRUPTION", 2, "LR 15",
			slot{Day: enrollment.Wednesday, StartHour: 10, EndHour: 12}),
		mk("SAIA1133", "DATA MANAGEMENT", 3, "LR 15",
			slot{Day: enrollment.Thursday, StartHour: 10, EndHour: 12}),
		mk("SAIA1153", "MATHEMATICS FOR ML", 3, "LR 2",
			slot{Day: enrollment.Friday, StartHour: 8, EndHour: 10}),
		mk("UHIS1022", "PHILOSOPHY ISSUES", 2, "Hall A",
			slot{Day: enrollment.Monday, StartHour: 14, EndHour: 16}),
	}
}
