package model

import (
	"fmt"
	"time"

	"github.com/stemsi/course-registration/internal/enrollment"
)

// AddCourseRequest is the payload for enrolling in a course.
type AddCourseRequest struct {
	Code string `json:"code" binding:"required,min=2,max=16"`
}

// EnrollmentSummary is the API view of a student's enrollment.
type EnrollmentSummary struct {
	Matric         string           `json:"matric"`
	Name           string           `json:"name"`
	Courses        []CourseResponse `json:"courses"`
	TotalCredit    int              `json:"total_credit"`
	MinCredit      int              `json:"min_credit"`
	MaxCredit      int              `json:"max_credit"`
	MinimumReached bool             `json:"minimum_reached"`
}

// NewEnrollmentSummary converts an engine summary.
func NewEnrollmentSummary(s enrollment.Summary) EnrollmentSummary {
	return EnrollmentSummary{
		Matric:         s.ID,
		Name:           s.Name,
		Courses:        NewCourseList(s.Courses),
		TotalCredit:    s.TotalCredit,
		MinCredit:      s.MinCredit,
		MaxCredit:      s.MaxCredit,
		MinimumReached: s.MinimumReached,
	}
}

// TimetableDay is one row of the weekly timetable. Cells align with
// TimetableResponse.Hours; an empty string is a free hour.
type TimetableDay struct {
	Day   string   `json:"day"`
	Cells []string `json:"cells"`
}

// TimetableResponse is the day by hour grid.
type TimetableResponse struct {
	Hours []string       `json:"hours"`
	Days  []TimetableDay `json:"days"`
}

// NewTimetableResponse converts a projected grid.
func NewTimetableResponse(g *enrollment.Grid) TimetableResponse {
	hours := g.Hours()
	labels := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = fmt.Sprintf("%02d:00", h)
	}
	days := make([]TimetableDay, len(enrollment.Days))
	for i, d := range enrollment.Days {
		days[i] = TimetableDay{Day: d.String(), Cells: g.Row(d)}
	}
	return TimetableResponse{Hours: labels, Days: days}
}

// EnrollmentAction is the kind of change recorded in the audit trail.
type EnrollmentAction string

const (
	EnrollmentActionAdd  EnrollmentAction = "add"
	EnrollmentActionDrop EnrollmentAction = "drop"
)

// EnrollmentEvent is an audit record of one applied add or drop.
type EnrollmentEvent struct {
	ID          string           `json:"id"`
	Matric      string           `json:"matric"`
	Action      EnrollmentAction `json:"action"`
	CourseCode  string           `json:"course_code"`
	TotalCredit int              `json:"total_credit"`
	CreatedAt   time.Time        `json:"created_at"`
}
