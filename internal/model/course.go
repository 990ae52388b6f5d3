package model

import "github.com/stemsi/course-registration/internal/enrollment"

// SlotResponse is one weekly meeting of a course.
type SlotResponse struct {
	Day       string `json:"day"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Time      string `json:"time"`
}

// CourseResponse is the API view of a catalog course.
type CourseResponse struct {
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Credit   int            `json:"credit"`
	Slots    []SlotResponse `json:"slots"`
	Location string         `json:"location"`
}

// NewCourseResponse converts a catalog course.
func NewCourseResponse(c *enrollment.Course) CourseResponse {
	slots := make([]SlotResponse, len(c.Intervals))
	for i, iv := range c.Intervals {
		slots[i] = SlotResponse{
			Day:       iv.Day.String(),
			StartHour: iv.StartHour,
			EndHour:   iv.EndHour,
			Time:      iv.Span(),
		}
	}
	return CourseResponse{
		Code:     c.Code,
		Name:     c.Name,
		Credit:   c.Credit,
		Slots:    slots,
		Location: c.Location,
	}
}

// NewCourseList converts a list of catalog courses; never returns nil.
func NewCourseList(courses []*enrollment.Course) []CourseResponse {
	out := make([]CourseResponse, len(courses))
	for i, c := range courses {
		out[i] = NewCourseResponse(c)
	}
	return out
}
