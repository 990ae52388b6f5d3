package enrollment

import (
	"fmt"
	"strings"
)

// Course is an offered course. Courses are built once when the catalog is
// loaded and shared by pointer; they are never modified afterwards.
type Course struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Credit    int            `json:"credit"`
	Intervals []TimeInterval `json:"intervals"`
	Location  string         `json:"location"`
}

// NewCourse validates and builds a Course.
func NewCourse(code, name string, credit int, intervals []TimeInterval, location string) (*Course, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: empty code", ErrInvalidCourse)
	}
	if credit <= 0 {
		return nil, fmt.Errorf("%w: %s has credit %d", ErrInvalidCourse, code, credit)
	}
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: %s has no time slots", ErrInvalidCourse, code)
	}
	for _, iv := range intervals {
		if _, err := NewTimeInterval(iv.Day, iv.StartHour, iv.EndHour); err != nil {
			return nil, fmt.Errorf("%s: %w", code, err)
		}
	}
	return &Course{
		Code:      code,
		Name:      name,
		Credit:    credit,
		Intervals: append([]TimeInterval(nil), intervals...),
		Location:  location,
	}, nil
}

// ClashesWith reports whether any interval of c overlaps any interval of other.
func (c *Course) ClashesWith(other *Course) bool {
	for _, a := range c.Intervals {
		for _, b := range other.Intervals {
			if Overlaps(a, b) {
				return true
			}
		}
	}
	return false
}

// Schedule formats the intervals as "Mon 08:00-10:00, Tue 08:00-10:00".
func (c *Course) Schedule() string {
	parts := make([]string, len(c.Intervals))
	for i, iv := range c.Intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, ", ")
}
