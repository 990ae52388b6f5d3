package enrollment

import (
	"fmt"
	"strings"
)

// Catalog is the fixed set of courses offered for a term, keyed by code.
// It is read-only after construction and safe for concurrent readers.
type Catalog struct {
	courses []*Course
	byCode  map[string]*Course
}

// NewCatalog builds a catalog preserving the given order. Duplicate codes
// are rejected with ErrDuplicateCatalogCode.
func NewCatalog(courses []*Course) (*Catalog, error) {
	c := &Catalog{
		courses: make([]*Course, 0, len(courses)),
		byCode:  make(map[string]*Course, len(courses)),
	}
	for _, course := range courses {
		if course == nil {
			continue
		}
		if _, dup := c.byCode[course.Code]; dup {
			return nil, &RejectionError{Reason: ReasonDuplicateCatalogCode, Code: course.Code}
		}
		c.byCode[course.Code] = course
		c.courses = append(c.courses, course)
	}
	return c, nil
}

// MustCatalog is NewCatalog for fixed course lists known to be valid.
func MustCatalog(courses []*Course) *Catalog {
	c, err := NewCatalog(courses)
	if err != nil {
		panic(fmt.Sprintf("enrollment: %v", err))
	}
	return c
}

// Lookup finds a course by exact code. The catalog does not normalize case.
func (c *Catalog) Lookup(code string) (*Course, bool) {
	course, ok := c.byCode[code]
	return course, ok
}

// All returns the courses in catalog order.
func (c *Catalog) All() []*Course {
	return append([]*Course(nil), c.courses...)
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Search returns the courses whose code or name contains query,
// case-insensitively. It is a browsing aid only; enrollment always goes
// through Lookup.
func (c *Catalog) Search(query string) []*Course {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []*Course
	for _, course := range c.courses {
		if strings.Contains(strings.ToLower(course.Code), q) ||
			strings.Contains(strings.ToLower(course.Name), q) {
			out = append(out, course)
		}
	}
	return out
}
