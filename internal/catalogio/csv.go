package catalogio

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/stemsi/course-registration/internal/enrollment"
)

// courseRow is one CSV line. Slots hold "Day HH:00-HH:00" entries separated
// by semicolons, e.g. "Monday 08:00-10:00;Tuesday 08:00-10:00".
type courseRow struct {
	Code     string `csv:"code"`
	Name     string `csv:"name"`
	Credit   int    `csv:"credit"`
	Slots    string `csv:"slots"`
	Location string `csv:"location"`
}

// ReadCSV parses a catalog CSV with a header row.
func ReadCSV(r io.Reader) ([]*enrollment.Course, error) {
	var rows []*courseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	courses := make([]*enrollment.Course, 0, len(rows))
	for i, row := range rows {
		code := canonicalCode(row.Code)
		slots, err := splitSlots(row.Slots)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		intervals, err := parseSlots(code, slots)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		c, err := enrollment.NewCourse(code, strings.TrimSpace(row.Name), row.Credit, intervals, strings.TrimSpace(row.Location))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// WriteCSV writes courses in the layout ReadCSV accepts.
func WriteCSV(w io.Writer, courses []*enrollment.Course) error {
	rows := make([]*courseRow, len(courses))
	for i, c := range courses {
		parts := make([]string, len(c.Intervals))
		for j, iv := range c.Intervals {
			parts[j] = iv.Day.String() + " " + iv.Span()
		}
		rows[i] = &courseRow{
			Code:     c.Code,
			Name:     c.Name,
			Credit:   c.Credit,
			Slots:    strings.Join(parts, ";"),
			Location: c.Location,
		}
	}
	return gocsv.Marshal(rows, w)
}

func splitSlots(raw string) ([][2]string, error) {
	var out [][2]string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, span, ok := strings.Cut(part, " ")
		if !ok {
			return nil, fmt.Errorf("slot %q: want \"Day HH:00-HH:00\"", part)
		}
		out = append(out, [2]string{day, strings.TrimSpace(span)})
	}
	return out, nil
}
