package catalogio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/stemsi/course-registration/internal/enrollment"
)

type courseDoc struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Credit   int      `json:"credit"`
	Slots    slotList `json:"slots"`
	Location string   `json:"location"`
}

// slotList accepts either a list of [day, span] pairs or a single
// {"day": ..., "time": ...} object.
type slotList [][2]string

func (s *slotList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var one struct {
			Day  string `json:"day"`
			Time string `json:"time"`
		}
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*s = slotList{{one.Day, one.Time}}
		return nil
	}
	var pairs [][2]string
	if err := json.Unmarshal(b, &pairs); err != nil {
		return err
	}
	*s = pairs
	return nil
}

// ReadJSON parses a JSON array of courses.
func ReadJSON(r io.Reader) ([]*enrollment.Course, error) {
	var docs []courseDoc
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	courses := make([]*enrollment.Course, 0, len(docs))
	for _, d := range docs {
		code := canonicalCode(d.Code)
		intervals, err := parseSlots(code, d.Slots)
		if err != nil {
			return nil, err
		}
		c, err := enrollment.NewCourse(code, strings.TrimSpace(d.Name), d.Credit, intervals, strings.TrimSpace(d.Location))
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// WriteJSON writes courses as an indented JSON array of [day, span] slots.
func WriteJSON(w io.Writer, courses []*enrollment.Course) error {
	docs := make([]courseDoc, len(courses))
	for i, c := range courses {
		slots := make(slotList, len(c.Intervals))
		for j, iv := range c.Intervals {
			slots[j] = [2]string{iv.Day.String(), iv.Span()}
		}
		docs[i] = courseDoc{Code: c.Code, Name: c.Name, Credit: c.Credit, Slots: slots, Location: c.Location}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(docs)
}
