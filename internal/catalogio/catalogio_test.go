package catalogio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stemsi/course-registration/internal/enrollment"
)

const sampleCSV = `code,name,credit,slots,location
SAIA1113,PYTHON PROGRAMMING,3,Monday 08:00-10:00;Tuesday 08:00-10:00,Lab 1
ULRS1032,INTEGRITY & ANTI-CORRUPTION,2,Wednesday 10:00-12:00,LR 15
`

func TestReadCSV(t *testing.T) {
	courses, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses", len(courses))
	}
	py := courses[0]
	if py.Code != "SAIA1113" || py.Credit != 3 || len(py.Intervals) != 2 {
		t.Fatalf("course = %+v", py)
	}
	if py.Intervals[1] != (enrollment.TimeInterval{Day: enrollment.Tuesday, StartHour: 8, EndHour: 10}) {
		t.Fatalf("second slot = %+v", py.Intervals[1])
	}
}

func TestReadCSV_BadSlot(t *testing.T) {
	in := "code,name,credit,slots,location\nX,n,3,Monday0800,LR\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Fatal("bad slot accepted")
	}
}

func TestReadJSON_BothSlotShapes(t *testing.T) {
	in := `[
	  {"code": "SAIA1113", "name": "PYTHON PROGRAMMING", "credit": 3,
	   "slots": {"day": "Monday", "time": "08:00-10:00"}, "location": "Lecture Room 1, Lvl 15"},
	  {"code": "SAIA1143", "name": "DISCRETE MATHEMATICS", "credit": 3,
	   "slots": [["Tuesday", "10:00-12:00"], ["Thursday", "08:00-09:00"]], "location": "LR 15"}
	]`
	courses, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(courses[0].Intervals) != 1 || courses[0].Intervals[0].Day != enrollment.Monday {
		t.Fatalf("object slot = %+v", courses[0].Intervals)
	}
	if len(courses[1].Intervals) != 2 || courses[1].Intervals[1].EndHour != 9 {
		t.Fatalf("pair slots = %+v", courses[1].Intervals)
	}
}

func TestWriteThenRead(t *testing.T) {
	for _, format := range []string{"csv", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			var err error
			if format == "csv" {
				err = WriteCSV(&buf, DefaultCourses())
			} else {
				err = WriteJSON(&buf, DefaultCourses())
			}
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatal(err)
			}
			want := DefaultCourses()
			if len(got) != len(want) {
				t.Fatalf("got %d courses, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].Code != want[i].Code || got[i].Schedule() != want[i].Schedule() || got[i].Location != want[i].Location {
					t.Errorf("course %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestLoadFile_DuplicateCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.csv")
	dup := append(DefaultCourses(), DefaultCourses()[0])
	if err := SaveFile(path, dup); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, enrollment.ErrDuplicateCatalogCode) {
		t.Fatalf("err = %v", err)
	}
}

func TestReaders_CanonicalizeCodes(t *testing.T) {
	tests := []struct {
		name string
		read func() ([]*enrollment.Course, error)
	}{
		{
			name: "csv",
			read: func() ([]*enrollment.Course, error) {
				in := "code,name,credit,slots,location\n saia1113 ,PYTHON PROGRAMMING,3,Monday 08:00-10:00,Lab 1\n"
				return ReadCSV(strings.NewReader(in))
			},
		},
		{
			name: "json",
			read: func() ([]*enrollment.Course, error) {
				in := `[{"code": " saia1113 ", "name": "PYTHON PROGRAMMING", "credit": 3,
				  "slots": {"day": "Monday", "time": "08:00-10:00"}, "location": "Lab 1"}]`
				return ReadJSON(strings.NewReader(in))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := tt.read()
			if err != nil {
				t.Fatal(err)
			}
			if courses[0].Code != "SAIA1113" {
				t.Fatalf("code = %q", courses[0].Code)
			}
			cat, err := enrollment.NewCatalog(courses)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := cat.Lookup("SAIA1113"); !ok {
				t.Fatal("canonical code not found in catalog")
			}
		})
	}
}

func TestReadCSV_CaseVariantIsDuplicate(t *testing.T) {
	in := "code,name,credit,slots,location\n" +
		"SAIA1113,PYTHON PROGRAMMING,3,Monday 08:00-10:00,Lab 1\n" +
		"saia1113,PYTHON PROGRAMMING,3,Tuesday 08:00-10:00,Lab 1\n"
	courses, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enrollment.NewCatalog(courses); !errors.Is(err, enrollment.ErrDuplicateCatalogCode) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cat, usedDefault, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || !usedDefault || cat.Len() != 8 {
		t.Fatalf("LoadOrDefault = %v, %v, %v", cat, usedDefault, err)
	}

	path := filepath.Join(t.TempDir(), "courses.json")
	if err := SaveFile(path, DefaultCourses()[:3]); err != nil {
		t.Fatal(err)
	}
	cat, usedDefault, err = LoadOrDefault(path)
	if err != nil || usedDefault || cat.Len() != 3 {
		t.Fatalf("LoadOrDefault(file) = %v, %v, %v", cat, usedDefault, err)
	}
}

func TestDefaultCoursesFormACatalog(t *testing.T) {
	if _, err := enrollment.NewCatalog(DefaultCourses()); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(strings.NewReader(""), "xml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
}
