package enrollment

import (
	"errors"
	"testing"
)

func iv(t *testing.T, day Day, start, end int) TimeInterval {
	t.Helper()
	v, err := NewTimeInterval(day, start, end)
	if err != nil {
		t.Fatalf("NewTimeInterval(%v, %d, %d): %v", day, start, end, err)
	}
	return v
}

func course(t *testing.T, code string, credit int, slots ...TimeInterval) *Course {
	t.Helper()
	c, err := NewCourse(code, code+" name", credit, slots, "LR 15")
	if err != nil {
		t.Fatalf("NewCourse(%s): %v", code, err)
	}
	return c
}

// assertInvariant checks the credit total and clash-freedom of rec.
func assertInvariant(t *testing.T, rec *StudentRecord) {
	t.Helper()
	sum := 0
	for _, c := range rec.Enrolled() {
		sum += c.Credit
	}
	if sum != rec.TotalCredit() {
		t.Fatalf("total credit %d, sum of enrolled %d", rec.TotalCredit(), sum)
	}
	enrolled := rec.Enrolled()
	for i := range enrolled {
		for j := i + 1; j < len(enrolled); j++ {
			if enrolled[i].ClashesWith(enrolled[j]) {
				t.Fatalf("%s clashes with %s", enrolled[i].Code, enrolled[j].Code)
			}
		}
	}
}

func TestAdd_NoClashDifferentDays(t *testing.T) {
	a := course(t, "SAIA1113", 3, iv(t, Monday, 8, 10))
	b := course(t, "SAIA1143", 3, iv(t, Tuesday, 8, 10))
	e := NewEngine(MustCatalog([]*Course{a, b}))
	rec := NewStudentRecord("Aisyah", "A25CS0001")

	for _, c := range []*Course{a, b} {
		if r := e.Add(rec, c); r.Status != StatusAdded {
			t.Fatalf("Add(%s) = %+v", c.Code, r)
		}
	}
	if rec.TotalCredit() != 6 {
		t.Fatalf("total = %d, want 6", rec.TotalCredit())
	}
	assertInvariant(t, rec)
}

func TestAdd_ScheduleClash(t *testing.T) {
	first := course(t, "SAIA1123", 3, iv(t, Tuesday, 8, 10))
	second := course(t, "SAIA1143", 3, iv(t, Tuesday, 8, 10))
	e := NewEngine(MustCatalog([]*Course{first, second}))
	rec := NewStudentRecord("Aisyah", "A25CS0001")

	if r := e.Add(rec, first); !r.OK() {
		t.Fatalf("Add first: %+v", r)
	}
	r := e.Add(rec, second)
	if r.Status != StatusRejected || r.Reason != ReasonScheduleClash || r.ConflictCode != "SAIA1123" {
		t.Fatalf("Add second = %+v, want ScheduleClash(SAIA1123)", r)
	}
	if !errors.Is(r.Err(), ErrScheduleClash) {
		t.Fatalf("Err() = %v, want ErrScheduleClash", r.Err())
	}
	if rec.TotalCredit() != 3 || len(rec.Enrolled()) != 1 {
		t.Fatalf("record changed on rejection: total=%d courses=%d", rec.TotalCredit(), len(rec.Enrolled()))
	}
}

func TestAdd_ClashOnSecondInterval(t *testing.T) {
	a := course(t, "A", 3, iv(t, Monday, 8, 10), iv(t, Thursday, 14, 16))
	b := course(t, "B", 3, iv(t, Thursday, 15, 17))
	e := NewEngine(MustCatalog([]*Course{a, b}))
	rec := NewStudentRecord("n", "i")
	e.Add(rec, a)
	if r := e.Add(rec, b); r.Reason != ReasonScheduleClash || r.ConflictCode != "A" {
		t.Fatalf("got %+v", r)
	}
}

func TestAdd_TouchingIntervalsDoNotClash(t *testing.T) {
	a := course(t, "A", 3, iv(t, Wednesday, 8, 10))
	b := course(t, "B", 3, iv(t, Wednesday, 10, 12))
	e := NewEngine(MustCatalog([]*Course{a, b}))
	rec := NewStudentRecord("n", "i")
	e.Add(rec, a)
	if r := e.Add(rec, b); !r.OK() {
		t.Fatalf("touching intervals rejected: %+v", r)
	}
}

func TestAdd_ValidationOrder(t *testing.T) {
	// A record at 21 credits that already holds X: re-adding X is both a
	// duplicate and over the limit and clashes with itself. Duplicate wins.
	var courses []*Course
	for _, d := range Days {
		courses = append(courses, course(t, "C"+d.Short(), 3, iv(t, d, 8, 10)))
	}
	extra1 := course(t, "E1", 3, iv(t, Monday, 12, 14))
	extra2 := course(t, "E2", 3, iv(t, Tuesday, 12, 14))
	overLimitAndClash := course(t, "OVER", 3, iv(t, Monday, 9, 11))
	all := append(courses, extra1, extra2, overLimitAndClash)
	e := NewEngine(MustCatalog(all))
	rec := NewStudentRecord("n", "i")
	for _, c := range append(courses, extra1, extra2) {
		if r := e.Add(rec, c); !r.OK() {
			t.Fatalf("setup Add(%s): %+v", c.Code, r)
		}
	}
	if rec.TotalCredit() != 21 {
		t.Fatalf("setup total %d", rec.TotalCredit())
	}

	if r := e.Add(rec, courses[0]); r.Reason != ReasonAlreadyEnrolled {
		t.Fatalf("duplicate: got %s", r.Reason)
	}
	if r := e.Add(rec, overLimitAndClash); r.Reason != ReasonCreditLimitExceeded {
		t.Fatalf("over limit and clashing: got %s, want credit limit first", r.Reason)
	}
}

func TestAdd_CreditBoundary(t *testing.T) {
	tests := []struct {
		name   string
		credit int
		want   Reason
	}{
		{"reaches exactly 21", 3, ReasonNone},
		{"reaches 22", 4, ReasonCreditLimitExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var base []*Course
			for _, d := range Days {
				base = append(base, course(t, "B"+d.Short(), 3, iv(t, d, 8, 10)))
			}
			base = append(base, course(t, "B6", 3, iv(t, Monday, 10, 12)))
			last := course(t, "LAST", tt.credit, iv(t, Friday, 14, 16))
			e := NewEngine(MustCatalog(append(base, last)))
			rec := NewStudentRecord("n", "i")
			for _, c := range base {
				e.Add(rec, c)
			}
			if rec.TotalCredit() != 18 {
				t.Fatalf("setup total %d", rec.TotalCredit())
			}
			r := e.Add(rec, last)
			if r.Reason != tt.want {
				t.Fatalf("got %+v, want reason %q", r, tt.want)
			}
			assertInvariant(t, rec)
		})
	}
}

func TestDrop_Idempotence(t *testing.T) {
	a := course(t, "A", 3, iv(t, Monday, 8, 10))
	e := NewEngine(MustCatalog([]*Course{a}))
	rec := NewStudentRecord("n", "i")
	e.Add(rec, a)

	if r := e.Drop(rec, a); r.Status != StatusDropped {
		t.Fatalf("first drop: %+v", r)
	}
	r := e.Drop(rec, a)
	if r.Reason != ReasonNotEnrolled || !errors.Is(r.Err(), ErrNotEnrolled) {
		t.Fatalf("second drop: %+v", r)
	}
	if rec.TotalCredit() != 0 {
		t.Fatalf("total = %d", rec.TotalCredit())
	}
}

// fourteenCredits builds a catalog and a record holding 4+4+3+3 credits.
func fourteenCredits(t *testing.T) (*Engine, *StudentRecord, []*Course) {
	t.Helper()
	cs := []*Course{
		course(t, "A", 4, iv(t, Monday, 8, 10)),
		course(t, "B", 4, iv(t, Tuesday, 8, 10)),
		course(t, "C", 3, iv(t, Wednesday, 8, 10)),
		course(t, "D", 3, iv(t, Thursday, 8, 10)),
		course(t, "E", 2, iv(t, Friday, 8, 10)),
	}
	e := NewEngine(MustCatalog(cs))
	rec := NewStudentRecord("n", "i")
	for _, c := range cs[:4] {
		if r := e.Add(rec, c); !r.OK() {
			t.Fatalf("setup: %+v", r)
		}
	}
	return e, rec, cs
}

func TestDrop_MinimumBoundary(t *testing.T) {
	e, rec, cs := fourteenCredits(t)
	if !rec.MinimumReached() {
		t.Fatal("minimum should be reached at 14 credits")
	}
	// 14 - 2 would need a 2-credit course; add E (16) then drop A (12).
	e.Add(rec, cs[4])
	if r := e.Drop(rec, cs[0]); !r.OK() {
		t.Fatalf("drop to exactly 12: %+v", r)
	}
	if rec.TotalCredit() != 12 {
		t.Fatalf("total = %d", rec.TotalCredit())
	}
	r := e.Drop(rec, cs[3])
	if r.Reason != ReasonBelowMinimumCredit || !errors.Is(r.Err(), ErrBelowMinimumCredit) {
		t.Fatalf("drop to 9: %+v", r)
	}
	if rec.TotalCredit() != 12 || len(rec.Enrolled()) != 4 {
		t.Fatal("record changed on rejected drop")
	}
	assertInvariant(t, rec)
}

func TestDrop_MinimumSuspendedBeforeFirstReached(t *testing.T) {
	a := course(t, "A", 3, iv(t, Monday, 8, 10))
	b := course(t, "B", 3, iv(t, Tuesday, 8, 10))
	e := NewEngine(MustCatalog([]*Course{a, b}))
	rec := NewStudentRecord("n", "i")
	e.Add(rec, a)
	e.Add(rec, b)
	if rec.MinimumReached() {
		t.Fatal("minimum reached at 6 credits")
	}
	if r := e.Drop(rec, a); !r.OK() {
		t.Fatalf("drop during initial enrollment: %+v", r)
	}
}

func TestDrop_MinimumStaysEnforced(t *testing.T) {
	e, rec, cs := fourteenCredits(t)
	if r := e.Drop(rec, cs[3]); r.Reason != ReasonBelowMinimumCredit {
		t.Fatalf("drop from 14 to 11: %+v", r)
	}
}

func TestAddCode_NotFound(t *testing.T) {
	e := NewEngine(MustCatalog(nil))
	rec := NewStudentRecord("n", "i")
	r := e.AddCode(rec, "NOPE")
	if r.Reason != ReasonCourseNotFound || !errors.Is(r.Err(), ErrCourseNotFound) {
		t.Fatalf("got %+v", r)
	}
	if r := e.DropCode(rec, "NOPE"); r.Reason != ReasonCourseNotFound {
		t.Fatalf("drop: got %+v", r)
	}
}

func TestSummary(t *testing.T) {
	e, rec, _ := fourteenCredits(t)
	s := e.Summary(rec)
	if s.TotalCredit != 14 || len(s.Courses) != 4 || s.ID != "i" || !s.MinimumReached {
		t.Fatalf("summary = %+v", s)
	}
	if s.Courses[0].Code != "A" || s.Courses[3].Code != "D" {
		t.Fatalf("summary order: %s..%s", s.Courses[0].Code, s.Courses[3].Code)
	}
}

func TestRejectionErrorMessage(t *testing.T) {
	err := Result{Status: StatusRejected, Reason: ReasonScheduleClash, Code: "B", ConflictCode: "A"}.Err()
	if got := err.Error(); got != "schedule clash: B (conflicts with A)" {
		t.Fatalf("Error() = %q", got)
	}
	if (Result{Status: StatusAdded}).Err() != nil {
		t.Fatal("applied result returned an error")
	}
}
