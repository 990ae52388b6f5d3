package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stemsi/course-registration/internal/catalogio"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/xuri/excelize/v2"
)

func enrolledRecord(t *testing.T, codes ...string) (*enrollment.Engine, *enrollment.StudentRecord) {
	t.Helper()
	engine := enrollment.NewEngine(enrollment.MustCatalog(catalogio.DefaultCourses()))
	rec := enrollment.NewStudentRecord("Nur Aisyah", "A25CS0001")
	for _, code := range codes {
		if r := engine.AddCode(rec, code); !r.OK() {
			t.Fatalf("AddCode(%s) = %+v", code, r)
		}
	}
	return engine, rec
}

func TestExportService_FirstWeek(t *testing.T) {
	wed := time.Date(2026, time.October, 21, 15, 30, 0, 0, time.UTC)
	mon := time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)

	s := NewExportService(time.Time{}, testLog)
	s.now = func() time.Time { return wed }
	if got := s.FirstWeek(); !got.Equal(mon) {
		t.Fatalf("FirstWeek from Wednesday = %v, want %v", got, mon)
	}
	s.now = func() time.Time { return mon.Add(9 * time.Hour) }
	if got := s.FirstWeek(); !got.Equal(mon.AddDate(0, 0, 7)) {
		t.Fatalf("FirstWeek from Monday = %v, want the following Monday", got)
	}

	term := NewExportService(mon, testLog)
	if got := term.FirstWeek(); !got.Equal(mon) {
		t.Fatalf("FirstWeek with term start = %v, want %v", got, mon)
	}
}

func TestExportService_TimetableXLSX(t *testing.T) {
	engine, rec := enrolledRecord(t, "SAIA1113", "SAIA1153")
	s := NewExportService(time.Time{}, testLog)

	buf, name, err := s.TimetableXLSX(engine.Summary(rec), enrollment.Project(rec))
	if err != nil {
		t.Fatalf("TimetableXLSX: %v", err)
	}
	if name != "timetable_A25CS0001.xlsx" {
		t.Fatalf("filename = %q", name)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	tests := map[string]string{
		"A3": "Monday",
		"B3": "SAIA1113", // Monday 08:00
		"C3": "SAIA1113", // Monday 09:00
		"D3": "",
		"B7": "SAIA1153", // Friday 08:00
		"J2": "16:00",
	}
	for ref, want := range tests {
		got, err := f.GetCellValue(timetableSheet, ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", ref, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}
}

func TestExportService_TimetableICS(t *testing.T) {
	engine, rec := enrolledRecord(t, "SAIA1113", "ULRS1032")
	mon := time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)
	s := NewExportService(mon, testLog)

	out, name := s.TimetableICS(engine.Summary(rec), enrollment.Project(rec))
	if name != "timetable_A25CS0001.ics" {
		t.Fatalf("filename = %q", name)
	}
	// SAIA1113 meets twice a week, ULRS1032 once.
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("VEVENT count = %d, want 3", got)
	}
	for _, want := range []string{
		"FREQ=WEEKLY;COUNT=14",
		"DTSTART:20261026T080000Z",
		"DTSTART:20261027T080000Z",
		"DTSTART:20261028T100000Z",
		"SAIA1113 ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
}
