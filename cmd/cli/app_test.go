package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/catalogio"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/stemsi/course-registration/internal/store"
)

func newTestApp(t *testing.T, path, input string) (*app, *bytes.Buffer) {
	t.Helper()
	students, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	out := &bytes.Buffer{}
	return &app{
		engine:       enrollment.NewEngine(enrollment.MustCatalog(catalogio.DefaultCourses())),
		students:     students,
		matricPrefix: "A25",
		in:           strings.NewReader(input),
		out:          out,
		log:          zerolog.New(io.Discard),
	}, out
}

func TestRun_RegisterAddSaveThenLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")

	input := strings.Join([]string{
		"1", "  nur   aisyah ", "a25cs0001",
		"3", "SAIA1113",
		"3", "saia1123",
		"3", "discrete",
		"7",
	}, "\n") + "\n"
	a, out := newTestApp(t, path, input)
	if err := a.run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Welcome, Nur Aisyah.",
		"SAIA1113 added. Total credits: 3",
		"SAIA1123 clashes with SAIA1113.",
		"Using SAIA1143 DISCRETE MATHEMATICS.",
		"SAIA1143 added. Total credits: 6",
		"Saved. Goodbye.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}

	input = strings.Join([]string{"2", "A25CS0001", "4", "SAIA1113", "5", "7"}, "\n") + "\n"
	a, out = newTestApp(t, path, input)
	if err := a.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	text = out.String()
	for _, want := range []string{
		"Welcome back, Nur Aisyah.",
		"SAIA1113 dropped. Total credits: 3",
		"Total credits: 3 (min 12, max 21)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_RejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	input := strings.Join([]string{
		"3",
		"1", "Al", "A25CS1",
		"1", "Ali Bin Abu", "B25CS1",
		"2", "A25NOPE",
		"9",
	}, "\n") + "\n"
	a, out := newTestApp(t, path, input)
	if err := a.run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Please register or log in first.",
		"Name must be at least 3 characters.",
		"Matric number must start with A25",
		"No student with that matric number.",
		"Invalid option.",
		"Saved. Goodbye.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	cat := enrollment.MustCatalog(catalogio.DefaultCourses())
	engine := enrollment.NewEngine(cat)
	rec := enrollment.NewStudentRecord("Nur Aisyah", "A25CS0001")
	engine.AddCode(rec, "SAIA1113")

	var wide bytes.Buffer
	renderGrid(&wide, enrollment.Project(rec), 0)
	lines := strings.Split(strings.TrimRight(wide.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want header + 5 days", len(lines))
	}
	if !strings.Contains(lines[0], "08:00") || !strings.Contains(lines[0], "16:00") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Monday") || strings.Count(lines[1], "SAIA1113") != 2 {
		t.Errorf("monday row = %q", lines[1])
	}
	if strings.Contains(lines[3], "SAIA1113") {
		t.Errorf("wednesday row = %q", lines[3])
	}

	var narrow bytes.Buffer
	renderGrid(&narrow, enrollment.Project(rec), 80)
	if !strings.Contains(narrow.String(), "Mon") || strings.Contains(narrow.String(), "Monday") {
		t.Errorf("narrow grid should use short day names:\n%s", narrow.String())
	}
}
