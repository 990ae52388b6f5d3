package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/stemsi/course-registration/internal/service"
	"github.com/stemsi/course-registration/internal/store"
	"github.com/stemsi/course-registration/internal/validator"
)

// Below this width the grid uses short day names and bare hours.
const wideGridWidth = 110

type app struct {
	engine       *enrollment.Engine
	students     *store.FileStore
	matricPrefix string
	width        int

	in  io.Reader
	out io.Writer
	log zerolog.Logger

	scanner *bufio.Scanner
	current *enrollment.StudentRecord
}

// run drives the menu until the user saves and exits or input ends. Both
// paths write the store; only a failed save is returned.
func (a *app) run() error {
	a.scanner = bufio.NewScanner(a.in)
	for {
		a.printMenu()
		choice, ok := a.prompt("Choose an option: ")
		if !ok {
			fmt.Fprintln(a.out)
			return a.save()
		}

		switch choice {
		case "1":
			a.register()
		case "2":
			a.login()
		case "3":
			a.addCourse()
		case "4":
			a.dropCourse()
		case "5":
			a.viewRegistered()
		case "6":
			a.viewTimetable()
		case "7", "q", "Q":
			return a.save()
		default:
			fmt.Fprintln(a.out, "Invalid option.")
		}
	}
}

func (a *app) printMenu() {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "=== Course Registration ===")
	if a.current != nil {
		fmt.Fprintf(a.out, "Logged in as %s (%s)\n", a.current.Name(), a.current.ID())
	}
	fmt.Fprintln(a.out, "1. Register")
	fmt.Fprintln(a.out, "2. Login")
	fmt.Fprintln(a.out, "3. Add course")
	fmt.Fprintln(a.out, "4. Drop course")
	fmt.Fprintln(a.out, "5. View registered courses")
	fmt.Fprintln(a.out, "6. View timetable")
	fmt.Fprintln(a.out, "7. Save & exit")
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *app) register() {
	name, ok := a.prompt("Name: ")
	if !ok {
		return
	}
	matric, ok := a.prompt(fmt.Sprintf("Matric number (starts with %s): ", a.matricPrefix))
	if !ok {
		return
	}

	name, matric, err := service.CheckRegistration(name, matric, a.matricPrefix)
	switch {
	case errors.Is(err, service.ErrNameTooShort):
		fmt.Fprintf(a.out, "Name must be at least %d characters.\n", service.MinNameLength)
		return
	case errors.Is(err, service.ErrInvalidMatric):
		fmt.Fprintf(a.out, "Matric number must start with %s followed by letters and digits.\n", a.matricPrefix)
		return
	}

	rec := enrollment.NewStudentRecord(name, matric)
	if err := a.students.Create(rec.Snapshot()); err != nil {
		fmt.Fprintf(a.out, "Matric number %s is already registered.\n", matric)
		return
	}
	a.current = rec
	a.log.Info().Str("matric", matric).Msg("Student registered")
	fmt.Fprintf(a.out, "Welcome, %s.\n", name)
}

func (a *app) login() {
	matric, ok := a.prompt("Matric number: ")
	if !ok {
		return
	}
	snap, found := a.students.Get(validator.NormalizeMatric(matric))
	if !found {
		fmt.Fprintln(a.out, "No student with that matric number.")
		return
	}
	rec, err := a.engine.Restore(snap)
	if err != nil {
		a.log.Warn().Err(err).Str("matric", snap.ID).Msg("Stored record does not fit the current catalog")
		fmt.Fprintln(a.out, "This record cannot be loaded against the current course catalog.")
		return
	}
	a.current = rec
	fmt.Fprintf(a.out, "Welcome back, %s.\n", rec.Name())
}

func (a *app) requireLogin() bool {
	if a.current == nil {
		fmt.Fprintln(a.out, "Please register or log in first.")
		return false
	}
	return true
}

func (a *app) addCourse() {
	if !a.requireLogin() {
		return
	}
	a.listCatalog()
	raw, ok := a.prompt("Course code to add: ")
	if !ok {
		return
	}
	code := a.resolveCode(raw)
	a.report(a.engine.AddCode(a.current, code))
}

func (a *app) dropCourse() {
	if !a.requireLogin() {
		return
	}
	if len(a.current.Enrolled()) == 0 {
		fmt.Fprintln(a.out, "You have no registered courses.")
		return
	}
	a.viewRegistered()
	raw, ok := a.prompt("Course code to drop: ")
	if !ok {
		return
	}
	a.report(a.engine.DropCode(a.current, service.NormalizeCode(raw)))
}

// resolveCode accepts a partial code or name when it matches exactly one
// catalog course.
func (a *app) resolveCode(raw string) string {
	code := service.NormalizeCode(raw)
	if _, ok := a.engine.Catalog().Lookup(code); ok || code == "" {
		return code
	}
	if matches := a.engine.Catalog().Search(raw); len(matches) == 1 {
		fmt.Fprintf(a.out, "Using %s %s.\n", matches[0].Code, matches[0].Name)
		return matches[0].Code
	}
	return code
}

func (a *app) report(res enrollment.Result) {
	if res.OK() {
		a.students.Put(a.current.Snapshot())
		verb := "added"
		if res.Status == enrollment.StatusDropped {
			verb = "dropped"
		}
		fmt.Fprintf(a.out, "%s %s. Total credits: %d\n", res.Code, verb, a.current.TotalCredit())
		return
	}

	switch res.Reason {
	case enrollment.ReasonCourseNotFound:
		fmt.Fprintf(a.out, "Course %s not found.\n", res.Code)
	case enrollment.ReasonAlreadyEnrolled:
		fmt.Fprintf(a.out, "You are already registered for %s.\n", res.Code)
	case enrollment.ReasonCreditLimitExceeded:
		fmt.Fprintf(a.out, "Adding %s would exceed %d credits.\n", res.Code, enrollment.MaxCredit)
	case enrollment.ReasonScheduleClash:
		fmt.Fprintf(a.out, "%s clashes with %s.\n", res.Code, res.ConflictCode)
	case enrollment.ReasonNotEnrolled:
		fmt.Fprintf(a.out, "You are not registered for %s.\n", res.Code)
	case enrollment.ReasonBelowMinimumCredit:
		fmt.Fprintf(a.out, "Dropping %s would leave you below %d credits.\n", res.Code, enrollment.MinCredit)
	default:
		fmt.Fprintln(a.out, res.Err())
	}
}

func (a *app) listCatalog() {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Code\tName\tCredit\tSchedule\tLocation")
	for _, c := range a.engine.Catalog().All() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", c.Code, c.Name, c.Credit, c.Schedule(), c.Location)
	}
	tw.Flush()
}

func (a *app) viewRegistered() {
	if !a.requireLogin() {
		return
	}
	sum := a.engine.Summary(a.current)
	if len(sum.Courses) == 0 {
		fmt.Fprintln(a.out, "You have no registered courses.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Code\tName\tCredit\tSchedule")
	for _, c := range sum.Courses {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Code, c.Name, c.Credit, c.Schedule())
	}
	tw.Flush()
	fmt.Fprintf(a.out, "Total credits: %d (min %d, max %d)\n", sum.TotalCredit, sum.MinCredit, sum.MaxCredit)
}

func (a *app) viewTimetable() {
	if !a.requireLogin() {
		return
	}
	renderGrid(a.out, enrollment.Project(a.current), a.width)
}

// renderGrid prints the Monday-Friday grid. width is the terminal width, 0
// when unknown.
func renderGrid(out io.Writer, grid *enrollment.Grid, width int) {
	wide := width == 0 || width >= wideGridWidth

	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', tabwriter.Debug)
	header := []string{"Day"}
	for _, h := range grid.Hours() {
		if wide {
			header = append(header, fmt.Sprintf("%02d:00", h))
		} else {
			header = append(header, fmt.Sprintf("%d", h))
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, day := range enrollment.Days {
		name := day.String()
		if !wide {
			name = day.Short()
		}
		row := append([]string{name}, grid.Row(day)...)
		for i := 1; i < len(row); i++ {
			if row[i] == "" {
				row[i] = "-"
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (a *app) save() error {
	if err := a.students.Save(); err != nil {
		return err
	}
	a.log.Info().Int("students", a.students.Len()).Str("file", a.students.Path()).Msg("Student records saved")
	fmt.Fprintln(a.out, "Saved. Goodbye.")
	return nil
}
