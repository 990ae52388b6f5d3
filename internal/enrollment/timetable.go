package enrollment

import "fmt"

// Displayed window of the timetable: 08:00 up to 17:00.
const (
	FirstHour = 8
	LastHour  = 17
)

const hoursPerDay = LastHour - FirstHour

// Grid is a Monday-Friday by hour view of a record's courses. It is a
// snapshot; rebuild it with Project after every add or drop.
type Grid struct {
	cells   [len(dayNames)][hoursPerDay]*Course
	entries []GridEntry
}

// GridEntry is one course interval as placed on the grid, before clipping.
type GridEntry struct {
	Course   *Course
	Interval TimeInterval
}

// Project lays rec's courses onto a fresh Grid. Hours outside the window
// are clipped. Two courses on the same cell cannot come out of the Engine;
// if they do, Project panics.
func Project(rec *StudentRecord) *Grid {
	g := &Grid{}
	for _, course := range rec.enrolled {
		for _, iv := range course.Intervals {
			g.entries = append(g.entries, GridEntry{Course: course, Interval: iv})
			for h := max(iv.StartHour, FirstHour); h < min(iv.EndHour, LastHour); h++ {
				cell := &g.cells[iv.Day][h-FirstHour]
				if *cell != nil && *cell != course {
					panic(fmt.Sprintf("enrollment: %s and %s both occupy %s %02d:00",
						(*cell).Code, course.Code, iv.Day, h))
				}
				*cell = course
			}
		}
	}
	return g
}

// Cell returns the course code at day and hour, or "" when the cell is free
// or outside the window.
func (g *Grid) Cell(day Day, hour int) string {
	if c := g.CourseAt(day, hour); c != nil {
		return c.Code
	}
	return ""
}

// CourseAt returns the course at day and hour, or nil.
func (g *Grid) CourseAt(day Day, hour int) *Course {
	if !day.Valid() || hour < FirstHour || hour >= LastHour {
		return nil
	}
	return g.cells[day][hour-FirstHour]
}

// Row returns the codes for one day, one entry per hour in Hours().
func (g *Grid) Row(day Day) []string {
	row := make([]string, hoursPerDay)
	for i := range row {
		row[i] = g.Cell(day, FirstHour+i)
	}
	return row
}

// Hours returns the hours shown as columns.
func (g *Grid) Hours() []int {
	hours := make([]int, hoursPerDay)
	for i := range hours {
		hours[i] = FirstHour + i
	}
	return hours
}

// Entries returns every enrolled interval, including ones clipped from the
// visible window.
func (g *Grid) Entries() []GridEntry {
	return append([]GridEntry(nil), g.entries...)
}

// IsEmpty reports whether no cell is occupied.
func (g *Grid) IsEmpty() bool {
	for _, day := range g.cells {
		for _, c := range day {
			if c != nil {
				return false
			}
		}
	}
	return true
}
