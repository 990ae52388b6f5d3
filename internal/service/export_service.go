package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/enrollment"
	"github.com/xuri/excelize/v2"
)

// ErrExportGenerateFail is returned when a spreadsheet cannot be written.
var ErrExportGenerateFail = errors.New("failed to generate export file")

// TeachingWeeks is how many weekly occurrences a calendar export repeats.
const TeachingWeeks = 14

const timetableSheet = "Timetable"

// ExportService renders a student's timetable as a spreadsheet or calendar.
type ExportService struct {
	termStart time.Time
	now       func() time.Time
	log       zerolog.Logger
}

// NewExportService creates an ExportService. A zero termStart anchors
// calendar exports at the Monday following the export.
func NewExportService(termStart time.Time, log zerolog.Logger) *ExportService {
	return &ExportService{
		termStart: termStart,
		now:       time.Now,
		log:       log.With().Str("component", "export_service").Logger(),
	}
}

// FirstWeek returns midnight of the Monday the calendar starts on.
func (s *ExportService) FirstWeek() time.Time {
	anchor := s.termStart
	if anchor.IsZero() {
		anchor = s.now()
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	offset := (int(time.Monday) - int(anchor.Weekday()) + 7) % 7
	if offset == 0 && s.termStart.IsZero() {
		offset = 7
	}
	return anchor.AddDate(0, 0, offset)
}

// TimetableXLSX writes the weekly grid, one row per day and one column per
// hour, followed by a list of enrolled courses.
func (s *ExportService) TimetableXLSX(sum enrollment.Summary, grid *enrollment.Grid) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(timetableSheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	hours := grid.Hours()
	lastCol := colName(len(hours))

	f.SetColWidth(timetableSheet, "A", "A", 14)
	f.SetColWidth(timetableSheet, "B", lastCol, 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	busyStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(timetableSheet, "A1", fmt.Sprintf("%s (%s) - %d credits", sum.Name, sum.ID, sum.TotalCredit))
	f.MergeCell(timetableSheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(timetableSheet, "A1", "A1", headerStyle)

	row := 2
	f.SetCellValue(timetableSheet, cell("A", row), "Day")
	for i, h := range hours {
		f.SetCellValue(timetableSheet, cell(colName(i+1), row), fmt.Sprintf("%02d:00", h))
	}
	f.SetCellStyle(timetableSheet, cell("A", row), cell(lastCol, row), headerStyle)

	for _, d := range enrollment.Days {
		row++
		f.SetCellValue(timetableSheet, cell("A", row), d.String())
		for i, code := range grid.Row(d) {
			if code == "" {
				continue
			}
			ref := cell(colName(i+1), row)
			f.SetCellValue(timetableSheet, ref, code)
			f.SetCellStyle(timetableSheet, ref, ref, busyStyle)
		}
	}

	row += 2
	for i, title := range []string{"Code", "Name", "Credit", "Schedule", "Location"} {
		f.SetCellValue(timetableSheet, cell(colName(i), row), title)
	}
	f.SetCellStyle(timetableSheet, cell("A", row), cell(colName(4), row), headerStyle)
	for _, c := range sum.Courses {
		row++
		f.SetCellValue(timetableSheet, cell("A", row), c.Code)
		f.SetCellValue(timetableSheet, cell("B", row), c.Name)
		f.SetCellValue(timetableSheet, cell("C", row), c.Credit)
		f.SetCellValue(timetableSheet, cell("D", row), c.Schedule())
		f.SetCellValue(timetableSheet, cell("E", row), c.Location)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.log.Error().Err(err).Str("matric", sum.ID).Msg("Failed to write timetable workbook")
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("timetable_%s.xlsx", sum.ID), nil
}

// TimetableICS renders one weekly recurring event per scheduled block.
func (s *ExportService) TimetableICS(sum enrollment.Summary, grid *enrollment.Grid) (string, string) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//course-registration//timetable//EN")
	cal.SetName(fmt.Sprintf("Timetable %s", sum.ID))

	stamp := s.now().UTC()
	monday := s.FirstWeek()
	for i, e := range grid.Entries() {
		day := monday.AddDate(0, 0, int(e.Interval.Day))
		start := day.Add(time.Duration(e.Interval.StartHour) * time.Hour)
		end := day.Add(time.Duration(e.Interval.EndHour) * time.Hour)

		event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@course-registration", sum.ID, e.Course.Code, i))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s %s", e.Course.Code, e.Course.Name))
		if e.Course.Location != "" {
			event.SetLocation(e.Course.Location)
		}
		event.SetDescription(fmt.Sprintf("%d credits", e.Course.Credit))
		event.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", TeachingWeeks))
	}

	return cal.Serialize(), fmt.Sprintf("timetable_%s.ics", sum.ID)
}

// colName maps a zero-based column index to its letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
