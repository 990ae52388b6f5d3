package enrollment

import (
	"fmt"
	"strconv"
	"strings"
)

// Day is a teaching weekday.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Days lists the teaching week in order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// String returns the full English day name.
func (d Day) String() string {
	if !d.Valid() {
		return "Day(" + strconv.Itoa(int(d)) + ")"
	}
	return dayNames[d]
}

// Short returns the three-letter day name.
func (d Day) Short() string {
	return d.String()[:3]
}

// Valid reports whether d is Monday through Friday.
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

// ParseDay accepts a full or three-letter day name, case-insensitively.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for i, name := range dayNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidInterval, s)
}

// MarshalText encodes the day as its full name.
func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: day %d", ErrInvalidInterval, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a full or short day name.
func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TimeInterval is a recurring weekly slot covering [StartHour, EndHour) on Day.
type TimeInterval struct {
	Day       Day `json:"day"`
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// NewTimeInterval validates 0 <= start < end <= 24 on a weekday.
func NewTimeInterval(day Day, start, end int) (TimeInterval, error) {
	if !day.Valid() {
		return TimeInterval{}, fmt.Errorf("%w: day %d", ErrInvalidInterval, int(day))
	}
	if start < 0 || end > 24 || start >= end {
		return TimeInterval{}, fmt.Errorf("%w: hours %d-%d", ErrInvalidInterval, start, end)
	}
	return TimeInterval{Day: day, StartHour: start, EndHour: end}, nil
}

// ParseSlot parses a day name and an "HH:00-HH:00" span.
func ParseSlot(day, span string) (TimeInterval, error) {
	d, err := ParseDay(day)
	if err != nil {
		return TimeInterval{}, err
	}
	from, to, ok := strings.Cut(strings.TrimSpace(span), "-")
	if !ok {
		return TimeInterval{}, fmt.Errorf("%w: span %q", ErrInvalidInterval, span)
	}
	start, err := parseHour(from)
	if err != nil {
		return TimeInterval{}, err
	}
	end, err := parseHour(to)
	if err != nil {
		return TimeInterval{}, err
	}
	return NewTimeInterval(d, start, end)
}

func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if ok && mm != "00" {
		return 0, fmt.Errorf("%w: %q is not on the hour", ErrInvalidInterval, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: hour %q", ErrInvalidInterval, s)
	}
	return h, nil
}

// Span formats the hours as "08:00-10:00".
func (t TimeInterval) Span() string {
	return fmt.Sprintf("%02d:00-%02d:00", t.StartHour, t.EndHour)
}

func (t TimeInterval) String() string {
	return t.Day.Short() + " " + t.Span()
}

// Overlaps reports whether a and b share at least one hour on the same day.
// Intervals are half-open, so one ending at 10 and another starting at 10
// do not overlap.
func Overlaps(a, b TimeInterval) bool {
	return a.Day == b.Day && max(a.StartHour, b.StartHour) < min(a.EndHour, b.EndHour)
}
