// Package catalogio reads and writes course catalogs in the CSV and JSON
// layouts used by the registration office.
package catalogio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stemsi/course-registration/internal/enrollment"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// LoadFile reads a catalog file, picking the decoder by extension (.csv or .json).
func LoadFile(path string) (*enrollment.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	courses, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return enrollment.NewCatalog(courses)
}

// Decode parses courses from r in the given format (".csv", "csv", ".json", "json").
func Decode(r io.Reader, format string) ([]*enrollment.Course, error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "csv":
		return ReadCSV(r)
	case "json":
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveFile writes courses to path, picking the encoder by extension.
func SaveFile(path string, courses []*enrollment.Course) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = WriteCSV(f, courses)
	case ".json":
		err = WriteJSON(f, courses)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// LoadOrDefault loads path if it exists and otherwise returns the built-in
// catalog. The second result reports whether the defaults were used.
func LoadOrDefault(path string) (*enrollment.Catalog, bool, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			cat, err := LoadFile(path)
			return cat, false, err
		}
	}
	cat, err := enrollment.NewCatalog(DefaultCourses())
	return cat, true, err
}

// canonicalCode is the form every lookup uses: trimmed and upper-cased.
func canonicalCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func parseSlots(code string, slots [][2]string) ([]enrollment.TimeInterval, error) {
	out := make([]enrollment.TimeInterval, 0, len(slots))
	for _, s := range slots {
		iv, err := enrollment.ParseSlot(s[0], s[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", code, err)
		}
		out = append(out, iv)
	}
	return out, nil
}
