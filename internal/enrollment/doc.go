// Package enrollment holds the course registration rules: weekly time
// intervals and their overlap test, the course catalog, the per-student
// enrollment record, the add/drop engine and the timetable projection.
//
// Everything here is in-memory and synchronous. Callers resolve and
// normalize input (trimming, upper-casing codes) before calling in, and
// decide how a Result is shown or persisted.
package enrollment
