package enrollment

import "fmt"

// StudentSnapshot is the serializable form of a StudentRecord. Courses are
// stored by code in enrollment order.
type StudentSnapshot struct {
	Name           string   `json:"name"`
	ID             string   `json:"id"`
	Courses        []string `json:"courses"`
	TotalCredit    int      `json:"total_credit"`
	MinimumReached bool     `json:"minimum_reached"`
}

// Snapshot captures rec for storage.
func (s *StudentRecord) Snapshot() StudentSnapshot {
	codes := make([]string, len(s.enrolled))
	for i, c := range s.enrolled {
		codes[i] = c.Code
	}
	return StudentSnapshot{
		Name:           s.name,
		ID:             s.id,
		Courses:        codes,
		TotalCredit:    s.totalCredit,
		MinimumReached: s.minimumReached,
	}
}

// Restore rebuilds a record from a snapshot by replaying its courses
// through Add, so a stored record that breaks the credit limit or has a
// clash is refused. The stored TotalCredit is ignored and recomputed.
func (e *Engine) Restore(snap StudentSnapshot) (*StudentRecord, error) {
	rec := NewStudentRecord(snap.Name, snap.ID)
	for _, code := range snap.Courses {
		if r := e.AddCode(rec, code); !r.OK() {
			return nil, fmt.Errorf("restore %s: %w", snap.ID, r.Err())
		}
	}
	rec.minimumReached = rec.minimumReached || snap.MinimumReached
	return rec, nil
}
