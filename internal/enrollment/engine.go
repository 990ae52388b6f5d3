package enrollment

// Credit bounds on a student's total load.
const (
	MaxCredit = 21
	MinCredit = 12
)

// Engine validates and applies add/drop operations against a Catalog.
//
// The engine itself keeps no per-student state. A StudentRecord must not be
// passed to two operations at once; callers serving several sessions
// serialize calls per student.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an Engine over catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog returns the catalog the engine resolves codes against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Add enrolls rec in course. Checks run in a fixed order and the first
// failure is returned: duplicate, credit limit, then schedule clash against
// each enrolled course in enrollment order. rec is only modified on success.
func (e *Engine) Add(rec *StudentRecord, course *Course) Result {
	if rec.IsEnrolled(course.Code) {
		return rejected(ReasonAlreadyEnrolled, course.Code)
	}
	if rec.totalCredit+course.Credit > MaxCredit {
		return rejected(ReasonCreditLimitExceeded, course.Code)
	}
	if conflict := findClash(rec, course); conflict != nil {
		r := rejected(ReasonScheduleClash, course.Code)
		r.ConflictCode = conflict.Code
		return r
	}
	rec.enrol(course)
	return added(course.Code)
}

// Drop removes course from rec. Once rec has reached MinCredit, a drop that
// would leave it below MinCredit is rejected.
func (e *Engine) Drop(rec *StudentRecord, course *Course) Result {
	i := rec.indexOf(course.Code)
	if i < 0 {
		return rejected(ReasonNotEnrolled, course.Code)
	}
	if rec.minimumReached && rec.totalCredit-rec.enrolled[i].Credit < MinCredit {
		return rejected(ReasonBelowMinimumCredit, course.Code)
	}
	rec.withdraw(i)
	return dropped(course.Code)
}

// AddCode resolves code in the catalog and adds it.
func (e *Engine) AddCode(rec *StudentRecord, code string) Result {
	course, ok := e.catalog.Lookup(code)
	if !ok {
		return rejected(ReasonCourseNotFound, code)
	}
	return e.Add(rec, course)
}

// DropCode drops code. A code that is enrolled is dropped even if it has
// since left the catalog.
func (e *Engine) DropCode(rec *StudentRecord, code string) Result {
	if i := rec.indexOf(code); i >= 0 {
		return e.Drop(rec, rec.enrolled[i])
	}
	course, ok := e.catalog.Lookup(code)
	if !ok {
		return rejected(ReasonCourseNotFound, code)
	}
	return e.Drop(rec, course)
}

// Summary is a read-only view of a record.
type Summary struct {
	Name           string    `json:"name"`
	ID             string    `json:"id"`
	Courses        []*Course `json:"courses"`
	TotalCredit    int       `json:"total_credit"`
	MaxCredit      int       `json:"max_credit"`
	MinCredit      int       `json:"min_credit"`
	MinimumReached bool      `json:"minimum_reached"`
}

// Summary returns the enrolled courses and credit total of rec.
func (e *Engine) Summary(rec *StudentRecord) Summary {
	return Summary{
		Name:           rec.name,
		ID:             rec.id,
		Courses:        rec.Enrolled(),
		TotalCredit:    rec.totalCredit,
		MaxCredit:      MaxCredit,
		MinCredit:      MinCredit,
		MinimumReached: rec.minimumReached,
	}
}

func findClash(rec *StudentRecord, course *Course) *Course {
	for _, enrolled := range rec.enrolled {
		if course.ClashesWith(enrolled) {
			return enrolled
		}
	}
	return nil
}
