package enrollment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInterval = errors.New("invalid time interval")
	ErrInvalidCourse   = errors.New("invalid course")
)

// Rejection sentinels. A rejected Result's Err() matches exactly one of these
// with errors.Is.
var (
	ErrAlreadyEnrolled      = errors.New("course already enrolled")
	ErrCreditLimitExceeded  = errors.New("credit limit exceeded")
	ErrScheduleClash        = errors.New("schedule clash")
	ErrNotEnrolled          = errors.New("course not enrolled")
	ErrBelowMinimumCredit   = errors.New("below minimum credit")
	ErrCourseNotFound       = errors.New("course not found")
	ErrDuplicateCatalogCode = errors.New("duplicate catalog code")
)

// Reason names why an operation was rejected.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonAlreadyEnrolled      Reason = "AlreadyEnrolled"
	ReasonCreditLimitExceeded  Reason = "CreditLimitExceeded"
	ReasonScheduleClash        Reason = "ScheduleClash"
	ReasonNotEnrolled          Reason = "NotEnrolled"
	ReasonBelowMinimumCredit   Reason = "BelowMinimumCredit"
	ReasonCourseNotFound       Reason = "CourseNotFound"
	ReasonDuplicateCatalogCode Reason = "DuplicateCatalogCode"
)

var reasonErrors = map[Reason]error{
	ReasonAlreadyEnrolled:      ErrAlreadyEnrolled,
	ReasonCreditLimitExceeded:  ErrCreditLimitExceeded,
	ReasonScheduleClash:        ErrScheduleClash,
	ReasonNotEnrolled:          ErrNotEnrolled,
	ReasonBelowMinimumCredit:   ErrBelowMinimumCredit,
	ReasonCourseNotFound:       ErrCourseNotFound,
	ReasonDuplicateCatalogCode: ErrDuplicateCatalogCode,
}

// Status is the outcome of an add or drop.
type Status string

const (
	StatusAdded    Status = "Added"
	StatusDropped  Status = "Dropped"
	StatusRejected Status = "Rejected"
)

// Result is returned by every engine operation instead of an error, so the
// caller picks how to surface it.
type Result struct {
	Status Status
	Reason Reason
	// Code is the course the operation was about.
	Code string
	// ConflictCode is set for ReasonScheduleClash to the enrolled course
	// that clashes.
	ConflictCode string
}

// OK reports whether the operation was applied.
func (r Result) OK() bool {
	return r.Status != StatusRejected
}

// Err returns nil for applied operations and a *RejectionError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &RejectionError{Reason: r.Reason, Code: r.Code, ConflictCode: r.ConflictCode}
}

func added(code string) Result   { return Result{Status: StatusAdded, Code: code} }
func dropped(code string) Result { return Result{Status: StatusDropped, Code: code} }

func rejected(reason Reason, code string) Result {
	return Result{Status: StatusRejected, Reason: reason, Code: code}
}

// RejectionError carries a rejection Reason as an error value.
type RejectionError struct {
	Reason       Reason
	Code         string
	ConflictCode string
}

func (e *RejectionError) Error() string {
	msg := e.Unwrap().Error()
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Code)
	}
	if e.ConflictCode != "" {
		msg = fmt.Sprintf("%s (conflicts with %s)", msg, e.ConflictCode)
	}
	return msg
}

// Unwrap returns the sentinel for the reason.
func (e *RejectionError) Unwrap() error {
	if err, ok := reasonErrors[e.Reason]; ok {
		return err
	}
	return fmt.Errorf("rejected: %s", e.Reason)
}
