package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/course-registration/internal/enrollment"
)

// RejectionStatus maps an engine rejection reason to its HTTP status and code.
func RejectionStatus(reason enrollment.Reason) (int, ErrCode) {
	switch reason {
	case enrollment.ReasonAlreadyEnrolled:
		return http.StatusConflict, ErrAlreadyEnrolled
	case enrollment.ReasonCreditLimitExceeded:
		return http.StatusUnprocessableEntity, ErrCreditLimitExceeded
	case enrollment.ReasonScheduleClash:
		return http.StatusConflict, ErrScheduleClash
	case enrollment.ReasonNotEnrolled:
		return http.StatusNotFound, ErrNotEnrolled
	case enrollment.ReasonBelowMinimumCredit:
		return http.StatusUnprocessableEntity, ErrBelowMinimumCredit
	case enrollment.ReasonCourseNotFound:
		return http.StatusNotFound, ErrCourseNotFound
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

// FailRejection sends the error response for a rejected add or drop.
// A schedule clash names the conflicting course in the "conflict" field.
func FailRejection(c *gin.Context, r enrollment.Result) {
	status, code := RejectionStatus(r.Reason)
	if r.ConflictCode != "" {
		FailWithFields(c, status, code, map[string]string{"conflict": r.ConflictCode})
		return
	}
	Fail(c, status, code)
}
