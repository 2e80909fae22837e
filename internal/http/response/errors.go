package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
)

// StatusForCode maps aggregate error codes onto HTTP statuses.
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation, domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondErr writes err using the status it carries. Unclassified errors
// become a 500 without leaking their text.
func RespondErr(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, ae)
		return
	}

	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		status := StatusForCode(aggErr.Code)
		msg := aggErr.Detail()
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
		_ = c.Error(err)
		RespondError(c, status, string(aggErr.Code), errors.New(msg))
		return
	}

	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
}
