package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
)

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeValidation:
		return http.StatusUnprocessableEntity
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError writes err using its aggregate code. Internal failures
// never leak their cause to the client.
func RespondAggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusFor(code)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	body := APIError{Message: msg, Code: string(code)}
	if id, ok := domainagg.ConflictingEventID(err); ok {
		body.EventID = id.String()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}
