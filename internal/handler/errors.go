package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

// Error codes returned by the JSON API.
const (
	CodePostNotFound      = "post_not_found"
	CodeTypeNotAllowed    = "post_type_not_allowed"
	CodeInvalidTarget     = "invalid_target_post_type"
	CodeForbidden         = "rest_forbidden"
	CodeInvalidParam      = "rest_invalid_param"
	CodeDuplicationFailed = "duplication_failed"
)

// errorKinds maps error kinds to API codes and statuses.
var errorKinds = []struct {
	kind   error
	code   string
	status int
}{
	{models.ErrNotFound, CodePostNotFound, http.StatusNotFound},
	{models.ErrTypeNotSupported, CodeTypeNotAllowed, http.StatusForbidden},
	{models.ErrTargetNotAllowed, CodeInvalidTarget, http.StatusForbidden},
	{models.ErrForbidden, CodeForbidden, http.StatusForbidden},
}

func errorCode(err error) string {
	code, _ := classify(err)
	return code
}

// classify returns the API code and status for err. Unknown errors are
// duplication failures.
func classify(err error) (string, int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			return k.code, k.status
		}
	}
	return CodeDuplicationFailed, http.StatusInternalServerError
}

// userMessage returns the translated caller-facing text for err.
func userMessage(p *message.Printer, err error) string {
	if rej, ok := validator.AsRejection(err); ok {
		return p.Sprintf(rej.Message)
	}
	if errors.Is(err, models.ErrNotFound) {
		return p.Sprintf(i18n.MsgNotFound)
	}
	return p.Sprintf(i18n.MsgDuplicationFailed)
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Data    ErrorData `json:"data"`
}

// ErrorData carries the HTTP status inside an error body.
type ErrorData struct {
	Status int `json:"status"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: msg, Data: ErrorData{Status: status}})
}
